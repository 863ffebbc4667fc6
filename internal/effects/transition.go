package effects

import (
	"math"
	"time"
)

// Transition describes one slide animation
type Transition struct {
	Duration time.Duration
	Ease     Easing
}

// Progress returns eased progress after elapsed, clamped to [0, 1]
func (t Transition) Progress(elapsed time.Duration) float64 {
	if t.Duration <= 0 || elapsed >= t.Duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	p := float64(elapsed) / float64(t.Duration)
	if t.Ease != nil {
		p = t.Ease(p)
	}
	return p
}

// Frames is the number of frames the transition spans at fps (at least 1)
func (t Transition) Frames(fps int) int {
	n := int(math.Round(t.Duration.Seconds() * float64(fps)))
	if n < 1 {
		n = 1
	}
	return n
}
