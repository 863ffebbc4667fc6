package director

import (
	"errors"
	"fmt"
	"time"

	"github.com/ivlev/carousel/internal/engine"
)

// Scenario is a scripted carousel session. Times are seconds from the start.
type Scenario struct {
	Version  string    `yaml:"version"`
	Width    int       `yaml:"width"`              // initial viewport width, 0 uses the director's
	Duration float64   `yaml:"duration"`           // total length; extends past the last command
	Autoplay float64   `yaml:"autoplay,omitempty"` // autoplay period, 0 disables it
	Commands []Command `yaml:"commands"`
}

// Command is one user action at a point in time
type Command struct {
	At     float64 `yaml:"at"`
	Action string  `yaml:"action"` // next, prev, jump, resize, pause, resume
	Index  int     `yaml:"index,omitempty"`
	Width  int     `yaml:"width,omitempty"`
	Reason string  `yaml:"reason,omitempty"`
}

const (
	ActionNext   = "next"
	ActionPrev   = "prev"
	ActionJump   = "jump"
	ActionResize = "resize"
	ActionPause  = "pause"
	ActionResume = "resume"
)

var ErrUnknownCommand = errors.New("unknown command")

// Keyframe is the carousel state right after an accepted change
type Keyframe struct {
	Time        float64             `yaml:"time"`
	Command     string              `yaml:"command"`
	Focus       int                 `yaml:"focus"`
	Slots       int                 `yaml:"slots"`
	Assignments []engine.Assignment `yaml:"assignments"`
}

// Validate checks actions and times without running anything
func (s *Scenario) Validate() error {
	for i, c := range s.Commands {
		switch c.Action {
		case ActionNext, ActionPrev, ActionJump, ActionPause, ActionResume:
		case ActionResize:
			if c.Width <= 0 {
				return fmt.Errorf("command %d: resize needs a positive width", i)
			}
		default:
			return fmt.Errorf("command %d: %w %q", i, ErrUnknownCommand, c.Action)
		}
		if c.At < 0 {
			return fmt.Errorf("command %d: negative time %.2f", i, c.At)
		}
	}
	if s.Duration < 0 || s.Autoplay < 0 {
		return fmt.Errorf("duration and autoplay period must not be negative")
	}
	return nil
}

// NewAutoplayScenario lets autoplay run for duration with no user input
func NewAutoplayScenario(period, duration time.Duration, width int) *Scenario {
	return &Scenario{
		Version:  "1.0",
		Width:    width,
		Duration: duration.Seconds(),
		Autoplay: period.Seconds(),
	}
}

// NewTourScenario jumps to every item in turn, dwelling on each
func NewTourScenario(count int, dwell time.Duration, width int) *Scenario {
	sc := &Scenario{
		Version:  "1.0",
		Width:    width,
		Duration: float64(count) * dwell.Seconds(),
	}
	for i := 1; i < count; i++ {
		sc.Commands = append(sc.Commands, Command{
			At:     float64(i) * dwell.Seconds(),
			Action: ActionJump,
			Index:  i,
		})
	}
	return sc
}
