package effects

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Easing maps linear progress t ∈ [0, 1] to eased progress
type Easing func(t float64) float64

var ErrUnknownEasing = errors.New("unknown easing")

func Linear(t float64) float64 {
	return t
}

// EaseInOutCubic starts slow, speeds up, ends slow
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutCubic is fast at first and settles into the target
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

func EaseOutExpo(t float64) float64 {
	if t >= 1.0 {
		return 1.0
	}
	return 1 - math.Pow(2, -10*t)
}

var registry = map[string]Easing{
	"linear":            Linear,
	"ease-in-out-cubic": EaseInOutCubic,
	"ease-out-cubic":    EaseOutCubic,
	"ease-out-expo":     EaseOutExpo,
}

// ByName resolves an easing; empty selects ease-in-out-cubic
func ByName(name string) (Easing, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return EaseInOutCubic, nil
	}
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (known: %s)", ErrUnknownEasing, name, strings.Join(Names(), ", "))
	}
	return e, nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
