package effects

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestEasingEndpoints(t *testing.T) {
	for _, name := range Names() {
		e, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		if got := e(0); math.Abs(got) > 0.001 {
			t.Errorf("%s(0) = %f, expected 0", name, got)
		}
		if got := e(1); math.Abs(got-1) > 0.001 {
			t.Errorf("%s(1) = %f, expected 1", name, got)
		}
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"", false},
		{"linear", false},
		{"Ease-Out-Cubic", false},
		{"bounce", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ByName(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownEasing) {
					t.Errorf("Expected ErrUnknownEasing, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestTransitionProgress(t *testing.T) {
	tr := Transition{Duration: 600 * time.Millisecond, Ease: Linear}

	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{-time.Second, 0},
		{0, 0},
		{300 * time.Millisecond, 0.5},
		{600 * time.Millisecond, 1},
		{time.Second, 1},
	}
	for _, tt := range tests {
		if got := tr.Progress(tt.elapsed); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Progress(%s) = %f, expected %f", tt.elapsed, got, tt.want)
		}
	}

	if got := tr.Frames(30); got != 18 {
		t.Errorf("Expected 18 frames at 30fps, got %d", got)
	}
	if got := (Transition{}).Frames(30); got != 1 {
		t.Errorf("Expected at least one frame, got %d", got)
	}
}
