package director

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ivlev/carousel/internal/config"
)

func newTestDirector() *Director {
	return NewDirector(config.Default(), nil)
}

func focuses(res *Result) []int {
	out := make([]int, len(res.Keyframes))
	for i, kf := range res.Keyframes {
		out[i] = kf.Focus
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReplayDropsCommandsDuringLock(t *testing.T) {
	sc := &Scenario{
		Version: "1.0",
		Width:   1280,
		Commands: []Command{
			{At: 0, Action: ActionNext},
			{At: 0.3, Action: ActionNext},            // inside the 600ms lock
			{At: 0.7, Action: ActionNext},            // lock released at 0.6
			{At: 0.75, Action: ActionJump, Index: 0}, // locked again
			{At: 1.5, Action: ActionPrev},
		},
	}

	res, err := newTestDirector().Replay(sc, 6)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}

	if res.Dropped != 2 {
		t.Errorf("Expected 2 dropped commands, got %d", res.Dropped)
	}
	want := []int{0, 1, 2, 1}
	if got := focuses(res); !equalInts(got, want) {
		t.Errorf("Expected focus sequence %v, got %v", want, got)
	}
	for i, kf := range res.Keyframes {
		if kf.Slots != 5 {
			t.Errorf("Keyframe %d: expected 5 slots, got %d", i, kf.Slots)
		}
		if len(kf.Assignments) != 6 {
			t.Errorf("Keyframe %d: expected 6 assignments, got %d", i, len(kf.Assignments))
		}
		t.Logf("Keyframe %d: time=%.2fs command=%s focus=%d", i, kf.Time, kf.Command, kf.Focus)
	}
	if res.Keyframes[2].Time != 0.7 {
		t.Errorf("Expected third keyframe at 0.7s, got %.2f", res.Keyframes[2].Time)
	}
}

func TestReplayAutoplay(t *testing.T) {
	sc := NewAutoplayScenario(3*time.Second, 10*time.Second, 1280)

	res, err := newTestDirector().Replay(sc, 6)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}

	if res.Duration != 10 {
		t.Errorf("Expected duration 10s, got %.2f", res.Duration)
	}
	if res.Autoplay.Fired != 3 || res.Autoplay.Accepted != 3 {
		t.Errorf("Expected 3 accepted ticks, got %+v", res.Autoplay)
	}
	want := []int{0, 1, 2, 3}
	if got := focuses(res); !equalInts(got, want) {
		t.Errorf("Expected focus sequence %v, got %v", want, got)
	}
	if res.Keyframes[1].Command != "autoplay" || res.Keyframes[1].Time != 3 {
		t.Errorf("Unexpected first tick keyframe %+v", res.Keyframes[1])
	}
}

func TestReplayAutoplayTickDroppedByUserCommand(t *testing.T) {
	sc := &Scenario{
		Width:    1280,
		Duration: 6.5,
		Autoplay: 3,
		Commands: []Command{{At: 2.8, Action: ActionNext}},
	}

	res, err := newTestDirector().Replay(sc, 6)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}

	if res.Autoplay.Fired != 2 || res.Autoplay.Dropped != 1 {
		t.Errorf("Expected 2 ticks with 1 dropped, got %+v", res.Autoplay)
	}
	want := []int{0, 1, 2}
	if got := focuses(res); !equalInts(got, want) {
		t.Errorf("Expected focus sequence %v, got %v", want, got)
	}
}

func TestReplayPauseHoldsAutoplay(t *testing.T) {
	sc := &Scenario{
		Width:    1280,
		Duration: 10.5,
		Autoplay: 3,
		Commands: []Command{
			{At: 2, Action: ActionPause, Reason: "hover"},
			{At: 7, Action: ActionResume, Reason: "hover"},
		},
	}

	res, err := newTestDirector().Replay(sc, 6)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}

	if res.Autoplay.Fired != 1 {
		t.Errorf("Expected a single tick after resuming, got %+v", res.Autoplay)
	}
	if last := res.Keyframes[len(res.Keyframes)-1]; last.Time != 10 {
		t.Errorf("Expected the tick a full period after resume, got %.2f", last.Time)
	}
}

func TestReplayResize(t *testing.T) {
	sc := &Scenario{
		Width: 1280,
		Commands: []Command{
			{At: 1, Action: ActionResize, Width: 400},
		},
	}

	res, err := newTestDirector().Replay(sc, 6)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if len(res.Keyframes) != 2 {
		t.Fatalf("Expected 2 keyframes, got %d", len(res.Keyframes))
	}
	kf := res.Keyframes[1]
	if kf.Slots != 1 {
		t.Errorf("Expected 1 slot after resize, got %d", kf.Slots)
	}
	visible := 0
	for _, a := range kf.Assignments {
		if a.Visible {
			visible++
		}
	}
	if visible != 1 {
		t.Errorf("Expected 1 visible item in compact mode, got %d", visible)
	}
}

func TestReplayTour(t *testing.T) {
	sc := NewTourScenario(4, 2*time.Second, 1280)

	res, err := newTestDirector().Replay(sc, 4)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	want := []int{0, 1, 2, 3}
	if got := focuses(res); !equalInts(got, want) {
		t.Errorf("Expected focus sequence %v, got %v", want, got)
	}
	if res.Duration != 8 {
		t.Errorf("Expected duration 8s, got %.2f", res.Duration)
	}
}

func TestReplayRejectsBadInput(t *testing.T) {
	d := newTestDirector()

	_, err := d.Replay(&Scenario{Commands: []Command{{Action: "spin"}}}, 3)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Expected ErrUnknownCommand, got %v", err)
	}

	if _, err := d.Replay(&Scenario{}, 0); err == nil {
		t.Error("Expected an error for an empty collection")
	}

	if _, err := d.Replay(&Scenario{Commands: []Command{{Action: ActionResize}}}, 3); err == nil {
		t.Error("Expected an error for a resize without width")
	}
}

func TestScenarioWriteRead(t *testing.T) {
	scenario := &Scenario{
		Version:  "1.0",
		Width:    1280,
		Duration: 5,
		Autoplay: 3,
		Commands: []Command{
			{At: 1, Action: ActionNext},
			{At: 2.5, Action: ActionJump, Index: 4},
			{At: 3, Action: ActionPause, Reason: "hover"},
		},
	}

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := WriteScenario(scenario, path); err != nil {
		t.Fatalf("WriteScenario failed: %v", err)
	}

	read, err := ReadScenario(path)
	if err != nil {
		t.Fatalf("ReadScenario failed: %v", err)
	}

	if read.Version != scenario.Version || read.Autoplay != scenario.Autoplay {
		t.Errorf("Header mismatch: expected %+v, got %+v", scenario, read)
	}
	if len(read.Commands) != 3 || read.Commands[1].Index != 4 || read.Commands[2].Reason != "hover" {
		t.Errorf("Command mismatch: got %+v", read.Commands)
	}
}

func TestWriteKeyframes(t *testing.T) {
	res, err := newTestDirector().Replay(NewTourScenario(3, time.Second, 1280), 3)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if err := WriteKeyframes(res, filepath.Join(t.TempDir(), "keyframes.yaml")); err != nil {
		t.Fatalf("WriteKeyframes failed: %v", err)
	}
}
