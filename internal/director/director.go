package director

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ivlev/carousel/internal/autoplay"
	"github.com/ivlev/carousel/internal/config"
	"github.com/ivlev/carousel/internal/engine"
	"github.com/ivlev/carousel/internal/schedule"
	"github.com/ivlev/carousel/internal/viewport"
)

// Director replays scenarios against a real engine on a manual clock, so lock
// rejections and autoplay drops come out exactly as they would live.
type Director struct {
	Classifier   viewport.Classifier
	Layout       engine.Layout
	LockDuration time.Duration
	ViewWidth    int // used when a scenario does not set a width

	log *zap.Logger
}

// NewDirector creates a Director from the engine, viewport and storyboard settings
func NewDirector(cfg *config.Config, log *zap.Logger) *Director {
	if log == nil {
		log = zap.NewNop()
	}
	return &Director{
		Classifier:   cfg.Classifier(),
		Layout:       cfg.Layout(),
		LockDuration: cfg.Engine.LockDuration,
		ViewWidth:    cfg.Storyboard.ViewWidth,
		log:          log,
	}
}

// Result is the outcome of a replay
type Result struct {
	Duration  float64        `yaml:"duration"`
	Dropped   int            `yaml:"dropped"` // user commands rejected by the lock
	Autoplay  autoplay.Stats `yaml:"autoplay"`
	Keyframes []Keyframe     `yaml:"keyframes"`
}

type navFunc func(engine.Direction) bool

func (f navFunc) Advance(dir engine.Direction) bool { return f(dir) }

// Replay runs sc against a collection of count items. The first keyframe is
// the initial state at time 0.
func (d *Director) Replay(sc *Scenario, count int) (*Result, error) {
	if count <= 0 {
		return nil, fmt.Errorf("replay needs at least one item")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	clock := schedule.NewManual(time.Unix(0, 0))
	start := clock.Now()
	layout := d.Layout
	eng := engine.New(make([]struct{}, count), engine.Options{
		LockDuration: d.LockDuration,
		Scheduler:    clock,
		Layout:       &layout,
		Logger:       d.log,
	})
	defer eng.Close()

	width := sc.Width
	if width <= 0 {
		width = d.ViewWidth
	}
	slots := d.Classifier.SlotCount(width)

	res := &Result{}
	record := func(cmd string) {
		res.Keyframes = append(res.Keyframes, Keyframe{
			Time:        clock.Now().Sub(start).Seconds(),
			Command:     cmd,
			Focus:       eng.Focus(),
			Slots:       slots,
			Assignments: eng.Assignments(slots),
		})
	}
	record("start")

	var player *autoplay.Player
	if sc.Autoplay > 0 {
		nav := navFunc(func(dir engine.Direction) bool {
			ok := eng.Advance(dir)
			if ok {
				record("autoplay")
			}
			return ok
		})
		player = autoplay.New(nav, seconds(sc.Autoplay), clock, d.log)
		player.Start()
		defer player.Stop()
	}

	cmds := append([]Command(nil), sc.Commands...)
	sort.SliceStable(cmds, func(i, j int) bool { return cmds[i].At < cmds[j].At })

	for _, c := range cmds {
		if wait := seconds(c.At) - clock.Now().Sub(start); wait > 0 {
			clock.Advance(wait)
		}

		var ok bool
		switch c.Action {
		case ActionNext:
			ok = eng.Advance(engine.Next)
		case ActionPrev:
			ok = eng.Advance(engine.Prev)
		case ActionJump:
			ok = eng.JumpTo(c.Index)
		case ActionResize:
			width = c.Width
			slots = d.Classifier.SlotCount(width)
			ok = true
		case ActionPause, ActionResume:
			if player != nil {
				if c.Action == ActionPause {
					player.Pause(c.Reason)
				} else {
					player.Resume(c.Reason)
				}
			}
			continue
		}

		if ok {
			record(c.Action)
		} else {
			res.Dropped++
			d.log.Debug("command dropped",
				zap.String("action", c.Action),
				zap.Float64("at", c.At),
				zap.Int("focus", eng.Focus()))
		}
	}

	if wait := seconds(sc.Duration) - clock.Now().Sub(start); wait > 0 {
		clock.Advance(wait)
	}
	res.Duration = clock.Now().Sub(start).Seconds()
	if player != nil {
		res.Autoplay = player.Stats()
	}

	d.log.Info("scenario replayed",
		zap.Int("keyframes", len(res.Keyframes)),
		zap.Int("dropped", res.Dropped),
		zap.Int("autoplay_dropped", res.Autoplay.Dropped))
	return res, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
