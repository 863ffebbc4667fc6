// Package autoplay advances a carousel on a fixed period. Playback is held
// while any pause reason (hover, focus, ...) is active.
package autoplay

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ivlev/carousel/internal/engine"
	"github.com/ivlev/carousel/internal/schedule"
)

const DefaultPeriod = 3 * time.Second

// Navigator is the part of the engine the player drives
type Navigator interface {
	Advance(dir engine.Direction) bool
}

// Stats counts ticks. Dropped ticks hit a locked engine.
type Stats struct {
	Fired    int `json:"fired"`
	Accepted int `json:"accepted"`
	Dropped  int `json:"dropped"`
}

type Player struct {
	mu      sync.Mutex
	nav     Navigator
	sched   schedule.Scheduler
	period  time.Duration
	log     *zap.Logger
	running bool
	paused  map[string]bool
	handle  schedule.Handle
	gen     uint64
	stats   Stats
}

func New(nav Navigator, period time.Duration, sched schedule.Scheduler, log *zap.Logger) *Player {
	if period <= 0 {
		period = DefaultPeriod
	}
	if sched == nil {
		sched = schedule.Real{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		nav:    nav,
		sched:  sched,
		period: period,
		log:    log,
		paused: make(map[string]bool),
	}
}

func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.armLocked()
}

func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	p.disarmLocked()
}

// Run starts playback and blocks until ctx is done
func (p *Player) Run(ctx context.Context) error {
	p.Start()
	<-ctx.Done()
	p.Stop()
	return nil
}

// Pause holds playback until every reason has been resumed
func (p *Player) Pause(reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused[reason] {
		return
	}
	p.paused[reason] = true
	p.disarmLocked()
	p.log.Debug("autoplay paused", zap.String("reason", reason))
}

// Resume drops a pause reason. A full period elapses before the next tick.
func (p *Player) Resume(reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused[reason] {
		return
	}
	delete(p.paused, reason)
	p.log.Debug("autoplay resumed", zap.String("reason", reason), zap.Int("held", len(p.paused)))
	p.armLocked()
}

// SetPeriod replaces the pending tick with one on the new period
func (p *Player) SetPeriod(d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.period = d
	p.armLocked()
}

func (p *Player) Period() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.period
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running && len(p.paused) == 0
}

// PauseReasons lists the held reasons, sorted
func (p *Player) PauseReasons() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	reasons := make([]string, 0, len(p.paused))
	for r := range p.paused {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	return reasons
}

func (p *Player) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Player) armLocked() {
	p.disarmLocked()
	if !p.running || len(p.paused) > 0 {
		return
	}
	gen := p.gen
	p.handle = p.sched.AfterFunc(p.period, func() { p.tick(gen) })
}

// disarmLocked cancels the pending tick and invalidates one already firing
func (p *Player) disarmLocked() {
	if p.handle != nil {
		p.handle.Stop()
		p.handle = nil
	}
	p.gen++
}

func (p *Player) tick(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || !p.running || len(p.paused) > 0 {
		p.mu.Unlock()
		return
	}
	p.handle = nil
	p.mu.Unlock()

	accepted := p.nav.Advance(engine.Next)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Fired++
	if accepted {
		p.stats.Accepted++
	} else {
		p.stats.Dropped++
	}
	if gen == p.gen {
		p.armLocked()
	}
}
