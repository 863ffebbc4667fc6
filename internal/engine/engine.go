// Package engine implements the circular carousel: focus tracking with
// wraparound, slot assignment and the animation lock that drops navigation
// commands while a transition is on screen.
package engine

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ivlev/carousel/internal/schedule"
)

// DefaultLockDuration matches the CSS transition length of the site
const DefaultLockDuration = 600 * time.Millisecond

type Direction int

const (
	Next Direction = iota
	Prev
)

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// State is a snapshot of the engine's mutable fields
type State struct {
	Focus  int  `json:"focus"`
	Locked bool `json:"locked"`
	Count  int  `json:"count"`
}

type Options struct {
	Focus        int // starting focus, wrapped into range
	LockDuration time.Duration
	Scheduler    schedule.Scheduler
	Layout       *Layout
	Logger       *zap.Logger
}

// Engine owns the focus index and animation lock for an immutable item collection.
// It is safe for concurrent use.
type Engine[T any] struct {
	mu     sync.Mutex
	items  []T
	focus  int
	locked bool
	unlock schedule.Handle
	closed bool

	lockDuration time.Duration
	sched        schedule.Scheduler
	layout       Layout
	log          *zap.Logger

	subs    map[int]func(State)
	nextSub int
}

func New[T any](items []T, opts Options) *Engine[T] {
	e := &Engine[T]{
		items:        append([]T(nil), items...),
		lockDuration: opts.LockDuration,
		sched:        opts.Scheduler,
		log:          opts.Logger,
		subs:         make(map[int]func(State)),
	}
	if e.lockDuration <= 0 {
		e.lockDuration = DefaultLockDuration
	}
	if e.sched == nil {
		e.sched = schedule.Real{}
	}
	if opts.Layout != nil {
		e.layout = *opts.Layout
	} else {
		e.layout = DefaultLayout()
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if n := len(e.items); n > 0 {
		e.focus = wrap(opts.Focus, n)
	}
	return e
}

// Advance moves the focus one step with wraparound. Reports false when the
// command was dropped (locked, empty or closed).
func (e *Engine[T]) Advance(dir Direction) bool {
	e.mu.Lock()
	n := len(e.items)
	if n == 0 || e.locked || e.closed {
		e.mu.Unlock()
		return false
	}

	switch dir {
	case Next:
		e.focus = (e.focus + 1) % n
	case Prev:
		e.focus = (e.focus - 1 + n) % n
	default:
		e.mu.Unlock()
		return false
	}
	e.lockLocked()
	st := e.stateLocked()
	e.mu.Unlock()

	e.log.Debug("advance", zap.Stringer("direction", dir), zap.Int("focus", st.Focus))
	e.notify(st)
	return true
}

// JumpTo sets the focus directly under the same lock discipline as Advance
func (e *Engine[T]) JumpTo(index int) bool {
	e.mu.Lock()
	n := len(e.items)
	if n == 0 || e.locked || e.closed || index < 0 || index >= n {
		e.mu.Unlock()
		return false
	}

	e.focus = index
	e.lockLocked()
	st := e.stateLocked()
	e.mu.Unlock()

	e.log.Debug("jump", zap.Int("focus", st.Focus))
	e.notify(st)
	return true
}

func (e *Engine[T]) lockLocked() {
	e.locked = true
	e.unlock = e.sched.AfterFunc(e.lockDuration, e.release)
}

func (e *Engine[T]) release() {
	e.mu.Lock()
	if !e.locked {
		e.mu.Unlock()
		return
	}
	e.locked = false
	e.unlock = nil
	st := e.stateLocked()
	e.mu.Unlock()

	e.notify(st)
}

// Assignments computes the slot assignment for the current focus.
// The lock never blocks this call.
func (e *Engine[T]) Assignments(slotCount int) []Assignment {
	e.mu.Lock()
	n, focus := len(e.items), e.focus
	e.mu.Unlock()
	return e.layout.Compute(n, focus, slotCount)
}

func (e *Engine[T]) Focus() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focus
}

func (e *Engine[T]) Locked() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.locked
}

func (e *Engine[T]) Len() int {
	return len(e.items)
}

// Items returns a copy of the collection
func (e *Engine[T]) Items() []T {
	return append([]T(nil), e.items...)
}

func (e *Engine[T]) Item(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(e.items) {
		return zero, false
	}
	return e.items[i], true
}

func (e *Engine[T]) LockDuration() time.Duration {
	return e.lockDuration
}

func (e *Engine[T]) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Engine[T]) stateLocked() State {
	return State{Focus: e.focus, Locked: e.locked, Count: len(e.items)}
}

// Subscribe registers fn to run after every accepted command and every lock
// release. The returned func removes the subscription.
func (e *Engine[T]) Subscribe(fn func(State)) (cancel func()) {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

func (e *Engine[T]) notify(st State) {
	e.mu.Lock()
	fns := make([]func(State), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// Close cancels a pending lock release. Further commands are dropped.
func (e *Engine[T]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unlock != nil {
		e.unlock.Stop()
		e.unlock = nil
	}
	e.locked = false
	e.closed = true
}
