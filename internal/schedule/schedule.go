// Package schedule provides cancellable delayed tasks behind a small interface
// so timing-dependent components can run on the wall clock or on a manual clock.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Handle cancels a scheduled task
type Handle interface {
	// Stop prevents the task from running. Reports false if it already ran or was stopped.
	Stop() bool
}

// Scheduler runs functions after a delay
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Handle
}

// Real schedules on the wall clock
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) AfterFunc(d time.Duration, f func()) Handle {
	return time.AfterFunc(d, f)
}

// Manual is a controllable clock. Tasks only run inside Advance.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	m       *Manual
	at      time.Time
	seq     uint64
	fn      func()
	stopped bool
	done    bool
}

// NewManual creates a manual clock starting at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTask{m: m, at: m.now.Add(d), seq: m.seq, fn: f}
	m.tasks = append(m.tasks, t)
	return t
}

func (t *manualTask) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.stopped || t.done {
		return false
	}
	t.stopped = true
	t.m.removeLocked(t)
	return true
}

func (m *Manual) removeLocked(t *manualTask) {
	for i, task := range m.tasks {
		if task == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}

// Advance moves the clock forward by d, running every task that falls due in
// deadline order. Tasks scheduled by running tasks are picked up if they fall
// inside the same window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDueLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.removeLocked(next)
		next.done = true
		if next.at.After(m.now) {
			m.now = next.at
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

func (m *Manual) nextDueLocked(target time.Time) *manualTask {
	if len(m.tasks) == 0 {
		return nil
	}
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].at.Equal(m.tasks[j].at) {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].at.Before(m.tasks[j].at)
	})
	if m.tasks[0].at.After(target) {
		return nil
	}
	return m.tasks[0]
}

// Pending returns the number of queued tasks
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
