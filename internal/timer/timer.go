// Package timer implements the cooperative software timers driven by the host
// heartbeat. Timers never fire on their own: an external driver calls Fire.
package timer

import (
	"errors"
	"sync"
	"time"
)

// ID identifies a scheduled timer. Zero is never issued.
type ID uint32

// ErrNotFound is returned when cancelling a timer that is unknown or already
// cancelled.
var ErrNotFound = errors.New("timer not found")

type entry struct {
	id       ID
	fn       func()
	interval time.Duration
	repeat   bool
	deadline time.Time
	deleted  bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the clock used to compute initial deadlines.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPanicHandler installs a handler for panics raised by timer callbacks.
// Without one the panic propagates to the caller of Fire.
func WithPanicHandler(fn func(id ID, recovered interface{})) Option {
	return func(s *Scheduler) {
		s.onPanic = fn
	}
}

// Scheduler holds timers. Cancellation only marks an entry; entries are swept
// at the end of Fire, so callbacks may cancel themselves or each other.
type Scheduler struct {
	mu      sync.Mutex
	now     func() time.Time
	onPanic func(ID, interface{})
	timers  []*entry
	nextID  ID
	running ID
	firing  bool
}

// New creates an empty scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{now: time.Now, nextID: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule registers fn to run once interval has elapsed, and every interval
// after that when repeat is set.
func (s *Scheduler) Schedule(interval time.Duration, repeat bool, fn func()) ID {
	if interval < 0 {
		interval = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	if s.nextID == 0 {
		s.nextID = 1
	}
	s.timers = append(s.timers, &entry{
		id:       id,
		fn:       fn,
		interval: interval,
		repeat:   repeat,
		deadline: s.now().Add(interval),
	})
	return id
}

// Cancel marks the timer for deletion. It is safe to call from any callback,
// including the cancelled timer's own.
func (s *Scheduler) Cancel(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.timers {
		if e.id == id && !e.deleted {
			e.deleted = true
			return nil
		}
	}
	return ErrNotFound
}

// Fire runs every live timer whose deadline is at or before now and returns
// how many callbacks ran. Nested calls from inside a callback are ignored.
// A callback panic without a handler propagates after the scheduler has been
// left ready for the next Fire.
func (s *Scheduler) Fire(now time.Time) int {
	s.mu.Lock()
	if s.firing {
		s.mu.Unlock()
		return 0
	}
	s.firing = true
	due := make([]*entry, 0, len(s.timers))
	for _, e := range s.timers {
		if !e.deleted && !now.Before(e.deadline) {
			due = append(due, e)
		}
	}
	s.mu.Unlock()

	var current *entry
	defer func() {
		s.mu.Lock()
		if current != nil {
			s.finish(current, now)
		}
		s.sweep()
		s.firing = false
		s.mu.Unlock()
	}()

	fired := 0
	for _, e := range due {
		s.mu.Lock()
		if e.deleted {
			s.mu.Unlock()
			continue
		}
		s.running = e.id
		current = e
		s.mu.Unlock()

		s.invoke(e)
		fired++

		s.mu.Lock()
		s.finish(e, now)
		current = nil
		s.mu.Unlock()
	}
	return fired
}

// finish reschedules or retires e after its callback. Callers hold s.mu.
func (s *Scheduler) finish(e *entry, now time.Time) {
	s.running = 0
	if e.deleted {
		return
	}
	if e.repeat {
		e.deadline = now.Add(e.interval)
	} else {
		e.deleted = true
	}
}

func (s *Scheduler) invoke(e *entry) {
	if e.fn == nil {
		return
	}
	if s.onPanic != nil {
		defer func() {
			if r := recover(); r != nil {
				s.onPanic(e.id, r)
			}
		}()
	}
	e.fn()
}

// sweep drops deleted entries. Callers hold s.mu.
func (s *Scheduler) sweep() {
	live := s.timers[:0]
	for _, e := range s.timers {
		if !e.deleted {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(s.timers); i++ {
		s.timers[i] = nil
	}
	s.timers = live
}

// Clear cancels every timer.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.timers {
		e.deleted = true
	}
	if !s.firing {
		s.sweep()
	}
}

// Active returns the number of timers that have not been cancelled.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.timers {
		if !e.deleted {
			n++
		}
	}
	return n
}

// Interval returns the interval of a live timer.
func (s *Scheduler) Interval(id ID) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.timers {
		if e.id == id && !e.deleted {
			return e.interval, true
		}
	}
	return 0, false
}

// Running returns the id of the timer whose callback is executing.
func (s *Scheduler) Running() (ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running, s.running != 0
}
