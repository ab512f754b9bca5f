package queue

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Scheduler is the subset of Queue that sessions depend on.
type Scheduler interface {
	// PushTask defers fn until the next idle point.
	PushTask(fn func())

	// After runs fn once d has elapsed. The returned Timer can stop it.
	After(d time.Duration, fn func()) Timer
}

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Queue is a FIFO deferred-work queue backed by a clock.
//
// Tasks pushed while a flush is running are executed by that same flush.
// A task must not call Flush or Idle itself.
//
// On a *clock.Mock the queue keeps its own timers instead of registering
// them with the clock, because the mock runs timer callbacks while holding
// its lock. Time is then moved with Advance rather than Mock.Add.
type Queue struct {
	clock    clock.Clock
	mock     *clock.Mock
	fallback time.Duration

	mu       sync.Mutex
	tasks    []func()
	deadline Timer
	timers   []*virtualTimer
	seq      uint64

	// runMu serializes flushes so tasks never interleave.
	runMu sync.Mutex

	// PanicHandler receives values recovered from panicking tasks.
	// When nil the panic is swallowed.
	PanicHandler func(recovered any)
}

// New creates a queue whose pending tasks run at the latest fallback after
// the first of them was pushed.
func New(clk clock.Clock, fallback time.Duration) *Queue {
	if clk == nil {
		clk = clock.New()
	}
	q := &Queue{
		clock:    clk,
		fallback: fallback,
	}
	if m, ok := clk.(*clock.Mock); ok {
		q.mock = m
	}
	return q
}

// PushTask appends fn to the queue and arms the fallback timer if needed.
func (q *Queue) PushTask(fn func()) {
	if fn == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, fn)
	if q.deadline == nil {
		q.deadline = q.afterLocked(q.fallback, q.expire)
	}
}

// Idle signals that the host is idle; pending tasks run now.
func (q *Queue) Idle() {
	q.Flush()
}

// Flush runs every pending task in FIFO order on the calling goroutine.
func (q *Queue) Flush() {
	q.runMu.Lock()
	defer q.runMu.Unlock()

	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			deadline := q.deadline
			q.deadline = nil
			q.mu.Unlock()
			if deadline != nil {
				deadline.Stop()
			}
			return
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.run(task)
	}
}

// expire is the fallback timer callback. The firing timer is forgotten
// before the flush so Flush never stops it.
func (q *Queue) expire() {
	q.mu.Lock()
	q.deadline = nil
	q.mu.Unlock()
	q.Flush()
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// After runs fn once d has elapsed on the queue's clock.
func (q *Queue) After(d time.Duration, fn func()) Timer {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.afterLocked(d, fn)
}

func (q *Queue) afterLocked(d time.Duration, fn func()) Timer {
	if q.mock == nil {
		return q.clock.AfterFunc(d, func() { q.run(fn) })
	}

	q.seq++
	t := &virtualTimer{
		q:    q,
		when: q.mock.Now().Add(d),
		seq:  q.seq,
		fn:   fn,
	}
	q.timers = append(q.timers, t)
	return t
}

// Advance moves the mock clock forward by d. Timers due on the way fire in
// deadline order, each with the clock set to its deadline, so a callback
// may read the clock and schedule further timers. Timers scheduled for a
// point within d fire during the same call.
//
// Advance does nothing for a queue on a real clock.
func (q *Queue) Advance(d time.Duration) {
	if q.mock == nil {
		return
	}

	target := q.mock.Now().Add(d)
	for {
		t := q.nextDue(target)
		if t == nil {
			break
		}
		if t.when.After(q.mock.Now()) {
			q.mock.Set(t.when)
		}
		q.run(t.fn)
	}
	if target.After(q.mock.Now()) {
		q.mock.Set(target)
	}
}

// nextDue removes and returns the earliest timer due at or before target.
func (q *Queue) nextDue(target time.Time) *virtualTimer {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := -1
	for i, t := range q.timers {
		if t.when.After(target) {
			continue
		}
		if idx < 0 || t.before(q.timers[idx]) {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	t := q.timers[idx]
	q.timers = append(q.timers[:idx], q.timers[idx+1:]...)
	return t
}

func (q *Queue) run(fn func()) {
	defer func() {
		if r := recover(); r != nil && q.PanicHandler != nil {
			q.PanicHandler(r)
		}
	}()
	fn()
}

type virtualTimer struct {
	q    *Queue
	when time.Time
	seq  uint64
	fn   func()
}

func (t *virtualTimer) before(o *virtualTimer) bool {
	if t.when.Equal(o.when) {
		return t.seq < o.seq
	}
	return t.when.Before(o.when)
}

func (t *virtualTimer) Stop() bool {
	q := t.q
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, pending := range q.timers {
		if pending == t {
			q.timers = append(q.timers[:i], q.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Inline is a Scheduler that runs pushed tasks immediately on the caller's
// goroutine. Timers go through Timers, or the wall clock when it is nil.
type Inline struct {
	Timers *Queue
}

// PushTask runs fn now.
func (i Inline) PushTask(fn func()) {
	if fn != nil {
		fn()
	}
}

// After runs fn once d has elapsed.
func (i Inline) After(d time.Duration, fn func()) Timer {
	if i.Timers != nil {
		return i.Timers.After(d, fn)
	}
	return clock.New().AfterFunc(d, fn)
}
