package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrCancelled is returned by Future.Wait after Cancel succeeded.
var ErrCancelled = errors.New("queue: future cancelled")

// Future is the eventual result of deferred work.
//
// A Future settles exactly once, either through Resolve, Reject or Cancel.
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error

	mu     sync.Mutex
	timers []Timer
}

// NewFuture returns an unsettled future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Track attaches a timer that Cancel stops.
func (f *Future[T]) Track(t Timer) {
	if t == nil {
		return
	}
	f.mu.Lock()
	f.timers = append(f.timers, t)
	f.mu.Unlock()
}

// Resolve settles the future with v. It reports whether this call settled it.
func (f *Future[T]) Resolve(v T) bool {
	return f.settle(v, nil)
}

// Reject settles the future with err.
func (f *Future[T]) Reject(err error) bool {
	var zero T
	return f.settle(zero, err)
}

// Cancel stops pending timers and settles the future with ErrCancelled.
// It returns false if the future had already settled.
func (f *Future[T]) Cancel() bool {
	var zero T
	if !f.settle(zero, ErrCancelled) {
		return false
	}

	f.mu.Lock()
	timers := f.timers
	f.timers = nil
	f.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
	return true
}

// Cancelled reports whether the future settled through Cancel.
func (f *Future[T]) Cancelled() bool {
	select {
	case <-f.done:
		return errors.Is(f.err, ErrCancelled)
	default:
		return false
	}
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (f *Future[T]) settle(v T, err error) bool {
	settled := false
	f.once.Do(func() {
		f.value = v
		f.err = err
		settled = true
		close(f.done)
	})
	return settled
}
