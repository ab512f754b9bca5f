// Package queue provides the scheduling primitives used by a perfume session.
//
// Three primitives are available:
//
//   - Queue.PushTask defers a callback until the host signals idle (Idle) or a
//     fallback delay elapses. Tasks run in FIFO order.
//   - Queue.After schedules a callback after a delay.
//   - Future is a cancellable, awaitable result produced by deferred work.
//
// There is no ordering guarantee between the idle queue and timers.
//
// A queue built on a *clock.Mock simulates time: Advance fires due timers
// one at a time with the mock set to each deadline.
//
// # Basic Usage
//
//	q := queue.New(clock.New(), time.Second)
//	q.PushTask(func() { fmt.Println("later") })
//	q.Idle() // host is idle: run pending tasks now
package queue
