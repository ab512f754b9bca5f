package perfume

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/wesleyorama2/perfume/perfume/config"
	"github.com/wesleyorama2/perfume/perfume/console"
	"github.com/wesleyorama2/perfume/perfume/observer"
	"github.com/wesleyorama2/perfume/perfume/queue"
	"github.com/wesleyorama2/perfume/perfume/timing"
)

type harness struct {
	clock    *clock.Mock
	timers   *queue.Queue
	perf     *timing.Performance
	timeline *observer.Timeline
	sink     *console.Recorder
	page     *Page

	mu      sync.Mutex
	timings []Timing
}

func newHarness() *harness {
	clk := clock.NewMock()
	return &harness{
		clock:    clk,
		timers:   queue.New(clk, time.Second),
		perf:     timing.NewPerformance(clk),
		timeline: observer.NewTimeline(),
		sink:     &console.Recorder{},
		page:     &Page{},
	}
}

// session builds a session wired to the harness. Extra options override the
// defaults.
func (h *harness) session(t *testing.T, cfg config.Config, opts ...Option) *Session {
	t.Helper()
	base := []Option{
		WithClock(h.clock),
		WithProvider(h.perf),
		WithObserver(h.timeline),
		WithScheduler(queue.Inline{Timers: h.timers}),
		WithConsole(h.sink),
		WithVisibility(h.page),
		WithAnalyticsTracker(h.track),
	}
	s := New(cfg, append(base, opts...)...)
	t.Cleanup(s.Close)
	return s
}

// advance moves simulated time forward, firing session timers on the way.
func (h *harness) advance(d time.Duration) {
	h.timers.Advance(d)
}

func (h *harness) track(t Timing) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.timings = append(h.timings, t)
}

func (h *harness) tracked() []Timing {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Timing(nil), h.timings...)
}

func (h *harness) logLines() []string {
	var lines []string
	for _, c := range h.sink.Logs() {
		lines = append(lines, c.Text)
	}
	return lines
}

func (h *harness) warnings() []string {
	var out []string
	for _, c := range h.sink.Warnings() {
		if len(c.Args) > 0 {
			out = append(out, fmt.Sprint(c.Args[0]))
		}
	}
	return out
}

func warnConfig() config.Config {
	cfg := config.Default()
	cfg.Warning = true
	return cfg
}

// countingObserver hands out subscriptions that count disconnects.
type countingObserver struct {
	mu      sync.Mutex
	batches map[string]func([]observer.Entry)
	subs    map[string]*countingSub
}

type countingSub struct {
	mu    sync.Mutex
	calls int
}

func (c *countingSub) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
}

func (c *countingSub) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func newCountingObserver() *countingObserver {
	return &countingObserver{
		batches: make(map[string]func([]observer.Entry)),
		subs:    make(map[string]*countingSub),
	}
}

func (o *countingObserver) Observe(entryTypes []string, onBatch func([]observer.Entry)) (observer.Subscription, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sub := &countingSub{}
	for _, et := range entryTypes {
		o.batches[et] = onBatch
		o.subs[et] = sub
	}
	return sub, nil
}

func (o *countingObserver) deliver(entryType string, entries ...observer.Entry) {
	o.mu.Lock()
	fn := o.batches[entryType]
	o.mu.Unlock()
	fn(entries)
}

func (o *countingObserver) sub(entryType string) *countingSub {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.subs[entryType]
}

type panickingObserver struct{}

func (panickingObserver) Observe([]string, func([]observer.Entry)) (observer.Subscription, error) {
	panic("observer exploded")
}
