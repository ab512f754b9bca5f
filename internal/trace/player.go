package trace

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/wesleyorama2/perfume/perfume"
	"github.com/wesleyorama2/perfume/perfume/browser"
	"github.com/wesleyorama2/perfume/perfume/config"
	"github.com/wesleyorama2/perfume/perfume/console"
	"github.com/wesleyorama2/perfume/perfume/observer"
	"github.com/wesleyorama2/perfume/perfume/queue"
	"github.com/wesleyorama2/perfume/perfume/timing"
)

// Player replays a trace against a Session. Time is simulated with a mock
// clock driven through the session queue, so a replay takes no wall-clock
// time and every timer fires at its simulated deadline.
//
// The deferred-work queue is drained after every event, as a browser would
// between tasks.
type Player struct {
	trace *Trace

	clock    *clock.Mock
	start    time.Time
	perf     *timing.Performance
	timeline *observer.Timeline
	page     *perfume.Page
	queue    *queue.Queue
	session  *perfume.Session

	paints []paint
}

type paint struct {
	name   string
	future *queue.Future[float64]
}

// PaintResult is the outcome of an EndPaint event.
type PaintResult struct {
	Name     string
	Duration float64
	Err      error
}

// NewPlayer prepares a replay. Output goes to sink and analytics reports to
// tracker; either may be nil.
func NewPlayer(t *Trace, sink console.Sink, tracker perfume.AnalyticsTracker) *Player {
	if sink == nil {
		sink = console.Discard
	}

	clk := clock.NewMock()
	p := &Player{
		trace:    t,
		clock:    clk,
		start:    clk.Now(),
		perf:     timing.NewPerformance(clk),
		timeline: observer.NewTimeline(t.Supported...),
		page:     &perfume.Page{},
		queue:    queue.New(clk, t.Config.IdleTimeout.GetDuration(config.DefaultIdleTimeout)),
	}
	if t.Navigation != nil {
		p.perf.SetNavigation(*t.Navigation)
	}
	p.queue.PanicHandler = func(recovered any) {
		sink.Warn(t.Config.LogPrefix, fmt.Sprintf("deferred task panicked: %v", recovered))
	}

	opts := []perfume.Option{
		perfume.WithClock(clk),
		perfume.WithProvider(p.perf),
		perfume.WithObserver(p.timeline),
		perfume.WithScheduler(p.queue),
		perfume.WithConsole(sink),
		perfume.WithVisibility(p.page),
	}
	if tracker != nil {
		opts = append(opts, perfume.WithAnalyticsTracker(tracker))
	}
	if t.UserAgent != "" {
		opts = append(opts, perfume.WithBrowserSource(browser.UserAgent(t.UserAgent)))
	}
	p.session = perfume.New(t.Config, opts...)
	return p
}

// Session returns the session being driven.
func (p *Player) Session() *perfume.Session {
	return p.session
}

// Elapsed returns the simulated time since the page started.
func (p *Player) Elapsed() time.Duration {
	return p.clock.Now().Sub(p.start)
}

// Run replays every event in time order, then advances to the end of the
// trace and closes the session.
func (p *Player) Run(ctx context.Context) error {
	events := append([]Event(nil), p.trace.Events...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At < events[j].At
	})

	p.queue.Idle()
	for i, e := range events {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("replay interrupted at event %d: %w", i, err)
		}
		p.advanceTo(time.Duration(e.At))
		p.apply(e)
		p.queue.Idle()
	}

	p.advanceTo(p.end(events))
	p.queue.Idle()
	p.session.Close()
	return nil
}

// Paints returns the outcome of every EndPaint event, in replay order.
// Futures still pending when the trace ended report queue.ErrCancelled.
func (p *Player) Paints() []PaintResult {
	results := make([]PaintResult, 0, len(p.paints))
	for _, pt := range p.paints {
		select {
		case <-pt.future.Done():
		default:
			pt.future.Cancel()
		}
		d, err := pt.future.Wait(context.Background())
		results = append(results, PaintResult{Name: pt.name, Duration: d, Err: err})
	}
	return results
}

func (p *Player) apply(e Event) {
	switch {
	case len(e.Entries) > 0:
		at := float64(time.Duration(e.At)) / float64(time.Millisecond)
		entries := make([]observer.Entry, len(e.Entries))
		for i, entry := range e.Entries {
			if entry.StartTime == 0 {
				entry.StartTime = at
			}
			entries[i] = entry
		}
		p.timeline.Dispatch(entries...)
	case e.Start != "":
		p.session.Start(e.Start)
	case e.End != "":
		p.session.End(e.End)
	case e.EndPaint != "":
		p.paints = append(p.paints, paint{name: e.EndPaint, future: p.session.EndPaint(e.EndPaint)})
	case e.Hidden != nil:
		p.page.SetHidden(*e.Hidden)
	case e.DisconnectDataConsumption:
		p.session.DisconnectDataConsumption()
	}
}

func (p *Player) advanceTo(at time.Duration) {
	if d := at - p.Elapsed(); d > 0 {
		p.queue.Advance(d)
	}
}

func (p *Player) end(events []Event) time.Duration {
	if p.trace.Duration > 0 {
		return time.Duration(p.trace.Duration)
	}
	var last time.Duration
	if n := len(events); n > 0 {
		last = time.Duration(events[n-1].At)
	}
	return last + p.trace.Config.DataConsumptionTimeout.GetDuration(config.DefaultDataConsumptionTimeout)
}
