// Package timing supplies timestamps and user-timing marks to a session.
package timing

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/wesleyorama2/perfume/perfume/observer"
)

// Phase identifies which end of a measurement a mark belongs to.
type Phase string

const (
	PhaseStart Phase = "start"
	PhaseEnd   Phase = "end"
)

// Interval is the pair of timestamps a measure is taken between.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Provider is the timestamp and marking primitive.
type Provider interface {
	// Now returns milliseconds since the time origin.
	Now() float64

	// Mark records a named mark for one phase of a measurement.
	Mark(name string, phase Phase)

	// Measure returns the elapsed time between the start and end marks
	// recorded for name.
	Measure(name string, iv Interval) float64
}

// NavigationSource is implemented by providers that know the page's
// navigation entry.
type NavigationSource interface {
	NavigationEntry() (observer.Entry, bool)
}

// Performance is a Provider backed by a clock. Marks and measures are kept
// as entries, the way a browser's performance timeline keeps them.
//
// # Thread Safety
//
// Performance is safe for concurrent use.
type Performance struct {
	clock  clock.Clock
	origin time.Time

	mu         sync.Mutex
	entries    []observer.Entry
	navigation *observer.Entry
}

// NewPerformance creates a provider whose origin is the clock's current time.
// A nil clock uses the real-time clock.
func NewPerformance(clk clock.Clock) *Performance {
	if clk == nil {
		clk = clock.New()
	}
	return &Performance{
		clock:  clk,
		origin: clk.Now(),
	}
}

// Now implements Provider.
func (p *Performance) Now() float64 {
	elapsed := p.clock.Now().Sub(p.origin)
	return float64(elapsed.Nanoseconds()) / 1e6
}

// Mark implements Provider.
func (p *Performance) Mark(name string, phase Phase) {
	now := p.Now()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, observer.Entry{
		Name:      MarkName(name, phase),
		EntryType: observer.TypeMark,
		StartTime: now,
	})
}

// Measure implements Provider. The measure is recorded as an entry spanning
// the interval.
func (p *Performance) Measure(name string, iv Interval) float64 {
	duration := iv.End - iv.Start

	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, observer.Entry{
		Name:      name,
		EntryType: observer.TypeMeasure,
		StartTime: iv.Start,
		Duration:  duration,
	})
	return duration
}

// SetNavigation records the page's navigation entry.
func (p *Performance) SetNavigation(e observer.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e.EntryType = observer.TypeNavigation
	p.navigation = &e
}

// NavigationEntry implements NavigationSource.
func (p *Performance) NavigationEntry() (observer.Entry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.navigation == nil {
		return observer.Entry{}, false
	}
	return *p.navigation, true
}

// Entries returns the recorded marks and measures of the given type, or all
// of them when entryType is empty.
func (p *Performance) Entries(entryType string) []observer.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []observer.Entry
	for _, e := range p.entries {
		if entryType == "" || e.EntryType == entryType {
			out = append(out, e)
		}
	}
	return out
}

// MarkName is the name under which a phase mark is recorded, e.g.
// "checkout-start".
func MarkName(name string, phase Phase) string {
	return name + "-" + string(phase)
}
