package perfume

import (
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/wesleyorama2/perfume/perfume/browser"
	"github.com/wesleyorama2/perfume/perfume/config"
	"github.com/wesleyorama2/perfume/perfume/console"
	"github.com/wesleyorama2/perfume/perfume/observer"
	"github.com/wesleyorama2/perfume/perfume/queue"
	"github.com/wesleyorama2/perfume/perfume/timing"
)

// Session owns all measurement state for one page lifetime.
//
// A Session is safe for concurrent use. Its collaborators are never called
// while its internal lock is held.
type Session struct {
	mu     sync.Mutex
	config config.Config

	clock      clock.Clock
	provider   timing.Provider
	observer   observer.Observer
	scheduler  queue.Scheduler
	sink       console.Sink
	tracker    AnalyticsTracker
	visibility VisibilitySource
	browser    browser.Info

	metrics       map[string]*Measurement
	perfObservers map[string]*observer.Handle
	dataTimer     queue.Timer

	dataConsumption     float64
	dataConsumptionDone bool
	firstInputDone      bool
	isHidden            bool
	closed              bool

	firstPaintDuration           float64
	firstContentfulPaintDuration float64
	firstInputDelayDuration      float64
}

// Measurement is an open user-timing recording.
type Measurement struct {
	Name  string
	Start float64
	End   float64
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used by the default provider and queue.
//
// Timers of a queue on a *clock.Mock only fire through queue.Advance, so
// tests on a mock clock pass their own queue with WithScheduler.
func WithClock(clk clock.Clock) Option {
	return func(s *Session) {
		s.clock = clk
	}
}

// WithProvider sets the timing provider.
func WithProvider(p timing.Provider) Option {
	return func(s *Session) {
		s.provider = p
	}
}

// WithObserver sets the performance observer. Without one, the observer
// driven metrics are unsupported.
func WithObserver(o observer.Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// WithScheduler replaces the deferred-work queue.
func WithScheduler(sch queue.Scheduler) Option {
	return func(s *Session) {
		s.scheduler = sch
	}
}

// WithConsole sets the log sink.
func WithConsole(sink console.Sink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}

// WithAnalyticsTracker sets the analytics callback.
func WithAnalyticsTracker(fn AnalyticsTracker) Option {
	return func(s *Session) {
		s.tracker = fn
	}
}

// WithBrowserSource resolves browser identification once at construction.
func WithBrowserSource(src browser.Source) Option {
	return func(s *Session) {
		if src != nil {
			s.browser = src.Browser()
		}
	}
}

// WithVisibility sets the page visibility source.
func WithVisibility(v VisibilitySource) Option {
	return func(s *Session) {
		s.visibility = v
	}
}

// New creates a session and runs its initialization policy: observer
// subscriptions for the enabled metric families, the navigation timing
// report and the visibility listener.
//
// cfg is used as given apart from ApplyDefaults, which only fills empty
// strings and zero limits. Boolean flags keep their value, so a zero
// config.Config has logging off; start from config.Default() for the
// documented defaults.
func New(cfg config.Config, opts ...Option) *Session {
	config.ApplyDefaults(&cfg)

	s := &Session{
		config:        cfg,
		metrics:       make(map[string]*Measurement),
		perfObservers: make(map[string]*observer.Handle),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.provider == nil {
		s.provider = timing.NewPerformance(s.clock)
	}
	if s.sink == nil {
		s.sink = console.NewTerminal(console.TerminalConfig{})
	}
	if s.tracker == nil {
		s.tracker = func(Timing) {}
	}
	if s.scheduler == nil {
		q := queue.New(s.clock, cfg.IdleTimeout.GetDuration(config.DefaultIdleTimeout))
		q.PanicHandler = func(recovered any) {
			s.logWarn("Deferred task failed")
			s.LogDebug("panic", recovered)
		}
		s.scheduler = q
	}

	s.init()
	return s
}

func (s *Session) init() {
	cfg := s.Config()

	if cfg.FirstPaint || cfg.FirstContentfulPaint || cfg.FirstInputDelay || cfg.DataConsumption {
		if s.observer == nil {
			s.logWarn("PerformanceObserver not supported")
		} else {
			s.initPerformanceObserver(cfg)
		}
	}

	if cfg.NavigationTiming {
		s.scheduler.PushTask(s.logNavigationTiming)
	}

	s.OnVisibilityChange()
}

// Config returns a copy of the current configuration.
func (s *Session) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// UpdateConfig applies fn to the configuration. Changes to metric families
// take effect on the next session; output flags and ceilings apply
// immediately.
func (s *Session) UpdateConfig(fn func(*config.Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.config)
	config.ApplyDefaults(&s.config)
}

// SetAnalyticsTracker replaces the analytics callback.
func (s *Session) SetAnalyticsTracker(fn AnalyticsTracker) {
	if fn == nil {
		fn = func(Timing) {}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker = fn
}

// Browser returns the browser identification resolved at construction.
func (s *Session) Browser() browser.Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.browser
}

// FirstPaintDuration returns the last reported first paint, in ms.
func (s *Session) FirstPaintDuration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstPaintDuration
}

// FirstContentfulPaintDuration returns the last reported first contentful
// paint, in ms.
func (s *Session) FirstContentfulPaintDuration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstContentfulPaintDuration
}

// FirstInputDelayDuration returns the last reported first input delay, in ms.
func (s *Session) FirstInputDelayDuration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstInputDelayDuration
}

// DataConsumption returns the running data consumption total, in Kb.
func (s *Session) DataConsumption() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataConsumption
}

// Close disconnects every open subscription and stops the data consumption
// deadline without reporting. Tasks already queued still run.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.dataConsumptionDone = true
	handles := make([]*observer.Handle, 0, len(s.perfObservers))
	for _, h := range s.perfObservers {
		handles = append(handles, h)
	}
	timer := s.dataTimer
	s.dataTimer = nil
	s.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	for _, h := range handles {
		h.Disconnect()
	}
}
