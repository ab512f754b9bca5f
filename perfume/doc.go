// Package perfume measures page performance for the lifetime of one page:
// paint timing, first input delay, data consumption, navigation timing and
// arbitrary named durations. Results are written to a log sink and forwarded
// to an analytics callback.
//
// Subpackages provide the collaborators a Session is built from:
//
//   - perfume/config: session configuration and file loading
//   - perfume/timing: timestamps and user-timing marks
//   - perfume/observer: performance entries and entry-stream subscriptions
//   - perfume/queue: deferred work, timers and futures
//   - perfume/browser: browser identification
//   - perfume/console: log sinks
//   - perfume/prom: Prometheus analytics adapter
//
// # Quick Start
//
//	cfg := config.Default()
//	cfg.FirstContentfulPaint = true
//	cfg.FirstInputDelay = true
//
//	s := perfume.New(cfg,
//	    perfume.WithObserver(platformObserver),
//	    perfume.WithAnalyticsTracker(func(t perfume.Timing) {
//	        send(t.MetricName, t.Duration)
//	    }),
//	)
//	defer s.Close()
//
//	s.Start("checkout")
//	// ... work ...
//	s.End("checkout")
//
// # Reporting
//
// Every finished metric is logged. It is forwarded to the analytics tracker
// only while the page is visible and only when its value is within the
// configured ceiling (MaxMeasureTime, or MaxDataConsumption for data
// consumption).
//
// # Errors
//
// No method of Session returns an error or panics because of bad input or a
// missing platform capability. Misuse is reported as a warning through the
// sink when both warning and logging are enabled.
package perfume
