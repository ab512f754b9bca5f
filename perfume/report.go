package perfume

import (
	"fmt"
	"strings"

	"github.com/wesleyorama2/perfume/perfume/browser"
)

// Metric keys used in analytics reports.
const (
	MetricFirstPaint           = "firstPaint"
	MetricFirstContentfulPaint = "firstContentfulPaint"
	MetricFirstInputDelay      = "firstInputDelay"
	MetricDataConsumption      = "dataConsumption"
	MetricNavigationTiming     = "NavigationTiming"
)

// Display names used in log lines.
const (
	LabelFirstPaint           = "First Paint"
	LabelFirstContentfulPaint = "First Contentful Paint"
	LabelFirstInputDelay      = "First Input Delay"
	LabelDataConsumption      = "Data Consumption"
)

const defaultSuffix = "ms"

// Report is a single log line request. Exactly one of Duration and Data is
// normally set; Data wins when both are.
type Report struct {
	MetricName string
	Duration   *float64
	Data       map[string]float64
	Suffix     string
}

// Timing is the payload handed to the analytics tracker.
type Timing struct {
	MetricName string             `json:"metricName"`
	Duration   *float64           `json:"duration,omitempty"`
	Data       map[string]float64 `json:"data,omitempty"`
	Browser    *browser.Info      `json:"browser,omitempty"`
}

// AnalyticsTracker receives finished metrics.
type AnalyticsTracker func(Timing)

// Value returns a pointer to v, for Report and Timing durations.
func Value(v float64) *float64 {
	return &v
}

// Log writes a report to the sink when logging is enabled.
func (s *Session) Log(r Report) {
	cfg := s.Config()
	if !cfg.Logging {
		return
	}
	if !s.checkMetricName(r.MetricName) {
		return
	}

	if r.Data != nil {
		s.sink.Log(fmt.Sprintf("%s %s ", cfg.LogPrefix, r.MetricName), r.Data)
		return
	}

	suffix := r.Suffix
	if suffix == "" {
		suffix = defaultSuffix
	}
	var d float64
	if r.Duration != nil {
		d = *r.Duration
	}
	s.sink.Log(fmt.Sprintf("%s %s %s %s", cfg.LogPrefix, r.MetricName, toFixed2(d), suffix))
}

// LogDebug writes a debugging line when debugging is enabled. The line reads
// "Perfume.js debugging label:" for the default prefix; a trailing colon on
// the prefix is dropped.
func (s *Session) LogDebug(label string, value any) {
	cfg := s.Config()
	if !cfg.Debugging {
		return
	}
	prefix := strings.TrimSuffix(cfg.LogPrefix, ":")
	s.sink.Log(fmt.Sprintf("%s debugging %s:", prefix, label), value)
}

// AddBrowserToMetricName appends the browser name and OS to name when
// browser tracking is on and the browser is known.
func (s *Session) AddBrowserToMetricName(name string) string {
	s.mu.Lock()
	enabled := s.config.BrowserTracker
	info := s.browser
	s.mu.Unlock()

	if !enabled || !info.Resolved() {
		return name
	}
	name += "." + info.Name
	if info.OS != "" {
		name += "." + info.OS
	}
	return name
}

func (s *Session) logWarn(message string) {
	cfg := s.Config()
	if !cfg.Warning || !cfg.Logging {
		return
	}
	s.sink.Warn(cfg.LogPrefix, message)
}

func (s *Session) checkMetricName(name string) bool {
	if name != "" {
		return true
	}
	s.logWarn("Please provide a metric name")
	return false
}

// logMetric rounds value, records it as the latest value of its family,
// logs it and forwards it to analytics when within the ceiling.
func (s *Session) logMetric(value float64, label, metric, suffix string) {
	if suffix == "" {
		suffix = defaultSuffix
	}
	v := round2(value)

	s.Log(Report{MetricName: label, Duration: Value(v), Suffix: suffix})

	s.mu.Lock()
	switch metric {
	case MetricFirstPaint:
		s.firstPaintDuration = v
	case MetricFirstContentfulPaint:
		s.firstContentfulPaintDuration = v
	case MetricFirstInputDelay:
		s.firstInputDelayDuration = v
	}
	ceiling := s.config.MaxMeasureTime
	if label == LabelDataConsumption {
		ceiling = s.config.MaxDataConsumption
	}
	s.mu.Unlock()

	if v > ceiling {
		return
	}
	s.sendTiming(Timing{MetricName: metric, Duration: Value(v)})
}

// queueMetric defers logMetric to the scheduler.
func (s *Session) queueMetric(value float64, label, metric, suffix string) {
	s.scheduler.PushTask(func() {
		s.logMetric(value, label, metric, suffix)
	})
}

func (s *Session) sendTiming(t Timing) {
	s.mu.Lock()
	hidden := s.isHidden
	withBrowser := s.config.BrowserTracker && s.browser.Resolved()
	info := s.browser
	tracker := s.tracker
	s.mu.Unlock()

	if hidden {
		return
	}
	if withBrowser {
		t.Browser = &info
	}
	tracker(t)
}
