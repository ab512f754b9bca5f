// Package prom exports perfume reports as Prometheus metrics.
package prom

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wesleyorama2/perfume/perfume"
)

const namespace = "perfume"

// Tracker is an analytics tracker that records every report it receives.
// Pass Tracker.Track to perfume.WithAnalyticsTracker.
type Tracker struct {
	values     *prometheus.GaugeVec
	navigation *prometheus.GaugeVec
	reports    *prometheus.CounterVec
}

// NewTracker constructs and registers the tracker's metrics. A nil registry
// gets a private one.
func NewTracker(reg *prometheus.Registry) *Tracker {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	t := &Tracker{
		values: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "metric_value",
			Help:      "Last reported value per metric (ms, or Kb for data consumption)",
		}, []string{"metric"}),
		navigation: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "navigation_timing",
			Help:      "Navigation timing breakdown of the last reported page load",
		}, []string{"key"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Reports received by metric and browser",
		}, []string{"metric", "browser", "os"}),
	}
	reg.MustRegister(t.values, t.navigation, t.reports)
	return t
}

// Track implements perfume.AnalyticsTracker.
func (t *Tracker) Track(tm perfume.Timing) {
	if t == nil || t.reports == nil {
		return
	}

	name, os := "unknown", "unknown"
	if tm.Browser != nil {
		if tm.Browser.Name != "" {
			name = tm.Browser.Name
		}
		if tm.Browser.OS != "" {
			os = tm.Browser.OS
		}
	}
	t.reports.WithLabelValues(tm.MetricName, name, os).Inc()

	if tm.Duration != nil {
		t.values.WithLabelValues(tm.MetricName).Set(*tm.Duration)
	}
	for k, v := range tm.Data {
		t.navigation.WithLabelValues(k).Set(v)
	}
}

// WriteTextfile writes every metric gathered from g to path in the text
// exposition format, for the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
