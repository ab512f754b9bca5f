package perfume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/perfume/perfume/browser"
	"github.com/wesleyorama2/perfume/perfume/config"
)

func TestLog(t *testing.T) {
	h := newHarness()
	s := h.session(t, config.Default())

	s.Log(Report{MetricName: "fibonacci", Duration: Value(12.345678)})
	s.Log(Report{MetricName: "size", Duration: Value(3), Suffix: "Kb"})
	s.Log(Report{MetricName: "nav", Data: map[string]float64{"totalTime": 1}})

	calls := h.sink.Logs()
	require.Len(t, calls, 3)
	assert.Equal(t, "Perfume.js: fibonacci 12.35 ms", calls[0].Text)
	assert.Equal(t, "Perfume.js: size 3.00 Kb", calls[1].Text)
	assert.Equal(t, "Perfume.js: nav ", calls[2].Text)
	assert.Equal(t, []any{map[string]float64{"totalTime": 1}}, calls[2].Args)
}

func TestLog_Disabled(t *testing.T) {
	h := newHarness()
	cfg := warnConfig()
	cfg.Logging = false
	s := h.session(t, cfg)

	s.Log(Report{MetricName: "a", Duration: Value(1)})
	s.Log(Report{Duration: Value(1)})

	assert.Empty(t, h.sink.Logs())
	assert.Empty(t, h.sink.Warnings())
}

func TestLog_EmptyName(t *testing.T) {
	h := newHarness()
	s := h.session(t, warnConfig())

	s.Log(Report{Duration: Value(1)})

	assert.Empty(t, h.sink.Logs())
	assert.Equal(t, []string{"Please provide a metric name"}, h.warnings())
}

func TestLog_CustomPrefix(t *testing.T) {
	h := newHarness()
	cfg := config.Default()
	cfg.LogPrefix = "🔥"
	s := h.session(t, cfg)

	s.Log(Report{MetricName: "a", Duration: Value(1)})
	assert.Equal(t, []string{"🔥 a 1.00 ms"}, h.logLines())
}

func TestLogDebug(t *testing.T) {
	h := newHarness()
	s := h.session(t, config.Default())

	s.LogDebug("label", 42)
	assert.Empty(t, h.sink.Logs())

	s.UpdateConfig(func(c *config.Config) { c.Debugging = true })
	s.LogDebug("label", 42)

	calls := h.sink.Logs()
	require.Len(t, calls, 1)
	assert.Equal(t, "Perfume.js debugging label:", calls[0].Text)
	assert.Equal(t, []any{42}, calls[0].Args)

	s.UpdateConfig(func(c *config.Config) { c.LogPrefix = "[rum]" })
	s.LogDebug("label", 1)
	calls = h.sink.Logs()
	require.Len(t, calls, 2)
	assert.Equal(t, "[rum] debugging label:", calls[1].Text)
}

func TestLogMetric_Ceilings(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		label   string
		metric  string
		suffix  string
		line    string
		tracked bool
	}{
		{
			name: "within max measure time", value: 15000, label: "Render", metric: "render",
			line: "Perfume.js: Render 15000.00 ms", tracked: true,
		},
		{
			name: "above max measure time", value: 15000.01, label: "Render", metric: "render",
			line: "Perfume.js: Render 15000.01 ms",
		},
		{
			name: "data consumption uses its own ceiling", value: 19000, label: LabelDataConsumption,
			metric: MetricDataConsumption, suffix: "Kb", line: "Perfume.js: Data Consumption 19000.00 Kb", tracked: true,
		},
		{
			name: "above max data consumption", value: 25000, label: LabelDataConsumption,
			metric: MetricDataConsumption, suffix: "Kb", line: "Perfume.js: Data Consumption 25000.00 Kb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			s := h.session(t, config.Default())

			s.logMetric(tt.value, tt.label, tt.metric, tt.suffix)

			assert.Equal(t, []string{tt.line}, h.logLines())
			if tt.tracked {
				require.Len(t, h.tracked(), 1)
				assert.Equal(t, tt.metric, h.tracked()[0].MetricName)
			} else {
				assert.Empty(t, h.tracked())
			}
		})
	}
}

func TestLogMetric_CachesLastValue(t *testing.T) {
	h := newHarness()
	s := h.session(t, config.Default())

	s.logMetric(123.456, LabelFirstPaint, MetricFirstPaint, "")
	s.logMetric(99999, LabelFirstContentfulPaint, MetricFirstContentfulPaint, "")
	s.logMetric(4.2, LabelFirstInputDelay, MetricFirstInputDelay, "")

	assert.Equal(t, 123.46, s.FirstPaintDuration())
	assert.Equal(t, 99999.0, s.FirstContentfulPaintDuration(), "cached even above the ceiling")
	assert.Equal(t, 4.2, s.FirstInputDelayDuration())
	assert.Len(t, h.tracked(), 2)
}

func TestSendTiming_Hidden(t *testing.T) {
	h := newHarness()
	s := h.session(t, config.Default())

	h.page.SetHidden(true)
	assert.True(t, s.IsHidden())

	s.Start("a")
	_, ok := s.End("a")
	require.True(t, ok)

	assert.Len(t, h.logLines(), 1, "hidden pages still log")
	assert.Empty(t, h.tracked())

	h.page.SetHidden(false)
	assert.True(t, s.IsHidden(), "hidden latches")
	s.sendTiming(Timing{MetricName: "b", Duration: Value(1)})
	assert.Empty(t, h.tracked())
}

func TestSendTiming_Browser(t *testing.T) {
	h := newHarness()
	cfg := config.Default()
	cfg.BrowserTracker = true
	s := h.session(t, cfg, WithBrowserSource(browser.Static{Name: "Chrome", OS: "Mac OS"}))

	s.sendTiming(Timing{MetricName: "a", Duration: Value(1)})

	tracked := h.tracked()
	require.Len(t, tracked, 1)
	require.NotNil(t, tracked[0].Browser)
	assert.Equal(t, browser.Info{Name: "Chrome", OS: "Mac OS"}, *tracked[0].Browser)
	assert.Equal(t, "a", tracked[0].MetricName)
}

func TestSendTiming_BrowserUnresolved(t *testing.T) {
	h := newHarness()
	cfg := config.Default()
	cfg.BrowserTracker = true
	s := h.session(t, cfg, WithBrowserSource(browser.Static{}))

	s.sendTiming(Timing{MetricName: "a", Duration: Value(1)})

	require.Len(t, h.tracked(), 1)
	assert.Nil(t, h.tracked()[0].Browser)
}

func TestAddBrowserToMetricName(t *testing.T) {
	tests := []struct {
		name    string
		tracker bool
		info    browser.Info
		want    string
	}{
		{"tracker off", false, browser.Info{Name: "Chrome", OS: "Mac"}, "x"},
		{"unresolved", true, browser.Info{}, "x"},
		{"os without name", true, browser.Info{OS: "Mac"}, "x"},
		{"name only", true, browser.Info{Name: "Chrome"}, "x.Chrome"},
		{"name and os", true, browser.Info{Name: "Chrome", OS: "Mac"}, "x.Chrome.Mac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			cfg := config.Default()
			cfg.BrowserTracker = tt.tracker
			s := h.session(t, cfg, WithBrowserSource(browser.Static(tt.info)))

			assert.Equal(t, tt.want, s.AddBrowserToMetricName("x"))
		})
	}
}

func TestSetAnalyticsTracker(t *testing.T) {
	h := newHarness()
	s := h.session(t, config.Default())

	var got []string
	s.SetAnalyticsTracker(func(tm Timing) { got = append(got, tm.MetricName) })
	s.sendTiming(Timing{MetricName: "a"})
	s.SetAnalyticsTracker(nil)
	s.sendTiming(Timing{MetricName: "b"})

	assert.Equal(t, []string{"a"}, got)
	assert.Empty(t, h.tracked())
}

func TestToFixed2(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{1, "1.00"},
		{0.125, "0.13"},
		{-0.125, "-0.13"},
		{2.5, "2.50"},
		{12.345, "12.35"},
		{1.005, "1.00"},
		{0.005, "0.01"},
		{1234.567, "1234.57"},
		{15000.004, "15000.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, toFixed2(tt.in), "toFixed2(%v)", tt.in)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 12.35, round2(12.345))
	assert.Equal(t, 10.0, round2(10))
	assert.InDelta(t, 22.35, round2(12.345)+round2(10), 1e-9)
}
