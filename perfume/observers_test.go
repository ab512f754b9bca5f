package perfume

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/perfume/perfume/config"
	"github.com/wesleyorama2/perfume/perfume/observer"
	"github.com/wesleyorama2/perfume/perfume/timing"
)

func paintEntry(name string, start float64) observer.Entry {
	return observer.Entry{Name: name, EntryType: observer.TypePaint, StartTime: start}
}

func resourceEntry(start, decoded float64) observer.Entry {
	return observer.Entry{Name: "asset", EntryType: observer.TypeResource, StartTime: start, DecodedBodySize: decoded}
}

func TestInit_NoObserver(t *testing.T) {
	h := newHarness()
	cfg := warnConfig()
	cfg.FirstPaint = true
	h.session(t, cfg, WithObserver(nil))

	assert.Equal(t, []string{"PerformanceObserver not supported"}, h.warnings())
}

func TestInit_NothingEnabled(t *testing.T) {
	h := newHarness()
	h.session(t, warnConfig(), WithObserver(nil))

	assert.Empty(t, h.warnings())
	assert.Zero(t, h.timeline.Subscribers())
}

func TestInit_ObserveFailure(t *testing.T) {
	h := newHarness()
	cfg := warnConfig()
	cfg.FirstPaint = true
	cfg.FirstInputDelay = true
	cfg.DataConsumption = true
	s := h.session(t, cfg, WithObserver(observer.NewTimeline(observer.TypePaint)))

	assert.Equal(t, []string{"initFirstInputDelay failed", "initDataConsumption failed"}, h.warnings())

	// No resource subscription means no deadline report.
	h.advance(time.Minute)
	s.DisconnectDataConsumption()
	assert.Empty(t, h.logLines())
}

func TestInit_ObserverPanics(t *testing.T) {
	h := newHarness()
	cfg := warnConfig()
	cfg.FirstContentfulPaint = true
	h.session(t, cfg, WithObserver(panickingObserver{}))

	assert.Equal(t, []string{"initFirstPaint failed"}, h.warnings())
}

func TestFirstPaint(t *testing.T) {
	h := newHarness()
	cfg := config.Default()
	cfg.FirstPaint = true
	cfg.FirstContentfulPaint = true
	s := h.session(t, cfg)

	h.timeline.Dispatch(
		paintEntry(observer.FirstContentfulPaint, 200),
		paintEntry(observer.FirstPaint, 100.123),
	)

	assert.Equal(t, []string{
		"Perfume.js: First Paint 100.12 ms",
		"Perfume.js: First Contentful Paint 200.00 ms",
	}, h.logLines())

	tracked := h.tracked()
	require.Len(t, tracked, 2)
	assert.Equal(t, MetricFirstPaint, tracked[0].MetricName)
	assert.Equal(t, MetricFirstContentfulPaint, tracked[1].MetricName)
	assert.Equal(t, 100.12, s.FirstPaintDuration())
	assert.Equal(t, 200.0, s.FirstContentfulPaintDuration())
}

func TestFirstPaint_OnlyContentful(t *testing.T) {
	h := newHarness()
	cfg := config.Default()
	cfg.FirstContentfulPaint = true
	s := h.session(t, cfg)

	h.timeline.Dispatch(
		paintEntry(observer.FirstPaint, 100),
		paintEntry(observer.FirstContentfulPaint, 150),
	)

	assert.Equal(t, []string{"Perfume.js: First Contentful Paint 150.00 ms"}, h.logLines())
	assert.Zero(t, s.FirstPaintDuration())
}

func TestFirstInputDelay(t *testing.T) {
	h := newHarness()
	cfg := config.Default()
	cfg.FirstInputDelay = true
	s := h.session(t, cfg)
	require.Equal(t, 1, h.timeline.Subscribers())

	h.timeline.Dispatch(
		observer.Entry{Name: "mousedown", EntryType: observer.TypeFirstInput, StartTime: 10, Duration: 8.5},
		observer.Entry{Name: "keydown", EntryType: observer.TypeFirstInput, StartTime: 20, Duration: 30},
	)

	assert.Equal(t, []string{"Perfume.js: First Input Delay 8.50 ms"}, h.logLines())
	assert.Equal(t, 8.5, s.FirstInputDelayDuration())
	assert.Zero(t, h.timeline.Subscribers(), "disconnected after the first batch")

	h.timeline.Dispatch(observer.Entry{EntryType: observer.TypeFirstInput, Duration: 99})
	assert.Len(t, h.tracked(), 1)
}

func TestFirstInputDelay_DisconnectsOnce(t *testing.T) {
	h := newHarness()
	obs := newCountingObserver()
	cfg := config.Default()
	cfg.FirstInputDelay = true
	h.session(t, cfg, WithObserver(obs))

	obs.deliver(observer.TypeFirstInput, observer.Entry{EntryType: observer.TypeFirstInput, Duration: 3})
	obs.deliver(observer.TypeFirstInput, observer.Entry{EntryType: observer.TypeFirstInput, Duration: 4})

	assert.Equal(t, 1, obs.sub(observer.TypeFirstInput).count())
	assert.Len(t, h.tracked(), 1)
}

func TestFirstInputDelay_FinalizesDataConsumption(t *testing.T) {
	h := newHarness()
	obs := newCountingObserver()
	cfg := config.Default()
	cfg.FirstInputDelay = true
	cfg.DataConsumption = true
	s := h.session(t, cfg, WithObserver(obs))

	obs.deliver(observer.TypeResource, resourceEntry(1, 4321))
	h.advance(time.Second)
	obs.deliver(observer.TypeFirstInput, observer.Entry{EntryType: observer.TypeFirstInput, Duration: 6})

	assert.Equal(t, []string{
		"Perfume.js: First Input Delay 6.00 ms",
		"Perfume.js: Data Consumption 4.32 Kb",
	}, h.logLines())
	assert.Equal(t, 1, obs.sub(observer.TypeResource).count())

	obs.deliver(observer.TypeResource, resourceEntry(2, 9000))
	h.advance(config.DefaultDataConsumptionTimeout)

	assert.Len(t, h.logLines(), 2, "the deadline adds no second report")
	assert.Equal(t, 4.32, s.DataConsumption())
	assert.Equal(t, 1, obs.sub(observer.TypeResource).count())
	assert.Len(t, h.tracked(), 2)
}

func TestDataConsumption(t *testing.T) {
	h := newHarness()
	cfg := config.Default()
	cfg.DataConsumption = true
	s := h.session(t, cfg)

	h.timeline.Dispatch(resourceEntry(1, 12345), resourceEntry(2, 0))
	assert.Equal(t, 12.35, s.DataConsumption())

	h.timeline.Dispatch(resourceEntry(3, 10000))
	assert.InDelta(t, 22.35, s.DataConsumption(), 1e-9)
	assert.Empty(t, h.logLines(), "nothing is reported before the deadline")

	h.advance(config.DefaultDataConsumptionTimeout)

	require.Len(t, h.tracked(), 1)
	assert.Equal(t, []string{"Perfume.js: Data Consumption 22.35 Kb"}, h.logLines())
	tracked := h.tracked()
	assert.Equal(t, MetricDataConsumption, tracked[0].MetricName)
	assert.InDelta(t, 22.35, *tracked[0].Duration, 1e-9)
	assert.Zero(t, h.timeline.Subscribers())

	s.DisconnectDataConsumption()
	assert.Len(t, h.logLines(), 1, "second disconnect is a no-op")
}

func TestDataConsumption_ManualDisconnect(t *testing.T) {
	h := newHarness()
	obs := newCountingObserver()
	cfg := config.Default()
	cfg.DataConsumption = true
	s := h.session(t, cfg, WithObserver(obs))

	obs.deliver(observer.TypeResource, resourceEntry(1, 2000))
	s.DisconnectDataConsumption()
	s.DisconnectDataConsumption()

	obs.deliver(observer.TypeResource, resourceEntry(2, 5000))
	h.advance(time.Minute)

	assert.Equal(t, []string{"Perfume.js: Data Consumption 2.00 Kb"}, h.logLines())
	assert.Equal(t, 1, obs.sub(observer.TypeResource).count())
	assert.Equal(t, 2.0, s.DataConsumption())
}

func TestDataConsumption_NotSubscribed(t *testing.T) {
	h := newHarness()
	s := h.session(t, config.Default())

	s.DisconnectDataConsumption()

	assert.Empty(t, h.logLines())
	assert.Empty(t, h.tracked())
}

func TestNavigationTiming(t *testing.T) {
	h := newHarness()
	h.perf.SetNavigation(observer.Entry{
		FetchStart:      0,
		RequestStart:    10,
		ResponseStart:   40,
		ResponseEnd:     100,
		TransferSize:    1300,
		EncodedBodySize: 1000,
	})
	cfg := config.Default()
	cfg.NavigationTiming = true
	h.session(t, cfg)

	calls := h.sink.Logs()
	require.Len(t, calls, 1)
	assert.Equal(t, "Perfume.js: NavigationTiming ", calls[0].Text)

	tracked := h.tracked()
	require.Len(t, tracked, 1)
	assert.Equal(t, MetricNavigationTiming, tracked[0].MetricName)
	assert.Nil(t, tracked[0].Duration)
	assert.Equal(t, 90.0, tracked[0].Data[timing.TotalTime])
	assert.Equal(t, 30.0, tracked[0].Data[timing.TimeToFirstByte])
	assert.Equal(t, 300.0, tracked[0].Data[timing.HeaderSize])
}

func TestNavigationTiming_Unsupported(t *testing.T) {
	h := newHarness()
	cfg := config.Default()
	cfg.NavigationTiming = true
	h.session(t, cfg)

	tracked := h.tracked()
	require.Len(t, tracked, 1)
	assert.NotNil(t, tracked[0].Data)
	assert.Empty(t, tracked[0].Data)
}

func TestInit_Debugging(t *testing.T) {
	h := newHarness()
	cfg := config.Default()
	cfg.Debugging = true
	cfg.FirstPaint = true
	h.session(t, cfg)

	assert.Contains(t, h.logLines(), "Perfume.js debugging initFirstPaint:")
}

func TestClose(t *testing.T) {
	h := newHarness()
	cfg := config.Default()
	cfg.FirstPaint = true
	cfg.FirstInputDelay = true
	cfg.DataConsumption = true
	s := h.session(t, cfg)
	require.Equal(t, 3, h.timeline.Subscribers())

	h.timeline.Dispatch(resourceEntry(1, 5000))
	s.Close()
	s.Close()

	assert.Zero(t, h.timeline.Subscribers())
	h.advance(time.Minute)
	s.DisconnectDataConsumption()
	assert.Empty(t, h.logLines())
}

func TestUpdateConfig(t *testing.T) {
	h := newHarness()
	s := h.session(t, config.Default())

	s.UpdateConfig(func(c *config.Config) {
		c.LogPrefix = ""
		c.MaxMeasureTime = 10
	})

	cfg := s.Config()
	assert.Equal(t, config.DefaultLogPrefix, cfg.LogPrefix)
	assert.Equal(t, 10.0, cfg.MaxMeasureTime)

	s.logMetric(11, "slow", "slow", "")
	assert.Empty(t, h.tracked())
}
