package perfume

import (
	"fmt"

	"github.com/wesleyorama2/perfume/perfume/config"
	"github.com/wesleyorama2/perfume/perfume/observer"
	"github.com/wesleyorama2/perfume/perfume/timing"
)

func (s *Session) initPerformanceObserver(cfg config.Config) {
	if cfg.FirstPaint || cfg.FirstContentfulPaint {
		s.initFirstPaint()
	}
	if cfg.FirstInputDelay {
		s.initFirstInputDelay()
	}
	if cfg.DataConsumption {
		s.initDataConsumption(cfg)
	}
}

func (s *Session) initFirstPaint() {
	s.LogDebug("initFirstPaint", observer.TypePaint)
	s.observe("initFirstPaint", observer.TypePaint, s.digestFirstPaintEntries)
}

func (s *Session) initFirstInputDelay() {
	s.LogDebug("initFirstInputDelay", observer.TypeFirstInput)
	s.observe("initFirstInputDelay", observer.TypeFirstInput, s.digestFirstInputDelayEntries)
}

func (s *Session) initDataConsumption(cfg config.Config) {
	s.LogDebug("initDataConsumption", observer.TypeResource)
	if !s.observe("initDataConsumption", observer.TypeResource, s.digestDataConsumptionEntries) {
		return
	}

	timeout := cfg.DataConsumptionTimeout.GetDuration(config.DefaultDataConsumptionTimeout)
	timer := s.scheduler.After(timeout, s.dataConsumptionTimedOut)
	s.mu.Lock()
	s.dataTimer = timer
	s.mu.Unlock()
}

// observe subscribes to entryType and stores the handle under that family.
// Failures, including panics from the observer, are reported as a
// "<init> failed" warning.
func (s *Session) observe(initName, entryType string, onBatch func([]observer.Entry)) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logWarn(initName + " failed")
			s.LogDebug(initName, fmt.Sprint(r))
			ok = false
		}
	}()

	sub, err := s.observer.Observe([]string{entryType}, onBatch)
	if err != nil {
		s.logWarn(initName + " failed")
		s.LogDebug(initName, err.Error())
		return false
	}

	s.mu.Lock()
	s.perfObservers[entryType] = observer.NewHandle(sub)
	s.mu.Unlock()
	return true
}

func (s *Session) digestFirstPaintEntries(entries []observer.Entry) {
	s.LogDebug("digestFirstPaintEntries", len(entries))
	cfg := s.Config()

	for _, e := range entries {
		switch {
		case e.Name == observer.FirstPaint && cfg.FirstPaint:
			s.queueMetric(e.StartTime, LabelFirstPaint, MetricFirstPaint, "")
		case e.Name == observer.FirstContentfulPaint && cfg.FirstContentfulPaint:
			s.queueMetric(e.StartTime, LabelFirstContentfulPaint, MetricFirstContentfulPaint, "")
		}
	}
}

// digestFirstInputDelayEntries reports the first entry of the first batch
// and disconnects. The first input also finalizes data consumption. Later
// batches are ignored.
func (s *Session) digestFirstInputDelayEntries(entries []observer.Entry) {
	s.LogDebug("digestFirstInputDelayEntries", len(entries))

	s.mu.Lock()
	if s.firstInputDone {
		s.mu.Unlock()
		return
	}
	s.firstInputDone = true
	enabled := s.config.FirstInputDelay
	handle := s.perfObservers[observer.TypeFirstInput]
	s.mu.Unlock()

	if enabled && len(entries) > 0 {
		s.queueMetric(entries[0].Duration, LabelFirstInputDelay, MetricFirstInputDelay, "")
	}
	handle.Disconnect()
	s.DisconnectDataConsumption()
}

// digestDataConsumptionEntries adds each entry's decoded body size, in Kb
// rounded to two decimals, to the running total.
func (s *Session) digestDataConsumptionEntries(entries []observer.Entry) {
	s.LogDebug("digestDataConsumptionEntries", len(entries))

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.config.DataConsumption || s.dataConsumptionDone {
		return
	}
	for _, e := range entries {
		if e.DecodedBodySize > 0 {
			s.dataConsumption += round2(e.DecodedBodySize / 1000)
		}
	}
}

// DisconnectDataConsumption reports the data consumption total and stops
// collecting. Only the first call has an effect, and none when the resource
// subscription was never established.
func (s *Session) DisconnectDataConsumption() {
	s.mu.Lock()
	handle, ok := s.perfObservers[observer.TypeResource]
	if !ok || s.dataConsumptionDone {
		s.mu.Unlock()
		return
	}
	s.dataConsumptionDone = true
	total := s.dataConsumption
	timer := s.dataTimer
	s.dataTimer = nil
	s.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	s.logMetric(total, LabelDataConsumption, MetricDataConsumption, "Kb")
	handle.Disconnect()
}

// dataConsumptionTimedOut is the deadline callback. The fired timer is
// dropped first so DisconnectDataConsumption does not stop it.
func (s *Session) dataConsumptionTimedOut() {
	s.mu.Lock()
	s.dataTimer = nil
	s.mu.Unlock()
	s.DisconnectDataConsumption()
}

func (s *Session) logNavigationTiming() {
	data := map[string]float64{}
	if src, ok := s.provider.(timing.NavigationSource); ok {
		if entry, ok := src.NavigationEntry(); ok {
			data = timing.NavigationTiming(entry)
		}
	}

	s.Log(Report{MetricName: MetricNavigationTiming, Data: data})
	s.sendTiming(Timing{MetricName: MetricNavigationTiming, Data: data})
}
