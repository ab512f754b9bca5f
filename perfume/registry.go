package perfume

import (
	"errors"

	"github.com/wesleyorama2/perfume/perfume/config"
	"github.com/wesleyorama2/perfume/perfume/queue"
	"github.com/wesleyorama2/perfume/perfume/timing"
)

// ErrNotRecording is returned by an EndPaint future when its metric had no
// open recording by the time the frame elapsed.
var ErrNotRecording = errors.New("perfume: metric is not recording")

// Start opens a recording for name. Starting a name that is already
// recording warns and keeps the first start.
func (s *Session) Start(name string) {
	if !s.checkMetricName(name) {
		return
	}

	s.mu.Lock()
	if _, ok := s.metrics[name]; ok {
		s.mu.Unlock()
		s.logWarn("Recording already started.")
		return
	}
	s.metrics[name] = &Measurement{Name: name, Start: s.provider.Now()}
	s.mu.Unlock()

	s.provider.Mark(name, timing.PhaseStart)
}

// End closes the recording for name and returns its duration in ms, rounded
// to two decimals. Reporting the duration is deferred to the queue.
//
// ok is false when name is empty or has no open recording.
func (s *Session) End(name string) (duration float64, ok bool) {
	if !s.checkMetricName(name) {
		return 0, false
	}

	s.mu.Lock()
	m, found := s.metrics[name]
	if !found {
		s.mu.Unlock()
		s.logWarn("Recording already stopped.")
		return 0, false
	}
	delete(s.metrics, name)
	s.mu.Unlock()

	m.End = s.provider.Now()
	s.provider.Mark(name, timing.PhaseEnd)
	duration = round2(s.provider.Measure(name, timing.Interval{Start: m.Start, End: m.End}))

	s.scheduler.PushTask(func() {
		s.Log(Report{MetricName: name, Duration: Value(duration)})
		s.sendTiming(Timing{MetricName: name, Duration: Value(duration)})
	})
	return duration, true
}

// EndPaint ends name after the next frame has been painted.
//
// The returned future resolves with the duration, or is rejected with
// ErrNotRecording if name was not recording at that point. Cancelling the
// future before then leaves the recording open.
func (s *Session) EndPaint(name string) *queue.Future[float64] {
	f := queue.NewFuture[float64]()
	frame := s.Config().FrameInterval.GetDuration(config.DefaultFrameInterval)

	f.Track(s.scheduler.After(frame, func() {
		if f.Cancelled() {
			return
		}
		f.Track(s.scheduler.After(0, func() {
			if f.Cancelled() {
				return
			}
			d, ok := s.End(name)
			if !ok {
				f.Reject(ErrNotRecording)
				return
			}
			f.Resolve(d)
		}))
	}))
	return f
}

// IsRecording reports whether name has an open recording.
func (s *Session) IsRecording(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.metrics[name]
	return ok
}
