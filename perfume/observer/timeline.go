package observer

import (
	"sort"
	"sync"
)

// Timeline is an in-memory Observer. Entries passed to Dispatch are
// delivered to every live subscription whose entry types match.
//
// Timeline is used to replay recorded sessions and as a test double for a
// real platform timeline.
//
// # Thread Safety
//
// Timeline is safe for concurrent use. Batches are delivered on the goroutine
// calling Dispatch, outside the internal lock.
type Timeline struct {
	mu        sync.Mutex
	supported map[string]bool
	subs      []*timelineSub
}

type timelineSub struct {
	timeline *Timeline
	types    map[string]bool
	onBatch  func([]Entry)
}

// NewTimeline creates a timeline that streams the given entry types. With no
// arguments every type is supported.
func NewTimeline(supported ...string) *Timeline {
	t := &Timeline{}
	if len(supported) > 0 {
		t.supported = make(map[string]bool, len(supported))
		for _, s := range supported {
			t.supported[s] = true
		}
	}
	return t
}

// Observe implements Observer.
func (t *Timeline) Observe(entryTypes []string, onBatch func([]Entry)) (Subscription, error) {
	types := make(map[string]bool, len(entryTypes))
	for _, et := range entryTypes {
		if t.supported != nil && !t.supported[et] {
			return nil, UnsupportedError(et)
		}
		types[et] = true
	}

	sub := &timelineSub{timeline: t, types: types, onBatch: onBatch}

	t.mu.Lock()
	t.subs = append(t.subs, sub)
	t.mu.Unlock()

	return sub, nil
}

// Dispatch delivers entries as one batch per matching subscription, sorted by
// start time.
func (t *Timeline) Dispatch(entries ...Entry) {
	if len(entries) == 0 {
		return
	}

	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})

	t.mu.Lock()
	subs := append([]*timelineSub(nil), t.subs...)
	t.mu.Unlock()

	for _, sub := range subs {
		var batch []Entry
		for _, e := range sorted {
			if sub.types[e.EntryType] {
				batch = append(batch, e)
			}
		}
		if len(batch) > 0 && sub.live() {
			sub.onBatch(batch)
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (t *Timeline) Subscribers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

func (s *timelineSub) live() bool {
	s.timeline.mu.Lock()
	defer s.timeline.mu.Unlock()
	for _, sub := range s.timeline.subs {
		if sub == s {
			return true
		}
	}
	return false
}

// Disconnect implements Subscription.
func (s *timelineSub) Disconnect() {
	t := s.timeline
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, sub := range t.subs {
		if sub == s {
			t.subs = append(t.subs[:i], t.subs[i+1:]...)
			return
		}
	}
}
