package observer

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnsupportedEntryType is returned by Observe when the host cannot stream
// a requested entry type.
var ErrUnsupportedEntryType = errors.New("unsupported entry type")

// Observer subscribes to performance entry streams.
type Observer interface {
	// Observe delivers batches of entries whose type is one of entryTypes
	// to onBatch until the subscription is disconnected.
	Observe(entryTypes []string, onBatch func([]Entry)) (Subscription, error)
}

// Subscription is a live entry stream.
type Subscription interface {
	Disconnect()
}

// Handle owns a Subscription and disconnects it at most once.
//
// A nil Handle, or a Handle over a nil Subscription, is treated as already
// disconnected.
type Handle struct {
	once sync.Once
	sub  Subscription
}

// NewHandle wraps sub.
func NewHandle(sub Subscription) *Handle {
	return &Handle{sub: sub}
}

// Disconnect disconnects the underlying subscription the first time it is
// called. It reports whether this call performed the disconnect.
func (h *Handle) Disconnect() bool {
	if h == nil {
		return false
	}
	done := false
	h.once.Do(func() {
		if h.sub != nil {
			h.sub.Disconnect()
			done = true
		}
	})
	return done
}

// UnsupportedError names the entry type an Observer rejected.
func UnsupportedError(entryType string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedEntryType, entryType)
}
