package perfume

import "sync"

// VisibilitySource reports page visibility.
type VisibilitySource interface {
	Hidden() bool

	// OnChange registers fn to run after every visibility change.
	OnChange(fn func())
}

// OnVisibilityChange subscribes the session to visibility changes. It is
// called by New and does nothing without a visibility source.
func (s *Session) OnVisibilityChange() {
	if s.visibility == nil {
		return
	}
	s.visibility.OnChange(s.DidVisibilityChange)
}

// DidVisibilityChange latches the hidden flag once the page has been hidden.
// A hidden session never forwards metrics to analytics again.
func (s *Session) DidVisibilityChange() {
	if s.visibility == nil || !s.visibility.Hidden() {
		return
	}
	s.mu.Lock()
	s.isHidden = true
	s.mu.Unlock()
}

// IsHidden reports whether the page has been hidden at least once.
func (s *Session) IsHidden() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isHidden
}

// Page is a settable VisibilitySource.
type Page struct {
	mu        sync.Mutex
	hidden    bool
	listeners []func()
}

// Hidden implements VisibilitySource.
func (p *Page) Hidden() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hidden
}

// OnChange implements VisibilitySource.
func (p *Page) OnChange(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// SetHidden changes the visibility state and notifies listeners when it
// changed.
func (p *Page) SetHidden(hidden bool) {
	p.mu.Lock()
	if p.hidden == hidden {
		p.mu.Unlock()
		return
	}
	p.hidden = hidden
	listeners := append([]func(){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
