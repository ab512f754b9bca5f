package console

import "sync"

// Call is one recorded sink call.
type Call struct {
	Warn bool
	Text string
	Args []any
}

// Recorder is a Sink that keeps every call in memory.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// Log implements Sink.
func (r *Recorder) Log(text string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Text: text, Args: args})
}

// Warn implements Sink. The first argument becomes Text.
func (r *Recorder) Warn(args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := Call{Warn: true}
	if len(args) > 0 {
		c.Text = formatArg(args[0])
		c.Args = args[1:]
	}
	r.calls = append(r.calls, c)
}

// Logs returns the recorded Log calls.
func (r *Recorder) Logs() []Call {
	return r.filter(false)
}

// Warnings returns the recorded Warn calls.
func (r *Recorder) Warnings() []Call {
	return r.filter(true)
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) filter(warn bool) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Warn == warn {
			out = append(out, c)
		}
	}
	return out
}
