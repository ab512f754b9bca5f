// Package console provides the log sinks a perfume session writes to.
//
// A Sink mirrors the two console calls a session makes: Log for metric and
// debug lines and Warn for usage warnings. Gating on the logging, warning and
// debugging flags happens in the session, never in the sink.
package console

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Sink receives formatted log lines.
type Sink interface {
	// Log writes text followed by any extra values, e.g. a data payload.
	Log(text string, args ...any)

	// Warn writes a warning made of args.
	Warn(args ...any)
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Log(string, ...any) {}
func (discard) Warn(...any)        {}

// formatArg renders maps and slices as JSON and everything else with fmt.
func formatArg(arg any) string {
	switch v := arg.(type) {
	case string:
		return v
	case map[string]float64, map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

func joinArgs(args []any) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, formatArg(a))
	}
	return strings.Join(parts, " ")
}
