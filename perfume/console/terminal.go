package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Terminal writes colored lines to a writer.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	metric *color.Color
	warn   *color.Color
}

// TerminalConfig contains configuration for Terminal.
type TerminalConfig struct {
	Writer      io.Writer
	NoColor     bool
	ForceColors bool
}

// NewTerminal creates a terminal sink. Colors are used when the writer is a
// terminal, unless NoColor is set or NO_COLOR is present in the environment.
func NewTerminal(config TerminalConfig) *Terminal {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}

	t := &Terminal{
		out:    config.Writer,
		metric: color.New(color.FgYellow),
		warn:   color.New(color.FgRed, color.Bold),
	}

	if useColors(config) {
		t.metric.EnableColor()
		t.warn.EnableColor()
	} else {
		t.metric.DisableColor()
		t.warn.DisableColor()
	}
	return t
}

// Log implements Sink.
func (t *Terminal) Log(text string, args ...any) {
	line := t.metric.Sprint(text)
	if len(args) > 0 {
		line += " " + joinArgs(args)
	}
	t.write(line)
}

// Warn implements Sink.
func (t *Terminal) Warn(args ...any) {
	t.write(t.warn.Sprint(joinArgs(args)))
}

func (t *Terminal) write(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, strings.TrimRight(line, "\n"))
}

func useColors(config TerminalConfig) bool {
	if config.NoColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	if config.ForceColors || os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return isTerminal(config.Writer)
}

// isTerminal checks if the writer is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
