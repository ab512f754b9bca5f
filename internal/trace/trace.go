// Package trace reads recorded page sessions and replays them against a
// perfume Session.
//
// A trace is a YAML or JSON document:
//
//	name: checkout page
//	userAgent: "Mozilla/5.0 (Macintosh; ...) Chrome/71.0.3578.98 Safari/537.36"
//	config:
//	  firstContentfulPaint: true
//	  dataConsumption: true
//	navigation:
//	  requestStart: 10
//	  responseStart: 40
//	  responseEnd: 100
//	events:
//	  - at: 120ms
//	    entries:
//	      - {name: first-contentful-paint, entryType: paint}
//	  - at: 200ms
//	    start: checkout
//	  - at: 450ms
//	    end: checkout
package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/perfume/perfume/config"
	"github.com/wesleyorama2/perfume/perfume/observer"
)

// Trace is a recorded page session.
type Trace struct {
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	UserAgent string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`

	// Duration is how long the page stays open. Zero means until the data
	// consumption deadline after the last event.
	Duration config.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`

	// Supported lists the entry types the simulated browser can observe.
	// Empty means all of them.
	Supported []string `json:"supported,omitempty" yaml:"supported,omitempty"`

	Config     config.Config   `json:"config" yaml:"config"`
	Navigation *observer.Entry `json:"navigation,omitempty" yaml:"navigation,omitempty"`
	Events     []Event         `json:"events" yaml:"events"`
}

// Event is one step of a trace. Each event carries exactly one action.
type Event struct {
	// At is the offset from the start of the page.
	At config.Duration `json:"at" yaml:"at"`

	// Entries are delivered to observers as one batch. Entries without a
	// start time start at At.
	Entries []observer.Entry `json:"entries,omitempty" yaml:"entries,omitempty"`

	Start    string `json:"start,omitempty" yaml:"start,omitempty"`
	End      string `json:"end,omitempty" yaml:"end,omitempty"`
	EndPaint string `json:"endPaint,omitempty" yaml:"endPaint,omitempty"`

	Hidden *bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`

	DisconnectDataConsumption bool `json:"disconnectDataConsumption,omitempty" yaml:"disconnectDataConsumption,omitempty"`
}

func (e Event) actions() int {
	n := 0
	if len(e.Entries) > 0 {
		n++
	}
	for _, s := range []string{e.Start, e.End, e.EndPaint} {
		if s != "" {
			n++
		}
	}
	if e.Hidden != nil {
		n++
	}
	if e.DisconnectDataConsumption {
		n++
	}
	return n
}

// Load reads, parses and validates a trace file.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}

	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	t, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Parse parses trace data. The format is chosen by the extension of path and
// defaults to YAML. Configuration keys missing from the trace keep their
// defaults.
func Parse(data []byte, path string) (*Trace, error) {
	t := &Trace{Config: config.Default()}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, t); err != nil {
			return nil, fmt.Errorf("failed to parse JSON trace: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, t); err != nil {
			return nil, fmt.Errorf("failed to parse YAML trace: %w", err)
		}
	}

	config.ApplyDefaults(&t.Config)
	return t, nil
}

// Validate checks the trace for semantic errors.
func (t *Trace) Validate() error {
	errs := &config.ValidationErrors{}

	if err := t.Config.Validate(); err != nil {
		errs.Add("config", err.Error())
	}
	if t.Duration < 0 {
		errs.Add("duration", "must not be negative")
	}

	for i, e := range t.Events {
		field := fmt.Sprintf("events[%d]", i)
		if e.At < 0 {
			errs.Add(field+".at", "must not be negative")
		}
		switch e.actions() {
		case 0:
			errs.Add(field, "has no action")
		case 1:
		default:
			errs.Add(field, "must have exactly one action")
		}
		for j, entry := range e.Entries {
			if entry.EntryType == "" {
				errs.Add(fmt.Sprintf("%s.entries[%d].entryType", field, j), "is required")
			}
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Marshal encodes the trace as YAML.
func (t *Trace) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trace: %w", err)
	}
	return data, nil
}
