package trace

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/perfume/perfume/config"
	"github.com/wesleyorama2/perfume/perfume/observer"
	"github.com/wesleyorama2/perfume/perfume/timing"
)

// ImportOptions locate data inside a raw browser dump.
type ImportOptions struct {
	// EntriesPath selects the array of performance entries. Both gjson paths
	// ("data.entries") and simple JSONPath ("$.data.entries") are accepted.
	// Empty selects the document root.
	EntriesPath string

	// UserAgentPath optionally selects the user agent string.
	UserAgentPath string
}

// Import converts a JSON dump of performance entries, as produced by
// performance.getEntries() in a browser, into a trace.
//
// Paint, first-input and resource entries become entry events at their
// start time. The navigation entry becomes the trace's navigation timing.
// Marks named "<metric>-start" and "<metric>-end" become start and end
// events. Measures are dropped since replay produces them.
func Import(dump []byte, opts ImportOptions) (*Trace, error) {
	entries, err := ExtractEntries(dump, opts.EntriesPath)
	if err != nil {
		return nil, err
	}

	t := FromEntries(entries)
	if opts.UserAgentPath != "" {
		ua := gjson.GetBytes(dump, toGjsonPath(opts.UserAgentPath))
		if !ua.Exists() {
			return nil, fmt.Errorf("path not found: %s", opts.UserAgentPath)
		}
		t.UserAgent = ua.String()
	}
	return t, nil
}

// ExtractEntries reads the entry array at path.
func ExtractEntries(dump []byte, path string) ([]observer.Entry, error) {
	if len(dump) == 0 {
		return nil, fmt.Errorf("empty JSON document")
	}
	if !gjson.ValidBytes(dump) {
		return nil, fmt.Errorf("invalid JSON document")
	}

	result := gjson.GetBytes(dump, toGjsonPath(path))
	if !result.Exists() {
		return nil, fmt.Errorf("path not found: %s", path)
	}
	if !result.IsArray() {
		return nil, fmt.Errorf("path %s is not an array", path)
	}

	var entries []observer.Entry
	var failed []string
	result.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			failed = append(failed, fmt.Sprintf("entry %s is not an object", key.String()))
			return true
		}
		entries = append(entries, entryFromJSON(value))
		return true
	})
	if len(failed) > 0 {
		return entries, fmt.Errorf("extraction errors: %s", strings.Join(failed, "; "))
	}
	return entries, nil
}

func entryFromJSON(v gjson.Result) observer.Entry {
	return observer.Entry{
		Name:              v.Get("name").String(),
		EntryType:         v.Get("entryType").String(),
		StartTime:         v.Get("startTime").Float(),
		Duration:          v.Get("duration").Float(),
		DecodedBodySize:   v.Get("decodedBodySize").Float(),
		EncodedBodySize:   v.Get("encodedBodySize").Float(),
		TransferSize:      v.Get("transferSize").Float(),
		FetchStart:        v.Get("fetchStart").Float(),
		WorkerStart:       v.Get("workerStart").Float(),
		DomainLookupStart: v.Get("domainLookupStart").Float(),
		DomainLookupEnd:   v.Get("domainLookupEnd").Float(),
		RequestStart:      v.Get("requestStart").Float(),
		ResponseStart:     v.Get("responseStart").Float(),
		ResponseEnd:       v.Get("responseEnd").Float(),
	}
}

// FromEntries builds a trace from platform entries and enables the metric
// families they feed.
func FromEntries(entries []observer.Entry) *Trace {
	t := &Trace{Config: config.Default()}

	sorted := append([]observer.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})

	for _, e := range sorted {
		at := config.Duration(time.Duration(e.StartTime * float64(time.Millisecond)))

		switch e.EntryType {
		case observer.TypeNavigation:
			nav := e
			t.Navigation = &nav
			t.Config.NavigationTiming = true
		case observer.TypePaint:
			if e.Name == observer.FirstPaint {
				t.Config.FirstPaint = true
			} else if e.Name == observer.FirstContentfulPaint {
				t.Config.FirstContentfulPaint = true
			}
			t.appendEntry(at, e)
		case observer.TypeFirstInput:
			t.Config.FirstInputDelay = true
			t.appendEntry(at, e)
		case observer.TypeResource:
			t.Config.DataConsumption = true
			t.appendEntry(at, e)
		case observer.TypeMark:
			if name, ok := strings.CutSuffix(e.Name, "-"+string(timing.PhaseStart)); ok && name != "" {
				t.Events = append(t.Events, Event{At: at, Start: name})
			} else if name, ok := strings.CutSuffix(e.Name, "-"+string(timing.PhaseEnd)); ok && name != "" {
				t.Events = append(t.Events, Event{At: at, End: name})
			}
		}
	}
	return t
}

// appendEntry adds e to the previous event when both share the same time and
// carry entries, so simultaneous entries arrive as one batch.
func (t *Trace) appendEntry(at config.Duration, e observer.Entry) {
	if n := len(t.Events); n > 0 {
		last := &t.Events[n-1]
		if last.At == at && len(last.Entries) > 0 {
			last.Entries = append(last.Entries, e)
			return
		}
	}
	t.Events = append(t.Events, Event{At: at, Entries: []observer.Entry{e}})
}

// toGjsonPath converts a JSONPath expression to a gjson path.
//
//	$.users[0].name -> users.0.name
func toGjsonPath(path string) string {
	if path == "" || path == "$" {
		return "@this"
	}

	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}

	path = strings.NewReplacer("['", ".", "']", "", `["`, ".", `"]`, "").Replace(path)
	path = strings.NewReplacer("[", ".", "]", "").Replace(path)
	return strings.TrimPrefix(path, ".")
}
