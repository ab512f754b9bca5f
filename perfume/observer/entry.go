// Package observer models platform performance entries and the
// subscription primitive used to stream them.
package observer

// Entry types delivered by a performance timeline.
const (
	TypePaint      = "paint"
	TypeFirstInput = "first-input"
	TypeResource   = "resource"
	TypeNavigation = "navigation"
	TypeMark       = "mark"
	TypeMeasure    = "measure"
)

// Paint entry names.
const (
	FirstPaint           = "first-paint"
	FirstContentfulPaint = "first-contentful-paint"
)

// Entry is a single performance event as reported by the platform.
//
// All times are milliseconds relative to the time origin. Sizes are bytes.
// Fields that do not apply to an entry type are zero.
type Entry struct {
	Name      string  `json:"name" yaml:"name"`
	EntryType string  `json:"entryType" yaml:"entryType"`
	StartTime float64 `json:"startTime" yaml:"startTime"`
	Duration  float64 `json:"duration,omitempty" yaml:"duration,omitempty"`

	// Resource and navigation
	DecodedBodySize float64 `json:"decodedBodySize,omitempty" yaml:"decodedBodySize,omitempty"`
	EncodedBodySize float64 `json:"encodedBodySize,omitempty" yaml:"encodedBodySize,omitempty"`
	TransferSize    float64 `json:"transferSize,omitempty" yaml:"transferSize,omitempty"`

	// Navigation
	FetchStart        float64 `json:"fetchStart,omitempty" yaml:"fetchStart,omitempty"`
	WorkerStart       float64 `json:"workerStart,omitempty" yaml:"workerStart,omitempty"`
	DomainLookupStart float64 `json:"domainLookupStart,omitempty" yaml:"domainLookupStart,omitempty"`
	DomainLookupEnd   float64 `json:"domainLookupEnd,omitempty" yaml:"domainLookupEnd,omitempty"`
	RequestStart      float64 `json:"requestStart,omitempty" yaml:"requestStart,omitempty"`
	ResponseStart     float64 `json:"responseStart,omitempty" yaml:"responseStart,omitempty"`
	ResponseEnd       float64 `json:"responseEnd,omitempty" yaml:"responseEnd,omitempty"`
}
