package config

import (
	"time"
)

// Default values for the configuration surface.
const (
	DefaultLogPrefix              = "Perfume.js:"
	DefaultMaxMeasureTime         = 15000.0 // ms
	DefaultMaxDataConsumption     = 20000.0 // Kb
	DefaultDataConsumptionTimeout = 15 * time.Second
	DefaultIdleTimeout            = time.Second
	DefaultFrameInterval          = 16 * time.Millisecond
)

// Config is the session configuration.
//
// Metric families are disabled by default. Logging is on, warnings and
// debugging are off.
type Config struct {
	// Metric families
	FirstPaint           bool `json:"firstPaint" yaml:"firstPaint"`
	FirstContentfulPaint bool `json:"firstContentfulPaint" yaml:"firstContentfulPaint"`
	FirstInputDelay      bool `json:"firstInputDelay" yaml:"firstInputDelay"`
	DataConsumption      bool `json:"dataConsumption" yaml:"dataConsumption"`
	NavigationTiming     bool `json:"navigationTiming" yaml:"navigationTiming"`

	// BrowserTracker attaches browser name and OS to analytics reports.
	BrowserTracker bool `json:"browserTracker" yaml:"browserTracker"`

	// Output
	Logging   bool   `json:"logging" yaml:"logging"`
	Warning   bool   `json:"warning" yaml:"warning"`
	Debugging bool   `json:"debugging" yaml:"debugging"`
	LogPrefix string `json:"logPrefix" yaml:"logPrefix"`

	// MaxMeasureTime is the ceiling in milliseconds above which durations are
	// logged but not sent to analytics.
	MaxMeasureTime float64 `json:"maxMeasureTime" yaml:"maxMeasureTime"`

	// MaxDataConsumption is the ceiling in kilobytes for the data consumption
	// metric.
	MaxDataConsumption float64 `json:"maxDataConsumption" yaml:"maxDataConsumption"`

	// DataConsumptionTimeout is how long resource entries are summed before
	// the data consumption metric is finalized.
	DataConsumptionTimeout Duration `json:"dataConsumptionTimeout,omitempty" yaml:"dataConsumptionTimeout,omitempty"`

	// IdleTimeout is the fallback delay of the deferred-work queue.
	IdleTimeout Duration `json:"idleTimeout,omitempty" yaml:"idleTimeout,omitempty"`

	// FrameInterval is how long EndPaint waits for the next frame.
	FrameInterval Duration `json:"frameInterval,omitempty" yaml:"frameInterval,omitempty"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Logging:                true,
		LogPrefix:              DefaultLogPrefix,
		MaxMeasureTime:         DefaultMaxMeasureTime,
		MaxDataConsumption:     DefaultMaxDataConsumption,
		DataConsumptionTimeout: Duration(DefaultDataConsumptionTimeout),
		IdleTimeout:            Duration(DefaultIdleTimeout),
		FrameInterval:          Duration(DefaultFrameInterval),
	}
}

// ApplyDefaults fills zero-valued durations and ceilings with defaults.
func ApplyDefaults(c *Config) {
	if c.LogPrefix == "" {
		c.LogPrefix = DefaultLogPrefix
	}
	if c.MaxMeasureTime == 0 {
		c.MaxMeasureTime = DefaultMaxMeasureTime
	}
	if c.MaxDataConsumption == 0 {
		c.MaxDataConsumption = DefaultMaxDataConsumption
	}
	if c.DataConsumptionTimeout == 0 {
		c.DataConsumptionTimeout = Duration(DefaultDataConsumptionTimeout)
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = Duration(DefaultIdleTimeout)
	}
	if c.FrameInterval == 0 {
		c.FrameInterval = Duration(DefaultFrameInterval)
	}
}

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings.
type Duration time.Duration

// GetDuration returns the duration or a default if empty.
func (d Duration) GetDuration(defaultValue time.Duration) time.Duration {
	if d == 0 {
		return defaultValue
	}
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	if s == "" {
		*d = 0
		return nil
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
