package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate checks ceilings, timeouts and the log prefix.
//
// Returns nil if valid, or a *ValidationErrors containing every problem.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if strings.TrimSpace(c.LogPrefix) == "" {
		errs.Add("logPrefix", "log prefix cannot be empty")
	}
	if c.MaxMeasureTime <= 0 {
		errs.Add("maxMeasureTime", fmt.Sprintf("must be positive, got %g", c.MaxMeasureTime))
	}
	if c.MaxDataConsumption <= 0 {
		errs.Add("maxDataConsumption", fmt.Sprintf("must be positive, got %g", c.MaxDataConsumption))
	}
	if c.DataConsumptionTimeout < 0 {
		errs.Add("dataConsumptionTimeout", "cannot be negative")
	}
	if c.IdleTimeout < 0 {
		errs.Add("idleTimeout", "cannot be negative")
	}
	if c.FrameInterval < 0 {
		errs.Add("frameInterval", "cannot be negative")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
