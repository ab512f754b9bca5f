package trace

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// SchemaErrors lists every schema violation of a trace document.
type SchemaErrors []error

// Error implements the error interface.
func (se SchemaErrors) Error() string {
	if len(se) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, err := range se {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Schema returns the JSON schema trace documents are checked against.
func Schema() string {
	return schemaJSON
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("trace.json", strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("invalid schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("trace.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("invalid schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateSchema checks a YAML or JSON trace document against the trace
// schema. Violations are returned as SchemaErrors.
func ValidateSchema(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	// JSON is valid YAML. Round-tripping through encoding/json gives the
	// validator the value types it expects.
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid trace document: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("invalid trace document: %w", err)
	}
	var instance interface{}
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("invalid trace document: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return extractValidationErrors(verr)
		}
		return SchemaErrors{err}
	}
	return nil
}

func extractValidationErrors(err *jsonschema.ValidationError) SchemaErrors {
	var errs SchemaErrors

	if len(err.Causes) == 0 && err.Message != "" {
		errs = append(errs, fmt.Errorf("validation error at %q: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		errs = append(errs, extractValidationErrors(cause)...)
	}
	return errs
}
