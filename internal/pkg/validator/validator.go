// Package validator checks request bodies against JSON Schemas and turns
// schema key errors into per-field validation messages.
package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dailywage-hub/internal/core/domain"

	"github.com/qri-io/jsonschema"
)

// Schema is a compiled request schema
type Schema struct {
	rs *jsonschema.Schema
}

// MustCompile parses a JSON Schema document, panicking on malformed schemas.
// Schemas are package-level literals, so a failure is a programming error.
func MustCompile(raw string) *Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(raw), rs); err != nil {
		panic(fmt.Sprintf("validator: invalid schema: %v", err))
	}
	return &Schema{rs: rs}
}

// Validate checks body against the schema. It returns a domain validation
// error listing every failing field, or nil.
func (s *Schema) Validate(ctx context.Context, body []byte) error {
	if len(body) == 0 {
		return domain.Validation("Request body is required")
	}

	keyErrs, err := s.rs.ValidateBytes(ctx, body)
	if err != nil {
		return domain.Validation("Invalid request body")
	}
	if len(keyErrs) == 0 {
		return nil
	}

	fields := make([]domain.FieldError, 0, len(keyErrs))
	for _, ke := range keyErrs {
		fields = append(fields, domain.FieldError{
			Field:   fieldName(ke),
			Message: ke.Message,
		})
	}
	return domain.Validation("Request validation failed", fields...)
}

// fieldName turns a JSON pointer into a dotted field path. Missing
// required properties are reported against the parent, so the property
// name is recovered from the message.
func fieldName(ke jsonschema.KeyError) string {
	path := strings.Trim(ke.PropertyPath, "/")
	if path == "" {
		if start := strings.Index(ke.Message, `"`); start >= 0 {
			if end := strings.Index(ke.Message[start+1:], `"`); end > 0 {
				return ke.Message[start+1 : start+1+end]
			}
		}
		return "body"
	}
	return strings.ReplaceAll(path, "/", ".")
}
