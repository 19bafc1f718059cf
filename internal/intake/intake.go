// Package intake is the form-presentation collaborator: it collects field
// values, enforces the form-level constraints (required fields, types, email
// shape) via JSON Schema, and produces plain FormPayload values for the
// pipeline. Intake failures are field-keyed and never reach the pipeline
// gates.
package intake

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/internal/submission"
)

const schemaURL = "https://blogsubmission.schemas.local/form-payload.schema.json"

const payloadSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["blogTitle", "authorName", "email", "blogContent", "category", "termsAgreed"],
  "additionalProperties": false,
  "properties": {
    "blogTitle":   {"type": "string", "minLength": 1},
    "authorName":  {"type": "string", "minLength": 1},
    "email":       {"type": "string", "format": "email"},
    "blogContent": {"type": "string"},
    "category":    {"type": "string", "minLength": 1},
    "termsAgreed": {"type": "boolean"}
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	if err := c.AddResource(schemaURL, strings.NewReader(payloadSchema)); err != nil {
		panic(fmt.Sprintf("loading payload schema: %v", err))
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("compiling payload schema: %v", err))
	}
	return schema
}

// Error holds per-field intake failure messages.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	var parts []string
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(parts, "; ")
}

// ParsePayload validates a JSON document against the form schema and decodes
// it into a FormPayload. Failures return an *Error keyed by field name.
func ParsePayload(data []byte) (submission.FormPayload, error) {
	var doc any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return submission.FormPayload{}, &Error{
			Fields: map[string]string{"": fmt.Sprintf("invalid JSON: %v", err)},
		}
	}

	if err := compiledSchema.Validate(doc); err != nil {
		var schemaErr *jsonschema.ValidationError
		if errors.As(err, &schemaErr) {
			return submission.FormPayload{}, &Error{Fields: fieldMessages(schemaErr)}
		}
		return submission.FormPayload{}, fmt.Errorf("validating payload: %w", err)
	}

	var payload submission.FormPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return submission.FormPayload{}, fmt.Errorf("decoding payload: %w", err)
	}
	return payload, nil
}

// fieldMessages flattens a schema validation error tree into per-field
// messages, keyed by the instance location ("/email" becomes "email").
func fieldMessages(validationErr *jsonschema.ValidationError) map[string]string {
	fields := make(map[string]string)
	collectLeaves(validationErr, fields)
	return fields
}

func collectLeaves(validationErr *jsonschema.ValidationError, fields map[string]string) {
	if len(validationErr.Causes) == 0 {
		field := strings.TrimPrefix(validationErr.InstanceLocation, "/")
		if _, ok := fields[field]; !ok {
			fields[field] = validationErr.Message
		}
		return
	}
	for _, cause := range validationErr.Causes {
		collectLeaves(cause, fields)
	}
}
