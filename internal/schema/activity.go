// Package schema holds the JSON Schema enforced at the persistence
// boundary: every activity document written to storage must validate
// against it, independent of the in-process struct validation.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ktanaka/notices-tracker/constants"
)

const datePattern = `^\d{4}-\d{2}-\d{2}$`
const clockPattern = `^([01]\d|2[0-3]):([0-5]\d)$`

// ActivitySchema returns the schema for a persisted activity document.
func ActivitySchema() map[string]any {
	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"id", "title", "category", "priority", "status", "member_ids", "checklist", "tags", "is_all_day", "confidence", "created_at", "updated_at"},
		"properties": map[string]any{
			"id":          map[string]any{"type": "string", "pattern": `^ocr-.+-\d+$`},
			"title":       map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"start_date":  map[string]any{"type": "string", "pattern": datePattern},
			"start_time":  map[string]any{"type": "string", "pattern": clockPattern},
			"end_date":    map[string]any{"type": "string", "pattern": datePattern},
			"end_time":    map[string]any{"type": "string", "pattern": clockPattern},
			"due_date":    map[string]any{"type": "string", "pattern": datePattern},
			"is_all_day":  map[string]any{"type": "boolean"},
			"category":    map[string]any{"type": "string", "enum": constants.ActivityCategories()},
			"priority":    map[string]any{"type": "string", "enum": constants.Priorities()},
			"location":    map[string]any{"type": "string"},
			"status":      map[string]any{"type": "string"},
			"member_ids":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"checklist": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"id", "title", "checked"},
					"properties": map[string]any{
						"id":       map[string]any{"type": "string", "minLength": 1},
						"title":    map[string]any{"type": "string", "minLength": 1},
						"checked":  map[string]any{"type": "boolean"},
						"category": map[string]any{"type": "string"},
					},
				},
			},
			"tags":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"created_at": map[string]any{"type": "string", "pattern": datePattern},
			"updated_at": map[string]any{"type": "string", "pattern": datePattern},
		},
	}
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// ValidateActivityJSON validates an encoded activity document against
// the activity schema. The schema compiles once per process.
func ValidateActivityJSON(data []byte) error {
	compileOnce.Do(func() {
		b, err := json.Marshal(ActivitySchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("activity.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("activity.json")
	})
	if compileErr != nil {
		return compileErr
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal activity: %w", err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("activity does not match schema: %w", err)
	}
	return nil
}
