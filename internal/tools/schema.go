package tools

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// ParamType is the JSON type of a tool parameter.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeNumber ParamType = "number"
)

// Param describes one named tool argument.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
}

// JSONSchema returns the JSON Schema for a single value of this parameter.
func (p Param) JSONSchema() *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:        string(p.Type),
		Description: p.Description,
	}
	for _, v := range p.Enum {
		s.Enum = append(s.Enum, v)
	}
	return s
}

type compiledParam struct {
	Param
	resolved *jsonschema.Resolved
}

func compileParams(params []Param) ([]compiledParam, error) {
	seen := make(map[string]bool, len(params))
	compiled := make([]compiledParam, 0, len(params))
	for _, p := range params {
		if p.Name == "" {
			return nil, fmt.Errorf("parameter has empty name")
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate parameter %q", p.Name)
		}
		seen[p.Name] = true

		switch p.Type {
		case TypeString, TypeNumber:
		default:
			return nil, fmt.Errorf("parameter %q has unsupported type %q", p.Name, p.Type)
		}

		resolved, err := p.JSONSchema().Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: schema resolution failed: %w", p.Name, err)
		}
		compiled = append(compiled, compiledParam{Param: p, resolved: resolved})
	}
	return compiled, nil
}

// validate checks args against every parameter and collects all violations.
// Arguments not named by any parameter are ignored.
func validate(tool string, params []compiledParam, args map[string]any) error {
	var fields []FieldError
	for _, p := range params {
		v, ok := args[p.Name]
		if !ok {
			if p.Required {
				fields = append(fields, FieldError{Field: p.Name, Message: "is required"})
			}
			continue
		}
		if err := p.resolved.Validate(v); err != nil {
			fields = append(fields, FieldError{Field: p.Name, Message: err.Error()})
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Tool: tool, Fields: fields}
	}
	return nil
}

// Input is a validated argument set. Accessors return the zero value for
// absent arguments.
type Input map[string]any

// Has reports whether name was supplied.
func (in Input) Has(name string) bool {
	_, ok := in[name]
	return ok
}

// String returns the string argument name.
func (in Input) String(name string) string {
	s, _ := in[name].(string)
	return s
}

// StringOr returns the string argument name, or fallback when it was not supplied.
func (in Input) StringOr(name, fallback string) string {
	if !in.Has(name) {
		return fallback
	}
	return in.String(name)
}

// Number returns the numeric argument name.
func (in Input) Number(name string) float64 {
	switch v := in[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}
