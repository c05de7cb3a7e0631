package tools

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateTool is returned by Register when the name is already taken.
var ErrDuplicateTool = errors.New("duplicate tool name")

// UnknownToolError is returned by Dispatch for a name that was never registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// FieldError describes one argument that failed validation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned by Dispatch when the arguments do not match
// the tool's input schema. Fields follow the schema's parameter order.
type ValidationError struct {
	Tool   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("invalid arguments for tool %s: %s", e.Tool, strings.Join(parts, "; "))
}

// FieldNames lists the names of the violated fields.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}
