package tools

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTool is returned for names outside the catalog
	ErrUnknownTool = errors.New("unknown tool")

	// ErrValidation is matched by every ValidationError
	ErrValidation = errors.New("invalid tool arguments")
)

// FieldError describes one rejected argument
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned when tool arguments fail the parameter
// schema. The handler is never run in that case.
type ValidationError struct {
	Tool   string       `json:"tool"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Reason))
	}
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(parts, "; "))
}

// Is lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
