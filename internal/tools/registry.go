// Package tools is the fixed catalog of invoice operations shared by the
// chat assistant, the HTTP tools endpoint and the MCP server.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Parameter describes one named tool argument
type Parameter struct {
	Name        string
	Type        string
	Description string
	Enum        []string
	Required    bool
}

// Definition is the serializable form of a tool
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Tool is a named, schema-validated operation
type Tool struct {
	Name        string
	Description string
	Parameters  []Parameter

	validate func(args map[string]any) (any, error)
	handler  func(ctx context.Context, params any) (any, error)
}

// Validate decodes and checks args against the parameter schema
func (t *Tool) Validate(args map[string]any) (any, error) {
	return t.validate(args)
}

// Run validates args and, only if they pass, executes the handler
func (t *Tool) Run(ctx context.Context, args map[string]any) (any, error) {
	params, err := t.validate(args)
	if err != nil {
		return nil, err
	}
	return t.handler(ctx, params)
}

// Schema returns the JSON Schema object for the tool parameters
func (t *Tool) Schema() map[string]any {
	properties := make(map[string]any, len(t.Parameters))
	required := make([]string, 0)

	for _, p := range t.Parameters {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// define builds a Tool whose arguments decode into P and are checked with
// validator struct tags before handler runs.
func define[P any](
	v *validator.Validate,
	name, description string,
	params []Parameter,
	handler func(ctx context.Context, params P) (any, error),
) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		Parameters:  params,
		validate: func(args map[string]any) (any, error) {
			return decodeArgs[P](v, name, args)
		},
		handler: func(ctx context.Context, params any) (any, error) {
			return handler(ctx, params.(P))
		},
	}
}

func decodeArgs[P any](v *validator.Validate, name string, args map[string]any) (P, error) {
	var params P
	if args == nil {
		args = map[string]any{}
	}

	data, err := json.Marshal(args)
	if err != nil {
		return params, &ValidationError{Tool: name, Fields: []FieldError{{Field: "arguments", Reason: err.Error()}}}
	}

	if err := json.Unmarshal(data, &params); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return params, &ValidationError{Tool: name, Fields: []FieldError{{
				Field:  typeErr.Field,
				Reason: fmt.Sprintf("must be a %s", typeErr.Type.Kind()),
			}}}
		}
		return params, &ValidationError{Tool: name, Fields: []FieldError{{Field: "arguments", Reason: err.Error()}}}
	}

	if err := v.Struct(params); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return params, fmt.Errorf("validate %s arguments: %w", name, err)
		}
		verr := &ValidationError{Tool: name}
		for _, fe := range fieldErrs {
			verr.Fields = append(verr.Fields, FieldError{Field: fe.Field(), Reason: reason(fe)})
		}
		return params, verr
	}

	return params, nil
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Registry is an ordered, fixed catalog of tools
type Registry struct {
	tools  map[string]*Tool
	order  []string
	logger *zap.Logger
}

func newRegistry(logger *zap.Logger, tools ...*Tool) *Registry {
	r := &Registry{
		tools:  make(map[string]*Tool, len(tools)),
		logger: logger,
	}
	for _, t := range tools {
		r.tools[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return r
}

// Get returns a tool by name
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns the catalog in declaration order
func (r *Registry) Tools() []*Tool {
	tools := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Definitions returns serializable definitions in declaration order
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, t := range r.Tools() {
		defs = append(defs, Definition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Schema(),
		})
	}
	return defs
}

// Execute runs the named tool with args
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	result, err := tool.Run(ctx, args)
	if err != nil {
		r.logger.Warn("Tool execution failed",
			zap.String("tool", name),
			zap.Error(err))
		return nil, err
	}

	r.logger.Debug("Tool executed", zap.String("tool", name))
	return result, nil
}
