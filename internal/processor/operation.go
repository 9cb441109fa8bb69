package processor

import (
	"fmt"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
)

// Operation is the contract every transformation implements: a named,
// stateless mapping from one dataset handle (plus parameters) to a new
// handle. Implementations must not mutate the input handle; failure must
// leave no observable side effects.
type Operation interface {
	// Name returns the unique registry key for this operation.
	Name() string

	// Parameters declares the parameter schema validated before Apply runs.
	Parameters() []ParameterDefinition

	// Apply executes the transformation and returns a new handle.
	Apply(d *dataset.Dataset, params Params) (*dataset.Dataset, error)
}

// ParamType enumerates the parameter value types an operation may declare.
type ParamType string

const (
	ParamTypeString     ParamType = "string"
	ParamTypeInt        ParamType = "int"
	ParamTypeFloat      ParamType = "float"
	ParamTypeBool       ParamType = "bool"
	ParamTypeStringList ParamType = "string_list"
	ParamTypeStringMap  ParamType = "string_map"
	ParamTypeDataset    ParamType = "dataset"
)

// ParameterDefinition describes one parameter of an operation's schema.
type ParameterDefinition struct {
	Name     string    `json:"name"`
	Type     ParamType `json:"type"`
	Required bool      `json:"required"`
	Default  any       `json:"default,omitempty"`
}

// Params carries the arguments for a single Apply call.
type Params map[string]any

// Has reports whether the parameter is present.
func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// String returns the named string parameter, or "" when absent.
func (p Params) String(name string) string {
	s, _ := p[name].(string)
	return s
}

// Int returns the named integer parameter, or 0 when absent.
func (p Params) Int(name string) int64 {
	i, _ := p[name].(int64)
	return i
}

// Float returns the named float parameter, or 0 when absent.
func (p Params) Float(name string) float64 {
	f, _ := p[name].(float64)
	return f
}

// Bool returns the named boolean parameter, or false when absent.
func (p Params) Bool(name string) bool {
	b, _ := p[name].(bool)
	return b
}

// StringList returns the named string-list parameter, or nil when absent.
func (p Params) StringList(name string) []string {
	l, _ := p[name].([]string)
	return l
}

// StringMap returns the named string-map parameter, or nil when absent.
func (p Params) StringMap(name string) map[string]string {
	m, _ := p[name].(map[string]string)
	return m
}

// Dataset returns the named dataset parameter, or nil when absent.
func (p Params) Dataset(name string) *dataset.Dataset {
	d, _ := p[name].(*dataset.Dataset)
	return d
}

// validateParams checks params against the operation's schema, injects
// defaults for absent optional parameters and normalizes values to canonical
// types (int64, float64, []string, map[string]string). Parameters outside the
// schema are rejected.
func validateParams(op Operation, params Params) (Params, error) {
	defs := op.Parameters()
	known := make(map[string]struct{}, len(defs))
	normalized := make(Params, len(defs))

	for _, def := range defs {
		known[def.Name] = struct{}{}

		raw, present := params[def.Name]
		if !present || raw == nil {
			if def.Required {
				return nil, NewParameterValidationError(op.Name(),
					fmt.Sprintf("missing required parameter %q", def.Name))
			}
			if def.Default != nil {
				raw = def.Default
			} else {
				continue
			}
		}

		value, err := coerceParam(def.Type, raw)
		if err != nil {
			return nil, NewParameterValidationError(op.Name(),
				fmt.Sprintf("parameter %q: %v", def.Name, err))
		}
		normalized[def.Name] = value
	}

	for name := range params {
		if _, ok := known[name]; !ok {
			return nil, NewParameterValidationError(op.Name(),
				fmt.Sprintf("unexpected parameter %q", name))
		}
	}

	return normalized, nil
}

// coerceParam converts a raw parameter into its canonical representation for
// the declared type, or fails when the value cannot represent that type.
func coerceParam(t ParamType, raw any) (any, error) {
	switch t {
	case ParamTypeString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case ParamTypeInt:
		switch v := raw.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v == float64(int64(v)) {
				return int64(v), nil
			}
		}
	case ParamTypeFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
	case ParamTypeBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case ParamTypeStringList:
		switch v := raw.(type) {
		case []string:
			out := make([]string, len(v))
			copy(out, v)
			return out, nil
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("expected string list, found %T element", item)
				}
				out = append(out, s)
			}
			return out, nil
		case string:
			return []string{v}, nil
		}
	case ParamTypeStringMap:
		switch v := raw.(type) {
		case map[string]string:
			out := make(map[string]string, len(v))
			for k, s := range v {
				out[k] = s
			}
			return out, nil
		case map[string]any:
			out := make(map[string]string, len(v))
			for k, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("expected string map, found %T value", item)
				}
				out[k] = s
			}
			return out, nil
		}
	case ParamTypeDataset:
		if d, ok := raw.(*dataset.Dataset); ok {
			return d, nil
		}
	default:
		return nil, fmt.Errorf("unknown parameter type %q", t)
	}
	return nil, fmt.Errorf("expected %s, got %T", t, raw)
}
