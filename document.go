package apicontract

import (
	"github.com/getkin/kin-openapi/openapi3"
)

type (
	// RuleFunc is a function type that validates a value and returns an error if invalid.
	RuleFunc func(value any) error

	// Rule is the interface that all refinement rules must implement.
	//
	// Validate receives the normalized value (string, float64, bool,
	// time.Time, []any or map[string]any) after the node's type check passed.
	// Describe records the rule into the OpenAPI schema of the value; schema
	// is the enclosing object schema and may be nil at the root.
	Rule interface {
		Validate(value any) error
		Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error
	}

	// FieldSchema binds a property name to the node describing its value.
	FieldSchema struct {
		name       string
		node       *Node
		optional   bool
		hasDefault bool
		def        any
	}
)

// Field declares a required object property.
func Field(name string, n *Node) FieldSchema {
	if n == nil {
		panic("apicontract: field " + name + " has nil schema")
	}
	return FieldSchema{name: name, node: n}
}

// Optional returns a copy of f that may be absent from the input.
func (f FieldSchema) Optional() FieldSchema {
	f.optional = true
	return f
}

// Default returns a copy of f that is substituted with v when absent.
func (f FieldSchema) Default(v any) FieldSchema {
	f.hasDefault = true
	f.def = v
	return f
}

// Name is the property name.
func (f FieldSchema) Name() string { return f.name }

// Node is the schema of the property value.
func (f FieldSchema) Node() *Node { return f.node }

// IsOptional reports whether the property may be absent without a default.
func (f FieldSchema) IsOptional() bool { return f.optional }

// DefaultValue returns the declared default, if any.
func (f FieldSchema) DefaultValue() (any, bool) { return f.def, f.hasDefault }

// IsRequired reports whether absence of the property is a violation.
func (f FieldSchema) IsRequired() bool { return !f.optional && !f.hasDefault }
