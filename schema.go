package apicontract

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// ComponentPrefix is the JSON pointer prefix of named component schemas.
const ComponentPrefix = "#/components/schemas/"

// SchemaOption configures [NewSchemaRefForNode].
type SchemaOption func(*schemaBuilder)

// WithComponentRefs renders nested named nodes as references into
// components.schemas instead of inlining them. The root node is always
// inlined.
func WithComponentRefs() SchemaOption {
	return func(b *schemaBuilder) { b.refs = true }
}

type schemaBuilder struct {
	refs bool
}

// NewSchemaRefForNode generates an OpenAPI schema for n, applying the
// Describe method of every rule.
func NewSchemaRefForNode(n *Node, opts ...SchemaOption) (*openapi3.SchemaRef, error) {
	if n == nil {
		panic("apicontract: NewSchemaRefForNode called with nil schema")
	}
	var b schemaBuilder
	for _, opt := range opts {
		opt(&b)
	}
	return b.build(n.name, n, openapi3.NewSchema())
}

// NewSchemaRefForNodeMust is like [NewSchemaRefForNode] but panics on error.
func NewSchemaRefForNodeMust(n *Node, opts ...SchemaOption) *openapi3.SchemaRef {
	ref, err := NewSchemaRefForNode(n, opts...)
	if err != nil {
		panic(err)
	}
	return ref
}

// reference returns a $ref to a named node, wrapping it when the node adds
// nullability on top of the named component.
func (b *schemaBuilder) reference(name string, n *Node, parent *openapi3.Schema) (*openapi3.SchemaRef, bool, error) {
	if !b.refs || n.name == "" {
		return nil, false, nil
	}
	value, err := b.build(name, n, parent)
	if err != nil {
		return nil, false, err
	}
	ref := &openapi3.SchemaRef{Ref: ComponentPrefix + n.name, Value: value.Value}
	if !n.nullable {
		return ref, true, nil
	}
	wrapped := &openapi3.Schema{AllOf: openapi3.SchemaRefs{ref}, Nullable: true}
	return &openapi3.SchemaRef{Value: wrapped}, true, nil
}

func (b *schemaBuilder) child(name string, n *Node, parent *openapi3.Schema) (*openapi3.SchemaRef, error) {
	if ref, ok, err := b.reference(name, n, parent); ok || err != nil {
		return ref, err
	}
	return b.build(name, n, parent)
}

func (b *schemaBuilder) build(name string, n *Node, parent *openapi3.Schema) (*openapi3.SchemaRef, error) {
	var s *openapi3.Schema
	switch n.kind {
	case KindString, KindEnum:
		s = openapi3.NewStringSchema()
	case KindNumber:
		s = openapi3.NewFloat64Schema()
	case KindInteger:
		s = openapi3.NewIntegerSchema()
	case KindBoolean:
		s = openapi3.NewBoolSchema()
	case KindDate:
		s = openapi3.NewDateTimeSchema()
	case KindObject:
		s = openapi3.NewObjectSchema()
		for _, f := range n.fields {
			prop, err := b.child(f.name, f.node, s)
			if err != nil {
				return nil, err
			}
			if def, ok := f.DefaultValue(); ok {
				prop = withDefault(prop, def)
			}
			s.Properties[f.name] = prop
			if f.IsRequired() {
				s.Required = append(s.Required, f.name)
			}
		}
		if n.strict {
			s.WithoutAdditionalProperties()
		}
	case KindArray:
		items, err := b.child("", n.elem, openapi3.NewSchema())
		if err != nil {
			return nil, err
		}
		s = openapi3.NewArraySchema()
		s.Items = items
	case KindRecord:
		values, err := b.child("", n.elem, openapi3.NewSchema())
		if err != nil {
			return nil, err
		}
		s = openapi3.NewObjectSchema()
		s.AdditionalProperties = openapi3.AdditionalProperties{Schema: values}
	default:
		s = openapi3.NewSchema()
	}
	s.Nullable = n.nullable
	s.Description = n.desc

	ref := &openapi3.SchemaRef{Value: s}
	for _, r := range n.rules {
		if err := r.Describe(name, parent, ref); err != nil {
			return nil, err
		}
	}
	return ref, nil
}

func withDefault(prop *openapi3.SchemaRef, def any) *openapi3.SchemaRef {
	if prop.Ref == "" {
		prop.Value.Default = def
		return prop
	}
	return &openapi3.SchemaRef{Value: &openapi3.Schema{AllOf: openapi3.SchemaRefs{prop}, Default: def}}
}
