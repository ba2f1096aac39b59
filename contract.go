package apicontract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Contract is the documentation projection of a Node. It is derived from the
// node only and marshals to JSON and YAML.
type Contract struct {
	Name        string     `json:"name,omitempty" yaml:"name,omitempty"`
	Schema      string     `json:"schema,omitempty" yaml:"schema,omitempty"`
	Type        string     `json:"type" yaml:"type"`
	Required    bool       `json:"required" yaml:"required"`
	Nullable    bool       `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	HasDefault  bool       `json:"hasDefault,omitempty" yaml:"hasDefault,omitempty"`
	Default     any        `json:"default,omitempty" yaml:"default,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Constraints []string   `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Enum        []string   `json:"enum,omitempty" yaml:"enum,omitempty"`
	Fields      []Contract `json:"fields,omitempty" yaml:"fields,omitempty"`
	Items       *Contract  `json:"items,omitempty" yaml:"items,omitempty"`
}

// ContractOf describes n. The root contract is named after n and required.
func ContractOf(n *Node) Contract {
	if n == nil {
		panic("apicontract: ContractOf called with nil schema")
	}
	c := contractOf(n.name, n)
	c.Required = true
	c.Schema = ""
	return c
}

func contractOf(name string, n *Node) Contract {
	c := Contract{
		Name:        name,
		Schema:      n.name,
		Type:        n.kind.String(),
		Nullable:    n.nullable,
		Description: n.desc,
		Enum:        n.Values(),
	}
	if n.coerce {
		c.Constraints = append(c.Constraints, "coerced from string")
	}
	if n.strict {
		c.Constraints = append(c.Constraints, "no unknown fields")
	}
	for _, r := range n.rules {
		if n.kind == KindEnum && isEnumRule(r) {
			continue
		}
		cs, desc := describeRule(name, r)
		c.Constraints = append(c.Constraints, cs...)
		if desc != "" {
			if c.Description != "" {
				c.Description += " "
			}
			c.Description += desc
		}
	}
	switch n.kind {
	case KindObject:
		for _, f := range n.fields {
			fc := contractOf(f.name, f.node)
			fc.Required = f.IsRequired()
			if f.hasDefault {
				fc.HasDefault = true
				fc.Default = f.def
				fc.Constraints = append([]string{"optional, default = " + formatDefault(f.def)}, fc.Constraints...)
			}
			c.Fields = append(c.Fields, fc)
		}
	case KindArray, KindRecord:
		items := contractOf("", n.elem)
		items.Required = true
		c.Items = &items
	}
	return c
}

func isEnumRule(r Rule) bool {
	_, ok := r.(*inRule)
	return ok
}

func formatDefault(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprint(v)
}

// describeRule calls Describe on r using a temporary schema/ref, then
// extracts a human-readable summary of the schema mutations. Documentation
// only rules contribute a description instead of constraints.
func describeRule(name string, r Rule) (constraints []string, description string) {
	if _, ok := r.(example); ok {
		return nil, ""
	}

	ref := &openapi3.SchemaRef{Value: openapi3.NewSchema()}
	if err := r.Describe(name, openapi3.NewSchema(), ref); err != nil {
		return []string{err.Error()}, ""
	}
	s := ref.Value
	if _, ok := r.(describe); ok {
		return nil, s.Description
	}

	var parts []string
	if s.MinLength > 0 {
		parts = append(parts, fmt.Sprintf("min length %d", s.MinLength))
	}
	if s.MaxLength != nil {
		parts = append(parts, fmt.Sprintf("max length %d", *s.MaxLength))
	}
	if s.Min != nil {
		if s.ExclusiveMin {
			parts = append(parts, fmt.Sprintf("exclusive minimum %g", *s.Min))
		} else {
			parts = append(parts, fmt.Sprintf("minimum %g", *s.Min))
		}
	}
	if s.Max != nil {
		if s.ExclusiveMax {
			parts = append(parts, fmt.Sprintf("exclusive maximum %g", *s.Max))
		} else {
			parts = append(parts, fmt.Sprintf("maximum %g", *s.Max))
		}
	}
	if s.Pattern != "" {
		parts = append(parts, "pattern "+s.Pattern)
	}
	if s.Format != "" {
		parts = append(parts, "format "+s.Format)
	}
	if len(s.Enum) > 0 {
		vals := make([]string, len(s.Enum))
		for i, v := range s.Enum {
			vals[i] = fmt.Sprint(v)
		}
		parts = append(parts, "one of ["+strings.Join(vals, ", ")+"]")
	}
	if s.MinItems > 0 {
		parts = append(parts, fmt.Sprintf("min items %d", s.MinItems))
	}
	if s.MaxItems != nil {
		parts = append(parts, fmt.Sprintf("max items %d", *s.MaxItems))
	}
	if s.Deprecated {
		parts = append(parts, "deprecated")
	}
	if s.UniqueItems {
		parts = append(parts, "unique items")
	}
	if s.Description != "" {
		parts = append(parts, s.Description)
	}
	return parts, ""
}

// FromContract rebuilds a Node from its contract. Structure, required and
// optional fields, defaults, nullability and enum sets survive the round
// trip; constraint strings are documentation and are not parsed back.
func FromContract(c Contract) *Node {
	n := fromContract(c)
	n.name = c.Name
	return n
}

func fromContract(c Contract) *Node {
	var n *Node
	switch c.Type {
	case KindString.String():
		n = String()
	case KindNumber.String():
		n = Number()
	case KindInteger.String():
		n = Integer()
	case KindBoolean.String():
		n = Boolean()
	case KindDate.String():
		n = Date()
	case KindEnum.String():
		n = Enum(c.Enum...)
	case KindObject.String():
		fields := make([]FieldSchema, 0, len(c.Fields))
		for _, fc := range c.Fields {
			f := Field(fc.Name, fromContract(fc))
			switch {
			case fc.HasDefault:
				f = f.Default(fc.Default)
			case !fc.Required:
				f = f.Optional()
			}
			fields = append(fields, f)
		}
		n = Object(fields...)
	case KindArray.String(), KindRecord.String():
		elem := Any()
		if c.Items != nil {
			elem = fromContract(*c.Items)
		}
		if c.Type == KindArray.String() {
			n = Array(elem)
		} else {
			n = Record(elem)
		}
	default:
		n = Any()
	}
	n.nullable = c.Nullable
	n.desc = c.Description
	return n
}
