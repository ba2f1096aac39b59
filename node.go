package apicontract

import (
	"fmt"
	"slices"
)

// Kind identifies the base type a Node accepts.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindNumber
	KindInteger
	KindBoolean
	KindDate
	KindObject
	KindArray
	KindRecord
	KindEnum
)

var kindNames = [...]string{
	KindAny:     "any",
	KindString:  "string",
	KindNumber:  "number",
	KindInteger: "integer",
	KindBoolean: "boolean",
	KindDate:    "date",
	KindObject:  "object",
	KindArray:   "array",
	KindRecord:  "record",
	KindEnum:    "enum",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is an immutable description of an expected value. Build nodes with
// the constructors in this file; every modifier returns a new Node.
type Node struct {
	kind     Kind
	name     string
	desc     string
	rules    []Rule
	fields   []FieldSchema
	strict   bool
	elem     *Node
	values   []string
	nullable bool
	coerce   bool
}

// String returns a string node refined by rules.
func String(rules ...Rule) *Node { return &Node{kind: KindString, rules: rules} }

// Number returns a floating point node refined by rules.
func Number(rules ...Rule) *Node { return &Node{kind: KindNumber, rules: rules} }

// Integer returns a node that accepts numbers without a fractional part.
func Integer(rules ...Rule) *Node { return &Node{kind: KindInteger, rules: rules} }

// Boolean returns a boolean node.
func Boolean(rules ...Rule) *Node { return &Node{kind: KindBoolean, rules: rules} }

// Date returns a node that accepts a time.Time or an RFC 3339 string.
func Date(rules ...Rule) *Node { return &Node{kind: KindDate, rules: rules} }

// Any returns a node that accepts every value unchanged.
func Any(rules ...Rule) *Node { return &Node{kind: KindAny, rules: rules} }

// Object returns a node with ordered named fields. Field names must be unique.
func Object(fields ...FieldSchema) *Node {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.name]; dup {
			panic("apicontract: duplicate field " + f.name)
		}
		seen[f.name] = struct{}{}
	}
	return &Node{kind: KindObject, fields: slices.Clone(fields)}
}

// Array returns a collection node. Cardinality rules ([MinItems], [MaxItems])
// always run before the other rules.
func Array(elem *Node, rules ...Rule) *Node {
	if elem == nil {
		panic("apicontract: array with nil element schema")
	}
	return &Node{kind: KindArray, elem: elem, rules: rules}
}

// Record returns a node for a string keyed map whose values match elem.
func Record(elem *Node, rules ...Rule) *Node {
	if elem == nil {
		panic("apicontract: record with nil value schema")
	}
	return &Node{kind: KindRecord, elem: elem, rules: rules}
}

// Enum returns a node that accepts exactly one of values. Comparison is
// case-sensitive.
func Enum(values ...string) *Node {
	vs := make([]any, len(values))
	for i := range values {
		vs[i] = values[i]
	}
	return &Node{kind: KindEnum, values: slices.Clone(values), rules: []Rule{In(vs...)}}
}

func (n *Node) clone() *Node {
	c := *n
	c.rules = slices.Clone(n.rules)
	c.fields = slices.Clone(n.fields)
	c.values = slices.Clone(n.values)
	return &c
}

// Nullable returns a copy of n that also accepts null.
func (n *Node) Nullable() *Node {
	c := n.clone()
	c.nullable = true
	return c
}

// Coerce returns a copy of n that parses string input into its base type
// before the type check. Only number, integer and boolean nodes coerce.
func (n *Node) Coerce() *Node {
	c := n.clone()
	c.coerce = true
	return c
}

// Strict returns a copy of an object node that reports unknown fields.
func (n *Node) Strict() *Node {
	c := n.clone()
	c.strict = true
	return c
}

// Describe returns a copy of n carrying a documentation description.
func (n *Node) Describe(desc string) *Node {
	c := n.clone()
	c.desc = desc
	return c
}

// With returns a copy of n with rules appended.
func (n *Node) With(rules ...Rule) *Node {
	c := n.clone()
	c.rules = append(c.rules, rules...)
	return c
}

func (n *Node) named(name string) *Node {
	c := n.clone()
	c.name = name
	return c
}

// Kind is the base type of n.
func (n *Node) Kind() Kind { return n.kind }

// Name is the registry name of n, empty for anonymous nodes.
func (n *Node) Name() string { return n.name }

func (n *Node) Description() string { return n.desc }

// Rules returns the refinements of n in declaration order.
func (n *Node) Rules() []Rule { return slices.Clone(n.rules) }

// Fields returns the properties of an object node in declaration order.
func (n *Node) Fields() []FieldSchema { return slices.Clone(n.fields) }

// Elem is the element node of an array or the value node of a record.
func (n *Node) Elem() *Node { return n.elem }

// Values returns the literal set of an enum node.
func (n *Node) Values() []string { return slices.Clone(n.values) }

func (n *Node) IsNullable() bool { return n.nullable }

func (n *Node) IsCoerced() bool { return n.coerce }

func (n *Node) IsStrict() bool { return n.strict }

// Field looks up a property of an object node by name.
func (n *Node) Field(name string) (FieldSchema, bool) {
	for _, f := range n.fields {
		if f.name == name {
			return f, true
		}
	}
	return FieldSchema{}, false
}

// Partial derives an update schema from an object node: every top-level
// field becomes optional and loses its default, so an absent field means
// "unchanged". Field nodes and their rules are shared with n.
func Partial(n *Node) *Node {
	mustObject("Partial", n)
	c := n.clone()
	c.name = ""
	for i := range c.fields {
		c.fields[i].optional = true
		c.fields[i].hasDefault = false
		c.fields[i].def = nil
	}
	return c
}

// Pick derives an object node holding only the named fields of n, in the
// order they are given. Unknown names panic.
func Pick(n *Node, names ...string) *Node {
	mustObject("Pick", n)
	c := n.clone()
	c.name = ""
	c.fields = make([]FieldSchema, 0, len(names))
	for _, name := range names {
		f, ok := n.Field(name)
		if !ok {
			panic("apicontract: Pick of unknown field " + name)
		}
		c.fields = append(c.fields, f)
	}
	return c
}

// Omit derives an object node without the named fields of n.
func Omit(n *Node, names ...string) *Node {
	mustObject("Omit", n)
	c := n.clone()
	c.name = ""
	c.fields = slices.DeleteFunc(c.fields, func(f FieldSchema) bool {
		return slices.Contains(names, f.name)
	})
	return c
}

// Extend derives an object node with fields appended to those of n.
func Extend(n *Node, fields ...FieldSchema) *Node {
	mustObject("Extend", n)
	all := append(slices.Clone(n.fields), fields...)
	c := Object(all...)
	c.strict = n.strict
	c.nullable = n.nullable
	c.desc = n.desc
	return c
}

func mustObject(op string, n *Node) {
	if n == nil || n.kind != KindObject {
		panic("apicontract: " + op + " requires an object schema")
	}
}
