package types

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"unicode"

	v "github.com/Gobd/apicontract"
)

// Generate renders Go declarations for the object schemas in nodes, keyed
// by type name, as a formatted source file of package pkg. Unnamed nested
// objects become their own types named after the parent and field. Named
// nested schemas are declared under their registry name, once, so the file
// is complete for any set of names.
func Generate(pkg string, names []string, nodes map[string]*v.Node) ([]byte, error) {
	g := &generator{seen: map[string]bool{}}
	for _, name := range names {
		n, ok := nodes[name]
		if !ok {
			return nil, fmt.Errorf("generate %s: %w", name, v.ErrUndefinedSchema)
		}
		g.decl(name, n)
		for len(g.queue) > 0 {
			next := g.queue[0]
			g.queue = g.queue[1:]
			g.decl(next.name, next.node)
		}
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "// Code generated by shopd gen-types. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	if g.usesTime {
		out.WriteString("import \"time\"\n\n")
	}
	out.Write(g.body.Bytes())

	src, err := format.Source(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

type generator struct {
	body     bytes.Buffer
	seen     map[string]bool
	queue    []pending
	usesTime bool
}

type pending struct {
	name string
	node *v.Node
}

func (g *generator) decl(name string, n *v.Node) {
	if g.seen[name] {
		return
	}
	g.seen[name] = true

	if n.Kind() != v.KindObject {
		fmt.Fprintf(&g.body, "type %s %s\n\n", name, g.baseType(name, n))
		return
	}

	fmt.Fprintf(&g.body, "type %s struct {\n", name)
	for _, f := range n.Fields() {
		fn := f.Node()
		typ := g.goType(name+exported(f.Name()), fn)
		if (f.IsOptional() || fn.IsNullable()) && !nilable(fn) {
			typ = "*" + typ
		}
		tag := f.Name()
		if f.IsOptional() {
			tag += ",omitempty"
		}
		fmt.Fprintf(&g.body, "\t%s %s `json:%q`\n", exported(f.Name()), typ, tag)
	}
	g.body.WriteString("}\n\n")
}

func (g *generator) goType(name string, n *v.Node) string {
	if n.Name() != "" {
		if !g.seen[n.Name()] {
			g.queue = append(g.queue, pending{name: n.Name(), node: n})
		}
		return n.Name()
	}
	return g.baseType(name, n)
}

func (g *generator) baseType(name string, n *v.Node) string {
	switch n.Kind() {
	case v.KindString, v.KindEnum:
		return "string"
	case v.KindNumber:
		return "float64"
	case v.KindInteger:
		return "int"
	case v.KindBoolean:
		return "bool"
	case v.KindDate:
		g.usesTime = true
		return "time.Time"
	case v.KindObject:
		g.queue = append(g.queue, pending{name: name, node: n})
		return name
	case v.KindArray:
		return "[]" + g.goType(name+"Item", n.Elem())
	case v.KindRecord:
		return "map[string]" + g.goType(name+"Value", n.Elem())
	}
	return "any"
}

func nilable(n *v.Node) bool {
	k := n.Kind()
	return k == v.KindArray || k == v.KindRecord || k == v.KindAny
}

var initialisms = map[string]string{"id": "ID", "sku": "SKU", "url": "URL", "api": "API"}

// exported turns a camelCase json name into an exported Go identifier.
func exported(name string) string {
	var parts []string
	start := 0
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			parts = append(parts, name[start:i])
			start = i
		}
	}
	parts = append(parts, name[start:])
	var b strings.Builder
	for _, p := range parts {
		if up, ok := initialisms[strings.ToLower(p)]; ok {
			b.WriteString(up)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}
