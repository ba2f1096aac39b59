package apicontract

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// CheckType returns the differences between a schema and the Go type of
// sample: properties present on only one side and base types that cannot
// hold each other's values. Paths listed in exclude are skipped.
//
// Use in tests to keep hand-written types in step with their schemas:
//
//	assert.Empty(t, apicontract.CheckType(schemas.CreateUserInput, types.CreateUserInput{}))
func CheckType(n *Node, sample any, exclude ...string) []string {
	ref, err := openapi3gen.NewSchemaRefForValue(sample, nil)
	if err != nil {
		return []string{err.Error()}
	}
	excl := map[string]bool{}
	for _, e := range exclude {
		excl[e] = true
	}
	var diffs []string
	compareType("", n, ref, excl, &diffs)
	return diffs
}

func compareType(path string, n *Node, ref *openapi3.SchemaRef, excl map[string]bool, diffs *[]string) { //nolint:revive // one branch per node kind
	if ref == nil || ref.Value == nil {
		return
	}
	s := ref.Value
	if !typeHolds(n, s) {
		*diffs = append(*diffs, fmt.Sprintf("%s: schema is %s, type is %v", displayPath(path), n.kind, s.Type.Slice()))
		return
	}
	switch n.kind {
	case KindObject:
		for _, f := range n.fields {
			p := joinPath(path, f.name)
			if excl[p] {
				continue
			}
			prop, ok := s.Properties[f.name]
			if !ok {
				*diffs = append(*diffs, p+": missing in type")
				continue
			}
			compareType(p, f.node, prop, excl, diffs)
		}
		extra := make([]string, 0)
		for name := range s.Properties {
			p := joinPath(path, name)
			if _, ok := n.Field(name); !ok && !excl[p] {
				extra = append(extra, p)
			}
		}
		sort.Strings(extra)
		for _, p := range extra {
			*diffs = append(*diffs, p+": missing in schema")
		}
	case KindArray:
		compareType(path+"[]", n.elem, s.Items, excl, diffs)
	case KindRecord:
		compareType(path+".*", n.elem, s.AdditionalProperties.Schema, excl, diffs)
	}
}

func typeHolds(n *Node, s *openapi3.Schema) bool {
	if s.Type == nil || n.kind == KindAny {
		return true
	}
	switch n.kind {
	case KindString, KindEnum, KindDate:
		return s.Type.Is(openapi3.TypeString)
	case KindNumber:
		return s.Type.Is(openapi3.TypeNumber) || s.Type.Is(openapi3.TypeInteger)
	case KindInteger:
		return s.Type.Is(openapi3.TypeInteger)
	case KindBoolean:
		return s.Type.Is(openapi3.TypeBoolean)
	case KindObject, KindRecord:
		return s.Type.Is(openapi3.TypeObject)
	case KindArray:
		return s.Type.Is(openapi3.TypeArray)
	}
	return false
}

func displayPath(p string) string {
	if p == "" {
		return "(root)"
	}
	return p
}
