package apicontract

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// docOnly is embedded by rules that only shape documentation; they accept
// every value.
type docOnly struct{}

func (docOnly) Validate(any) error { return nil }

type describe struct {
	docOnly
	desc string
}

// Describe returns a documentation-only rule that appends desc to the schema description.
func Describe(desc string) Rule {
	return describe{desc: desc}
}

func (r describe) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref.Value, r.desc)
	return nil
}

type example struct {
	docOnly
	value any
}

// Example sets the schema example value. It shows up in the OpenAPI
// document and never in a Contract.
func Example(v any) Rule {
	return example{value: v}
}

func (r example) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Example = r.value
	return nil
}

type deprecated struct{ docOnly }

// Deprecated marks the node as deprecated in OpenAPI output and in contracts.
func Deprecated() Rule {
	return deprecated{}
}

func (deprecated) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Deprecated = true
	return nil
}
