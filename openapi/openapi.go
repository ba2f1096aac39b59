package openapi

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"

	av "github.com/Gobd/apicontract"
	"github.com/getkin/kin-openapi/openapi3"
)

const jsonContent = "application/json"

// Response describes an HTTP response with a description and an optional body schema.
type Response struct {
	Desc string
	Body *av.Node
}

// Endpoint describes a single API operation for the convenience helpers
// [Get], [Post], [Put], [Patch], and [Delete].
type Endpoint struct {
	Summary     string
	Description string
	Tags        []string
	Params      *av.Node            // object describing path parameters; unknown ones default to strings
	Query       *av.Node            // object whose fields become query parameters
	Request     *av.Node            // request body
	Response    *av.Node            // success body, sent with Status
	Status      int                 // success status, 200 when zero
	Responses   map[string]Response // extra responses keyed by status code (e.g. "404", "4xx")
}

// NewSchemaRef generates the schema of n for use inside a document. Named
// nested schemas become component references.
func NewSchemaRef(n *av.Node) (*openapi3.SchemaRef, error) {
	return av.NewSchemaRefForNode(n, av.WithComponentRefs())
}

// ref returns a component reference for a named node and an inline schema
// otherwise.
func ref(n *av.Node) (*openapi3.SchemaRef, error) {
	s, err := NewSchemaRef(n)
	if err != nil {
		return nil, err
	}
	if n.Name() == "" {
		return s, nil
	}
	if n.IsNullable() {
		return &openapi3.SchemaRef{Value: &openapi3.Schema{
			AllOf:    openapi3.SchemaRefs{{Ref: av.ComponentPrefix + n.Name(), Value: s.Value}},
			Nullable: true,
		}}, nil
	}
	return &openapi3.SchemaRef{Ref: av.ComponentPrefix + n.Name(), Value: s.Value}, nil
}

// NewRequestMust is like [NewRequest] but panics on error.
func NewRequestMust(n *av.Node) *openapi3.RequestBodyRef {
	o, err := NewRequest(n)
	if err != nil {
		panic(err)
	}
	return o
}

// NewRequest generates a required JSON request body for n.
func NewRequest(n *av.Node) (*openapi3.RequestBodyRef, error) {
	if n == nil {
		return nil, errors.New("no schema given")
	}
	schema, err := ref(n)
	if err != nil {
		return nil, err
	}
	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.Content{jsonContent: &openapi3.MediaType{Schema: schema}})
	return &openapi3.RequestBodyRef{Value: body}, nil
}

// NewResponseMust is like [NewResponse] but panics on error.
// Map key is status code (e.g. "200", "4xx").
func NewResponseMust(vs map[string]Response) *openapi3.Responses {
	o, err := NewResponse(vs)
	if err != nil {
		panic(err)
	}
	return o
}

// NewResponse creates an OpenAPI responses object. Status codes are added
// in sorted order.
// Map key is status code (e.g. "200", "4xx").
func NewResponse(vs map[string]Response) (*openapi3.Responses, error) {
	if len(vs) == 0 {
		return nil, errors.New("no values given")
	}

	codes := make([]string, 0, len(vs))
	for code := range vs {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	opts := make([]openapi3.NewResponsesOption, 0, len(vs))
	for _, code := range codes {
		r := openapi3.NewResponse().WithDescription(vs[code].Desc)
		if vs[code].Body != nil {
			schema, err := ref(vs[code].Body)
			if err != nil {
				return nil, fmt.Errorf("response %s: %w", code, err)
			}
			r.Content = openapi3.Content{jsonContent: &openapi3.MediaType{Schema: schema}}
		}
		opts = append(opts, openapi3.WithName(code, r))
	}

	return openapi3.NewResponses(opts...), nil
}

// DocBase returns a basic OpenAPI 3.0.3 document structure.
func DocBase(serviceName, description, version string) *openapi3.T {
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       serviceName,
			Description: description,
			Version:     version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{},
		},
	}
}

// AddComponents adds every schema of reg to the document components under
// its registered name.
func AddComponents(doc *openapi3.T, reg *av.Registry) error {
	if doc.Components == nil {
		doc.Components = &openapi3.Components{}
	}
	if doc.Components.Schemas == nil {
		doc.Components.Schemas = openapi3.Schemas{}
	}
	for _, name := range reg.Names() {
		s, err := NewSchemaRef(reg.MustGet(name))
		if err != nil {
			return fmt.Errorf("component %s: %w", name, err)
		}
		doc.Components.Schemas[name] = s
	}
	return nil
}

// AddPath adds an operation to the OpenAPI document at the given path and method.
func AddPath(path, method string, s *openapi3.T, op *openapi3.Operation) {
	p := s.Paths.Value(path)
	if p == nil {
		p = &openapi3.PathItem{}
	}

	switch method {
	case http.MethodGet:
		p.Get = op
	case http.MethodPost:
		p.Post = op
	case http.MethodPut:
		p.Put = op
	case http.MethodPatch:
		p.Patch = op
	case http.MethodDelete:
		p.Delete = op
	}

	s.Paths.Set(path, p)
}

var pathParam = regexp.MustCompile(`\{([^}/]+)\}`)

// NewOperation builds an [openapi3.Operation] from ep. Every {name} segment of
// path becomes a required path parameter. An endpoint without responses
// gets a single default response.
func NewOperation(path, operationID string, ep Endpoint) (*openapi3.Operation, error) {
	op := &openapi3.Operation{
		OperationID: operationID,
		Summary:     ep.Summary,
		Description: ep.Description,
		Tags:        ep.Tags,
	}

	for _, m := range pathParam.FindAllStringSubmatch(path, -1) {
		p := openapi3.NewPathParameter(m[1])
		p.Schema = &openapi3.SchemaRef{Value: openapi3.NewStringSchema()}
		if ep.Params != nil {
			if f, ok := ep.Params.Field(m[1]); ok {
				s, err := av.NewSchemaRefForNode(f.Node())
				if err != nil {
					return nil, fmt.Errorf("path parameter %s: %w", m[1], err)
				}
				p.Schema = s
			}
		}
		op.AddParameter(p)
	}

	if ep.Query != nil {
		for _, f := range ep.Query.Fields() {
			s, err := av.NewSchemaRefForNode(f.Node())
			if err != nil {
				return nil, fmt.Errorf("query parameter %s: %w", f.Name(), err)
			}
			if def, ok := f.DefaultValue(); ok {
				s.Value.Default = def
			}
			p := openapi3.NewQueryParameter(f.Name()).WithRequired(f.IsRequired())
			p.Schema = s
			op.AddParameter(p)
		}
	}

	if ep.Request != nil {
		body, err := NewRequest(ep.Request)
		if err != nil {
			return nil, fmt.Errorf("request: %w", err)
		}
		op.RequestBody = body
	}

	responses := make(map[string]Response, len(ep.Responses)+1)
	for code, r := range ep.Responses {
		responses[code] = r
	}
	if ep.Response != nil {
		status := ep.Status
		if status == 0 {
			status = http.StatusOK
		}
		responses[strconv.Itoa(status)] = Response{Desc: http.StatusText(status), Body: ep.Response}
	}
	if len(responses) == 0 {
		op.Responses = openapi3.NewResponses()
		return op, nil
	}
	r, err := NewResponse(responses)
	if err != nil {
		return nil, err
	}
	op.Responses = r
	return op, nil
}

// addEndpoint builds an operation from ep and registers it at path+method.
// Endpoints are declared at start-up, so a schema error panics.
func addEndpoint(doc *openapi3.T, path, method, operationID string, ep Endpoint) {
	op, err := NewOperation(path, operationID, ep)
	if err != nil {
		panic(fmt.Sprintf("openapi: %s %s: %v", method, path, err))
	}
	AddPath(path, method, doc, op)
}

// Get registers a GET endpoint on doc.
func Get(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodGet, operationID, ep)
}

// Post registers a POST endpoint on doc.
func Post(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodPost, operationID, ep)
}

// Put registers a PUT endpoint on doc.
func Put(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodPut, operationID, ep)
}

// Patch registers a PATCH endpoint on doc.
func Patch(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodPatch, operationID, ep)
}

// Delete registers a DELETE endpoint on doc.
func Delete(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodDelete, operationID, ep)
}
