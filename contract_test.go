package apicontract_test

import (
	"fmt"
	"sort"
	"testing"

	v "github.com/Gobd/apicontract"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func fieldContract(t *testing.T, c v.Contract, name string) v.Contract {
	t.Helper()
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("no field %q in contract %q", name, c.Name)
	return v.Contract{}
}

func TestContractConstraints(t *testing.T) {
	c := v.ContractOf(testUser)

	assert.Equal(t, "object", c.Type)
	assert.True(t, c.Required)
	assert.Equal(t, []string{"format email"}, fieldContract(t, c, "email").Constraints)
	assert.Equal(t, []string{"min length 2", "max length 100"}, fieldContract(t, c, "name").Constraints)
	assert.Equal(t, []string{
		"min length 8",
		"pattern [A-Z]",
		"pattern [a-z]",
		"pattern [0-9]",
	}, fieldContract(t, c, "password").Constraints)
}

func TestContractDefaults(t *testing.T) {
	c := v.ContractOf(testPage)

	page := fieldContract(t, c, "page")
	assert.False(t, page.Required)
	assert.True(t, page.HasDefault)
	assert.Equal(t, 1, page.Default)
	assert.Equal(t, []string{"optional, default = 1", "coerced from string", "exclusive minimum 0"}, page.Constraints)

	size := fieldContract(t, c, "pageSize")
	assert.Equal(t, []string{"optional, default = 20", "coerced from string", "minimum 1", "maximum 100"}, size.Constraints)

	sort := v.ContractOf(v.Object(v.Field("sortOrder", v.Enum("asc", "desc")).Default("asc")))
	so := fieldContract(t, sort, "sortOrder")
	assert.Equal(t, "enum", so.Type)
	assert.Equal(t, []string{"asc", "desc"}, so.Enum)
	assert.Equal(t, []string{`optional, default = "asc"`}, so.Constraints)
}

func TestContractCollections(t *testing.T) {
	c := v.ContractOf(testOrder)

	items := fieldContract(t, c, "items")
	assert.Equal(t, "array", items.Type)
	assert.Equal(t, []string{"min items 1"}, items.Constraints)
	require.NotNil(t, items.Items)
	assert.Equal(t, "object", items.Items.Type)
	assert.Equal(t, []string{"format uuid"}, fieldContract(t, *items.Items, "productId").Constraints)

	billing := fieldContract(t, c, "billingAddress")
	assert.False(t, billing.Required)
	assert.False(t, billing.HasDefault)

	rec := v.ContractOf(v.Record(v.String()).Nullable())
	assert.Equal(t, "record", rec.Type)
	assert.True(t, rec.Nullable)
	assert.Equal(t, "string", rec.Items.Type)
}

func TestContractDescriptions(t *testing.T) {
	n := v.Object(
		v.Field("notes", v.String(v.Describe("free-form notes"), v.MaxLength(500), v.Example("leave at door"))),
	).Describe("order notes")

	c := v.ContractOf(n)
	assert.Equal(t, "order notes", c.Description)
	notes := fieldContract(t, c, "notes")
	assert.Equal(t, "free-form notes", notes.Description)
	assert.Equal(t, []string{"max length 500"}, notes.Constraints)
}

type undocumentedRule struct{}

func (undocumentedRule) Validate(any) error { return nil }

func (undocumentedRule) Describe(name string, _ *openapi3.Schema, _ *openapi3.SchemaRef) error {
	return fmt.Errorf("%s: cannot be documented", name)
}

func TestContractReportsDescribeErrors(t *testing.T) {
	n := v.Object(v.Field("code", v.String(undocumentedRule{}, v.Describe("internal code"))))

	code := fieldContract(t, v.ContractOf(n), "code")
	assert.Equal(t, []string{"code: cannot be documented"}, code.Constraints)
	assert.Equal(t, "internal code", code.Description)
}

func TestContractNamesNestedSchemas(t *testing.T) {
	reg := v.NewRegistry()
	addr := reg.Register("Address", testAddress)
	order := reg.Register("Order", v.Object(v.Field("shippingAddress", addr)))

	c := v.ContractOf(order)
	assert.Equal(t, "Order", c.Name)
	assert.Empty(t, c.Schema)
	assert.Equal(t, "Address", fieldContract(t, c, "shippingAddress").Schema)
}

func TestContractYAML(t *testing.T) {
	b, err := yaml.Marshal(v.ContractOf(testPage))
	require.NoError(t, err)

	var back v.Contract
	require.NoError(t, yaml.Unmarshal(b, &back))
	assert.Equal(t, "object", back.Type)
	assert.Len(t, back.Fields, 2)
}

// ============ Round trip ============

func requiredSets(n *v.Node, path string, out map[string][]string) {
	switch n.Kind() {
	case v.KindObject:
		req := []string{}
		for _, f := range n.Fields() {
			if f.IsRequired() {
				req = append(req, f.Name())
			}
			requiredSets(f.Node(), path+"."+f.Name(), out)
		}
		sort.Strings(req)
		out[path] = req
	case v.KindArray, v.KindRecord:
		requiredSets(n.Elem(), path+"[]", out)
	}
}

func enumSets(n *v.Node, path string, out map[string][]string) {
	switch n.Kind() {
	case v.KindEnum:
		out[path] = n.Values()
	case v.KindObject:
		for _, f := range n.Fields() {
			enumSets(f.Node(), path+"."+f.Name(), out)
		}
	case v.KindArray, v.KindRecord:
		enumSets(n.Elem(), path+"[]", out)
	}
}

func TestContractRoundTrip(t *testing.T) {
	withEnums := v.Object(
		v.Field("status", v.Enum("pending", "shipped")),
		v.Field("lines", v.Array(v.Object(
			v.Field("kind", v.Enum("a", "b", "c")),
			v.Field("note", v.String()).Optional(),
		))),
		v.Field("sortOrder", v.Enum("asc", "desc")).Default("asc"),
	)

	for name, n := range map[string]*v.Node{
		"user":  testUser,
		"order": testOrder,
		"page":  testPage,
		"enums": withEnums,
	} {
		t.Run(name, func(t *testing.T) {
			back := v.FromContract(v.ContractOf(n))

			wantReq, gotReq := map[string][]string{}, map[string][]string{}
			requiredSets(n, "", wantReq)
			requiredSets(back, "", gotReq)
			assert.Empty(t, cmp.Diff(wantReq, gotReq))

			wantEnum, gotEnum := map[string][]string{}, map[string][]string{}
			enumSets(n, "", wantEnum)
			enumSets(back, "", gotEnum)
			assert.Empty(t, cmp.Diff(wantEnum, gotEnum))
		})
	}
}

func TestFromContractKeepsDefaults(t *testing.T) {
	back := v.FromContract(v.ContractOf(testPage))

	res := v.Validate(back, map[string]any{})
	require.True(t, res.OK())
	assert.Equal(t, map[string]any{"page": float64(1), "pageSize": float64(20)}, res.Value())
}
