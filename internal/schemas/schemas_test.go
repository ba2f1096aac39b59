package schemas_test

import (
	"testing"

	v "github.com/Gobd/apicontract"
	"github.com/Gobd/apicontract/internal/schemas"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uuid1 = "6f1c1b8e-9a4e-4d3b-8f59-0b1e7c2d3a45"

func messages(res v.Result) []string {
	out := make([]string, 0, len(res.Violations()))
	for _, vio := range res.Violations() {
		out = append(out, vio.String())
	}
	return out
}

func address() map[string]any {
	return map[string]any{
		"street": "1 Main St", "city": "Springfield", "state": "IL", "postalCode": "62701", "country": "US",
	}
}

func TestRegistryIsSealed(t *testing.T) {
	assert.Panics(t, func() { schemas.Registry().Register("Late", v.String()) })
	assert.Panics(t, func() { schemas.Get("Nope") })
	assert.Contains(t, schemas.Registry().Names(), "CreateOrderInput")
}

func TestCreateUserInput(t *testing.T) {
	res := v.Validate(schemas.CreateUserInput, map[string]any{"email": "bad", "name": "A", "password": "short"})
	assert.Equal(t, []string{
		"email: Invalid email address",
		"name: Name must be at least 2 characters",
		"password: Password must be at least 8 characters",
		"password: Password must contain at least one uppercase letter",
		"password: Password must contain at least one number",
	}, messages(res))

	ok := v.Validate(schemas.CreateUserInput, map[string]any{"email": "u@x.com", "name": "Jo", "password": "Abcdefg1"})
	assert.True(t, ok.OK(), messages(ok))
}

func TestUpdateUserInput(t *testing.T) {
	assert.True(t, v.Validate(schemas.UpdateUserInput, map[string]any{}).OK())
	assert.True(t, v.Validate(schemas.UpdateUserInput, map[string]any{"name": "Jo"}).OK())

	res := v.Validate(schemas.UpdateUserInput, map[string]any{"name": 5, "password": "ignored"})
	assert.Equal(t, []string{"name: expected string got number"}, messages(res))
	assert.Nil(t, res.Value())

	_, hasPassword := schemas.UpdateUserInput.Field("password")
	assert.False(t, hasPassword)
}

func TestLoginInput(t *testing.T) {
	res := v.Validate(schemas.LoginInput, map[string]any{"email": "u@x.com", "password": ""})
	assert.Equal(t, []string{"password: Password is required"}, messages(res))
}

func TestPaginationQueryCoercesQueryStrings(t *testing.T) {
	res := v.Validate(schemas.PaginationQuery, map[string]any{"page": "2"})
	require.True(t, res.OK(), messages(res))
	assert.Equal(t, map[string]any{"page": float64(2), "pageSize": float64(20)}, res.Value())

	res = v.Validate(schemas.PaginationQuery, map[string]any{"page": "0", "pageSize": "101"})
	assert.Equal(t, []string{
		"page: must be greater than 0",
		"pageSize: must be no greater than 100",
	}, messages(res))
}

func TestIDParam(t *testing.T) {
	res := v.Validate(schemas.IDParam, map[string]any{"id": "nope"})
	assert.Equal(t, []string{"id: Invalid ID format"}, messages(res))
	assert.True(t, v.Validate(schemas.IDParam, map[string]any{"id": uuid1}).OK())
}

func TestSearchQueryDefaultsSortOrder(t *testing.T) {
	res := v.Validate(schemas.SearchQuery, map[string]any{"q": "shoes"})
	require.True(t, res.OK())
	assert.Equal(t, map[string]any{"q": "shoes", "sortOrder": "asc"}, res.Value())

	res = v.Validate(schemas.SearchQuery, map[string]any{"sortOrder": "up"})
	assert.Equal(t, []string{"sortOrder: must be one of 'asc', 'desc' got 'up'"}, messages(res))
}

func validProduct() map[string]any {
	return map[string]any{
		"name":      "Laptop",
		"category":  "electronics",
		"basePrice": 999.99,
		"variants": []any{
			map[string]any{"sku": "LAP-1", "name": "16GB", "price": 999.99, "stock": 5},
		},
	}
}

func TestCreateProductInput(t *testing.T) {
	res := v.Validate(schemas.CreateProductInput, validProduct())
	require.True(t, res.OK(), messages(res))
	assert.Equal(t, true, res.Value().(map[string]any)["isActive"])

	bad := validProduct()
	bad["basePrice"] = -1
	bad["variants"] = []any{}
	res = v.Validate(schemas.CreateProductInput, bad)
	assert.Equal(t, []string{
		"basePrice: Price must be positive",
		"variants: At least one variant is required",
	}, messages(res))

	dup := validProduct()
	dup["variants"] = []any{
		map[string]any{"sku": "A", "name": "one", "price": 1, "stock": 0},
		map[string]any{"sku": "A", "name": "two", "price": 1, "stock": -1},
	}
	res = v.Validate(schemas.CreateProductInput, dup)
	assert.Equal(t, []string{
		"variants[1].stock: Stock cannot be negative",
		"variants: not unique",
	}, messages(res))
}

func TestUpdateProductInputIsPartial(t *testing.T) {
	res := v.Validate(schemas.UpdateProductInput, map[string]any{})
	require.True(t, res.OK())
	assert.Equal(t, map[string]any{}, res.Value(), "defaults are not applied to updates")

	res = v.Validate(schemas.UpdateProductInput, map[string]any{"basePrice": "cheap"})
	assert.Equal(t, []string{"basePrice: expected number got string"}, messages(res))

	for _, f := range schemas.CreateProductInput.Fields() {
		pf, ok := schemas.UpdateProductInput.Field(f.Name())
		require.True(t, ok, f.Name())
		assert.True(t, pf.IsOptional())
		assert.Equal(t, len(f.Node().Rules()), len(pf.Node().Rules()), f.Name())
	}
}

func TestCreateOrderInput(t *testing.T) {
	in := map[string]any{
		"items":           []any{map[string]any{"productId": uuid1, "variantId": uuid1, "quantity": 2}},
		"shippingAddress": address(),
	}
	res := v.Validate(schemas.CreateOrderInput, in)
	require.True(t, res.OK(), messages(res))
	assert.Equal(t, true, res.Value().(map[string]any)["useSameAddress"])

	addr := address()
	addr["country"] = "USA"
	addr["street"] = ""
	res = v.Validate(schemas.CreateOrderInput, map[string]any{
		"items":           []any{map[string]any{"productId": "x", "variantId": uuid1, "quantity": 0}},
		"shippingAddress": addr,
		"notes":           "4111 1111 1111 1111",
	})
	assert.Equal(t, []string{
		"items[0].productId: Invalid product ID",
		"items[0].quantity: Quantity must be at least 1",
		"shippingAddress.street: Street is required",
		"shippingAddress.country: Use 2-letter country code",
		"notes: must not be a credit card number",
	}, messages(res))

	res = v.Validate(schemas.CreateOrderInput, map[string]any{"items": []any{}, "shippingAddress": address()})
	assert.Equal(t, []string{"items: Order must have at least one item"}, messages(res))
}

func TestUpdateOrderStatusInput(t *testing.T) {
	res := v.Validate(schemas.UpdateOrderStatusInput, map[string]any{"status": "lost"})
	assert.Equal(t, []string{
		"status: must be one of 'pending', 'confirmed', 'processing', 'shipped', 'delivered', 'cancelled' got 'lost'",
	}, messages(res))
}

func TestContractOfCatalog(t *testing.T) {
	c, err := schemas.Registry().Contract("CreateUserInput")
	require.NoError(t, err)
	assert.Equal(t, "CreateUserInput", c.Name)

	password := c.Fields[2]
	assert.Equal(t, "password", password.Name)
	assert.Equal(t, []string{
		"min length 8",
		"pattern [A-Z]",
		"pattern [a-z]",
		"pattern [0-9]",
	}, password.Constraints)

	order, err := schemas.Registry().Contract("OrderResponse")
	require.NoError(t, err)
	for _, f := range order.Fields {
		if f.Name == "billingAddress" {
			assert.Equal(t, "Address", f.Schema)
			assert.True(t, f.Nullable)
		}
	}
}

func TestDocumentedLengthsMatchValidation(t *testing.T) {
	props := func(n *v.Node) openapi3.Schemas {
		ref, err := v.NewSchemaRefForNode(n)
		require.NoError(t, err)
		return ref.Value.Properties
	}

	name := props(schemas.CreateUserInput)["name"].Value
	assert.Equal(t, uint64(2), name.MinLength)
	require.NotNil(t, name.MaxLength)
	assert.Equal(t, uint64(100), *name.MaxLength)
	assert.False(t, v.Validate(schemas.CreateUserInput, map[string]any{"email": "u@x.com", "name": "A", "password": "Abcdefg1"}).OK())

	country := props(schemas.Address)["country"].Value
	assert.Equal(t, uint64(2), country.MinLength)
	require.NotNil(t, country.MaxLength)
	assert.Equal(t, uint64(2), *country.MaxLength)

	product := props(schemas.CreateProductInput)["name"].Value
	assert.Equal(t, uint64(2), product.MinLength)
}
