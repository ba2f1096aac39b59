package types_test

import (
	"testing"

	v "github.com/Gobd/apicontract"
	"github.com/Gobd/apicontract/internal/schemas"
	"github.com/Gobd/apicontract/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every registered schema has a static type, and the two agree field by field.
func TestNoDrift(t *testing.T) {
	samples := map[string]any{
		"PaginationQuery":        types.PaginationQuery{},
		"IdParam":                types.IDParam{},
		"SearchQuery":            types.SearchQuery{},
		"ErrorDetail":            types.ErrorDetail{},
		"ApiErrorResponse":       types.APIErrorResponse{},
		"CreateUserInput":        types.CreateUserInput{},
		"UpdateUserInput":        types.UpdateUserInput{},
		"LoginInput":             types.LoginInput{},
		"UserResponse":           types.UserResponse{},
		"AuthResponse":           types.AuthResponse{},
		"PaginatedUsers":         types.Paginated[types.UserResponse]{},
		"ProductCategory":        types.ProductCategory(""),
		"ProductVariant":         types.ProductVariant{},
		"CreateProductInput":     types.CreateProductInput{},
		"UpdateProductInput":     types.UpdateProductInput{},
		"ProductVariantResponse": types.ProductVariantResponse{},
		"ProductResponse":        types.ProductResponse{},
		"PaginatedProducts":      types.Paginated[types.ProductResponse]{},
		"OrderStatus":            types.OrderStatus(""),
		"Address":                types.Address{},
		"OrderItemInput":         types.OrderItemInput{},
		"CreateOrderInput":       types.CreateOrderInput{},
		"OrderItemResponse":      types.OrderItemResponse{},
		"OrderResponse":          types.OrderResponse{},
		"UpdateOrderStatusInput": types.UpdateOrderStatusInput{},
		"PaginatedOrders":        types.Paginated[types.OrderResponse]{},
	}

	reg := schemas.Registry()
	assert.ElementsMatch(t, reg.Names(), keys(samples), "every schema needs a static type")

	for name, sample := range samples {
		t.Run(name, func(t *testing.T) {
			n, err := reg.Get(name)
			require.NoError(t, err)
			assert.Empty(t, v.CheckType(n, sample))
		})
	}
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestNewPaginated(t *testing.T) {
	p := types.NewPaginated([]string(nil), 41, types.PaginationQuery{Page: 3, PageSize: 20})
	assert.Equal(t, 3, p.TotalPages)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 3, p.Page)

	empty := types.NewPaginated([]string{}, 0, types.PaginationQuery{Page: 1, PageSize: 20})
	assert.Equal(t, 0, empty.TotalPages)

	assert.Equal(t, 40, types.PaginationQuery{Page: 3, PageSize: 20}.Offset())
}
