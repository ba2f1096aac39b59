package httpapi

import (
	"fmt"
	"net/http"

	"github.com/Gobd/apicontract/internal/schemas"
	"github.com/Gobd/apicontract/openapi"
	"github.com/getkin/kin-openapi/openapi3"
)

// Document builds the OpenAPI description of every route served by
// [NewRouter]. All request and response bodies come from the schema
// catalog, which is also published under components.
func Document(version string) (*openapi3.T, error) {
	doc := openapi.DocBase("Shop API", "Users, products and orders validated by shared schemas", version)
	doc.Tags = openapi3.Tags{
		{Name: "users", Description: "User management endpoints"},
		{Name: "products", Description: "Product management endpoints"},
		{Name: "orders", Description: "Order management endpoints"},
	}
	if err := openapi.AddComponents(doc, schemas.Registry()); err != nil {
		return nil, fmt.Errorf("build api document: %w", err)
	}

	invalid := openapi.Response{Desc: "Validation error", Body: schemas.APIErrorResponse}
	missing := func(entity string) openapi.Response {
		return openapi.Response{Desc: entity + " not found", Body: schemas.APIErrorResponse}
	}
	list := map[string]openapi.Response{"400": invalid}

	openapi.Post(doc, "/users", "createUser", openapi.Endpoint{
		Summary:  "Create a new user",
		Tags:     []string{"users"},
		Request:  schemas.CreateUserInput,
		Response: schemas.UserResponse,
		Status:   http.StatusCreated,
		Responses: map[string]openapi.Response{
			"400": invalid,
			"409": {Desc: "User already exists", Body: schemas.APIErrorResponse},
		},
	})
	openapi.Get(doc, "/users", "listUsers", openapi.Endpoint{
		Summary:   "Get all users with pagination",
		Tags:      []string{"users"},
		Query:     schemas.PaginationQuery,
		Response:  schemas.PaginatedUsers,
		Responses: list,
	})
	openapi.Post(doc, "/users/login", "login", openapi.Endpoint{
		Summary:  "Exchange credentials for an access token",
		Tags:     []string{"users"},
		Request:  schemas.LoginInput,
		Response: schemas.AuthResponse,
		Responses: map[string]openapi.Response{
			"400": invalid,
			"401": {Desc: "Invalid email or password", Body: schemas.APIErrorResponse},
		},
	})
	openapi.Get(doc, "/users/{id}", "getUser", openapi.Endpoint{
		Summary:   "Get a user by ID",
		Tags:      []string{"users"},
		Params:    schemas.IDParam,
		Response:  schemas.UserResponse,
		Responses: map[string]openapi.Response{"400": invalid, "404": missing("User")},
	})
	openapi.Patch(doc, "/users/{id}", "updateUser", openapi.Endpoint{
		Summary:  "Update a user",
		Tags:     []string{"users"},
		Params:   schemas.IDParam,
		Request:  schemas.UpdateUserInput,
		Response: schemas.UserResponse,
		Responses: map[string]openapi.Response{
			"400": invalid,
			"404": missing("User"),
			"409": {Desc: "Email already in use", Body: schemas.APIErrorResponse},
		},
	})
	openapi.Delete(doc, "/users/{id}", "deleteUser", openapi.Endpoint{
		Summary: "Delete a user",
		Tags:    []string{"users"},
		Params:  schemas.IDParam,
		Responses: map[string]openapi.Response{
			"204": {Desc: "User deleted successfully"},
			"404": missing("User"),
		},
	})

	openapi.Post(doc, "/products", "createProduct", openapi.Endpoint{
		Summary:   "Create a new product",
		Tags:      []string{"products"},
		Request:   schemas.CreateProductInput,
		Response:  schemas.ProductResponse,
		Status:    http.StatusCreated,
		Responses: list,
	})
	openapi.Get(doc, "/products", "listProducts", openapi.Endpoint{
		Summary:   "Get all products with pagination",
		Tags:      []string{"products"},
		Query:     schemas.PaginationQuery,
		Response:  schemas.PaginatedProducts,
		Responses: list,
	})
	openapi.Get(doc, "/products/{id}", "getProduct", openapi.Endpoint{
		Summary:   "Get a product by ID",
		Tags:      []string{"products"},
		Params:    schemas.IDParam,
		Response:  schemas.ProductResponse,
		Responses: map[string]openapi.Response{"400": invalid, "404": missing("Product")},
	})
	openapi.Patch(doc, "/products/{id}", "updateProduct", openapi.Endpoint{
		Summary:     "Update a product",
		Description: "Variants, when present, replace every existing variant.",
		Tags:        []string{"products"},
		Params:      schemas.IDParam,
		Request:     schemas.UpdateProductInput,
		Response:    schemas.ProductResponse,
		Responses:   map[string]openapi.Response{"400": invalid, "404": missing("Product")},
	})
	openapi.Delete(doc, "/products/{id}", "deleteProduct", openapi.Endpoint{
		Summary: "Delete a product",
		Tags:    []string{"products"},
		Params:  schemas.IDParam,
		Responses: map[string]openapi.Response{
			"204": {Desc: "Product deleted successfully"},
			"404": missing("Product"),
		},
	})

	openapi.Post(doc, "/orders", "createOrder", openapi.Endpoint{
		Summary:   "Create a new order",
		Tags:      []string{"orders"},
		Request:   schemas.CreateOrderInput,
		Response:  schemas.OrderResponse,
		Status:    http.StatusCreated,
		Responses: map[string]openapi.Response{"400": invalid, "404": missing("Product variant")},
	})
	openapi.Get(doc, "/orders", "listOrders", openapi.Endpoint{
		Summary:   "Get all orders with pagination",
		Tags:      []string{"orders"},
		Query:     schemas.PaginationQuery,
		Response:  schemas.PaginatedOrders,
		Responses: list,
	})
	openapi.Get(doc, "/orders/{id}", "getOrder", openapi.Endpoint{
		Summary:   "Get an order by ID",
		Tags:      []string{"orders"},
		Params:    schemas.IDParam,
		Response:  schemas.OrderResponse,
		Responses: map[string]openapi.Response{"400": invalid, "404": missing("Order")},
	})
	openapi.Patch(doc, "/orders/{id}/status", "updateOrderStatus", openapi.Endpoint{
		Summary:   "Update order status",
		Tags:      []string{"orders"},
		Params:    schemas.IDParam,
		Request:   schemas.UpdateOrderStatusInput,
		Response:  schemas.OrderResponse,
		Responses: map[string]openapi.Response{"400": invalid, "404": missing("Order")},
	})
	return doc, nil
}
