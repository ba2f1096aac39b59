package httpapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Gobd/apicontract/internal/httpapi"
	"github.com/Gobd/apicontract/internal/metrics"
	"github.com/Gobd/apicontract/internal/pricing"
	"github.com/Gobd/apicontract/internal/record"
	"github.com/Gobd/apicontract/internal/service"
	"github.com/Gobd/apicontract/internal/store"
	"github.com/Gobd/apicontract/internal/types"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type harness struct {
	h     http.Handler
	store *store.Memory
	logs  *observer.ObservedLogs
}

func newHarness(t *testing.T) harness {
	t.Helper()
	mem := store.NewMemory()
	core, logs := observer.New(zap.ErrorLevel)
	policy := pricing.Policy{
		Catalog:    service.NewCatalog(mem.Products()),
		Discounter: pricing.NoDiscount{},
		TaxRate:    decimal.RequireFromString("0.1"),
	}
	h, err := httpapi.NewRouter(httpapi.Deps{
		Users:       service.NewUsers(mem.Users(), service.SystemClock, service.WithHashCost(bcrypt.MinCost)),
		Products:    service.NewProducts(mem.Products(), service.SystemClock),
		Orders:      service.NewOrders(mem.Orders(), policy, service.SystemClock),
		Logger:      zap.New(core),
		Metrics:     metrics.New(),
		CORSOrigins: []string{"http://localhost:3000"},
		Version:     "test",
	})
	require.NoError(t, err)
	return harness{h: h, store: mem, logs: logs}
}

func (hs harness) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	hs.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

const missingID = "6f1c1b8e-9a4e-4d3b-8f59-0b1e7c2d3a45"

func TestUserRoutes(t *testing.T) {
	hs := newHarness(t)

	rec := hs.do(http.MethodPost, "/users", `{"email":"ada@example.com","name":"Ada","password":"Secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decode[types.UserResponse](t, rec)
	assert.Equal(t, "Ada", user.Name)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = hs.do(http.MethodPost, "/users", `{"email":"ada@example.com","name":"Ada","password":"Secret123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User with this email already exists", decode[types.APIErrorResponse](t, rec).Message)

	rec = hs.do(http.MethodGet, "/users/"+user.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, decode[types.UserResponse](t, rec).ID)

	rec = hs.do(http.MethodPatch, "/users/"+user.ID, `{"name":"Ada L."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ada L.", decode[types.UserResponse](t, rec).Name)

	rec = hs.do(http.MethodPost, "/users/login", `{"email":"ada@example.com","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[types.AuthResponse](t, rec).AccessToken)

	rec = hs.do(http.MethodPost, "/users/login", `{"email":"ada@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = hs.do(http.MethodGet, "/users?page=1&pageSize=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[types.Paginated[types.UserResponse]](t, rec)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 1, page.TotalPages)

	rec = hs.do(http.MethodDelete, "/users/"+user.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = hs.do(http.MethodGet, "/users/"+user.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User with ID "+user.ID+" not found", decode[types.APIErrorResponse](t, rec).Message)
}

func TestValidationFailures(t *testing.T) {
	hs := newHarness(t)

	rec := hs.do(http.MethodPost, "/users", `{"email":"bad","name":"A","password":"short"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[types.APIErrorResponse](t, rec)
	assert.Equal(t, 400, body.StatusCode)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Equal(t, "Bad Request", body.Error)
	assert.Equal(t, []types.ErrorDetail{
		{Field: "email", Message: "Invalid email address"},
		{Field: "name", Message: "Name must be at least 2 characters"},
		{Field: "password", Message: "Password must be at least 8 characters"},
		{Field: "password", Message: "Password must contain at least one uppercase letter"},
		{Field: "password", Message: "Password must contain at least one number"},
	}, body.Details)

	rec = hs.do(http.MethodPost, "/users", `{"email":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Malformed JSON body", decode[types.APIErrorResponse](t, rec).Message)

	rec = hs.do(http.MethodGet, "/users/42", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []types.ErrorDetail{{Field: "id", Message: "Invalid ID format"}}, decode[types.APIErrorResponse](t, rec).Details)

	rec = hs.do(http.MethodGet, "/orders?page=abc&pageSize=500", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []types.ErrorDetail{
		{Field: "page", Message: "expected integer got string"},
		{Field: "pageSize", Message: "must be no greater than 100"},
	}, decode[types.APIErrorResponse](t, rec).Details)

	rec = hs.do(http.MethodGet, "/users?page=1e20", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []types.ErrorDetail{
		{Field: "page", Message: "must be no greater than 100000"},
	}, decode[types.APIErrorResponse](t, rec).Details)

	rec = hs.do(http.MethodPost, "/orders", `{
		"items": [{"productId": "`+missingID+`", "variantId": "`+missingID+`", "quantity": 1e20}],
		"shippingAddress": {"street": "1 Main St", "city": "Springfield", "state": "IL", "postalCode": "62701", "country": "US"}
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []types.ErrorDetail{
		{Field: "items[0].quantity", Message: "must be no greater than 10000"},
	}, decode[types.APIErrorResponse](t, rec).Details)

	rec = hs.do(http.MethodPatch, "/orders/"+missingID+"/status", `{"status":"lost"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = hs.do(http.MethodGet, "/products/"+missingID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = hs.do(http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode[types.APIErrorResponse](t, rec).Message)
}

func TestOrderFlow(t *testing.T) {
	hs := newHarness(t)

	rec := hs.do(http.MethodPost, "/products", `{
		"name": "Headphones", "category": "electronics", "basePrice": 89.5,
		"variants": [{"sku": "HP-BLK", "name": "Black", "price": 99.99, "stock": 10}]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[types.ProductResponse](t, rec)
	assert.True(t, product.IsActive)
	assert.Equal(t, []string{}, product.Tags)

	rec = hs.do(http.MethodPost, "/orders", `{
		"items": [{"productId": "`+product.ID+`", "variantId": "`+product.Variants[0].ID+`", "quantity": 2}],
		"shippingAddress": {"street": "1 Main St", "city": "Springfield", "state": "IL", "postalCode": "62701", "country": "US"},
		"notes": "ring twice"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[types.OrderResponse](t, rec)
	assert.Equal(t, types.OrderStatus("pending"), order.Status)
	assert.InDelta(t, 199.98, order.Subtotal, 1e-9)
	assert.InDelta(t, 20.0, order.Tax, 1e-9)
	assert.InDelta(t, 219.98, order.Total, 1e-9)
	assert.Nil(t, order.BillingAddress)
	assert.Contains(t, rec.Body.String(), `"billingAddress":null`)

	rec = hs.do(http.MethodPatch, "/orders/"+order.ID+"/status", `{"status":"shipped","notes":"1Z999"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ring twice\n---\n1Z999", *decode[types.OrderResponse](t, rec).Notes)

	rec = hs.do(http.MethodPost, "/orders", `{
		"items": [{"productId": "`+missingID+`", "variantId": "`+missingID+`", "quantity": 1}],
		"shippingAddress": {"street": "1 Main St", "city": "Springfield", "state": "IL", "postalCode": "62701", "country": "US"}
	}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = hs.do(http.MethodPatch, "/products/"+product.ID, `{"basePrice": 79}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 79.0, decode[types.ProductResponse](t, rec).BasePrice, 1e-9)

	rec = hs.do(http.MethodDelete, "/products/"+product.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestIntegrityFaultIsHidden(t *testing.T) {
	hs := newHarness(t)
	const id = "3e9c3b7a-6f4b-4fbb-8c4d-5a8b9eaf0a23"
	now := time.Now()
	require.NoError(t, hs.store.Orders().Create(context.Background(), record.Order{
		ID:              id,
		OrderNumber:     "ORD-LEGACY",
		Status:          "archived",
		ShippingAddress: record.Address{Street: "x", City: "y", State: "z", PostalCode: "1", Country: "US"},
		CreatedAt:       now,
		UpdatedAt:       now,
	}))

	rec := hs.do(http.MethodGet, "/orders/"+id, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[types.APIErrorResponse](t, rec)
	assert.Equal(t, "Internal server error", body.Message)
	assert.Empty(t, body.Details)
	assert.NotContains(t, rec.Body.String(), "archived")

	entries := hs.logs.FilterMessage("response violates its contract").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "order", entries[0].ContextMap()["entity"])

	rec = hs.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `shopd_integrity_faults_total{entity="order"} 1`)
	assert.Contains(t, rec.Body.String(), `route="/orders/{id}",status="500"`)
}

func TestDocsAndHealth(t *testing.T) {
	hs := newHarness(t)

	rec := hs.do(http.MethodGet, "/api", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")

	rec = hs.do(http.MethodGet, "/api/json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := openapi3.NewLoader().LoadFromData(rec.Body.Bytes())
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	assert.NotNil(t, doc.Paths.Find("/orders/{id}/status"))
	assert.Contains(t, doc.Components.Schemas, "CreateOrderInput")

	rec = hs.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	hs := newHarness(t)
	req := httptest.NewRequest(http.MethodOptions, "/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	hs.h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	hs.h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServeShutsDown(t *testing.T) {
	hs := newHarness(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- httpapi.Serve(ctx, ln, hs.h, time.Second, zap.NewNop()) }()

	tr := &http.Transport{DisableKeepAlives: true}
	client := &http.Client{Transport: tr, Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	tr.CloseIdleConnections()

	cancel()
	require.NoError(t, <-done)
}

func TestDocument(t *testing.T) {
	doc, err := httpapi.Document("1.2.3")
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	assert.Equal(t, "1.2.3", doc.Info.Version)

	op := doc.Paths.Value("/users").Post
	require.NotNil(t, op)
	assert.Equal(t, "#/components/schemas/CreateUserInput", op.RequestBody.Value.Content["application/json"].Schema.Ref)
	assert.NotNil(t, op.Responses.Value("201"))
	assert.NotNil(t, op.Responses.Value("409"))

	del := doc.Paths.Value("/products/{id}").Delete
	require.NotNil(t, del)
	assert.NotNil(t, del.Responses.Value("204"))
	assert.Equal(t, "id", del.Parameters[0].Value.Name)
}
