// Package httpapi exposes the services over HTTP. Every request body, query
// string and path id is validated against the shared schema catalog before
// a service sees it, and every failure is answered with an ApiErrorResponse.
package httpapi

import (
	"net/http"

	"github.com/Gobd/apicontract/internal/metrics"
	"github.com/Gobd/apicontract/internal/service"
	"github.com/Gobd/apicontract/openapi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Deps are the collaborators of the router.
type Deps struct {
	Users       *service.Users
	Products    *service.Products
	Orders      *service.Orders
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	CORSOrigins []string
	Version     string
}

type api struct {
	Deps
}

// NewRouter wires every route. It fails only when the API document does not
// validate.
func NewRouter(d Deps) (http.Handler, error) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	doc, err := Document(d.Version)
	if err != nil {
		return nil, err
	}
	swagger, err := openapi.SwaggerHandler("/api", doc)
	if err != nil {
		return nil, err
	}

	a := &api{Deps: d}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.observe)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	r.Handle("/api", swagger)
	r.Handle("/api/*", swagger)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", a.createUser)
		r.Get("/", a.listUsers)
		r.Post("/login", a.login)
		r.Get("/{id}", a.getUser)
		r.Patch("/{id}", a.updateUser)
		r.Delete("/{id}", a.deleteUser)
	})
	r.Route("/products", func(r chi.Router) {
		r.Post("/", a.createProduct)
		r.Get("/", a.listProducts)
		r.Get("/{id}", a.getProduct)
		r.Patch("/{id}", a.updateProduct)
		r.Delete("/{id}", a.deleteProduct)
	})
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", a.createOrder)
		r.Get("/", a.listOrders)
		r.Get("/{id}", a.getOrder)
		r.Patch("/{id}/status", a.updateOrderStatus)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})
	return r, nil
}
