package router

import (
	"encoding/json"
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Health     *handler.HealthHandler
	Products   *handler.ProductHandler
	Cart       *handler.CartHandler
	Checkout   *handler.CheckoutHandler
	Orders     *handler.OrderHandler
	Auth       *handler.AuthHandler
	Favourites *handler.FavouritesHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, sessions middleware.SessionResolver, serviceName string, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// Health check endpoint (no authentication required)
	r.HandleFunc("/health", h.Health.Check).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Products. Literal paths are registered before {id}.
	api.HandleFunc("/products", h.Products.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/products/featured", h.Products.Featured).Methods(http.MethodGet)
	api.HandleFunc("/products/categories", h.Products.Categories).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", h.Products.GetByID).Methods(http.MethodGet)

	// Cart
	api.HandleFunc("/cart", h.Cart.Get).Methods(http.MethodGet)
	api.HandleFunc("/cart", h.Cart.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", h.Cart.AddItem).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{id}", h.Cart.UpdateItem).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{id}", h.Cart.RemoveItem).Methods(http.MethodDelete)

	// Checkout and orders
	api.HandleFunc("/checkout/quote", h.Checkout.Quote).Methods(http.MethodGet)
	api.HandleFunc("/checkout", h.Checkout.Checkout).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}", h.Orders.GetByID).Methods(http.MethodGet)

	// Customer auth
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)

	// Favourites; anonymous callers are answered by the service.
	api.HandleFunc("/favourites", h.Favourites.List).Methods(http.MethodGet)
	api.HandleFunc("/favourites/{id}", h.Favourites.Toggle).Methods(http.MethodPost)
	api.HandleFunc("/favourites/{id}", h.Favourites.Remove).Methods(http.MethodDelete)

	// Admin
	api.HandleFunc("/admin/login", h.Auth.AdminLogin).Methods(http.MethodPost)

	adminOnly := middleware.RequireSession(model.SessionAdmin, logger)
	api.Handle("/orders", adminOnly(http.HandlerFunc(h.Orders.List))).Methods(http.MethodGet)
	api.Handle("/admin/logout", adminOnly(http.HandlerFunc(h.Auth.Logout))).Methods(http.MethodPost)
	api.Handle("/admin/password", adminOnly(http.HandlerFunc(h.Auth.ChangePassword))).Methods(http.MethodPost)

	// Apply middleware in order: Tracing -> CorrelationID -> Recovery -> Logging -> CORS -> SessionAuth
	var handler http.Handler = r
	handler = middleware.SessionAuth(sessions, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.CorrelationID(handler)
	handler = otelhttp.NewHandler(handler, serviceName,
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/health" }),
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return "HTTP " + r.Method + " " + r.URL.Path
		}),
	)

	return handler
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeRouteError(w, r, http.StatusNotFound, "NOT_FOUND", "not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeRouteError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

func writeRouteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.CorrelationIDFrom(r.Context()),
	})
}
