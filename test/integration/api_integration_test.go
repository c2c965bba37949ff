package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// client drives the HTTP stack the way the storefront page does: it keeps
// the cart ID it was issued and an optional bearer token.
type client struct {
	t      *testing.T
	server http.Handler
	cartID string
	token  string
}

func newClient(t *testing.T, server http.Handler) *client {
	return &client{t: t, server: server}
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.cartID != "" {
		req.Header.Set(middleware.HeaderCartID, c.cartID)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	w := httptest.NewRecorder()
	c.server.ServeHTTP(w, req)

	if id := w.Header().Get(middleware.HeaderCartID); id != "" {
		c.cartID = id
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func (c *client) login(email, password string) {
	c.t.Helper()
	w := c.do(http.MethodPost, "/api/auth/login", model.LoginRequest{Email: email, Password: password})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	c.token = decode[model.SessionResponse](c.t, w).Token
}

func (c *client) adminLogin() {
	c.t.Helper()
	w := c.do(http.MethodPost, "/api/admin/login", model.AdminLoginRequest{Username: "admin", Password: "password123"})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	c.token = decode[model.SessionResponse](c.t, w).Token
}

func TestProductAPI_Integration(t *testing.T) {
	srv := SetupTestServer(t)
	c := newClient(t, srv.Handler)

	t.Run("GET /health reports postgres", func(t *testing.T) {
		w := c.do(http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", decode[handler.HealthResponse](t, w).Checks["postgres"])
	})

	t.Run("GET /api/products filters and sorts", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/products?category=wallets&sort=price-desc&limit=50", nil)
		require.Equal(t, http.StatusOK, w.Code)

		products := decode[[]model.Product](t, w)
		require.NotEmpty(t, products)
		for i, p := range products {
			assert.Equal(t, "wallets", p.Category)
			if i > 0 {
				assert.True(t, products[i-1].Price.GreaterThanOrEqual(p.Price))
			}
		}
	})

	t.Run("GET /api/products/featured", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/products/featured", nil)
		require.Equal(t, http.StatusOK, w.Code)
		for _, p := range decode[[]model.Product](t, w) {
			assert.True(t, p.Featured)
		}
	})

	t.Run("GET /api/products/categories", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/products/categories", nil)
		require.Equal(t, http.StatusOK, w.Code)
		counts := decode[map[string]int](t, w)
		assert.Positive(t, counts["wallets"])
	})

	t.Run("GET /api/products/{id}", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/products/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Classic Bi-Fold Wallet", decode[model.Product](t, w).Name)

		w = c.do(http.MethodGet, "/api/products/9999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Unknown route is JSON 404", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", decode[model.ErrorResponse](t, w).Error)
	})
}

func TestCheckoutFlow_Integration(t *testing.T) {
	srv := SetupTestServer(t)
	c := newClient(t, srv.Handler)

	// Add two wallets; a second add prompts instead of merging.
	w := c.do(http.MethodPost, "/api/cart/items", model.AddToCartRequest{ProductID: 1, Quantity: 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	update := decode[model.CartUpdate](t, w)
	assert.Equal(t, "Classic Bi-Fold Wallet (x2) was added to your cart.", update.Message)
	require.NotEmpty(t, c.cartID)

	w = c.do(http.MethodPost, "/api/cart/items", model.AddToCartRequest{ProductID: 1, Quantity: 1})
	require.Equal(t, http.StatusConflict, w.Code)
	prompt := decode[model.CartUpdate](t, w).Prompt
	require.NotNil(t, prompt)
	assert.Equal(t, 2, prompt.CurrentQuantity)

	w = c.do(http.MethodPost, "/api/cart/items", model.AddToCartRequest{ProductID: 4, Quantity: 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = c.do(http.MethodPut, "/api/cart/items/4", model.UpdateQuantityRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[model.CartSummary](t, w)
	assert.Equal(t, 2, summary.ItemCount)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(90)))

	// 90 + 15 delivery
	w = c.do(http.MethodGet, "/api/checkout/quote?zone=outside-harare", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var quote struct {
		Total decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&quote))
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(105)))

	checkout := map[string]interface{}{
		"paymentMethod": "ecocash",
		"location":      "outside-harare",
		"firstName":     "Jane",
		"lastName":      "Moyo",
		"email":         "jane@example.com",
		"address":       "12 Samora Machel Ave, Mutare",
		"phoneNumber":   "077 123 4567",
	}

	t.Run("Invalid phone is a field error", func(t *testing.T) {
		bad := map[string]interface{}{}
		for k, v := range checkout {
			bad[k] = v
		}
		bad["phoneNumber"] = "0621234567"

		w := c.do(http.MethodPost, "/api/checkout", bad)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "phoneNumber", decode[model.ErrorResponse](t, w).Field)
	})

	var orderID string
	t.Run("Checkout records the order and clears the cart", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/checkout", checkout)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := decode[model.CheckoutResponse](t, w)
		require.NotNil(t, resp.Order)
		orderID = resp.Order.ID
		assert.Equal(t, "$105.00", resp.Order.Total)
		assert.Equal(t, "0771234567", resp.Order.PhoneNumber)
		assert.Equal(t, "*153*1*1*0788025819*105#", resp.USSDCode)

		w = c.do(http.MethodGet, "/api/cart", nil)
		assert.Equal(t, 0, decode[model.CartSummary](t, w).ItemCount)
	})

	t.Run("Empty cart cannot check out", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/checkout", checkout)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, model.ErrCodeEmptyCart, decode[model.ErrorResponse](t, w).Error)
	})

	t.Run("Order can be fetched", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/orders/"+orderID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		order := decode[model.Order](t, w)
		require.Len(t, order.Items, 1)
		assert.Equal(t, 2, order.Items[0].Quantity)
		assert.True(t, order.DeliveryFee.Equal(decimal.NewFromInt(15)))
	})

	t.Run("Order list is admin only", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/orders", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		admin := newClient(t, srv.Handler)
		admin.adminLogin()
		w = admin.do(http.MethodGet, "/api/orders", nil)
		require.Equal(t, http.StatusOK, w.Code)
		orders := decode[[]model.Order](t, w)
		require.Len(t, orders, 1)
		assert.Equal(t, orderID, orders[0].ID)
	})
}

func TestFavourites_Integration(t *testing.T) {
	srv := SetupTestServer(t)

	anon := newClient(t, srv.Handler)
	w := anon.do(http.MethodPost, "/api/favourites/3", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, model.ErrCodeLoginRequired, decode[model.ErrorResponse](t, w).Error)

	c := newClient(t, srv.Handler)
	c.login("testuser@example.com", "password123")

	for _, id := range []string{"3", "1"} {
		w := c.do(http.MethodPost, "/api/favourites/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decode[handler.ToggleResponse](t, w).Favourite)
	}

	w = c.do(http.MethodGet, "/api/favourites", nil)
	require.Equal(t, http.StatusOK, w.Code)
	favs := decode[handler.FavouritesResponse](t, w)
	assert.Equal(t, []int64{3, 1}, favs.IDs)
	require.Len(t, favs.Products, 2)
	assert.Equal(t, "bags", favs.Products[0].Category)

	// Logging out drops the favourites with the session.
	w = c.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	c.token = ""
	c.login("testuser@example.com", "password123")
	w = c.do(http.MethodGet, "/api/favourites", nil)
	assert.Empty(t, decode[handler.FavouritesResponse](t, w).IDs)
}

func TestAuth_Integration(t *testing.T) {
	srv := SetupTestServer(t)
	c := newClient(t, srv.Handler)

	w := c.do(http.MethodPost, "/api/auth/register", model.RegisterRequest{
		Name: "Tendai", Email: "Tendai@Example.com", Password: "Secret123", ConfirmPassword: "Secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "tendai@example.com", decode[model.SessionResponse](t, w).Email)

	w = c.do(http.MethodPost, "/api/auth/register", model.RegisterRequest{
		Name: "Tendai", Email: "tendai@example.com", Password: "Secret123", ConfirmPassword: "Secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/auth/login", model.LoginRequest{Email: "tendai@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A customer session cannot reach admin routes.
	c.login("tendai@example.com", "Secret123")
	w = c.do(http.MethodPost, "/api/admin/password", model.ChangePasswordRequest{
		CurrentPassword: "password123", NewPassword: "NewSecret1", ConfirmPassword: "NewSecret1",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := newClient(t, srv.Handler)
	admin.adminLogin()
	w = admin.do(http.MethodPost, "/api/admin/password", model.ChangePasswordRequest{
		CurrentPassword: "password123", NewPassword: "NewSecret1", ConfirmPassword: "NewSecret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = admin.do(http.MethodPost, "/api/admin/logout", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = admin.do(http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = admin.do(http.MethodPost, "/api/admin/login", model.AdminLoginRequest{Username: "admin", Password: "NewSecret1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS_Integration(t *testing.T) {
	srv := SetupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/cart/items", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()

	srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), middleware.HeaderCartID)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderCorrelationID))
}
