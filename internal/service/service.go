package service

import (
	"context"

	"storefront/internal/delivery"
	"storefront/internal/model"
	"storefront/internal/payment"
)

// ProductService defines read operations on the catalogue.
type ProductService interface {
	// GetAll retrieves products matching the filter with pagination.
	GetAll(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error)

	// Featured retrieves the featured products.
	Featured(ctx context.Context) ([]model.Product, error)

	// CategoryCounts returns the units in stock per category.
	CategoryCounts(ctx context.Context) (map[string]int, error)
}

// CartService defines operations on a shopper's cart.
type CartService interface {
	// Summary returns the cart's items, total and item count.
	Summary(ctx context.Context, cartID string) (model.CartSummary, error)

	// Add puts a catalogue product in the cart, or returns a quantity prompt
	// when it is already there.
	Add(ctx context.Context, cartID string, productID int64, quantity int) (*model.CartUpdate, error)

	// UpdateQuantity sets a line's quantity; zero or less removes the line.
	UpdateQuantity(ctx context.Context, cartID string, productID int64, quantity int) (model.CartSummary, error)

	// Remove deletes a line from the cart.
	Remove(ctx context.Context, cartID string, productID int64) (model.CartSummary, error)

	// Clear empties the cart.
	Clear(ctx context.Context, cartID string) (model.CartSummary, error)
}

// FavouritesService defines operations on a customer's favourite products.
// A nil or non-customer session is anonymous.
type FavouritesService interface {
	// List returns the favourite product IDs.
	List(ctx context.Context, session *model.Session) ([]int64, error)

	// Toggle adds the product if absent and removes it if present.
	// It reports whether the product is now a favourite.
	Toggle(ctx context.Context, session *model.Session, productID int64) (bool, error)

	// Remove drops the product from the favourites.
	Remove(ctx context.Context, session *model.Session, productID int64) error

	// Products returns the favourite products sorted by category then name.
	Products(ctx context.Context, session *model.Session) ([]model.Product, error)

	// Clear deletes every favourite of the customer with the given email.
	Clear(ctx context.Context, email string) error
}

// AuthService defines the mocked customer and admin authentication layer.
type AuthService interface {
	// EnsureDefaults seeds the default customer and admin password when absent.
	EnsureDefaults(ctx context.Context) error

	// Register creates a customer account and logs it in.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.SessionResponse, error)

	// Login starts a customer session.
	Login(ctx context.Context, req *model.LoginRequest) (*model.SessionResponse, error)

	// AdminLogin starts an admin session.
	AdminLogin(ctx context.Context, req *model.AdminLoginRequest) (*model.SessionResponse, error)

	// ChangeAdminPassword replaces the admin password.
	ChangeAdminPassword(ctx context.Context, req *model.ChangePasswordRequest) error

	// Session resolves a token. It returns nil, nil for unknown tokens.
	Session(ctx context.Context, token string) (*model.Session, error)

	// Logout ends the session, deleting a customer's favourites with it.
	Logout(ctx context.Context, token string) error
}

// OrderCart is the cart state the order recorder reads and then clears.
type OrderCart interface {
	Items() []model.CartLineItem
	Clear(ctx context.Context) error
}

// RecordInput carries everything needed to record a paid checkout.
type RecordInput struct {
	Cart    OrderCart
	Request *model.CheckoutRequest
	Method  payment.Method
	Quote   delivery.Quote
	Payment *payment.Result
}

// OrderService defines operations on the append-only order log.
type OrderService interface {
	// Record appends an order for a settled payment and then clears the cart.
	Record(ctx context.Context, in RecordInput) (*model.Order, error)

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// List retrieves orders newest first.
	List(ctx context.Context, limit, offset int) ([]model.Order, error)
}

// CheckoutService defines the checkout flow.
type CheckoutService interface {
	// Quote prices delivery for the cart's current contents.
	Quote(ctx context.Context, cartID, zone string) (delivery.Quote, error)

	// Checkout charges the cart and records the order.
	Checkout(ctx context.Context, cartID string, req *model.CheckoutRequest) (*model.CheckoutResponse, error)
}

// PaymentDispatcher settles a payment attempt.
type PaymentDispatcher interface {
	Dispatch(ctx context.Context, attempt payment.Attempt) (*payment.Result, error)
}
