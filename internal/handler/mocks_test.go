package handler

import (
	"context"

	"storefront/internal/delivery"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetAll(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) Featured(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) CategoryCounts(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Summary(ctx context.Context, cartID string) (model.CartSummary, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(model.CartSummary), args.Error(1)
}

func (m *MockCartService) Add(ctx context.Context, cartID string, productID int64, quantity int) (*model.CartUpdate, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartUpdate), args.Error(1)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, cartID string, productID int64, quantity int) (model.CartSummary, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Get(0).(model.CartSummary), args.Error(1)
}

func (m *MockCartService) Remove(ctx context.Context, cartID string, productID int64) (model.CartSummary, error) {
	args := m.Called(ctx, cartID, productID)
	return args.Get(0).(model.CartSummary), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, cartID string) (model.CartSummary, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(model.CartSummary), args.Error(1)
}

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Quote(ctx context.Context, cartID, zone string) (delivery.Quote, error) {
	args := m.Called(ctx, cartID, zone)
	return args.Get(0).(delivery.Quote), args.Error(1)
}

func (m *MockCheckoutService) Checkout(ctx context.Context, cartID string, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	args := m.Called(ctx, cartID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResponse), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Record(ctx context.Context, in service.RecordInput) (*model.Order, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) EnsureDefaults(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.SessionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.SessionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionResponse), args.Error(1)
}

func (m *MockAuthService) AdminLogin(ctx context.Context, req *model.AdminLoginRequest) (*model.SessionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionResponse), args.Error(1)
}

func (m *MockAuthService) ChangeAdminPassword(ctx context.Context, req *model.ChangePasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuthService) Session(ctx context.Context, token string) (*model.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// MockFavouritesService is a mock implementation of FavouritesService.
type MockFavouritesService struct {
	mock.Mock
}

func (m *MockFavouritesService) List(ctx context.Context, session *model.Session) ([]int64, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockFavouritesService) Toggle(ctx context.Context, session *model.Session, productID int64) (bool, error) {
	args := m.Called(ctx, session, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavouritesService) Remove(ctx context.Context, session *model.Session, productID int64) error {
	return m.Called(ctx, session, productID).Error(0)
}

func (m *MockFavouritesService) Products(ctx context.Context, session *model.Session) ([]model.Product, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockFavouritesService) Clear(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
