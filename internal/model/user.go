package model

import "time"

// User is a registered customer account as kept in the durable store.
type User struct {
	Name         string    `json:"name" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"password" validate:"required"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session kinds.
const (
	SessionCustomer = "customer"
	SessionAdmin    = "admin"
)

// Session is an authenticated identity kept in the session store.
type Session struct {
	Kind      string    `json:"kind" validate:"oneof=customer admin"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Username  string    `json:"username,omitempty"`
	Token     string    `json:"sessionId" validate:"required"`
	LoginTime time.Time `json:"loginTime"`
}

// IsAdmin reports whether the session belongs to the store administrator.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Kind == SessionAdmin
}

// RegisterRequest is the customer registration payload.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest is the customer login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLoginRequest is the admin login payload.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the admin password change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SessionResponse is returned after login or registration.
type SessionResponse struct {
	Token     string    `json:"token"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Username  string    `json:"username,omitempty"`
	LoginTime time.Time `json:"loginTime"`
}
