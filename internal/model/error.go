package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Field         string `json:"field,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidField       = "INVALID_FIELD"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeEmptyCart          = "EMPTY_CART"
	ErrCodeInvalidAmount      = "INVALID_AMOUNT"
	ErrCodeCheckoutInProgress = "CHECKOUT_IN_PROGRESS"
	ErrCodePaymentFailed      = "PAYMENT_FAILED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeRegistrationFailed = "REGISTRATION_FAILED"
	ErrCodeLoginRequired      = "LOGIN_REQUIRED"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that wrapped copies compare equal.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewPaymentFailedError carries a gateway failure message verbatim.
func NewPaymentFailedError(message string) *DomainError {
	if message == "" {
		message = "Payment failed"
	}
	return NewDomainError(ErrCodePaymentFailed, message)
}

// NewInvalidFieldError reports a malformed input field.
func NewInvalidFieldError(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidField, message)
}

// Common domain errors
var (
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be a whole number")
	ErrEmptyCart          = NewDomainError(ErrCodeEmptyCart, "Your cart is empty")
	ErrInvalidAmount      = NewDomainError(ErrCodeInvalidAmount, "Invalid order amount")
	ErrCheckoutInProgress = NewDomainError(ErrCodeCheckoutInProgress, "A checkout for this cart is already being processed")
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidCredentials, "Invalid email or password.")
	ErrInvalidAdminLogin  = NewDomainError(ErrCodeInvalidCredentials, "Invalid username or password.")
	ErrWrongPassword      = NewDomainError(ErrCodeInvalidCredentials, "Current password is incorrect.")
	ErrRegistrationFailed = NewDomainError(ErrCodeRegistrationFailed, "Unable to create an account with these details.")
	ErrLoginRequired      = NewDomainError(ErrCodeLoginRequired, "Please log in to save your favourites.")
	ErrUnauthorised       = NewDomainError(ErrCodeUnauthorised, "Authentication required")
	ErrForbidden          = NewDomainError(ErrCodeForbidden, "Administrator access required")
)
