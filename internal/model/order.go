package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusConfirmed is the only status an order is recorded with.
const OrderStatusConfirmed = "confirmed"

// Order is an append-only record of a settled checkout.
// It never carries card numbers, expiry dates or security codes.
type Order struct {
	ID            string          `json:"orderId"`
	PaymentMethod string          `json:"paymentMethod"`
	PhoneNumber   string          `json:"phoneNumber,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Total         string          `json:"total"`
	DeliveryZone  string          `json:"deliveryZone"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee"`
	TransactionID string          `json:"transactionId,omitempty"`
	Items         []CartLineItem  `json:"items"`
	Customer      Customer        `json:"customer"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Customer holds the contact fields captured from the checkout form.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// FormatAmount renders an amount the way order totals are displayed.
func FormatAmount(amount decimal.Decimal) string {
	return fmt.Sprintf("$%s", amount.StringFixed(2))
}

// CheckoutRequest is the payload submitted by the checkout form.
type CheckoutRequest struct {
	PaymentMethod string       `json:"paymentMethod" validate:"required,oneof=ecocash innbucks card cash"`
	Zone          string       `json:"location"`
	FirstName     string       `json:"firstName" validate:"required,max=100"`
	LastName      string       `json:"lastName" validate:"required,max=100"`
	Email         string       `json:"email" validate:"required,email"`
	Address       string       `json:"address" validate:"required,max=500"`
	PhoneNumber   string       `json:"phoneNumber,omitempty"`
	Card          *CardDetails `json:"card,omitempty"`
}

// CardDetails are the raw card fields from the checkout form. They are
// used for a single payment attempt and never stored.
type CardDetails struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
	Name   string `json:"name"`
}

// CheckoutResponse is returned after a successful checkout.
type CheckoutResponse struct {
	Order    *Order `json:"order"`
	Message  string `json:"message"`
	USSDCode string `json:"ussdCode,omitempty"`
}
