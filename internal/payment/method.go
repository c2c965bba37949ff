// Package payment validates checkout payment details and settles them
// against simulated mobile-money, card and cash-on-delivery backends.
package payment

import "strings"

// Method is the payment option chosen at checkout.
type Method string

const (
	MethodEcoCash  Method = "ecocash"
	MethodInnBucks Method = "innbucks"
	MethodCard     Method = "card"
	MethodCash     Method = "cash"
)

// ParseMethod returns the method named by s, case-insensitively.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MethodEcoCash, MethodInnBucks, MethodCard, MethodCash:
		return m, true
	}
	return "", false
}

// IsMobileMoney reports whether the method is paid from a phone wallet.
func (m Method) IsMobileMoney() bool {
	return m == MethodEcoCash || m == MethodInnBucks
}

// Provider is the backend that settles a payment.
type Provider string

const (
	ProviderEcoCash    Provider = "ecocash"
	ProviderInnBucks   Provider = "innbucks"
	ProviderVisa       Provider = "visa"
	ProviderMastercard Provider = "mastercard"
	ProviderCash       Provider = "cash"
)

// cardProvider routes a card by its leading digit.
func cardProvider(number string) (Provider, bool) {
	switch {
	case strings.HasPrefix(number, "4"):
		return ProviderVisa, true
	case strings.HasPrefix(number, "5"), strings.HasPrefix(number, "2"):
		return ProviderMastercard, true
	}
	return "", false
}
