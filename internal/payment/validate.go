package payment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"storefront/internal/model"
)

// Field names reported by FieldError.
const (
	FieldMethod     = "paymentMethod"
	FieldAmount     = "amount"
	FieldPhone      = "phoneNumber"
	FieldCardNumber = "card.number"
	FieldCardExpiry = "card.expiry"
	FieldCardCVC    = "card.cvc"
	FieldCardName   = "card.name"
)

const maxHolderName = 50

var (
	phonePattern  = regexp.MustCompile(`^(\+263|0)(77|78|71|73|76)[0-9]{7}$`)
	phoneStrip    = regexp.MustCompile(`[^0-9+]`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	cvcPattern    = regexp.MustCompile(`^[0-9]{3,4}$`)
	cardStrip     = regexp.MustCompile(`[^0-9]`)
)

// FieldError reports which checkout field failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NormalizePhone drops everything except digits and '+'.
func NormalizePhone(phone string) string {
	return phoneStrip.ReplaceAllString(phone, "")
}

// ValidPhone reports whether phone is a Zimbabwean mobile number once
// normalized.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

// NormalizeCardNumber drops everything except digits, so spaced or dashed
// numbers are accepted.
func NormalizeCardNumber(number string) string {
	return cardStrip.ReplaceAllString(number, "")
}

// ValidCardNumber checks length and the Luhn checksum of the normalized number.
func ValidCardNumber(number string) bool {
	n := NormalizeCardNumber(number)
	if len(n) < 13 || len(n) > 19 {
		return false
	}
	return luhn(n)
}

func luhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ValidExpiry reports whether an MM/YY expiry is still usable at now. A
// card is usable until the first day of the month after its expiry month.
func ValidExpiry(expiry string, now time.Time) bool {
	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(expiry))
	if m == nil {
		return false
	}

	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])

	end := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, now.Location())
	return end.After(now)
}

// ValidCVC reports whether cvc is three or four digits.
func ValidCVC(cvc string) bool {
	return cvcPattern.MatchString(strings.TrimSpace(cvc))
}

// SanitizeHolderName strips angle brackets, trims and caps the length.
func SanitizeHolderName(name string) string {
	name = model.SanitizeText(name)
	if utf8.RuneCountInString(name) > maxHolderName {
		name = strings.TrimSpace(string([]rune(name)[:maxHolderName]))
	}
	return name
}

// validate checks the method-specific fields of an attempt.
func validate(a Attempt, now time.Time) error {
	if !a.Amount.IsPositive() {
		return &FieldError{Field: FieldAmount, Message: "Invalid order amount"}
	}

	switch a.Method {
	case MethodEcoCash, MethodInnBucks:
		if !ValidPhone(a.Phone) {
			return &FieldError{Field: FieldPhone, Message: "Please enter a valid Zimbabwean phone number"}
		}
		return nil

	case MethodCard:
		var c model.CardDetails
		if a.Card != nil {
			c = *a.Card
		}
		switch {
		case !ValidCardNumber(c.Number):
			return &FieldError{Field: FieldCardNumber, Message: "Invalid card number"}
		case !ValidExpiry(c.Expiry, now):
			return &FieldError{Field: FieldCardExpiry, Message: "Invalid expiry date (MM/YY)"}
		case !ValidCVC(c.CVC):
			return &FieldError{Field: FieldCardCVC, Message: "Invalid CVC"}
		case SanitizeHolderName(c.Name) == "":
			return &FieldError{Field: FieldCardName, Message: "Please enter cardholder name"}
		}
		return nil

	case MethodCash:
		return nil
	}

	return &FieldError{Field: FieldMethod, Message: "Please select a payment method"}
}
