package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Charge is what a gateway needs to settle one payment. It never carries
// card data beyond the routing decision already made.
type Charge struct {
	Reference string
	Amount    decimal.Decimal
	Phone     string
}

// Settlement is a gateway's verdict on a charge.
type Settlement struct {
	Success       bool
	Message       string
	TransactionID string
	USSDCode      string
}

// Gateway settles charges for one provider.
type Gateway interface {
	Provider() Provider
	Settle(ctx context.Context, charge Charge) (Settlement, error)
}

// simulator is a Gateway that waits a fixed delay and then succeeds with a
// fixed probability.
type simulator struct {
	provider    Provider
	delay       time.Duration
	successRate float64
	random      func() float64
	success     string
	failure     string
	ussd        func(amount decimal.Decimal) string
	noTxID      bool
}

func (s *simulator) Provider() Provider {
	return s.provider
}

// Settle waits out the simulated latency. It returns ctx.Err() if the
// context ends first.
func (s *simulator) Settle(ctx context.Context, charge Charge) (Settlement, error) {
	var result Settlement
	if s.ussd != nil {
		result.USSDCode = s.ussd(charge.Amount)
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return Settlement{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Settlement{}, err
	}

	result.Success = s.random() < s.successRate
	if result.Success {
		result.Message = s.success
	} else {
		result.Message = s.failure
	}

	if !s.noTxID {
		result.TransactionID = strings.ToUpper(string(s.provider)) + "-" + uuid.NewString()
	}

	return result, nil
}

// EcoCashUSSD returns the EcoCash dial code for amount, rounded to whole units.
func EcoCashUSSD(merchant, recipient string, amount decimal.Decimal) string {
	return fmt.Sprintf("*153*%s*1*%s*%s#", merchant, recipient, amount.Round(0).String())
}

// InnBucksUSSD returns the InnBucks dial code for amount, rounded to whole units.
func InnBucksUSSD(merchant, recipient string, amount decimal.Decimal) string {
	return fmt.Sprintf("*569*%s*1*2*1*%s*%s#", merchant, recipient, amount.Round(0).String())
}
