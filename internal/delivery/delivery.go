// Package delivery prices delivery by zone.
package delivery

import "github.com/shopspring/decimal"

// Zones accepted at checkout.
const (
	ZoneHarareCBD     = "harare-cbd"
	ZoneNearHarare    = "near-harare"
	ZoneOutsideHarare = "outside-harare"
	ZoneRural         = "rural-areas"
)

var fees = map[string]decimal.Decimal{
	ZoneHarareCBD:     decimal.Zero,
	ZoneNearHarare:    decimal.NewFromInt(5),
	ZoneOutsideHarare: decimal.NewFromInt(15),
	ZoneRural:         decimal.NewFromInt(30),
}

// Quote is a delivery-inclusive price for a cart.
type Quote struct {
	Zone     string          `json:"zone"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Fee      decimal.Decimal `json:"deliveryFee"`
	Total    decimal.Decimal `json:"total"`
}

// Fee returns the delivery fee for zone. Unknown zones are free.
func Fee(zone string) decimal.Decimal {
	if fee, ok := fees[zone]; ok {
		return fee
	}
	return decimal.Zero
}

// Known reports whether zone has a fee of its own.
func Known(zone string) bool {
	_, ok := fees[zone]
	return ok
}

// Zones returns the recognised zones and their fees.
func Zones() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(fees))
	for zone, fee := range fees {
		out[zone] = fee
	}
	return out
}

// QuoteFor adds the zone's fee to subtotal.
func QuoteFor(subtotal decimal.Decimal, zone string) Quote {
	fee := Fee(zone)
	return Quote{
		Zone:     zone,
		Subtotal: subtotal,
		Fee:      fee,
		Total:    subtotal.Add(fee),
	}
}
