package domain

import "github.com/shopspring/decimal"

// FeeResult is computed fresh per request and never mutated afterwards.
// Fee and TotalAmount are rounded to 2 decimal places; EffectiveRate is the
// raw composed rate. ExchangeRate and MarkupFee are set only for
// cross-currency requests.
type FeeResult struct {
	Fee           decimal.Decimal
	TotalAmount   decimal.Decimal
	EffectiveRate decimal.Decimal
	ExchangeRate  *decimal.Decimal
	MarkupFee     *decimal.Decimal
}
