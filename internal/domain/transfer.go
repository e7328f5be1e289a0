package domain

import "github.com/shopspring/decimal"

// TransferRequest is the immutable per-request input to the fee engine.
// ToCurrency defaults to FromCurrency when unset (same-currency transfer).
type TransferRequest struct {
	Amount       decimal.Decimal
	Category     Category
	FromCurrency Currency
	ToCurrency   Currency
	Instant      bool
	Referral     bool
}

// CrossCurrency reports whether the request needs conversion.
func (r TransferRequest) CrossCurrency() bool {
	return r.ToCurrency != "" && r.ToCurrency != r.FromCurrency
}
