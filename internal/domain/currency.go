package domain

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyNGN Currency = "NGN"
	CurrencyJPY Currency = "JPY"
)
