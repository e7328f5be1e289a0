package fx

import (
	"fmt"

	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/shopspring/decimal"
)

type Quote struct {
	FromCurrency domain.Currency
	ToCurrency   domain.Currency
	StandardRate decimal.Decimal
	AppliedRate  decimal.Decimal
	MarkupPct    decimal.Decimal
}

type Conversion struct {
	SourceAmount    decimal.Decimal
	ConvertedAmount decimal.Decimal
	Fee             decimal.Decimal
	AppliedRate     decimal.Decimal
	StandardRate    decimal.Decimal
}

// Converter converts between currencies at a table rate with a per-tier
// markup as the platform's margin. Rates are expressed per common base
// unit, so standardRate(from->to) = table[to] / table[from].
type Converter struct {
	rates          map[domain.Currency]decimal.Decimal
	markupStandard decimal.Decimal
	markupPremium  decimal.Decimal
	sandboxRates   bool
}

type Option func(*Converter)

func WithMarkups(standard, premium float64) Option {
	return func(c *Converter) {
		c.markupStandard = decimal.NewFromFloat(standard)
		c.markupPremium = decimal.NewFromFloat(premium)
	}
}

// WithSandboxRates makes unknown currency codes resolve to rate 1 instead
// of failing. Demo/sandbox use only; never enable in a ledger-facing path.
func WithSandboxRates() Option {
	return func(c *Converter) { c.sandboxRates = true }
}

func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		markupStandard: decimal.NewFromFloat(0.03),
		markupPremium:  decimal.NewFromFloat(0.015),
		rates: map[domain.Currency]decimal.Decimal{
			domain.CurrencyUSD: decimal.NewFromInt(1),
			domain.CurrencyEUR: decimal.NewFromFloat(0.92),
			domain.CurrencyGBP: decimal.NewFromFloat(0.79),
			domain.CurrencyNGN: decimal.NewFromFloat(1530),
			domain.CurrencyJPY: decimal.NewFromFloat(149.5),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Converter) rateFor(code domain.Currency) (decimal.Decimal, error) {
	if r, ok := c.rates[code]; ok {
		return r, nil
	}
	if c.sandboxRates {
		return decimal.NewFromInt(1), nil
	}
	return decimal.Zero, fmt.Errorf("rateFor: %q: %w", code, domain.ErrUnknownCurrency)
}

func (c *Converter) markupFor(tier domain.Tier) decimal.Decimal {
	if tier == domain.TierPremium {
		return c.markupPremium
	}
	return c.markupStandard
}

// GetRate returns the quoted pair rate without converting an amount.
func (c *Converter) GetRate(from, to domain.Currency, tier domain.Tier) (*Quote, error) {
	if from == to {
		return &Quote{
			FromCurrency: from,
			ToCurrency:   to,
			StandardRate: decimal.NewFromInt(1),
			AppliedRate:  decimal.NewFromInt(1),
			MarkupPct:    decimal.Zero,
		}, nil
	}

	fromRate, err := c.rateFor(from)
	if err != nil {
		return nil, fmt.Errorf("GetRate: %w", err)
	}
	toRate, err := c.rateFor(to)
	if err != nil {
		return nil, fmt.Errorf("GetRate: %w", err)
	}

	markup := c.markupFor(tier)
	standard := toRate.Div(fromRate)

	return &Quote{
		FromCurrency: from,
		ToCurrency:   to,
		StandardRate: standard,
		AppliedRate:  standard.Mul(decimal.NewFromInt(1).Sub(markup)),
		MarkupPct:    markup,
	}, nil
}

// Convert exchanges amount from one currency to another at the tier's
// applied rate. The implicit fee is the value lost to the markup, in
// destination currency. Only the final amount and fee are rounded;
// intermediate rates stay at full precision so loss does not compound.
func (c *Converter) Convert(from, to domain.Currency, amount decimal.Decimal, tier domain.Tier) (*Conversion, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("Convert: %w", domain.ErrInvalidAmount)
	}

	quote, err := c.GetRate(from, to, tier)
	if err != nil {
		return nil, fmt.Errorf("Convert: %w", err)
	}

	if from == to {
		return &Conversion{
			SourceAmount:    amount,
			ConvertedAmount: amount,
			Fee:             decimal.Zero,
			AppliedRate:     quote.AppliedRate,
			StandardRate:    quote.StandardRate,
		}, nil
	}

	converted := amount.Mul(quote.AppliedRate).Round(2)

	atStandard := amount.Mul(quote.StandardRate).Round(2)
	fee := atStandard.Sub(converted)
	if fee.IsNegative() {
		fee = decimal.Zero
	}

	return &Conversion{
		SourceAmount:    amount,
		ConvertedAmount: converted,
		Fee:             fee,
		AppliedRate:     quote.AppliedRate,
		StandardRate:    quote.StandardRate,
	}, nil
}
