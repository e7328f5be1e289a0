package pricing

import (
	"fmt"

	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/shopspring/decimal"
)

type FeeParams struct {
	Tier     domain.Tier
	Category domain.Category
	Instant  bool
	Referral bool
}

// TransactionFee computes the fee for a transfer. Composition order is
// load-bearing: the referral discount applies to the base/premium rate and
// is floored at zero before the instant surcharge is added, so a referral
// never discounts the instant portion.
func TransactionFee(amount decimal.Decimal, p FeeParams) (*domain.FeeResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("TransactionFee: %w", domain.ErrInvalidAmount)
	}

	var rate decimal.Decimal
	if p.Tier == domain.TierPremium {
		rate = PremiumRate()
	} else {
		rate = BaseRate(amount)
	}

	if p.Referral {
		rate = rate.Sub(ReferralDiscount())
		if rate.IsNegative() {
			rate = decimal.Zero
		}
	}

	if p.Instant {
		rate = rate.Add(InstantSurcharge(p.Tier))
	}

	fee := amount.Mul(rate).Round(2)

	return &domain.FeeResult{
		Fee:           fee,
		TotalAmount:   totalAmount(p.Category, amount, fee),
		EffectiveRate: rate,
	}, nil
}

// InvestmentFee prices an investment purchase against the package rate
// table. Referral and instant flags do not apply to investments.
func InvestmentFee(amount decimal.Decimal, tier domain.Tier, pkg domain.PackageTier) (*domain.FeeResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("InvestmentFee: %w", domain.ErrInvalidAmount)
	}

	rate, err := InvestmentRate(tier, pkg)
	if err != nil {
		return nil, fmt.Errorf("InvestmentFee: %w", err)
	}

	fee := amount.Mul(rate).Round(2)

	return &domain.FeeResult{
		Fee:           fee,
		TotalAmount:   amount.Add(fee),
		EffectiveRate: rate,
	}, nil
}

func totalAmount(c domain.Category, amount, fee decimal.Decimal) decimal.Decimal {
	if c.FeeDeducted() {
		return amount.Sub(fee)
	}
	return amount.Add(fee)
}
