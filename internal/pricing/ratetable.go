package pricing

import (
	"fmt"

	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// Tiered rate constants. All rates are decimal fractions (0.15 == 15%).
var (
	rateSmall = decimal.NewFromFloat(0.15) // amount < 100
	rateMid   = decimal.NewFromFloat(0.13) // 100 <= amount <= 1000
	rateLarge = decimal.NewFromFloat(0.10) // amount > 1000

	ratePremium = decimal.NewFromFloat(0.08)

	surchargeInstantStandard = decimal.NewFromFloat(0.02)
	surchargeInstantPremium  = decimal.NewFromFloat(0.01)

	discountReferral = decimal.NewFromFloat(0.01)

	bracketMid   = decimal.NewFromInt(100)
	bracketLarge = decimal.NewFromInt(1000)
)

var investmentRates = map[domain.PackageTier]decimal.Decimal{
	domain.PackageStandard:  decimal.NewFromFloat(0.13),
	domain.PackagePremium:   decimal.NewFromFloat(0.15),
	domain.PackageExclusive: decimal.NewFromFloat(0.20),
}

// Premium-tier users get a flat reduction on non-exclusive packages.
var investmentPremiumAdjustment = decimal.NewFromFloat(0.02)

// BaseRate returns the bracket rate for the standard tier. Both bracket
// boundaries (100 and 1000) belong to the middle bracket.
func BaseRate(amount decimal.Decimal) decimal.Decimal {
	switch {
	case amount.LessThan(bracketMid):
		return rateSmall
	case amount.LessThanOrEqual(bracketLarge):
		return rateMid
	default:
		return rateLarge
	}
}

// PremiumRate is flat and replaces the bracket rate entirely.
func PremiumRate() decimal.Decimal {
	return ratePremium
}

func InstantSurcharge(tier domain.Tier) decimal.Decimal {
	if tier == domain.TierPremium {
		return surchargeInstantPremium
	}
	return surchargeInstantStandard
}

func ReferralDiscount() decimal.Decimal {
	return discountReferral
}

// InvestmentRate returns the package rate, adjusted down for premium-tier
// users on non-exclusive packages.
func InvestmentRate(tier domain.Tier, pkg domain.PackageTier) (decimal.Decimal, error) {
	rate, ok := investmentRates[pkg]
	if !ok {
		return decimal.Zero, fmt.Errorf("InvestmentRate: %q: %w", pkg, domain.ErrInvalidPackage)
	}
	if tier == domain.TierPremium && pkg != domain.PackageExclusive {
		rate = rate.Sub(investmentPremiumAdjustment)
	}
	return rate, nil
}
