package pricing

import (
	"testing"

	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTransactionFee(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		params   FeeParams
		wantFee  string
		wantTot  string
		wantRate string
		wantErr  error
	}{
		{
			name:     "standard 250 send",
			amount:   "250",
			params:   FeeParams{Tier: domain.TierStandard, Category: domain.CategorySend},
			wantFee:  "32.50",
			wantTot:  "282.50",
			wantRate: "0.13",
		},
		{
			name:     "premium 250 send",
			amount:   "250",
			params:   FeeParams{Tier: domain.TierPremium, Category: domain.CategorySend},
			wantFee:  "20.00",
			wantTot:  "270.00",
			wantRate: "0.08",
		},
		{
			name:     "standard 100 instant",
			amount:   "100",
			params:   FeeParams{Tier: domain.TierStandard, Category: domain.CategorySend, Instant: true},
			wantFee:  "15.00",
			wantTot:  "115.00",
			wantRate: "0.15",
		},
		{
			// Discount applies to the base rate before the surcharge:
			// (0.10 - 0.01) + 0.02, not 0.10 + 0.02 - 0.01 applied to
			// anything else.
			name:     "standard 1500 referral instant",
			amount:   "1500",
			params:   FeeParams{Tier: domain.TierStandard, Category: domain.CategorySend, Instant: true, Referral: true},
			wantFee:  "16.50",
			wantTot:  "1516.50",
			wantRate: "0.11",
		},
		{
			name:     "premium referral instant",
			amount:   "100",
			params:   FeeParams{Tier: domain.TierPremium, Category: domain.CategorySend, Instant: true, Referral: true},
			wantFee:  "8.00",
			wantTot:  "108.00",
			wantRate: "0.08",
		},
		{
			name:     "premium ignores brackets entirely",
			amount:   "50",
			params:   FeeParams{Tier: domain.TierPremium, Category: domain.CategorySend},
			wantFee:  "4.00",
			wantTot:  "54.00",
			wantRate: "0.08",
		},
		{
			name:     "trade fee deducted from proceeds",
			amount:   "250",
			params:   FeeParams{Tier: domain.TierStandard, Category: domain.CategoryTrade},
			wantFee:  "32.50",
			wantTot:  "217.50",
			wantRate: "0.13",
		},
		{
			name:     "mining payout deducted",
			amount:   "1200",
			params:   FeeParams{Tier: domain.TierStandard, Category: domain.CategoryMining},
			wantFee:  "120.00",
			wantTot:  "1080.00",
			wantRate: "0.1",
		},
		{
			name:    "zero amount",
			amount:  "0",
			params:  FeeParams{Tier: domain.TierStandard, Category: domain.CategorySend},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			amount:  "-10",
			params:  FeeParams{Tier: domain.TierStandard, Category: domain.CategorySend},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TransactionFee(amt(tc.amount), tc.params)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, got.Fee.Equal(amt(tc.wantFee)), "fee: got %s, want %s", got.Fee, tc.wantFee)
			assert.True(t, got.TotalAmount.Equal(amt(tc.wantTot)), "total: got %s, want %s", got.TotalAmount, tc.wantTot)
			assert.True(t, got.EffectiveRate.Equal(amt(tc.wantRate)), "rate: got %s, want %s", got.EffectiveRate, tc.wantRate)
		})
	}
}

func TestTransactionFeeDeterministic(t *testing.T) {
	params := FeeParams{Tier: domain.TierStandard, Category: domain.CategorySend, Instant: true, Referral: true}

	first, err := TransactionFee(amt("873.21"), params)
	require.NoError(t, err)
	second, err := TransactionFee(amt("873.21"), params)
	require.NoError(t, err)

	assert.True(t, first.Fee.Equal(second.Fee))
	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	assert.True(t, first.EffectiveRate.Equal(second.EffectiveRate))
}

func TestTransactionFeeNeverNegative(t *testing.T) {
	amounts := []string{"0.01", "1", "99.99", "100", "999.99", "1000", "1000.01", "250000"}
	tiers := []domain.Tier{domain.TierStandard, domain.TierPremium}

	for _, a := range amounts {
		for _, tier := range tiers {
			for _, instant := range []bool{false, true} {
				for _, referral := range []bool{false, true} {
					got, err := TransactionFee(amt(a), FeeParams{
						Tier: tier, Category: domain.CategorySend,
						Instant: instant, Referral: referral,
					})
					require.NoError(t, err)
					assert.False(t, got.Fee.IsNegative(),
						"fee negative for amount=%s tier=%s instant=%v referral=%v", a, tier, instant, referral)
					assert.False(t, got.EffectiveRate.IsNegative(),
						"rate negative for amount=%s tier=%s instant=%v referral=%v", a, tier, instant, referral)
				}
			}
		}
	}
}

func TestInvestmentFee(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		tier    domain.Tier
		pkg     domain.PackageTier
		wantFee string
		wantErr error
	}{
		{name: "standard package", amount: "1000", tier: domain.TierStandard, pkg: domain.PackageStandard, wantFee: "130.00"},
		{name: "premium user standard package", amount: "1000", tier: domain.TierPremium, pkg: domain.PackageStandard, wantFee: "110.00"},
		{name: "exclusive package", amount: "1000", tier: domain.TierPremium, pkg: domain.PackageExclusive, wantFee: "200.00"},
		{name: "zero amount", amount: "0", tier: domain.TierStandard, pkg: domain.PackageStandard, wantErr: domain.ErrInvalidAmount},
		{name: "bad package", amount: "100", tier: domain.TierStandard, pkg: domain.PackageTier("gold"), wantErr: domain.ErrInvalidPackage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := InvestmentFee(amt(tc.amount), tc.tier, tc.pkg)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Fee.Equal(amt(tc.wantFee)), "fee: got %s, want %s", got.Fee, tc.wantFee)
		})
	}
}

func TestQuoteDispatch(t *testing.T) {
	req := domain.TransferRequest{
		Amount:       amt("100"),
		Category:     domain.CategoryInstantTransfer,
		FromCurrency: domain.CurrencyUSD,
	}

	// instant_transfer carries the surcharge even when the flag is unset.
	got, err := Quote(req, domain.TierStandard)
	require.NoError(t, err)
	assert.True(t, got.Fee.Equal(amt("15.00")), "fee: got %s", got.Fee)

	for _, category := range []domain.Category{domain.CategoryInvestment, domain.CategoryRefund, domain.Category("loan")} {
		req.Category = category
		_, err := Quote(req, domain.TierStandard)
		require.ErrorIs(t, err, domain.ErrInvalidCategory, "category %s", category)
	}
}
