package revenue

import (
	"fmt"
	"time"

	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/kestrelpay/fee-engine/internal/pricing"
	"github.com/shopspring/decimal"
)

type Params struct {
	// Monthly premium subscription price, for the projection term.
	SubscriptionPrice decimal.Decimal
}

type CategoryStats struct {
	Count       int
	TotalAmount decimal.Decimal
	TotalFees   decimal.Decimal
}

// Summary is recomputed on demand from transaction history; it has no
// lifecycle of its own.
type Summary struct {
	AsOf             time.Time
	TransactionCount int
	TotalFees        decimal.Decimal

	ByCategory  map[domain.Category]CategoryStats
	FeesByTier  map[domain.Tier]decimal.Decimal
	FeesByDay   map[string]decimal.Decimal
	FeesByWeek  map[string]decimal.Decimal
	FeesByMonth map[string]decimal.Decimal

	AverageFeePerTransaction decimal.Decimal

	TotalUsers                 int
	PremiumUsers               int
	PremiumConversionRate      decimal.Decimal
	MonthlySubscriptionRevenue decimal.Decimal

	// Naive linear extrapolation of fees collected so far plus a year of
	// subscriptions at the current premium count. An estimate, nothing more.
	ProjectedAnnualRevenue decimal.Decimal

	// Counterfactual: fees standard-tier payers would have saved at the
	// premium rate. What the premium upsell is worth.
	RevenueLostToStandard decimal.Decimal
}

// Summarize rolls transaction history up into revenue statistics. Pure:
// inputs are never mutated and the result is a deterministic function of
// (records, users, asOf, params).
func Summarize(records []domain.TransactionRecord, users []domain.User, asOf time.Time, p Params) *Summary {
	sum := &Summary{
		AsOf:        asOf,
		ByCategory:  make(map[domain.Category]CategoryStats),
		FeesByTier:  make(map[domain.Tier]decimal.Decimal),
		FeesByDay:   make(map[string]decimal.Decimal),
		FeesByWeek:  make(map[string]decimal.Decimal),
		FeesByMonth: make(map[string]decimal.Decimal),

		TotalFees:                decimal.Zero,
		AverageFeePerTransaction: decimal.Zero,
		PremiumConversionRate:    decimal.Zero,
		RevenueLostToStandard:    decimal.Zero,
	}

	tierByUser := make(map[string]domain.Tier, len(users))
	referralByUser := make(map[string]bool, len(users))
	for _, u := range users {
		tierByUser[u.ID.String()] = u.Tier
		referralByUser[u.ID.String()] = u.Referral
		sum.TotalUsers++
		if u.Tier == domain.TierPremium {
			sum.PremiumUsers++
		}
	}

	for _, rec := range records {
		// Pending settlements count: their fee is already held by the
		// platform account, and a failed clearing flips the records to
		// failed, which removes them from the next rollup.
		if rec.Category == domain.CategoryRefund || rec.Status == domain.RecordStatusFailed {
			continue
		}

		if rec.EntryType == domain.EntryTypeDebit {
			sum.TransactionCount++
			stats := sum.ByCategory[rec.Category]
			stats.Count++
			stats.TotalAmount = stats.TotalAmount.Add(rec.Amount)
			stats.TotalFees = stats.TotalFees.Add(rec.Fee)
			sum.ByCategory[rec.Category] = stats
		}

		if rec.Fee.IsZero() {
			continue
		}

		sum.TotalFees = sum.TotalFees.Add(rec.Fee)

		tier := tierByUser[rec.OwnerID.String()]
		if tier == "" {
			tier = domain.TierStandard
		}
		sum.FeesByTier[tier] = sum.FeesByTier[tier].Add(rec.Fee)

		day := rec.CreatedAt.UTC().Format("2006-01-02")
		year, week := rec.CreatedAt.UTC().ISOWeek()
		weekKey := fmt.Sprintf("%d-W%02d", year, week)
		month := rec.CreatedAt.UTC().Format("2006-01")
		sum.FeesByDay[day] = sum.FeesByDay[day].Add(rec.Fee)
		sum.FeesByWeek[weekKey] = sum.FeesByWeek[weekKey].Add(rec.Fee)
		sum.FeesByMonth[month] = sum.FeesByMonth[month].Add(rec.Fee)

		if tier == domain.TierStandard {
			sum.RevenueLostToStandard = sum.RevenueLostToStandard.Add(
				premiumSaving(rec, referralByUser[rec.OwnerID.String()]),
			)
		}
	}

	if sum.TransactionCount > 0 {
		sum.AverageFeePerTransaction = sum.TotalFees.
			Div(decimal.NewFromInt(int64(sum.TransactionCount))).Round(2)
	}

	if sum.TotalUsers > 0 {
		sum.PremiumConversionRate = decimal.NewFromInt(int64(sum.PremiumUsers)).
			Div(decimal.NewFromInt(int64(sum.TotalUsers))).
			Mul(decimal.NewFromInt(100)).Round(2)
	}

	sum.MonthlySubscriptionRevenue = p.SubscriptionPrice.
		Mul(decimal.NewFromInt(int64(sum.PremiumUsers))).Round(2)

	dayOfYear := decimal.NewFromInt(int64(asOf.YearDay()))
	sum.ProjectedAnnualRevenue = sum.TotalFees.
		Div(dayOfYear).
		Mul(decimal.NewFromInt(365)).
		Add(sum.MonthlySubscriptionRevenue.Mul(decimal.NewFromInt(12))).
		Round(2)

	return sum
}

// premiumSaving re-prices one standard-tier fee with the tier forced to
// premium and returns the difference. Investment records are skipped: their
// package tier is not recoverable from the ledger record.
func premiumSaving(rec domain.TransactionRecord, referral bool) decimal.Decimal {
	if rec.Category == domain.CategoryInvestment {
		return decimal.Zero
	}

	counterfactual, err := pricing.TransactionFee(rec.Amount, pricing.FeeParams{
		Tier:     domain.TierPremium,
		Category: rec.Category,
		Instant:  rec.Instant,
		Referral: referral,
	})
	if err != nil {
		return decimal.Zero
	}

	saving := rec.Fee.Sub(counterfactual.Fee)
	if saving.IsNegative() {
		return decimal.Zero
	}
	return saving
}
