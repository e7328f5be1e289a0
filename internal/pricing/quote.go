package pricing

import (
	"fmt"

	"github.com/kestrelpay/fee-engine/internal/domain"
)

type quoteFunc func(req domain.TransferRequest, tier domain.Tier) (*domain.FeeResult, error)

// Category-keyed dispatch. Investment is absent on purpose: it carries a
// package tier and is priced through InvestmentFee. Refund records are
// created by the ledger, never quoted.
var quoters = map[domain.Category]quoteFunc{
	domain.CategorySend:            quoteFlagged,
	domain.CategoryInstantTransfer: quoteInstant,
	domain.CategoryTrade:           quoteFlagged,
	domain.CategoryExchange:        quoteFlagged,
	domain.CategoryCardPurchase:    quoteFlagged,
	domain.CategoryMining:          quoteFlagged,
}

// Quote prices a transfer request by its category.
func Quote(req domain.TransferRequest, tier domain.Tier) (*domain.FeeResult, error) {
	q, ok := quoters[req.Category]
	if !ok {
		return nil, fmt.Errorf("Quote: %q: %w", req.Category, domain.ErrInvalidCategory)
	}
	return q(req, tier)
}

func quoteFlagged(req domain.TransferRequest, tier domain.Tier) (*domain.FeeResult, error) {
	return TransactionFee(req.Amount, FeeParams{
		Tier:     tier,
		Category: req.Category,
		Instant:  req.Instant,
		Referral: req.Referral,
	})
}

// Instant transfers carry the surcharge regardless of the request flag.
func quoteInstant(req domain.TransferRequest, tier domain.Tier) (*domain.FeeResult, error) {
	return TransactionFee(req.Amount, FeeParams{
		Tier:     tier,
		Category: req.Category,
		Instant:  true,
		Referral: req.Referral,
	})
}
