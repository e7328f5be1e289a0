package domain

type Category string

const (
	CategorySend            Category = "send"
	CategoryInstantTransfer Category = "instant_transfer"
	CategoryTrade           Category = "trade"
	CategoryExchange        Category = "exchange"
	CategoryCardPurchase    Category = "card_purchase"
	CategoryMining          Category = "mining"
	CategoryInvestment      Category = "investment"
	CategoryRefund          Category = "refund"
)

func (c Category) IsValid() bool {
	switch c {
	case CategorySend, CategoryInstantTransfer, CategoryTrade, CategoryExchange,
		CategoryCardPurchase, CategoryMining, CategoryInvestment, CategoryRefund:
		return true
	}
	return false
}

// FeeDeducted reports whether the fee comes out of the proceeds
// (total = amount - fee) rather than on top (total = amount + fee).
// Trade and mining payouts deduct; everything else charges the sender.
func (c Category) FeeDeducted() bool {
	return c == CategoryTrade || c == CategoryMining
}

type PackageTier string

const (
	PackageStandard  PackageTier = "standard"
	PackagePremium   PackageTier = "premium"
	PackageExclusive PackageTier = "exclusive"
)

func (p PackageTier) IsValid() bool {
	return p == PackageStandard || p == PackagePremium || p == PackageExclusive
}
