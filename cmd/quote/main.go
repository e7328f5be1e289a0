// Command quote prices a transfer from the command line without touching
// any ledger. Useful for eyeballing rate changes.
//
//	quote -amount 250 -category send -tier standard
//	quote -amount 100 -category send -from USD -to EUR -tier premium
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/kestrelpay/fee-engine/internal/fx"
	"github.com/kestrelpay/fee-engine/internal/logging"
	"github.com/kestrelpay/fee-engine/internal/pricing"
)

type output struct {
	Amount        string  `json:"amount"`
	Category      string  `json:"category"`
	Tier          string  `json:"tier"`
	Fee           string  `json:"fee"`
	Total         string  `json:"total"`
	EffectiveRate string  `json:"effective_rate"`
	ExchangeRate  *string `json:"exchange_rate,omitempty"`
	MarkupFee     *string `json:"markup_fee,omitempty"`
	Converted     *string `json:"converted_amount,omitempty"`
}

func main() {
	_ = godotenv.Load()

	var (
		amountStr = flag.String("amount", "", "transfer amount (required)")
		category  = flag.String("category", "send", "transaction category")
		tierStr   = flag.String("tier", "standard", "payer tier: standard or premium")
		from      = flag.String("from", "USD", "source currency")
		to        = flag.String("to", "", "destination currency (defaults to source)")
		instant   = flag.Bool("instant", false, "instant transfer speed")
		referral  = flag.Bool("referral", false, "referral discount applies")
		pkg       = flag.String("package", "", "investment package tier (investment only)")
		sandbox   = flag.Bool("sandbox-rates", false, "resolve unknown currencies to rate 1")
		logLevel  = flag.String("log-level", "warn", "log level")
	)
	flag.Parse()

	logging.Init("quote", *logLevel, "development")

	if *amountStr == "" {
		slog.Error("missing -amount")
		os.Exit(2)
	}
	amount, err := decimal.NewFromString(*amountStr)
	if err != nil {
		slog.Error("bad amount", "error", err)
		os.Exit(2)
	}

	tier := domain.Tier(*tierStr)
	if !tier.IsValid() {
		slog.Error("bad tier", "tier", *tierStr)
		os.Exit(2)
	}

	req := domain.TransferRequest{
		Amount:       amount,
		Category:     domain.Category(*category),
		FromCurrency: domain.Currency(*from),
		ToCurrency:   domain.Currency(*to),
		Instant:      *instant,
		Referral:     *referral,
	}

	var result *domain.FeeResult
	if req.Category == domain.CategoryInvestment {
		result, err = pricing.InvestmentFee(amount, tier, domain.PackageTier(*pkg))
	} else {
		result, err = pricing.Quote(req, tier)
	}
	if err != nil {
		slog.Error("pricing failed", "error", err)
		os.Exit(1)
	}

	out := output{
		Amount:        amount.StringFixed(2),
		Category:      string(req.Category),
		Tier:          string(tier),
		Fee:           result.Fee.StringFixed(2),
		Total:         result.TotalAmount.StringFixed(2),
		EffectiveRate: result.EffectiveRate.String(),
	}

	if req.CrossCurrency() {
		opts := []fx.Option{}
		if *sandbox {
			opts = append(opts, fx.WithSandboxRates())
		}
		conv, err := fx.NewConverter(opts...).Convert(req.FromCurrency, req.ToCurrency, amount, tier)
		if err != nil {
			slog.Error("conversion failed", "error", err)
			os.Exit(1)
		}
		rate := conv.AppliedRate.String()
		markup := conv.Fee.StringFixed(2)
		converted := conv.ConvertedAmount.StringFixed(2)
		out.ExchangeRate = &rate
		out.MarkupFee = &markup
		out.Converted = &converted
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		slog.Error("encode output", "error", err)
		os.Exit(1)
	}
}
