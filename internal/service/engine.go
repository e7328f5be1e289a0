package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/kestrelpay/fee-engine/internal/fx"
	"github.com/kestrelpay/fee-engine/internal/ledger"
	"github.com/kestrelpay/fee-engine/internal/logging"
	"github.com/kestrelpay/fee-engine/internal/pricing"
)

type userRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type settler interface {
	SettleTransfer(ctx context.Context, req ledger.SettlementRequest) ([]domain.TransactionRecord, error)
}

// Engine is the request-to-settlement pipeline: resolve the payer's tier,
// price the transfer, convert if cross-currency, hand off to the ledger.
type Engine struct {
	users     userRepository
	converter *fx.Converter
	ledger    settler
}

func NewEngine(users userRepository, conv *fx.Converter, l settler) *Engine {
	return &Engine{users: users, converter: conv, ledger: l}
}

// Price computes the full fee result for a transfer request without
// touching any balance.
func (e *Engine) Price(ctx context.Context, payerID uuid.UUID, req domain.TransferRequest) (*domain.FeeResult, error) {
	payer, err := e.users.GetByID(ctx, payerID)
	if err != nil {
		return nil, fmt.Errorf("Price: %w", err)
	}

	// The referral discount applies whether the flag rides on the request
	// or on the payer's profile.
	if payer.Referral {
		req.Referral = true
	}

	result, err := pricing.Quote(req, payer.Tier)
	if err != nil {
		return nil, fmt.Errorf("Price: %w", err)
	}

	if req.CrossCurrency() {
		conv, err := e.converter.Convert(req.FromCurrency, req.ToCurrency, req.Amount, payer.Tier)
		if err != nil {
			return nil, fmt.Errorf("Price: %w", err)
		}
		rate := conv.AppliedRate
		markup := conv.Fee
		result.ExchangeRate = &rate
		result.MarkupFee = &markup
	}

	return result, nil
}

// PriceInvestment prices an investment purchase for the payer's tier and
// the chosen package.
func (e *Engine) PriceInvestment(ctx context.Context, payerID uuid.UUID, req domain.TransferRequest, pkg domain.PackageTier) (*domain.FeeResult, error) {
	payer, err := e.users.GetByID(ctx, payerID)
	if err != nil {
		return nil, fmt.Errorf("PriceInvestment: %w", err)
	}
	result, err := pricing.InvestmentFee(req.Amount, payer.Tier, pkg)
	if err != nil {
		return nil, fmt.Errorf("PriceInvestment: %w", err)
	}
	return result, nil
}

// Transfer prices a request and settles it in one call.
func (e *Engine) Transfer(ctx context.Context, payerID uuid.UUID, req domain.TransferRequest, senderAccountID uuid.UUID, recipientAccountID *uuid.UUID) ([]domain.TransactionRecord, error) {
	log := logging.FromContext(ctx)

	result, err := e.Price(ctx, payerID, req)
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	records, err := e.ledger.SettleTransfer(ctx, ledger.SettlementRequest{
		Request:            req,
		Fee:                result,
		SenderAccountID:    senderAccountID,
		RecipientAccountID: recipientAccountID,
	})
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	log.Info("transfer settled",
		"payer", payerID,
		"category", req.Category,
		"amount", req.Amount,
		"fee", result.Fee,
		"total", result.TotalAmount,
	)

	return records, nil
}
