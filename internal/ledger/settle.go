package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/kestrelpay/fee-engine/internal/logging"
	"github.com/shopspring/decimal"
)

// SettlementRequest binds a priced transfer to the accounts it moves money
// between. RecipientAccountID is nil for outbound transfers that leave the
// platform.
type SettlementRequest struct {
	Request            domain.TransferRequest
	Fee                *domain.FeeResult
	SenderAccountID    uuid.UUID
	RecipientAccountID *uuid.UUID
}

// SettleTransfer applies a priced transfer as balance deltas across sender,
// recipient, and the platform account, and writes one transaction record
// per affected party. All deltas land in a single database transaction:
// either the whole settlement is durable or none of it is.
//
// Same-currency settlements complete immediately. Cross-currency ones post
// pending and clear through CompleteSettlement once the counterparty rail
// confirms.
func (s *Service) SettleTransfer(ctx context.Context, req SettlementRequest) ([]domain.TransactionRecord, error) {
	log := logging.FromContext(ctx)

	if err := validateSettlement(req); err != nil {
		return nil, fmt.Errorf("SettleTransfer: %w", err)
	}
	if err := s.validateAccountIDs(req); err != nil {
		return nil, fmt.Errorf("SettleTransfer: %w", err)
	}

	amount := req.Request.Amount.Round(2)
	fee := req.Fee.Fee

	// Trade/mining proceeds carry the fee on the recipient side; everything
	// else charges the sender on top of the principal.
	feeDeducted := req.Request.Category.FeeDeducted()

	senderDebit := amount.Add(fee)
	recipientCredit := amount
	if feeDeducted {
		senderDebit = amount
		recipientCredit = amount.Sub(fee)
	}

	lockIDs := []uuid.UUID{req.SenderAccountID, s.platformAccountID}
	if req.RecipientAccountID != nil {
		lockIDs = append(lockIDs, *req.RecipientAccountID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("SettleTransfer: begin tx: %w", err)
	}
	defer tx.Rollback()

	locked, err := lockAccountsInOrder(ctx, tx, s.accounts, lockIDs...)
	if err != nil {
		return nil, fmt.Errorf("SettleTransfer: %w", err)
	}

	sender := locked[req.SenderAccountID]
	platform := locked[s.platformAccountID]
	var recipient *domain.Account
	if req.RecipientAccountID != nil {
		recipient = locked[*req.RecipientAccountID]
	}

	// Every leg of a settlement, the platform fee credit included, is
	// denominated in the source currency.
	if sender.Currency != req.Request.FromCurrency {
		return nil, fmt.Errorf("SettleTransfer: sender account: %w", domain.ErrCurrencyMismatch)
	}
	if platform.Currency != req.Request.FromCurrency {
		return nil, fmt.Errorf("SettleTransfer: platform account: %w", domain.ErrCurrencyMismatch)
	}
	if recipient != nil && recipient.Currency != req.Request.FromCurrency {
		return nil, fmt.Errorf("SettleTransfer: recipient account: %w", domain.ErrCurrencyMismatch)
	}

	if sender.Balance.LessThan(senderDebit) {
		return nil, fmt.Errorf("SettleTransfer: %w", domain.ErrInsufficientFunds)
	}

	now := time.Now().UTC()
	status := domain.RecordStatusCompleted
	var completedAt *time.Time
	if req.Request.CrossCurrency() {
		status = domain.RecordStatusPending
	} else {
		completedAt = &now
	}

	settlementID := uuid.New()
	records := s.buildRecords(req, settlementID, sender, recipient, platform,
		amount, fee, senderDebit, recipientCredit, status, now, completedAt)

	for i := range records {
		if err := s.records.Create(ctx, tx, &records[i]); err != nil {
			return nil, fmt.Errorf("SettleTransfer: record %s: %w", records[i].EntryType, err)
		}
	}

	if err := s.accounts.UpdateBalance(ctx, tx, sender.ID, sender.Balance.Sub(senderDebit), sender.Version+1); err != nil {
		return nil, fmt.Errorf("SettleTransfer: update sender: %w", err)
	}
	if recipient != nil {
		if err := s.accounts.UpdateBalance(ctx, tx, recipient.ID, recipient.Balance.Add(recipientCredit), recipient.Version+1); err != nil {
			return nil, fmt.Errorf("SettleTransfer: update recipient: %w", err)
		}
	}
	if fee.IsPositive() {
		if err := s.accounts.UpdateBalance(ctx, tx, platform.ID, platform.Balance.Add(fee), platform.Version+1); err != nil {
			return nil, fmt.Errorf("SettleTransfer: update platform: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("SettleTransfer: commit: %w", err)
	}

	log.Info("settlement posted",
		"settlement_id", settlementID,
		"category", req.Request.Category,
		"status", status,
		"amount", amount,
		"fee", fee,
		"sender_account", sender.ID,
	)

	return records, nil
}

func validateSettlement(req SettlementRequest) error {
	if !req.Request.Category.IsValid() || req.Request.Category == domain.CategoryRefund {
		return fmt.Errorf("validateSettlement: %q: %w", req.Request.Category, domain.ErrInvalidCategory)
	}
	if req.Request.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("validateSettlement: %w", domain.ErrInvalidAmount)
	}
	if req.Fee == nil || req.Fee.Fee.IsNegative() {
		return fmt.Errorf("validateSettlement: fee: %w", domain.ErrInvalidAmount)
	}
	// Cross-currency transfers leave the platform through a clearing rail;
	// an internal recipient would be credited unconverted source units.
	if req.Request.CrossCurrency() && req.RecipientAccountID != nil {
		return fmt.Errorf("validateSettlement: internal recipient: %w", domain.ErrCurrencyMismatch)
	}
	return nil
}

// validateAccountIDs requires sender, recipient, and platform to be three
// distinct accounts. An aliased account would take two balance writes in
// one settlement and surface as a version conflict.
func (s *Service) validateAccountIDs(req SettlementRequest) error {
	if req.SenderAccountID == s.platformAccountID {
		return fmt.Errorf("validateAccountIDs: sender is platform: %w", domain.ErrInvalidAccount)
	}
	if req.RecipientAccountID != nil {
		if *req.RecipientAccountID == req.SenderAccountID {
			return fmt.Errorf("validateAccountIDs: recipient is sender: %w", domain.ErrInvalidAccount)
		}
		if *req.RecipientAccountID == s.platformAccountID {
			return fmt.Errorf("validateAccountIDs: recipient is platform: %w", domain.ErrInvalidAccount)
		}
	}
	return nil
}

func (s *Service) buildRecords(
	req SettlementRequest,
	settlementID uuid.UUID,
	sender, recipient, platform *domain.Account,
	amount, fee, senderDebit, recipientCredit decimal.Decimal,
	status domain.RecordStatus,
	now time.Time,
	completedAt *time.Time,
) []domain.TransactionRecord {
	feeDeducted := req.Request.Category.FeeDeducted()

	senderFee := fee
	recipientFee := decimal.Zero
	if feeDeducted {
		senderFee = decimal.Zero
		recipientFee = fee
	}

	counterparty := platform.ID
	if recipient != nil {
		counterparty = recipient.ID
	}

	records := []domain.TransactionRecord{{
		ID:             uuid.New(),
		SettlementID:   settlementID,
		AccountID:      sender.ID,
		OwnerID:        sender.OwnerID,
		CounterpartyID: &counterparty,
		EntryType:      domain.EntryTypeDebit,
		Category:       req.Request.Category,
		Amount:         amount,
		Fee:            senderFee,
		Currency:       req.Request.FromCurrency,
		Status:         status,
		Instant:        req.Request.Instant,
		BalanceBefore:  sender.Balance,
		BalanceAfter:   sender.Balance.Sub(senderDebit),
		CreatedAt:      now,
		CompletedAt:    completedAt,
	}}

	if recipient != nil {
		senderID := sender.ID
		records = append(records, domain.TransactionRecord{
			ID:             uuid.New(),
			SettlementID:   settlementID,
			AccountID:      recipient.ID,
			OwnerID:        recipient.OwnerID,
			CounterpartyID: &senderID,
			EntryType:      domain.EntryTypeCredit,
			Category:       req.Request.Category,
			Amount:         amount,
			Fee:            recipientFee,
			Currency:       req.Request.FromCurrency,
			Status:         status,
			Instant:        req.Request.Instant,
			BalanceBefore:  recipient.Balance,
			BalanceAfter:   recipient.Balance.Add(recipientCredit),
			CreatedAt:      now,
			CompletedAt:    completedAt,
		})
	}

	if fee.IsPositive() {
		senderID := sender.ID
		records = append(records, domain.TransactionRecord{
			ID:             uuid.New(),
			SettlementID:   settlementID,
			AccountID:      platform.ID,
			OwnerID:        platform.OwnerID,
			CounterpartyID: &senderID,
			EntryType:      domain.EntryTypeCredit,
			Category:       req.Request.Category,
			Amount:         fee,
			Currency:       req.Request.FromCurrency,
			Status:         status,
			Instant:        req.Request.Instant,
			BalanceBefore:  platform.Balance,
			BalanceAfter:   platform.Balance.Add(fee),
			CreatedAt:      now,
			CompletedAt:    completedAt,
		})
	}

	return records
}
