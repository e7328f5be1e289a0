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

// Refund reverses a completed settlement with new refund records; the
// originals are never touched. The sender gets back the full debited
// amount, fee included, which means the recipient and the platform account
// both give their credits up. A settle+refund cycle nets to zero for every
// party.
func (s *Service) Refund(ctx context.Context, settlementID uuid.UUID) ([]domain.TransactionRecord, error) {
	log := logging.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Refund: begin tx: %w", err)
	}
	defer tx.Rollback()

	originals, err := s.records.GetBySettlementIDForUpdate(ctx, tx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("Refund: %w", err)
	}
	if len(originals) == 0 {
		return nil, fmt.Errorf("Refund: %w", domain.ErrNotFound)
	}

	for _, rec := range originals {
		if rec.Category == domain.CategoryRefund {
			return nil, fmt.Errorf("Refund: %w", domain.ErrAlreadyRefunded)
		}
		if rec.Status == domain.RecordStatusPending {
			return nil, fmt.Errorf("Refund: %w", domain.ErrSettlementPending)
		}
		if rec.Status != domain.RecordStatusCompleted {
			return nil, fmt.Errorf("Refund: %w", domain.ErrRecordTerminal)
		}
	}

	ids := make([]uuid.UUID, 0, len(originals))
	for _, rec := range originals {
		ids = append(ids, rec.AccountID)
	}
	locked, err := lockAccountsInOrder(ctx, tx, s.accounts, ids...)
	if err != nil {
		return nil, fmt.Errorf("Refund: %w", err)
	}

	now := time.Now().UTC()
	refunds := make([]domain.TransactionRecord, 0, len(originals))

	for _, orig := range originals {
		acct := locked[orig.AccountID]

		// Reverse the delta the original record actually applied, not just
		// its face amount: the sender's debit included the fee.
		delta := orig.BalanceAfter.Sub(orig.BalanceBefore)
		newBalance := acct.Balance.Sub(delta)

		entryType := domain.EntryTypeCredit
		if orig.EntryType == domain.EntryTypeCredit {
			entryType = domain.EntryTypeDebit
		}

		refund := domain.TransactionRecord{
			ID:             uuid.New(),
			SettlementID:   settlementID,
			AccountID:      orig.AccountID,
			OwnerID:        orig.OwnerID,
			CounterpartyID: orig.CounterpartyID,
			EntryType:      entryType,
			Category:       domain.CategoryRefund,
			Amount:         delta.Abs(),
			Fee:            decimal.Zero,
			Currency:       orig.Currency,
			Status:         domain.RecordStatusCompleted,
			Instant:        orig.Instant,
			BalanceBefore:  acct.Balance,
			BalanceAfter:   newBalance,
			CreatedAt:      now,
			CompletedAt:    &now,
		}
		if err := s.records.Create(ctx, tx, &refund); err != nil {
			return nil, fmt.Errorf("Refund: record %s: %w", orig.ID, err)
		}
		refunds = append(refunds, refund)

		if err := s.accounts.UpdateBalance(ctx, tx, acct.ID, newBalance, acct.Version+1); err != nil {
			return nil, fmt.Errorf("Refund: update %s: %w", acct.ID, err)
		}
		acct.Balance = newBalance
		acct.Version++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Refund: commit: %w", err)
	}

	log.Info("settlement refunded", "settlement_id", settlementID, "records", len(refunds))
	return refunds, nil
}
