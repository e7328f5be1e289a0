package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/kestrelpay/fee-engine/internal/logging"
)

// CompleteSettlement clears a pending settlement. Balances were applied at
// posting time; this only flips the records' status, once.
func (s *Service) CompleteSettlement(ctx context.Context, settlementID uuid.UUID) error {
	log := logging.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("CompleteSettlement: begin tx: %w", err)
	}
	defer tx.Rollback()

	records, err := s.records.GetBySettlementIDForUpdate(ctx, tx, settlementID)
	if err != nil {
		return fmt.Errorf("CompleteSettlement: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("CompleteSettlement: %w", domain.ErrNotFound)
	}
	if records[0].Status.Terminal() {
		return fmt.Errorf("CompleteSettlement: %w", domain.ErrRecordTerminal)
	}

	now := time.Now().UTC()
	for _, rec := range records {
		if err := s.records.UpdateStatus(ctx, tx, rec.ID, domain.RecordStatusCompleted, nil, &now); err != nil {
			return fmt.Errorf("CompleteSettlement: record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("CompleteSettlement: commit: %w", err)
	}

	log.Info("settlement cleared", "settlement_id", settlementID)
	return nil
}

// FailSettlement fails a pending settlement and returns the money: every
// balance delta the posting applied is reversed in the same transaction as
// the status flip.
func (s *Service) FailSettlement(ctx context.Context, settlementID uuid.UUID, reason string) error {
	log := logging.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("FailSettlement: begin tx: %w", err)
	}
	defer tx.Rollback()

	records, err := s.records.GetBySettlementIDForUpdate(ctx, tx, settlementID)
	if err != nil {
		return fmt.Errorf("FailSettlement: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("FailSettlement: %w", domain.ErrNotFound)
	}
	if records[0].Status.Terminal() {
		return fmt.Errorf("FailSettlement: %w", domain.ErrRecordTerminal)
	}

	ids := make([]uuid.UUID, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.AccountID)
	}
	locked, err := lockAccountsInOrder(ctx, tx, s.accounts, ids...)
	if err != nil {
		return fmt.Errorf("FailSettlement: %w", err)
	}

	for _, rec := range records {
		if err := s.records.UpdateStatus(ctx, tx, rec.ID, domain.RecordStatusFailed, &reason, nil); err != nil {
			return fmt.Errorf("FailSettlement: record %s: %w", rec.ID, err)
		}

		acct := locked[rec.AccountID]
		delta := rec.BalanceAfter.Sub(rec.BalanceBefore)
		if err := s.accounts.UpdateBalance(ctx, tx, acct.ID, acct.Balance.Sub(delta), acct.Version+1); err != nil {
			return fmt.Errorf("FailSettlement: reverse %s: %w", acct.ID, err)
		}
		acct.Balance = acct.Balance.Sub(delta)
		acct.Version++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("FailSettlement: commit: %w", err)
	}

	log.Info("settlement failed", "settlement_id", settlementID, "reason", reason)
	return nil
}
