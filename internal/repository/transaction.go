package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kestrelpay/fee-engine/internal/domain"
)

const recordColumns = `id, settlement_id, account_id, owner_id, counterparty_id, entry_type,
	category, amount, fee, currency, status, instant, balance_before, balance_after,
	failure_reason, created_at, completed_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, rec *domain.TransactionRecord) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transaction_records (
			id, settlement_id, account_id, owner_id, counterparty_id, entry_type,
			category, amount, fee, currency, status, instant, balance_before,
			balance_after, failure_reason, created_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		rec.ID, rec.SettlementID, rec.AccountID, rec.OwnerID, rec.CounterpartyID, rec.EntryType,
		rec.Category, rec.Amount, rec.Fee, rec.Currency, rec.Status, rec.Instant,
		rec.BalanceBefore, rec.BalanceAfter, rec.FailureReason, rec.CreatedAt, rec.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetBySettlementID(ctx context.Context, settlementID uuid.UUID) ([]domain.TransactionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM transaction_records
		WHERE settlement_id = $1 ORDER BY created_at, id`, settlementID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetBySettlementID: %w", err)
	}
	return collectRecords(rows, "GetBySettlementID")
}

// GetBySettlementIDForUpdate reads a settlement's records inside tx with row
// locks held, for status transitions and refunds.
func (r *TransactionRepository) GetBySettlementIDForUpdate(ctx context.Context, tx *sql.Tx, settlementID uuid.UUID) ([]domain.TransactionRecord, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM transaction_records
		WHERE settlement_id = $1 ORDER BY created_at, id FOR UPDATE`, settlementID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetBySettlementIDForUpdate: %w", err)
	}
	return collectRecords(rows, "GetBySettlementIDForUpdate")
}

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.TransactionRecord, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transaction_records WHERE account_id = $1`, accountID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByAccount: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM transaction_records
		WHERE account_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByAccount: %w", err)
	}
	records, err := collectRecords(rows, "ListByAccount")
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListBetween returns records created in [from, to), oldest first. The
// revenue aggregator feeds on this; it tolerates a slightly stale view, so
// no locks are taken.
func (r *TransactionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.TransactionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM transaction_records
		WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at`, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("ListBetween: %w", err)
	}
	return collectRecords(rows, "ListBetween")
}

// UpdateStatus applies the single allowed transition away from pending.
// Terminal records are never updated; amounts are immutable by schema.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, status domain.RecordStatus, failureReason *string, completedAt *time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE transaction_records
		 SET status = $1, failure_reason = $2, completed_at = $3
		 WHERE id = $4 AND status = $5`,
		status, failureReason, completedAt, id, domain.RecordStatusPending,
	)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateStatus: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateStatus: %w", domain.ErrRecordTerminal)
	}
	return nil
}

func collectRecords(rows *sql.Rows, op string) ([]domain.TransactionRecord, error) {
	defer rows.Close()

	var records []domain.TransactionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return records, nil
}

func scanRecord(s scanner) (*domain.TransactionRecord, error) {
	var rec domain.TransactionRecord
	err := s.Scan(
		&rec.ID, &rec.SettlementID, &rec.AccountID, &rec.OwnerID, &rec.CounterpartyID, &rec.EntryType,
		&rec.Category, &rec.Amount, &rec.Fee, &rec.Currency, &rec.Status, &rec.Instant,
		&rec.BalanceBefore, &rec.BalanceAfter, &rec.FailureReason, &rec.CreatedAt, &rec.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
