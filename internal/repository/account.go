package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, owner_id, currency, account_type, balance, version, created_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, owner_id, currency, account_type, balance, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		account.ID, account.OwnerID, account.Currency, account.AccountType,
		account.Balance, account.Version, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currency domain.Currency) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE owner_id = $1 AND currency = $2`,
		ownerID, currency,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByOwnerAndCurrency: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetByOwnerAndCurrency: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal, newVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1, version = $2 WHERE id = $3 AND version = $4`,
		newBalance, newVersion, id, newVersion-1,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrVersionConflict)
	}
	return nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.ID, &a.OwnerID, &a.Currency, &a.AccountType,
		&a.Balance, &a.Version, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
