package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kestrelpay/fee-engine/internal/domain"
)

const userColumns = `id, email, name, tier, referral, created_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return u, nil
}

// GetTier is the fee engine's user boundary: which rate bracket applies.
func (r *UserRepository) GetTier(ctx context.Context, id uuid.UUID) (domain.Tier, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("GetTier: %w", err)
	}
	return u.Tier, nil
}

func (r *UserRepository) GetReferralFlag(ctx context.Context, id uuid.UUID) (bool, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("GetReferralFlag: %w", err)
	}
	return u.Referral, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return users, nil
}

func scanUser(s scanner) (*domain.User, error) {
	var u domain.User
	err := s.Scan(&u.ID, &u.Email, &u.Name, &u.Tier, &u.Referral, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
