package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/kestrelpay/fee-engine/internal/repository"
	"github.com/kestrelpay/fee-engine/internal/testutil"
)

func TestAccountRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAccountRepository(db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", domain.TierStandard, false)

	acct := &domain.Account{
		ID:          uuid.New(),
		OwnerID:     owner.ID,
		Currency:    domain.CurrencyEUR,
		AccountType: domain.AccountTypeUser,
		Balance:     decimal.RequireFromString("125.50"),
		Version:     0,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, acct))

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, acct.ID, got.ID)
		assert.Equal(t, domain.CurrencyEUR, got.Currency)
		assert.True(t, got.Balance.Equal(decimal.RequireFromString("125.50")))
	})

	t.Run("get by id missing", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("get by owner and currency", func(t *testing.T) {
		got, err := repo.GetByOwnerAndCurrency(ctx, owner.ID, domain.CurrencyEUR)
		require.NoError(t, err)
		assert.Equal(t, acct.ID, got.ID)

		_, err = repo.GetByOwnerAndCurrency(ctx, owner.ID, domain.CurrencyJPY)
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("update balance bumps version", func(t *testing.T) {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		defer tx.Rollback()

		locked, err := repo.GetForUpdate(ctx, tx, acct.ID)
		require.NoError(t, err)

		err = repo.UpdateBalance(ctx, tx, acct.ID, decimal.RequireFromString("200.00"), locked.Version+1)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		got, err := repo.GetByID(ctx, acct.ID)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(decimal.RequireFromString("200.00")))
		assert.Equal(t, int64(1), got.Version)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		defer tx.Rollback()

		// Version is now 1; writing as if it were still 0 must fail.
		err = repo.UpdateBalance(ctx, tx, acct.ID, decimal.RequireFromString("999.00"), 1)
		require.ErrorIs(t, err, domain.ErrVersionConflict)
	})
}

func TestTransactionRepository_ListByAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", domain.TierStandard, false)
	acct := testutil.SeedAccount(t, db, owner.ID, domain.CurrencyUSD, "0.00")
	other := testutil.SeedAccount(t, db, owner.ID, domain.CurrencyEUR, "0.00")

	base := time.Now().UTC().Add(-time.Hour)
	seedRecord := func(accountID uuid.UUID, offset time.Duration) {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		defer tx.Rollback()

		rec := &domain.TransactionRecord{
			ID:            uuid.New(),
			SettlementID:  uuid.New(),
			AccountID:     accountID,
			OwnerID:       owner.ID,
			EntryType:     domain.EntryTypeDebit,
			Category:      domain.CategorySend,
			Amount:        decimal.RequireFromString("10.00"),
			Fee:           decimal.RequireFromString("1.50"),
			Currency:      domain.CurrencyUSD,
			Status:        domain.RecordStatusCompleted,
			BalanceBefore: decimal.Zero,
			BalanceAfter:  decimal.Zero,
			CreatedAt:     base.Add(offset),
		}
		require.NoError(t, repo.Create(ctx, tx, rec))
		require.NoError(t, tx.Commit())
	}

	for i := range 5 {
		seedRecord(acct.ID, time.Duration(i)*time.Minute)
	}
	seedRecord(other.ID, 0)

	records, total, err := repo.ListByAccount(ctx, acct.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, records, 2)
	// Newest first.
	assert.True(t, records[0].CreatedAt.After(records[1].CreatedAt))

	records, total, err = repo.ListByAccount(ctx, acct.ID, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, records, 1)

	between, err := repo.ListBetween(ctx, base.Add(time.Minute), base.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Len(t, between, 2)
}

func TestUserRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	standard := testutil.SeedUser(t, db, "standard@test.com", domain.TierStandard, false)
	premium := testutil.SeedUser(t, db, "premium@test.com", domain.TierPremium, true)

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, premium.ID)
		require.NoError(t, err)
		assert.Equal(t, "premium@test.com", got.Email)
		assert.Equal(t, domain.TierPremium, got.Tier)

		_, err = repo.GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("tier and referral lookups", func(t *testing.T) {
		tier, err := repo.GetTier(ctx, standard.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TierStandard, tier)

		referral, err := repo.GetReferralFlag(ctx, premium.ID)
		require.NoError(t, err)
		assert.True(t, referral)
	})

	t.Run("list", func(t *testing.T) {
		users, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})
}
