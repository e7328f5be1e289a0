package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// PlatformOwnerID owns the fee-collection account in every test database.
var PlatformOwnerID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func SeedUser(t *testing.T, db *sql.DB, email string, tier domain.Tier, referral bool) *domain.User {
	t.Helper()

	u := &domain.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      email,
		Tier:      tier,
		Referral:  referral,
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO users (id, email, name, tier, referral, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Name, u.Tier, u.Referral, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func SeedAccount(t *testing.T, db *sql.DB, ownerID uuid.UUID, currency domain.Currency, balance string) *domain.Account {
	t.Helper()

	a := &domain.Account{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Currency:    currency,
		AccountType: domain.AccountTypeUser,
		Balance:     decimal.RequireFromString(balance),
		Version:     0,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, owner_id, currency, account_type, balance, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.OwnerID, a.Currency, a.AccountType, a.Balance, a.Version, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed account %s/%s: %v", ownerID, currency, err)
	}
	return a
}

// SeedPlatformAccount creates the platform owner and its fee-collection
// account, starting at zero.
func SeedPlatformAccount(t *testing.T, db *sql.DB, currency domain.Currency) *domain.Account {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO users (id, email, name, tier, referral, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		PlatformOwnerID, "platform@kestrelpay.internal", "Platform", domain.TierStandard, false, time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("seed platform owner: %v", err)
	}

	a := &domain.Account{
		ID:          uuid.New(),
		OwnerID:     PlatformOwnerID,
		Currency:    currency,
		AccountType: domain.AccountTypePlatform,
		Balance:     decimal.Zero,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = db.Exec(
		`INSERT INTO accounts (id, owner_id, currency, account_type, balance, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.OwnerID, a.Currency, a.AccountType, a.Balance, a.Version, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed platform account: %v", err)
	}
	return a
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %s: %v", accountID, err)
	}
	return balance
}

func CountRecords(t *testing.T, db *sql.DB, settlementID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM transaction_records WHERE settlement_id = $1`, settlementID).Scan(&count)
	if err != nil {
		t.Fatalf("count records for settlement %s: %v", settlementID, err)
	}
	return count
}
