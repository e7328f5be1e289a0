package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/shopspring/decimal"
)

type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal, newVersion int64) error
}

type recordRepo interface {
	Create(ctx context.Context, tx *sql.Tx, rec *domain.TransactionRecord) error
	GetBySettlementID(ctx context.Context, settlementID uuid.UUID) ([]domain.TransactionRecord, error)
	GetBySettlementIDForUpdate(ctx context.Context, tx *sql.Tx, settlementID uuid.UUID) ([]domain.TransactionRecord, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, status domain.RecordStatus, failureReason *string, completedAt *time.Time) error
}

// Service posts settlements to the ledger. The platform account receiving
// fees is plain configuration, injected once at construction.
type Service struct {
	accounts          accountRepo
	records           recordRepo
	db                *sql.DB
	platformAccountID uuid.UUID
}

func NewService(accounts accountRepo, records recordRepo, db *sql.DB, platformAccountID uuid.UUID) *Service {
	return &Service{
		accounts:          accounts,
		records:           records,
		db:                db,
		platformAccountID: platformAccountID,
	}
}

func (s *Service) GetSettlement(ctx context.Context, settlementID uuid.UUID) ([]domain.TransactionRecord, error) {
	records, err := s.records.GetBySettlementID(ctx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("GetSettlement: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("GetSettlement: %w", domain.ErrNotFound)
	}
	return records, nil
}

// lockAccountsInOrder takes row locks in ascending id order so two
// settlements touching the same accounts in opposite directions cannot
// deadlock.
func lockAccountsInOrder(ctx context.Context, tx *sql.Tx, accounts accountRepo, ids ...uuid.UUID) (map[uuid.UUID]*domain.Account, error) {
	sorted := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			sorted = append(sorted, id)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	result := make(map[uuid.UUID]*domain.Account, len(sorted))
	for _, id := range sorted {
		acct, err := accounts.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("lockAccountsInOrder: %w", err)
		}
		result[id] = acct
	}
	return result, nil
}
