package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryTypeDebit  EntryType = "debit"
	EntryTypeCredit EntryType = "credit"
)

type RecordStatus string

const (
	RecordStatusPending   RecordStatus = "pending"
	RecordStatusCompleted RecordStatus = "completed"
	RecordStatusFailed    RecordStatus = "failed"
)

// Terminal reports whether no further status transition is allowed.
// The only permitted transitions are pending -> completed and
// pending -> failed; amounts are immutable from creation.
func (s RecordStatus) Terminal() bool {
	return s != RecordStatusPending
}

// TransactionRecord is one party's leg of a settlement, append-only.
// SettlementID groups the sender debit, recipient credit, and platform fee
// credit written by a single settlement.
type TransactionRecord struct {
	ID             uuid.UUID
	SettlementID   uuid.UUID
	AccountID      uuid.UUID
	OwnerID        uuid.UUID
	CounterpartyID *uuid.UUID
	EntryType      EntryType
	Category       Category
	Amount         decimal.Decimal
	Fee            decimal.Decimal
	Currency       Currency
	Status         RecordStatus
	Instant        bool
	BalanceBefore  decimal.Decimal
	BalanceAfter   decimal.Decimal
	FailureReason  *string
	CreatedAt      time.Time
	CompletedAt    *time.Time
}
