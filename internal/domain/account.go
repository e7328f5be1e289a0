package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeUser     AccountType = "user"
	AccountTypePlatform AccountType = "platform"
)

type Account struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Currency    Currency
	AccountType AccountType
	Balance     decimal.Decimal
	Version     int64
	CreatedAt   time.Time
}
