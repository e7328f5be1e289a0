package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrUnknownCurrency   = errors.New("currency not in rate table")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountNotFound   = errors.New("account not found")
	ErrCurrencyMismatch  = errors.New("account currency does not match settlement currency")
	ErrInvalidAccount    = errors.New("invalid settlement account")
	ErrInvalidCategory   = errors.New("invalid transaction category")
	ErrInvalidPackage    = errors.New("invalid investment package")
	ErrRecordTerminal    = errors.New("record already in terminal state")
	ErrSettlementPending = errors.New("settlement has not cleared")
	ErrAlreadyRefunded   = errors.New("settlement already refunded")
	ErrVersionConflict   = errors.New("optimistic lock conflict")
)
