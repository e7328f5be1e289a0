package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kestrelpay/fee-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func validFeeResult() *domain.FeeResult {
	return &domain.FeeResult{
		Fee:         decimal.RequireFromString("32.50"),
		TotalAmount: decimal.RequireFromString("282.50"),
	}
}

func TestValidateSettlement(t *testing.T) {
	recipient := uuid.New()

	tests := []struct {
		name    string
		req     SettlementRequest
		wantErr error
	}{
		{
			name: "valid send",
			req: SettlementRequest{
				Request: domain.TransferRequest{
					Amount:       decimal.RequireFromString("250"),
					Category:     domain.CategorySend,
					FromCurrency: domain.CurrencyUSD,
				},
				Fee:                validFeeResult(),
				SenderAccountID:    uuid.New(),
				RecipientAccountID: &recipient,
			},
		},
		{
			name: "zero amount",
			req: SettlementRequest{
				Request: domain.TransferRequest{
					Amount:   decimal.Zero,
					Category: domain.CategorySend,
				},
				Fee: validFeeResult(),
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			req: SettlementRequest{
				Request: domain.TransferRequest{
					Amount:   decimal.RequireFromString("-5"),
					Category: domain.CategorySend,
				},
				Fee: validFeeResult(),
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "missing fee result",
			req: SettlementRequest{
				Request: domain.TransferRequest{
					Amount:   decimal.RequireFromString("250"),
					Category: domain.CategorySend,
				},
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "negative fee",
			req: SettlementRequest{
				Request: domain.TransferRequest{
					Amount:   decimal.RequireFromString("250"),
					Category: domain.CategorySend,
				},
				Fee: &domain.FeeResult{Fee: decimal.RequireFromString("-1")},
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "unknown category",
			req: SettlementRequest{
				Request: domain.TransferRequest{
					Amount:   decimal.RequireFromString("250"),
					Category: domain.Category("loan"),
				},
				Fee: validFeeResult(),
			},
			wantErr: domain.ErrInvalidCategory,
		},
		{
			name: "refund cannot be settled directly",
			req: SettlementRequest{
				Request: domain.TransferRequest{
					Amount:   decimal.RequireFromString("250"),
					Category: domain.CategoryRefund,
				},
				Fee: validFeeResult(),
			},
			wantErr: domain.ErrInvalidCategory,
		},
		{
			name: "cross-currency with internal recipient",
			req: SettlementRequest{
				Request: domain.TransferRequest{
					Amount:       decimal.RequireFromString("100"),
					Category:     domain.CategorySend,
					FromCurrency: domain.CurrencyUSD,
					ToCurrency:   domain.CurrencyEUR,
				},
				Fee:                validFeeResult(),
				SenderAccountID:    uuid.New(),
				RecipientAccountID: &recipient,
			},
			wantErr: domain.ErrCurrencyMismatch,
		},
		{
			name: "cross-currency outbound is fine",
			req: SettlementRequest{
				Request: domain.TransferRequest{
					Amount:       decimal.RequireFromString("100"),
					Category:     domain.CategorySend,
					FromCurrency: domain.CurrencyUSD,
					ToCurrency:   domain.CurrencyEUR,
				},
				Fee:             validFeeResult(),
				SenderAccountID: uuid.New(),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateSettlement(tc.req)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateAccountIDs(t *testing.T) {
	platformID := uuid.New()
	senderID := uuid.New()
	recipientID := uuid.New()
	svc := NewService(nil, nil, nil, platformID)

	tests := []struct {
		name      string
		sender    uuid.UUID
		recipient *uuid.UUID
		wantErr   error
	}{
		{name: "distinct accounts", sender: senderID, recipient: &recipientID},
		{name: "outbound without recipient", sender: senderID},
		{name: "sender is platform", sender: platformID, recipient: &recipientID, wantErr: domain.ErrInvalidAccount},
		{name: "recipient is sender", sender: senderID, recipient: &senderID, wantErr: domain.ErrInvalidAccount},
		{name: "recipient is platform", sender: senderID, recipient: &platformID, wantErr: domain.ErrInvalidAccount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.validateAccountIDs(SettlementRequest{
				SenderAccountID:    tc.sender,
				RecipientAccountID: tc.recipient,
			})

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
