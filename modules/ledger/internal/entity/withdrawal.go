package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusVerified WithdrawalStatus = "verified"
)

type WithdrawalRequest struct {
	ID        uuid.UUID
	AccountID string
	Amount    decimal.Decimal
	Fee       decimal.Decimal
	NetPayout decimal.Decimal
	Status    WithdrawalStatus
	// Destination is copied from the account's payout destination when the request is created.
	Destination PayoutDestination
	CreatedAt   time.Time
	VerifiedAt  *time.Time
}

func (w *WithdrawalRequest) IsVerified() bool {
	return w.Status == WithdrawalStatusVerified
}

// PayoutDestination is the bank account a user links for payouts.
type PayoutDestination struct {
	AccountID     string
	BankName      string
	AccountName   string
	AccountNumber string
	UpdatedAt     time.Time
}
