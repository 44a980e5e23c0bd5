package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type RechargeStatus string

const (
	RechargeStatusPending  RechargeStatus = "pending"
	RechargeStatusVerified RechargeStatus = "verified"
)

type RechargeEvent struct {
	ID         string
	AccountID  string
	Amount     decimal.Decimal
	Status     RechargeStatus
	CreatedAt  time.Time
	VerifiedAt *time.Time
}

func (e *RechargeEvent) IsVerified() bool {
	return e.Status == RechargeStatusVerified
}
