package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Notification is a reward message addressed to an ancestor, recorded in the same transaction as the credit.
type Notification struct {
	ID              uuid.UUID
	AccountID       string
	SourceAccountID string
	RechargeEventID string
	Level           int
	Amount          decimal.Decimal
	Message         string
	CreatedAt       time.Time
	DeliveredAt     *time.Time
}

func NewRewardNotification(ancestorID, sourceID, rechargeEventID string, level int, amount decimal.Decimal, now time.Time) *Notification {
	return &Notification{
		ID:              uuid.New(),
		AccountID:       ancestorID,
		SourceAccountID: sourceID,
		RechargeEventID: rechargeEventID,
		Level:           level,
		Amount:          amount,
		Message:         fmt.Sprintf("You received %s level %s referral reward from %s", amount.StringFixed(2), LevelLabel(level), sourceID),
		CreatedAt:       now,
	}
}
