package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// ProductHolding is an investment product owned by an account that yields DailyIncome per whole day held.
type ProductHolding struct {
	ID          string
	AccountID   string
	ProductID   string
	DailyIncome decimal.Decimal
	PurchasedAt time.Time
	Active      bool
}

// ElapsedDays is the number of whole days since purchase, never negative.
func (h *ProductHolding) ElapsedDays(now time.Time) int64 {
	elapsed := now.Sub(h.PurchasedAt)
	if elapsed <= 0 {
		return 0
	}
	return int64(elapsed / day)
}

// AccruedIncome is DailyIncome times whole elapsed days.
func (h *ProductHolding) AccruedIncome(now time.Time) decimal.Decimal {
	return h.DailyIncome.Mul(decimal.NewFromInt(h.ElapsedDays(now)))
}
