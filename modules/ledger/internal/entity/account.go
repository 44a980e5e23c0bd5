package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxReferralLevel is the depth of the stored referral chain. Level 1 is the direct inviter.
const MaxReferralLevel = 4

var levelLabels = [MaxReferralLevel]string{"A", "B", "C", "D"}

// LevelLabel returns the display label of a referral level (1 -> "A" ... 4 -> "D").
func LevelLabel(level int) string {
	if level < 1 || level > MaxReferralLevel {
		return ""
	}
	return levelLabels[level-1]
}

type Account struct {
	ID string

	// Balance is the spendable balance. Credited by commissions, debited by withdrawal requests.
	Balance decimal.Decimal
	// RechargeBalance is the running total of verified recharges.
	RechargeBalance    decimal.Decimal
	LifetimeRecharge   decimal.Decimal
	LifetimeWithdrawal decimal.Decimal
	// TeamIncome is the lifetime commission received from descendants. Display only.
	TeamIncome decimal.Decimal
	TeamAssets decimal.Decimal
	TeamSize   int64

	// ReferralParents holds the ancestor ids indexed by level-1. Empty string means the level is not populated.
	ReferralParents [MaxReferralLevel]string

	VIPLevel    int32
	VIPEligible bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ancestor returns the ancestor id at the given level (1..4) and whether it is populated.
func (a *Account) Ancestor(level int) (string, bool) {
	if level < 1 || level > MaxReferralLevel {
		return "", false
	}
	id := a.ReferralParents[level-1]
	return id, id != ""
}

// HasRecharged reports whether the account has at least one verified recharge.
func (a *Account) HasRecharged() bool {
	return a.LifetimeRecharge.IsPositive()
}

// NewAccount builds an account for signup. parents are ordered by level, starting at the direct inviter.
func NewAccount(id string, parents []string, now time.Time) (*Account, error) {
	if id == "" {
		return nil, ErrInvalidAccountID
	}
	if len(parents) > MaxReferralLevel {
		return nil, ErrTooManyReferralParents
	}
	acc := &Account{
		ID:                 id,
		Balance:            decimal.Zero,
		RechargeBalance:    decimal.Zero,
		LifetimeRecharge:   decimal.Zero,
		LifetimeWithdrawal: decimal.Zero,
		TeamIncome:         decimal.Zero,
		TeamAssets:         decimal.Zero,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	copy(acc.ReferralParents[:], parents)
	return acc, nil
}
