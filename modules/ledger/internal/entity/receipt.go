package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DistributionReceipt describes the effects committed by one recharge distribution.
type DistributionReceipt struct {
	RechargeEventID string
	AccountID       string
	Amount          decimal.Decimal
	RateVersion     int64
	FirstRecharge   bool
	Credits         []AncestorCredit
	VerifiedAt      time.Time
}

// AncestorCredit is the per-level outcome. Commission is zero for non-first recharges.
type AncestorCredit struct {
	Level       int
	AccountID   string
	Commission  decimal.Decimal
	TeamSize    int64
	TeamAssets  decimal.Decimal
	VIPEligible bool
}

// TotalCommission sums commission over all levels.
func (r *DistributionReceipt) TotalCommission() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Credits {
		total = total.Add(c.Commission)
	}
	return total
}

type LegalityReport struct {
	AccountID          string
	ProductIncome      decimal.Decimal
	RawTeamIncome      decimal.Decimal
	TeamIncomeAllowed  decimal.Decimal
	Allowance          decimal.Decimal
	Liability          decimal.Decimal
	MaxLegalWithdrawal decimal.Decimal
	IsLegal            bool
	RateVersion        int64
	EvaluatedAt        time.Time
}

// VIPStatus is the VIP standing of an account against the latest tier table.
type VIPStatus struct {
	AccountID  string
	VIPLevel   int32
	Eligible   bool
	TeamSize   int64
	TeamAssets decimal.Decimal
	// NextTier is nil when the account is at the top of the table.
	NextTier    *VIPTier
	RateVersion int64
}
