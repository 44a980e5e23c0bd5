package entity

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// salaryMonths is the number of months shown as the "5-year salary" of a tier.
	salaryMonths = decimal.NewFromInt(60)
)

// RateConfig is an immutable, versioned snapshot of referral percentages and the VIP tier table.
type RateConfig struct {
	ID      uuid.UUID
	Version int64
	// LevelRates are percentages per referral level (12 means 12%).
	LevelRates [MaxReferralLevel]decimal.Decimal
	Tiers      []VIPTier
	CreatedAt  time.Time
}

type VIPTier struct {
	Level              int32
	RequiredTeamSize   int64
	RequiredTeamAssets decimal.Decimal
	MonthlySalary      decimal.Decimal
}

// FiveYearSalary is derived on read instead of being stored next to MonthlySalary.
func (t VIPTier) FiveYearSalary() decimal.Decimal {
	return t.MonthlySalary.Mul(salaryMonths)
}

// Rate returns the commission fraction for a level (1..4), e.g. 0.12 for 12%.
func (c *RateConfig) Rate(level int) decimal.Decimal {
	if level < 1 || level > MaxReferralLevel {
		return decimal.Zero
	}
	return c.LevelRates[level-1].Div(hundred)
}

// Validate checks percentages are within [0, 100] and tiers are numbered 1..n without gaps.
func (c *RateConfig) Validate() error {
	var errList []error
	for i, rate := range c.LevelRates {
		if rate.IsNegative() || rate.GreaterThan(hundred) {
			errList = append(errList, errors.Errorf("level %d rate %s is out of range [0, 100]", i+1, rate))
		}
	}
	for i, tier := range c.Tiers {
		if tier.Level != int32(i+1) {
			errList = append(errList, errors.Errorf("tier at position %d must have level %d, got %d", i, i+1, tier.Level))
		}
		if tier.RequiredTeamSize < 0 {
			errList = append(errList, errors.Errorf("tier %d required team size must not be negative", tier.Level))
		}
		if tier.RequiredTeamAssets.IsNegative() || tier.MonthlySalary.IsNegative() {
			errList = append(errList, errors.Errorf("tier %d thresholds must not be negative", tier.Level))
		}
	}
	if len(errList) > 0 {
		return errors.Wrap(ErrInvalidRateConfig, errors.Join(errList...).Error())
	}
	return nil
}
