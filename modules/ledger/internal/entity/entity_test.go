package entity

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	acc, err := NewAccount("u5", []string{"u4", "u3"}, now)
	require.NoError(t, err)

	id, ok := acc.Ancestor(1)
	assert.True(t, ok)
	assert.Equal(t, "u4", id)
	id, ok = acc.Ancestor(2)
	assert.True(t, ok)
	assert.Equal(t, "u3", id)
	_, ok = acc.Ancestor(3)
	assert.False(t, ok)
	_, ok = acc.Ancestor(5)
	assert.False(t, ok)
	assert.False(t, acc.HasRecharged())

	_, err = NewAccount("", nil, now)
	assert.True(t, errors.Is(err, errs.InvalidArgument))
	_, err = NewAccount("u9", []string{"a", "b", "c", "d", "e"}, now)
	assert.ErrorIs(t, err, ErrTooManyReferralParents)
}

func TestLevelLabel(t *testing.T) {
	assert.Equal(t, "A", LevelLabel(1))
	assert.Equal(t, "D", LevelLabel(4))
	assert.Equal(t, "", LevelLabel(0))
	assert.Equal(t, "", LevelLabel(5))
}

func TestRateConfig(t *testing.T) {
	conf := RateConfig{
		LevelRates: [MaxReferralLevel]decimal.Decimal{
			decimal.NewFromInt(12), decimal.NewFromInt(7), decimal.NewFromInt(4), decimal.NewFromInt(2),
		},
		Tiers: []VIPTier{
			{Level: 1, RequiredTeamSize: 5, RequiredTeamAssets: decimal.NewFromInt(1000), MonthlySalary: decimal.NewFromInt(50)},
			{Level: 2, RequiredTeamSize: 20, RequiredTeamAssets: decimal.NewFromInt(10000), MonthlySalary: decimal.NewFromInt(200)},
		},
	}
	require.NoError(t, conf.Validate())
	assert.True(t, decimal.RequireFromString("0.12").Equal(conf.Rate(1)))
	assert.True(t, decimal.RequireFromString("0.02").Equal(conf.Rate(4)))
	assert.True(t, conf.Rate(0).IsZero())
	assert.True(t, decimal.NewFromInt(3000).Equal(conf.Tiers[0].FiveYearSalary()))

	t.Run("rate out of range", func(t *testing.T) {
		bad := conf
		bad.LevelRates[2] = decimal.NewFromInt(101)
		err := bad.Validate()
		assert.ErrorIs(t, err, ErrInvalidRateConfig)
		assert.True(t, errors.Is(err, errs.InvalidArgument))
	})
	t.Run("tier gap", func(t *testing.T) {
		bad := conf
		bad.Tiers = []VIPTier{{Level: 1}, {Level: 3}}
		assert.ErrorIs(t, bad.Validate(), ErrInvalidRateConfig)
	})
	t.Run("negative threshold", func(t *testing.T) {
		bad := conf
		bad.Tiers = []VIPTier{{Level: 1, RequiredTeamAssets: decimal.NewFromInt(-1)}}
		assert.ErrorIs(t, bad.Validate(), ErrInvalidRateConfig)
	})
}

func TestProductHoldingAccruedIncome(t *testing.T) {
	purchased := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	h := ProductHolding{DailyIncome: decimal.RequireFromString("12.5"), PurchasedAt: purchased, Active: true}

	assert.Equal(t, int64(0), h.ElapsedDays(purchased.Add(23*time.Hour)))
	assert.Equal(t, int64(1), h.ElapsedDays(purchased.Add(24*time.Hour)))
	assert.Equal(t, int64(3), h.ElapsedDays(purchased.Add(95*time.Hour)))
	assert.Equal(t, int64(0), h.ElapsedDays(purchased.Add(-48*time.Hour)))
	assert.True(t, decimal.RequireFromString("37.5").Equal(h.AccruedIncome(purchased.Add(80*time.Hour))))
}

func TestPolicyCode(t *testing.T) {
	testCases := []struct {
		err  error
		code string
	}{
		{ErrOutsideWindow, "OUTSIDE_WINDOW"},
		{ErrBelowMinimum, "BELOW_MINIMUM"},
		{ErrAboveMaximum, "ABOVE_MAXIMUM"},
		{ErrFrequencyExceeded, "FREQUENCY_EXCEEDED"},
		{ErrInsufficientBalance, "INSUFFICIENT_BALANCE"},
		{ErrNoPayoutDestination, "NO_PAYOUT_DESTINATION"},
		{ErrNotVIPEligible, "NOT_VIP_ELIGIBLE"},
		{ErrExceedsLegalAmount, "EXCEEDS_LEGAL_AMOUNT"},
	}
	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.code, PolicyCode(tc.err))
			assert.Equal(t, tc.code, PolicyCode(errors.Wrap(tc.err, "create withdrawal")))
			assert.True(t, errors.Is(tc.err, errs.PolicyViolation))
		})
	}

	code, message := Policy(errors.Wrapf(ErrNoPayoutDestination, "account %s", "u2"))
	assert.Equal(t, "NO_PAYOUT_DESTINATION", code)
	assert.Equal(t, "no payout destination linked", message)
	assert.Equal(t, "", PolicyCode(ErrAccountNotFound))
}

func TestSentinelsAreDistinctWithinKind(t *testing.T) {
	assert.False(t, errors.Is(ErrAccountNotFound, ErrRechargeNotFound))
	assert.False(t, errors.Is(ErrAlreadyConfirmed, ErrAlreadyProcessed))
	assert.True(t, errors.Is(ErrAlreadyConfirmed, errs.AlreadyProcessed))
	assert.True(t, errors.Is(ErrRequestNotFound, errs.NotFound))
}

func TestRewardNotification(t *testing.T) {
	n := NewRewardNotification("u1", "u5", "r1", 2, decimal.RequireFromString("7"), time.Now())
	assert.Equal(t, "You received 7.00 level B referral reward from u5", n.Message)
	assert.Equal(t, 2, n.Level)
	assert.Nil(t, n.DeliveredAt)
}
