package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLegality(t *testing.T) {
	rates := &entity.RateConfig{Version: 3, LevelRates: [entity.MaxReferralLevel]decimal.Decimal{d("100"), d("0"), d("0"), d("0")}}
	holdings := []*entity.ProductHolding{
		{DailyIncome: d("50"), PurchasedAt: testNow.AddDate(0, 0, -10), Active: true},
		{DailyIncome: d("999"), PurchasedAt: testNow.AddDate(0, 0, -10), Active: false},
	}
	totals := [entity.MaxReferralLevel]decimal.Decimal{d("1000"), d("0"), d("0"), d("0")}

	tc := []struct {
		name               string
		balance            string
		lifetimeWithdrawal string
		isLegal            bool
		maxLegal           string
	}{
		{name: "legal", balance: "1000", lifetimeWithdrawal: "300", isLegal: true, maxLegal: "1100"},
		{name: "exactly at allowance", balance: "1100", lifetimeWithdrawal: "300", isLegal: true, maxLegal: "1100"},
		{name: "illegal", balance: "1200", lifetimeWithdrawal: "300", isLegal: false, maxLegal: "1100"},
		{name: "withdrawn beyond allowance", balance: "0", lifetimeWithdrawal: "2000", isLegal: false, maxLegal: "0"},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			account := &entity.Account{ID: "a", Balance: d(tt.balance), LifetimeWithdrawal: d(tt.lifetimeWithdrawal)}
			report := computeLegality(account, holdings, totals, rates, testNow)

			assert.True(t, d("500").Equal(report.ProductIncome), report.ProductIncome.String())
			assert.True(t, d("1000").Equal(report.RawTeamIncome), report.RawTeamIncome.String())
			assert.True(t, d("900").Equal(report.TeamIncomeAllowed), report.TeamIncomeAllowed.String())
			assert.True(t, d("1400").Equal(report.Allowance), report.Allowance.String())
			assert.Equal(t, tt.isLegal, report.IsLegal)
			assert.True(t, d(tt.maxLegal).Equal(report.MaxLegalWithdrawal), report.MaxLegalWithdrawal.String())
			assert.Equal(t, int64(3), report.RateVersion)
		})
	}
}

func TestCheckLegality(t *testing.T) {
	f := newFixture(t)
	f.publishRates(t)
	f.chain(t)
	ctx := context.Background()

	f.recharge(t, "u5", "1000")
	f.recharge(t, "u5", "500")
	_, err := f.uc.AddProductHolding(ctx, "u4", "silver", d("10"), testNow.Add(-72*time.Hour))
	require.NoError(t, err)

	report, err := f.uc.CheckLegality(ctx, "u4")
	require.NoError(t, err)
	// u4 is u5's level 1 ancestor: 1500 * 12% = 180, of which 90% counts
	assert.True(t, d("30").Equal(report.ProductIncome), report.ProductIncome.String())
	assert.True(t, d("180").Equal(report.RawTeamIncome), report.RawTeamIncome.String())
	assert.True(t, d("162").Equal(report.TeamIncomeAllowed), report.TeamIncomeAllowed.String())
	assert.True(t, d("120").Equal(report.Liability), report.Liability.String())
	assert.True(t, report.IsLegal)
	assert.True(t, d("192").Equal(report.MaxLegalWithdrawal))

	// u1 sees u5 at level 4: 1500 * 2% = 30, 27 allowed, liability 20
	report, err = f.uc.CheckLegality(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, d("30").Equal(report.RawTeamIncome), report.RawTeamIncome.String())
	assert.True(t, report.IsLegal)

	before := f.account(t, "u4")
	_, err = f.uc.CheckLegality(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, before, f.account(t, "u4"))

	_, err = f.uc.CheckLegality(ctx, "nobody")
	assert.ErrorIs(t, err, entity.ErrAccountNotFound)
}
