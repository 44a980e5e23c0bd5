package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTiers = []entity.VIPTier{
	{Level: 1, RequiredTeamSize: 1, RequiredTeamAssets: d("500"), MonthlySalary: d("50")},
	{Level: 2, RequiredTeamSize: 1, RequiredTeamAssets: d("1000"), MonthlySalary: d("150")},
}

func TestPublishRateConfig(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.GetRateConfig(ctx)
	assert.ErrorIs(t, err, entity.ErrRateConfigNotFound)

	first, err := f.uc.PublishRateConfig(ctx, defaultRates(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)

	second, err := f.uc.PublishRateConfig(ctx, defaultRates(), testTiers)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)

	latest, err := f.uc.GetRateConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Len(t, latest.Tiers, 2)

	bad := defaultRates()
	bad[0] = d("-1")
	_, err = f.uc.PublishRateConfig(ctx, bad, nil)
	assert.ErrorIs(t, err, entity.ErrInvalidRateConfig)
	assert.True(t, errors.Is(err, errs.InvalidArgument))
}

func TestEvaluateAndPromoteVIP(t *testing.T) {
	f := newFixture(t)
	f.publishRates(t, testTiers...)
	f.chain(t)
	ctx := context.Background()

	_, err := f.uc.PromoteVIP(ctx, "u4")
	assert.ErrorIs(t, err, entity.ErrNotVIPEligible)

	f.recharge(t, "u5", "1000")

	status, err := f.uc.EvaluateVIP(ctx, "u4")
	require.NoError(t, err)
	assert.True(t, status.Eligible)
	require.NotNil(t, status.NextTier)
	assert.Equal(t, int32(1), status.NextTier.Level)

	status, err = f.uc.PromoteVIP(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, int32(1), status.VIPLevel)
	assert.True(t, status.Eligible, "tier 2 thresholds are met too")

	status, err = f.uc.PromoteVIP(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, int32(2), status.VIPLevel)
	assert.False(t, status.Eligible)
	assert.Nil(t, status.NextTier)

	acc := f.account(t, "u4")
	assert.Equal(t, int32(2), acc.VIPLevel)
	assert.False(t, acc.VIPEligible)

	_, err = f.uc.PromoteVIP(ctx, "u4")
	assert.ErrorIs(t, err, entity.ErrNotVIPEligible)
	assert.Equal(t, "NOT_VIP_ELIGIBLE", entity.PolicyCode(err))
}

func TestSweepVIPEligibility(t *testing.T) {
	f := newFixture(t)
	f.publishRates(t)
	ctx := context.Background()

	_, err := f.uc.CreateAccount(ctx, "root", "")
	require.NoError(t, err)
	for i := range 25 {
		id := fmt.Sprintf("c%02d", i)
		_, err := f.uc.CreateAccount(ctx, id, "root")
		require.NoError(t, err)
		f.recharge(t, id, "100")
	}
	assert.False(t, f.account(t, "root").VIPEligible)

	// a new tier table does not touch stored flags until the sweep runs
	_, err = f.uc.PublishRateConfig(ctx, defaultRates(), testTiers)
	require.NoError(t, err)
	assert.False(t, f.account(t, "root").VIPEligible)

	result, err := f.uc.SweepVIPEligibility(ctx, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(26), result.Scanned)
	assert.Equal(t, int64(1), result.Updated)
	assert.True(t, f.account(t, "root").VIPEligible)

	result, err = f.uc.SweepVIPEligibility(ctx, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(26), result.Scanned)
	assert.Equal(t, int64(0), result.Updated)

	_, err = f.uc.SweepVIPEligibility(ctx, 0, 1)
	assert.True(t, errors.Is(err, errs.InvalidArgument))
}
