package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gaze-network/commission-ledger/modules/ledger/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestDistributeFirstRecharge(t *testing.T) {
	f := newFixture(t)
	f.publishRates(t)
	f.chain(t)

	receipt := f.recharge(t, "u5", "1000")
	assert.True(t, receipt.FirstRecharge)
	assert.Equal(t, int64(1), receipt.RateVersion)
	assert.True(t, d("250").Equal(receipt.TotalCommission()))
	require.Len(t, receipt.Credits, 4)

	expected := map[string]string{"u4": "120", "u3": "70", "u2": "40", "u1": "20"}
	for id, commission := range expected {
		acc := f.account(t, id)
		assert.Truef(t, d(commission).Equal(acc.Balance), "%s balance %s", id, acc.Balance)
		assert.Truef(t, d(commission).Equal(acc.TeamIncome), "%s team income %s", id, acc.TeamIncome)
		assert.Truef(t, d("1000").Equal(acc.TeamAssets), "%s team assets %s", id, acc.TeamAssets)
		assert.Equal(t, int64(1), acc.TeamSize, id)
	}

	self := f.account(t, "u5")
	assert.True(t, d("1000").Equal(self.LifetimeRecharge))
	assert.True(t, d("1000").Equal(self.RechargeBalance))
	assert.True(t, self.Balance.IsZero())
	assert.Equal(t, int64(0), self.TeamSize)

	event, err := f.uc.GetRechargeEvent(context.Background(), receipt.RechargeEventID)
	require.NoError(t, err)
	assert.True(t, event.IsVerified())
	require.NotNil(t, event.VerifiedAt)
	assert.Equal(t, testNow, *event.VerifiedAt)

	notifications, err := f.repo.GetUndeliveredNotifications(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, notifications, 4)
	messages := make(map[string]string)
	for _, n := range notifications {
		messages[n.AccountID] = n.Message
	}
	assert.Equal(t, "You received 120.00 level A referral reward from u5", messages["u4"])
	assert.Equal(t, "You received 20.00 level D referral reward from u5", messages["u1"])
}

func TestDistributeTwiceIsNoop(t *testing.T) {
	f := newFixture(t)
	f.publishRates(t)
	f.chain(t)
	ctx := context.Background()

	event, err := f.uc.SubmitRecharge(ctx, "u5", d("1000"))
	require.NoError(t, err)
	_, err = f.uc.Distribute(ctx, event.ID)
	require.NoError(t, err)

	before := make(map[string]*entity.Account)
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5"} {
		before[id] = f.account(t, id)
	}

	_, err = f.uc.Distribute(ctx, event.ID)
	assert.ErrorIs(t, err, entity.ErrAlreadyProcessed)
	assert.True(t, errors.Is(err, errs.AlreadyProcessed))

	for id, acc := range before {
		assert.Equal(t, acc, f.account(t, id), id)
	}
	notifications, err := f.repo.GetUndeliveredNotifications(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, notifications, 4)
}

func TestDistributeLaterRecharge(t *testing.T) {
	f := newFixture(t)
	f.publishRates(t)
	f.chain(t)

	f.recharge(t, "u5", "1000")
	receipt := f.recharge(t, "u5", "500")
	assert.False(t, receipt.FirstRecharge)
	assert.True(t, receipt.TotalCommission().IsZero())

	for id, commission := range map[string]string{"u4": "120", "u3": "70", "u2": "40", "u1": "20"} {
		acc := f.account(t, id)
		assert.Truef(t, d(commission).Equal(acc.Balance), "%s balance %s", id, acc.Balance)
		assert.Truef(t, d("1500").Equal(acc.TeamAssets), "%s team assets %s", id, acc.TeamAssets)
		assert.Equal(t, int64(1), acc.TeamSize, id)
	}
	assert.True(t, d("1500").Equal(f.account(t, "u5").LifetimeRecharge))

	notifications, err := f.repo.GetUndeliveredNotifications(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, notifications, 4)
}

func TestDistributeVIPEligibility(t *testing.T) {
	tiers := []entity.VIPTier{
		{Level: 1, RequiredTeamSize: 1, RequiredTeamAssets: d("1000"), MonthlySalary: d("50")},
		{Level: 2, RequiredTeamSize: 2, RequiredTeamAssets: d("5000"), MonthlySalary: d("200")},
	}

	t.Run("thresholds met", func(t *testing.T) {
		f := newFixture(t)
		f.publishRates(t, tiers...)
		f.chain(t)

		receipt := f.recharge(t, "u5", "1000")
		for _, credit := range receipt.Credits {
			assert.True(t, credit.VIPEligible, credit.AccountID)
		}
		assert.True(t, f.account(t, "u4").VIPEligible)
		assert.False(t, f.account(t, "u5").VIPEligible)
	})

	t.Run("thresholds not met", func(t *testing.T) {
		f := newFixture(t)
		f.publishRates(t, tiers...)
		f.chain(t)

		f.recharge(t, "u5", "999")
		assert.False(t, f.account(t, "u4").VIPEligible)
	})

	t.Run("evaluated against next tier", func(t *testing.T) {
		f := newFixture(t)
		f.publishRates(t, tiers...)
		f.chain(t)
		ctx := context.Background()
		require.NoError(t, f.repo.UpdateAccountVIP(ctx, "u4", 1, false))

		f.recharge(t, "u5", "1000")
		assert.False(t, f.account(t, "u4").VIPEligible)
		assert.True(t, f.account(t, "u3").VIPEligible)
	})

	t.Run("no tiers", func(t *testing.T) {
		f := newFixture(t)
		f.publishRates(t)
		f.chain(t)

		f.recharge(t, "u5", "100000")
		assert.False(t, f.account(t, "u4").VIPEligible)
	})
}

func TestDistributePartialChain(t *testing.T) {
	f := newFixture(t)
	f.publishRates(t)
	ctx := context.Background()
	_, err := f.uc.CreateAccount(ctx, "root", "")
	require.NoError(t, err)
	_, err = f.uc.CreateAccount(ctx, "child", "root")
	require.NoError(t, err)

	receipt := f.recharge(t, "child", "200")
	require.Len(t, receipt.Credits, 1)
	assert.Equal(t, 1, receipt.Credits[0].Level)
	assert.True(t, d("24").Equal(f.account(t, "root").Balance))

	// an account without ancestors still records its own recharge
	receipt = f.recharge(t, "root", "300")
	assert.Empty(t, receipt.Credits)
	assert.True(t, d("300").Equal(f.account(t, "root").LifetimeRecharge))
}

func TestDistributeAncestorAtTwoLevels(t *testing.T) {
	f := newFixture(t)
	f.publishRates(t)
	ctx := context.Background()
	for _, id := range []string{"p", "q"} {
		acc, err := entity.NewAccount(id, nil, testNow)
		require.NoError(t, err)
		require.NoError(t, f.repo.CreateAccount(ctx, acc))
	}
	acc, err := entity.NewAccount("x", []string{"p", "q", "p"}, testNow)
	require.NoError(t, err)
	require.NoError(t, f.repo.CreateAccount(ctx, acc))

	f.recharge(t, "x", "100")
	p := f.account(t, "p")
	assert.True(t, d("16").Equal(p.Balance), p.Balance.String())
	assert.True(t, d("200").Equal(p.TeamAssets))
	assert.Equal(t, int64(2), p.TeamSize)
	assert.True(t, d("7").Equal(f.account(t, "q").Balance))
}

func TestDistributeAborts(t *testing.T) {
	ctx := context.Background()

	t.Run("missing ancestor", func(t *testing.T) {
		f := newFixture(t)
		f.publishRates(t)
		_, err := f.uc.CreateAccount(ctx, "u1", "")
		require.NoError(t, err)
		acc, err := entity.NewAccount("orphan", []string{"u1", "ghost"}, testNow)
		require.NoError(t, err)
		require.NoError(t, f.repo.CreateAccount(ctx, acc))

		event, err := f.uc.SubmitRecharge(ctx, "orphan", d("100"))
		require.NoError(t, err)
		_, err = f.uc.Distribute(ctx, event.ID)
		assert.ErrorIs(t, err, entity.ErrAccountNotFound)

		assert.True(t, f.account(t, "u1").Balance.IsZero())
		assert.True(t, f.account(t, "orphan").LifetimeRecharge.IsZero())
		event, err = f.uc.GetRechargeEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.False(t, event.IsVerified())
	})

	t.Run("unknown event", func(t *testing.T) {
		f := newFixture(t)
		f.publishRates(t)
		_, err := f.uc.Distribute(ctx, "missing")
		assert.ErrorIs(t, err, entity.ErrRechargeNotFound)
		assert.True(t, errors.Is(err, errs.NotFound))
	})

	t.Run("non-positive amount", func(t *testing.T) {
		f := newFixture(t)
		f.publishRates(t)
		f.chain(t)
		require.NoError(t, f.repo.CreateRechargeEvent(ctx, &entity.RechargeEvent{
			ID:        "zero",
			AccountID: "u5",
			Amount:    d("0"),
			Status:    entity.RechargeStatusPending,
			CreatedAt: testNow,
		}))
		_, err := f.uc.Distribute(ctx, "zero")
		assert.ErrorIs(t, err, entity.ErrInvalidAmount)
		assert.True(t, f.account(t, "u4").TeamAssets.IsZero())
	})

	t.Run("no rate configuration", func(t *testing.T) {
		f := newFixture(t)
		f.chain(t)
		event, err := f.uc.SubmitRecharge(ctx, "u5", d("100"))
		require.NoError(t, err)
		_, err = f.uc.Distribute(ctx, event.ID)
		assert.ErrorIs(t, err, entity.ErrRateConfigNotFound)
	})
}

func TestDistributeConcurrentSiblings(t *testing.T) {
	f := newFixture(t)
	f.publishRates(t)
	ctx := context.Background()
	_, err := f.uc.CreateAccount(ctx, "inviter", "")
	require.NoError(t, err)

	const siblings = 20
	events := make([]string, siblings)
	for i := range siblings {
		id := fmt.Sprintf("s%02d", i)
		_, err := f.uc.CreateAccount(ctx, id, "inviter")
		require.NoError(t, err)
		event, err := f.uc.SubmitRecharge(ctx, id, d("100"))
		require.NoError(t, err)
		events[i] = event.ID
	}

	var g errgroup.Group
	for _, eventID := range events {
		g.Go(func() error {
			_, err := f.uc.Distribute(ctx, eventID)
			return err
		})
	}
	require.NoError(t, g.Wait())

	inviter := f.account(t, "inviter")
	assert.Equal(t, int64(siblings), inviter.TeamSize)
	assert.True(t, d("2000").Equal(inviter.TeamAssets), inviter.TeamAssets.String())
	assert.True(t, d("240").Equal(inviter.Balance), inviter.Balance.String())
}

func TestDistributeConcurrentSameEvent(t *testing.T) {
	f := newFixture(t)
	f.publishRates(t)
	f.chain(t)
	ctx := context.Background()
	event, err := f.uc.SubmitRecharge(ctx, "u5", d("1000"))
	require.NoError(t, err)

	var succeeded, skipped atomic.Int32
	var g errgroup.Group
	for range 10 {
		g.Go(func() error {
			_, err := f.uc.Distribute(ctx, event.ID)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, errs.AlreadyProcessed):
				skipped.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(9), skipped.Load())
	assert.True(t, d("120").Equal(f.account(t, "u4").Balance))
}

func TestDistributeRetriesTransientCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("recovers", func(t *testing.T) {
		gateway := &flakyGateway{Repository: memory.NewRepository()}
		uc := New(gateway, testPolicy(), WithClock(func() time.Time { return testNow }), WithRetrier(testRetrier()))
		_, err := uc.PublishRateConfig(ctx, defaultRates(), nil)
		require.NoError(t, err)
		_, err = uc.CreateAccount(ctx, "a", "")
		require.NoError(t, err)
		_, err = uc.CreateAccount(ctx, "b", "a")
		require.NoError(t, err)
		event, err := uc.SubmitRecharge(ctx, "b", d("100"))
		require.NoError(t, err)

		gateway.failures.Store(2)
		_, err = uc.Distribute(ctx, event.ID)
		require.NoError(t, err)

		acc, err := uc.GetAccount(ctx, "a")
		require.NoError(t, err)
		assert.True(t, d("12").Equal(acc.Balance))
	})

	t.Run("gives up", func(t *testing.T) {
		gateway := &flakyGateway{Repository: memory.NewRepository()}
		uc := New(gateway, testPolicy(), WithClock(func() time.Time { return testNow }), WithRetrier(testRetrier()))
		_, err := uc.PublishRateConfig(ctx, defaultRates(), nil)
		require.NoError(t, err)
		_, err = uc.CreateAccount(ctx, "a", "")
		require.NoError(t, err)
		_, err = uc.CreateAccount(ctx, "b", "a")
		require.NoError(t, err)
		event, err := uc.SubmitRecharge(ctx, "b", d("100"))
		require.NoError(t, err)

		gateway.failures.Store(10)
		_, err = uc.Distribute(ctx, event.ID)
		assert.True(t, errors.Is(err, errs.Transient))

		acc, err := uc.GetAccount(ctx, "a")
		require.NoError(t, err)
		assert.True(t, acc.Balance.IsZero())
		assert.Equal(t, int32(7), gateway.failures.Load())
	})
}
