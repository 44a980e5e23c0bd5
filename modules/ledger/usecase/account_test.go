package usecase

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccountReferralChain(t *testing.T) {
	f := newFixture(t)
	f.chain(t)
	ctx := context.Background()

	assert.Equal(t, [entity.MaxReferralLevel]string{"u4", "u3", "u2", "u1"}, f.account(t, "u5").ReferralParents)
	assert.Equal(t, [entity.MaxReferralLevel]string{"u1", "", "", ""}, f.account(t, "u2").ReferralParents)

	// the fifth ancestor falls off the chain
	_, err := f.uc.CreateAccount(ctx, "u6", "u5")
	require.NoError(t, err)
	assert.Equal(t, [entity.MaxReferralLevel]string{"u5", "u4", "u3", "u2"}, f.account(t, "u6").ReferralParents)

	_, err = f.uc.CreateAccount(ctx, "u5", "")
	assert.True(t, errors.Is(err, errs.Conflict))

	_, err = f.uc.CreateAccount(ctx, "u7", "ghost")
	assert.ErrorIs(t, err, entity.ErrAccountNotFound)

	_, err = f.uc.CreateAccount(ctx, "", "")
	assert.True(t, errors.Is(err, errs.InvalidArgument))
}

func TestSubmitRecharge(t *testing.T) {
	f := newFixture(t)
	f.chain(t)
	ctx := context.Background()

	event, err := f.uc.SubmitRecharge(ctx, "u5", d("100"))
	require.NoError(t, err)
	assert.Equal(t, entity.RechargeStatusPending, event.Status)
	assert.True(t, f.account(t, "u5").LifetimeRecharge.IsZero())

	_, err = f.uc.SubmitRecharge(ctx, "u5", d("-1"))
	assert.ErrorIs(t, err, entity.ErrInvalidAmount)
	_, err = f.uc.SubmitRecharge(ctx, "nobody", d("1"))
	assert.ErrorIs(t, err, entity.ErrAccountNotFound)
}

func TestLinkPayoutDestination(t *testing.T) {
	f := newFixture(t)
	f.chain(t)
	ctx := context.Background()

	_, err := f.uc.GetPayoutDestination(ctx, "u1")
	assert.ErrorIs(t, err, entity.ErrPayoutDestNotFound)

	f.linkDestination(t, "u1")
	dest, err := f.uc.GetPayoutDestination(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Kasikorn", dest.BankName)
	assert.Equal(t, testNow, dest.UpdatedAt)

	_, err = f.uc.LinkPayoutDestination(ctx, entity.PayoutDestination{AccountID: "u1", BankName: "SCB"})
	assert.True(t, errors.Is(err, errs.InvalidArgument))
	_, err = f.uc.LinkPayoutDestination(ctx, entity.PayoutDestination{AccountID: "nobody", BankName: "SCB", AccountName: "x", AccountNumber: "1"})
	assert.ErrorIs(t, err, entity.ErrAccountNotFound)
}

func TestAddProductHolding(t *testing.T) {
	f := newFixture(t)
	f.chain(t)
	ctx := context.Background()

	holding, err := f.uc.AddProductHolding(ctx, "u1", "gold", d("12.5"), testNow.AddDate(0, 0, -2))
	require.NoError(t, err)
	assert.True(t, holding.Active)
	assert.True(t, d("25").Equal(holding.AccruedIncome(testNow)))

	_, err = f.uc.AddProductHolding(ctx, "u1", "", d("1"), testNow)
	assert.True(t, errors.Is(err, errs.InvalidArgument))
	_, err = f.uc.AddProductHolding(ctx, "u1", "gold", d("-1"), testNow)
	assert.True(t, errors.Is(err, errs.InvalidArgument))
}
