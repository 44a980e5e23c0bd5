package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAccount(t *testing.T, repo *Repository, id string, parents ...string) {
	t.Helper()
	acc, err := entity.NewAccount(id, parents, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.CreateAccount(context.Background(), acc))
}

func TestTxRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	mustAccount(t, repo, "u1")

	qtx, err := repo.BeginLedgerTx(ctx)
	require.NoError(t, err)
	acc, err := qtx.GetAccount(ctx, "u1")
	require.NoError(t, err)
	acc.Balance = decimal.NewFromInt(100)
	require.NoError(t, qtx.UpdateAccountBalances(ctx, acc))
	require.NoError(t, qtx.Rollback(ctx))

	stored, err := repo.GetAccount(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, stored.Balance.IsZero())

	// rollback after rollback is a no-op
	assert.NoError(t, qtx.Rollback(ctx))
}

func TestTxCommitAppliesWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	mustAccount(t, repo, "u1")

	qtx, err := repo.BeginLedgerTx(ctx)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, qtx.Rollback(ctx))
	}()

	acc, err := qtx.GetAccount(ctx, "u1")
	require.NoError(t, err)
	acc.Balance = decimal.NewFromInt(100)
	acc.ReferralParents[0] = "should-not-persist"
	require.NoError(t, qtx.UpdateAccountBalances(ctx, acc))
	require.NoError(t, qtx.Commit(ctx))

	stored, err := repo.GetAccount(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(stored.Balance))
	assert.Empty(t, stored.ReferralParents[0])
}

func TestNestedBeginRejected(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	qtx, err := repo.BeginLedgerTx(ctx)
	require.NoError(t, err)
	defer qtx.Rollback(ctx)

	_, err = qtx.BeginLedgerTx(ctx)
	assert.ErrorIs(t, err, ErrTxAlreadyExists)
}

func TestGetAccountsForUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	mustAccount(t, repo, "u1")
	mustAccount(t, repo, "u2", "u1")

	accounts, err := repo.GetAccountsForUpdate(ctx, []string{"u2", "u1", "u1", "missing"})
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.Contains(t, accounts, "u1")
	assert.NotContains(t, accounts, "missing")
}

func TestGetTeamRechargeTotals(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	mustAccount(t, repo, "root")
	mustAccount(t, repo, "a", "root")
	mustAccount(t, repo, "b", "root")
	mustAccount(t, repo, "c", "a", "root")

	for id, amount := range map[string]int64{"a": 100, "b": 50, "c": 30} {
		acc, err := repo.GetAccount(ctx, id)
		require.NoError(t, err)
		acc.LifetimeRecharge = decimal.NewFromInt(amount)
		require.NoError(t, repo.UpdateAccountBalances(ctx, acc))
	}

	totals, err := repo.GetTeamRechargeTotals(ctx, "root")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(totals[0]))
	assert.True(t, decimal.NewFromInt(30).Equal(totals[1]))
	assert.True(t, totals[2].IsZero())
	assert.True(t, totals[3].IsZero())
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	_, err := repo.GetAccount(ctx, "nobody")
	assert.True(t, errors.Is(err, errs.NotFound))
	_, err = repo.GetLatestRateConfig(ctx)
	assert.True(t, errors.Is(err, errs.NotFound))
	_, err = repo.GetPayoutDestination(ctx, "nobody")
	assert.True(t, errors.Is(err, errs.NotFound))
}

func TestCreateRateConfigVersionConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	require.NoError(t, repo.CreateRateConfig(ctx, &entity.RateConfig{Version: 1}))
	require.NoError(t, repo.CreateRateConfig(ctx, &entity.RateConfig{Version: 2}))
	err := repo.CreateRateConfig(ctx, &entity.RateConfig{Version: 2})
	assert.True(t, errors.Is(err, errs.Transient))

	latest, err := repo.GetLatestRateConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), latest.Version)
}

func TestStoredKeysDoNotAliasCallerBuffers(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	buf := []byte("u2")
	id := fiberutils.UnsafeString(buf)
	require.NoError(t, repo.UpsertPayoutDestination(ctx, &entity.PayoutDestination{AccountID: id, BankName: "Kasikorn"}))
	require.NoError(t, repo.CreateProductHolding(ctx, &entity.ProductHolding{ID: "h1", AccountID: id, ProductID: "gold-30", Active: true}))
	copy(buf, "zz")

	dest, err := repo.GetPayoutDestination(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "u2", dest.AccountID)

	holdings, err := repo.GetActiveProductHoldings(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "u2", holdings[0].AccountID)

	_, err = repo.GetPayoutDestination(ctx, "zz")
	assert.True(t, errors.Is(err, errs.NotFound))
}

func TestSumPendingWithdrawals(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	for _, req := range []*entity.WithdrawalRequest{
		{ID: uuid.New(), AccountID: "w1", Amount: decimal.NewFromInt(200), Status: entity.WithdrawalStatusPending},
		{ID: uuid.New(), AccountID: "w1", Amount: decimal.NewFromInt(20), Status: entity.WithdrawalStatusPending},
		{ID: uuid.New(), AccountID: "w1", Amount: decimal.NewFromInt(50), Status: entity.WithdrawalStatusVerified},
		{ID: uuid.New(), AccountID: "w2", Amount: decimal.NewFromInt(70), Status: entity.WithdrawalStatusPending},
	} {
		require.NoError(t, repo.CreateWithdrawalRequest(ctx, req))
	}

	sum, err := repo.SumPendingWithdrawals(ctx, "w1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(220).Equal(sum), sum.String())

	sum, err = repo.SumPendingWithdrawals(ctx, "nobody")
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}
