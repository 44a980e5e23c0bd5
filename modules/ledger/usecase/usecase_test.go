package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/datagateway"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	withdrawalvalidator "github.com/gaze-network/commission-ledger/modules/ledger/internal/validator/withdrawal"
	"github.com/gaze-network/commission-ledger/modules/ledger/repository/memory"
	"github.com/gaze-network/commission-ledger/pkg/retry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// monday 2024-05-06 10:00 UTC
var testNow = time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func defaultRates() [entity.MaxReferralLevel]decimal.Decimal {
	return [entity.MaxReferralLevel]decimal.Decimal{d("12"), d("7"), d("4"), d("2")}
}

func testPolicy() withdrawalvalidator.Policy {
	return withdrawalvalidator.Policy{
		MinAmount:     d("10"),
		FeePercent:    d("5"),
		Location:      time.UTC,
		FrequencyDays: 1,
	}
}

func testRetrier() *retry.Retrier {
	return retry.New(retry.Config{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond})
}

type clock struct {
	now atomic.Pointer[time.Time]
}

func newClock(t time.Time) *clock {
	c := &clock{}
	c.Set(t)
	return c
}

func (c *clock) Now() time.Time      { return *c.now.Load() }
func (c *clock) Set(t time.Time)     { c.now.Store(&t) }
func (c *clock) Add(d time.Duration) { c.Set(c.Now().Add(d)) }

type fixture struct {
	repo  *memory.Repository
	uc    *Usecase
	clock *clock
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		repo:  memory.NewRepository(),
		clock: newClock(testNow),
	}
	opts = append([]Option{WithClock(f.clock.Now), WithRetrier(testRetrier())}, opts...)
	f.uc = New(f.repo, testPolicy(), opts...)
	return f
}

func (f *fixture) publishRates(t *testing.T, tiers ...entity.VIPTier) {
	t.Helper()
	_, err := f.uc.PublishRateConfig(context.Background(), defaultRates(), tiers)
	require.NoError(t, err)
}

// chain creates u1 <- u2 <- u3 <- u4 <- u5, so u5's ancestors at levels 1..4 are u4, u3, u2, u1.
func (f *fixture) chain(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	inviter := ""
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5"} {
		_, err := f.uc.CreateAccount(ctx, id, inviter)
		require.NoError(t, err)
		inviter = id
	}
}

func (f *fixture) recharge(t *testing.T, accountID string, amount string) *entity.DistributionReceipt {
	t.Helper()
	ctx := context.Background()
	event, err := f.uc.SubmitRecharge(ctx, accountID, d(amount))
	require.NoError(t, err)
	receipt, err := f.uc.Distribute(ctx, event.ID)
	require.NoError(t, err)
	return receipt
}

func (f *fixture) account(t *testing.T, id string) *entity.Account {
	t.Helper()
	acc, err := f.uc.GetAccount(context.Background(), id)
	require.NoError(t, err)
	return acc
}

func (f *fixture) linkDestination(t *testing.T, accountID string) {
	t.Helper()
	_, err := f.uc.LinkPayoutDestination(context.Background(), entity.PayoutDestination{
		AccountID:     accountID,
		BankName:      "Kasikorn",
		AccountName:   "Somchai",
		AccountNumber: "123-4-56789-0",
	})
	require.NoError(t, err)
}

// setBalance credits an account directly, bypassing distribution.
func (f *fixture) setBalance(t *testing.T, id string, balance string) {
	t.Helper()
	acc := f.account(t, id)
	acc.Balance = d(balance)
	require.NoError(t, f.repo.UpdateAccountBalances(context.Background(), acc))
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(err, kind), "expected %v, got %+v", kind, err)
}

// flakyGateway fails the first n commits with a transient error.
type flakyGateway struct {
	*memory.Repository
	failures atomic.Int32
}

func (g *flakyGateway) BeginLedgerTx(ctx context.Context) (datagateway.LedgerDataGatewayWithTx, error) {
	tx, err := g.Repository.BeginLedgerTx(ctx)
	if err != nil {
		return nil, err
	}
	return &flakyTx{LedgerDataGatewayWithTx: tx, gateway: g}, nil
}

type flakyTx struct {
	datagateway.LedgerDataGatewayWithTx
	gateway *flakyGateway
}

func (t *flakyTx) Commit(ctx context.Context) error {
	if t.gateway.failures.Add(-1) >= 0 {
		return errors.Mark(errors.New("could not serialize access"), errs.Transient)
	}
	return t.LedgerDataGatewayWithTx.Commit(ctx)
}
