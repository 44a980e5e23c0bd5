package usecase

import (
	"context"
	"time"

	"github.com/gaze-network/commission-ledger/modules/ledger/datagateway"
	withdrawalvalidator "github.com/gaze-network/commission-ledger/modules/ledger/internal/validator/withdrawal"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/metrics"
	"github.com/gaze-network/commission-ledger/pkg/retry"
)

type Usecase struct {
	ledgerDg datagateway.LedgerDataGateway
	policy   withdrawalvalidator.Policy
	retrier  *retry.Retrier
	now      func() time.Time

	// enforceLegality rejects withdrawals above the account's legal allowance.
	enforceLegality bool
}

type Option func(*Usecase)

// WithClock overrides the wall clock used for timestamps, withdrawal windows and product yield.
func WithClock(now func() time.Time) Option {
	return func(u *Usecase) {
		u.now = now
	}
}

// WithRetrier overrides the retrier used for transient commit failures.
func WithRetrier(r *retry.Retrier) Option {
	return func(u *Usecase) {
		u.retrier = r
	}
}

// WithLegalityEnforcement makes CreateWithdrawal reject amounts above the legal allowance.
func WithLegalityEnforcement(enabled bool) Option {
	return func(u *Usecase) {
		u.enforceLegality = enabled
	}
}

func New(ledgerDg datagateway.LedgerDataGateway, policy withdrawalvalidator.Policy, opts ...Option) *Usecase {
	u := &Usecase{
		ledgerDg: ledgerDg,
		policy:   policy,
		retrier:  retry.New(retry.Config{}),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// rollback is deferred right after a transaction begins. It is a no-op once the transaction is committed.
func rollback(ctx context.Context, tx datagateway.Tx) {
	if err := tx.Rollback(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to rollback transaction", err)
	}
}

// observe records the duration of an operation. Usage: defer observe("distribute", time.Now()).
func observe(operation string, start time.Time) {
	metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// retrierFor returns a retrier that counts retries of operation.
func (u *Usecase) retrierFor(operation string) *retry.Retrier {
	counter := metrics.Retries.WithLabelValues(operation)
	return u.retrier.OnRetry(func(error, time.Duration) {
		counter.Inc()
	})
}
