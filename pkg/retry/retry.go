// Package retry re-runs operations that failed with errs.Transient using bounded exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
)

const (
	DefaultMaxAttempts     = 5
	DefaultInitialInterval = 20 * time.Millisecond
	DefaultMaxInterval     = time.Second
)

type Config struct {
	MaxAttempts     uint          `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
}

// Retrier runs operations until they succeed, fail with a non-transient error, or exhaust MaxAttempts.
type Retrier struct {
	conf    Config
	onRetry func(err error, wait time.Duration)
}

func New(conf Config) *Retrier {
	if conf.MaxAttempts == 0 {
		conf.MaxAttempts = DefaultMaxAttempts
	}
	if conf.InitialInterval <= 0 {
		conf.InitialInterval = DefaultInitialInterval
	}
	if conf.MaxInterval <= 0 {
		conf.MaxInterval = DefaultMaxInterval
	}
	return &Retrier{conf: conf}
}

// OnRetry returns a copy of r that calls fn before each wait.
func (r *Retrier) OnRetry(fn func(err error, wait time.Duration)) *Retrier {
	clone := *r
	clone.onRetry = fn
	return &clone
}

// Do runs op. Only errors marked errs.Transient are retried; the last error is returned as is.
func Do[T any](ctx context.Context, r *Retrier, op func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.conf.InitialInterval
	b.MaxInterval = r.conf.MaxInterval

	return backoff.Retry(ctx, func() (T, error) {
		result, err := op()
		if err != nil && !errors.Is(err, errs.Transient) {
			return result, backoff.Permanent(err)
		}
		return result, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(r.conf.MaxAttempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			logger.WarnContext(ctx, "Transient failure, retrying", slogx.Error(err), slogx.Duration("wait", wait))
			if r.onRetry != nil {
				r.onRetry(err, wait)
			}
		}),
	)
}
