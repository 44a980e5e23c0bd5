package retry

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetrier(attempts uint) *Retrier {
	return New(Config{MaxAttempts: attempts, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond})
}

func TestDoRetriesTransient(t *testing.T) {
	var calls, notified int
	r := fastRetrier(5).OnRetry(func(error, time.Duration) { notified++ })

	result, err := Do(context.Background(), r, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.Mark(errors.New("serialization failure"), errs.Transient)
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, notified)
}

func TestDoStopsOnPermanent(t *testing.T) {
	calls := 0
	sentinel := errors.Mark(errors.New("insufficient balance"), errs.PolicyViolation)

	_, err := Do(context.Background(), fastRetrier(5), func() (int, error) {
		calls++
		return 0, sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestDoBoundedAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastRetrier(3), func() (int, error) {
		calls++
		return 0, errors.Mark(errors.New("deadlock"), errs.Transient)
	})
	assert.True(t, errors.Is(err, errs.Transient))
	assert.Equal(t, 3, calls)
}
