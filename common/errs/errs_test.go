package errs

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestPublicErrorKeepsKind(t *testing.T) {
	base := errors.Wrap(PolicyViolation, "outside withdrawal window")
	err := WithCode(base, "outside withdrawal window", "OUTSIDE_WINDOW")

	var pub *PublicError
	if assert.True(t, errors.As(err, &pub)) {
		assert.Equal(t, "outside withdrawal window", pub.Message())
		assert.Equal(t, "OUTSIDE_WINDOW", pub.Code())
	}
	assert.True(t, errors.Is(err, PolicyViolation))
	assert.True(t, errors.Is(err, base))
	assert.False(t, errors.Is(err, NotFound))
}

func TestWithPublicMessageNil(t *testing.T) {
	assert.NoError(t, WithPublicMessage(nil, "prefix"))
}

func TestWithPublicMessagePrefix(t *testing.T) {
	err := WithPublicMessage(errors.New("amount must be positive"), "validation error")
	var pub *PublicError
	if assert.True(t, errors.As(err, &pub)) {
		assert.Equal(t, "validation error: amount must be positive", pub.Message())
		assert.Empty(t, pub.Code())
	}
}

func TestSentinelsOfOneKindStayDistinct(t *testing.T) {
	outsideWindow := errors.Wrap(PolicyViolation, "outside withdrawal window")
	belowMinimum := errors.Wrap(PolicyViolation, "amount is below the minimum withdrawal")

	assert.True(t, errors.Is(belowMinimum, PolicyViolation))
	assert.False(t, errors.Is(belowMinimum, outsideWindow))
	assert.False(t, errors.Is(outsideWindow, belowMinimum))
	assert.True(t, errors.Is(errors.Wrap(belowMinimum, "create withdrawal"), belowMinimum))
}

func TestWithCodeNil(t *testing.T) {
	assert.NoError(t, WithCode(nil, "message", "CODE"))
}
