package withdrawalvalidator

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/datagateway"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/validator"
	"github.com/shopspring/decimal"
)

type WithdrawalValidator struct {
	validator.Validator
	policy Policy
}

func New(policy Policy) *WithdrawalValidator {
	v := validator.New()
	return &WithdrawalValidator{
		Validator: *v,
		policy:    policy,
	}
}

func (v *WithdrawalValidator) WithinWindow(now time.Time) bool {
	if !v.Valid {
		return false
	}
	if !v.policy.InWindow(now) {
		return v.Fail(entity.ErrOutsideWindow)
	}
	return v.Valid
}

func (v *WithdrawalValidator) WithinLimits(amount decimal.Decimal) bool {
	if !v.Valid {
		return false
	}
	if amount.LessThan(v.policy.MinAmount) {
		return v.Fail(entity.ErrBelowMinimum)
	}
	if v.policy.MaxAmount.IsPositive() && amount.GreaterThan(v.policy.MaxAmount) {
		return v.Fail(entity.ErrAboveMaximum)
	}
	return v.Valid
}

// WithinFrequency must run inside the transaction that holds the account row lock, so two concurrent
// requests of one account cannot both see zero prior requests.
func (v *WithdrawalValidator) WithinFrequency(ctx context.Context, qtx datagateway.LedgerDataGatewayWithTx, accountID string, now time.Time) (bool, error) {
	if !v.Valid {
		return false, nil
	}
	if v.policy.FrequencyDays <= 0 {
		return v.Valid, nil
	}
	count, err := qtx.CountWithdrawalRequestsSince(ctx, accountID, v.policy.FrequencyWindowStart(now))
	if err != nil {
		v.Valid = false
		return v.Valid, errors.Wrap(err, "failed to count withdrawal requests")
	}
	if count > 0 {
		return v.Fail(entity.ErrFrequencyExceeded), nil
	}
	return v.Valid, nil
}

// SufficientBalance expects account to be read under a row lock.
func (v *WithdrawalValidator) SufficientBalance(account *entity.Account, amount decimal.Decimal) bool {
	if !v.Valid {
		return false
	}
	if amount.GreaterThan(account.Balance) {
		return v.Fail(entity.ErrInsufficientBalance)
	}
	return v.Valid
}

func (v *WithdrawalValidator) PayoutDestinationLinked(ctx context.Context, qtx datagateway.LedgerDataGatewayWithTx, accountID string) (bool, *entity.PayoutDestination, error) {
	if !v.Valid {
		return false, nil, nil
	}
	dest, err := qtx.GetPayoutDestination(ctx, accountID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return v.Fail(entity.ErrNoPayoutDestination), nil, nil
		}
		v.Valid = false
		return v.Valid, nil, errors.Wrap(err, "failed to get payout destination")
	}
	return v.Valid, dest, nil
}
