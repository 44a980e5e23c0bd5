package entity

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
)

var (
	ErrAccountNotFound     = errors.Wrap(errs.NotFound, "account not found")
	ErrRechargeNotFound    = errors.Wrap(errs.NotFound, "recharge event not found")
	ErrRequestNotFound     = errors.Wrap(errs.NotFound, "withdrawal request not found")
	ErrRateConfigNotFound  = errors.Wrap(errs.NotFound, "rate configuration not found")
	ErrPayoutDestNotFound  = errors.Wrap(errs.NotFound, "payout destination not found")
	ErrAccountExists       = errors.Wrap(errs.Conflict, "account already exists")
	ErrRateVersionConflict = errors.Wrap(errs.Transient, "rate configuration version already exists")

	ErrInvalidAmount          = errors.Wrap(errs.InvalidArgument, "amount must be greater than zero")
	ErrInvalidRateConfig      = errors.Wrap(errs.InvalidArgument, "invalid rate configuration")
	ErrInvalidAccountID       = errors.Wrap(errs.InvalidArgument, "account id is required")
	ErrTooManyReferralParents = errors.Wrap(errs.InvalidArgument, "at most 4 referral parents are allowed")

	ErrAlreadyProcessed = errors.Wrap(errs.AlreadyProcessed, "recharge event already processed")
	ErrAlreadyConfirmed = errors.Wrap(errs.AlreadyProcessed, "withdrawal request already confirmed")

	ErrOutsideWindow       = errors.Wrap(errs.PolicyViolation, "outside withdrawal window")
	ErrBelowMinimum        = errors.Wrap(errs.PolicyViolation, "amount is below the minimum withdrawal")
	ErrAboveMaximum        = errors.Wrap(errs.PolicyViolation, "amount is above the maximum withdrawal")
	ErrFrequencyExceeded   = errors.Wrap(errs.PolicyViolation, "withdrawal frequency exceeded")
	ErrInsufficientBalance = errors.Wrap(errs.PolicyViolation, "insufficient balance")
	ErrNoPayoutDestination = errors.Wrap(errs.PolicyViolation, "no payout destination linked")
	ErrNotVIPEligible      = errors.Wrap(errs.PolicyViolation, "account is not eligible for the next VIP tier")
	ErrExceedsLegalAmount  = errors.Wrap(errs.PolicyViolation, "amount exceeds the legal withdrawal allowance")
)

// PolicyCode returns the machine-readable code of a policy violation, or "" if err is not one.
func PolicyCode(err error) string {
	code, _ := Policy(err)
	return code
}

// Policy returns the code and user-facing message of the rule err violates.
func Policy(err error) (code string, message string) {
	for _, p := range policies {
		if errors.Is(err, p.err) {
			return p.code, p.message
		}
	}
	return "", ""
}

var policies = []struct {
	err     error
	code    string
	message string
}{
	{ErrOutsideWindow, "OUTSIDE_WINDOW", "outside withdrawal window"},
	{ErrBelowMinimum, "BELOW_MINIMUM", "amount is below the minimum withdrawal"},
	{ErrAboveMaximum, "ABOVE_MAXIMUM", "amount is above the maximum withdrawal"},
	{ErrFrequencyExceeded, "FREQUENCY_EXCEEDED", "withdrawal frequency exceeded"},
	{ErrInsufficientBalance, "INSUFFICIENT_BALANCE", "insufficient balance"},
	{ErrNoPayoutDestination, "NO_PAYOUT_DESTINATION", "no payout destination linked"},
	{ErrNotVIPEligible, "NOT_VIP_ELIGIBLE", "account is not eligible for the next VIP tier"},
	{ErrExceedsLegalAmount, "EXCEEDS_LEGAL_AMOUNT", "amount exceeds the legal withdrawal allowance"},
}
