package validator

import (
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/shopspring/decimal"
)

// Validator accumulates a chain of checks. Once a check fails, later checks are skipped and Err holds the first failure.
type Validator struct {
	Valid bool
	Err   error
}

func New() *Validator {
	return &Validator{
		Valid: true,
	}
}

// Fail records err as the reason and invalidates the chain.
func (v *Validator) Fail(err error) bool {
	v.Valid = false
	v.Err = err
	return v.Valid
}

func (v *Validator) PositiveAmount(amount decimal.Decimal) bool {
	if !v.Valid {
		return false
	}
	if !amount.IsPositive() {
		return v.Fail(entity.ErrInvalidAmount)
	}
	return v.Valid
}
