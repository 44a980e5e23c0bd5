package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/validator"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmitRecharge records a pending recharge awaiting admin verification. It has no effect on balances until Distribute.
func (u *Usecase) SubmitRecharge(ctx context.Context, accountID string, amount decimal.Decimal) (*entity.RechargeEvent, error) {
	v := validator.New()
	if !v.PositiveAmount(amount) {
		return nil, errors.WithStack(v.Err)
	}
	if _, err := u.GetAccount(ctx, accountID); err != nil {
		return nil, errors.WithStack(err)
	}

	event := &entity.RechargeEvent{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Amount:    amount,
		Status:    entity.RechargeStatusPending,
		CreatedAt: u.now(),
	}
	if err := u.ledgerDg.CreateRechargeEvent(ctx, event); err != nil {
		return nil, errors.Wrap(err, "failed to create recharge event")
	}

	logger.InfoContext(ctx, "Submitted recharge", slogx.String("rechargeEventId", event.ID), slogx.String("accountId", accountID), slogx.Decimal("amount", amount))
	return event, nil
}

func (u *Usecase) GetRechargeEvent(ctx context.Context, id string) (*entity.RechargeEvent, error) {
	event, err := u.ledgerDg.GetRechargeEvent(ctx, id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(entity.ErrRechargeNotFound)
		}
		return nil, errors.Wrap(err, "failed to get recharge event")
	}
	return event, nil
}
