package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	withdrawalvalidator "github.com/gaze-network/commission-ledger/modules/ledger/internal/validator/withdrawal"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"github.com/gaze-network/commission-ledger/pkg/metrics"
	"github.com/gaze-network/commission-ledger/pkg/retry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateWithdrawal debits amount from the account and records a pending request.
//
// Checks run in order: withdrawal window, positive amount, min/max limits, then under the account row lock
// the frequency limit, balance and linked payout destination. With legality enforcement on, the amount
// must also fit in the legal allowance left after pending requests. The first failure is returned.
func (u *Usecase) CreateWithdrawal(ctx context.Context, accountID string, amount decimal.Decimal) (*entity.WithdrawalRequest, error) {
	defer observe("create_withdrawal", time.Now())
	ctx = logger.WithContext(ctx, slogx.String("accountId", accountID), slogx.Decimal("amount", amount))

	now := u.now()
	v := withdrawalvalidator.New(u.policy)
	v.WithinWindow(now)
	v.PositiveAmount(amount)
	v.WithinLimits(amount)
	if !v.Valid {
		metrics.Withdrawals.WithLabelValues("create", metrics.ResultRejected).Inc()
		return nil, errors.WithStack(v.Err)
	}

	request, err := retry.Do(ctx, u.retrierFor("create_withdrawal"), func() (*entity.WithdrawalRequest, error) {
		return u.createWithdrawal(ctx, accountID, amount, now)
	})
	if err != nil {
		if errors.Is(err, errs.PolicyViolation) || errors.Is(err, errs.NotFound) {
			metrics.Withdrawals.WithLabelValues("create", metrics.ResultRejected).Inc()
			logger.InfoContext(ctx, "Rejected withdrawal request", slogx.Error(err))
		} else {
			metrics.Withdrawals.WithLabelValues("create", metrics.ResultError).Inc()
		}
		return nil, errors.WithStack(err)
	}

	metrics.Withdrawals.WithLabelValues("create", metrics.ResultSuccess).Inc()
	logger.InfoContext(ctx, "Created withdrawal request",
		slogx.Stringer("requestId", request.ID),
		slogx.Decimal("fee", request.Fee),
		slogx.Decimal("netPayout", request.NetPayout),
	)
	return request, nil
}

func (u *Usecase) createWithdrawal(ctx context.Context, accountID string, amount decimal.Decimal, now time.Time) (*entity.WithdrawalRequest, error) {
	qtx, err := u.ledgerDg.BeginLedgerTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer rollback(ctx, qtx)

	accounts, err := qtx.GetAccountsForUpdate(ctx, []string{accountID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock account")
	}
	account, ok := accounts[accountID]
	if !ok {
		return nil, errors.WithStack(entity.ErrAccountNotFound)
	}

	v := withdrawalvalidator.New(u.policy)
	if _, err := v.WithinFrequency(ctx, qtx, accountID, now); err != nil {
		return nil, errors.WithStack(err)
	}
	v.SufficientBalance(account, amount)
	_, dest, err := v.PayoutDestinationLinked(ctx, qtx, accountID)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !v.Valid {
		return nil, errors.WithStack(v.Err)
	}

	if u.enforceLegality {
		report, err := u.legality(ctx, qtx, account)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		// pending requests are not in the lifetime withdrawal yet but already spend the allowance
		pending, err := qtx.SumPendingWithdrawals(ctx, accountID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to sum pending withdrawals")
		}
		remaining := decimal.Max(decimal.Zero, report.MaxLegalWithdrawal.Sub(pending))
		if amount.GreaterThan(remaining) {
			return nil, errors.Wrapf(entity.ErrExceedsLegalAmount, "max legal withdrawal is %s with %s pending", report.MaxLegalWithdrawal, pending)
		}
	}

	fee := u.policy.Fee(amount)
	request := &entity.WithdrawalRequest{
		ID:          uuid.New(),
		AccountID:   accountID,
		Amount:      amount,
		Fee:         fee,
		NetPayout:   amount.Sub(fee),
		Status:      entity.WithdrawalStatusPending,
		Destination: *dest,
		CreatedAt:   now,
	}
	account.Balance = account.Balance.Sub(amount)
	account.UpdatedAt = now

	if err := qtx.UpdateAccountBalances(ctx, account); err != nil {
		return nil, errors.Wrap(err, "failed to debit account")
	}
	if err := qtx.CreateWithdrawalRequest(ctx, request); err != nil {
		return nil, errors.Wrap(err, "failed to create withdrawal request")
	}
	if err := qtx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}
	return request, nil
}

// ConfirmWithdrawal marks a pending request verified and adds its amount to the account's lifetime withdrawal.
// Confirming twice returns entity.ErrAlreadyConfirmed.
func (u *Usecase) ConfirmWithdrawal(ctx context.Context, requestID uuid.UUID) (*entity.WithdrawalRequest, error) {
	defer observe("confirm_withdrawal", time.Now())
	ctx = logger.WithContext(ctx, slogx.Stringer("requestId", requestID))

	request, err := retry.Do(ctx, u.retrierFor("confirm_withdrawal"), func() (*entity.WithdrawalRequest, error) {
		return u.confirmWithdrawal(ctx, requestID)
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.AlreadyProcessed):
			metrics.Withdrawals.WithLabelValues("confirm", metrics.ResultAlreadyProcessed).Inc()
		case errors.Is(err, errs.NotFound):
			metrics.Withdrawals.WithLabelValues("confirm", metrics.ResultRejected).Inc()
		default:
			metrics.Withdrawals.WithLabelValues("confirm", metrics.ResultError).Inc()
		}
		return nil, errors.WithStack(err)
	}

	metrics.Withdrawals.WithLabelValues("confirm", metrics.ResultSuccess).Inc()
	logger.InfoContext(ctx, "Confirmed withdrawal request", slogx.String("accountId", request.AccountID), slogx.Decimal("amount", request.Amount))
	return request, nil
}

func (u *Usecase) confirmWithdrawal(ctx context.Context, requestID uuid.UUID) (*entity.WithdrawalRequest, error) {
	qtx, err := u.ledgerDg.BeginLedgerTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer rollback(ctx, qtx)

	request, err := qtx.GetWithdrawalRequestForUpdate(ctx, requestID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(entity.ErrRequestNotFound)
		}
		return nil, errors.Wrap(err, "failed to get withdrawal request")
	}
	if request.IsVerified() {
		return nil, errors.WithStack(entity.ErrAlreadyConfirmed)
	}

	accounts, err := qtx.GetAccountsForUpdate(ctx, []string{request.AccountID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock account")
	}
	account, ok := accounts[request.AccountID]
	if !ok {
		return nil, errors.WithStack(entity.ErrAccountNotFound)
	}

	now := u.now()
	account.LifetimeWithdrawal = account.LifetimeWithdrawal.Add(request.Amount)
	account.UpdatedAt = now
	if err := qtx.UpdateAccountBalances(ctx, account); err != nil {
		return nil, errors.Wrap(err, "failed to update account")
	}
	if err := qtx.MarkWithdrawalRequestVerified(ctx, request.ID, now); err != nil {
		return nil, errors.Wrap(err, "failed to mark withdrawal request verified")
	}
	if err := qtx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	request.Status = entity.WithdrawalStatusVerified
	request.VerifiedAt = &now
	return request, nil
}

func (u *Usecase) GetWithdrawal(ctx context.Context, requestID uuid.UUID) (*entity.WithdrawalRequest, error) {
	request, err := u.ledgerDg.GetWithdrawalRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(entity.ErrRequestNotFound)
		}
		return nil, errors.Wrap(err, "failed to get withdrawal request")
	}
	return request, nil
}
