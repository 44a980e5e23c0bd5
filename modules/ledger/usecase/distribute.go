package usecase

import (
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/datagateway"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/vip"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"github.com/gaze-network/commission-ledger/pkg/metrics"
	"github.com/gaze-network/commission-ledger/pkg/retry"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Distribute applies a verified recharge to the recharging account and its referral chain.
//
// All effects commit in one transaction or none do. On the account's first recharge every populated ancestor
// gains one team member and a commission at its level's rate; on later recharges only team assets grow.
// A recharge event that is already verified returns entity.ErrAlreadyProcessed and changes nothing.
func (u *Usecase) Distribute(ctx context.Context, rechargeEventID string) (*entity.DistributionReceipt, error) {
	defer observe("distribute", time.Now())
	ctx = logger.WithContext(ctx, slogx.String("rechargeEventId", rechargeEventID))

	// one snapshot per call, reused across retries
	rates, err := u.latestRateConfig(ctx, u.ledgerDg)
	if err != nil {
		metrics.Distributions.WithLabelValues(metrics.ResultError).Inc()
		return nil, errors.WithStack(err)
	}

	receipt, err := retry.Do(ctx, u.retrierFor("distribute"), func() (*entity.DistributionReceipt, error) {
		return u.distribute(ctx, rechargeEventID, rates)
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.AlreadyProcessed):
			metrics.Distributions.WithLabelValues(metrics.ResultAlreadyProcessed).Inc()
			logger.DebugContext(ctx, "Recharge event already processed")
		case errors.Is(err, errs.InvalidArgument), errors.Is(err, errs.NotFound):
			metrics.Distributions.WithLabelValues(metrics.ResultRejected).Inc()
		default:
			metrics.Distributions.WithLabelValues(metrics.ResultError).Inc()
		}
		return nil, errors.WithStack(err)
	}

	metrics.Distributions.WithLabelValues(metrics.ResultSuccess).Inc()
	for _, credit := range receipt.Credits {
		if credit.Commission.IsPositive() {
			metrics.CommissionCredited.WithLabelValues(strconv.Itoa(credit.Level)).Add(credit.Commission.InexactFloat64())
		}
	}
	logger.InfoContext(ctx, "Distributed recharge",
		slogx.String("accountId", receipt.AccountID),
		slogx.Decimal("amount", receipt.Amount),
		slogx.Bool("firstRecharge", receipt.FirstRecharge),
		slogx.Decimal("totalCommission", receipt.TotalCommission()),
		slogx.Int64("rateVersion", receipt.RateVersion),
	)
	return receipt, nil
}

func (u *Usecase) distribute(ctx context.Context, rechargeEventID string, rates *entity.RateConfig) (*entity.DistributionReceipt, error) {
	qtx, err := u.ledgerDg.BeginLedgerTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer rollback(ctx, qtx)

	event, err := qtx.GetRechargeEventForUpdate(ctx, rechargeEventID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(entity.ErrRechargeNotFound)
		}
		return nil, errors.Wrap(err, "failed to get recharge event")
	}
	if event.IsVerified() {
		return nil, errors.WithStack(entity.ErrAlreadyProcessed)
	}
	if !event.Amount.IsPositive() {
		return nil, errors.WithStack(entity.ErrInvalidAmount)
	}

	// referral parents never change after signup, so an unlocked read is enough to know which rows to lock
	owner, err := qtx.GetAccount(ctx, event.AccountID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.Wrapf(entity.ErrAccountNotFound, "recharging account %q", event.AccountID)
		}
		return nil, errors.Wrap(err, "failed to get account")
	}

	ids := []string{owner.ID}
	for level := 1; level <= entity.MaxReferralLevel; level++ {
		if ancestorID, ok := owner.Ancestor(level); ok {
			ids = append(ids, ancestorID)
		}
	}
	ids = lo.Uniq(ids)
	slices.Sort(ids)

	accounts, err := qtx.GetAccountsForUpdate(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock accounts")
	}
	for _, id := range ids {
		if _, ok := accounts[id]; !ok {
			return nil, errors.Wrapf(entity.ErrAccountNotFound, "account %q", id)
		}
	}

	now := u.now()
	self := accounts[owner.ID]
	firstRecharge := !self.HasRecharged()
	self.LifetimeRecharge = self.LifetimeRecharge.Add(event.Amount)
	self.RechargeBalance = self.RechargeBalance.Add(event.Amount)
	self.UpdatedAt = now

	receipt := &entity.DistributionReceipt{
		RechargeEventID: event.ID,
		AccountID:       self.ID,
		Amount:          event.Amount,
		RateVersion:     rates.Version,
		FirstRecharge:   firstRecharge,
		VerifiedAt:      now,
	}
	notifications := make([]*entity.Notification, 0, entity.MaxReferralLevel)
	for level := 1; level <= entity.MaxReferralLevel; level++ {
		ancestorID, ok := self.Ancestor(level)
		if !ok {
			continue
		}
		// an account listed at two levels is the same pointer and receives both credits
		ancestor := accounts[ancestorID]
		ancestor.TeamAssets = ancestor.TeamAssets.Add(event.Amount)

		commission := decimal.Zero
		if firstRecharge {
			commission = rates.Rate(level).Mul(event.Amount)
			ancestor.TeamSize++
			ancestor.Balance = ancestor.Balance.Add(commission)
			ancestor.TeamIncome = ancestor.TeamIncome.Add(commission)
			if commission.IsPositive() {
				notifications = append(notifications, entity.NewRewardNotification(ancestor.ID, self.ID, event.ID, level, commission, now))
			}
		}
		ancestor.VIPEligible = vip.Evaluate(ancestor.TeamSize, ancestor.TeamAssets, ancestor.VIPLevel, rates.Tiers)
		ancestor.UpdatedAt = now

		receipt.Credits = append(receipt.Credits, entity.AncestorCredit{
			Level:       level,
			AccountID:   ancestor.ID,
			Commission:  commission,
			TeamSize:    ancestor.TeamSize,
			TeamAssets:  ancestor.TeamAssets,
			VIPEligible: ancestor.VIPEligible,
		})
	}

	for _, id := range ids {
		if err := qtx.UpdateAccountBalances(ctx, accounts[id]); err != nil {
			return nil, errors.Wrapf(err, "failed to update account %q", id)
		}
	}
	if err := qtx.MarkRechargeEventVerified(ctx, event.ID, now); err != nil {
		return nil, errors.Wrap(err, "failed to mark recharge event verified")
	}
	if len(notifications) > 0 {
		if err := qtx.CreateNotifications(ctx, notifications); err != nil {
			return nil, errors.Wrap(err, "failed to create reward notifications")
		}
	}
	if err := qtx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}
	return receipt, nil
}

// latestRateConfig maps a missing configuration to entity.ErrRateConfigNotFound.
func (u *Usecase) latestRateConfig(ctx context.Context, reader datagateway.LedgerReaderDataGateway) (*entity.RateConfig, error) {
	rates, err := reader.GetLatestRateConfig(ctx)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(entity.ErrRateConfigNotFound)
		}
		return nil, errors.Wrap(err, "failed to get latest rate configuration")
	}
	return rates, nil
}
