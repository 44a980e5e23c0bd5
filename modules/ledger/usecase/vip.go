package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/vip"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"github.com/gaze-network/commission-ledger/pkg/retry"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// EvaluateVIP computes the VIP standing of an account against the latest tier table without persisting it.
func (u *Usecase) EvaluateVIP(ctx context.Context, accountID string) (*entity.VIPStatus, error) {
	rates, err := u.latestRateConfig(ctx, u.ledgerDg)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	account, err := u.ledgerDg.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(entity.ErrAccountNotFound)
		}
		return nil, errors.Wrap(err, "failed to get account")
	}
	return vipStatus(account, rates), nil
}

func vipStatus(account *entity.Account, rates *entity.RateConfig) *entity.VIPStatus {
	status := &entity.VIPStatus{
		AccountID:   account.ID,
		VIPLevel:    account.VIPLevel,
		Eligible:    vip.Evaluate(account.TeamSize, account.TeamAssets, account.VIPLevel, rates.Tiers),
		TeamSize:    account.TeamSize,
		TeamAssets:  account.TeamAssets,
		RateVersion: rates.Version,
	}
	if next, ok := vip.NextTier(account.VIPLevel, rates.Tiers); ok {
		status.NextTier = &next
	}
	return status
}

// PromoteVIP raises the account one VIP level. It fails with entity.ErrNotVIPEligible unless the
// account currently meets the next tier's thresholds; eligibility is then re-evaluated against the tier after.
func (u *Usecase) PromoteVIP(ctx context.Context, accountID string) (*entity.VIPStatus, error) {
	defer observe("promote_vip", time.Now())

	status, err := retry.Do(ctx, u.retrierFor("promote_vip"), func() (*entity.VIPStatus, error) {
		qtx, err := u.ledgerDg.BeginLedgerTx(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to begin transaction")
		}
		defer rollback(ctx, qtx)

		rates, err := u.latestRateConfig(ctx, qtx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		accounts, err := qtx.GetAccountsForUpdate(ctx, []string{accountID})
		if err != nil {
			return nil, errors.Wrap(err, "failed to lock account")
		}
		account, ok := accounts[accountID]
		if !ok {
			return nil, errors.WithStack(entity.ErrAccountNotFound)
		}
		if !vip.Evaluate(account.TeamSize, account.TeamAssets, account.VIPLevel, rates.Tiers) {
			return nil, errors.WithStack(entity.ErrNotVIPEligible)
		}

		account.VIPLevel++
		account.VIPEligible = vip.Evaluate(account.TeamSize, account.TeamAssets, account.VIPLevel, rates.Tiers)
		if err := qtx.UpdateAccountVIP(ctx, account.ID, account.VIPLevel, account.VIPEligible); err != nil {
			return nil, errors.Wrap(err, "failed to update vip level")
		}
		if err := qtx.Commit(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to commit transaction")
		}
		return vipStatus(account, rates), nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	logger.InfoContext(ctx, "Promoted account", slogx.String("accountId", accountID), slogx.Any("vipLevel", status.VIPLevel))
	return status, nil
}

type SweepResult struct {
	Scanned int64
	Updated int64
}

// SweepVIPEligibility recomputes vipEligible for every account against the latest tier table,
// pageSize accounts per transaction with up to concurrency pages in flight.
func (u *Usecase) SweepVIPEligibility(ctx context.Context, pageSize int32, concurrency int) (SweepResult, error) {
	defer observe("vip_sweep", time.Now())
	if pageSize <= 0 {
		return SweepResult{}, errors.Wrap(errs.InvalidArgument, "page size must be positive")
	}

	rates, err := u.latestRateConfig(ctx, u.ledgerDg)
	if err != nil {
		return SweepResult{}, errors.WithStack(err)
	}

	pages := make(chan []string)
	resultCh := make(chan SweepResult)
	results := make([]SweepResult, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(pages)
		afterID := ""
		for {
			accounts, err := u.ledgerDg.ListAccounts(gctx, afterID, pageSize)
			if err != nil {
				return errors.Wrap(err, "failed to list accounts")
			}
			if len(accounts) == 0 {
				return nil
			}
			ids := lo.Map(accounts, func(a *entity.Account, _ int) string { return a.ID })
			select {
			case pages <- ids:
			case <-gctx.Done():
				return gctx.Err()
			}
			if len(accounts) < int(pageSize) {
				return nil
			}
			afterID = ids[len(ids)-1]
		}
	})

	workers := max(concurrency, 1)
	workerGroup, wctx := errgroup.WithContext(gctx)
	for range workers {
		workerGroup.Go(func() error {
			for ids := range pages {
				if err := wctx.Err(); err != nil {
					return errors.WithStack(err)
				}
				result, err := retry.Do(wctx, u.retrierFor("vip_sweep"), func() (SweepResult, error) {
					return u.sweepPage(wctx, ids, rates)
				})
				if err != nil {
					return errors.WithStack(err)
				}
				resultCh <- result
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(resultCh)
		return workerGroup.Wait()
	})

	for r := range resultCh {
		results = append(results, r)
	}
	if err := g.Wait(); err != nil {
		return SweepResult{}, errors.WithStack(err)
	}

	total := lo.Reduce(results, func(acc SweepResult, r SweepResult, _ int) SweepResult {
		return SweepResult{Scanned: acc.Scanned + r.Scanned, Updated: acc.Updated + r.Updated}
	}, SweepResult{})
	logger.InfoContext(ctx, "Swept VIP eligibility",
		slogx.Int64("scanned", total.Scanned),
		slogx.Int64("updated", total.Updated),
		slogx.Int64("rateVersion", rates.Version),
	)
	return total, nil
}

func (u *Usecase) sweepPage(ctx context.Context, ids []string, rates *entity.RateConfig) (SweepResult, error) {
	qtx, err := u.ledgerDg.BeginLedgerTx(ctx)
	if err != nil {
		return SweepResult{}, errors.Wrap(err, "failed to begin transaction")
	}
	defer rollback(ctx, qtx)

	accounts, err := qtx.GetAccountsForUpdate(ctx, ids)
	if err != nil {
		return SweepResult{}, errors.Wrap(err, "failed to lock accounts")
	}

	result := SweepResult{Scanned: int64(len(accounts))}
	for _, id := range ids {
		account, ok := accounts[id]
		if !ok {
			continue
		}
		eligible := vip.Evaluate(account.TeamSize, account.TeamAssets, account.VIPLevel, rates.Tiers)
		if eligible == account.VIPEligible {
			continue
		}
		if err := qtx.UpdateAccountVIP(ctx, account.ID, account.VIPLevel, eligible); err != nil {
			return SweepResult{}, errors.Wrapf(err, "failed to update account %q", account.ID)
		}
		result.Updated++
	}
	if err := qtx.Commit(ctx); err != nil {
		return SweepResult{}, errors.Wrap(err, "failed to commit transaction")
	}
	return result, nil
}
