package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func (r *Repository) GetAccount(ctx context.Context, id string) (*entity.Account, error) {
	var result *entity.Account
	err := r.view(func(s *state) error {
		acc, ok := s.accounts[id]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		result = &acc
		return nil
	})
	return result, err
}

func (r *Repository) GetAccountsForUpdate(ctx context.Context, ids []string) (map[string]*entity.Account, error) {
	result := make(map[string]*entity.Account, len(ids))
	err := r.view(func(s *state) error {
		for _, id := range lo.Uniq(ids) {
			if acc, ok := s.accounts[id]; ok {
				result[id] = &acc
			}
		}
		return nil
	})
	return result, err
}

func (r *Repository) ListAccounts(ctx context.Context, afterID string, limit int32) ([]*entity.Account, error) {
	var result []*entity.Account
	err := r.view(func(s *state) error {
		ids := lo.Filter(lo.Keys(s.accounts), func(id string, _ int) bool { return id > afterID })
		slices.Sort(ids)
		if limit > 0 && len(ids) > int(limit) {
			ids = ids[:limit]
		}
		result = lo.Map(ids, func(id string, _ int) *entity.Account {
			acc := s.accounts[id]
			return &acc
		})
		return nil
	})
	return result, err
}

func (r *Repository) GetTeamRechargeTotals(ctx context.Context, accountID string) ([entity.MaxReferralLevel]decimal.Decimal, error) {
	var totals [entity.MaxReferralLevel]decimal.Decimal
	for i := range totals {
		totals[i] = decimal.Zero
	}
	err := r.view(func(s *state) error {
		for _, acc := range s.accounts {
			for level := 1; level <= entity.MaxReferralLevel; level++ {
				if parent, ok := acc.Ancestor(level); ok && parent == accountID {
					totals[level-1] = totals[level-1].Add(acc.LifetimeRecharge)
				}
			}
		}
		return nil
	})
	return totals, err
}

func (r *Repository) GetActiveProductHoldings(ctx context.Context, accountID string) ([]*entity.ProductHolding, error) {
	var result []*entity.ProductHolding
	err := r.view(func(s *state) error {
		for _, h := range s.holdings {
			if h.AccountID == accountID && h.Active {
				h := h
				result = append(result, &h)
			}
		}
		slices.SortFunc(result, func(a, b *entity.ProductHolding) int { return strings.Compare(a.ID, b.ID) })
		return nil
	})
	return result, err
}

func (r *Repository) GetRechargeEvent(ctx context.Context, id string) (*entity.RechargeEvent, error) {
	var result *entity.RechargeEvent
	err := r.view(func(s *state) error {
		ev, ok := s.recharges[id]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		result = &ev
		return nil
	})
	return result, err
}

func (r *Repository) GetRechargeEventForUpdate(ctx context.Context, id string) (*entity.RechargeEvent, error) {
	return r.GetRechargeEvent(ctx, id)
}

func (r *Repository) GetWithdrawalRequest(ctx context.Context, id uuid.UUID) (*entity.WithdrawalRequest, error) {
	var result *entity.WithdrawalRequest
	err := r.view(func(s *state) error {
		req, ok := s.withdrawals[id]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		result = &req
		return nil
	})
	return result, err
}

func (r *Repository) GetWithdrawalRequestForUpdate(ctx context.Context, id uuid.UUID) (*entity.WithdrawalRequest, error) {
	return r.GetWithdrawalRequest(ctx, id)
}

func (r *Repository) CountWithdrawalRequestsSince(ctx context.Context, accountID string, since time.Time) (int64, error) {
	var count int64
	err := r.view(func(s *state) error {
		for _, req := range s.withdrawals {
			if req.AccountID == accountID && !req.CreatedAt.Before(since) {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *Repository) SumPendingWithdrawals(ctx context.Context, accountID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.view(func(s *state) error {
		for _, req := range s.withdrawals {
			if req.AccountID == accountID && req.Status == entity.WithdrawalStatusPending {
				sum = sum.Add(req.Amount)
			}
		}
		return nil
	})
	return sum, err
}

func (r *Repository) GetPayoutDestination(ctx context.Context, accountID string) (*entity.PayoutDestination, error) {
	var result *entity.PayoutDestination
	err := r.view(func(s *state) error {
		dest, ok := s.destinations[accountID]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		result = &dest
		return nil
	})
	return result, err
}

func (r *Repository) GetLatestRateConfig(ctx context.Context) (*entity.RateConfig, error) {
	var result *entity.RateConfig
	err := r.view(func(s *state) error {
		if len(s.rateConfigs) == 0 {
			return errors.WithStack(errs.NotFound)
		}
		conf := s.rateConfigs[len(s.rateConfigs)-1]
		conf.Tiers = slices.Clone(conf.Tiers)
		result = &conf
		return nil
	})
	return result, err
}

func (r *Repository) GetUndeliveredNotifications(ctx context.Context, limit int32) ([]*entity.Notification, error) {
	var result []*entity.Notification
	err := r.view(func(s *state) error {
		for _, n := range s.notifications {
			if n.DeliveredAt != nil {
				continue
			}
			n := n
			result = append(result, &n)
			if limit > 0 && len(result) == int(limit) {
				break
			}
		}
		return nil
	})
	return result, err
}

func (r *Repository) CreateAccount(ctx context.Context, account *entity.Account) error {
	return r.update(func(s *state) error {
		if _, ok := s.accounts[account.ID]; ok {
			return errors.WithStack(entity.ErrAccountExists)
		}
		stored := cloneAccount(account)
		s.accounts[stored.ID] = stored
		return nil
	})
}

func (r *Repository) UpdateAccountBalances(ctx context.Context, account *entity.Account) error {
	return r.update(func(s *state) error {
		stored, ok := s.accounts[account.ID]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		stored.Balance = account.Balance
		stored.RechargeBalance = account.RechargeBalance
		stored.LifetimeRecharge = account.LifetimeRecharge
		stored.LifetimeWithdrawal = account.LifetimeWithdrawal
		stored.TeamIncome = account.TeamIncome
		stored.TeamAssets = account.TeamAssets
		stored.TeamSize = account.TeamSize
		stored.VIPEligible = account.VIPEligible
		stored.UpdatedAt = account.UpdatedAt
		s.accounts[account.ID] = stored
		return nil
	})
}

func (r *Repository) UpdateAccountVIP(ctx context.Context, id string, vipLevel int32, vipEligible bool) error {
	return r.update(func(s *state) error {
		stored, ok := s.accounts[id]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		stored.VIPLevel = vipLevel
		stored.VIPEligible = vipEligible
		s.accounts[id] = stored
		return nil
	})
}

func (r *Repository) CreateRechargeEvent(ctx context.Context, event *entity.RechargeEvent) error {
	return r.update(func(s *state) error {
		if _, ok := s.recharges[event.ID]; ok {
			return errors.Wrapf(errs.Conflict, "recharge event %q already exists", event.ID)
		}
		stored := cloneRechargeEvent(event)
		s.recharges[stored.ID] = stored
		return nil
	})
}

func (r *Repository) MarkRechargeEventVerified(ctx context.Context, id string, verifiedAt time.Time) error {
	return r.update(func(s *state) error {
		ev, ok := s.recharges[id]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		if ev.IsVerified() {
			return errors.WithStack(entity.ErrAlreadyProcessed)
		}
		ev.Status = entity.RechargeStatusVerified
		ev.VerifiedAt = &verifiedAt
		s.recharges[id] = ev
		return nil
	})
}

func (r *Repository) CreateWithdrawalRequest(ctx context.Context, request *entity.WithdrawalRequest) error {
	return r.update(func(s *state) error {
		if _, ok := s.withdrawals[request.ID]; ok {
			return errors.Wrapf(errs.Conflict, "withdrawal request %s already exists", request.ID)
		}
		s.withdrawals[request.ID] = cloneWithdrawalRequest(request)
		return nil
	})
}

func (r *Repository) MarkWithdrawalRequestVerified(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error {
	return r.update(func(s *state) error {
		req, ok := s.withdrawals[id]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		if req.IsVerified() {
			return errors.WithStack(entity.ErrAlreadyConfirmed)
		}
		req.Status = entity.WithdrawalStatusVerified
		req.VerifiedAt = &verifiedAt
		s.withdrawals[id] = req
		return nil
	})
}

func (r *Repository) UpsertPayoutDestination(ctx context.Context, dest *entity.PayoutDestination) error {
	return r.update(func(s *state) error {
		stored := clonePayoutDestination(dest)
		s.destinations[stored.AccountID] = stored
		return nil
	})
}

func (r *Repository) CreateProductHolding(ctx context.Context, holding *entity.ProductHolding) error {
	return r.update(func(s *state) error {
		if _, ok := s.holdings[holding.ID]; ok {
			return errors.Wrapf(errs.Conflict, "product holding %q already exists", holding.ID)
		}
		stored := cloneProductHolding(holding)
		s.holdings[stored.ID] = stored
		return nil
	})
}

func (r *Repository) CreateRateConfig(ctx context.Context, conf *entity.RateConfig) error {
	return r.update(func(s *state) error {
		if lo.ContainsBy(s.rateConfigs, func(c entity.RateConfig) bool { return c.Version == conf.Version }) {
			return errors.WithStack(entity.ErrRateVersionConflict)
		}
		stored := *conf
		stored.Tiers = slices.Clone(conf.Tiers)
		s.rateConfigs = append(s.rateConfigs, stored)
		slices.SortFunc(s.rateConfigs, func(a, b entity.RateConfig) int { return int(a.Version - b.Version) })
		return nil
	})
}

func (r *Repository) CreateNotifications(ctx context.Context, notifications []*entity.Notification) error {
	return r.update(func(s *state) error {
		for _, n := range notifications {
			s.notifications = append(s.notifications, cloneNotification(n))
		}
		return nil
	})
}

func (r *Repository) MarkNotificationsDelivered(ctx context.Context, ids []uuid.UUID, deliveredAt time.Time) error {
	return r.update(func(s *state) error {
		for i := range s.notifications {
			if lo.Contains(ids, s.notifications[i].ID) && s.notifications[i].DeliveredAt == nil {
				at := deliveredAt
				s.notifications[i].DeliveredAt = &at
			}
		}
		return nil
	})
}
