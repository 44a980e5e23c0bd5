package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/internal/postgres"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gaze-network/commission-ledger/modules/ledger/repository/postgres/gen"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// wrapError maps missing rows to errs.NotFound and marks retryable failures as errs.Transient.
func wrapError(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.WithStack(errs.NotFound)
	}
	return errors.Wrap(postgres.MarkTransient(err), msg)
}

func (r *Repository) GetAccount(ctx context.Context, id string) (*entity.Account, error) {
	model, err := r.queries.GetAccount(ctx, id)
	if err != nil {
		return nil, wrapError(err, "error during query")
	}
	account, err := mapAccountModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &account, nil
}

func (r *Repository) GetAccountsForUpdate(ctx context.Context, ids []string) (map[string]*entity.Account, error) {
	ids = lo.Uniq(ids)
	var (
		models []gen.LedgerAccount
		err    error
	)
	if r.tx != nil {
		models, err = r.queries.GetAccountsForUpdate(ctx, ids)
	} else {
		models, err = r.queries.GetAccountsByIDs(ctx, ids)
	}
	if err != nil {
		return nil, wrapError(err, "error during query")
	}

	result := make(map[string]*entity.Account, len(models))
	for _, model := range models {
		account, err := mapAccountModelToType(model)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		result[account.ID] = &account
	}
	return result, nil
}

func (r *Repository) ListAccounts(ctx context.Context, afterID string, limit int32) ([]*entity.Account, error) {
	models, err := r.queries.ListAccounts(ctx, gen.ListAccountsParams{
		AfterID:    afterID,
		LimitCount: limit,
	})
	if err != nil {
		return nil, wrapError(err, "error during query")
	}
	accounts := make([]*entity.Account, 0, len(models))
	for _, model := range models {
		account, err := mapAccountModelToType(model)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		accounts = append(accounts, &account)
	}
	return accounts, nil
}

func (r *Repository) GetTeamRechargeTotals(ctx context.Context, accountID string) ([entity.MaxReferralLevel]decimal.Decimal, error) {
	var totals [entity.MaxReferralLevel]decimal.Decimal
	row, err := r.queries.GetTeamRechargeTotals(ctx, accountID)
	if err != nil {
		return totals, wrapError(err, "error during query")
	}
	var d numericDecoder
	totals = [entity.MaxReferralLevel]decimal.Decimal{
		d.decimal(row.Level1),
		d.decimal(row.Level2),
		d.decimal(row.Level3),
		d.decimal(row.Level4),
	}
	if d.err != nil {
		return totals, errors.Wrap(d.err, "failed to decode team recharge totals")
	}
	return totals, nil
}

func (r *Repository) GetActiveProductHoldings(ctx context.Context, accountID string) ([]*entity.ProductHolding, error) {
	models, err := r.queries.GetProductHoldings(ctx, accountID)
	if err != nil {
		return nil, wrapError(err, "error during query")
	}
	holdings := make([]*entity.ProductHolding, 0, len(models))
	for _, model := range models {
		holding, err := mapProductHoldingModelToType(model)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		holdings = append(holdings, &holding)
	}
	return holdings, nil
}

func (r *Repository) GetRechargeEvent(ctx context.Context, id string) (*entity.RechargeEvent, error) {
	model, err := r.queries.GetRechargeEvent(ctx, id)
	if err != nil {
		return nil, wrapError(err, "error during query")
	}
	event, err := mapRechargeEventModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &event, nil
}

func (r *Repository) GetRechargeEventForUpdate(ctx context.Context, id string) (*entity.RechargeEvent, error) {
	model, err := r.queries.GetRechargeEventForUpdate(ctx, id)
	if err != nil {
		return nil, wrapError(err, "error during query")
	}
	event, err := mapRechargeEventModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &event, nil
}

func (r *Repository) GetWithdrawalRequest(ctx context.Context, id uuid.UUID) (*entity.WithdrawalRequest, error) {
	model, err := r.queries.GetWithdrawalRequest(ctx, pgUUID(id))
	if err != nil {
		return nil, wrapError(err, "error during query")
	}
	request, err := mapWithdrawalRequestModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &request, nil
}

func (r *Repository) GetWithdrawalRequestForUpdate(ctx context.Context, id uuid.UUID) (*entity.WithdrawalRequest, error) {
	model, err := r.queries.GetWithdrawalRequestForUpdate(ctx, pgUUID(id))
	if err != nil {
		return nil, wrapError(err, "error during query")
	}
	request, err := mapWithdrawalRequestModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &request, nil
}

func (r *Repository) CountWithdrawalRequestsSince(ctx context.Context, accountID string, since time.Time) (int64, error) {
	count, err := r.queries.CountWithdrawalRequestsSince(ctx, gen.CountWithdrawalRequestsSinceParams{
		AccountID: accountID,
		CreatedAt: timestamptz(since),
	})
	if err != nil {
		return 0, wrapError(err, "error during query")
	}
	return count, nil
}

func (r *Repository) SumPendingWithdrawals(ctx context.Context, accountID string) (decimal.Decimal, error) {
	total, err := r.queries.SumPendingWithdrawals(ctx, accountID)
	if err != nil {
		return decimal.Zero, wrapError(err, "error during query")
	}
	sum, err := decimalFromNumeric(total)
	if err != nil {
		return decimal.Zero, errors.WithStack(err)
	}
	return sum, nil
}

func (r *Repository) GetPayoutDestination(ctx context.Context, accountID string) (*entity.PayoutDestination, error) {
	model, err := r.queries.GetPayoutDestination(ctx, accountID)
	if err != nil {
		return nil, wrapError(err, "error during query")
	}
	dest := mapPayoutDestinationModelToType(model)
	return &dest, nil
}

func (r *Repository) GetLatestRateConfig(ctx context.Context) (*entity.RateConfig, error) {
	model, err := r.queries.GetLatestRateConfig(ctx)
	if err != nil {
		return nil, wrapError(err, "error during query")
	}
	conf, err := mapRateConfigModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &conf, nil
}

func (r *Repository) GetUndeliveredNotifications(ctx context.Context, limit int32) ([]*entity.Notification, error) {
	models, err := r.queries.GetUndeliveredNotifications(ctx, limit)
	if err != nil {
		return nil, wrapError(err, "error during query")
	}
	notifications := make([]*entity.Notification, 0, len(models))
	for _, model := range models {
		n, err := mapNotificationModelToType(model)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		notifications = append(notifications, &n)
	}
	return notifications, nil
}

func (r *Repository) CreateAccount(ctx context.Context, account *entity.Account) error {
	if err := r.queries.CreateAccount(ctx, mapAccountTypeToParams(account)); err != nil {
		if postgres.IsUniqueViolation(err) {
			return errors.Wrapf(entity.ErrAccountExists, "account %q", account.ID)
		}
		return wrapError(err, "error during exec")
	}
	return nil
}

func (r *Repository) UpdateAccountBalances(ctx context.Context, account *entity.Account) error {
	affected, err := r.queries.UpdateAccountBalances(ctx, mapAccountTypeToBalancesParams(account))
	if err != nil {
		return wrapError(err, "error during exec")
	}
	if affected == 0 {
		return errors.WithStack(errs.NotFound)
	}
	return nil
}

func (r *Repository) UpdateAccountVIP(ctx context.Context, id string, vipLevel int32, vipEligible bool) error {
	affected, err := r.queries.UpdateAccountVIP(ctx, gen.UpdateAccountVIPParams{
		ID:          id,
		VipLevel:    vipLevel,
		VipEligible: vipEligible,
	})
	if err != nil {
		return wrapError(err, "error during exec")
	}
	if affected == 0 {
		return errors.WithStack(errs.NotFound)
	}
	return nil
}

func (r *Repository) CreateRechargeEvent(ctx context.Context, event *entity.RechargeEvent) error {
	err := r.queries.CreateRechargeEvent(ctx, gen.CreateRechargeEventParams{
		ID:         event.ID,
		AccountID:  event.AccountID,
		Amount:     numericFromDecimal(event.Amount),
		Status:     string(event.Status),
		CreatedAt:  timestamptz(event.CreatedAt),
		VerifiedAt: nullTimestamptz(event.VerifiedAt),
	})
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return errors.Wrapf(errs.Conflict, "recharge event %q already exists", event.ID)
		}
		return wrapError(err, "error during exec")
	}
	return nil
}

func (r *Repository) MarkRechargeEventVerified(ctx context.Context, id string, verifiedAt time.Time) error {
	affected, err := r.queries.MarkRechargeEventVerified(ctx, gen.MarkRechargeEventVerifiedParams{
		ID:         id,
		VerifiedAt: timestamptz(verifiedAt),
	})
	if err != nil {
		return wrapError(err, "error during exec")
	}
	if affected == 0 {
		return errors.WithStack(entity.ErrAlreadyProcessed)
	}
	return nil
}

func (r *Repository) CreateWithdrawalRequest(ctx context.Context, request *entity.WithdrawalRequest) error {
	if err := r.queries.CreateWithdrawalRequest(ctx, mapWithdrawalRequestTypeToParams(request)); err != nil {
		return wrapError(err, "error during exec")
	}
	return nil
}

func (r *Repository) MarkWithdrawalRequestVerified(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error {
	affected, err := r.queries.MarkWithdrawalRequestVerified(ctx, gen.MarkWithdrawalRequestVerifiedParams{
		ID:         pgUUID(id),
		VerifiedAt: timestamptz(verifiedAt),
	})
	if err != nil {
		return wrapError(err, "error during exec")
	}
	if affected == 0 {
		return errors.WithStack(entity.ErrAlreadyConfirmed)
	}
	return nil
}

func (r *Repository) UpsertPayoutDestination(ctx context.Context, dest *entity.PayoutDestination) error {
	err := r.queries.UpsertPayoutDestination(ctx, gen.UpsertPayoutDestinationParams{
		AccountID:     dest.AccountID,
		BankName:      dest.BankName,
		AccountName:   dest.AccountName,
		AccountNumber: dest.AccountNumber,
		UpdatedAt:     timestamptz(dest.UpdatedAt),
	})
	if err != nil {
		return wrapError(err, "error during exec")
	}
	return nil
}

func (r *Repository) CreateProductHolding(ctx context.Context, holding *entity.ProductHolding) error {
	err := r.queries.CreateProductHolding(ctx, gen.CreateProductHoldingParams{
		ID:          holding.ID,
		AccountID:   holding.AccountID,
		ProductID:   holding.ProductID,
		DailyIncome: numericFromDecimal(holding.DailyIncome),
		PurchasedAt: timestamptz(holding.PurchasedAt),
		Active:      holding.Active,
	})
	if err != nil {
		return wrapError(err, "error during exec")
	}
	return nil
}

func (r *Repository) CreateRateConfig(ctx context.Context, conf *entity.RateConfig) error {
	params, err := mapRateConfigTypeToParams(conf)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := r.queries.CreateRateConfig(ctx, params); err != nil {
		if postgres.IsUniqueViolation(err) {
			return errors.Wrapf(entity.ErrRateVersionConflict, "version %d", conf.Version)
		}
		return wrapError(err, "error during exec")
	}
	return nil
}

func (r *Repository) CreateNotifications(ctx context.Context, notifications []*entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := r.queries.BatchCreateNotifications(ctx, mapNotificationTypesToBatchParams(notifications)); err != nil {
		return wrapError(err, "error during exec")
	}
	return nil
}

func (r *Repository) MarkNotificationsDelivered(ctx context.Context, ids []uuid.UUID, deliveredAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.queries.MarkNotificationsDelivered(ctx, gen.MarkNotificationsDeliveredParams{
		DeliveredAt: timestamptz(deliveredAt),
		Ids:         lo.Map(ids, func(id uuid.UUID, _ int) pgtype.UUID { return pgUUID(id) }),
	})
	if err != nil {
		return wrapError(err, "error during exec")
	}
	return nil
}
