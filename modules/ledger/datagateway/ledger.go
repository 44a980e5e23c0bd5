package datagateway

import (
	"context"
	"time"

	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LedgerDataGateway interface {
	LedgerReaderDataGateway
	LedgerWriterDataGateway

	// BeginLedgerTx returns a new LedgerDataGateway with transaction enabled. All write operations performed in this datagateway must be committed to persist changes.
	BeginLedgerTx(ctx context.Context) (LedgerDataGatewayWithTx, error)
}

type LedgerDataGatewayWithTx interface {
	LedgerDataGateway
	Tx
}

type LedgerReaderDataGateway interface {
	// GetAccount returns errs.NotFound if the account does not exist.
	GetAccount(ctx context.Context, id string) (*entity.Account, error)
	// GetAccountsForUpdate locks the given accounts in ascending id order and returns those that exist, keyed by id.
	// Outside a transaction the rows are read without locking.
	GetAccountsForUpdate(ctx context.Context, ids []string) (map[string]*entity.Account, error)
	// ListAccounts returns up to limit accounts with id greater than afterID, ordered by id.
	ListAccounts(ctx context.Context, afterID string, limit int32) ([]*entity.Account, error)
	// GetTeamRechargeTotals returns, per referral level, the sum of lifetime recharge of all descendants at that level.
	GetTeamRechargeTotals(ctx context.Context, accountID string) ([entity.MaxReferralLevel]decimal.Decimal, error)
	GetActiveProductHoldings(ctx context.Context, accountID string) ([]*entity.ProductHolding, error)

	// GetRechargeEvent returns errs.NotFound if the event does not exist.
	GetRechargeEvent(ctx context.Context, id string) (*entity.RechargeEvent, error)
	GetRechargeEventForUpdate(ctx context.Context, id string) (*entity.RechargeEvent, error)

	// GetWithdrawalRequest returns errs.NotFound if the request does not exist.
	GetWithdrawalRequest(ctx context.Context, id uuid.UUID) (*entity.WithdrawalRequest, error)
	GetWithdrawalRequestForUpdate(ctx context.Context, id uuid.UUID) (*entity.WithdrawalRequest, error)
	// CountWithdrawalRequestsSince counts requests of the account created at or after since, regardless of status.
	CountWithdrawalRequestsSince(ctx context.Context, accountID string, since time.Time) (int64, error)
	// SumPendingWithdrawals totals the amounts of the account's requests that are not yet confirmed.
	SumPendingWithdrawals(ctx context.Context, accountID string) (decimal.Decimal, error)
	// GetPayoutDestination returns errs.NotFound if the account has not linked one.
	GetPayoutDestination(ctx context.Context, accountID string) (*entity.PayoutDestination, error)

	// GetLatestRateConfig returns errs.NotFound if no configuration was ever published.
	GetLatestRateConfig(ctx context.Context) (*entity.RateConfig, error)

	// GetUndeliveredNotifications returns the oldest undelivered notifications first.
	GetUndeliveredNotifications(ctx context.Context, limit int32) ([]*entity.Notification, error)
}

type LedgerWriterDataGateway interface {
	// CreateAccount returns errs.Conflict if the id is taken. Referral parents are written only here.
	CreateAccount(ctx context.Context, account *entity.Account) error
	// UpdateAccountBalances persists the monetary counters, team counters and VIP eligibility. Referral parents and VIP level are never touched.
	UpdateAccountBalances(ctx context.Context, account *entity.Account) error
	UpdateAccountVIP(ctx context.Context, id string, vipLevel int32, vipEligible bool) error

	CreateRechargeEvent(ctx context.Context, event *entity.RechargeEvent) error
	// MarkRechargeEventVerified moves a pending event to verified. It returns entity.ErrAlreadyProcessed otherwise.
	MarkRechargeEventVerified(ctx context.Context, id string, verifiedAt time.Time) error

	CreateWithdrawalRequest(ctx context.Context, request *entity.WithdrawalRequest) error
	// MarkWithdrawalRequestVerified moves a pending request to verified. It returns entity.ErrAlreadyConfirmed otherwise.
	MarkWithdrawalRequestVerified(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error
	UpsertPayoutDestination(ctx context.Context, dest *entity.PayoutDestination) error

	CreateProductHolding(ctx context.Context, holding *entity.ProductHolding) error

	// CreateRateConfig returns entity.ErrRateVersionConflict if the version already exists.
	CreateRateConfig(ctx context.Context, conf *entity.RateConfig) error

	CreateNotifications(ctx context.Context, notifications []*entity.Notification) error
	MarkNotificationsDelivered(ctx context.Context, ids []uuid.UUID, deliveredAt time.Time) error
}
