package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccount signs up an account. When inviterID is set, the referral chain is the inviter followed by
// the inviter's own first three ancestors; it is fixed from here on.
func (u *Usecase) CreateAccount(ctx context.Context, id string, inviterID string) (*entity.Account, error) {
	var parents []string
	if inviterID != "" {
		inviter, err := u.ledgerDg.GetAccount(ctx, inviterID)
		if err != nil {
			if errors.Is(err, errs.NotFound) {
				return nil, errors.Wrapf(entity.ErrAccountNotFound, "inviter %q", inviterID)
			}
			return nil, errors.Wrap(err, "failed to get inviter")
		}
		parents = append(parents, inviter.ID)
		for level := 1; level < entity.MaxReferralLevel; level++ {
			ancestorID, _ := inviter.Ancestor(level)
			parents = append(parents, ancestorID)
		}
	}

	account, err := entity.NewAccount(id, parents, u.now())
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := u.ledgerDg.CreateAccount(ctx, account); err != nil {
		return nil, errors.Wrap(err, "failed to create account")
	}

	logger.InfoContext(ctx, "Created account", slogx.String("accountId", id), slogx.String("inviterId", inviterID))
	return account, nil
}

func (u *Usecase) GetAccount(ctx context.Context, id string) (*entity.Account, error) {
	account, err := u.ledgerDg.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(entity.ErrAccountNotFound)
		}
		return nil, errors.Wrap(err, "failed to get account")
	}
	return account, nil
}

// LinkPayoutDestination sets the bank details copied into future withdrawal requests.
// Requests already created keep the details they were created with.
func (u *Usecase) LinkPayoutDestination(ctx context.Context, dest entity.PayoutDestination) (*entity.PayoutDestination, error) {
	if dest.BankName == "" || dest.AccountName == "" || dest.AccountNumber == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "bank name, account name and account number are required")
	}
	if _, err := u.GetAccount(ctx, dest.AccountID); err != nil {
		return nil, errors.WithStack(err)
	}

	dest.UpdatedAt = u.now()
	if err := u.ledgerDg.UpsertPayoutDestination(ctx, &dest); err != nil {
		return nil, errors.Wrap(err, "failed to upsert payout destination")
	}
	return &dest, nil
}

func (u *Usecase) GetPayoutDestination(ctx context.Context, accountID string) (*entity.PayoutDestination, error) {
	dest, err := u.ledgerDg.GetPayoutDestination(ctx, accountID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(entity.ErrPayoutDestNotFound)
		}
		return nil, errors.Wrap(err, "failed to get payout destination")
	}
	return dest, nil
}

// AddProductHolding records a product purchase. Holdings only feed the product income of the legality check.
func (u *Usecase) AddProductHolding(ctx context.Context, accountID, productID string, dailyIncome decimal.Decimal, purchasedAt time.Time) (*entity.ProductHolding, error) {
	if productID == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "product id is required")
	}
	if dailyIncome.IsNegative() {
		return nil, errors.Wrap(errs.InvalidArgument, "daily income must not be negative")
	}
	if _, err := u.GetAccount(ctx, accountID); err != nil {
		return nil, errors.WithStack(err)
	}
	if purchasedAt.IsZero() {
		purchasedAt = u.now()
	}

	holding := &entity.ProductHolding{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		ProductID:   productID,
		DailyIncome: dailyIncome,
		PurchasedAt: purchasedAt,
		Active:      true,
	}
	if err := u.ledgerDg.CreateProductHolding(ctx, holding); err != nil {
		return nil, errors.Wrap(err, "failed to create product holding")
	}
	return holding, nil
}
