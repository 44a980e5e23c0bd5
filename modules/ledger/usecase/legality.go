package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/datagateway"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/shopspring/decimal"
)

// TeamIncomeHaircut is the share of raw team income that does not count toward the legal allowance.
var TeamIncomeHaircut = decimal.RequireFromString("0.10")

// CheckLegality reports whether the account's balance plus lifetime withdrawals is covered by
// its product income and the haircut team income implied by its descendants' recharges.
// It never modifies state.
func (u *Usecase) CheckLegality(ctx context.Context, accountID string) (*entity.LegalityReport, error) {
	defer observe("check_legality", time.Now())

	// reads share one transaction so the report is computed from a consistent view
	qtx, err := u.ledgerDg.BeginLedgerTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer rollback(ctx, qtx)

	account, err := qtx.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(entity.ErrAccountNotFound)
		}
		return nil, errors.Wrap(err, "failed to get account")
	}
	return u.legality(ctx, qtx, account)
}

func (u *Usecase) legality(ctx context.Context, reader datagateway.LedgerReaderDataGateway, account *entity.Account) (*entity.LegalityReport, error) {
	rates, err := u.latestRateConfig(ctx, reader)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	holdings, err := reader.GetActiveProductHoldings(ctx, account.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get product holdings")
	}
	totals, err := reader.GetTeamRechargeTotals(ctx, account.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get team recharge totals")
	}
	return computeLegality(account, holdings, totals, rates, u.now()), nil
}

func computeLegality(account *entity.Account, holdings []*entity.ProductHolding, teamRechargeTotals [entity.MaxReferralLevel]decimal.Decimal, rates *entity.RateConfig, now time.Time) *entity.LegalityReport {
	productIncome := decimal.Zero
	for _, h := range holdings {
		if h.Active {
			productIncome = productIncome.Add(h.AccruedIncome(now))
		}
	}

	rawTeamIncome := decimal.Zero
	for i, total := range teamRechargeTotals {
		rawTeamIncome = rawTeamIncome.Add(total.Mul(rates.Rate(i + 1)))
	}
	teamIncomeAllowed := rawTeamIncome.Mul(decimal.NewFromInt(1).Sub(TeamIncomeHaircut))

	allowance := productIncome.Add(teamIncomeAllowed)
	liability := account.Balance.Add(account.LifetimeWithdrawal)
	maxLegal := decimal.Max(decimal.Zero, allowance.Sub(account.LifetimeWithdrawal))

	return &entity.LegalityReport{
		AccountID:          account.ID,
		ProductIncome:      productIncome,
		RawTeamIncome:      rawTeamIncome,
		TeamIncomeAllowed:  teamIncomeAllowed,
		Allowance:          allowance,
		Liability:          liability,
		MaxLegalWithdrawal: maxLegal,
		IsLegal:            liability.LessThanOrEqual(allowance),
		RateVersion:        rates.Version,
		EvaluatedAt:        now,
	}
}
