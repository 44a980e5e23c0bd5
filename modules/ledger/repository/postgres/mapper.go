package postgres

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gaze-network/commission-ledger/modules/ledger/repository/postgres/gen"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func decimalFromNumeric(src pgtype.Numeric) (decimal.Decimal, error) {
	if !src.Valid || src.Int == nil {
		return decimal.Zero, nil
	}
	if src.NaN || src.InfinityModifier != pgtype.Finite {
		return decimal.Zero, errors.New("numeric is not a finite number")
	}
	return decimal.NewFromBigInt(src.Int, src.Exp), nil
}

func numericFromDecimal(src decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   src.Coefficient(),
		Exp:   src.Exponent(),
		Valid: true,
	}
}

// numericDecoder decodes several numerics and keeps the first error.
type numericDecoder struct {
	err error
}

func (d *numericDecoder) decimal(src pgtype.Numeric) decimal.Decimal {
	if d.err != nil {
		return decimal.Zero
	}
	v, err := decimalFromNumeric(src)
	if err != nil {
		d.err = errors.WithStack(err)
	}
	return v
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func nullTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timestamptz(*t)
}

func timePtr(src pgtype.Timestamptz) *time.Time {
	if !src.Valid {
		return nil
	}
	return lo.ToPtr(src.Time)
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func textFromString(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func mapAccountModelToType(src gen.LedgerAccount) (entity.Account, error) {
	var d numericDecoder
	account := entity.Account{
		ID:                 src.ID,
		Balance:            d.decimal(src.Balance),
		RechargeBalance:    d.decimal(src.RechargeBalance),
		LifetimeRecharge:   d.decimal(src.LifetimeRecharge),
		LifetimeWithdrawal: d.decimal(src.LifetimeWithdrawal),
		TeamIncome:         d.decimal(src.TeamIncome),
		TeamAssets:         d.decimal(src.TeamAssets),
		TeamSize:           src.TeamSize,
		ReferralParents: [entity.MaxReferralLevel]string{
			src.Parent1.String,
			src.Parent2.String,
			src.Parent3.String,
			src.Parent4.String,
		},
		VIPLevel:    src.VipLevel,
		VIPEligible: src.VipEligible,
		CreatedAt:   src.CreatedAt.Time,
		UpdatedAt:   src.UpdatedAt.Time,
	}
	if d.err != nil {
		return entity.Account{}, errors.Wrapf(d.err, "failed to decode account %q", src.ID)
	}
	return account, nil
}

func mapAccountTypeToParams(src *entity.Account) gen.CreateAccountParams {
	return gen.CreateAccountParams{
		ID:                 src.ID,
		Balance:            numericFromDecimal(src.Balance),
		RechargeBalance:    numericFromDecimal(src.RechargeBalance),
		LifetimeRecharge:   numericFromDecimal(src.LifetimeRecharge),
		LifetimeWithdrawal: numericFromDecimal(src.LifetimeWithdrawal),
		TeamIncome:         numericFromDecimal(src.TeamIncome),
		TeamAssets:         numericFromDecimal(src.TeamAssets),
		TeamSize:           src.TeamSize,
		Parent1:            textFromString(src.ReferralParents[0]),
		Parent2:            textFromString(src.ReferralParents[1]),
		Parent3:            textFromString(src.ReferralParents[2]),
		Parent4:            textFromString(src.ReferralParents[3]),
		VipLevel:           src.VIPLevel,
		VipEligible:        src.VIPEligible,
		CreatedAt:          timestamptz(src.CreatedAt),
		UpdatedAt:          timestamptz(src.UpdatedAt),
	}
}

func mapAccountTypeToBalancesParams(src *entity.Account) gen.UpdateAccountBalancesParams {
	return gen.UpdateAccountBalancesParams{
		ID:                 src.ID,
		Balance:            numericFromDecimal(src.Balance),
		RechargeBalance:    numericFromDecimal(src.RechargeBalance),
		LifetimeRecharge:   numericFromDecimal(src.LifetimeRecharge),
		LifetimeWithdrawal: numericFromDecimal(src.LifetimeWithdrawal),
		TeamIncome:         numericFromDecimal(src.TeamIncome),
		TeamAssets:         numericFromDecimal(src.TeamAssets),
		TeamSize:           src.TeamSize,
		VipEligible:        src.VIPEligible,
		UpdatedAt:          timestamptz(src.UpdatedAt),
	}
}

func mapRechargeEventModelToType(src gen.LedgerRechargeEvent) (entity.RechargeEvent, error) {
	amount, err := decimalFromNumeric(src.Amount)
	if err != nil {
		return entity.RechargeEvent{}, errors.Wrapf(err, "failed to decode amount of recharge event %q", src.ID)
	}
	return entity.RechargeEvent{
		ID:         src.ID,
		AccountID:  src.AccountID,
		Amount:     amount,
		Status:     entity.RechargeStatus(src.Status),
		CreatedAt:  src.CreatedAt.Time,
		VerifiedAt: timePtr(src.VerifiedAt),
	}, nil
}

func mapWithdrawalRequestModelToType(src gen.LedgerWithdrawalRequest) (entity.WithdrawalRequest, error) {
	var d numericDecoder
	id := uuid.UUID(src.ID.Bytes)
	request := entity.WithdrawalRequest{
		ID:        id,
		AccountID: src.AccountID,
		Amount:    d.decimal(src.Amount),
		Fee:       d.decimal(src.Fee),
		NetPayout: d.decimal(src.NetPayout),
		Status:    entity.WithdrawalStatus(src.Status),
		Destination: entity.PayoutDestination{
			AccountID:     src.AccountID,
			BankName:      src.BankName,
			AccountName:   src.BankAccountName,
			AccountNumber: src.BankAccountNumber,
			UpdatedAt:     src.CreatedAt.Time,
		},
		CreatedAt:  src.CreatedAt.Time,
		VerifiedAt: timePtr(src.VerifiedAt),
	}
	if d.err != nil {
		return entity.WithdrawalRequest{}, errors.Wrapf(d.err, "failed to decode withdrawal request %s", id)
	}
	return request, nil
}

func mapWithdrawalRequestTypeToParams(src *entity.WithdrawalRequest) gen.CreateWithdrawalRequestParams {
	return gen.CreateWithdrawalRequestParams{
		ID:                pgUUID(src.ID),
		AccountID:         src.AccountID,
		Amount:            numericFromDecimal(src.Amount),
		Fee:               numericFromDecimal(src.Fee),
		NetPayout:         numericFromDecimal(src.NetPayout),
		Status:            string(src.Status),
		BankName:          src.Destination.BankName,
		BankAccountName:   src.Destination.AccountName,
		BankAccountNumber: src.Destination.AccountNumber,
		CreatedAt:         timestamptz(src.CreatedAt),
		VerifiedAt:        nullTimestamptz(src.VerifiedAt),
	}
}

func mapPayoutDestinationModelToType(src gen.LedgerPayoutDestination) entity.PayoutDestination {
	return entity.PayoutDestination{
		AccountID:     src.AccountID,
		BankName:      src.BankName,
		AccountName:   src.AccountName,
		AccountNumber: src.AccountNumber,
		UpdatedAt:     src.UpdatedAt.Time,
	}
}

func mapProductHoldingModelToType(src gen.LedgerProductHolding) (entity.ProductHolding, error) {
	dailyIncome, err := decimalFromNumeric(src.DailyIncome)
	if err != nil {
		return entity.ProductHolding{}, errors.Wrapf(err, "failed to decode daily income of holding %q", src.ID)
	}
	return entity.ProductHolding{
		ID:          src.ID,
		AccountID:   src.AccountID,
		ProductID:   src.ProductID,
		DailyIncome: dailyIncome,
		PurchasedAt: src.PurchasedAt.Time,
		Active:      src.Active,
	}, nil
}

type vipTierJSON struct {
	Level              int32           `json:"level"`
	RequiredTeamSize   int64           `json:"requiredTeamSize"`
	RequiredTeamAssets decimal.Decimal `json:"requiredTeamAssets"`
	MonthlySalary      decimal.Decimal `json:"monthlySalary"`
}

func mapRateConfigModelToType(src gen.LedgerRateConfig) (entity.RateConfig, error) {
	var d numericDecoder
	conf := entity.RateConfig{
		ID:      uuid.UUID(src.ID.Bytes),
		Version: src.Version,
		LevelRates: [entity.MaxReferralLevel]decimal.Decimal{
			d.decimal(src.Level1Rate),
			d.decimal(src.Level2Rate),
			d.decimal(src.Level3Rate),
			d.decimal(src.Level4Rate),
		},
		CreatedAt: src.CreatedAt.Time,
	}
	if d.err != nil {
		return entity.RateConfig{}, errors.Wrapf(d.err, "failed to decode rate configuration version %d", src.Version)
	}

	var tiers []vipTierJSON
	if len(src.Tiers) > 0 {
		if err := json.Unmarshal(src.Tiers, &tiers); err != nil {
			return entity.RateConfig{}, errors.Wrapf(err, "failed to decode tiers of rate configuration version %d", src.Version)
		}
	}
	conf.Tiers = lo.Map(tiers, func(t vipTierJSON, _ int) entity.VIPTier {
		return entity.VIPTier{
			Level:              t.Level,
			RequiredTeamSize:   t.RequiredTeamSize,
			RequiredTeamAssets: t.RequiredTeamAssets,
			MonthlySalary:      t.MonthlySalary,
		}
	})
	return conf, nil
}

func mapRateConfigTypeToParams(src *entity.RateConfig) (gen.CreateRateConfigParams, error) {
	tiers := lo.Map(src.Tiers, func(t entity.VIPTier, _ int) vipTierJSON {
		return vipTierJSON{
			Level:              t.Level,
			RequiredTeamSize:   t.RequiredTeamSize,
			RequiredTeamAssets: t.RequiredTeamAssets,
			MonthlySalary:      t.MonthlySalary,
		}
	})
	tiersJSON, err := json.Marshal(tiers)
	if err != nil {
		return gen.CreateRateConfigParams{}, errors.Wrap(err, "failed to encode tiers")
	}
	return gen.CreateRateConfigParams{
		ID:         pgUUID(src.ID),
		Version:    src.Version,
		Level1Rate: numericFromDecimal(src.LevelRates[0]),
		Level2Rate: numericFromDecimal(src.LevelRates[1]),
		Level3Rate: numericFromDecimal(src.LevelRates[2]),
		Level4Rate: numericFromDecimal(src.LevelRates[3]),
		Tiers:      tiersJSON,
		CreatedAt:  timestamptz(src.CreatedAt),
	}, nil
}

func mapNotificationModelToType(src gen.LedgerNotification) (entity.Notification, error) {
	amount, err := decimalFromNumeric(src.Amount)
	if err != nil {
		return entity.Notification{}, errors.Wrap(err, "failed to decode notification amount")
	}
	return entity.Notification{
		ID:              uuid.UUID(src.ID.Bytes),
		AccountID:       src.AccountID,
		SourceAccountID: src.SourceAccountID,
		RechargeEventID: src.RechargeEventID,
		Level:           int(src.Level),
		Amount:          amount,
		Message:         src.Message,
		CreatedAt:       src.CreatedAt.Time,
		DeliveredAt:     timePtr(src.DeliveredAt),
	}, nil
}

func mapNotificationTypesToBatchParams(src []*entity.Notification) gen.BatchCreateNotificationsParams {
	params := gen.BatchCreateNotificationsParams{
		IDArr:              make([]pgtype.UUID, 0, len(src)),
		AccountIDArr:       make([]string, 0, len(src)),
		SourceAccountIDArr: make([]string, 0, len(src)),
		RechargeEventIDArr: make([]string, 0, len(src)),
		LevelArr:           make([]int16, 0, len(src)),
		AmountArr:          make([]pgtype.Numeric, 0, len(src)),
		MessageArr:         make([]string, 0, len(src)),
		CreatedAtArr:       make([]pgtype.Timestamptz, 0, len(src)),
	}
	for _, n := range src {
		params.IDArr = append(params.IDArr, pgUUID(n.ID))
		params.AccountIDArr = append(params.AccountIDArr, n.AccountID)
		params.SourceAccountIDArr = append(params.SourceAccountIDArr, n.SourceAccountID)
		params.RechargeEventIDArr = append(params.RechargeEventIDArr, n.RechargeEventID)
		params.LevelArr = append(params.LevelArr, int16(n.Level))
		params.AmountArr = append(params.AmountArr, numericFromDecimal(n.Amount))
		params.MessageArr = append(params.MessageArr, n.Message)
		params.CreatedAtArr = append(params.CreatedAtArr, timestamptz(n.CreatedAt))
	}
	return params
}
