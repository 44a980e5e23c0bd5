package postgres

import (
	"math/big"
	"testing"
	"time"

	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gaze-network/commission-ledger/modules/ledger/repository/postgres/gen"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalFromNumeric(t *testing.T) {
	t.Run("normal", func(t *testing.T) {
		numeric := pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}
		result, err := decimalFromNumeric(numeric)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("123.45").Equal(result))
	})
	t.Run("scanned", func(t *testing.T) {
		var numeric pgtype.Numeric
		require.NoError(t, numeric.Scan("1000.5"))
		result, err := decimalFromNumeric(numeric)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("1000.5").Equal(result))
	})
	t.Run("null", func(t *testing.T) {
		result, err := decimalFromNumeric(pgtype.Numeric{})
		require.NoError(t, err)
		assert.True(t, result.IsZero())
	})
	t.Run("nan", func(t *testing.T) {
		_, err := decimalFromNumeric(pgtype.Numeric{NaN: true, Valid: true, Int: big.NewInt(0)})
		assert.Error(t, err)
	})
}

func TestNumericFromDecimal(t *testing.T) {
	for _, s := range []string{"0", "120", "0.05", "-3.125", "123456789012345678901234567890.123456789"} {
		t.Run(s, func(t *testing.T) {
			src := decimal.RequireFromString(s)
			numeric := numericFromDecimal(src)
			assert.True(t, numeric.Valid)

			result, err := decimalFromNumeric(numeric)
			require.NoError(t, err)
			assert.True(t, src.Equal(result), result.String())
		})
	}
}

func TestMapAccount(t *testing.T) {
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	account := &entity.Account{
		ID:                 "u5",
		Balance:            decimal.RequireFromString("10.5"),
		RechargeBalance:    decimal.RequireFromString("1000"),
		LifetimeRecharge:   decimal.RequireFromString("1000"),
		LifetimeWithdrawal: decimal.Zero,
		TeamIncome:         decimal.RequireFromString("10.5"),
		TeamAssets:         decimal.RequireFromString("2000"),
		TeamSize:           3,
		ReferralParents:    [entity.MaxReferralLevel]string{"u4", "u3", "", ""},
		VIPLevel:           1,
		VIPEligible:        true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	params := mapAccountTypeToParams(account)
	assert.Equal(t, pgtype.Text{String: "u4", Valid: true}, params.Parent1)
	assert.False(t, params.Parent3.Valid)

	result, err := mapAccountModelToType(gen.LedgerAccount{
		ID:                 params.ID,
		Balance:            params.Balance,
		RechargeBalance:    params.RechargeBalance,
		LifetimeRecharge:   params.LifetimeRecharge,
		LifetimeWithdrawal: params.LifetimeWithdrawal,
		TeamIncome:         params.TeamIncome,
		TeamAssets:         params.TeamAssets,
		TeamSize:           params.TeamSize,
		Parent1:            params.Parent1,
		Parent2:            params.Parent2,
		Parent3:            params.Parent3,
		Parent4:            params.Parent4,
		VipLevel:           params.VipLevel,
		VipEligible:        params.VipEligible,
		CreatedAt:          params.CreatedAt,
		UpdatedAt:          params.UpdatedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, account.ReferralParents, result.ReferralParents)
	assert.True(t, account.Balance.Equal(result.Balance))
	assert.True(t, account.TeamAssets.Equal(result.TeamAssets))
	assert.Equal(t, account.TeamSize, result.TeamSize)
	assert.Equal(t, account.VIPLevel, result.VIPLevel)
	assert.True(t, result.VIPEligible)
	assert.Equal(t, now, result.CreatedAt)
}

func TestMapRateConfig(t *testing.T) {
	conf := &entity.RateConfig{
		ID:      uuid.New(),
		Version: 2,
		LevelRates: [entity.MaxReferralLevel]decimal.Decimal{
			decimal.NewFromInt(12), decimal.NewFromInt(7), decimal.NewFromInt(4), decimal.NewFromInt(2),
		},
		Tiers: []entity.VIPTier{
			{Level: 1, RequiredTeamSize: 5, RequiredTeamAssets: decimal.RequireFromString("1000.50"), MonthlySalary: decimal.NewFromInt(50)},
		},
		CreatedAt: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC),
	}
	params, err := mapRateConfigTypeToParams(conf)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"level":1,"requiredTeamSize":5,"requiredTeamAssets":"1000.5","monthlySalary":"50"}]`, string(params.Tiers))

	result, err := mapRateConfigModelToType(gen.LedgerRateConfig(params))
	require.NoError(t, err)
	assert.Equal(t, conf.ID, result.ID)
	assert.Equal(t, conf.Version, result.Version)
	assert.True(t, decimal.RequireFromString("0.07").Equal(result.Rate(2)))
	require.Len(t, result.Tiers, 1)
	assert.True(t, decimal.RequireFromString("1000.5").Equal(result.Tiers[0].RequiredTeamAssets))

	t.Run("seeded empty tiers", func(t *testing.T) {
		params.Tiers = []byte("[]")
		result, err := mapRateConfigModelToType(gen.LedgerRateConfig(params))
		require.NoError(t, err)
		assert.Empty(t, result.Tiers)
	})
}

func TestMapWithdrawalRequest(t *testing.T) {
	verifiedAt := time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)
	request := &entity.WithdrawalRequest{
		ID:        uuid.New(),
		AccountID: "w1",
		Amount:    decimal.NewFromInt(200),
		Fee:       decimal.NewFromInt(10),
		NetPayout: decimal.NewFromInt(190),
		Status:    entity.WithdrawalStatusVerified,
		Destination: entity.PayoutDestination{
			BankName:      "Kasikorn",
			AccountName:   "Somchai",
			AccountNumber: "123",
		},
		CreatedAt:  verifiedAt.Add(-time.Hour),
		VerifiedAt: &verifiedAt,
	}
	result, err := mapWithdrawalRequestModelToType(gen.LedgerWithdrawalRequest(mapWithdrawalRequestTypeToParams(request)))
	require.NoError(t, err)
	assert.Equal(t, request.ID, result.ID)
	assert.Equal(t, "Kasikorn", result.Destination.BankName)
	assert.True(t, request.NetPayout.Equal(result.NetPayout))
	require.NotNil(t, result.VerifiedAt)
	assert.Equal(t, verifiedAt, *result.VerifiedAt)
}
