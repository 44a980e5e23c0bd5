package httphandler

import (
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gaze-network/commission-ledger/modules/ledger/usecase"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// maxIDLength bounds account and product ids accepted from clients.
const maxIDLength = 64

type HttpHandler struct {
	usecase *usecase.Usecase
}

func New(usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

// policyError attaches the machine-readable code of a withdrawal or VIP rule to err.
func policyError(err error) error {
	if code, message := entity.Policy(err); code != "" {
		return errs.WithCode(err, message, code)
	}
	return err
}

type account struct {
	ID                 string          `json:"id"`
	Balance            decimal.Decimal `json:"balance"`
	RechargeBalance    decimal.Decimal `json:"rechargeBalance"`
	LifetimeRecharge   decimal.Decimal `json:"lifetimeRecharge"`
	LifetimeWithdrawal decimal.Decimal `json:"lifetimeWithdrawal"`
	TeamIncome         decimal.Decimal `json:"teamIncome"`
	TeamAssets         decimal.Decimal `json:"teamAssets"`
	TeamSize           int64           `json:"teamSize"`
	ReferralParents    []string        `json:"referralParents"`
	VIPLevel           int32           `json:"vipLevel"`
	VIPEligible        bool            `json:"vipEligible"`
	CreatedAt          int64           `json:"createdAt"`
	UpdatedAt          int64           `json:"updatedAt"`
}

func mapAccount(a *entity.Account) *account {
	return &account{
		ID:                 a.ID,
		Balance:            a.Balance,
		RechargeBalance:    a.RechargeBalance,
		LifetimeRecharge:   a.LifetimeRecharge,
		LifetimeWithdrawal: a.LifetimeWithdrawal,
		TeamIncome:         a.TeamIncome,
		TeamAssets:         a.TeamAssets,
		TeamSize:           a.TeamSize,
		ReferralParents:    lo.Compact(a.ReferralParents[:]),
		VIPLevel:           a.VIPLevel,
		VIPEligible:        a.VIPEligible,
		CreatedAt:          a.CreatedAt.Unix(),
		UpdatedAt:          a.UpdatedAt.Unix(),
	}
}

type vipTier struct {
	Level              int32           `json:"level"`
	RequiredTeamSize   int64           `json:"requiredTeamSize"`
	RequiredTeamAssets decimal.Decimal `json:"requiredTeamAssets"`
	MonthlySalary      decimal.Decimal `json:"monthlySalary"`
	FiveYearSalary     decimal.Decimal `json:"fiveYearSalary"`
}

func mapVIPTier(t entity.VIPTier) vipTier {
	return vipTier{
		Level:              t.Level,
		RequiredTeamSize:   t.RequiredTeamSize,
		RequiredTeamAssets: t.RequiredTeamAssets,
		MonthlySalary:      t.MonthlySalary,
		FiveYearSalary:     t.FiveYearSalary(),
	}
}

type payoutDestination struct {
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
}

func mapPayoutDestination(d entity.PayoutDestination) payoutDestination {
	return payoutDestination{
		BankName:      d.BankName,
		AccountName:   d.AccountName,
		AccountNumber: d.AccountNumber,
	}
}
