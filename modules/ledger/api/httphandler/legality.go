package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type legalityReport struct {
	AccountID          string          `json:"accountId"`
	ProductIncome      decimal.Decimal `json:"productIncome"`
	RawTeamIncome      decimal.Decimal `json:"rawTeamIncome"`
	TeamIncomeAllowed  decimal.Decimal `json:"teamIncomeAllowed"`
	Allowance          decimal.Decimal `json:"allowance"`
	Liability          decimal.Decimal `json:"liability"`
	MaxLegalWithdrawal decimal.Decimal `json:"maxLegalWithdrawal"`
	IsLegal            bool            `json:"isLegal"`
	RateVersion        int64           `json:"rateVersion"`
	EvaluatedAt        int64           `json:"evaluatedAt"`
}

type checkLegalityResponse = HttpResponse[legalityReport]

func (h *HttpHandler) CheckLegality(ctx *fiber.Ctx) (err error) {
	id, err := parseAccountID(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	report, err := h.usecase.CheckLegality(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during CheckLegality")
	}

	return errors.WithStack(ctx.JSON(checkLegalityResponse{
		Result: &legalityReport{
			AccountID:          report.AccountID,
			ProductIncome:      report.ProductIncome,
			RawTeamIncome:      report.RawTeamIncome,
			TeamIncomeAllowed:  report.TeamIncomeAllowed,
			Allowance:          report.Allowance,
			Liability:          report.Liability,
			MaxLegalWithdrawal: report.MaxLegalWithdrawal,
			IsLegal:            report.IsLegal,
			RateVersion:        report.RateVersion,
			EvaluatedAt:        report.EvaluatedAt.Unix(),
		},
	}))
}
