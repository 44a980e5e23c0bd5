package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type submitRechargeRequest struct {
	AccountID string          `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
}

func (r submitRechargeRequest) Validate() error {
	var errList []error
	if err := validateID("accountId", r.AccountID); err != nil {
		errList = append(errList, err)
	}
	if !r.Amount.IsPositive() {
		errList = append(errList, errs.NewPublicError("amount must be greater than zero"))
	}
	if len(errList) == 0 {
		return nil
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type rechargeEvent struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"accountId"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	CreatedAt  int64           `json:"createdAt"`
	VerifiedAt *int64          `json:"verifiedAt"`
}

func mapRechargeEvent(e *entity.RechargeEvent) *rechargeEvent {
	var verifiedAt *int64
	if e.VerifiedAt != nil {
		verifiedAt = lo.ToPtr(e.VerifiedAt.Unix())
	}
	return &rechargeEvent{
		ID:         e.ID,
		AccountID:  e.AccountID,
		Amount:     e.Amount,
		Status:     string(e.Status),
		CreatedAt:  e.CreatedAt.Unix(),
		VerifiedAt: verifiedAt,
	}
}

type rechargeEventResponse = HttpResponse[rechargeEvent]

func (h *HttpHandler) SubmitRecharge(ctx *fiber.Ctx) (err error) {
	var req submitRechargeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	event, err := h.usecase.SubmitRecharge(ctx.UserContext(), req.AccountID, req.Amount)
	if err != nil {
		return errors.Wrap(err, "error during SubmitRecharge")
	}

	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(rechargeEventResponse{
		Result: mapRechargeEvent(event),
	}))
}

type rechargeIDRequest struct {
	ID string `params:"id"`
}

func parseRechargeID(ctx *fiber.Ctx) (string, error) {
	var req rechargeIDRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return "", errors.WithStack(err)
	}
	if err := validateID("id", req.ID); err != nil {
		return "", errs.WithPublicMessage(err, "validation error")
	}
	return fiberutils.CopyString(req.ID), nil
}

func (h *HttpHandler) GetRecharge(ctx *fiber.Ctx) (err error) {
	id, err := parseRechargeID(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	event, err := h.usecase.GetRechargeEvent(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during GetRechargeEvent")
	}

	return errors.WithStack(ctx.JSON(rechargeEventResponse{
		Result: mapRechargeEvent(event),
	}))
}

type ancestorCredit struct {
	Level       int             `json:"level"`
	Label       string          `json:"label"`
	AccountID   string          `json:"accountId"`
	Commission  decimal.Decimal `json:"commission"`
	TeamSize    int64           `json:"teamSize"`
	TeamAssets  decimal.Decimal `json:"teamAssets"`
	VIPEligible bool            `json:"vipEligible"`
}

type distributionReceipt struct {
	RechargeEventID string           `json:"rechargeEventId"`
	AccountID       string           `json:"accountId"`
	Amount          decimal.Decimal  `json:"amount"`
	RateVersion     int64            `json:"rateVersion"`
	FirstRecharge   bool             `json:"firstRecharge"`
	TotalCommission decimal.Decimal  `json:"totalCommission"`
	Credits         []ancestorCredit `json:"credits"`
	VerifiedAt      int64            `json:"verifiedAt"`
}

type verifyRechargeResponse = HttpResponse[distributionReceipt]

// VerifyRecharge distributes a pending recharge. Verifying an already verified event is answered as a no-op.
func (h *HttpHandler) VerifyRecharge(ctx *fiber.Ctx) (err error) {
	id, err := parseRechargeID(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	receipt, err := h.usecase.Distribute(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during Distribute")
	}

	return errors.WithStack(ctx.JSON(verifyRechargeResponse{
		Result: &distributionReceipt{
			RechargeEventID: receipt.RechargeEventID,
			AccountID:       receipt.AccountID,
			Amount:          receipt.Amount,
			RateVersion:     receipt.RateVersion,
			FirstRecharge:   receipt.FirstRecharge,
			TotalCommission: receipt.TotalCommission(),
			Credits: lo.Map(receipt.Credits, func(c entity.AncestorCredit, _ int) ancestorCredit {
				return ancestorCredit{
					Level:       c.Level,
					Label:       entity.LevelLabel(c.Level),
					AccountID:   c.AccountID,
					Commission:  c.Commission,
					TeamSize:    c.TeamSize,
					TeamAssets:  c.TeamAssets,
					VIPEligible: c.VIPEligible,
				}
			}),
			VerifiedAt: receipt.VerifiedAt.Unix(),
		},
	}))
}
