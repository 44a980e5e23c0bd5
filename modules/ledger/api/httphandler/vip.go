package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type vipStatus struct {
	AccountID   string          `json:"accountId"`
	VIPLevel    int32           `json:"vipLevel"`
	Eligible    bool            `json:"eligible"`
	TeamSize    int64           `json:"teamSize"`
	TeamAssets  decimal.Decimal `json:"teamAssets"`
	NextTier    *vipTier        `json:"nextTier"`
	RateVersion int64           `json:"rateVersion"`
}

func mapVIPStatus(s *entity.VIPStatus) *vipStatus {
	var next *vipTier
	if s.NextTier != nil {
		t := mapVIPTier(*s.NextTier)
		next = &t
	}
	return &vipStatus{
		AccountID:   s.AccountID,
		VIPLevel:    s.VIPLevel,
		Eligible:    s.Eligible,
		TeamSize:    s.TeamSize,
		TeamAssets:  s.TeamAssets,
		NextTier:    next,
		RateVersion: s.RateVersion,
	}
}

type vipStatusResponse = HttpResponse[vipStatus]

func (h *HttpHandler) GetVIPStatus(ctx *fiber.Ctx) (err error) {
	id, err := parseAccountID(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	status, err := h.usecase.EvaluateVIP(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during EvaluateVIP")
	}

	return errors.WithStack(ctx.JSON(vipStatusResponse{
		Result: mapVIPStatus(status),
	}))
}

func (h *HttpHandler) PromoteVIP(ctx *fiber.Ctx) (err error) {
	id, err := parseAccountID(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	status, err := h.usecase.PromoteVIP(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(policyError(err), "error during PromoteVIP")
	}

	return errors.WithStack(ctx.JSON(vipStatusResponse{
		Result: mapVIPStatus(status),
	}))
}
