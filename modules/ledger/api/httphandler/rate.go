package httphandler

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type rateConfig struct {
	ID         uuid.UUID         `json:"id"`
	Version    int64             `json:"version"`
	LevelRates []decimal.Decimal `json:"levelRates"`
	Tiers      []vipTier         `json:"tiers"`
	CreatedAt  int64             `json:"createdAt"`
}

func mapRateConfig(c *entity.RateConfig) *rateConfig {
	return &rateConfig{
		ID:         c.ID,
		Version:    c.Version,
		LevelRates: c.LevelRates[:],
		Tiers: lo.Map(c.Tiers, func(t entity.VIPTier, _ int) vipTier {
			return mapVIPTier(t)
		}),
		CreatedAt: c.CreatedAt.Unix(),
	}
}

type rateConfigResponse = HttpResponse[rateConfig]

func (h *HttpHandler) GetRateConfig(ctx *fiber.Ctx) (err error) {
	config, err := h.usecase.GetRateConfig(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetRateConfig")
	}

	return errors.WithStack(ctx.JSON(rateConfigResponse{
		Result: mapRateConfig(config),
	}))
}

type vipTierRequest struct {
	Level              int32           `json:"level"`
	RequiredTeamSize   int64           `json:"requiredTeamSize"`
	RequiredTeamAssets decimal.Decimal `json:"requiredTeamAssets"`
	MonthlySalary      decimal.Decimal `json:"monthlySalary"`
}

type publishRateConfigRequest struct {
	// LevelRates are percentages for level A to D, e.g. ["12", "7", "4", "2"].
	LevelRates []decimal.Decimal `json:"levelRates"`
	Tiers      []vipTierRequest  `json:"tiers"`
}

func (r publishRateConfigRequest) Validate() error {
	if len(r.LevelRates) != entity.MaxReferralLevel {
		return errs.NewPublicError(fmt.Sprintf("validation error: levelRates must have exactly %d entries", entity.MaxReferralLevel))
	}
	return nil
}

func (h *HttpHandler) PublishRateConfig(ctx *fiber.Ctx) (err error) {
	var req publishRateConfigRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	var levelRates [entity.MaxReferralLevel]decimal.Decimal
	copy(levelRates[:], req.LevelRates)
	tiers := lo.Map(req.Tiers, func(t vipTierRequest, _ int) entity.VIPTier {
		return entity.VIPTier{
			Level:              t.Level,
			RequiredTeamSize:   t.RequiredTeamSize,
			RequiredTeamAssets: t.RequiredTeamAssets,
			MonthlySalary:      t.MonthlySalary,
		}
	})

	config, err := h.usecase.PublishRateConfig(ctx.UserContext(), levelRates, tiers)
	if err != nil {
		if errors.Is(err, errs.InvalidArgument) {
			return errs.WithPublicMessage(err, "validation error")
		}
		return errors.Wrap(err, "error during PublishRateConfig")
	}

	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(rateConfigResponse{
		Result: mapRateConfig(config),
	}))
}
