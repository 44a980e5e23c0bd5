package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/ledger")

	r.Post("/accounts", h.CreateAccount)
	r.Get("/accounts/:id", h.GetAccount)
	r.Get("/accounts/:id/legality", h.CheckLegality)
	r.Get("/accounts/:id/vip", h.GetVIPStatus)
	r.Post("/accounts/:id/vip/promote", h.PromoteVIP)
	r.Put("/accounts/:id/payout-destination", h.LinkPayoutDestination)
	r.Get("/accounts/:id/payout-destination", h.GetPayoutDestination)
	r.Post("/accounts/:id/holdings", h.AddProductHolding)
	r.Post("/recharges", h.SubmitRecharge)
	r.Get("/recharges/:id", h.GetRecharge)
	r.Post("/recharges/:id/verify", h.VerifyRecharge)
	r.Post("/withdrawals", h.CreateWithdrawal)
	r.Get("/withdrawals/:id", h.GetWithdrawal)
	r.Post("/withdrawals/:id/confirm", h.ConfirmWithdrawal)
	r.Get("/rates", h.GetRateConfig)
	r.Post("/rates", h.PublishRateConfig)
	return nil
}
