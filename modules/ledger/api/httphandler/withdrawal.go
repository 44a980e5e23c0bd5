package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type createWithdrawalRequest struct {
	AccountID string          `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
}

func (r createWithdrawalRequest) Validate() error {
	if err := validateID("accountId", r.AccountID); err != nil {
		return errs.WithPublicMessage(err, "validation error")
	}
	return nil
}

type withdrawalRequest struct {
	ID          uuid.UUID         `json:"id"`
	AccountID   string            `json:"accountId"`
	Amount      decimal.Decimal   `json:"amount"`
	Fee         decimal.Decimal   `json:"fee"`
	NetPayout   decimal.Decimal   `json:"netPayout"`
	Status      string            `json:"status"`
	Destination payoutDestination `json:"destination"`
	CreatedAt   int64             `json:"createdAt"`
	VerifiedAt  *int64            `json:"verifiedAt"`
}

func mapWithdrawalRequest(w *entity.WithdrawalRequest) *withdrawalRequest {
	var verifiedAt *int64
	if w.VerifiedAt != nil {
		verifiedAt = lo.ToPtr(w.VerifiedAt.Unix())
	}
	return &withdrawalRequest{
		ID:          w.ID,
		AccountID:   w.AccountID,
		Amount:      w.Amount,
		Fee:         w.Fee,
		NetPayout:   w.NetPayout,
		Status:      string(w.Status),
		Destination: mapPayoutDestination(w.Destination),
		CreatedAt:   w.CreatedAt.Unix(),
		VerifiedAt:  verifiedAt,
	}
}

type withdrawalResponse = HttpResponse[withdrawalRequest]

// CreateWithdrawal leaves amount checks to the usecase so that the withdrawal window is reported first.
func (h *HttpHandler) CreateWithdrawal(ctx *fiber.Ctx) (err error) {
	var req createWithdrawalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	request, err := h.usecase.CreateWithdrawal(ctx.UserContext(), req.AccountID, req.Amount)
	if err != nil {
		return errors.Wrap(policyError(err), "error during CreateWithdrawal")
	}

	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(withdrawalResponse{
		Result: mapWithdrawalRequest(request),
	}))
}

type withdrawalIDRequest struct {
	ID string `params:"id"`
}

func parseWithdrawalID(ctx *fiber.Ctx) (uuid.UUID, error) {
	var req withdrawalIDRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return uuid.Nil, errors.WithStack(err)
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return uuid.Nil, errs.NewPublicError("invalid withdrawal request id")
	}
	return id, nil
}

func (h *HttpHandler) GetWithdrawal(ctx *fiber.Ctx) (err error) {
	id, err := parseWithdrawalID(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	request, err := h.usecase.GetWithdrawal(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during GetWithdrawal")
	}

	return errors.WithStack(ctx.JSON(withdrawalResponse{
		Result: mapWithdrawalRequest(request),
	}))
}

func (h *HttpHandler) ConfirmWithdrawal(ctx *fiber.Ctx) (err error) {
	id, err := parseWithdrawalID(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	request, err := h.usecase.ConfirmWithdrawal(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during ConfirmWithdrawal")
	}

	return errors.WithStack(ctx.JSON(withdrawalResponse{
		Result: mapWithdrawalRequest(request),
	}))
}
