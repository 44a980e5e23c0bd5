package httphandler

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/shopspring/decimal"
)

type accountIDRequest struct {
	ID string `params:"id"`
}

func (r accountIDRequest) Validate() error {
	return validateID("id", r.ID)
}

func validateID(field, id string) error {
	if id == "" {
		return errs.NewPublicError(fmt.Sprintf("%s is required", field))
	}
	if len(id) > maxIDLength {
		return errs.NewPublicError(fmt.Sprintf("%s length must be less than or equal to %d", field, maxIDLength))
	}
	return nil
}

// parseAccountID returns a copy of the id route param. Params alias the
// request buffer, which fasthttp reuses once the handler returns.
func parseAccountID(ctx *fiber.Ctx) (string, error) {
	var req accountIDRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return "", errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return "", errs.WithPublicMessage(err, "validation error")
	}
	return fiberutils.CopyString(req.ID), nil
}

type createAccountRequest struct {
	ID        string `json:"id"`
	InviterID string `json:"inviterId"`
}

func (r createAccountRequest) Validate() error {
	var errList []error
	if err := validateID("id", r.ID); err != nil {
		errList = append(errList, err)
	}
	if r.InviterID != "" {
		if err := validateID("inviterId", r.InviterID); err != nil {
			errList = append(errList, err)
		}
		if r.InviterID == r.ID {
			errList = append(errList, errs.NewPublicError("inviterId must differ from id"))
		}
	}
	if len(errList) == 0 {
		return nil
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type createAccountResponse = HttpResponse[account]

func (h *HttpHandler) CreateAccount(ctx *fiber.Ctx) (err error) {
	var req createAccountRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	acc, err := h.usecase.CreateAccount(ctx.UserContext(), req.ID, req.InviterID)
	if err != nil {
		return errors.Wrap(err, "error during CreateAccount")
	}

	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(createAccountResponse{
		Result: mapAccount(acc),
	}))
}

type getAccountResponse = HttpResponse[account]

func (h *HttpHandler) GetAccount(ctx *fiber.Ctx) (err error) {
	id, err := parseAccountID(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	acc, err := h.usecase.GetAccount(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during GetAccount")
	}

	return errors.WithStack(ctx.JSON(getAccountResponse{
		Result: mapAccount(acc),
	}))
}

type linkPayoutDestinationRequest struct {
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
}

func (r linkPayoutDestinationRequest) Validate() error {
	var errList []error
	if r.BankName == "" {
		errList = append(errList, errs.NewPublicError("bankName is required"))
	}
	if r.AccountName == "" {
		errList = append(errList, errs.NewPublicError("accountName is required"))
	}
	if r.AccountNumber == "" {
		errList = append(errList, errs.NewPublicError("accountNumber is required"))
	}
	if len(errList) == 0 {
		return nil
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type payoutDestinationResponse = HttpResponse[payoutDestination]

func (h *HttpHandler) LinkPayoutDestination(ctx *fiber.Ctx) (err error) {
	id, err := parseAccountID(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req linkPayoutDestinationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	dest, err := h.usecase.LinkPayoutDestination(ctx.UserContext(), entity.PayoutDestination{
		AccountID:     id,
		BankName:      req.BankName,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		return errors.Wrap(err, "error during LinkPayoutDestination")
	}

	result := mapPayoutDestination(*dest)
	return errors.WithStack(ctx.JSON(payoutDestinationResponse{
		Result: &result,
	}))
}

func (h *HttpHandler) GetPayoutDestination(ctx *fiber.Ctx) (err error) {
	id, err := parseAccountID(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	dest, err := h.usecase.GetPayoutDestination(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during GetPayoutDestination")
	}

	result := mapPayoutDestination(*dest)
	return errors.WithStack(ctx.JSON(payoutDestinationResponse{
		Result: &result,
	}))
}

type addProductHoldingRequest struct {
	ProductID   string          `json:"productId"`
	DailyIncome decimal.Decimal `json:"dailyIncome"`
	// PurchasedAt is a unix timestamp in seconds. Zero means now.
	PurchasedAt int64 `json:"purchasedAt"`
}

func (r addProductHoldingRequest) Validate() error {
	var errList []error
	if err := validateID("productId", r.ProductID); err != nil {
		errList = append(errList, err)
	}
	if r.DailyIncome.IsNegative() {
		errList = append(errList, errs.NewPublicError("dailyIncome must not be negative"))
	}
	if r.PurchasedAt < 0 {
		errList = append(errList, errs.NewPublicError("purchasedAt must not be negative"))
	}
	if len(errList) == 0 {
		return nil
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type productHolding struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	ProductID   string          `json:"productId"`
	DailyIncome decimal.Decimal `json:"dailyIncome"`
	PurchasedAt int64           `json:"purchasedAt"`
	Active      bool            `json:"active"`
}

type addProductHoldingResponse = HttpResponse[productHolding]

func (h *HttpHandler) AddProductHolding(ctx *fiber.Ctx) (err error) {
	id, err := parseAccountID(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req addProductHoldingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	var purchasedAt time.Time
	if req.PurchasedAt > 0 {
		purchasedAt = time.Unix(req.PurchasedAt, 0).UTC()
	}
	holding, err := h.usecase.AddProductHolding(ctx.UserContext(), id, req.ProductID, req.DailyIncome, purchasedAt)
	if err != nil {
		return errors.Wrap(err, "error during AddProductHolding")
	}

	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(addProductHoldingResponse{
		Result: &productHolding{
			ID:          holding.ID,
			AccountID:   holding.AccountID,
			ProductID:   holding.ProductID,
			DailyIncome: holding.DailyIncome,
			PurchasedAt: holding.PurchasedAt.Unix(),
			Active:      holding.Active,
		},
	}))
}
