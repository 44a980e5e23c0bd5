package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type alreadyProcessedResponse struct {
	Error  *string `json:"error"`
	Result struct {
		AlreadyProcessed bool `json:"alreadyProcessed"`
	} `json:"result"`
}

// kindStatuses is checked in order; the first kind found in the error chain decides the status.
var kindStatuses = []struct {
	kind   error
	status int
}{
	{errs.NotFound, http.StatusNotFound},
	{errs.PolicyViolation, http.StatusUnprocessableEntity},
	{errs.Conflict, http.StatusConflict},
	{errs.InvalidArgument, http.StatusBadRequest},
	{errs.Unsupported, http.StatusNotImplemented},
	{errs.Transient, http.StatusServiceUnavailable},
	{errs.Timeout, http.StatusGatewayTimeout},
}

// StatusOf returns the HTTP status for err's kind, or 500 when err carries no known kind.
func StatusOf(err error) int {
	for _, ks := range kindStatuses {
		if errors.Is(err, ks.kind) {
			return ks.status
		}
	}
	return http.StatusInternalServerError
}

// ResponseStatus returns the status NewHTTPErrorHandler responds with for err.
func ResponseStatus(err error) int {
	if errors.Is(err, errs.AlreadyProcessed) {
		return http.StatusOK
	}
	status := StatusOf(err)
	if status != http.StatusInternalServerError {
		return status
	}
	if e := new(errs.PublicError); errors.As(err, &e) {
		return http.StatusBadRequest
	}
	if e := new(fiber.Error); errors.As(err, &e) {
		return e.Code
	}
	return status
}

func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		// idempotent replays are successful no-ops for the caller
		if errors.Is(err, errs.AlreadyProcessed) {
			var resp alreadyProcessedResponse
			resp.Result.AlreadyProcessed = true
			return errors.WithStack(ctx.Status(http.StatusOK).JSON(resp))
		}
		if e := new(errs.PublicError); errors.As(err, &e) {
			status := StatusOf(err)
			if status == http.StatusInternalServerError {
				status = http.StatusBadRequest
			}
			return errors.WithStack(ctx.Status(status).JSON(errorResponse{
				Error: e.Message(),
				Code:  e.Code(),
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).JSON(errorResponse{Error: e.Message}))
		}

		switch status := StatusOf(err); status {
		case http.StatusInternalServerError:
		case http.StatusServiceUnavailable:
			logger.WarnContext(ctx.UserContext(), "Transient failure surfaced to client",
				slogx.String("event", "api_transient_error"),
				slogx.Error(err),
			)
			return errors.WithStack(ctx.Status(status).JSON(errorResponse{Error: "Service temporarily unavailable, please retry"}))
		default:
			return errors.WithStack(ctx.Status(status).JSON(errorResponse{Error: err.Error()}))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error", err,
			slogx.String("event", "api_unhandled_error"),
		)
		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(errorResponse{Error: "Internal Server Error"}))
	}
}
