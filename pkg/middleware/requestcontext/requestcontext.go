// Package requestcontext copies per-request identity (request id, client ip, acting operator)
// from the fiber context into the handler's context.Context, and into its context logger.
package requestcontext

import (
	"context"
	"strings"

	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

const (
	DefaultOperatorHeader = "X-Operator-Id"
	maxOperatorLength     = 128
)

type Config struct {
	// OperatorHeader names the header carrying the id of the admin or user acting on the request.
	// Defaults to X-Operator-Id.
	OperatorHeader string `mapstructure:"operator_header"`
}

type (
	requestIDKey struct{}
	clientIPKey  struct{}
	operatorKey  struct{}
)

// New returns the middleware. Client ip resolution follows the app's proxy settings
// (fiber.Config ProxyHeader and TrustedProxies).
func New(config Config) fiber.Handler {
	operatorHeader := config.OperatorHeader
	if operatorHeader == "" {
		operatorHeader = DefaultOperatorHeader
	}

	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		requestID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		if requestID == "" {
			requestID = c.Get(fiber.HeaderXRequestID, fiberutils.UUIDv4())
			c.Set(fiber.HeaderXRequestID, requestID)
			c.Locals(requestid.ConfigDefault.ContextKey, requestID)
		}
		// header values alias the request buffer; the context may outlive the handler
		requestID = fiberutils.CopyString(requestID)
		ctx = context.WithValue(ctx, requestIDKey{}, requestID)
		ctx = context.WithValue(ctx, clientIPKey{}, fiberutils.CopyString(c.IP()))
		attrs := []any{slogx.String("requestId", requestID)}

		if operator := strings.TrimSpace(c.Get(operatorHeader)); operator != "" {
			if len(operator) > maxOperatorLength {
				return fiber.NewError(fiber.StatusBadRequest, operatorHeader+" header is too long")
			}
			operator = fiberutils.CopyString(operator)
			ctx = context.WithValue(ctx, operatorKey{}, operator)
			attrs = append(attrs, slogx.String("operator", operator))
		}

		c.SetUserContext(logger.WithContext(ctx, attrs...))
		return c.Next()
	}
}

// RequestID returns the request id, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ClientIP returns the resolved client ip, or "" outside a request.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// Operator returns the acting operator id, or "" when the caller sent none.
func Operator(ctx context.Context) string {
	operator, _ := ctx.Value(operatorKey{}).(string)
	return operator
}
