package httperr

import (
	"context"
	"errors"

	"route-publisher/core/pages"
	"route-publisher/core/publish"
	"route-publisher/core/reconcile"
	"route-publisher/core/utils"

	"github.com/gofiber/fiber/v2"
)

// ErrBadRequest marks invalid client input.
var ErrBadRequest = errors.New("bad request")

// Status maps a domain error to the HTTP status reported to operators.
func Status(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, ErrBadRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, pages.ErrPageNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, pages.ErrNoCurrentVersion):
		return fiber.StatusConflict
	case errors.Is(err, publish.ErrExhaustedRetries), errors.Is(err, reconcile.ErrRepairUnverified):
		return fiber.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, utils.ErrConfiguration):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond writes err as {"error": "..."} with the mapped status.
func Respond(c *fiber.Ctx, err error) error {
	return c.Status(Status(err)).JSON(fiber.Map{"error": err.Error()})
}
