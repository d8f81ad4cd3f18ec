package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ddukddak/taleapi/internal/pkg/billing"
)

var validate = validator.New()

// jsonError writes the shared API error envelope.
func jsonError(c *fiber.Ctx, status int, slug, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   slug,
		"message": message,
	})
}

// mapBillingError translates lifecycle errors into HTTP status semantics.
// Precondition violations are conflicts, missing referents are not-found, and
// processor rejections surface as payment-required with the processor's
// message. Nothing is retried here.
func mapBillingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, billing.ErrPlanNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, billing.ErrNoSubscription):
		return jsonError(c, fiber.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, billing.ErrAlreadySubscribed):
		return jsonError(c, fiber.StatusConflict, "conflict", err.Error())
	case errors.Is(err, billing.ErrNotActive):
		return jsonError(c, fiber.StatusConflict, "conflict", err.Error())
	case errors.Is(err, billing.ErrPaymentFailed):
		return jsonError(c, fiber.StatusPaymentRequired, "payment_failed", err.Error())
	default:
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Unexpected error")
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
