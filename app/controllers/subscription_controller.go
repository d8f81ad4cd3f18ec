package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ddukddak/taleapi/internal/pkg/billing"
	"github.com/ddukddak/taleapi/internal/pkg/usercontext"
)

// CreateSubscriptionRequest is the body for starting a subscription. The
// billing key is the processor-issued credential reference obtained by the
// client during card registration; the raw card data never reaches this API.
type CreateSubscriptionRequest struct {
	PlanType   string `json:"planType" validate:"required,oneof=monthly yearly"`
	BillingKey string `json:"billingKey" validate:"required"`
}

// SubscriptionController serves the user-facing subscription API.
type SubscriptionController struct {
	svc *billing.Service
}

// NewSubscriptionController creates a subscription controller from an
// injected lifecycle service.
func NewSubscriptionController(svc *billing.Service) *SubscriptionController {
	return &SubscriptionController{svc: svc}
}

// HandleGetPlans returns the plan catalog. Public.
func (sc *SubscriptionController) HandleGetPlans(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"plans": sc.svc.Plans(),
	})
}

// HandleGetMySubscription returns the caller's current subscription record,
// or {"subscription": null} when there is no billing history.
func (sc *SubscriptionController) HandleGetMySubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	sub, err := sc.svc.GetCurrentSubscription(c.Context(), userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Subscription lookup failed")
	}
	if sub == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"subscription": nil})
	}
	return c.Status(fiber.StatusOK).JSON(sub)
}

// HandleCreateSubscription charges the billing key and starts a subscription.
func (sc *SubscriptionController) HandleCreateSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	sub, err := sc.svc.CreateSubscription(c.Context(), userCtx.UserID, req.PlanType, req.BillingKey)
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// HandleCancelSubscription stops auto renewal; access lasts until the paid
// window expires.
func (sc *SubscriptionController) HandleCancelSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	if err := sc.svc.CancelSubscription(c.Context(), userCtx.UserID); err != nil {
		return mapBillingError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
