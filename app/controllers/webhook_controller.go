package controllers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ddukddak/taleapi/internal/pkg/billing"
)

// WebhookController ingests asynchronous events from the payment processor.
// Events arrive at-least-once and possibly out of order; everything past
// signature verification is acknowledged with 200 so the processor never
// retry-storms on events it considers undeliverable.
type WebhookController struct {
	svc    *billing.Service
	secret string
}

// NewWebhookController creates a webhook controller. secret is the shared
// webhook signing secret agreed with the processor.
func NewWebhookController(svc *billing.Service, secret string) *WebhookController {
	return &WebhookController{svc: svc, secret: secret}
}

// HandleTossWebhook verifies and dispatches an inbound processor event.
func (wc *WebhookController) HandleTossWebhook(c *fiber.Ctx) error {
	// The signature covers the exact raw bytes; copy before fiber reuses the
	// buffer.
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("toss-signature"))

	if !billing.VerifyTossWebhookSignature(rawBody, signature, wc.secret) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid webhook signature")
	}

	event, err := billing.ParseTossWebhookEvent(rawBody)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid webhook payload")
	}

	switch event.EventType {
	case billing.EventBillingStatusChanged:
		if event.IsRenewalTrigger() {
			if err := wc.svc.RenewSubscription(c.Context(), event.Data.CustomerKey); err != nil {
				// Renewal is best-effort from the processor's point of view;
				// store failures are logged, never surfaced.
				log.Printf("webhook renewal failed for customer %s: %v", event.Data.CustomerKey, err)
			}
		}
	case billing.EventPaymentDone:
		log.Printf("payment completed: orderId=%s paymentKey=%s", event.Data.OrderID, event.Data.PaymentKey)
	case billing.EventPaymentCanceled:
		log.Printf("payment canceled: orderId=%s paymentKey=%s", event.Data.OrderID, event.Data.PaymentKey)
	default:
		// Unknown event kinds are acknowledged for forward compatibility.
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}
