package billing

import (
	"encoding/json"
	"strings"
)

// Webhook event kinds emitted by the payment processor. Unknown kinds are
// acknowledged and ignored so new processor events never break ingestion.
const (
	EventBillingStatusChanged = "BILLING_STATUS_CHANGED"
	EventPaymentDone          = "PAYMENT_DONE"
	EventPaymentCanceled      = "PAYMENT_CANCELED"
)

// BillingStatusReady is the data.status value that signals a renewal charge
// window has opened for a customer.
const BillingStatusReady = "READY"

// TossWebhookEvent is the parsed shape of an inbound processor event. Events
// are ephemeral and delivered at least once; processing must tolerate
// duplicates and out-of-order arrival.
type TossWebhookEvent struct {
	EventType string               `json:"eventType"`
	CreatedAt string               `json:"createdAt"`
	Data      TossWebhookEventData `json:"data"`
}

// TossWebhookEventData carries the event payload keys. Which keys are set
// depends on the event kind.
type TossWebhookEventData struct {
	PaymentKey  string `json:"paymentKey,omitempty"`
	OrderID     string `json:"orderId,omitempty"`
	Status      string `json:"status,omitempty"`
	CustomerKey string `json:"customerKey,omitempty"`
	BillingKey  string `json:"billingKey,omitempty"`
}

// ParseTossWebhookEvent decodes a raw webhook payload.
func ParseTossWebhookEvent(payload []byte) (*TossWebhookEvent, error) {
	var ev TossWebhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	ev.EventType = strings.TrimSpace(ev.EventType)
	return &ev, nil
}

// IsRenewalTrigger reports whether this event should start a renewal attempt.
func (e *TossWebhookEvent) IsRenewalTrigger() bool {
	return e.EventType == EventBillingStatusChanged &&
		e.Data.Status == BillingStatusReady &&
		strings.TrimSpace(e.Data.CustomerKey) != ""
}
