package billing

import "testing"

func TestParseTossWebhookEvent(t *testing.T) {
	raw := []byte(`{
		"eventType": " BILLING_STATUS_CHANGED ",
		"createdAt": "2026-02-01T09:00:00+09:00",
		"data": {
			"billingKey": "bk_123",
			"customerKey": "user-1",
			"status": "READY"
		}
	}`)

	ev, err := ParseTossWebhookEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.EventType != EventBillingStatusChanged {
		t.Fatalf("expected event type to be trimmed, got %q", ev.EventType)
	}
	if ev.Data.CustomerKey != "user-1" || ev.Data.BillingKey != "bk_123" {
		t.Fatalf("unexpected data: %+v", ev.Data)
	}

	if _, err := ParseTossWebhookEvent([]byte(`{not json`)); err == nil {
		t.Fatalf("expected malformed payload to fail")
	}
}

func TestIsRenewalTrigger(t *testing.T) {
	tests := []struct {
		name string
		ev   TossWebhookEvent
		want bool
	}{
		{
			name: "billing ready",
			ev:   TossWebhookEvent{EventType: EventBillingStatusChanged, Data: TossWebhookEventData{Status: BillingStatusReady, CustomerKey: "user-1"}},
			want: true,
		},
		{
			name: "billing not ready",
			ev:   TossWebhookEvent{EventType: EventBillingStatusChanged, Data: TossWebhookEventData{Status: "EXPIRED", CustomerKey: "user-1"}},
			want: false,
		},
		{
			name: "missing customer key",
			ev:   TossWebhookEvent{EventType: EventBillingStatusChanged, Data: TossWebhookEventData{Status: BillingStatusReady}},
			want: false,
		},
		{
			name: "payment done",
			ev:   TossWebhookEvent{EventType: EventPaymentDone, Data: TossWebhookEventData{Status: "DONE", CustomerKey: "user-1"}},
			want: false,
		},
		{
			name: "unknown event",
			ev:   TossWebhookEvent{EventType: "SOMETHING_NEW", Data: TossWebhookEventData{Status: BillingStatusReady, CustomerKey: "user-1"}},
			want: false,
		},
	}

	for _, tt := range tests {
		if got := tt.ev.IsRenewalTrigger(); got != tt.want {
			t.Fatalf("%s: IsRenewalTrigger() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
