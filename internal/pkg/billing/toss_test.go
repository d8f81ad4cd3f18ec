package billing

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestTossClient(serverURL string) *TossClient {
	return &TossClient{
		SecretKey:  "test_sk_abc",
		APIBaseURL: serverURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestTossClientRequestBilling(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(TossPayment{
			PaymentKey:  "pay_1",
			OrderID:     "sub_user-1_1700000000000",
			Status:      "DONE",
			TotalAmount: 4900,
		})
	}))
	defer srv.Close()

	client := newTestTossClient(srv.URL)
	payment, err := client.RequestBilling(context.Background(), "bk_123", "user-1", 4900, "sub_user-1_1700000000000", "뚝딱동화 월간 구독")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("test_sk_abc:"))
	if gotAuth != wantAuth {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotPath != "/billing/bk_123" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotBody["customerKey"] != "user-1" || gotBody["orderId"] != "sub_user-1_1700000000000" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
	if amount, ok := gotBody["amount"].(float64); !ok || int(amount) != 4900 {
		t.Fatalf("unexpected amount: %+v", gotBody["amount"])
	}
	if payment.PaymentKey != "pay_1" || payment.Status != "DONE" {
		t.Fatalf("unexpected payment: %+v", payment)
	}
}

func TestTossClientRequestBilling_ProcessorRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"REJECT_CARD_PAYMENT","message":"한도초과 혹은 잔액부족으로 결제에 실패했습니다."}`))
	}))
	defer srv.Close()

	client := newTestTossClient(srv.URL)
	_, err := client.RequestBilling(context.Background(), "bk_123", "user-1", 4900, "order-1", "뚝딱동화 월간 구독")
	if !errors.Is(err, ErrPaymentFailed) {
		t.Fatalf("expected ErrPaymentFailed, got %v", err)
	}
}

func TestTossClientRequestBilling_MissingInputs(t *testing.T) {
	client := newTestTossClient("http://127.0.0.1:0")

	client.SecretKey = ""
	if _, err := client.RequestBilling(context.Background(), "bk_123", "user-1", 4900, "order-1", "name"); err == nil {
		t.Fatalf("expected missing secret key to fail")
	}

	client.SecretKey = "test_sk_abc"
	if _, err := client.RequestBilling(context.Background(), "", "user-1", 4900, "order-1", "name"); err == nil {
		t.Fatalf("expected missing billing key to fail")
	}
}

func TestTossClientGetBillingInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		_ = json.NewEncoder(w).Encode(TossBillingInfo{
			CustomerKey: "user-1",
			BillingKey:  "bk_123",
			CardCompany: "현대",
			CardNumber:  "433012******1234",
		})
	}))
	defer srv.Close()

	client := newTestTossClient(srv.URL)
	info, err := client.GetBillingInfo(context.Background(), "bk_123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.CustomerKey != "user-1" || info.CardCompany != "현대" {
		t.Fatalf("unexpected billing info: %+v", info)
	}
}

func TestTossClientCancelPayment(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestTossClient(srv.URL)
	if err := client.CancelPayment(context.Background(), "pay_1", "고객 요청"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/payments/pay_1/cancel" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotBody["cancelReason"] != "고객 요청" {
		t.Fatalf("unexpected body: %+v", gotBody)
	}
}
