package billing

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ddukddak/taleapi/internal/pkg/env"
)

const defaultTossAPIBaseURL = "https://api.tosspayments.com/v1"

// TossClient is a thin typed client for the Toss Payments billing API. All
// charges run against a stored billing key; the raw card credential never
// touches this service.
type TossClient struct {
	SecretKey  string
	APIBaseURL string

	HTTPClient *http.Client
}

// TossPayment is the processor's response to an executed billing charge.
type TossPayment struct {
	PaymentKey  string `json:"paymentKey"`
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	TotalAmount int    `json:"totalAmount"`
	ApprovedAt  string `json:"approvedAt"`
}

// TossBillingInfo is the stored billing credential's metadata.
type TossBillingInfo struct {
	MID             string `json:"mId"`
	CustomerKey     string `json:"customerKey"`
	AuthenticatedAt string `json:"authenticatedAt"`
	Method          string `json:"method"`
	BillingKey      string `json:"billingKey"`
	CardCompany     string `json:"cardCompany"`
	CardNumber      string `json:"cardNumber"`
}

func NewTossClientFromEnv() *TossClient {
	return &TossClient{
		SecretKey:  strings.TrimSpace(env.GetEnv("TOSS_SECRET_KEY", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("TOSS_API_BASE_URL", defaultTossAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// RequestBilling executes a recurring charge against a stored billing key.
// The orderID is the caller-generated idempotency handle; the processor
// deduplicates retried charges by it.
func (c *TossClient) RequestBilling(ctx context.Context, billingKey, customerKey string, amount int, orderID, orderName string) (*TossPayment, error) {
	if strings.TrimSpace(c.SecretKey) == "" {
		return nil, errors.New("TOSS_SECRET_KEY is not configured")
	}
	if strings.TrimSpace(billingKey) == "" {
		return nil, errors.New("billing key is required")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"customerKey": customerKey,
		"amount":      amount,
		"orderId":     orderID,
		"orderName":   orderName,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+"/billing/"+billingKey, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.authorizationHeader())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, tossErrorMessage(body))
	}

	var out TossPayment
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBillingInfo fetches metadata for a stored billing key.
func (c *TossClient) GetBillingInfo(ctx context.Context, billingKey string) (*TossBillingInfo, error) {
	if strings.TrimSpace(billingKey) == "" {
		return nil, errors.New("billing key is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"/billing/"+billingKey, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.authorizationHeader())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, tossErrorMessage(body))
	}

	var out TossBillingInfo
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelPayment refunds a completed payment.
func (c *TossClient) CancelPayment(ctx context.Context, paymentKey, cancelReason string) error {
	if strings.TrimSpace(paymentKey) == "" {
		return errors.New("payment key is required")
	}

	payload, err := json.Marshal(map[string]string{"cancelReason": cancelReason})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+"/payments/"+paymentKey+"/cancel", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.authorizationHeader())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s", ErrPaymentFailed, tossErrorMessage(body))
	}
	return nil
}

func (c *TossClient) baseURL() string {
	base := strings.TrimRight(c.APIBaseURL, "/")
	if base == "" {
		base = defaultTossAPIBaseURL
	}
	return base
}

// Toss uses Basic auth with the secret key as username and an empty password.
func (c *TossClient) authorizationHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.SecretKey+":"))
}

func tossErrorMessage(body []byte) string {
	var parsed struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return "unknown error"
}
