package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddukddak/taleapi/app/models"
	"github.com/ddukddak/taleapi/internal/pkg/billing"
	"github.com/ddukddak/taleapi/internal/pkg/usercontext"
)

func newSubscriptionTestApp(repo *stubSubscriptionRepo, charger *stubCharger) *fiber.App {
	svc := billing.NewService(repo, charger, billing.DefaultCatalog())
	sc := NewSubscriptionController(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:     "user-1",
			Email:      "user-1@example.com",
			IsLoggedIn: true,
		})
		return c.Next()
	})
	app.Get("/api/subscriptions/plans", sc.HandleGetPlans)
	app.Get("/api/subscriptions/me", sc.HandleGetMySubscription)
	app.Post("/api/subscriptions", sc.HandleCreateSubscription)
	app.Delete("/api/subscriptions/me", sc.HandleCancelSubscription)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body []byte) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return parsed
}

func TestHandleGetPlans(t *testing.T) {
	app := newSubscriptionTestApp(&stubSubscriptionRepo{}, &stubCharger{})

	resp := doJSON(t, app, http.MethodGet, "/api/subscriptions/plans", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	parsed := decodeBody(t, resp)
	plans, ok := parsed["plans"].([]interface{})
	require.True(t, ok)
	require.Len(t, plans, 2)

	first, ok := plans[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "monthly", first["id"])
	assert.Equal(t, float64(4900), first["price"])
}

func TestHandleGetMySubscription_NoHistory(t *testing.T) {
	app := newSubscriptionTestApp(&stubSubscriptionRepo{}, &stubCharger{})

	resp := doJSON(t, app, http.MethodGet, "/api/subscriptions/me", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	parsed := decodeBody(t, resp)
	value, exists := parsed["subscription"]
	require.True(t, exists)
	assert.Nil(t, value)
}

func TestHandleGetMySubscription(t *testing.T) {
	repo := &stubSubscriptionRepo{latest: &models.Subscription{
		ID:        "sub-1",
		UserID:    "user-1",
		PlanType:  "monthly",
		Status:    models.SubscriptionStatusActive,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		AutoRenew: true,
	}}
	app := newSubscriptionTestApp(repo, &stubCharger{})

	resp := doJSON(t, app, http.MethodGet, "/api/subscriptions/me", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	parsed := decodeBody(t, resp)
	assert.Equal(t, "sub-1", parsed["id"])
	assert.Equal(t, models.SubscriptionStatusActive, parsed["status"])
	_, leaked := parsed["toss_billing_key"]
	assert.False(t, leaked, "billing credential must never appear in responses")
}

func TestHandleCreateSubscription(t *testing.T) {
	repo := &stubSubscriptionRepo{}
	charger := &stubCharger{}
	app := newSubscriptionTestApp(repo, charger)

	resp := doJSON(t, app, http.MethodPost, "/api/subscriptions",
		[]byte(`{"planType":"monthly","billingKey":"bk_new"}`))

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, charger.calls)
	require.Len(t, repo.created, 1)

	parsed := decodeBody(t, resp)
	assert.Equal(t, models.SubscriptionStatusActive, parsed["status"])
	assert.Equal(t, "monthly", parsed["plan_type"])
}

func TestHandleCreateSubscription_InvalidBody(t *testing.T) {
	charger := &stubCharger{}
	app := newSubscriptionTestApp(&stubSubscriptionRepo{}, charger)

	tests := []struct {
		name string
		body []byte
	}{
		{name: "not json", body: []byte(`planType=monthly`)},
		{name: "unknown plan type", body: []byte(`{"planType":"weekly","billingKey":"bk_new"}`)},
		{name: "missing billing key", body: []byte(`{"planType":"monthly"}`)},
	}

	for _, tt := range tests {
		resp := doJSON(t, app, http.MethodPost, "/api/subscriptions", tt.body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, tt.name)
	}
	assert.Equal(t, 0, charger.calls)
}

func TestHandleCreateSubscription_Duplicate(t *testing.T) {
	repo := &stubSubscriptionRepo{latest: &models.Subscription{
		ID:        "sub-1",
		UserID:    "user-1",
		Status:    models.SubscriptionStatusActive,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}}
	charger := &stubCharger{}
	app := newSubscriptionTestApp(repo, charger)

	resp := doJSON(t, app, http.MethodPost, "/api/subscriptions",
		[]byte(`{"planType":"monthly","billingKey":"bk_new"}`))

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, 0, charger.calls)
}

func TestHandleCreateSubscription_PaymentFailed(t *testing.T) {
	charger := &stubCharger{err: billing.ErrPaymentFailed}
	app := newSubscriptionTestApp(&stubSubscriptionRepo{}, charger)

	resp := doJSON(t, app, http.MethodPost, "/api/subscriptions",
		[]byte(`{"planType":"monthly","billingKey":"bk_new"}`))

	assert.Equal(t, fiber.StatusPaymentRequired, resp.StatusCode)

	parsed := decodeBody(t, resp)
	assert.Equal(t, "payment_failed", parsed["error"])
}

func TestHandleCancelSubscription(t *testing.T) {
	repo := &stubSubscriptionRepo{latest: &models.Subscription{
		ID:        "sub-1",
		UserID:    "user-1",
		Status:    models.SubscriptionStatusActive,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		AutoRenew: true,
	}}
	app := newSubscriptionTestApp(repo, &stubCharger{})

	resp := doJSON(t, app, http.MethodDelete, "/api/subscriptions/me", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, repo.statusCalls)
	assert.Equal(t, models.SubscriptionStatusCancelled, repo.lastStatus)
}

func TestHandleCancelSubscription_NoHistory(t *testing.T) {
	app := newSubscriptionTestApp(&stubSubscriptionRepo{}, &stubCharger{})

	resp := doJSON(t, app, http.MethodDelete, "/api/subscriptions/me", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleCancelSubscription_AlreadyCancelled(t *testing.T) {
	repo := &stubSubscriptionRepo{latest: &models.Subscription{
		ID:     "sub-1",
		UserID: "user-1",
		Status: models.SubscriptionStatusCancelled,
	}}
	app := newSubscriptionTestApp(repo, &stubCharger{})

	resp := doJSON(t, app, http.MethodDelete, "/api/subscriptions/me", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, 0, repo.statusCalls)
}
