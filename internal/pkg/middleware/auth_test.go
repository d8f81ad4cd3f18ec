package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddukddak/taleapi/internal/pkg/usercontext"
)

const testJWTSecret = "jwt-test-secret"

func signAccessToken(t *testing.T, secret, userID, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthTestApp() *fiber.App {
	app := fiber.New()
	app.Use(UserContextMiddleware)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(usercontext.GetUserContext(c))
	})
	app.Get("/private", RequireAPIAuth, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func whoami(t *testing.T, app *fiber.App, authHeader string) usercontext.UserContext {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var userCtx usercontext.UserContext
	require.NoError(t, json.Unmarshal(raw, &userCtx))
	return userCtx
}

func TestUserContextMiddleware_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	app := newAuthTestApp()

	token := signAccessToken(t, testJWTSecret, "user-1", "user-1@example.com")
	userCtx := whoami(t, app, "Bearer "+token)

	assert.True(t, userCtx.IsLoggedIn)
	assert.Equal(t, "user-1", userCtx.UserID)
	assert.Equal(t, "user-1@example.com", userCtx.Email)
}

func TestUserContextMiddleware_AnonymousFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	app := newAuthTestApp()

	headers := []string{
		"",
		"Bearer not-a-token",
		"Basic dXNlcjpwYXNz",
		"Bearer " + signAccessToken(t, "wrong-secret", "user-1", "user-1@example.com"),
	}

	for _, header := range headers {
		userCtx := whoami(t, app, header)
		assert.False(t, userCtx.IsLoggedIn, "header %q must resolve to anonymous", header)
		assert.Empty(t, userCtx.UserID)
	}
}

func TestUserContextMiddleware_ExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	app := newAuthTestApp()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	userCtx := whoami(t, app, "Bearer "+signed)
	assert.False(t, userCtx.IsLoggedIn)
}

func TestRequireAPIAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	app := newAuthTestApp()

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signAccessToken(t, testJWTSecret, "user-1", ""))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
