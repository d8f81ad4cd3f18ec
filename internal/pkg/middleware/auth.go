package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ddukddak/taleapi/internal/pkg/env"
	"github.com/ddukddak/taleapi/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the bearer token into a UserContext for
// every request. Requests without a valid token continue as anonymous; the
// per-route guards decide whether that is acceptable.
func UserContextMiddleware(c *fiber.Ctx) error {
	token := extractBearerToken(c)
	if token == "" {
		usercontext.SetUserContext(c, usercontext.UserContext{IsLoggedIn: false})
		return c.Next()
	}

	userID, email, err := parseAccessToken(token)
	if err != nil || userID == "" {
		usercontext.SetUserContext(c, usercontext.UserContext{IsLoggedIn: false})
		return c.Next()
	}

	usercontext.SetUserContext(c, usercontext.UserContext{
		UserID:     userID,
		Email:      email,
		IsLoggedIn: true,
	})
	return c.Next()
}

// RequireAPIAuth ensures an authenticated identity and returns JSON 401
// otherwise.
func RequireAPIAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

func extractBearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func parseAccessToken(tokenString string) (userID, email string, err error) {
	secret := env.GetEnv("JWT_SECRET", "")
	if secret == "" {
		return "", "", fmt.Errorf("JWT_SECRET is not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("unexpected claims type")
	}

	sub, _ := claims["sub"].(string)
	mail, _ := claims["email"].(string)
	return sub, mail, nil
}
