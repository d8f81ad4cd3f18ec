package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ddukddak/taleapi/app/models"
	"github.com/ddukddak/taleapi/internal/pkg/cache"
	"github.com/ddukddak/taleapi/internal/pkg/entitlements"
	"github.com/ddukddak/taleapi/internal/pkg/usercontext"
)

const freeContentCacheTTL = 5 * time.Minute

// SubscriptionReader is the narrow read surface the gate needs from the
// subscription store.
type SubscriptionReader interface {
	GetLatestByUser(userID string) (*models.Subscription, error)
}

// ContentClassifier resolves a content item's free/paid classification.
type ContentClassifier interface {
	IsFree(storyID string) (bool, error)
}

// RequireSubscription guards routes serving paid content. The check is
// stateless and per-request: the latest subscription row is read and its
// expires_at compared against wall-clock time, so a record whose renewal
// webhook never arrived still denies access once its window has passed. Only
// the free/paid classification is cached, never the entitlement itself.
func RequireSubscription(subs SubscriptionReader, stories ContentClassifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userCtx := usercontext.GetUserContext(c)
		if !userCtx.IsLoggedIn {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "forbidden",
				"message": "Authentication required",
			})
		}

		entitled := false
		sub, err := subs.GetLatestByUser(userCtx.UserID)
		if err == nil {
			entitled = entitlements.IsEntitled(sub, time.Now())
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal_server_error",
				"message": "Subscription lookup failed",
			})
		}

		if !entitled {
			if storyID := c.Params("id"); storyID != "" {
				if isFreeContent(stories, storyID) {
					return c.Next()
				}
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "forbidden",
				"message": "Active subscription required to access this content",
			})
		}

		return c.Next()
	}
}

func isFreeContent(stories ContentClassifier, storyID string) bool {
	cacheKey := "story:is_free:" + storyID
	if cached, err := cache.Get(cacheKey); err == nil {
		return cached == "1"
	}

	isFree, err := stories.IsFree(storyID)
	if err != nil {
		// Unknown story: not free; the handler behind the gate reports 404.
		return false
	}

	value := "0"
	if isFree {
		value = "1"
	}
	_ = cache.Set(cacheKey, value, freeContentCacheTTL)
	return isFree
}
