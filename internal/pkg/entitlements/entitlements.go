package entitlements

import (
	"time"

	"github.com/ddukddak/taleapi/app/models"
)

// IsEntitled reports whether a subscription grants paid-content access at the
// given instant. The persisted status alone is not enough: status only moves
// on webhook delivery, so a subscription whose renewal event never arrived can
// sit at "active" with an expires_at in the past. The wall-clock comparison
// here is the authoritative check.
func IsEntitled(sub *models.Subscription, now time.Time) bool {
	if sub == nil {
		return false
	}
	return sub.Status == models.SubscriptionStatusActive && sub.ExpiresAt.After(now)
}

// CanAccessStory combines the entitlement decision with the story's free/paid
// classification. Free stories are readable without any subscription.
func CanAccessStory(entitled, isFree bool) bool {
	return entitled || isFree
}
