package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

const (
	PlanTypeMonthly = "monthly"
	PlanTypeYearly  = "yearly"
)

// Subscription is one billing relationship per user per time window. Rows are
// never deleted; cancelled and expired records are retained as history and the
// newest row (by creation time) is the user's current subscription.
type Subscription struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID         string    `gorm:"type:varchar(36);not null;index:idx_subscriptions_user_created,priority:1" json:"user_id"`
	PlanType       string    `gorm:"type:varchar(20);not null" json:"plan_type" validate:"oneof=monthly yearly"`
	Status         string    `gorm:"type:varchar(20);not null;default:'active';index" json:"status" validate:"oneof=active cancelled expired"`
	StartedAt      time.Time `gorm:"type:timestamp;not null" json:"started_at"`
	ExpiresAt      time.Time `gorm:"type:timestamp;not null" json:"expires_at"`
	AutoRenew      bool      `gorm:"default:true" json:"auto_renew"`
	TossBillingKey string    `gorm:"type:varchar(191);not null" json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_subscriptions_user_created,priority:2" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// IsActive reports whether the persisted status is active. It does not check
// the expiry timestamp; access decisions must additionally compare ExpiresAt
// against the current time because status is only advanced by webhook events.
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}
