package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProviderEmail  = "email"
	ProviderKakao  = "kakao"
	ProviderApple  = "apple"
	ProviderGoogle = "google"
)

// User mirrors the auth provider's identity locally. Authentication itself is
// owned by the identity provider; this row only carries the profile fields the
// API serves.
type User struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;type:varchar(200);not null" json:"email" validate:"required,email,max=200"`
	Nickname  string         `gorm:"type:varchar(100)" json:"nickname,omitempty" validate:"max=100"`
	AvatarURL string         `gorm:"type:varchar(255)" json:"avatar_url,omitempty" validate:"omitempty,url,max=255"`
	Provider  string         `gorm:"type:varchar(20);default:'email'" json:"provider" validate:"oneof=email kakao apple google"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}
