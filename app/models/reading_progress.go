package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReadingProgress tracks how far a user has read a story. One row per
// user/story pair, upserted on every page turn.
type ReadingProgress struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID      string    `gorm:"type:varchar(36);not null;index:ux_progress_user_story,unique,priority:1" json:"user_id"`
	StoryID     string    `gorm:"type:varchar(36);not null;index:ux_progress_user_story,unique,priority:2" json:"story_id"`
	CurrentPage int       `gorm:"not null;default:1" json:"current_page" validate:"min=1"`
	IsCompleted bool      `gorm:"default:false" json:"is_completed"`
	LastReadAt  time.Time `gorm:"type:timestamp;not null;index" json:"last_read_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *ReadingProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
