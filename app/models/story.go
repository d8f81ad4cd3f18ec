package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StoryCategoryFolktale   = "folktale"
	StoryCategoryLesson     = "lesson"
	StoryCategoryFamily     = "family"
	StoryCategoryAdventure  = "adventure"
	StoryCategoryCreativity = "creativity"
)

const (
	AgeGroupToddler   = "3-5"
	AgeGroupPreschool = "5-7"
	AgeGroupSchool    = "7+"
)

// Story is a catalog entry. IsFree drives the paid/free classification the
// subscription gate consults for page content.
type Story struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TitleKo       string    `gorm:"type:varchar(200);not null" json:"title_ko" validate:"required,max=200"`
	TitleEn       string    `gorm:"type:varchar(200)" json:"title_en"`
	DescriptionKo string    `gorm:"type:text" json:"description_ko"`
	DescriptionEn string    `gorm:"type:text" json:"description_en"`
	ThumbnailURL  string    `gorm:"type:varchar(255)" json:"thumbnail_url"`
	Category      string    `gorm:"type:varchar(50);index" json:"category"`
	AgeGroup      string    `gorm:"type:varchar(20);index" json:"age_group"`
	DurationMin   int       `gorm:"default:0" json:"duration_minutes"`
	PageCount     int       `gorm:"default:0" json:"page_count"`
	IsFree        bool      `gorm:"default:false;index" json:"is_free"`
	ViewCount     int64     `gorm:"default:0" json:"view_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// StoryPage holds the per-page reading content behind the subscription gate.
type StoryPage struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	StoryID    string    `gorm:"type:varchar(36);not null;index:idx_story_pages_story_number,priority:1" json:"story_id"`
	PageNumber int       `gorm:"not null;index:idx_story_pages_story_number,priority:2" json:"page_number"`
	ImageURL   string    `gorm:"type:varchar(255)" json:"image_url"`
	TextKo     string    `gorm:"type:text" json:"text_ko"`
	TextEn     string    `gorm:"type:text" json:"text_en"`
	AudioURLKo string    `gorm:"type:varchar(255)" json:"audio_url_ko,omitempty"`
	AudioURLEn string    `gorm:"type:varchar(255)" json:"audio_url_en,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *StoryPage) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
