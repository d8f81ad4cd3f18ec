package repository

import (
	"github.com/ddukddak/taleapi/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a reading-progress repository backed by GORM.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) ListByUser(userID string) ([]models.ReadingProgress, error) {
	var progress []models.ReadingProgress
	err := r.db.
		Where("user_id = ?", userID).
		Order("last_read_at DESC").
		Find(&progress).Error
	return progress, err
}

func (r *progressRepository) GetByUserAndStory(userID, storyID string) (*models.ReadingProgress, error) {
	var progress models.ReadingProgress
	err := r.db.
		Where("user_id = ? AND story_id = ?", userID, storyID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *progressRepository) Upsert(progress *models.ReadingProgress) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "story_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_page",
			"is_completed",
			"last_read_at",
			"updated_at",
		}),
	}).Create(progress).Error; err != nil {
		return err
	}

	// Ensure ID and timestamps are populated after upsert.
	return r.db.Where("user_id = ? AND story_id = ?", progress.UserID, progress.StoryID).
		First(progress).Error
}
