package repository

import (
	"github.com/ddukddak/taleapi/app/models"
	"gorm.io/gorm"
)

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a story repository backed by GORM.
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) List(query StoryQuery) ([]models.Story, int64, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 10
	}

	tx := r.db.Model(&models.Story{})
	if query.Category != "" {
		tx = tx.Where("category = ?", query.Category)
	}
	if query.AgeGroup != "" {
		tx = tx.Where("age_group = ?", query.AgeGroup)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var stories []models.Story
	err := tx.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&stories).Error
	if err != nil {
		return nil, 0, err
	}
	return stories, total, nil
}

func (r *storyRepository) GetByID(id string) (*models.Story, error) {
	var story models.Story
	if err := r.db.Where("id = ?", id).First(&story).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *storyRepository) GetPages(storyID string) ([]models.StoryPage, error) {
	var pages []models.StoryPage
	err := r.db.
		Where("story_id = ?", storyID).
		Order("page_number ASC").
		Find(&pages).Error
	return pages, err
}

func (r *storyRepository) IsFree(id string) (bool, error) {
	var story models.Story
	err := r.db.Select("id", "is_free").Where("id = ?", id).First(&story).Error
	if err != nil {
		return false, err
	}
	return story.IsFree, nil
}
