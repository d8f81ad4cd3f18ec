package billing

import (
	"time"

	"gorm.io/gorm"

	"github.com/ddukddak/taleapi/app/models"
)

// Repository provides DB operations used by the subscription service.
type Repository interface {
	GetLatestByUser(userID string) (*models.Subscription, error)
	Create(sub *models.Subscription) error
	UpdateStatus(id, status string, autoRenew bool) error
	UpdateExpiresAt(id string, expiresAt time.Time) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a subscription repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// GetLatestByUser returns the most recently created subscription row for a
// user regardless of status, or gorm.ErrRecordNotFound when the user has no
// billing history at all.
func (r *gormRepository) GetLatestByUser(userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *gormRepository) UpdateStatus(id, status string, autoRenew bool) error {
	return r.db.Model(&models.Subscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"auto_renew": autoRenew,
		}).Error
}

func (r *gormRepository) UpdateExpiresAt(id string, expiresAt time.Time) error {
	return r.db.Model(&models.Subscription{}).
		Where("id = ?", id).
		Update("expires_at", expiresAt).Error
}
