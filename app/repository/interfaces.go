package repository

import (
	"github.com/ddukddak/taleapi/app/models"
	"gorm.io/gorm"
)

// StoryQuery carries the optional filters and pagination for catalog listing.
type StoryQuery struct {
	Category string
	AgeGroup string
	Page     int
	Limit    int
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	GetByID(id string) (*models.User, error)
	Upsert(user *models.User) error
	Delete(id string) error
}

// StoryRepository defines the interface for story catalog database operations
type StoryRepository interface {
	List(query StoryQuery) ([]models.Story, int64, error)
	GetByID(id string) (*models.Story, error)
	GetPages(storyID string) ([]models.StoryPage, error)
	IsFree(id string) (bool, error)
}

// ProgressRepository defines the interface for reading-progress database operations
type ProgressRepository interface {
	ListByUser(userID string) ([]models.ReadingProgress, error)
	GetByUserAndStory(userID, storyID string) (*models.ReadingProgress, error)
	Upsert(progress *models.ReadingProgress) error
}

// Repositories holds all repository instances
type Repositories struct {
	User     UserRepository
	Story    StoryRepository
	Progress ProgressRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Story:    NewStoryRepository(db),
		Progress: NewProgressRepository(db),
	}
}
