package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ddukddak/taleapi/app/models"
	"github.com/ddukddak/taleapi/app/repository"
	"github.com/ddukddak/taleapi/internal/pkg/usercontext"
)

// UpdateProgressRequest is the body for upserting reading progress.
type UpdateProgressRequest struct {
	CurrentPage int  `json:"currentPage" validate:"required,min=1"`
	IsCompleted bool `json:"isCompleted"`
}

// ProgressController serves per-user reading progress.
type ProgressController struct {
	progress repository.ProgressRepository
	stories  repository.StoryRepository
}

// NewProgressController creates a progress controller from injected repositories.
func NewProgressController(progress repository.ProgressRepository, stories repository.StoryRepository) *ProgressController {
	return &ProgressController{progress: progress, stories: stories}
}

// HandleListProgress returns all progress rows for the caller, most recently
// read first.
func (pc *ProgressController) HandleListProgress(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	items, err := pc.progress.ListByUser(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to fetch progress")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": items})
}

// HandleGetProgress returns the caller's progress for one story.
func (pc *ProgressController) HandleGetProgress(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	storyID := c.Params("storyId")

	item, err := pc.progress.GetByUserAndStory(userCtx.UserID, storyID)
	if err != nil {
		if isNotFound(err) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Progress not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to fetch progress")
	}
	return c.Status(fiber.StatusOK).JSON(item)
}

// HandleUpsertProgress records the caller's position in a story.
func (pc *ProgressController) HandleUpsertProgress(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	storyID := c.Params("storyId")

	var req UpdateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	if _, err := pc.stories.GetByID(storyID); err != nil {
		if isNotFound(err) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Story not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to fetch story")
	}

	item := &models.ReadingProgress{
		UserID:      userCtx.UserID,
		StoryID:     storyID,
		CurrentPage: req.CurrentPage,
		IsCompleted: req.IsCompleted,
		LastReadAt:  time.Now(),
	}
	if err := pc.progress.Upsert(item); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update progress")
	}
	return c.Status(fiber.StatusOK).JSON(item)
}
