package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ddukddak/taleapi/app/repository"
	"github.com/ddukddak/taleapi/internal/pkg/metrics/counter"
)

// StoryController serves the public story catalog and the gated page content.
type StoryController struct {
	stories repository.StoryRepository
}

// NewStoryController creates a story controller from an injected repository.
func NewStoryController(stories repository.StoryRepository) *StoryController {
	return &StoryController{stories: stories}
}

// HandleListStories returns the paginated catalog. Public; locked entries are
// listed but their page content sits behind the subscription gate.
func (sc *StoryController) HandleListStories(c *fiber.Ctx) error {
	query := repository.StoryQuery{
		Category: c.Query("category"),
		AgeGroup: c.Query("ageGroup"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 10),
	}
	if query.Limit > 50 {
		query.Limit = 50
	}

	stories, total, err := sc.stories.List(query)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to fetch stories")
	}

	totalPages := int((total + int64(query.Limit) - 1) / int64(query.Limit))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": stories,
		"meta": fiber.Map{
			"total":       total,
			"page":        query.Page,
			"limit":       query.Limit,
			"total_pages": totalPages,
		},
	})
}

// HandleGetStory returns one catalog entry. Public.
func (sc *StoryController) HandleGetStory(c *fiber.Ctx) error {
	id := c.Params("id")

	story, err := sc.stories.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Story not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to fetch story")
	}

	// Counted in Redis and flushed to the stories table in batches.
	if err := counter.AddStoryView(story.ID); err != nil {
		log.Printf("story view counter: %v", err)
	}

	return c.Status(fiber.StatusOK).JSON(story)
}

// HandleGetStoryPages returns the reading content for a story. The
// subscription gate runs before this handler.
func (sc *StoryController) HandleGetStoryPages(c *fiber.Ctx) error {
	id := c.Params("id")

	if _, err := sc.stories.GetByID(id); err != nil {
		if isNotFound(err) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Story not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to fetch story")
	}

	pages, err := sc.stories.GetPages(id)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to fetch story pages")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"story_id": id,
		"pages":    pages,
	})
}
