package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const apiVersion = "1.0.0"

// HandleHealth reports service liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   apiVersion,
	})
}
