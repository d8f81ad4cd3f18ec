package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ddukddak/taleapi/app/models"
	"github.com/ddukddak/taleapi/app/repository"
	"github.com/ddukddak/taleapi/internal/pkg/usercontext"
	"github.com/ddukddak/taleapi/internal/pkg/utils"
)

// UpdateUserRequest is the body for profile updates.
type UpdateUserRequest struct {
	Nickname  string `json:"nickname" validate:"omitempty,max=100"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url,max=255"`
}

// UserController serves the authenticated user's profile.
type UserController struct {
	users repository.UserRepository
}

// NewUserController creates a user controller from an injected repository.
func NewUserController(users repository.UserRepository) *UserController {
	return &UserController{users: users}
}

// HandleGetProfile returns the caller's profile. Falls back to the token
// identity when no local row exists yet.
func (uc *UserController) HandleGetProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	user, err := uc.users.GetByID(userCtx.UserID)
	if err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"id":         userCtx.UserID,
				"email":      userCtx.Email,
				"provider":   models.ProviderEmail,
				"avatar_url": utils.GetGravatarURL(userCtx.Email, 200),
			})
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to fetch profile")
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// HandleUpdateProfile upserts the caller's profile fields.
func (uc *UserController) HandleUpdateProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	avatarURL := req.AvatarURL
	if avatarURL == "" {
		avatarURL = utils.GetGravatarURL(userCtx.Email, 200)
	}

	user := &models.User{
		ID:        userCtx.UserID,
		Email:     userCtx.Email,
		Nickname:  req.Nickname,
		AvatarURL: avatarURL,
	}
	if err := uc.users.Upsert(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update profile")
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// HandleDeleteAccount removes the caller's local profile row.
func (uc *UserController) HandleDeleteAccount(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	if err := uc.users.Delete(userCtx.UserID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete account")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
