package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/laundrylink/internal/middleware"
	"github.com/example/laundrylink/internal/services"
)

// ProfileHandler manages the authenticated account's profile resource.
type ProfileHandler struct {
	flow *services.AuthFlow
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(flow *services.AuthFlow) *ProfileHandler {
	return &ProfileHandler{flow: flow}
}

// GetProfile returns the account with its profile, or profile null when
// none has been created yet.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	loaded, err := h.flow.GetProfile(user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"user":   userPayload(loaded, loaded.Profile),
	})
}

// CreateProfile attaches a profile to the account.
func (h *ProfileHandler) CreateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var input services.ProfileInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.flow.CreateProfile(user.ID, input)
	if err != nil {
		return profileError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Profile created successfully",
		"user":    userPayload(user, profile),
	})
}

// UpdateProfile replaces every profile field.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var input services.ProfileInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.flow.ReplaceProfile(user.ID, input)
	if err != nil {
		return profileError(err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Profile updated successfully",
		"user":    userPayload(user, profile),
	})
}

// PatchProfile merges only the provided profile fields.
func (h *ProfileHandler) PatchProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var input services.ProfileUpdate
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.flow.PatchProfile(user.ID, input)
	if err != nil {
		return profileError(err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Profile updated successfully",
		"user":    userPayload(user, profile),
	})
}

func profileError(err error) error {
	switch {
	case errors.Is(err, services.ErrProfileExists):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrProfileNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return err
	}
}
