package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/laundrylink/internal/config"
	"github.com/example/laundrylink/internal/identity"
	"github.com/example/laundrylink/internal/models"
	"github.com/example/laundrylink/internal/services"
)

// AuthHandler bundles dependencies for the OTP authentication endpoints.
type AuthHandler struct {
	flow *services.AuthFlow
	cfg  *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(flow *services.AuthFlow, cfg *config.Config) *AuthHandler {
	return &AuthHandler{flow: flow, cfg: cfg}
}

type sendOTPRequest struct {
	Email       string `json:"email"`
	CountryCode string `json:"country_code"`
	PhoneNumber string `json:"phone_number"`
	UserType    string `json:"user_type"`
}

// SendOTP resolves (or creates) the account for the submitted identity
// and issues a one-time code. Delivery is out of band; in debug mode the
// code is echoed in the response for tooling.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	id, err := identity.Parse(req.Email, req.CountryCode, req.PhoneNumber)
	if err != nil {
		return badIdentity(err)
	}

	code, err := h.flow.RequestCode(id, req.UserType)
	if err != nil {
		return authError(err)
	}

	resp := fiber.Map{
		"status":  "success",
		"message": "OTP sent successfully",
	}
	if h.cfg.Debug {
		resp["otp"] = code
	}

	return c.JSON(resp)
}

type verifyOTPRequest struct {
	Email       string `json:"email"`
	CountryCode string `json:"country_code"`
	PhoneNumber string `json:"phone_number"`
	OTP         string `json:"otp"`
	UserType    string `json:"user_type"`
}

// VerifyOTP consumes the submitted code, marks the account verified and
// returns the account summary, its profile (or null) and the bearer token.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.OTP == "" {
		return fiber.NewError(fiber.StatusBadRequest, "otp is required")
	}

	id, err := identity.Parse(req.Email, req.CountryCode, req.PhoneNumber)
	if err != nil {
		return badIdentity(err)
	}

	result, err := h.flow.VerifyCode(id, req.OTP, req.UserType)
	if err != nil {
		return authError(err)
	}

	return c.JSON(fiber.Map{
		"status":      "success",
		"user_exists": result.Profile != nil,
		"user":        userPayload(result.User, result.Profile),
		"profile":     profilePayload(result.Profile),
		"token":       result.Token,
	})
}

func badIdentity(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}

func authError(err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidIdentity),
		errors.Is(err, services.ErrDuplicateAccount),
		errors.Is(err, services.ErrInvalidOrExpiredCode):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

func userPayload(user *models.User, profile *models.UserProfile) fiber.Map {
	fullName := ""
	if profile != nil {
		fullName = profile.FullName()
	}

	return fiber.Map{
		"id":           user.ID,
		"email":        user.Email,
		"country_code": user.CountryCode,
		"phone_number": user.PhoneNumber,
		"full_phone":   user.FullPhone(),
		"full_name":    fullName,
		"user_type":    user.UserType,
		"is_verified":  user.IsVerified,
		"profile":      profilePayload(profile),
	}
}

func profilePayload(profile *models.UserProfile) interface{} {
	if profile == nil {
		return nil
	}
	return fiber.Map{
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"pincode":    profile.Pincode,
		"address":    profile.Address,
	}
}
