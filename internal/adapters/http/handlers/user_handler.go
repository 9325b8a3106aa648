package handlers

import (
	"strings"

	"forza-loanapp/internal/core/services"
	"forza-loanapp/internal/core/session"
	"forza-loanapp/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profile endpoints
type UserHandler struct {
	authService *services.AuthService
	auth        *session.AuthStore
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *services.AuthService, auth *session.AuthStore) *UserHandler {
	return &UserHandler{authService: authService, auth: auth}
}

// UpdateProfileRequest represents a profile update body.
// Pointer fields distinguish "absent" from "set to empty".
type UpdateProfileRequest struct {
	FirstName          *string `json:"firstName"`
	LastName           *string `json:"lastName"`
	Phone              *string `json:"phone"`
	Email              *string `json:"email"`
	Avatar             *string `json:"avatar"`
	ResidentialAddress *string `json:"residentialAddress"`
}

// GetProfile returns the session user
// @Summary Get profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user := h.auth.CurrentUser()
	if user == nil {
		return response.Unauthorized(c, "user not authorized")
	}
	return response.Success(c, "", newUserResponse(user))
}

// UpdateProfile shallow-merges the supplied fields over the session user
// @Summary Update profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} response.Response
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	patch := make(map[string]interface{})
	put := func(key string, value *string) {
		if value != nil {
			patch[key] = strings.TrimSpace(*value)
		}
	}
	put("firstName", req.FirstName)
	put("lastName", req.LastName)
	put("phone", req.Phone)
	put("email", req.Email)
	put("avatar", req.Avatar)
	put("residentialAddress", req.ResidentialAddress)

	if len(patch) == 0 {
		return response.BadRequest(c, "No fields to update")
	}

	updated, err := h.authService.UpdateProfile(c.Context(), patch)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Profile updated", newUserResponse(updated))
}
