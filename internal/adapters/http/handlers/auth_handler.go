package handlers

import (
	"strings"
	"time"

	"forza-loanapp/internal/config"
	"forza-loanapp/internal/core/domain"
	"forza-loanapp/internal/core/services"
	"forza-loanapp/internal/pkg/jwt"
	"forza-loanapp/internal/pkg/password"
	"forza-loanapp/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// UserResponse is a user without the credential hash
type UserResponse struct {
	ID                 string `json:"id"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Phone              string `json:"phone"`
	JMBG               string `json:"jmbg"`
	Email              string `json:"email,omitempty"`
	Avatar             string `json:"avatar,omitempty"`
	ResidentialAddress string `json:"residentialAddress,omitempty"`
	CreatedAt          string `json:"createdAt"`
}

func newUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:                 u.ID,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Phone:              u.Phone,
		JMBG:               u.JMBG,
		Email:              u.Email,
		Avatar:             u.Avatar,
		ResidentialAddress: u.ResidentialAddress,
		CreatedAt:          u.CreatedAt.Format(time.RFC3339),
	}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	JMBG      string `json:"jmbg"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// FindAccountRequest represents the reset-password lookup body
type FindAccountRequest struct {
	Identifier string `json:"identifier"`
	JMBG       string `json:"jmbg"`
}

// Register creates an account without authenticating the session
// @Summary Register new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.FirstName) == "" {
		return response.BadRequest(c, "First name is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		return response.BadRequest(c, "Last name is required")
	}
	if strings.TrimSpace(req.Phone) == "" {
		return response.BadRequest(c, "Phone is required")
	}
	if len(strings.TrimSpace(req.JMBG)) != 13 {
		return response.BadRequest(c, "JMBG must be 13 digits")
	}
	if !password.Validate(req.Password) {
		return response.BadRequest(c, "Password must be at least 6 characters")
	}

	user, err := h.authService.CreateUserOnly(c.Context(), services.CreateUserInput{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		JMBG:      strings.TrimSpace(req.JMBG),
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return response.Created(c, "Account created", newUserResponse(user))
}

// Login authenticates by email or phone plus password
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Identifier == "" || req.Password == "" {
		return response.BadRequest(c, "Identifier and password are required")
	}

	user, err := h.authService.Login(c.Context(), req.Identifier, req.Password)
	if err != nil {
		return serviceError(c, err)
	}

	token, err := jwt.GenerateAccessToken(user.ID, user.Phone, h.cfg.JWT.Secret, h.cfg.JWT.AccessTokenMins)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}

	h.setAccessCookie(c, token)

	return response.Success(c, "Login successful", fiber.Map{
		"user":         newUserResponse(user),
		"access_token": token,
	})
}

// Logout clears the session and the access token cookie
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.Context()); err != nil {
		return serviceError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})

	return response.Success(c, "Logged out", nil)
}

// FindAccount backs the reset-password lookup
// @Summary Find account by identifier and JMBG
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body FindAccountRequest true "Lookup data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/find-account [post]
func (h *AuthHandler) FindAccount(c *fiber.Ctx) error {
	var req FindAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Identifier) == "" || strings.TrimSpace(req.JMBG) == "" {
		return response.BadRequest(c, "Please fill in all fields")
	}
	if len(req.JMBG) != 13 {
		return response.BadRequest(c, "JMBG must have exactly 13 digits")
	}

	user, err := h.authService.FindAccount(c.Context(), strings.TrimSpace(req.Identifier), req.JMBG)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "User successfully found. You can restore access.", newUserResponse(user))
}

func (h *AuthHandler) setAccessCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  time.Now().Add(time.Duration(h.cfg.JWT.AccessTokenMins) * time.Minute),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}
