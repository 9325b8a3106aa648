package handlers

import (
	"forza-loanapp/internal/core/navigation"
	"forza-loanapp/internal/core/session"
	"forza-loanapp/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler exposes the app-shell state: the screen router and the
// device preference flags
type SessionHandler struct {
	router *navigation.Router
	prefs  *session.Prefs
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(router *navigation.Router, prefs *session.Prefs) *SessionHandler {
	return &SessionHandler{router: router, prefs: prefs}
}

// NavigateRequest represents a navigation body
type NavigateRequest struct {
	Screen string `json:"screen"`
	Tab    string `json:"tab"`
	Mode   string `json:"mode"`
}

// PasscodeRequest represents a passcode body
type PasscodeRequest struct {
	Code string `json:"code"`
}

// BiometricsRequest represents a biometrics toggle body
type BiometricsRequest struct {
	Enabled bool `json:"enabled"`
}

type screenState struct {
	Current         navigation.Screen `json:"current"`
	CallbackVisible bool              `json:"callbackVisible"`
	InLoanProcess   bool              `json:"inLoanProcess"`
}

func toScreenState(s navigation.State) screenState {
	return screenState{
		Current:         s.Current,
		CallbackVisible: s.CallbackVisible,
		InLoanProcess:   s.InLoanProcess,
	}
}

// GetScreen returns the current screen, resolving the startup screen on
// the first call
// @Summary Current screen
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response
// @Router /session/screen [get]
func (h *SessionHandler) GetScreen(c *fiber.Ctx) error {
	state := h.router.State()
	if state.Current == "" {
		if _, err := h.router.Resolve(c.Context()); err != nil {
			return serviceError(c, err)
		}
		state = h.router.State()
	}
	return response.Success(c, "", toScreenState(state))
}

// Navigate moves the router to a destination screen
// @Summary Navigate
// @Tags Session
// @Accept json
// @Produce json
// @Param body body NavigateRequest true "Destination"
// @Success 200 {object} response.Response
// @Router /session/navigate [post]
func (h *SessionHandler) Navigate(c *fiber.Ctx) error {
	var req NavigateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	screen := navigation.Screen(req.Screen)
	if !screen.IsValid() {
		return response.BadRequest(c, "Unknown screen")
	}

	var params navigation.Params
	switch screen {
	case navigation.ScreenProducts:
		if req.Tab != "" {
			params = navigation.ProductsParams{Tab: req.Tab}
		}
	case navigation.ScreenPassword:
		if req.Mode != "" {
			params = navigation.PasswordParams{Mode: req.Mode}
		}
	}

	if err := h.router.NavigateTo(c.Context(), screen, params); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", toScreenState(h.router.State()))
}

// CloseCallback dismisses the callback overlay
// @Summary Close callback overlay
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response
// @Router /session/callback/close [post]
func (h *SessionHandler) CloseCallback(c *fiber.Ctx) error {
	if err := h.router.CloseCallback(c.Context()); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", toScreenState(h.router.State()))
}

// ExitLoanProcess leaves the loan wizard
// @Summary Exit loan process
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response
// @Router /session/loan/exit [post]
func (h *SessionHandler) ExitLoanProcess(c *fiber.Ctx) error {
	if err := h.router.ExitLoanProcess(c.Context()); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", toScreenState(h.router.State()))
}

// SetPasscode stores the app passcode
// @Summary Set passcode
// @Tags Session
// @Accept json
// @Produce json
// @Param body body PasscodeRequest true "Passcode"
// @Success 200 {object} response.Response
// @Router /session/passcode [post]
func (h *SessionHandler) SetPasscode(c *fiber.Ctx) error {
	var req PasscodeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Code == "" {
		return response.BadRequest(c, "Passcode is required")
	}

	if err := h.prefs.SetPasscode(c.Context(), req.Code); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Passcode saved", nil)
}

// VerifyPasscode compares an entered passcode with the stored one
// @Summary Verify passcode
// @Tags Session
// @Accept json
// @Produce json
// @Param body body PasscodeRequest true "Passcode"
// @Success 200 {object} response.Response
// @Router /session/passcode/verify [post]
func (h *SessionHandler) VerifyPasscode(c *fiber.Ctx) error {
	var req PasscodeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	stored, exists, err := h.prefs.Passcode(c.Context())
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "", fiber.Map{
		"valid": exists && stored == req.Code,
	})
}

// PasscodeExists reports whether a passcode is set
// @Summary Passcode status
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response
// @Router /session/passcode [get]
func (h *SessionHandler) PasscodeExists(c *fiber.Ctx) error {
	exists, err := h.prefs.PasscodeExists(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", fiber.Map{"exists": exists})
}

// SetBiometrics records the biometric unlock preference
// @Summary Toggle biometrics
// @Tags Session
// @Accept json
// @Produce json
// @Param body body BiometricsRequest true "Preference"
// @Success 200 {object} response.Response
// @Router /session/biometrics [post]
func (h *SessionHandler) SetBiometrics(c *fiber.Ctx) error {
	var req BiometricsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.prefs.SetBiometricsEnabled(c.Context(), req.Enabled); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Preference saved", nil)
}

// GetBiometrics reports the biometric unlock preference
// @Summary Biometrics status
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response
// @Router /session/biometrics [get]
func (h *SessionHandler) GetBiometrics(c *fiber.Ctx) error {
	enabled, err := h.prefs.BiometricsEnabled(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", fiber.Map{"enabled": enabled})
}
