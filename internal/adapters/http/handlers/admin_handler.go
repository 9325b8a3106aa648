package handlers

import (
	"forza-loanapp/internal/core/domain"
	"forza-loanapp/internal/core/endpoints"
	"forza-loanapp/internal/core/services"
	"forza-loanapp/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the dev-only reset and disbursement endpoints
type AdminHandler struct {
	client      *endpoints.Client
	loanService *services.LoanService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(client *endpoints.Client, loanService *services.LoanService) *AdminHandler {
	return &AdminHandler{client: client, loanService: loanService}
}

// ClearData removes the three data collections
// @Summary Clear all data
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/data [delete]
func (h *AdminHandler) ClearData(c *fiber.Ctx) error {
	if err := h.client.ClearAllData(c.Context()); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "All data cleared", nil)
}

// Disburse creates the loan record for an approved application. This is
// the manual trigger for the disbursement extension hook.
// @Summary Disburse approved application
// @Tags Admin
// @Produce json
// @Param id path string true "Application ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/applications/{id}/disburse [post]
func (h *AdminHandler) Disburse(c *fiber.Ctx) error {
	app, err := h.client.GetLoanApplicationByID(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	if app == nil {
		return response.NotFound(c, "loan application not found")
	}
	if app.Status != domain.ApplicationApproved {
		return response.BadRequest(c, "application is not approved")
	}

	loan, err := h.loanService.Disburse(c.Context(), app)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, "Loan disbursed", loan)
}
