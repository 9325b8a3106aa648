package handlers

import (
	"forza-loanapp/internal/core/domain"
	"forza-loanapp/internal/core/endpoints"
	"forza-loanapp/internal/core/services"
	"forza-loanapp/internal/core/session"
	"forza-loanapp/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles the loan wizard and application endpoints
type LoanHandler struct {
	client       *endpoints.Client
	loanService  *services.LoanService
	registration *services.RegistrationService
	form         *session.LoanFormStore
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(
	client *endpoints.Client,
	loanService *services.LoanService,
	registration *services.RegistrationService,
	form *session.LoanFormStore,
) *LoanHandler {
	return &LoanHandler{
		client:       client,
		loanService:  loanService,
		registration: registration,
		form:         form,
	}
}

// UpdateDraftRequest represents a draft update body.
// Pointer fields distinguish "absent" from "set to zero".
type UpdateDraftRequest struct {
	SelectedProduct *string               `json:"selectedProduct"`
	LoanAmount      *float64              `json:"loanAmount"`
	LoanPeriod      *int                  `json:"loanPeriod"`
	UserData        *domain.ApplicantData `json:"userData"`
	CurrentStep     *domain.LoanStep      `json:"currentStep"`
}

// UpdateStatusRequest represents a status change body
type UpdateStatusRequest struct {
	Status domain.ApplicationStatus `json:"status"`
}

// Products returns the seeded product catalog
// @Summary List loan products
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Response
// @Router /products [get]
func (h *LoanHandler) Products(c *fiber.Ctx) error {
	products, err := h.client.GetLoanProducts(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", products)
}

// GetDraft returns the in-progress application draft
// @Summary Get loan draft
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Response
// @Router /loan/draft [get]
func (h *LoanHandler) GetDraft(c *fiber.Ctx) error {
	return response.Success(c, "", h.form.Snapshot())
}

// UpdateDraft applies the supplied draft fields
// @Summary Update loan draft
// @Tags Loans
// @Accept json
// @Produce json
// @Param body body UpdateDraftRequest true "Draft fields"
// @Success 200 {object} response.Response
// @Router /loan/draft [put]
func (h *LoanHandler) UpdateDraft(c *fiber.Ctx) error {
	var req UpdateDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	ctx := c.Context()
	if req.SelectedProduct != nil {
		if err := h.form.SetSelectedProduct(ctx, *req.SelectedProduct); err != nil {
			return serviceError(c, err)
		}
	}
	if req.LoanAmount != nil {
		if err := h.form.SetLoanAmount(ctx, *req.LoanAmount); err != nil {
			return serviceError(c, err)
		}
	}
	if req.LoanPeriod != nil {
		if err := h.form.SetLoanPeriod(ctx, *req.LoanPeriod); err != nil {
			return serviceError(c, err)
		}
	}
	if req.UserData != nil {
		if err := h.form.SetApplicant(ctx, *req.UserData); err != nil {
			return serviceError(c, err)
		}
	}
	if req.CurrentStep != nil {
		h.form.SetCurrentStep(*req.CurrentStep)
	}

	return response.Success(c, "Draft updated", h.form.Snapshot())
}

// NextStep advances the wizard
// @Summary Advance wizard step
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Response
// @Router /loan/draft/next [post]
func (h *LoanHandler) NextStep(c *fiber.Ctx) error {
	h.form.NextStep()
	return response.Success(c, "", h.form.Snapshot())
}

// PreviousStep moves the wizard back
// @Summary Rewind wizard step
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Response
// @Router /loan/draft/previous [post]
func (h *LoanHandler) PreviousStep(c *fiber.Ctx) error {
	h.form.PreviousStep()
	return response.Success(c, "", h.form.Snapshot())
}

// PrefillDraft copies the session user's identity into the draft
// @Summary Prefill draft applicant
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loan/draft/prefill [post]
func (h *LoanHandler) PrefillDraft(c *fiber.Ctx) error {
	if err := h.loanService.PrefillApplicant(c.Context()); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", h.form.Snapshot())
}

// Submit submits the current draft as a pending application
// @Summary Submit loan application
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loan/submit [post]
func (h *LoanHandler) Submit(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	app, err := h.loanService.SubmitLoanApplication(c.Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, "Application submitted", app)
}

// RegisterAndApply runs the composite registration-and-apply flow
// @Summary Register and submit application
// @Tags Loans
// @Accept json
// @Produce json
// @Param body body services.RegistrationInput true "Credential fields"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loan/register-and-apply [post]
func (h *LoanHandler) RegisterAndApply(c *fiber.Ctx) error {
	var req services.RegistrationInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.registration.Submit(c.Context(), req)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, "Application submitted", app)
}

// Applications lists the authenticated user's applications
// @Summary List loan applications
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/applications [get]
func (h *LoanHandler) Applications(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	apps, err := h.loanService.UserApplications(c.Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", apps)
}

// ApplicationByID returns one application
// @Summary Get loan application
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/applications/{id} [get]
func (h *LoanHandler) ApplicationByID(c *fiber.Ctx) error {
	app, err := h.client.GetLoanApplicationByID(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	if app == nil {
		return response.NotFound(c, "loan application not found")
	}
	return response.Success(c, "", app)
}

// UpdateStatus changes an application's status (simulation)
// @Summary Update application status
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/applications/{id}/status [put]
func (h *LoanHandler) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	updated, err := h.loanService.SimulateStatusChange(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Status updated", updated)
}

// Loans lists the authenticated user's disbursed loans
// @Summary List loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/details [get]
func (h *LoanHandler) Loans(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	loans, err := h.loanService.UserLoans(c.Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "", loans)
}

// LoanByID returns one disbursed loan
// @Summary Get loan details
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/details/{id} [get]
func (h *LoanHandler) LoanByID(c *fiber.Ctx) error {
	loan, err := h.client.GetLoanDetailsByID(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	if loan == nil {
		return response.NotFound(c, "loan not found")
	}
	return response.Success(c, "", loan)
}

// Stats aggregates the user's applications and loans
// @Summary Get loan statistics
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/stats [get]
func (h *LoanHandler) Stats(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	ctx := c.Context()

	applications, err := h.loanService.ApplicationsStats(ctx, userID)
	if err != nil {
		return serviceError(c, err)
	}
	loans, err := h.loanService.LoansStats(ctx, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "", fiber.Map{
		"applications": applications,
		"loans":        loans,
	})
}
