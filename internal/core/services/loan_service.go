package services

import (
	"context"
	"errors"
	"math"
	"time"

	"forza-loanapp/internal/core/domain"
	"forza-loanapp/internal/core/endpoints"
	"forza-loanapp/internal/core/session"
)

// AnnualInterestRate is the fixed nominal rate used for every product
const AnnualInterestRate = 0.16678

// Loan errors
var (
	ErrSubmitRequiresAuth = errors.New("authorization required to submit application")
	ErrInvalidStatus      = errors.New("invalid application status")
)

// LoanService handles application submission, aggregation and status
// simulation over the local collections
type LoanService struct {
	client *endpoints.Client
	auth   *session.AuthStore
	form   *session.LoanFormStore
}

// NewLoanService creates a new loan service
func NewLoanService(client *endpoints.Client, auth *session.AuthStore, form *session.LoanFormStore) *LoanService {
	return &LoanService{client: client, auth: auth, form: form}
}

// MonthlyPayment computes the amortized monthly installment for a principal
// over n months at the fixed annual rate, rounded to the nearest unit:
// P = L * (r * (1+r)^n) / ((1+r)^n - 1), r = annual rate / 12.
func MonthlyPayment(principal float64, months int) float64 {
	r := AnnualInterestRate / 12
	pow := math.Pow(1+r, float64(months))
	return math.Round(principal * (r * pow) / (pow - 1))
}

// SubmitLoanApplication submits the current draft as a pending application.
// userID overrides the session user when non-empty (used right after
// registration, before the session has settled). The draft resets on
// success.
func (s *LoanService) SubmitLoanApplication(ctx context.Context, userID string) (*domain.LoanApplication, error) {
	if userID == "" {
		if u := s.auth.CurrentUser(); u != nil {
			userID = u.ID
		}
	}
	if userID == "" {
		return nil, ErrSubmitRequiresAuth
	}

	form := s.form.Snapshot()
	if form.SelectedProduct == "" {
		return nil, domain.ErrNoProductSelected
	}
	if form.UserData.FirstName == "" || form.UserData.LastName == "" ||
		form.UserData.Phone == "" || form.UserData.JMBG == "" {
		return nil, domain.ErrApplicantIncomplete
	}

	created, err := s.client.CreateLoanApplication(ctx, domain.LoanApplication{
		UserID:          userID,
		Status:          domain.ApplicationPending,
		SelectedProduct: form.SelectedProduct,
		LoanAmount:      form.LoanAmount,
		LoanPeriod:      form.LoanPeriod,
		ApplicationDate: time.Now().UTC(),
		LoanAmountValue: form.LoanAmount,
		MonthlyPayment:  MonthlyPayment(form.LoanAmount, form.LoanPeriod),
	})
	if err != nil {
		return nil, err
	}

	if err := s.form.Reset(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// UserApplications returns the session user's applications
func (s *LoanService) UserApplications(ctx context.Context, userID string) ([]domain.LoanApplication, error) {
	return s.client.GetUserLoanApplications(ctx, userID)
}

// UserLoans returns the session user's disbursed loans
func (s *LoanService) UserLoans(ctx context.Context, userID string) ([]domain.LoanDetails, error) {
	return s.client.GetUserLoanDetails(ctx, userID)
}

// ApplicationsStats counts a user's applications by status
func (s *LoanService) ApplicationsStats(ctx context.Context, userID string) (domain.ApplicationsStats, error) {
	apps, err := s.client.GetUserLoanApplications(ctx, userID)
	if err != nil {
		return domain.ApplicationsStats{}, err
	}

	stats := domain.ApplicationsStats{Total: len(apps)}
	for _, app := range apps {
		switch app.Status {
		case domain.ApplicationPending:
			stats.Pending++
		case domain.ApplicationApproved:
			stats.Approved++
		case domain.ApplicationRejected:
			stats.Rejected++
		case domain.ApplicationCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}

// LoansStats counts a user's loans by status and sums the outstanding debt
// over active loans
func (s *LoanService) LoansStats(ctx context.Context, userID string) (domain.LoansStats, error) {
	loans, err := s.client.GetUserLoanDetails(ctx, userID)
	if err != nil {
		return domain.LoansStats{}, err
	}

	stats := domain.LoansStats{Total: len(loans)}
	for _, loan := range loans {
		switch loan.Status {
		case domain.LoanActive:
			stats.Active++
			stats.TotalDebt += loan.RemainingAmount
		case domain.LoanPaid:
			stats.Paid++
		case domain.LoanOverdue:
			stats.Overdue++
		}
	}
	return stats, nil
}

// SimulateStatusChange updates an application's status and forces a fresh
// read of the owner's application list, so the next consumer observes the
// change even though invalidation alone would already drop the cache
func (s *LoanService) SimulateStatusChange(ctx context.Context, applicationID string, status domain.ApplicationStatus) (*domain.LoanApplication, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	updated, err := s.client.UpdateLoanApplicationStatus(ctx, applicationID, status)
	if err != nil {
		return nil, err
	}

	if _, err := s.client.GetUserLoanApplications(ctx, updated.UserID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Disburse creates the loan-details record for an approved application.
// Nothing triggers this automatically on approval; it is the explicit
// extension hook for a future disbursement flow.
func (s *LoanService) Disburse(ctx context.Context, app *domain.LoanApplication) (*domain.LoanDetails, error) {
	if app == nil {
		return nil, domain.ErrApplicationNotFound
	}
	return s.client.CreateLoanDetails(ctx, domain.LoanDetails{
		ApplicationID:   app.ID,
		UserID:          app.UserID,
		LoanAmount:      app.LoanAmount,
		Status:          domain.LoanActive,
		RemainingAmount: app.LoanAmount,
	})
}

// PrefillApplicant copies the session user's identity into the draft
func (s *LoanService) PrefillApplicant(ctx context.Context) error {
	return s.form.Prefill(ctx, s.auth.CurrentUser())
}
