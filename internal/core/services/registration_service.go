package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"forza-loanapp/internal/core/domain"
	"forza-loanapp/internal/core/session"
	"forza-loanapp/internal/pkg/password"
)

// Registration flow errors
var (
	ErrAlreadyProcessing = errors.New("registration already in progress")
	ErrFieldsRequired    = errors.New("please fill in all required fields")
	ErrJMBGLength        = errors.New("JMBG must be 13 digits")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrAccountNotCreated = errors.New("unable to create account")
	ErrSubmissionFailed  = errors.New("unable to submit application")
)

// RegistrationInput carries the credential fields entered on the
// registration step; the applicant fields come from the loan form draft
type RegistrationInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// RegistrationService orchestrates the registration-and-apply composite:
// for an anonymous session it validates, creates the account, logs in,
// marks the pending loan and submits; authenticated sessions go straight
// to submission. The flow is non-reentrant.
type RegistrationService struct {
	auth       *AuthService
	loans      *LoanService
	authStore  *session.AuthStore
	form       *session.LoanFormStore
	prefs      *session.Prefs
	processing atomic.Bool
}

// NewRegistrationService creates a new registration flow service
func NewRegistrationService(
	auth *AuthService,
	loans *LoanService,
	authStore *session.AuthStore,
	form *session.LoanFormStore,
	prefs *session.Prefs,
) *RegistrationService {
	return &RegistrationService{
		auth:      auth,
		loans:     loans,
		authStore: authStore,
		form:      form,
		prefs:     prefs,
	}
}

// Submit runs the composite flow and, on success, advances the wizard to
// the documents step. On any failure after the markers were written, both
// the in-process and pending-loan markers are rolled back and the specific
// error is surfaced.
func (s *RegistrationService) Submit(ctx context.Context, input RegistrationInput) (*domain.LoanApplication, error) {
	if !s.processing.CompareAndSwap(false, true) {
		return nil, ErrAlreadyProcessing
	}
	defer s.processing.Store(false)

	if err := s.prefs.SetInLoanProcess(ctx); err != nil {
		return nil, err
	}

	if s.authStore.IsAuthenticated() {
		app, err := s.loans.SubmitLoanApplication(ctx, "")
		if err != nil {
			return nil, err
		}
		s.form.SetCurrentStep(domain.StepDocuments)
		return app, nil
	}

	form := s.form.Snapshot()
	if err := validateRegistration(form, input); err != nil {
		// validation failures never reach account creation
		if clearErr := s.prefs.ClearInLoanProcess(ctx); clearErr != nil {
			return nil, clearErr
		}
		return nil, err
	}

	user, err := s.auth.CreateUserOnly(ctx, CreateUserInput{
		FirstName: strings.TrimSpace(form.UserData.FirstName),
		LastName:  strings.TrimSpace(form.UserData.LastName),
		Phone:     strings.TrimSpace(form.UserData.Phone),
		JMBG:      strings.TrimSpace(form.UserData.JMBG),
		Email:     strings.TrimSpace(input.Email),
		Password:  input.Password,
	})
	if err != nil {
		s.prefs.ClearInLoanProcess(ctx)
		return nil, errors.Join(ErrAccountNotCreated, err)
	}

	if err := s.auth.LoginAs(ctx, user); err != nil {
		s.prefs.ClearInLoanProcess(ctx)
		return nil, err
	}

	if err := s.prefs.SetPendingLoan(ctx, domain.PendingLoan{
		User: user,
		LoanData: domain.PendingLoanData{
			SelectedProduct: form.SelectedProduct,
			LoanAmount:      form.LoanAmount,
			LoanPeriod:      form.LoanPeriod,
		},
	}); err != nil {
		s.prefs.ClearInLoanProcess(ctx)
		return nil, err
	}

	app, err := s.loans.SubmitLoanApplication(ctx, user.ID)
	if err != nil {
		s.prefs.ClearPendingLoan(ctx)
		s.prefs.ClearInLoanProcess(ctx)
		return nil, errors.Join(ErrSubmissionFailed, err)
	}

	s.form.SetCurrentStep(domain.StepDocuments)
	return app, nil
}

func validateRegistration(form domain.LoanFormData, input RegistrationInput) error {
	if strings.TrimSpace(form.UserData.FirstName) == "" ||
		strings.TrimSpace(form.UserData.LastName) == "" ||
		strings.TrimSpace(form.UserData.Phone) == "" ||
		strings.TrimSpace(form.UserData.JMBG) == "" {
		return ErrFieldsRequired
	}
	if len(strings.TrimSpace(form.UserData.JMBG)) != 13 {
		return ErrJMBGLength
	}
	if !password.Validate(input.Password) {
		return ErrPasswordTooShort
	}
	if input.Password != input.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}
