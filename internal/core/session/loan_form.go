package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"forza-loanapp/internal/adapters/persistence/kvstore"
	"forza-loanapp/internal/core/domain"
)

const loanPartitionKey = "loan"

// persistedLoanForm is the whitelisted subset of the draft that survives
// restarts. The wizard step always rehydrates to the first step.
type persistedLoanForm struct {
	SelectedProduct string               `json:"selectedProduct"`
	LoanAmount      float64              `json:"loanAmount"`
	LoanPeriod      int                  `json:"loanPeriod"`
	UserData        domain.ApplicantData `json:"userData"`
}

// LoanFormStore owns the in-progress loan application draft
type LoanFormStore struct {
	mu    sync.RWMutex
	store *kvstore.Store
	state domain.LoanFormData
}

// NewLoanFormStore creates a draft store at its initial values
func NewLoanFormStore(store *kvstore.Store) *LoanFormStore {
	return &LoanFormStore{store: store, state: initialLoanForm()}
}

func initialLoanForm() domain.LoanFormData {
	return domain.LoanFormData{
		LoanAmount:  1000,
		LoanPeriod:  3,
		CurrentStep: domain.StepProductCategories,
	}
}

// Load rehydrates the whitelisted draft fields from storage
func (s *LoanFormStore) Load(ctx context.Context) error {
	raw, ok, err := s.store.Get(ctx, loanPartitionKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	var persisted persistedLoanForm
	if err := json.Unmarshal(raw, &persisted); err != nil {
		return fmt.Errorf("parse loan partition: %w", err)
	}

	s.mu.Lock()
	s.state.SelectedProduct = persisted.SelectedProduct
	s.state.LoanAmount = persisted.LoanAmount
	s.state.LoanPeriod = persisted.LoanPeriod
	s.state.UserData = persisted.UserData
	s.state.CurrentStep = domain.StepProductCategories
	s.mu.Unlock()
	return nil
}

// SetSelectedProduct records the chosen credit product
func (s *LoanFormStore) SetSelectedProduct(ctx context.Context, product string) error {
	s.mu.Lock()
	s.state.SelectedProduct = product
	s.mu.Unlock()
	return s.persist(ctx)
}

// SetLoanAmount records the requested amount
func (s *LoanFormStore) SetLoanAmount(ctx context.Context, amount float64) error {
	s.mu.Lock()
	s.state.LoanAmount = amount
	s.mu.Unlock()
	return s.persist(ctx)
}

// SetLoanPeriod records the requested period in months
func (s *LoanFormStore) SetLoanPeriod(ctx context.Context, months int) error {
	s.mu.Lock()
	s.state.LoanPeriod = months
	s.mu.Unlock()
	return s.persist(ctx)
}

// SetApplicant replaces the draft applicant fields
func (s *LoanFormStore) SetApplicant(ctx context.Context, data domain.ApplicantData) error {
	s.mu.Lock()
	s.state.UserData = data
	s.mu.Unlock()
	return s.persist(ctx)
}

// Prefill copies the identity fields of an authenticated user into the draft
func (s *LoanFormStore) Prefill(ctx context.Context, user *domain.User) error {
	if user == nil {
		return nil
	}
	return s.SetApplicant(ctx, domain.ApplicantData{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		JMBG:      user.JMBG,
	})
}

// SetCurrentStep moves the wizard to an explicit step
func (s *LoanFormStore) SetCurrentStep(step domain.LoanStep) {
	s.mu.Lock()
	s.state.CurrentStep = step
	s.mu.Unlock()
}

// NextStep advances the wizard, clamping at the last step
func (s *LoanFormStore) NextStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := stepIndex(s.state.CurrentStep)
	if i >= 0 && i < len(domain.LoanSteps)-1 {
		s.state.CurrentStep = domain.LoanSteps[i+1]
	}
}

// PreviousStep moves the wizard back, clamping at the first step
func (s *LoanFormStore) PreviousStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := stepIndex(s.state.CurrentStep)
	if i > 0 {
		s.state.CurrentStep = domain.LoanSteps[i-1]
	}
}

// Reset restores the draft to its initial values
func (s *LoanFormStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.state = initialLoanForm()
	s.mu.Unlock()
	return s.persist(ctx)
}

// Snapshot returns a copy of the current draft
func (s *LoanFormStore) Snapshot() domain.LoanFormData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *LoanFormStore) persist(ctx context.Context) error {
	s.mu.RLock()
	raw, err := json.Marshal(persistedLoanForm{
		SelectedProduct: s.state.SelectedProduct,
		LoanAmount:      s.state.LoanAmount,
		LoanPeriod:      s.state.LoanPeriod,
		UserData:        s.state.UserData,
	})
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode loan partition: %w", err)
	}
	return s.store.Set(ctx, loanPartitionKey, raw)
}

func stepIndex(step domain.LoanStep) int {
	for i, s := range domain.LoanSteps {
		if s == step {
			return i
		}
	}
	return -1
}
