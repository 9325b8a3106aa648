package session

import (
	"context"
	"encoding/json"
	"fmt"

	"forza-loanapp/internal/adapters/persistence/kvstore"
	"forza-loanapp/internal/core/domain"
)

// Preference keys
const (
	keyPasscode      = "app_passcode"
	keyBiometrics    = "biometrics_enabled"
	keyInLoanProcess = "in_loan_process"
	keyPendingLoan   = "loan_pending"
)

// Prefs reads and writes the small device-preference flags
type Prefs struct {
	store *kvstore.Store
}

// NewPrefs creates a preference accessor over the key-value store
func NewPrefs(store *kvstore.Store) *Prefs {
	return &Prefs{store: store}
}

// SetPasscode stores the app passcode
func (p *Prefs) SetPasscode(ctx context.Context, code string) error {
	return p.store.Set(ctx, keyPasscode, []byte(code))
}

// Passcode returns the stored passcode and whether one exists
func (p *Prefs) Passcode(ctx context.Context) (string, bool, error) {
	raw, ok, err := p.store.Get(ctx, keyPasscode)
	if err != nil || !ok {
		return "", false, err
	}
	return string(raw), len(raw) > 0, nil
}

// PasscodeExists reports whether a non-empty passcode is stored
func (p *Prefs) PasscodeExists(ctx context.Context) (bool, error) {
	_, ok, err := p.Passcode(ctx)
	return ok, err
}

// SetBiometricsEnabled records the biometric unlock preference
func (p *Prefs) SetBiometricsEnabled(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return p.store.Set(ctx, keyBiometrics, []byte(value))
}

// BiometricsEnabled reports the biometric unlock preference
func (p *Prefs) BiometricsEnabled(ctx context.Context) (bool, error) {
	raw, ok, err := p.store.Get(ctx, keyBiometrics)
	if err != nil || !ok {
		return false, err
	}
	return string(raw) == "true", nil
}

// SetInLoanProcess writes the in-loan-process sentinel
func (p *Prefs) SetInLoanProcess(ctx context.Context) error {
	return p.store.Set(ctx, keyInLoanProcess, []byte("true"))
}

// ClearInLoanProcess removes the in-loan-process sentinel
func (p *Prefs) ClearInLoanProcess(ctx context.Context) error {
	return p.store.Delete(ctx, keyInLoanProcess)
}

// InLoanProcess reports whether a loan application is mid-flight
func (p *Prefs) InLoanProcess(ctx context.Context) (bool, error) {
	raw, ok, err := p.store.Get(ctx, keyInLoanProcess)
	if err != nil || !ok {
		return false, err
	}
	return string(raw) == "true", nil
}

// SetPendingLoan persists the marker written between account creation and
// application submission
func (p *Prefs) SetPendingLoan(ctx context.Context, pending domain.PendingLoan) error {
	raw, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encode pending loan: %w", err)
	}
	return p.store.Set(ctx, keyPendingLoan, raw)
}

// PendingLoan returns the pending-loan marker, nil when absent
func (p *Prefs) PendingLoan(ctx context.Context) (*domain.PendingLoan, error) {
	raw, ok, err := p.store.Get(ctx, keyPendingLoan)
	if err != nil || !ok {
		return nil, err
	}
	var pending domain.PendingLoan
	if err := json.Unmarshal(raw, &pending); err != nil {
		return nil, fmt.Errorf("parse pending loan: %w", err)
	}
	return &pending, nil
}

// ClearPendingLoan removes the pending-loan marker
func (p *Prefs) ClearPendingLoan(ctx context.Context) error {
	return p.store.Delete(ctx, keyPendingLoan)
}
