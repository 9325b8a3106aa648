package session

import (
	"context"
	"path/filepath"
	"testing"

	"forza-loanapp/internal/adapters/persistence/kvstore"
	"forza-loanapp/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *kvstore.Store {
	t.Helper()
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAuthPartitionSurvivesReload(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := NewAuthStore(store)
	require.NoError(t, first.LoginSuccess(ctx, &domain.User{ID: "u1", FirstName: "Ana"}))
	first.SetLoading(true)

	second := NewAuthStore(store)
	require.NoError(t, second.Load(ctx))

	state := second.State()
	require.NotNil(t, state.User)
	assert.Equal(t, "u1", state.User.ID)
	assert.True(t, state.IsAuthenticated)
	// the loading flag is transient and never persisted
	assert.False(t, state.IsLoading)
}

func TestAuthLoadWithEmptyStore(t *testing.T) {
	store := newTestStore(t)

	auth := NewAuthStore(store)
	require.NoError(t, auth.Load(context.Background()))
	assert.False(t, auth.IsAuthenticated())
	assert.Nil(t, auth.CurrentUser())
}

func TestLogoutPersistsAnonymousState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := NewAuthStore(store)
	require.NoError(t, first.LoginSuccess(ctx, &domain.User{ID: "u1"}))
	require.NoError(t, first.Logout(ctx))

	second := NewAuthStore(store)
	require.NoError(t, second.Load(ctx))
	assert.False(t, second.IsAuthenticated())
	assert.Nil(t, second.CurrentUser())
}

func TestLoanFormDefaults(t *testing.T) {
	store := newTestStore(t)

	form := NewLoanFormStore(store)
	draft := form.Snapshot()
	assert.Equal(t, float64(1000), draft.LoanAmount)
	assert.Equal(t, 3, draft.LoanPeriod)
	assert.Equal(t, domain.StepProductCategories, draft.CurrentStep)
	assert.Empty(t, draft.SelectedProduct)
}

func TestLoanFormStepNotPersisted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := NewLoanFormStore(store)
	require.NoError(t, first.SetSelectedProduct(ctx, "microloan"))
	require.NoError(t, first.SetLoanAmount(ctx, 2500))
	first.SetCurrentStep(domain.StepDocuments)
	// a later persisted write must not carry the step along
	require.NoError(t, first.SetLoanPeriod(ctx, 9))

	second := NewLoanFormStore(store)
	require.NoError(t, second.Load(ctx))

	draft := second.Snapshot()
	assert.Equal(t, "microloan", draft.SelectedProduct)
	assert.Equal(t, float64(2500), draft.LoanAmount)
	assert.Equal(t, 9, draft.LoanPeriod)
	assert.Equal(t, domain.StepProductCategories, draft.CurrentStep)
}

func TestLoanFormStepClamping(t *testing.T) {
	store := newTestStore(t)
	form := NewLoanFormStore(store)

	form.PreviousStep()
	assert.Equal(t, domain.StepProductCategories, form.Snapshot().CurrentStep)

	for i := 0; i < 10; i++ {
		form.NextStep()
	}
	assert.Equal(t, domain.StepConfirmation, form.Snapshot().CurrentStep)

	form.PreviousStep()
	assert.Equal(t, domain.StepDocuments, form.Snapshot().CurrentStep)
}

func TestLoanFormReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	form := NewLoanFormStore(store)
	require.NoError(t, form.SetSelectedProduct(ctx, "microloan"))
	require.NoError(t, form.SetApplicant(ctx, domain.ApplicantData{FirstName: "Ana"}))
	form.SetCurrentStep(domain.StepConfirmation)

	require.NoError(t, form.Reset(ctx))

	draft := form.Snapshot()
	assert.Empty(t, draft.SelectedProduct)
	assert.Empty(t, draft.UserData.FirstName)
	assert.Equal(t, float64(1000), draft.LoanAmount)
	assert.Equal(t, domain.StepProductCategories, draft.CurrentStep)

	// the reset is persisted too
	reloaded := NewLoanFormStore(store)
	require.NoError(t, reloaded.Load(ctx))
	assert.Empty(t, reloaded.Snapshot().SelectedProduct)
}

func TestPasscodePrefs(t *testing.T) {
	prefs := NewPrefs(newTestStore(t))
	ctx := context.Background()

	exists, err := prefs.PasscodeExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, prefs.SetPasscode(ctx, "1234"))

	code, ok, err := prefs.Passcode(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1234", code)
}

func TestBiometricsPrefs(t *testing.T) {
	prefs := NewPrefs(newTestStore(t))
	ctx := context.Background()

	enabled, err := prefs.BiometricsEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, prefs.SetBiometricsEnabled(ctx, true))
	enabled, err = prefs.BiometricsEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, prefs.SetBiometricsEnabled(ctx, false))
	enabled, err = prefs.BiometricsEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestInLoanProcessMarker(t *testing.T) {
	prefs := NewPrefs(newTestStore(t))
	ctx := context.Background()

	inProcess, err := prefs.InLoanProcess(ctx)
	require.NoError(t, err)
	assert.False(t, inProcess)

	require.NoError(t, prefs.SetInLoanProcess(ctx))
	inProcess, err = prefs.InLoanProcess(ctx)
	require.NoError(t, err)
	assert.True(t, inProcess)

	require.NoError(t, prefs.ClearInLoanProcess(ctx))
	inProcess, err = prefs.InLoanProcess(ctx)
	require.NoError(t, err)
	assert.False(t, inProcess)
}

func TestPendingLoanMarker(t *testing.T) {
	prefs := NewPrefs(newTestStore(t))
	ctx := context.Background()

	pending, err := prefs.PendingLoan(ctx)
	require.NoError(t, err)
	assert.Nil(t, pending)

	require.NoError(t, prefs.SetPendingLoan(ctx, domain.PendingLoan{
		User: &domain.User{ID: "u1"},
		LoanData: domain.PendingLoanData{
			SelectedProduct: "microloan",
			LoanAmount:      2000,
			LoanPeriod:      6,
		},
	}))

	pending, err = prefs.PendingLoan(ctx)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, "u1", pending.User.ID)
	assert.Equal(t, 6, pending.LoanData.LoanPeriod)

	require.NoError(t, prefs.ClearPendingLoan(ctx))
	pending, err = prefs.PendingLoan(ctx)
	require.NoError(t, err)
	assert.Nil(t, pending)
}
