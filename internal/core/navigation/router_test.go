package navigation

import (
	"context"
	"path/filepath"
	"testing"

	"forza-loanapp/internal/adapters/persistence/kvstore"
	"forza-loanapp/internal/core/domain"
	"forza-loanapp/internal/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialScreenPriority(t *testing.T) {
	cases := []struct {
		name           string
		inLoanProcess  bool
		authenticated  bool
		passcodeExists bool
		want           Screen
	}{
		{"loan process wins over everything", true, true, true, ScreenLoan},
		{"loan process wins when anonymous", true, false, false, ScreenLoan},
		{"authenticated with passcode gates on password", false, true, true, ScreenPassword},
		{"authenticated without passcode goes home", false, true, false, ScreenHome},
		{"anonymous lands on firstpage", false, false, false, ScreenFirstPage},
		{"passcode alone does not gate anonymous", false, false, true, ScreenFirstPage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := InitialScreen(tc.inLoanProcess, tc.authenticated, tc.passcodeExists)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTransitionNavigate(t *testing.T) {
	state := State{Current: ScreenHome}

	next := Transition(state, Navigate{To: ScreenProducts, Params: ProductsParams{Tab: "loans"}})
	assert.Equal(t, ScreenProducts, next.Current)
	assert.Equal(t, ProductsParams{Tab: "loans"}, next.Params)
}

func TestTransitionNavigateClearsStaleParams(t *testing.T) {
	state := State{Current: ScreenProducts, Params: ProductsParams{Tab: "loans"}}

	next := Transition(state, Navigate{To: ScreenProfile})
	assert.Equal(t, ScreenProfile, next.Current)
	assert.Nil(t, next.Params)
}

func TestTransitionCallbackOverlayRemembersSource(t *testing.T) {
	state := State{Current: ScreenHowToPay}

	opened := Transition(state, Navigate{To: ScreenCallback})
	assert.True(t, opened.CallbackVisible)
	assert.Equal(t, ScreenHowToPay, opened.CallbackSource)
	// the overlay does not replace the current screen
	assert.Equal(t, ScreenHowToPay, opened.Current)

	closed := Transition(opened, CloseCallback{Authenticated: true, PasscodeExists: true})
	assert.False(t, closed.CallbackVisible)
	assert.Equal(t, ScreenHowToPay, closed.Current)
	assert.Empty(t, closed.CallbackSource)
}

func TestTransitionCloseCallbackFallback(t *testing.T) {
	// no remembered source: fall back by session state
	closed := Transition(State{CallbackVisible: true}, CloseCallback{Authenticated: true, PasscodeExists: false})
	assert.Equal(t, ScreenHome, closed.Current)

	closed = Transition(State{CallbackVisible: true}, CloseCallback{Authenticated: true, PasscodeExists: true})
	assert.Equal(t, ScreenPassword, closed.Current)

	closed = Transition(State{CallbackVisible: true}, CloseCallback{})
	assert.Equal(t, ScreenFirstPage, closed.Current)
}

func TestTransitionLoanSetsInProcess(t *testing.T) {
	next := Transition(State{Current: ScreenHome}, Navigate{To: ScreenLoan})
	assert.Equal(t, ScreenLoan, next.Current)
	assert.True(t, next.InLoanProcess)

	next = Transition(next, ExitLoanProcess{})
	assert.False(t, next.InLoanProcess)
}

func TestScreenIsValid(t *testing.T) {
	assert.True(t, ScreenHome.IsValid())
	assert.True(t, ScreenResetPassword.IsValid())
	assert.False(t, Screen("settings").IsValid())
	assert.False(t, Screen("").IsValid())
}

func newTestRouter(t *testing.T) (*Router, *session.AuthStore, *session.LoanFormStore, *session.Prefs) {
	t.Helper()
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	auth := session.NewAuthStore(store)
	form := session.NewLoanFormStore(store)
	prefs := session.NewPrefs(store)
	return NewRouter(auth, form, prefs), auth, form, prefs
}

func TestRouterResolveAnonymous(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	screen, err := router.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ScreenFirstPage, screen)
	assert.Equal(t, ScreenFirstPage, router.State().Current)
}

func TestRouterResolveAuthenticatedWithPasscode(t *testing.T) {
	router, auth, _, prefs := newTestRouter(t)
	ctx := context.Background()

	require.NoError(t, auth.LoginSuccess(ctx, &domain.User{ID: "u1"}))
	require.NoError(t, prefs.SetPasscode(ctx, "1234"))

	screen, err := router.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, ScreenPassword, screen)
}

func TestRouterResolveResumesLoanProcess(t *testing.T) {
	router, _, _, prefs := newTestRouter(t)
	ctx := context.Background()

	require.NoError(t, prefs.SetInLoanProcess(ctx))

	screen, err := router.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, ScreenLoan, screen)
	assert.True(t, router.State().InLoanProcess)
}

func TestRouterLoanNavigationResetsDraftAndPersistsFlag(t *testing.T) {
	router, _, form, prefs := newTestRouter(t)
	ctx := context.Background()

	require.NoError(t, form.SetSelectedProduct(ctx, "microloan"))

	require.NoError(t, router.NavigateTo(ctx, ScreenLoan, nil))

	assert.Empty(t, form.Snapshot().SelectedProduct)
	assert.Equal(t, domain.StepProductCategories, form.Snapshot().CurrentStep)

	inProcess, err := prefs.InLoanProcess(ctx)
	require.NoError(t, err)
	assert.True(t, inProcess)
}

func TestRouterExitLoanProcessClearsFlag(t *testing.T) {
	router, _, _, prefs := newTestRouter(t)
	ctx := context.Background()

	require.NoError(t, router.NavigateTo(ctx, ScreenLoan, nil))
	require.NoError(t, router.ExitLoanProcess(ctx))

	assert.False(t, router.State().InLoanProcess)
	inProcess, err := prefs.InLoanProcess(ctx)
	require.NoError(t, err)
	assert.False(t, inProcess)
}

func TestRouterCloseCallbackUsesSessionFallback(t *testing.T) {
	router, auth, _, _ := newTestRouter(t)
	ctx := context.Background()

	require.NoError(t, auth.LoginSuccess(ctx, &domain.User{ID: "u1"}))
	require.NoError(t, router.CloseCallback(ctx))

	assert.Equal(t, ScreenHome, router.State().Current)
}
