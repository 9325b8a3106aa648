package services

import (
	"path/filepath"
	"testing"

	"forza-loanapp/internal/adapters/persistence/collections"
	"forza-loanapp/internal/adapters/persistence/kvstore"
	"forza-loanapp/internal/core/endpoints"
	"forza-loanapp/internal/core/session"

	"github.com/stretchr/testify/require"
)

// fixture wires the full service graph over a throwaway store
type fixture struct {
	store        *kvstore.Store
	client       *endpoints.Client
	authStore    *session.AuthStore
	form         *session.LoanFormStore
	prefs        *session.Prefs
	auth         *AuthService
	loans        *LoanService
	registration *RegistrationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := endpoints.NewClient(collections.NewEngine(store))
	authStore := session.NewAuthStore(store)
	form := session.NewLoanFormStore(store)
	prefs := session.NewPrefs(store)
	auth := NewAuthService(client, authStore)
	loans := NewLoanService(client, authStore, form)

	return &fixture{
		store:        store,
		client:       client,
		authStore:    authStore,
		form:         form,
		prefs:        prefs,
		auth:         auth,
		loans:        loans,
		registration: NewRegistrationService(auth, loans, authStore, form, prefs),
	}
}
