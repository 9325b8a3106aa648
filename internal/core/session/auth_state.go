// Package session holds the device-local state partitions: the
// authenticated identity, the in-progress loan application draft, and the
// small preference flags the app shell reads at startup. The auth and loan
// partitions persist a whitelisted subset of their fields to the key-value
// store and rehydrate on load.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"forza-loanapp/internal/adapters/persistence/kvstore"
	"forza-loanapp/internal/core/domain"
)

const authPartitionKey = "auth"

// AuthState is the current session identity.
// IsLoading is transient and always false after a reload.
type AuthState struct {
	User            *domain.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	IsLoading       bool         `json:"-"`
}

// AuthStore owns the session identity and its persisted partition
type AuthStore struct {
	mu    sync.RWMutex
	store *kvstore.Store
	state AuthState
}

// NewAuthStore creates an anonymous auth store
func NewAuthStore(store *kvstore.Store) *AuthStore {
	return &AuthStore{store: store}
}

// Load rehydrates user and isAuthenticated from storage
func (s *AuthStore) Load(ctx context.Context) error {
	raw, ok, err := s.store.Get(ctx, authPartitionKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	var persisted AuthState
	if err := json.Unmarshal(raw, &persisted); err != nil {
		return fmt.Errorf("parse auth partition: %w", err)
	}

	s.mu.Lock()
	s.state = AuthState{
		User:            persisted.User,
		IsAuthenticated: persisted.IsAuthenticated,
	}
	s.mu.Unlock()
	return nil
}

// SetLoading toggles the transient loading flag
func (s *AuthStore) SetLoading(loading bool) {
	s.mu.Lock()
	s.state.IsLoading = loading
	s.mu.Unlock()
}

// LoginSuccess transitions the session to authenticated with the given user
func (s *AuthStore) LoginSuccess(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	s.state = AuthState{User: user, IsAuthenticated: true}
	s.mu.Unlock()
	return s.persist(ctx)
}

// SetUser replaces the session user, keeping the authenticated flag
func (s *AuthStore) SetUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	s.state.User = user
	s.mu.Unlock()
	return s.persist(ctx)
}

// Logout clears the session back to anonymous
func (s *AuthStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.state = AuthState{}
	s.mu.Unlock()
	return s.persist(ctx)
}

// State returns a copy of the current session state
func (s *AuthStore) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentUser returns the session user, nil when anonymous
func (s *AuthStore) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

// IsAuthenticated reports whether a user is logged in
func (s *AuthStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

func (s *AuthStore) persist(ctx context.Context) error {
	s.mu.RLock()
	// only user and isAuthenticated survive restarts
	raw, err := json.Marshal(AuthState{
		User:            s.state.User,
		IsAuthenticated: s.state.IsAuthenticated,
	})
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode auth partition: %w", err)
	}
	return s.store.Set(ctx, authPartitionKey, raw)
}
