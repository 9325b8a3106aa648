package services

import (
	"context"
	"errors"
	"strings"

	"forza-loanapp/internal/core/domain"
	"forza-loanapp/internal/core/endpoints"
	"forza-loanapp/internal/core/session"
	"forza-loanapp/internal/pkg/password"
	"forza-loanapp/internal/pkg/phone"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotAuthorized  = errors.New("user not authorized")
	ErrAccountNotFound    = errors.New("user not found, check phone and JMBG")
)

// AuthService handles registration, login and profile updates against the
// local user collection
type AuthService struct {
	client *endpoints.Client
	auth   *session.AuthStore
}

// NewAuthService creates a new auth service
func NewAuthService(client *endpoints.Client, auth *session.AuthStore) *AuthService {
	return &AuthService{client: client, auth: auth}
}

// CreateUserInput represents account creation input
type CreateUserInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	JMBG      string `json:"jmbg"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// CreateUserOnly creates an account without authenticating the session.
// Validation is the caller's responsibility; the password is hashed here
// so plaintext never reaches storage.
func (s *AuthService) CreateUserOnly(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	s.auth.SetLoading(true)
	defer s.auth.SetLoading(false)

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	return s.client.RegisterUser(ctx, domain.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		JMBG:      input.JMBG,
		Email:     input.Email,
		Password:  hashed,
	})
}

// Login authenticates by email or phone plus password. An identifier
// containing "@" matches email case-insensitively; anything else matches
// the digits-only phone form. The lookup is a scan over all users.
func (s *AuthService) Login(ctx context.Context, identifier, plaintext string) (*domain.User, error) {
	s.auth.SetLoading(true)
	defer s.auth.SetLoading(false)

	users, err := s.client.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}

	isEmail := strings.Contains(identifier, "@")
	clean := phone.Normalize(identifier)
	if isEmail {
		clean = strings.ToLower(strings.TrimSpace(identifier))
	}

	var found *domain.User
	for i := range users {
		u := &users[i]
		if !password.Verify(plaintext, u.Password) {
			continue
		}
		if isEmail {
			if strings.ToLower(u.Email) == clean {
				found = u
				break
			}
		} else if u.Phone == clean {
			found = u
			break
		}
	}

	if found == nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.auth.LoginSuccess(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

// LoginAs marks the session authenticated with an already-resolved user,
// used right after account creation in the registration flow
func (s *AuthService) LoginAs(ctx context.Context, user *domain.User) error {
	return s.auth.LoginSuccess(ctx, user)
}

// Logout clears the session back to anonymous
func (s *AuthService) Logout(ctx context.Context) error {
	return s.auth.Logout(ctx)
}

// UpdateProfile shallow-merges the patch over the authenticated user and
// replaces the session user with the stored result
func (s *AuthService) UpdateProfile(ctx context.Context, patch map[string]interface{}) (*domain.User, error) {
	current := s.auth.CurrentUser()
	if current == nil || current.ID == "" {
		return nil, ErrUserNotAuthorized
	}

	updated, err := s.client.UpdateUser(ctx, current.ID, patch)
	if err != nil {
		return nil, err
	}

	if err := s.auth.LoginSuccess(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// FindAccount backs the reset-password lookup: identifier (email or phone)
// plus the 13-digit JMBG must both match a stored account
func (s *AuthService) FindAccount(ctx context.Context, identifier, jmbg string) (*domain.User, error) {
	users, err := s.client.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}

	isEmail := strings.Contains(identifier, "@")
	clean := phone.Normalize(identifier)
	if isEmail {
		clean = strings.ToLower(strings.TrimSpace(identifier))
	}

	for i := range users {
		u := &users[i]
		if u.JMBG != jmbg {
			continue
		}
		if isEmail {
			if strings.ToLower(u.Email) == clean {
				return u, nil
			}
		} else if u.Phone == clean {
			return u, nil
		}
	}
	return nil, ErrAccountNotFound
}

// CanApplyForLoan reports whether the session may submit an application
func (s *AuthService) CanApplyForLoan() bool {
	return s.auth.IsAuthenticated() && s.auth.CurrentUser() != nil
}
