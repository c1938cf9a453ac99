package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ttracx/invoicetracker/internal/auth"
	"github.com/ttracx/invoicetracker/internal/core"
)

// UserStore is the slice of the repository the auth flow needs.
type UserStore interface {
	CreateUser(ctx context.Context, u core.User) error
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
}

// AuthService handles registration and login.
type AuthService struct {
	store  UserStore
	tokens *auth.Manager
	clock  Clock
}

func NewAuthService(store UserStore, tokens *auth.Manager, clock Clock) *AuthService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &AuthService{store: store, tokens: tokens, clock: clock}
}

// Register creates an account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (core.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return core.User{}, "", core.ErrInvalidEmail
	}
	if len(password) < 8 {
		return core.User{}, "", core.ErrWeakPassword
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return core.User{}, "", core.ErrEmailTaken
	} else if !errors.Is(err, core.ErrNotFound) {
		return core.User{}, "", fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	u := core.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(name),
		CreatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return core.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(u.ID, now)
	if err != nil {
		return core.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}

// Login verifies credentials and returns the user with a fresh token. A
// missing account and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (core.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, "", core.ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, "", fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return core.User{}, "", core.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, s.clock.Now())
	if err != nil {
		return core.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}
