// Package auth simulates account management on top of the profile's key-value
// store: a registry of accounts and a single active session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrValidation         = errors.New("email, username and password are required")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

const avatarURL = "https://ui-avatars.com/api/?name=%s&background=E50914&color=fff"

// account is a registry entry. The hash never leaves this package.
type account struct {
	model.User
	PasswordHash string `json:"password_hash"`
}

// Service owns the account registry.
type Service struct {
	mu       sync.Mutex
	store    kv.Store
	sessions *Sessions
	now      func() time.Time
}

func NewService(store kv.Store, sessions *Sessions) *Service {
	return &Service{store: store, sessions: sessions, now: time.Now}
}

func (s *Service) accounts(ctx context.Context) ([]account, error) {
	list, err := kv.Read(ctx, s.store, kv.KeyUsers, []account{})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func findByEmail(list []account, email string) int {
	return slices.IndexFunc(list, func(a account) bool { return a.Email == email })
}

// Signup registers a new account and returns it. It does not start a session.
func (s *Service) Signup(ctx context.Context, email, username, password string) (model.User, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(username) == "" || password == "" {
		return model.User{}, ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.accounts(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("signup: %w", err)
	}
	if findByEmail(list, email) >= 0 {
		return model.User{}, ErrDuplicateEmail
	}

	hash, err := HashPassword(password)
	if err != nil {
		return model.User{}, fmt.Errorf("signup: %w", err)
	}

	user := model.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		Avatar:    fmt.Sprintf(avatarURL, url.QueryEscape(username)),
		Role:      model.RoleUser,
		CreatedAt: s.now(),
	}
	list = append(list, account{User: user, PasswordHash: hash})
	if err := kv.Write(ctx, s.store, kv.KeyUsers, list); err != nil {
		return model.User{}, fmt.Errorf("signup: %w", err)
	}
	return user, nil
}

// Login checks the credentials and returns the matching user. The session is
// left to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (model.User, error) {
	list, err := s.accounts(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("login: %w", err)
	}

	i := findByEmail(list, email)
	if i < 0 {
		return model.User{}, ErrInvalidCredentials
	}
	ok, err := VerifyPassword(password, list[i].PasswordHash)
	if err != nil || !ok {
		return model.User{}, ErrInvalidCredentials
	}
	return list[i].User, nil
}

// UpdateProfile merges the non-empty fields of patch into the account with the
// same id and refreshes the session when it belongs to that account. Role is
// never taken from patch.
func (s *Service) UpdateProfile(ctx context.Context, patch model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.accounts(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}
	i := slices.IndexFunc(list, func(a account) bool { return a.ID == patch.ID })
	if patch.ID == "" || i < 0 {
		return model.User{}, ErrUserNotFound
	}
	if patch.Email != "" && patch.Email != list[i].Email && findByEmail(list, patch.Email) >= 0 {
		return model.User{}, ErrDuplicateEmail
	}

	merged := merge(list[i].User, patch)
	list[i].User = merged
	if err := kv.Write(ctx, s.store, kv.KeyUsers, list); err != nil {
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}

	current, err := s.sessions.Current(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}
	if current != nil && current.ID == merged.ID {
		if err := s.sessions.Save(ctx, merged); err != nil {
			return model.User{}, fmt.Errorf("update profile: %w", err)
		}
	}
	return merged, nil
}

func merge(base, patch model.User) model.User {
	if patch.Username != "" {
		base.Username = patch.Username
	}
	if patch.Email != "" {
		base.Email = patch.Email
	}
	if patch.Avatar != "" {
		base.Avatar = patch.Avatar
	}
	if patch.Preferences != nil {
		prefs := *patch.Preferences
		base.Preferences = &prefs
	}
	return base
}
