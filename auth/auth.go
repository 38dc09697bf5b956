package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"keyword-shortener/store"
)

var (
	ErrEmptyUsername      = errors.New("username cannot be empty")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Service registers users and verifies login credentials. Passwords are
// stored as bcrypt hashes under the username key.
type Service struct {
	users store.UserStore
}

func NewService(users store.UserStore) *Service {
	return &Service{users: users}
}

// Register creates a new account. It fails with ErrDuplicateUsername when
// the username is already present; there is no password strength policy.
func (s *Service) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.PutUser(ctx, username, string(hash)); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return ErrDuplicateUsername
		}
		return err
	}

	log.Info().Str("username", username).Msg("User registered")
	return nil
}

// Login verifies the credentials. Unknown users and wrong passwords both
// fail with ErrInvalidCredentials; there is no lockout on repeated failures.
func (s *Service) Login(ctx context.Context, username, password string) error {
	hash, err := s.users.GetUser(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
