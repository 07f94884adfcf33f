package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"finance-backend/internal/shared/auth"
	"finance-backend/internal/shared/telemetry"
)

const (
	minPasswordLength = 8
	maxPasswordLength = auth.MaxPasswordBytes
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID, username string) (string, time.Time, error)
}

type Service struct {
	Repo   Repo
	Tokens TokenIssuer
	Now    func() time.Time
}

func NewService(repo Repo, tokens TokenIssuer) *Service {
	return &Service{Repo: repo, Tokens: tokens, Now: time.Now}
}

type RegisterInput struct {
	Username string
	Password string
	FullName string
	Email    string
}

// Register creates a user. An existing username or email yields a *ConflictError and leaves the
// existing row untouched.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return User{}, err
	}
	if in.Username == "" {
		return User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return User{}, err
	}

	if _, err := s.Repo.GetByUsername(ctx, in.Username); err == nil {
		return User{}, &ConflictError{Field: "username"}
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	if email != "" {
		if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
			return User{}, &ConflictError{Field: "email"}
		} else if !errors.Is(err, ErrNotFound) {
			return User{}, err
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	now := s.now()
	user := User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        email,
		FullName:     in.FullName,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	telemetry.Info("user.registered", map[string]any{"user_id": user.ID})
	return user, nil
}

// Login verifies credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (Token, error) {
	user, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, err
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, err
	}
	if !user.IsActive {
		return Token{}, ErrInactive
	}
	access, expiresAt, err := s.Tokens.Issue(user.ID, user.Username)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: access, TokenType: "bearer", ExpiresAt: expiresAt}, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID)
}

// UpdateInput carries optional profile changes; nil leaves a field unchanged.
type UpdateInput struct {
	FullName *string
	Email    *string
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateInput) (User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if in.FullName != nil {
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return User{}, err
		}
		if email != "" && !strings.EqualFold(email, user.Email) {
			if other, err := s.Repo.GetByEmail(ctx, email); err == nil && other.ID != user.ID {
				return User{}, &ConflictError{Field: "email"}
			} else if err != nil && !errors.Is(err, ErrNotFound) {
				return User{}, err
			}
		}
		user.Email = email
	}
	if err := s.Repo.UpdateProfile(ctx, user); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, userID)
}

// ChangePassword replaces the password after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(user.PasswordHash, current); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return ErrInvalidCredentials
		}
		return err
	}
	if err := checkPasswordLength(next); err != nil {
		return err
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, userID, hash)
}

func checkPasswordLength(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, maxPasswordLength)
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return email, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
