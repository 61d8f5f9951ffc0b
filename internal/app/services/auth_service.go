package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/kaan/counseldesk/internal/app/models"
	"github.com/kaan/counseldesk/internal/app/models/dto"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
	"github.com/kaan/counseldesk/internal/pkg/auth"
)

// Session carries the signed token handed to the browser plus its server-side
// expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService defines the interface for registration, login and logout.
type AuthService interface {
	Register(ctx context.Context, form *dto.RegisterForm) (*models.User, error)
	Login(ctx context.Context, form *dto.LoginForm) (*Session, error)
	Logout(ctx context.Context, sessionID string) error
}

type authServiceImpl struct {
	users    UserStore
	sessions SessionStore
	sm       *auth.SessionManager
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, sessions SessionStore, sm *auth.SessionManager, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		users:    users,
		sessions: sessions,
		sm:       sm,
		logger:   logger,
	}
}

// studentNumberFromEmail derives the student number from the email's local
// part (the substring before "@").
func studentNumberFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// Register creates a user account, plus the linked student profile when the
// chosen role is student. Role is fixed at creation.
func (s *authServiceImpl) Register(ctx context.Context, form *dto.RegisterForm) (*models.User, error) {
	if form.Password != form.PasswordConfirm {
		return nil, apperrors.ErrPasswordMismatch
	}

	// Admin accounts come from the seed, never from self-registration.
	role := models.RoleType(strings.ToUpper(strings.TrimSpace(form.Role)))
	if !models.ValidRole(role) || role == models.RoleAdmin {
		return nil, apperrors.ErrInvalidRole
	}

	email := strings.ToLower(strings.TrimSpace(form.Email))

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(form.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	if role == models.RoleStudent {
		student := &models.Student{
			Name:      user.Name,
			Email:     email,
			StudentID: studentNumberFromEmail(email),
		}
		if err := s.users.CreateUserWithStudent(ctx, user, student); err != nil {
			return nil, err
		}
	} else {
		id, err := s.users.CreateUser(ctx, user)
		if err != nil {
			return nil, err
		}
		user.ID = id
	}

	s.logger.Info().Str("email", email).Str("role", string(role)).Int64("userID", user.ID).Msg("User registered")
	return user, nil
}

// Login verifies credentials and establishes a new session with a fixed
// lifetime.
func (s *authServiceImpl) Login(ctx context.Context, form *dto.LoginForm) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(form.Email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, form.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, sessionID, expiresAt, err := s.sm.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("error issuing session: %w", err)
	}
	if err := s.sessions.Create(ctx, sessionID, user.ID, expiresAt); err != nil {
		return nil, fmt.Errorf("error recording session: %w", err)
	}

	s.logger.Info().Str("email", email).Int64("userID", user.ID).Msg("User logged in")
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Logout revokes the session so it is invalid immediately, ahead of its
// expiry.
func (s *authServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		s.logger.Error().Err(err).Str("sessionID", sessionID).Msg("Failed to revoke session on logout")
		return err
	}
	return nil
}
