package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/kaan/counseldesk/internal/app/models"
	"github.com/kaan/counseldesk/internal/app/models/dto"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
	"github.com/kaan/counseldesk/internal/pkg/auth"
)

func newAuthFixture() (AuthService, *memStore, *memSessionStore, *auth.SessionManager) {
	store := newMemStore()
	sessions := newMemSessionStore()
	sm := auth.NewSessionManager(auth.SessionConfig{
		SecretKey: "test-secret",
		Lifetime:  24 * time.Hour,
		Issuer:    "counseldesk.test",
	})
	svc := NewAuthService(store, sessions, sm, zerolog.Nop())
	return svc, store, sessions, sm
}

func registerForm(role string) *dto.RegisterForm {
	return &dto.RegisterForm{
		Name:            "Sam Student",
		Email:           "s1001@school.test",
		Password:        "password123",
		PasswordConfirm: "password123",
		Role:            role,
	}
}

func TestRegisterStudentCreatesLinkedProfile(t *testing.T) {
	svc, store, _, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), registerForm("student"))
	assert.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NotZero(t, user.ID)

	student, err := store.GetByUserID(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, student.UserID)
	assert.Equal(t, "Sam Student", student.Name)
	// Student number is the email local part.
	assert.Equal(t, "s1001", student.StudentID)
}

func TestRegisterCounselorHasNoProfile(t *testing.T) {
	svc, store, _, _ := newAuthFixture()

	form := registerForm("counselor")
	form.Email = "carol@school.test"
	user, err := svc.Register(context.Background(), form)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleCounselor, user.Role)

	_, err = store.GetByUserID(context.Background(), user.ID)
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	form := registerForm("student")
	form.PasswordConfirm = "different"
	_, err := svc.Register(context.Background(), form)
	assert.ErrorIs(t, err, apperrors.ErrPasswordMismatch)
}

func TestRegisterInvalidRole(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	form := registerForm("principal")
	_, err := svc.Register(context.Background(), form)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}

func TestRegisterAdminRoleRejected(t *testing.T) {
	svc, store, _, _ := newAuthFixture()

	// Admin accounts only come from the seed.
	for _, role := range []string{"admin", "ADMIN", " Admin "} {
		_, err := svc.Register(context.Background(), registerForm(role))
		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
	}
	assert.Empty(t, store.users)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), registerForm("student"))
	assert.NoError(t, err)

	_, err = svc.Register(context.Background(), registerForm("counselor"))
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, store, _, _ := newAuthFixture()

	form := registerForm("student")
	form.Email = "  S1001@School.Test "
	user, err := svc.Register(context.Background(), form)
	assert.NoError(t, err)
	assert.Equal(t, "s1001@school.test", user.Email)

	student, err := store.GetByUserID(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "s1001", student.StudentID)
}

func TestLoginHappyPath(t *testing.T) {
	svc, _, sessions, sm := newAuthFixture()

	_, err := svc.Register(context.Background(), registerForm("student"))
	assert.NoError(t, err)

	session, err := svc.Login(context.Background(), &dto.LoginForm{
		Email:    "s1001@school.test",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), session.ExpiresAt, time.Minute)

	// The token round-trips and its jti is recorded server-side.
	claims, err := sm.Parse(session.Token)
	assert.NoError(t, err)
	assert.Equal(t, "s1001@school.test", claims.Email)
	assert.NoError(t, sessions.Validate(context.Background(), claims.ID))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.Login(context.Background(), &dto.LoginForm{
		Email:    "nobody@school.test",
		Password: "password123",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), registerForm("student"))
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginForm{
		Email:    "s1001@school.test",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions, sm := newAuthFixture()

	_, err := svc.Register(context.Background(), registerForm("student"))
	assert.NoError(t, err)
	session, err := svc.Login(context.Background(), &dto.LoginForm{
		Email:    "s1001@school.test",
		Password: "password123",
	})
	assert.NoError(t, err)

	claims, err := sm.Parse(session.Token)
	assert.NoError(t, err)

	assert.NoError(t, svc.Logout(context.Background(), claims.ID))
	assert.ErrorIs(t, sessions.Validate(context.Background(), claims.ID), apperrors.ErrSessionRevoked)
}

func TestLogoutUnknownSession(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	err := svc.Logout(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}
