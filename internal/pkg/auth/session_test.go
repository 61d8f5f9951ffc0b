package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/kaan/counseldesk/internal/app/models"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
)

func testUser() *models.User {
	return &models.User{
		ID:    42,
		Email: "carol@school.test",
		Role:  models.RoleCounselor,
	}
}

func TestIssueAndParse(t *testing.T) {
	sm := NewSessionManager(SessionConfig{
		SecretKey: "test-secret",
		Lifetime:  24 * time.Hour,
		Issuer:    "counseldesk.test",
	})

	token, sessionID, expiresAt, err := sm.Issue(testUser())
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, sessionID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := sm.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "carol@school.test", claims.Email)
	assert.Equal(t, string(models.RoleCounselor), claims.Role)
	assert.Equal(t, sessionID, claims.ID)
	assert.Equal(t, "counseldesk.test", claims.Issuer)
}

func TestParseEmptyToken(t *testing.T) {
	sm := NewSessionManager(SessionConfig{SecretKey: "test-secret", Lifetime: time.Hour})

	_, err := sm.Parse("")
	assert.ErrorIs(t, err, apperrors.ErrSessionInvalid)
}

func TestParseTamperedToken(t *testing.T) {
	sm := NewSessionManager(SessionConfig{SecretKey: "test-secret", Lifetime: time.Hour})

	token, _, _, err := sm.Issue(testUser())
	assert.NoError(t, err)

	_, err = sm.Parse(token + "x")
	assert.ErrorIs(t, err, apperrors.ErrSessionInvalid)
}

func TestParseWrongSecret(t *testing.T) {
	sm := NewSessionManager(SessionConfig{SecretKey: "test-secret", Lifetime: time.Hour})
	other := NewSessionManager(SessionConfig{SecretKey: "other-secret", Lifetime: time.Hour})

	token, _, _, err := sm.Issue(testUser())
	assert.NoError(t, err)

	_, err = other.Parse(token)
	assert.ErrorIs(t, err, apperrors.ErrSessionInvalid)
}

func TestParseExpiredToken(t *testing.T) {
	sm := NewSessionManager(SessionConfig{SecretKey: "test-secret", Lifetime: -time.Minute})

	token, _, _, err := sm.Issue(testUser())
	assert.NoError(t, err)

	_, err = sm.Parse(token)
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
}
