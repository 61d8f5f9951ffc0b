package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kaan/counseldesk/internal/app/models"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
)

// SessionConfig defines session token settings. Lifetime is fixed per session,
// there is no sliding expiration.
type SessionConfig struct {
	SecretKey string
	Lifetime  time.Duration
	Issuer    string
}

// SessionManager issues and parses the signed session tokens carried in the
// session cookie.
type SessionManager struct {
	config SessionConfig
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(config SessionConfig) *SessionManager {
	return &SessionManager{config: config}
}

// SessionClaims defines session token content
type SessionClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issue creates a signed session token for the user. The returned session ID
// (the token's jti) is recorded server-side so logout can revoke it.
func (m *SessionManager) Issue(user *models.User) (token, sessionID string, expiresAt time.Time, err error) {
	now := time.Now()
	expiresAt = now.Add(m.config.Lifetime)
	sessionID = uuid.New().String()

	claims := &SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.config.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			ID:        sessionID,
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString([]byte(m.config.SecretKey))
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return token, sessionID, expiresAt, nil
}

// Parse validates a session token and extracts its claims.
func (m *SessionManager) Parse(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrSessionInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, apperrors.ErrSessionInvalid
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrSessionInvalid
	}
	if claims.UserID <= 0 || claims.ID == "" {
		return nil, apperrors.ErrSessionInvalid
	}

	return claims, nil
}

// Lifetime returns the configured session lifetime.
func (m *SessionManager) Lifetime() time.Duration {
	return m.config.Lifetime
}
