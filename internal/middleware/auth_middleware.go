package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaan/counseldesk/internal/app/models"
	"github.com/kaan/counseldesk/internal/app/services"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
	"github.com/kaan/counseldesk/internal/pkg/auth"
	"github.com/kaan/counseldesk/internal/pkg/flash"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "cd_session"

// Context keys set by RequireAuth.
const (
	identityKey  = "identity"
	sessionIDKey = "sessionID"
)

// AuthMiddleware is the auth gate: it resolves the request identity from the
// session cookie and enforces the login/role requirements of each route.
// Every failure path is a redirect with a flash message, never a raw error
// response.
type AuthMiddleware struct {
	sm       *auth.SessionManager
	sessions services.SessionStore
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sm *auth.SessionManager, sessions services.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		sm:       sm,
		sessions: sessions,
	}
}

// resolveIdentity reads and validates the session cookie. It returns the
// identity and the session ID, or an error when there is no usable session.
func (m *AuthMiddleware) resolveIdentity(c *gin.Context) (models.Identity, string, error) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return models.Identity{}, "", apperrors.ErrUnauthenticated
	}

	claims, err := m.sm.Parse(token)
	if err != nil {
		return models.Identity{}, "", err
	}

	// Revocation check makes logout effective immediately.
	if err := m.sessions.Validate(c.Request.Context(), claims.ID); err != nil {
		return models.Identity{}, "", err
	}

	ident := models.Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   models.RoleType(claims.Role),
	}
	return ident, claims.ID, nil
}

// RequireAuth passes through requests that carry a valid identity and
// attaches it to the context. Anyone else is flashed and sent to the login
// page.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, sessionID, err := m.resolveIdentity(c)
		if err != nil {
			flash.Error(c, "Please log in to view that resource")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(identityKey, ident)
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// RequireGuest passes through only unauthenticated requests; a logged-in
// user is sent to the notes page instead of seeing login/register again.
func (m *AuthMiddleware) RequireGuest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, err := m.resolveIdentity(c); err == nil {
			c.Redirect(http.StatusFound, "/notes")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole passes through only identities holding one of the given roles.
// RequireAuth must run first on the route.
func (m *AuthMiddleware) RequireRole(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := CurrentIdentity(c)
		if !ok {
			flash.Error(c, "Please log in to view that resource")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		for _, role := range roles {
			if ident.Role == role {
				c.Next()
				return
			}
		}

		flash.Error(c, "Unauthorized access")
		c.Redirect(http.StatusFound, "/notes")
		c.Abort()
	}
}

// CurrentIdentity returns the identity attached by RequireAuth.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	ident, ok := value.(models.Identity)
	return ident, ok
}

// CurrentSessionID returns the session ID attached by RequireAuth.
func CurrentSessionID(c *gin.Context) (string, bool) {
	value, exists := c.Get(sessionIDKey)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}
