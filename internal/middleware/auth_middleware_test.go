package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/kaan/counseldesk/internal/app/models"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
	"github.com/kaan/counseldesk/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSessionStore struct {
	revoked map[string]bool
	known   map[string]bool
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{revoked: make(map[string]bool), known: make(map[string]bool)}
}

func (s *stubSessionStore) Create(ctx context.Context, sessionID string, userID int64, expiresAt time.Time) error {
	s.known[sessionID] = true
	return nil
}

func (s *stubSessionStore) Validate(ctx context.Context, sessionID string) error {
	if !s.known[sessionID] {
		return apperrors.ErrSessionNotFound
	}
	if s.revoked[sessionID] {
		return apperrors.ErrSessionRevoked
	}
	return nil
}

func (s *stubSessionStore) Revoke(ctx context.Context, sessionID string) error {
	s.revoked[sessionID] = true
	return nil
}

func (s *stubSessionStore) CleanupExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

type middlewareFixture struct {
	sm       *auth.SessionManager
	sessions *stubSessionStore
	mw       *AuthMiddleware
}

func newMiddlewareFixture() *middlewareFixture {
	sm := auth.NewSessionManager(auth.SessionConfig{
		SecretKey: "test-secret",
		Lifetime:  time.Hour,
		Issuer:    "counseldesk.test",
	})
	sessions := newStubSessionStore()
	return &middlewareFixture{
		sm:       sm,
		sessions: sessions,
		mw:       NewAuthMiddleware(sm, sessions),
	}
}

// loginAs issues a token for the user and records the session server-side.
func (f *middlewareFixture) loginAs(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, sessionID, expiresAt, err := f.sm.Issue(user)
	assert.NoError(t, err)
	assert.NoError(t, f.sessions.Create(context.Background(), sessionID, user.ID, expiresAt))
	return &http.Cookie{Name: SessionCookieName, Value: token}
}

func counselorUser() *models.User {
	return &models.User{ID: 7, Email: "carol@school.test", Role: models.RoleCounselor}
}

func performRequest(router *gin.Engine, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuthWithoutCookie(t *testing.T) {
	f := newMiddlewareFixture()
	router := gin.New()
	router.GET("/protected", f.mw.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(router, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	// The failure leaves a flash message behind.
	assert.Contains(t, w.Header().Get("Set-Cookie"), "cd_flash")
}

func TestResolveIdentityWithoutCookie(t *testing.T) {
	f := newMiddlewareFixture()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/protected", nil)

	_, _, err := f.mw.resolveIdentity(c)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestRequireAuthWithValidSession(t *testing.T) {
	f := newMiddlewareFixture()
	router := gin.New()
	var gotIdent models.Identity
	router.GET("/protected", f.mw.RequireAuth(), func(c *gin.Context) {
		ident, ok := CurrentIdentity(c)
		assert.True(t, ok)
		gotIdent = ident
		_, ok = CurrentSessionID(c)
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})

	w := performRequest(router, f.loginAs(t, counselorUser()))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), gotIdent.UserID)
	assert.Equal(t, models.RoleCounselor, gotIdent.Role)
}

func TestRequireAuthWithRevokedSession(t *testing.T) {
	f := newMiddlewareFixture()
	router := gin.New()
	router.GET("/protected", f.mw.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cookie := f.loginAs(t, counselorUser())
	claims, err := f.sm.Parse(cookie.Value)
	assert.NoError(t, err)
	assert.NoError(t, f.sessions.Revoke(context.Background(), claims.ID))

	w := performRequest(router, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireAuthWithGarbageToken(t *testing.T) {
	f := newMiddlewareFixture()
	router := gin.New()
	router.GET("/protected", f.mw.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(router, &http.Cookie{Name: SessionCookieName, Value: "garbage"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireGuestRedirectsAuthenticated(t *testing.T) {
	f := newMiddlewareFixture()
	router := gin.New()
	router.GET("/protected", f.mw.RequireGuest(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(router, f.loginAs(t, counselorUser()))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/notes", w.Header().Get("Location"))

	w = performRequest(router, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	f := newMiddlewareFixture()
	router := gin.New()
	router.GET("/protected",
		f.mw.RequireAuth(),
		f.mw.RequireRole(models.RoleCounselor, models.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := performRequest(router, f.loginAs(t, counselorUser()))
	assert.Equal(t, http.StatusOK, w.Code)

	student := &models.User{ID: 8, Email: "s1001@school.test", Role: models.RoleStudent}
	w = performRequest(router, f.loginAs(t, student))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/notes", w.Header().Get("Location"))
}
