package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/kaan/counseldesk/internal/app/models/dto"
	"github.com/kaan/counseldesk/internal/app/services"
	"github.com/kaan/counseldesk/internal/middleware"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
	"github.com/kaan/counseldesk/internal/pkg/flash"
)

// AuthController handles login, registration and logout.
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// ShowLogin renders the login form.
func (ctl *AuthController) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "auth/login.html", gin.H{"Title": "Login"})
}

// Login authenticates the submitted credentials and establishes a session.
func (ctl *AuthController) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithError(c, dto.BindingErrorMessage(err, "Please provide a valid email and password"), "/login")
		return
	}

	session, err := ctl.authService.Login(c.Request.Context(), &form)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			redirectWithError(c, "Invalid email or password", "/login")
			return
		}
		serverError(c, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie(middleware.SessionCookieName, session.Token, maxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, "/notes")
}

// ShowRegister renders the registration form.
func (ctl *AuthController) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "auth/register.html", gin.H{"Title": "Register"})
}

// Register creates a new account. When the chosen role is student, the
// linked student profile is created in the same step.
func (ctl *AuthController) Register(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithError(c, dto.BindingErrorMessage(err, "Please fill in all fields with valid values"), "/register")
		return
	}

	if _, err := ctl.authService.Register(c.Request.Context(), &form); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPasswordMismatch):
			redirectWithError(c, "Passwords do not match", "/register")
		case errors.Is(err, apperrors.ErrEmailAlreadyExists):
			redirectWithError(c, "Email already registered", "/register")
		case errors.Is(err, apperrors.ErrInvalidRole), errors.Is(err, apperrors.ErrValidationFailed):
			redirectWithError(c, "Registration failed: "+err.Error(), "/register")
		default:
			ctl.logger.Error().Err(err).Msg("Registration failed")
			redirectWithError(c, "Registration failed", "/register")
		}
		return
	}

	flash.Success(c, "Registration successful. Please log in.")
	c.Redirect(http.StatusFound, "/login")
}

// Logout revokes the current session. Revocation errors are surfaced via
// flash, but the user is always sent back to the login page and the cookie
// is cleared.
func (ctl *AuthController) Logout(c *gin.Context) {
	sessionID, ok := middleware.CurrentSessionID(c)
	if ok {
		if err := ctl.authService.Logout(c.Request.Context(), sessionID); err != nil {
			ctl.logger.Error().Err(err).Msg("Error revoking session during logout")
			flash.Error(c, "Logout completed with errors")
			c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
			c.Redirect(http.StatusFound, "/login")
			return
		}
	}

	flash.Success(c, "You are logged out")
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}
