package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/kaan/counseldesk/internal/app/models/dto"
	"github.com/kaan/counseldesk/internal/app/services"
	"github.com/kaan/counseldesk/internal/middleware"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
	"github.com/kaan/counseldesk/internal/pkg/flash"
)

// StudentsController handles the student self-service pages: profile and own
// notes.
type StudentsController struct {
	profileService services.ProfileService
	noteService    services.NoteService
	logger         zerolog.Logger
}

// NewStudentsController creates a new StudentsController
func NewStudentsController(profileService services.ProfileService, noteService services.NoteService, logger zerolog.Logger) *StudentsController {
	return &StudentsController{
		profileService: profileService,
		noteService:    noteService,
		logger:         logger,
	}
}

// Profile renders the caller's own student profile.
func (ctl *StudentsController) Profile(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	student, err := ctl.profileService.GetProfile(c.Request.Context(), ident)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			redirectWithError(c, "Student profile not found", "/")
			return
		}
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, "students/profile.html", gin.H{
		"Title":   "My Profile",
		"Student": student,
	})
}

// UpdateProfile updates the caller's name and phone. The name cascades to the
// user account.
func (ctl *StudentsController) UpdateProfile(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	var form dto.ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithError(c, dto.BindingErrorMessage(err, "Name cannot be empty"), "/students/profile")
		return
	}

	if err := ctl.profileService.UpdateProfile(c.Request.Context(), ident, form.Name, form.Phone); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrProfileNotFound):
			redirectWithError(c, "Student profile not found", "/")
		case errors.Is(err, apperrors.ErrValidationFailed):
			redirectWithError(c, "Name cannot be empty", "/students/profile")
		default:
			serverError(c, err)
		}
		return
	}

	flash.Success(c, "Profile updated successfully")
	c.Redirect(http.StatusFound, "/students/profile")
}

// Notes shows the notes linked to the caller's own student record.
func (ctl *StudentsController) Notes(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	listing, err := ctl.noteService.ListNotes(c.Request.Context(), ident, nil)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			redirectWithError(c, "Student profile not found", "/")
			return
		}
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, "students/notes.html", gin.H{
		"Title": "My Notes",
		"Notes": listing.Notes,
	})
}

// SearchNotes searches within the caller's own notes.
func (ctl *StudentsController) SearchNotes(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	var query dto.SearchQuery
	_ = c.ShouldBindQuery(&query)

	listing, err := ctl.noteService.SearchNotes(c.Request.Context(), ident, query.Keyword)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			redirectWithError(c, "Student profile not found", "/")
			return
		}
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, "students/notes.html", gin.H{
		"Title":   "My Notes",
		"Notes":   listing.Notes,
		"Keyword": query.Keyword,
	})
}
