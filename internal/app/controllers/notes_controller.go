package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/kaan/counseldesk/internal/app/models/dto"
	"github.com/kaan/counseldesk/internal/app/services"
	"github.com/kaan/counseldesk/internal/middleware"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
	"github.com/kaan/counseldesk/internal/pkg/flash"
)

// NotesController handles the note listing, search, add, edit and delete
// pages.
type NotesController struct {
	noteService services.NoteService
	logger      zerolog.Logger
}

// NewNotesController creates a new NotesController
func NewNotesController(noteService services.NoteService, logger zerolog.Logger) *NotesController {
	return &NotesController{
		noteService: noteService,
		logger:      logger,
	}
}

// List shows the notes visible to the caller, newest first. Counselors and
// admins may narrow the list with a ?student=<id> filter.
func (ctl *NotesController) List(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	var query dto.ListQuery
	_ = c.ShouldBindQuery(&query)

	var studentFilter *int64
	if query.Student != "" {
		id, err := strconv.ParseInt(query.Student, 10, 64)
		if err == nil && id > 0 {
			studentFilter = &id
		}
	}

	listing, err := ctl.noteService.ListNotes(c.Request.Context(), ident, studentFilter)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			redirectWithError(c, "Student profile not found", "/")
			return
		}
		serverError(c, err)
		return
	}

	data := gin.H{
		"Title":    "Notes",
		"Notes":    listing.Notes,
		"Students": listing.Students,
	}
	if studentFilter != nil {
		data["SelectedStudent"] = *studentFilter
	}
	render(c, http.StatusOK, "notes/index.html", data)
}

// Search shows the notes in the caller's scope whose content contains the
// keyword.
func (ctl *NotesController) Search(c *gin.Context) {
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

	render(c, http.StatusOK, "notes/search.html", gin.H{
		"Title":    "Search Notes",
		"Notes":    listing.Notes,
		"Students": listing.Students,
		"Keyword":  query.Keyword,
	})
}

// ShowAdd renders the add-note form with the student roster.
func (ctl *NotesController) ShowAdd(c *gin.Context) {
	students, err := ctl.noteService.StudentRoster(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, "notes/add.html", gin.H{
		"Title":    "Add Note",
		"Students": students,
	})
}

// Add records a new note authored by the caller.
func (ctl *NotesController) Add(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	var form dto.NoteForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithError(c, dto.BindingErrorMessage(err, "Please select a student and enter note content"), "/notes/add")
		return
	}

	if _, err := ctl.noteService.CreateNote(c.Request.Context(), ident, form.Student, form.Content); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			redirectWithError(c, "Unauthorized access", "/notes")
		case errors.Is(err, apperrors.ErrEmptyContent):
			redirectWithError(c, "Note content cannot be empty", "/notes/add")
		case errors.Is(err, apperrors.ErrStudentNotFound):
			redirectWithError(c, "Student not found", "/notes/add")
		default:
			serverError(c, err)
		}
		return
	}

	flash.Success(c, "Note added successfully")
	c.Redirect(http.StatusFound, "/notes")
}

// ShowEdit renders the edit form for a note the caller may edit.
func (ctl *NotesController) ShowEdit(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	noteID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectWithError(c, "Note not found", "/notes")
		return
	}

	note, err := ctl.noteService.GetNoteForEdit(c.Request.Context(), ident, noteID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoteNotFound):
			redirectWithError(c, "Note not found", "/notes")
		case errors.Is(err, apperrors.ErrForbidden):
			redirectWithError(c, "Not authorized to edit this note", "/notes")
		default:
			serverError(c, err)
		}
		return
	}

	students, err := ctl.noteService.StudentRoster(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, "notes/edit.html", gin.H{
		"Title":    "Edit Note",
		"Note":     note,
		"Students": students,
	})
}

// Update rewrites a note's student link and content.
func (ctl *NotesController) Update(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	noteID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectWithError(c, "Note not found", "/notes")
		return
	}

	var form dto.NoteForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithError(c, dto.BindingErrorMessage(err, "Please select a student and enter note content"), "/notes/edit/"+c.Param("id"))
		return
	}

	if err := ctl.noteService.UpdateNote(c.Request.Context(), ident, noteID, form.Student, form.Content); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoteNotFound):
			redirectWithError(c, "Note not found", "/notes")
		case errors.Is(err, apperrors.ErrForbidden):
			redirectWithError(c, "Not authorized to update this note", "/notes")
		case errors.Is(err, apperrors.ErrEmptyContent):
			redirectWithError(c, "Note content cannot be empty", "/notes/edit/"+c.Param("id"))
		default:
			serverError(c, err)
		}
		return
	}

	flash.Success(c, "Note updated successfully")
	c.Redirect(http.StatusFound, "/notes")
}

// Delete removes a note authored by the caller.
func (ctl *NotesController) Delete(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	noteID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectWithError(c, "Note not found", "/notes")
		return
	}

	if err := ctl.noteService.DeleteNote(c.Request.Context(), ident, noteID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoteNotFound):
			redirectWithError(c, "Note not found", "/notes")
		case errors.Is(err, apperrors.ErrForbidden):
			redirectWithError(c, "You are not authorized to delete this note", "/notes")
		default:
			serverError(c, err)
		}
		return
	}

	flash.Success(c, "Note deleted successfully")
	c.Redirect(http.StatusFound, "/notes")
}
