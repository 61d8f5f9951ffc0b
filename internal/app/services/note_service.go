package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kaan/counseldesk/internal/app/models"
	"github.com/kaan/counseldesk/internal/app/repositories"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
)

// NoteListing is the result of a scoped list or search. Students is the
// roster for the filter controls and is only populated for counselor and
// admin callers.
type NoteListing struct {
	Notes    []*repositories.NoteDetails
	Students []*models.Student
}

// NoteService implements the note visibility and authorization rules:
//
//   - students see exactly the notes linked to their own student record;
//   - counselors and admins see all notes, optionally filtered to a student;
//   - editing requires being the authoring counselor, or admin;
//   - deleting requires being the authoring counselor, with no admin override.
type NoteService interface {
	ListNotes(ctx context.Context, ident models.Identity, studentFilter *int64) (*NoteListing, error)
	SearchNotes(ctx context.Context, ident models.Identity, keyword string) (*NoteListing, error)
	GetNoteForEdit(ctx context.Context, ident models.Identity, noteID int64) (*repositories.NoteDetails, error)
	CreateNote(ctx context.Context, ident models.Identity, studentID int64, content string) (int64, error)
	UpdateNote(ctx context.Context, ident models.Identity, noteID, studentID int64, content string) error
	DeleteNote(ctx context.Context, ident models.Identity, noteID int64) error
	StudentRoster(ctx context.Context) ([]*models.Student, error)
}

type noteServiceImpl struct {
	notes    NoteStore
	students StudentStore
}

// NewNoteService creates a new NoteService
func NewNoteService(notes NoteStore, students StudentStore) NoteService {
	return &noteServiceImpl{
		notes:    notes,
		students: students,
	}
}

// scopeParams restricts the query to the caller's visibility. A student
// identity is always pinned to their own student record; counselors and
// admins may pass an optional student filter.
func (s *noteServiceImpl) scopeParams(ctx context.Context, ident models.Identity, studentFilter *int64, keyword string) (repositories.ListNotesParams, error) {
	params := repositories.ListNotesParams{Keyword: keyword}

	if ident.IsStudent() {
		student, err := s.students.GetByUserID(ctx, ident.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrProfileNotFound) {
				return params, apperrors.ErrProfileNotFound
			}
			return params, fmt.Errorf("error resolving student profile: %w", err)
		}
		params.StudentID = &student.ID
		return params, nil
	}

	params.StudentID = studentFilter
	return params, nil
}

func (s *noteServiceImpl) listing(ctx context.Context, ident models.Identity, params repositories.ListNotesParams) (*NoteListing, error) {
	notes, err := s.notes.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}

	listing := &NoteListing{Notes: notes}
	if !ident.IsStudent() {
		students, err := s.students.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("error loading student roster: %w", err)
		}
		listing.Students = students
	}
	return listing, nil
}

// ListNotes returns the notes visible to the caller, newest first.
func (s *noteServiceImpl) ListNotes(ctx context.Context, ident models.Identity, studentFilter *int64) (*NoteListing, error) {
	params, err := s.scopeParams(ctx, ident, studentFilter, "")
	if err != nil {
		return nil, err
	}
	return s.listing(ctx, ident, params)
}

// SearchNotes returns the notes visible to the caller whose content contains
// the keyword, case-insensitively. An empty keyword matches everything in
// scope.
func (s *noteServiceImpl) SearchNotes(ctx context.Context, ident models.Identity, keyword string) (*NoteListing, error) {
	params, err := s.scopeParams(ctx, ident, nil, strings.TrimSpace(keyword))
	if err != nil {
		return nil, err
	}
	return s.listing(ctx, ident, params)
}

// CreateNote records a new session note authored by the caller.
func (s *noteServiceImpl) CreateNote(ctx context.Context, ident models.Identity, studentID int64, content string) (int64, error) {
	if !ident.IsCounselor() && !ident.IsAdmin() {
		return 0, apperrors.ErrForbidden
	}
	if strings.TrimSpace(content) == "" {
		return 0, apperrors.ErrEmptyContent
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return 0, apperrors.ErrStudentNotFound
		}
		return 0, fmt.Errorf("error resolving student: %w", err)
	}

	note := &models.Note{
		StudentID:   studentID,
		CounselorID: ident.UserID,
		Content:     content,
	}
	id, err := s.notes.Create(ctx, note)
	if err != nil {
		return 0, fmt.Errorf("error creating note: %w", err)
	}
	return id, nil
}

// canEdit reports whether the caller may view-for-edit and update the note:
// admins always, counselors only for notes they authored.
func canEdit(ident models.Identity, note *repositories.NoteDetails) bool {
	if ident.IsAdmin() {
		return true
	}
	return note.CounselorID == ident.UserID
}

// GetNoteForEdit loads a note for the edit form, enforcing edit
// authorization.
func (s *noteServiceImpl) GetNoteForEdit(ctx context.Context, ident models.Identity, noteID int64) (*repositories.NoteDetails, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !canEdit(ident, note) {
		return nil, apperrors.ErrForbidden
	}
	return note, nil
}

// UpdateNote rewrites a note's student link and content. Admins may update
// any note; counselors only their own. The modification timestamp is always
// refreshed.
func (s *noteServiceImpl) UpdateNote(ctx context.Context, ident models.Identity, noteID, studentID int64, content string) error {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if !canEdit(ident, note) {
		return apperrors.ErrForbidden
	}
	if strings.TrimSpace(content) == "" {
		return apperrors.ErrEmptyContent
	}
	return s.notes.Update(ctx, noteID, studentID, content)
}

// DeleteNote removes a note. Only the authoring counselor may delete; admin
// gets no override here, matching the edit/delete asymmetry of the privilege
// model.
func (s *noteServiceImpl) DeleteNote(ctx context.Context, ident models.Identity, noteID int64) error {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.CounselorID != ident.UserID {
		return apperrors.ErrForbidden
	}
	return s.notes.Delete(ctx, noteID)
}

// StudentRoster returns all students ordered by name, for the add/edit form
// select controls.
func (s *noteServiceImpl) StudentRoster(ctx context.Context) ([]*models.Student, error) {
	return s.students.ListAll(ctx)
}
