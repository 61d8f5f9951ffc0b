// Package services implements the application's business rules on top of the
// persistence stores.
package services

import (
	"context"
	"time"

	"github.com/kaan/counseldesk/internal/app/models"
	"github.com/kaan/counseldesk/internal/app/repositories"
)

// UserStore defines the user account persistence operations the services need.
// Implemented by repositories.UserRepository.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	CreateUserWithStudent(ctx context.Context, user *models.User, student *models.Student) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// StudentStore defines the student profile persistence operations.
// Implemented by repositories.StudentRepository.
type StudentStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	ListAll(ctx context.Context) ([]*models.Student, error)
	UpdateProfile(ctx context.Context, userID int64, name string, phone *string) error
}

// NoteStore defines the session note persistence operations.
// Implemented by repositories.NoteRepository.
type NoteStore interface {
	Create(ctx context.Context, note *models.Note) (int64, error)
	GetByID(ctx context.Context, id int64) (*repositories.NoteDetails, error)
	List(ctx context.Context, params repositories.ListNotesParams) ([]*repositories.NoteDetails, error)
	Update(ctx context.Context, id, studentID int64, content string) error
	Delete(ctx context.Context, id int64) error
}

// SessionStore defines the server-side session record operations.
// Implemented by repositories.SessionRepository.
type SessionStore interface {
	Create(ctx context.Context, sessionID string, userID int64, expiresAt time.Time) error
	Validate(ctx context.Context, sessionID string) error
	Revoke(ctx context.Context, sessionID string) error
	CleanupExpired(ctx context.Context) (int64, error)
}
