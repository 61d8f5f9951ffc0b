package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles every repository behind one constructor.
type Repositories struct {
	UserRepository    *UserRepository
	StudentRepository *StudentRepository
	NoteRepository    *NoteRepository
	SessionRepository *SessionRepository
}

// NewRepositories creates all repositories sharing one connection pool.
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db),
		StudentRepository: NewStudentRepository(db),
		NoteRepository:    NewNoteRepository(db),
		SessionRepository: NewSessionRepository(db),
	}
}
