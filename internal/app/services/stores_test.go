package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/kaan/counseldesk/internal/app/models"
	"github.com/kaan/counseldesk/internal/app/repositories"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
)

// memStore is an in-memory implementation of the user and student store
// interfaces used by the service tests. Notes and sessions live in their own
// fakes because their interfaces reuse the Create/GetByID method names with
// different signatures.
type memStore struct {
	nextUserID    int64
	nextStudentID int64

	users    map[int64]*models.User
	students map[int64]*models.Student
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*models.User),
		students: make(map[int64]*models.Student),
	}
}

// --- fixtures ---

func (s *memStore) addUser(name, email string, role models.RoleType) *models.User {
	s.nextUserID++
	u := &models.User{
		ID:           s.nextUserID,
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addStudent(user *models.User) *models.Student {
	s.nextStudentID++
	st := &models.Student{
		ID:        s.nextStudentID,
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		StudentID: strings.SplitN(user.Email, "@", 2)[0],
	}
	s.students[st.ID] = st
	return st
}

// --- UserStore ---

func (s *memStore) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	for _, u := range s.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	s.users[user.ID] = user
	return user.ID, nil
}

func (s *memStore) CreateUserWithStudent(ctx context.Context, user *models.User, student *models.Student) error {
	id, err := s.CreateUser(ctx, user)
	if err != nil {
		return err
	}
	s.nextStudentID++
	student.ID = s.nextStudentID
	student.UserID = id
	s.students[student.ID] = student
	return nil
}

func (s *memStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *memStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (s *memStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.GetUserByEmail(ctx, email)
	return err == nil, nil
}

// --- StudentStore ---

func (s *memStore) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	for _, st := range s.students {
		if st.UserID == userID {
			return st, nil
		}
	}
	return nil, apperrors.ErrProfileNotFound
}

func (s *memStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	st, ok := s.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return st, nil
}

func (s *memStore) ListAll(ctx context.Context) ([]*models.Student, error) {
	out := make([]*models.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) UpdateProfile(ctx context.Context, userID int64, name string, phone *string) error {
	st, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	st.Name = name
	st.Phone = phone
	// Mirrors the transactional dual write of the real store.
	if u, ok := s.users[userID]; ok {
		u.Name = name
	}
	return nil
}

// --- NoteStore ---

// memNoteStore keeps notes separate from memStore; it reads the backing
// user/student maps to fill in the joined display fields the way the SQL
// store's join does.
type memNoteStore struct {
	nextNoteID int64
	notes      map[int64]*repositories.NoteDetails
	backing    *memStore
}

func newMemNoteStore(backing *memStore) *memNoteStore {
	return &memNoteStore{
		notes:   make(map[int64]*repositories.NoteDetails),
		backing: backing,
	}
}

func (s *memNoteStore) addNote(student *models.Student, counselor *models.User, content string, createdAt time.Time) *repositories.NoteDetails {
	s.nextNoteID++
	n := &repositories.NoteDetails{
		ID:            s.nextNoteID,
		StudentID:     student.ID,
		StudentName:   student.Name,
		StudentNumber: student.StudentID,
		CounselorID:   counselor.ID,
		CounselorName: counselor.Name,
		Content:       content,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	s.notes[n.ID] = n
	return n
}

func (s *memNoteStore) Create(ctx context.Context, note *models.Note) (int64, error) {
	student, ok := s.backing.students[note.StudentID]
	if !ok {
		return 0, apperrors.ErrStudentNotFound
	}
	counselor := s.backing.users[note.CounselorID]
	created := s.addNote(student, counselor, note.Content, time.Now())
	return created.ID, nil
}

func (s *memNoteStore) GetByID(ctx context.Context, id int64) (*repositories.NoteDetails, error) {
	n, ok := s.notes[id]
	if !ok {
		return nil, apperrors.ErrNoteNotFound
	}
	return n, nil
}

func (s *memNoteStore) List(ctx context.Context, params repositories.ListNotesParams) ([]*repositories.NoteDetails, error) {
	var out []*repositories.NoteDetails
	keyword := strings.ToLower(params.Keyword)
	for _, n := range s.notes {
		if params.StudentID != nil && n.StudentID != *params.StudentID {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(n.Content), keyword) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memNoteStore) Update(ctx context.Context, id, studentID int64, content string) error {
	n, ok := s.notes[id]
	if !ok {
		return apperrors.ErrNoteNotFound
	}
	if student, ok := s.backing.students[studentID]; ok {
		n.StudentID = student.ID
		n.StudentName = student.Name
		n.StudentNumber = student.StudentID
	}
	n.Content = content
	n.UpdatedAt = time.Now()
	return nil
}

func (s *memNoteStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.notes[id]; !ok {
		return apperrors.ErrNoteNotFound
	}
	delete(s.notes, id)
	return nil
}

// --- SessionStore ---

// memSessionStore is likewise its own fake; its Create signature differs from
// the note store's.
type memSessionStore struct {
	sessions map[string]*memSession
}

type memSession struct {
	userID    int64
	expiresAt time.Time
	revoked   bool
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*memSession)}
}

func (s *memSessionStore) Create(ctx context.Context, sessionID string, userID int64, expiresAt time.Time) error {
	s.sessions[sessionID] = &memSession{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *memSessionStore) Validate(ctx context.Context, sessionID string) error {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	if sess.revoked {
		return apperrors.ErrSessionRevoked
	}
	if sess.expiresAt.Before(time.Now()) {
		return apperrors.ErrSessionExpired
	}
	return nil
}

func (s *memSessionStore) Revoke(ctx context.Context, sessionID string) error {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	sess.revoked = true
	return nil
}

func (s *memSessionStore) CleanupExpired(ctx context.Context) (int64, error) {
	var removed int64
	for id, sess := range s.sessions {
		if sess.expiresAt.Before(time.Now()) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}
