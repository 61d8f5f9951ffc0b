package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaan/counseldesk/internal/app/models"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
	"github.com/kaan/counseldesk/internal/pkg/logger"
)

// NoteDetails includes a session note joined with the linked student and
// authoring counselor, as rendered in the note lists.
type NoteDetails struct {
	ID            int64     `db:"id" json:"id"`
	StudentID     int64     `db:"student_id" json:"studentId"`
	StudentName   string    `db:"student_name" json:"studentName"`
	StudentNumber string    `db:"student_number" json:"studentNumber"`
	CounselorID   int64     `db:"counselor_id" json:"counselorId"`
	CounselorName string    `db:"counselor_name" json:"counselorName"`
	Content       string    `db:"content" json:"content"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// ListNotesParams holds the optional filters for listing notes. A nil
// StudentID means no student filter; an empty Keyword matches everything.
type ListNotesParams struct {
	StudentID *int64
	Keyword   string
}

// NoteRepository handles database operations for session notes.
type NoteRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *NoteRepository) selectNoteDetailsQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"n.id", "n.student_id", "s.name AS student_name", "s.student_id AS student_number",
		"n.counselor_id", "u.name AS counselor_name",
		"n.content", "n.created_at", "n.updated_at",
	).From("notes n").
		Join("students s ON n.student_id = s.id").
		Join("users u ON n.counselor_id = u.id")
}

func scanNoteDetails(row pgx.Row) (*NoteDetails, error) {
	var n NoteDetails
	err := row.Scan(
		&n.ID, &n.StudentID, &n.StudentName, &n.StudentNumber,
		&n.CounselorID, &n.CounselorName,
		&n.Content, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, err
	}
	return &n, nil
}

// Create inserts a new session note.
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) (int64, error) {
	sql, args, err := r.sb.Insert("notes").
		Columns("student_id", "counselor_id", "content").
		Values(note.StudentID, note.CounselorID, note.Content).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create note SQL")
		return 0, err
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Int64("studentID", note.StudentID).Msg("Error executing create note query")
		return 0, fmt.Errorf("error creating note: %w", err)
	}
	return id, nil
}

// GetByID retrieves a single note with student and counselor details.
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*NoteDetails, error) {
	sql, args, err := r.selectNoteDetailsQuery().Where(squirrel.Eq{"n.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get note by ID SQL")
		return nil, err
	}
	return scanNoteDetails(r.db.QueryRow(ctx, sql, args...))
}

// List retrieves notes matching the filters, newest first.
func (r *NoteRepository) List(ctx context.Context, params ListNotesParams) ([]*NoteDetails, error) {
	builder := r.selectNoteDetailsQuery()
	if params.StudentID != nil {
		builder = builder.Where(squirrel.Eq{"n.student_id": *params.StudentID})
	}
	if params.Keyword != "" {
		builder = builder.Where(squirrel.ILike{"n.content": "%" + params.Keyword + "%"})
	}
	builder = builder.OrderBy("n.created_at DESC")

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list notes SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list notes query")
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*NoteDetails, 0)
	for rows.Next() {
		note, err := scanNoteDetails(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning note row")
			continue
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating note rows")
		return nil, err
	}
	return notes, nil
}

// Update rewrites the note's student link and content and refreshes the
// modification timestamp. Last write wins, there is no version check.
func (r *NoteRepository) Update(ctx context.Context, id, studentID int64, content string) error {
	sql, args, err := r.sb.Update("notes").
		Set("student_id", studentID).
		Set("content", content).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update note SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("noteID", id).Msg("Error executing update note query")
		return fmt.Errorf("error updating note: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}
	return nil
}

// Delete removes a note by its ID.
func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("notes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete note SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("noteID", id).Msg("Error executing delete note query")
		return fmt.Errorf("error deleting note: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}
	return nil
}
