package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaan/counseldesk/internal/app/models"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
	"github.com/kaan/counseldesk/internal/pkg/logger"
)

// StudentRepository handles database operations for student profiles.
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StudentRepository) selectStudentQuery() squirrel.SelectBuilder {
	return r.sb.Select("id", "user_id", "name", "email", "student_id", "phone", "created_at", "updated_at").
		From("students")
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Email, &s.StudentID, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByUserID retrieves the student profile linked to a user account.
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	sql, args, err := r.selectStudentQuery().Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by user ID SQL")
		return nil, err
	}
	return scanStudent(r.db.QueryRow(ctx, sql, args...))
}

// GetByID retrieves a student profile by its ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.selectStudentQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by ID SQL")
		return nil, err
	}
	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// ListAll retrieves every student profile ordered by name, for the roster
// shown to counselors and admins.
func (r *StudentRepository) ListAll(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.selectStudentQuery().OrderBy("name ASC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			continue
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, err
	}
	return students, nil
}

// UpdateProfile updates the student's name and phone, and keeps the linked
// user account's name in sync. Both writes run in one transaction so the two
// name fields can never diverge.
func (r *StudentRepository) UpdateProfile(ctx context.Context, userID int64, name string, phone *string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	studentSQL, studentArgs, err := r.sb.Update("students").
		Set("name", name).
		Set("phone", phone).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student profile SQL")
		return err
	}

	cmdTag, err := tx.Exec(ctx, studentSQL, studentArgs...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update student profile query")
		return fmt.Errorf("error updating student profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	userSQL, userArgs, err := r.sb.Update("users").
		Set("name", name).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update user name SQL")
		return err
	}

	if _, err := tx.Exec(ctx, userSQL, userArgs...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update user name query")
		return fmt.Errorf("error updating user name: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit profile update transaction: %w", err)
	}
	return nil
}
