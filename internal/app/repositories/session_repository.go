package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
	"github.com/kaan/counseldesk/internal/pkg/logger"
)

// SessionRepository tracks issued sessions so logout can revoke them before
// their fixed expiry.
type SessionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create records a freshly issued session.
func (r *SessionRepository) Create(ctx context.Context, sessionID string, userID int64, expiresAt time.Time) error {
	sql, args, err := r.sb.Insert("sessions").
		Columns("id", "user_id", "expires_at", "revoked", "created_at").
		Values(sessionID, userID, expiresAt, false, time.Now()).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create session SQL")
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("sessionID", sessionID).Int64("userID", userID).Msg("Error executing create session query")
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// Validate checks that the session exists, has not been revoked, and has not
// expired.
func (r *SessionRepository) Validate(ctx context.Context, sessionID string) error {
	var expiresAt time.Time
	var revoked bool

	sql, args, err := r.sb.Select("expires_at", "revoked").
		From("sessions").
		Where(squirrel.Eq{"id": sessionID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building validate session SQL")
		return fmt.Errorf("failed to build validate session query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&expiresAt, &revoked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrSessionNotFound
		}
		logger.Error().Err(err).Str("sessionID", sessionID).Msg("Error scanning session row")
		return fmt.Errorf("error validating session: %w", err)
	}

	if revoked {
		return apperrors.ErrSessionRevoked
	}
	if expiresAt.Before(time.Now()) {
		return apperrors.ErrSessionExpired
	}
	return nil
}

// Revoke invalidates a session immediately.
func (r *SessionRepository) Revoke(ctx context.Context, sessionID string) error {
	sql, args, err := r.sb.Update("sessions").
		Set("revoked", true).
		Where(squirrel.Eq{"id": sessionID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building revoke session SQL")
		return fmt.Errorf("failed to build revoke session query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("sessionID", sessionID).Msg("Error executing revoke session query")
		return fmt.Errorf("error revoking session: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// CleanupExpired removes expired sessions and revoked sessions older than 30
// days. Called at startup.
func (r *SessionRepository) CleanupExpired(ctx context.Context) (int64, error) {
	thirtyDaysAgo := time.Now().Add(-30 * 24 * time.Hour)

	sql, args, err := r.sb.Delete("sessions").
		Where(squirrel.Or{
			squirrel.Lt{"expires_at": time.Now()},
			squirrel.And{
				squirrel.Eq{"revoked": true},
				squirrel.Lt{"created_at": thirtyDaysAgo},
			},
		}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building cleanup sessions SQL")
		return 0, fmt.Errorf("failed to build cleanup sessions query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cleanup sessions query")
		return 0, fmt.Errorf("error cleaning up sessions: %w", err)
	}

	deleted := cmdTag.RowsAffected()
	if deleted > 0 {
		logger.Info().Int64("deletedCount", deleted).Msg("Cleaned up expired sessions")
	}
	return deleted, nil
}
