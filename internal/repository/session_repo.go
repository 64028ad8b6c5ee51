package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smartedtech/internal/database"
	"smartedtech/internal/models"
)

// SessionStore persists signed-in sessions together with the user's
// profile snapshot. Get returns nil, nil when the session does not exist.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	UpdateProfile(ctx context.Context, id string, user models.User) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	List(ctx context.Context, limit int) ([]models.Session, error)
}

// SessionRepository stores sessions in the SQL database
type SessionRepository struct {
	db database.DBTX
}

// NewSessionRepository creates a new SQL session repository
func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	profile, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("failed to encode session profile: %w", err)
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO sessions (id, user_id, profile, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		string(profile),
		session.CreatedAt.UTC(),
		session.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT id, user_id, profile, created_at, expires_at
		FROM sessions
		WHERE id = ?
	`
	session, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// UpdateProfile replaces the profile snapshot of a session
func (r *SessionRepository) UpdateProfile(ctx context.Context, id string, user models.User) error {
	profile, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session profile: %w", err)
	}

	result, err := r.db.ExecContext(ctx, "UPDATE sessions SET profile = ? WHERE id = ?", string(profile), id)
	if err != nil {
		return fmt.Errorf("failed to update session profile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session that expired before now
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < ?", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n, nil
}

// List returns up to limit sessions, newest first
func (r *SessionRepository) List(ctx context.Context, limit int) ([]models.Session, error) {
	query := `
		SELECT id, user_id, profile, created_at, expires_at
		FROM sessions
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var (
		session models.Session
		profile string
	)
	if err := row.Scan(&session.ID, &session.UserID, &profile, &session.CreatedAt, &session.ExpiresAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(profile), &session.User); err != nil {
		return nil, fmt.Errorf("failed to decode session profile: %w", err)
	}
	return &session, nil
}
