package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Avzolem/yugioh-server/internal/models"
)

// WebSessionRepository implements WebSessionRepo for PostgreSQL/SQLite
type WebSessionRepository struct {
	db DBTX
}

// NewWebSessionRepository creates a new WebSessionRepository
func NewWebSessionRepository(db DBTX) *WebSessionRepository {
	return &WebSessionRepository{db: db}
}

// Add inserts a new session
func (r *WebSessionRepository) Add(ctx context.Context, session *models.WebSession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO web_sessions (id, user_id, created_at, expires_at, last_activity_at, ip_address, user_agent, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		session.ID, session.UserID, session.CreatedAt, session.ExpiresAt,
		session.LastActivityAt, session.IPAddress, session.UserAgent, session.IsActive)
	return err
}

// GetByID returns the session by token, active or not
func (r *WebSessionRepository) GetByID(ctx context.Context, id string) (*models.WebSession, error) {
	var session models.WebSession
	var ipAddress, userAgent sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, expires_at, last_activity_at, ip_address, user_agent, is_active
		 FROM web_sessions WHERE id = $1`,
		id).Scan(&session.ID, &session.UserID, &session.CreatedAt, &session.ExpiresAt,
		&session.LastActivityAt, &ipAddress, &userAgent, &session.IsActive)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if ipAddress.Valid {
		session.IPAddress = ipAddress.String
	}
	if userAgent.Valid {
		session.UserAgent = userAgent.String
	}

	return &session, nil
}

// Touch updates the session's last activity timestamp
func (r *WebSessionRepository) Touch(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE web_sessions SET last_activity_at = $1 WHERE id = $2`,
		time.Now().UTC(), id)
	return err
}

// Delete removes one session (logout)
func (r *WebSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE id = $1`, id)
	return err
}

// DeleteAllForUser removes all of the user's sessions
func (r *WebSessionRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE user_id = $1`, userID)
	return err
}
