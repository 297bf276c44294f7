package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Avzolem/yugioh-server/internal/models"
)

// SharedLinkRepository handles share-token persistence for SQLite/PostgreSQL
type SharedLinkRepository struct {
	db DBTX
}

// NewSharedLinkRepository creates a new SharedLinkRepository
func NewSharedLinkRepository(db DBTX) *SharedLinkRepository {
	return &SharedLinkRepository{db: db}
}

// Add inserts a new share link
func (r *SharedLinkRepository) Add(ctx context.Context, link *models.SharedLink) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shared_links (token, user_id, list_type, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		link.Token, link.UserID, string(link.ListType), link.CreatedAt, link.ExpiresAt)
	return err
}

// GetByToken returns the link, expired or not. Expiry is the
// service's call; returns nil when the token is unknown.
func (r *SharedLinkRepository) GetByToken(ctx context.Context, token string) (*models.SharedLink, error) {
	var link models.SharedLink
	err := r.db.QueryRowContext(ctx,
		`SELECT token, user_id, list_type, created_at, expires_at
		 FROM shared_links WHERE token = $1`,
		token).Scan(&link.Token, &link.UserID, &link.ListType, &link.CreatedAt, &link.ExpiresAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &link, nil
}

// Delete removes one share link by token
func (r *SharedLinkRepository) Delete(ctx context.Context, token string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM shared_links WHERE token = $1`, token)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteExpired removes every link past its expiry. Safe to run
// repeatedly and concurrently.
func (r *SharedLinkRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM shared_links WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// DeleteAllForUser removes the user's share links (account deletion)
func (r *SharedLinkRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM shared_links WHERE user_id = $1`, userID)
	return err
}

// CountActive returns the number of unexpired share links
func (r *SharedLinkRepository) CountActive(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shared_links WHERE expires_at > $1`, now).Scan(&count)
	return count, err
}
