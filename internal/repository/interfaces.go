package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Avzolem/yugioh-server/internal/models"
)

// DBTX is the subset of *sql.DB the repositories use. A traced wrapper
// that implements the same methods can be substituted for plain pools.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// UserRepo defines the interface for user persistence operations
type UserRepo interface {
	Add(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetCount(ctx context.Context) (int, error)
}

// WebSessionRepo defines the interface for session persistence operations
type WebSessionRepo interface {
	Add(ctx context.Context, session *models.WebSession) error
	GetByID(ctx context.Context, id string) (*models.WebSession, error)
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

// ListRepo defines the interface for card-list persistence. All card
// operations are keyed by (userID, list type, setCode); the list
// document is created lazily. Quantity increments must be atomic at
// the statement level so concurrent adds of the same set code
// converge to the summed total.
type ListRepo interface {
	GetOrCreate(ctx context.Context, userID string, t models.ListType) (*models.List, error)
	UpsertCard(ctx context.Context, userID string, t models.ListType, entry models.CardEntry) error
	RemoveCard(ctx context.Context, userID string, t models.ListType, setCode string) (bool, error)
	SetQuantity(ctx context.Context, userID string, t models.ListType, setCode string, quantity int) (bool, error)
	UpdateDetails(ctx context.Context, userID string, t models.ListType, setCode string, price *float64, notes *string) (bool, error)
	SetForSale(ctx context.Context, userID string, t models.ListType, setCode string, forSale bool) (bool, error)
	SetLocalImagePath(ctx context.Context, userID string, t models.ListType, setCode, path string) (bool, error)
	Clear(ctx context.Context, userID string, t models.ListType) error
	TotalValue(ctx context.Context, userID string, t models.ListType) (float64, error)
	DeleteAllForUser(ctx context.Context, userID string) error
	GetCount(ctx context.Context) (int, error)
}

// DeckRepo defines the interface for deck persistence operations
type DeckRepo interface {
	Add(ctx context.Context, deck *models.Deck) error
	GetByID(ctx context.Context, deckID, userID string) (*models.Deck, error)
	GetAllForUser(ctx context.Context, userID string) ([]*models.Deck, error)
	CountForUser(ctx context.Context, userID string) (int, error)
	UpdateMeta(ctx context.Context, deckID, userID string, name, description *string) (bool, error)
	UpsertCard(ctx context.Context, deckID string, card models.CardInDeck) error
	SetCardQuantity(ctx context.Context, deckID string, cardID int64, zone models.DeckZone, quantity int) (bool, error)
	RemoveCardEntry(ctx context.Context, deckID string, cardID int64, zone models.DeckZone) (bool, error)
	ReplaceCards(ctx context.Context, deckID, userID string, cards []models.CardInDeck) (bool, error)
	SetCoverImageIfEmpty(ctx context.Context, deckID, image string) error
	Delete(ctx context.Context, deckID, userID string) (bool, error)
	DeleteAllForUser(ctx context.Context, userID string) error
	GetCount(ctx context.Context) (int, error)
}

// SharedLinkRepo defines the interface for share-link persistence
type SharedLinkRepo interface {
	Add(ctx context.Context, link *models.SharedLink) error
	GetByToken(ctx context.Context, token string) (*models.SharedLink, error)
	Delete(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
	DeleteAllForUser(ctx context.Context, userID string) error
	CountActive(ctx context.Context, now time.Time) (int, error)
}
