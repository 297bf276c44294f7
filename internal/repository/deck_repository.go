package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Avzolem/yugioh-server/internal/models"
)

// DeckRepository handles deck persistence for SQLite/PostgreSQL
type DeckRepository struct {
	db DBTX
}

// NewDeckRepository creates a new DeckRepository
func NewDeckRepository(db DBTX) *DeckRepository {
	return &DeckRepository{db: db}
}

// Add inserts a new deck
func (r *DeckRepository) Add(ctx context.Context, deck *models.Deck) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO decks (id, user_id, name, description, cover_image, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		deck.ID, deck.UserID, deck.Name, deck.Description, deck.CoverImage,
		deck.CreatedAt, deck.UpdatedAt)
	return err
}

// GetByID returns the deck with its cards, scoped to the owner.
// Returns nil when no deck matches both IDs.
func (r *DeckRepository) GetByID(ctx context.Context, deckID, userID string) (*models.Deck, error) {
	var deck models.Deck
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, description, cover_image, created_at, updated_at
		 FROM decks WHERE id = $1 AND user_id = $2`,
		deckID, userID).Scan(&deck.ID, &deck.UserID, &deck.Name, &deck.Description,
		&deck.CoverImage, &deck.CreatedAt, &deck.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cards, err := r.getCards(ctx, deck.ID)
	if err != nil {
		return nil, err
	}
	deck.Cards = cards

	return &deck, nil
}

// GetAllForUser returns the user's decks with cards, newest first
func (r *DeckRepository) GetAllForUser(ctx context.Context, userID string) ([]*models.Deck, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, description, cover_image, created_at, updated_at
		 FROM decks WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decks := []*models.Deck{}
	for rows.Next() {
		var deck models.Deck
		if err := rows.Scan(&deck.ID, &deck.UserID, &deck.Name, &deck.Description,
			&deck.CoverImage, &deck.CreatedAt, &deck.UpdatedAt); err != nil {
			return nil, err
		}
		decks = append(decks, &deck)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, deck := range decks {
		cards, err := r.getCards(ctx, deck.ID)
		if err != nil {
			return nil, err
		}
		deck.Cards = cards
	}

	return decks, nil
}

func (r *DeckRepository) getCards(ctx context.Context, deckID string) ([]models.CardInDeck, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT card_id, card_name, card_image, zone, quantity
		 FROM deck_cards WHERE deck_id = $1 ORDER BY zone, card_name`,
		deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []models.CardInDeck{}
	for rows.Next() {
		var c models.CardInDeck
		if err := rows.Scan(&c.CardID, &c.CardName, &c.CardImage, &c.Zone, &c.Quantity); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// CountForUser returns how many decks the user owns
func (r *DeckRepository) CountForUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM decks WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// UpdateMeta applies a partial name/description update; nil fields are untouched
func (r *DeckRepository) UpdateMeta(ctx context.Context, deckID, userID string, name, description *string) (bool, error) {
	if name == nil && description == nil {
		return true, nil
	}

	query := `UPDATE decks SET updated_at = $1`
	args := []interface{}{time.Now().UTC()}
	idx := 2
	if name != nil {
		query += fmt.Sprintf(`, name = $%d`, idx)
		args = append(args, *name)
		idx++
	}
	if description != nil {
		query += fmt.Sprintf(`, description = $%d`, idx)
		args = append(args, *description)
		idx++
	}
	query += fmt.Sprintf(` WHERE id = $%d AND user_id = $%d`, idx, idx+1)
	args = append(args, deckID, userID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// UpsertCard adds a card to a deck zone, or increments the quantity
// of an existing (cardId, zone) entry in a single statement
func (r *DeckRepository) UpsertCard(ctx context.Context, deckID string, card models.CardInDeck) error {
	qty := card.Quantity
	if qty < 1 {
		qty = 1
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO deck_cards (deck_id, card_id, zone, card_name, card_image, quantity)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (deck_id, card_id, zone)
		 DO UPDATE SET quantity = deck_cards.quantity + EXCLUDED.quantity`,
		deckID, card.CardID, string(card.Zone), card.CardName, card.CardImage, qty)
	if err != nil {
		return err
	}

	return r.touch(ctx, deckID)
}

// SetCardQuantity sets the quantity of one (cardId, zone) entry directly
func (r *DeckRepository) SetCardQuantity(ctx context.Context, deckID string, cardID int64, zone models.DeckZone, quantity int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE deck_cards SET quantity = $1
		 WHERE deck_id = $2 AND card_id = $3 AND zone = $4`,
		quantity, deckID, cardID, string(zone))
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		if err := r.touch(ctx, deckID); err != nil {
			return true, err
		}
	}
	return affected > 0, nil
}

// RemoveCardEntry deletes one (cardId, zone) entry outright
func (r *DeckRepository) RemoveCardEntry(ctx context.Context, deckID string, cardID int64, zone models.DeckZone) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM deck_cards WHERE deck_id = $1 AND card_id = $2 AND zone = $3`,
		deckID, cardID, string(zone))
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		if err := r.touch(ctx, deckID); err != nil {
			return true, err
		}
	}
	return affected > 0, nil
}

// ReplaceCards swaps the deck's full card set in one transaction.
// Returns false when the deck does not belong to the user.
func (r *DeckRepository) ReplaceCards(ctx context.Context, deckID, userID string, cards []models.CardInDeck) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE decks SET updated_at = $1 WHERE id = $2 AND user_id = $3`,
		time.Now().UTC(), deckID, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = $1`, deckID); err != nil {
		return false, err
	}

	for _, card := range cards {
		qty := card.Quantity
		if qty < 1 {
			qty = 1
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO deck_cards (deck_id, card_id, zone, card_name, card_image, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (deck_id, card_id, zone)
			 DO UPDATE SET quantity = deck_cards.quantity + EXCLUDED.quantity`,
			deckID, card.CardID, string(card.Zone), card.CardName, card.CardImage, qty)
		if err != nil {
			return false, err
		}
	}

	return true, tx.Commit()
}

// SetCoverImageIfEmpty sets the cover image only when none is set yet
func (r *DeckRepository) SetCoverImageIfEmpty(ctx context.Context, deckID, image string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE decks SET cover_image = $1
		 WHERE id = $2 AND (cover_image IS NULL OR cover_image = '')`,
		image, deckID)
	return err
}

// Delete removes a deck and its cards, scoped to the owner
func (r *DeckRepository) Delete(ctx context.Context, deckID, userID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM decks WHERE id = $1 AND user_id = $2`, deckID, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = $1`, deckID); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// DeleteAllForUser removes every deck the user owns (account deletion)
func (r *DeckRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM deck_cards WHERE deck_id IN (SELECT id FROM decks WHERE user_id = $1)`,
		userID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM decks WHERE user_id = $1`, userID)
	return err
}

// GetCount returns the total number of decks
func (r *DeckRepository) GetCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks`).Scan(&count)
	return count, err
}

func (r *DeckRepository) touch(ctx context.Context, deckID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE decks SET updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), deckID)
	return err
}
