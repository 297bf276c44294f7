package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Avzolem/yugioh-server/internal/models"
)

// ListRepository handles card-list persistence for SQLite/PostgreSQL
type ListRepository struct {
	db DBTX
}

// NewListRepository creates a new ListRepository
func NewListRepository(db DBTX) *ListRepository {
	return &ListRepository{db: db}
}

// GetOrCreate returns the user's list of the given type, creating an
// empty one on first access. Idempotent under concurrent callers.
func (r *ListRepository) GetOrCreate(ctx context.Context, userID string, t models.ListType) (*models.List, error) {
	list, err := r.getList(ctx, userID, t)
	if err != nil {
		return nil, err
	}

	if list == nil {
		now := time.Now().UTC()
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO lists (id, user_id, list_type, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (user_id, list_type) DO NOTHING`,
			uuid.New().String(), userID, string(t), now, now)
		if err != nil {
			return nil, err
		}

		list, err = r.getList(ctx, userID, t)
		if err != nil {
			return nil, err
		}
	}

	cards, err := r.getCards(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	list.Cards = cards

	return list, nil
}

func (r *ListRepository) getList(ctx context.Context, userID string, t models.ListType) (*models.List, error) {
	var list models.List
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, list_type, created_at, updated_at
		 FROM lists WHERE user_id = $1 AND list_type = $2`,
		userID, string(t)).Scan(&list.ID, &list.UserID, &list.Type, &list.CreatedAt, &list.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &list, nil
}

func (r *ListRepository) getCards(ctx context.Context, listID string) ([]models.CardEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT card_id, card_name, card_image, local_image_path, set_code, set_name,
		        set_rarity, quantity, price, notes, is_for_sale, added_at
		 FROM list_cards WHERE list_id = $1 ORDER BY added_at ASC`,
		listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []models.CardEntry{}
	for rows.Next() {
		var c models.CardEntry
		if err := rows.Scan(&c.CardID, &c.CardName, &c.CardImage, &c.LocalImagePath,
			&c.SetCode, &c.SetName, &c.SetRarity, &c.Quantity, &c.Price, &c.Notes,
			&c.IsForSale, &c.AddedAt); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// UpsertCard adds a card entry, or increments quantity when the set
// code already exists in the list. The increment happens in a single
// statement so concurrent adds never lose updates.
func (r *ListRepository) UpsertCard(ctx context.Context, userID string, t models.ListType, entry models.CardEntry) error {
	list, err := r.GetOrCreate(ctx, userID, t)
	if err != nil {
		return err
	}

	qty := entry.Quantity
	if qty < 1 {
		qty = 1
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO list_cards (list_id, set_code, card_id, card_name, card_image,
		        local_image_path, set_name, set_rarity, quantity, price, notes,
		        is_for_sale, added_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (list_id, set_code)
		 DO UPDATE SET quantity = list_cards.quantity + EXCLUDED.quantity`,
		list.ID, entry.SetCode, entry.CardID, entry.CardName, entry.CardImage,
		entry.LocalImagePath, entry.SetName, entry.SetRarity, qty, entry.Price,
		entry.Notes, entry.IsForSale, time.Now().UTC())
	if err != nil {
		return err
	}

	return r.touch(ctx, list.ID)
}

// RemoveCard deletes the entry outright, regardless of quantity
func (r *ListRepository) RemoveCard(ctx context.Context, userID string, t models.ListType, setCode string) (bool, error) {
	list, err := r.GetOrCreate(ctx, userID, t)
	if err != nil {
		return false, err
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM list_cards WHERE list_id = $1 AND set_code = $2`,
		list.ID, setCode)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		if err := r.touch(ctx, list.ID); err != nil {
			return true, err
		}
	}
	return affected > 0, nil
}

// SetQuantity sets the quantity directly. Callers handle the
// quantity <= 0 removal path.
func (r *ListRepository) SetQuantity(ctx context.Context, userID string, t models.ListType, setCode string, quantity int) (bool, error) {
	list, err := r.GetOrCreate(ctx, userID, t)
	if err != nil {
		return false, err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE list_cards SET quantity = $1 WHERE list_id = $2 AND set_code = $3`,
		quantity, list.ID, setCode)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		if err := r.touch(ctx, list.ID); err != nil {
			return true, err
		}
	}
	return affected > 0, nil
}

// UpdateDetails applies a partial price/notes update; nil fields are untouched
func (r *ListRepository) UpdateDetails(ctx context.Context, userID string, t models.ListType, setCode string, price *float64, notes *string) (bool, error) {
	if price == nil && notes == nil {
		return true, nil
	}

	list, err := r.GetOrCreate(ctx, userID, t)
	if err != nil {
		return false, err
	}

	query := `UPDATE list_cards SET `
	args := []interface{}{}
	idx := 1
	if price != nil {
		query += `price = $1`
		args = append(args, *price)
		idx++
	}
	if notes != nil {
		if idx > 1 {
			query += `, `
		}
		query += fmt.Sprintf(`notes = $%d`, idx)
		args = append(args, *notes)
		idx++
	}
	query += fmt.Sprintf(` WHERE list_id = $%d AND set_code = $%d`, idx, idx+1)
	args = append(args, list.ID, setCode)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		if err := r.touch(ctx, list.ID); err != nil {
			return true, err
		}
	}
	return affected > 0, nil
}

// SetForSale flips the for-sale flag on a collection entry
func (r *ListRepository) SetForSale(ctx context.Context, userID string, t models.ListType, setCode string, forSale bool) (bool, error) {
	list, err := r.GetOrCreate(ctx, userID, t)
	if err != nil {
		return false, err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE list_cards SET is_for_sale = $1 WHERE list_id = $2 AND set_code = $3`,
		forSale, list.ID, setCode)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SetLocalImagePath records where a cached copy of the card image lives
func (r *ListRepository) SetLocalImagePath(ctx context.Context, userID string, t models.ListType, setCode, path string) (bool, error) {
	list, err := r.GetOrCreate(ctx, userID, t)
	if err != nil {
		return false, err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE list_cards SET local_image_path = $1 WHERE list_id = $2 AND set_code = $3`,
		path, list.ID, setCode)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Clear empties the card set; the list row itself survives
func (r *ListRepository) Clear(ctx context.Context, userID string, t models.ListType) error {
	list, err := r.GetOrCreate(ctx, userID, t)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM list_cards WHERE list_id = $1`, list.ID); err != nil {
		return err
	}
	return r.touch(ctx, list.ID)
}

// TotalValue sums price*quantity over priced entries via aggregation
func (r *ListRepository) TotalValue(ctx context.Context, userID string, t models.ListType) (float64, error) {
	list, err := r.GetOrCreate(ctx, userID, t)
	if err != nil {
		return 0, err
	}

	var total sql.NullFloat64
	err = r.db.QueryRowContext(ctx,
		`SELECT SUM(price * quantity) FROM list_cards WHERE list_id = $1 AND price IS NOT NULL`,
		list.ID).Scan(&total)
	if err != nil {
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return total.Float64, nil
}

// DeleteAllForUser removes all three lists and their cards (account deletion)
func (r *ListRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM list_cards WHERE list_id IN (SELECT id FROM lists WHERE user_id = $1)`,
		userID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM lists WHERE user_id = $1`, userID)
	return err
}

// GetCount returns the total number of list documents
func (r *ListRepository) GetCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lists`).Scan(&count)
	return count, err
}

func (r *ListRepository) touch(ctx context.Context, listID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE lists SET updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), listID)
	return err
}
