package models

import (
	"strings"
	"time"
)

// ListType identifies one of the per-user card lists
type ListType string

const (
	ListCollection ListType = "collection"
	ListForSale    ListType = "for-sale"
	ListWishlist   ListType = "wishlist"
)

// AllListTypes returns every valid list type
func AllListTypes() []ListType {
	return []ListType{ListCollection, ListForSale, ListWishlist}
}

// IsValidListType checks if a list type value is valid
func IsValidListType(t string) bool {
	switch ListType(t) {
	case ListCollection, ListForSale, ListWishlist:
		return true
	}
	return false
}

// CardEntry represents one printing of a card held inside a list.
// SetCode is the unique key within a list: adding an existing set code
// increments quantity instead of creating a duplicate entry.
type CardEntry struct {
	CardID         int64     `json:"cardId"`
	CardName       string    `json:"cardName"`
	CardImage      string    `json:"cardImage"`
	LocalImagePath *string   `json:"localImagePath,omitempty"`
	SetCode        string    `json:"setCode"`
	SetName        string    `json:"setName"`
	SetRarity      string    `json:"setRarity"`
	Quantity       int       `json:"quantity"`
	Price          *float64  `json:"price,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	AddedAt        time.Time `json:"addedAt"`
	IsForSale      bool      `json:"isForSale"` // meaningful only inside the collection list
}

// Value returns the entry's contribution to a list total.
// Entries without a price contribute 0.
func (e *CardEntry) Value() float64 {
	if e.Price == nil {
		return 0
	}
	qty := e.Quantity
	if qty < 1 {
		qty = 1
	}
	return *e.Price * float64(qty)
}

// List represents a per-user named card list.
// Lists are created lazily on first read or write.
type List struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Type      ListType    `json:"type"`
	Cards     []CardEntry `json:"cards"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// FindCard returns the entry with the given set code, or nil
func (l *List) FindCard(setCode string) *CardEntry {
	for i := range l.Cards {
		if l.Cards[i].SetCode == setCode {
			return &l.Cards[i]
		}
	}
	return nil
}

// TotalValue sums price*quantity over entries with a defined price
func (l *List) TotalValue() float64 {
	var total float64
	for i := range l.Cards {
		total += l.Cards[i].Value()
	}
	return total
}

// TotalQuantity sums quantities over all entries
func (l *List) TotalQuantity() int {
	var total int
	for i := range l.Cards {
		qty := l.Cards[i].Quantity
		if qty < 1 {
			qty = 1
		}
		total += qty
	}
	return total
}

// NormalizeSetCode trims and uppercases a set code
func NormalizeSetCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// UserStats aggregates a user's lists for the profile view
type UserStats struct {
	TotalCards      int     `json:"totalCards"`
	CollectionValue float64 `json:"collectionValue"`
	ForSaleValue    float64 `json:"forSaleValue"`
	WishlistCount   int     `json:"wishlistCount"`
}

// List errors
type ListError struct {
	Message string
}

func (e ListError) Error() string {
	return e.Message
}

var (
	ErrInvalidListType  = ListError{"invalid list type"}
	ErrCardNotInList    = ListError{"card not found in list"}
	ErrSetCodeRequired  = ListError{"set code is required"}
	ErrCardNameRequired = ListError{"card name is required"}
	ErrInvalidQuantity  = ListError{"quantity must be a positive integer"}
	ErrNegativePrice    = ListError{"price must not be negative"}
)
