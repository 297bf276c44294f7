package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DeckZone identifies one of the three deck compartments
type DeckZone string

const (
	ZoneMain  DeckZone = "main"
	ZoneExtra DeckZone = "extra"
	ZoneSide  DeckZone = "side"
)

// IsValidZone checks if a zone value is valid
func IsValidZone(z string) bool {
	switch DeckZone(z) {
	case ZoneMain, ZoneExtra, ZoneSide:
		return true
	}
	return false
}

// Deck construction limits
const (
	MaxDecksPerUser = 3
	MaxCopies       = 3
	MainDeckMax     = 60
	ExtraDeckMax    = 15
	SideDeckMax     = 15

	// MainDeckMin is the tournament-legal floor. It is informational
	// only: mutations never reject a deck for being under the minimum.
	MainDeckMin = 40
)

// extraDeckFrameTypes are the frame types that belong to the extra deck
var extraDeckFrameTypes = map[string]bool{
	"fusion":  true,
	"synchro": true,
	"xyz":     true,
	"link":    true,
}

// ZoneForFrameType returns the default zone for a card's frame type.
// The side zone is never auto-assigned; callers request it explicitly.
func ZoneForFrameType(frameType string) DeckZone {
	if extraDeckFrameTypes[strings.ToLower(strings.TrimSpace(frameType))] {
		return ZoneExtra
	}
	return ZoneMain
}

// CardInDeck represents a card placed in one deck zone.
// Uniqueness is per (cardId, zone); the same card may hold entries in
// two zones, but copy limits are computed across all zones combined.
type CardInDeck struct {
	CardID    int64    `json:"cardId"`
	CardName  string   `json:"cardName"`
	CardImage string   `json:"cardImage"`
	Zone      DeckZone `json:"zone"`
	Quantity  int      `json:"quantity"`
}

// Deck represents a user's constructed deck
type Deck struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	CoverImage  *string      `json:"coverImage,omitempty"`
	Cards       []CardInDeck `json:"cards"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewDeck creates an empty deck
func NewDeck(userID, name string, description *string) (*Deck, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrDeckUserRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrDeckNameRequired
	}

	now := time.Now().UTC()
	return &Deck{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Cards:       []CardInDeck{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CopiesOf sums quantities for a card across all zones
func (d *Deck) CopiesOf(cardID int64) int {
	var total int
	for i := range d.Cards {
		if d.Cards[i].CardID == cardID {
			total += d.Cards[i].Quantity
		}
	}
	return total
}

// ZoneCount sums quantities of all cards in one zone
func (d *Deck) ZoneCount(zone DeckZone) int {
	var total int
	for i := range d.Cards {
		if d.Cards[i].Zone == zone {
			total += d.Cards[i].Quantity
		}
	}
	return total
}

// FindCard returns the (cardId, zone) entry, or nil
func (d *Deck) FindCard(cardID int64, zone DeckZone) *CardInDeck {
	for i := range d.Cards {
		if d.Cards[i].CardID == cardID && d.Cards[i].Zone == zone {
			return &d.Cards[i]
		}
	}
	return nil
}

// zoneCap returns the capacity of a zone
func zoneCap(zone DeckZone) int {
	switch zone {
	case ZoneExtra:
		return ExtraDeckMax
	case ZoneSide:
		return SideDeckMax
	default:
		return MainDeckMax
	}
}

// zoneFullError returns the zone-specific capacity error
func zoneFullError(zone DeckZone) error {
	switch zone {
	case ZoneExtra:
		return ErrExtraDeckFull
	case ZoneSide:
		return ErrSideDeckFull
	default:
		return ErrMainDeckFull
	}
}

// ValidateAddCard checks the copy limit and zone capacity for adding
// quantity copies of cardID to a zone. It returns nil when the add is
// legal. The copy limit is evaluated first, across all zones.
func (d *Deck) ValidateAddCard(cardID int64, zone DeckZone, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if d.CopiesOf(cardID)+quantity > MaxCopies {
		return ErrMaxCopiesExceeded
	}
	if d.ZoneCount(zone)+quantity > zoneCap(zone) {
		return zoneFullError(zone)
	}
	return nil
}

// Deck errors
type DeckError struct {
	Message string
}

func (e DeckError) Error() string {
	return e.Message
}

var (
	ErrDeckNotFound      = DeckError{"deck not found"}
	ErrDeckNameRequired  = DeckError{"deck name is required"}
	ErrDeckUserRequired  = DeckError{"user ID is required"}
	ErrDeckLimitReached  = DeckError{"deck limit reached"}
	ErrMaxCopiesExceeded = DeckError{"maximum copies of this card exceeded"}
	ErrMainDeckFull      = DeckError{"main deck is full"}
	ErrExtraDeckFull     = DeckError{"extra deck is full"}
	ErrSideDeckFull      = DeckError{"side deck is full"}
	ErrCardNotInDeck     = DeckError{"card not found in that deck zone"}
)
