package models

import "time"

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Language    string `json:"language,omitempty"`
	Newsletter  bool   `json:"newsletter,omitempty"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AddCardRequest is the request body for adding a card to a list
type AddCardRequest struct {
	CardID         int64    `json:"cardId"`
	CardName       string   `json:"cardName"`
	CardImage      string   `json:"cardImage"`
	LocalImagePath *string  `json:"localImagePath,omitempty"`
	SetCode        string   `json:"setCode"`
	SetName        string   `json:"setName"`
	SetRarity      string   `json:"setRarity"`
	Quantity       int      `json:"quantity,omitempty"` // defaults to 1
	Price          *float64 `json:"price,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}

// ToEntry converts the request into a CardEntry (AddedAt is set by the store)
func (r *AddCardRequest) ToEntry() CardEntry {
	qty := r.Quantity
	if qty < 1 {
		qty = 1
	}
	return CardEntry{
		CardID:         r.CardID,
		CardName:       r.CardName,
		CardImage:      r.CardImage,
		LocalImagePath: r.LocalImagePath,
		SetCode:        NormalizeSetCode(r.SetCode),
		SetName:        r.SetName,
		SetRarity:      r.SetRarity,
		Quantity:       qty,
		Price:          r.Price,
		Notes:          r.Notes,
	}
}

// UpdateCardRequest is the request body for updating a list entry.
// Quantity <= 0 removes the entry; Price/Notes are partial updates.
type UpdateCardRequest struct {
	SetCode  string   `json:"setCode"`
	Quantity *int     `json:"quantity,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// ToggleForSaleRequest flips a collection card's for-sale flag
type ToggleForSaleRequest struct {
	SetCode string `json:"setCode"`
}

// ListResponse is the API response for one list
type ListResponse struct {
	List       *List   `json:"list"`
	TotalValue float64 `json:"totalValue"`
}

// CreateDeckRequest is the request body for creating a deck
type CreateDeckRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// DeckActionRequest is the request body for PUT /api/decks/{deckId}.
// Action selects the mutation: "meta", "addCard", "removeCard" or
// "replaceCards".
type DeckActionRequest struct {
	Action      string       `json:"action"`
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Card        *CardInDeck  `json:"card,omitempty"`
	CardID      int64        `json:"cardId,omitempty"`
	Zone        string       `json:"zone,omitempty"`
	Quantity    int          `json:"quantity,omitempty"`
	Cards       []CardInDeck `json:"cards,omitempty"`
}

// DeckResponse is the API response for a single deck
type DeckResponse struct {
	Deck *Deck `json:"deck"`
}

// DeckListResponse is the API response for listing decks
type DeckListResponse struct {
	Decks []*Deck `json:"decks"`
}

// CreateShareRequest is the request body for minting a share link
type CreateShareRequest struct {
	ListType      string `json:"listType"`
	ExpiresInDays int    `json:"expiresInDays,omitempty"`
}

// ShareLinkResponse is returned after creating a share link
type ShareLinkResponse struct {
	Token     string    `json:"token"`
	ShareURL  string    `json:"shareUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SharedListResponse is the read-only view served to a share token
type SharedListResponse struct {
	ListType   ListType  `json:"listType"`
	List       *List     `json:"list"`
	TotalValue float64   `json:"totalValue"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// ResolveResponse is returned by the set-code resolver endpoint
type ResolveResponse struct {
	CardName     string `json:"cardName"`
	SetCode      string `json:"setCode"`
	SetName      string `json:"setName"`
	SetRarity    string `json:"setRarity"`
	SetPrice     string `json:"setPrice,omitempty"`
	UsedFallback bool   `json:"usedFallback"`
	OriginalCode string `json:"originalCode,omitempty"`
	FallbackCode string `json:"fallbackCode,omitempty"`
}

// CacheImageRequest downloads a card image into local storage
type CacheImageRequest struct {
	ListType string `json:"listType"`
	SetCode  string `json:"setCode"`
	ImageURL string `json:"imageUrl"`
}

// CacheImageResponse reports where the cached copy landed
type CacheImageResponse struct {
	LocalImagePath string `json:"localImagePath"`
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// AdminStatsResponse is the allowlist-gated overview
type AdminStatsResponse struct {
	TotalUsers  int `json:"totalUsers"`
	TotalLists  int `json:"totalLists"`
	TotalDecks  int `json:"totalDecks"`
	ActiveLinks int `json:"activeLinks"`
}
