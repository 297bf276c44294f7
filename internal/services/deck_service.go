package services

import (
	"context"
	"fmt"

	"github.com/Avzolem/yugioh-server/internal/models"
	"github.com/Avzolem/yugioh-server/internal/repository"
)

// DeckService handles deck construction business logic
type DeckService struct {
	deckRepo repository.DeckRepo
	wsHub    *WebSocketHub
}

// NewDeckService creates a new DeckService
func NewDeckService(deckRepo repository.DeckRepo) *DeckService {
	return &DeckService{deckRepo: deckRepo}
}

// SetWebSocketHub sets the WebSocket hub for real-time notifications
func (s *DeckService) SetWebSocketHub(hub *WebSocketHub) {
	s.wsHub = hub
}

// CreateDeck creates an empty deck, capped at MaxDecksPerUser
func (s *DeckService) CreateDeck(ctx context.Context, userID string, req *models.CreateDeckRequest) (*models.Deck, error) {
	count, err := s.deckRepo.CountForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count decks: %w", err)
	}
	if count >= models.MaxDecksPerUser {
		return nil, models.ErrDeckLimitReached
	}

	deck, err := models.NewDeck(userID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.deckRepo.Add(ctx, deck); err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	s.notifyDeckChanged(userID, deck.ID)
	return deck, nil
}

// GetDecks returns all of the user's decks
func (s *DeckService) GetDecks(ctx context.Context, userID string) ([]*models.Deck, error) {
	decks, err := s.deckRepo.GetAllForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load decks: %w", err)
	}
	return decks, nil
}

// GetDeck returns one deck scoped to its owner
func (s *DeckService) GetDeck(ctx context.Context, deckID, userID string) (*models.Deck, error) {
	deck, err := s.deckRepo.GetByID(ctx, deckID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}
	if deck == nil {
		return nil, models.ErrDeckNotFound
	}
	return deck, nil
}

// UpdateMeta renames a deck or edits its description
func (s *DeckService) UpdateMeta(ctx context.Context, deckID, userID string, name, description *string) error {
	if name != nil && *name == "" {
		return models.ErrDeckNameRequired
	}

	updated, err := s.deckRepo.UpdateMeta(ctx, deckID, userID, name, description)
	if err != nil {
		return fmt.Errorf("failed to update deck: %w", err)
	}
	if !updated {
		return models.ErrDeckNotFound
	}

	s.notifyDeckChanged(userID, deckID)
	return nil
}

// AddCard places copies of a card into a deck zone. The copy limit
// across all zones is checked before the target zone's capacity, so a
// fourth copy is always reported as MaxCopiesExceeded even when the
// zone is also full.
func (s *DeckService) AddCard(ctx context.Context, deckID, userID string, card models.CardInDeck) (*models.Deck, error) {
	if !models.IsValidZone(string(card.Zone)) {
		card.Zone = models.ZoneMain
	}
	if card.Quantity < 1 {
		card.Quantity = 1
	}

	deck, err := s.GetDeck(ctx, deckID, userID)
	if err != nil {
		return nil, err
	}

	if err := deck.ValidateAddCard(card.CardID, card.Zone, card.Quantity); err != nil {
		return nil, err
	}

	if err := s.deckRepo.UpsertCard(ctx, deckID, card); err != nil {
		return nil, fmt.Errorf("failed to add card to deck: %w", err)
	}

	// First main-zone card donates the cover image, once
	if card.Zone == models.ZoneMain && card.CardImage != "" {
		if err := s.deckRepo.SetCoverImageIfEmpty(ctx, deckID, card.CardImage); err != nil {
			return nil, fmt.Errorf("failed to set cover image: %w", err)
		}
	}

	s.notifyDeckChanged(userID, deckID)
	return s.GetDeck(ctx, deckID, userID)
}

// RemoveCard decrements one copy from a (cardId, zone) entry,
// deleting the entry when the last copy goes
func (s *DeckService) RemoveCard(ctx context.Context, deckID, userID string, cardID int64, zone models.DeckZone) (*models.Deck, error) {
	deck, err := s.GetDeck(ctx, deckID, userID)
	if err != nil {
		return nil, err
	}

	entry := deck.FindCard(cardID, zone)
	if entry == nil {
		return nil, models.ErrCardNotInDeck
	}

	if entry.Quantity <= 1 {
		if _, err := s.deckRepo.RemoveCardEntry(ctx, deckID, cardID, zone); err != nil {
			return nil, fmt.Errorf("failed to remove card from deck: %w", err)
		}
	} else {
		if _, err := s.deckRepo.SetCardQuantity(ctx, deckID, cardID, zone, entry.Quantity-1); err != nil {
			return nil, fmt.Errorf("failed to decrement card quantity: %w", err)
		}
	}

	s.notifyDeckChanged(userID, deckID)
	return s.GetDeck(ctx, deckID, userID)
}

// ReplaceCards overwrites the deck's entire card array without
// legality checks. Bulk edits from the client arrive pre-validated;
// this is the trusted escape hatch, not a second validator.
func (s *DeckService) ReplaceCards(ctx context.Context, deckID, userID string, cards []models.CardInDeck) (*models.Deck, error) {
	for i := range cards {
		if !models.IsValidZone(string(cards[i].Zone)) {
			cards[i].Zone = models.ZoneMain
		}
	}

	updated, err := s.deckRepo.ReplaceCards(ctx, deckID, userID, cards)
	if err != nil {
		return nil, fmt.Errorf("failed to replace deck cards: %w", err)
	}
	if !updated {
		return nil, models.ErrDeckNotFound
	}

	s.notifyDeckChanged(userID, deckID)
	return s.GetDeck(ctx, deckID, userID)
}

// DeleteDeck removes a deck and its cards
func (s *DeckService) DeleteDeck(ctx context.Context, deckID, userID string) error {
	deleted, err := s.deckRepo.Delete(ctx, deckID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	if !deleted {
		return models.ErrDeckNotFound
	}

	s.notifyDeckChanged(userID, deckID)
	return nil
}

// DeleteUserDecks removes every deck the user owns (account deletion)
func (s *DeckService) DeleteUserDecks(ctx context.Context, userID string) error {
	if err := s.deckRepo.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user decks: %w", err)
	}
	return nil
}

func (s *DeckService) notifyDeckChanged(userID, deckID string) {
	if s.wsHub == nil {
		return
	}
	s.wsHub.SendToUser(userID, WSMessage{
		Type:    WSTypeDeckUpdated,
		Payload: DeckUpdatedPayload{DeckID: deckID},
	})
}
