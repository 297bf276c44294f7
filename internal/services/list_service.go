package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Avzolem/yugioh-server/internal/models"
	"github.com/Avzolem/yugioh-server/internal/repository"
)

// ListService handles card-list business logic
type ListService struct {
	listRepo repository.ListRepo
	wsHub    *WebSocketHub
}

// NewListService creates a new ListService
func NewListService(listRepo repository.ListRepo) *ListService {
	return &ListService{listRepo: listRepo}
}

// SetWebSocketHub sets the WebSocket hub for real-time notifications
func (s *ListService) SetWebSocketHub(hub *WebSocketHub) {
	s.wsHub = hub
}

// GetList returns the user's list of the given type, creating it on
// first access
func (s *ListService) GetList(ctx context.Context, userID string, t models.ListType) (*models.List, error) {
	list, err := s.listRepo.GetOrCreate(ctx, userID, t)
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}
	return list, nil
}

// AddCard adds an entry to a list. An existing set code accumulates
// quantity instead of duplicating.
func (s *ListService) AddCard(ctx context.Context, userID string, t models.ListType, entry models.CardEntry) (*models.List, error) {
	if err := validateEntry(&entry); err != nil {
		return nil, err
	}

	if err := s.listRepo.UpsertCard(ctx, userID, t, entry); err != nil {
		return nil, fmt.Errorf("failed to add card: %w", err)
	}

	s.notifyListChanged(userID, t)
	return s.GetList(ctx, userID, t)
}

// RemoveCard deletes the entry outright regardless of quantity
func (s *ListService) RemoveCard(ctx context.Context, userID string, t models.ListType, setCode string) error {
	setCode = models.NormalizeSetCode(setCode)
	if setCode == "" {
		return models.ErrSetCodeRequired
	}

	removed, err := s.listRepo.RemoveCard(ctx, userID, t, setCode)
	if err != nil {
		return fmt.Errorf("failed to remove card: %w", err)
	}
	if !removed {
		return models.ErrCardNotInList
	}

	s.notifyListChanged(userID, t)
	return nil
}

// UpdateCard applies a quantity/price/notes update to one entry.
// A quantity of zero or less removes the entry entirely.
func (s *ListService) UpdateCard(ctx context.Context, userID string, t models.ListType, req *models.UpdateCardRequest) error {
	setCode := models.NormalizeSetCode(req.SetCode)
	if setCode == "" {
		return models.ErrSetCodeRequired
	}
	if req.Price != nil && *req.Price < 0 {
		return models.ErrNegativePrice
	}

	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return s.RemoveCard(ctx, userID, t, setCode)
		}
		updated, err := s.listRepo.SetQuantity(ctx, userID, t, setCode, *req.Quantity)
		if err != nil {
			return fmt.Errorf("failed to update quantity: %w", err)
		}
		if !updated {
			return models.ErrCardNotInList
		}
	}

	if req.Price != nil || req.Notes != nil {
		updated, err := s.listRepo.UpdateDetails(ctx, userID, t, setCode, req.Price, req.Notes)
		if err != nil {
			return fmt.Errorf("failed to update card details: %w", err)
		}
		if !updated {
			return models.ErrCardNotInList
		}
	}

	s.notifyListChanged(userID, t)
	return nil
}

// ClearList empties the card set; the list itself survives
func (s *ListService) ClearList(ctx context.Context, userID string, t models.ListType) error {
	if err := s.listRepo.Clear(ctx, userID, t); err != nil {
		return fmt.Errorf("failed to clear list: %w", err)
	}
	s.notifyListChanged(userID, t)
	return nil
}

// GetListValue sums price*quantity over priced entries
func (s *ListService) GetListValue(ctx context.Context, userID string, t models.ListType) (float64, error) {
	value, err := s.listRepo.TotalValue(ctx, userID, t)
	if err != nil {
		return 0, fmt.Errorf("failed to compute list value: %w", err)
	}
	return value, nil
}

// CacheImagePath records a locally cached copy of the card's image
func (s *ListService) CacheImagePath(ctx context.Context, userID string, t models.ListType, setCode, path string) error {
	updated, err := s.listRepo.SetLocalImagePath(ctx, userID, t, models.NormalizeSetCode(setCode), path)
	if err != nil {
		return fmt.Errorf("failed to record cached image: %w", err)
	}
	if !updated {
		return models.ErrCardNotInList
	}
	return nil
}

// DeleteUserLists removes all of the user's lists (account deletion)
func (s *ListService) DeleteUserLists(ctx context.Context, userID string) error {
	if err := s.listRepo.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user lists: %w", err)
	}
	return nil
}

func (s *ListService) notifyListChanged(userID string, t models.ListType) {
	if s.wsHub == nil {
		return
	}
	s.wsHub.SendToUser(userID, WSMessage{
		Type: WSTypeListUpdated,
		Payload: ListUpdatedPayload{
			ListType:  t,
			UpdatedAt: time.Now().UTC(),
		},
	})
}

func validateEntry(entry *models.CardEntry) error {
	entry.SetCode = models.NormalizeSetCode(entry.SetCode)
	if entry.SetCode == "" {
		return models.ErrSetCodeRequired
	}
	if strings.TrimSpace(entry.CardName) == "" {
		return models.ErrCardNameRequired
	}
	if entry.Quantity < 1 {
		entry.Quantity = 1
	}
	if entry.Price != nil && *entry.Price < 0 {
		return models.ErrNegativePrice
	}
	return nil
}
