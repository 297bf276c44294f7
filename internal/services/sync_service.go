package services

import (
	"context"
	"fmt"

	"github.com/Avzolem/yugioh-server/internal/models"
	"github.com/Avzolem/yugioh-server/internal/repository"
)

// SyncService keeps the collection and for-sale lists mirrored: a
// card lives in for-sale exactly when its collection entry is flagged
// for sale. It owns every write that touches both lists; no other
// code path mutates the pair.
type SyncService struct {
	listRepo repository.ListRepo
	wsHub    *WebSocketHub
}

// NewSyncService creates a new SyncService
func NewSyncService(listRepo repository.ListRepo) *SyncService {
	return &SyncService{listRepo: listRepo}
}

// SetWebSocketHub sets the WebSocket hub for real-time notifications
func (s *SyncService) SetWebSocketHub(hub *WebSocketHub) {
	s.wsHub = hub
}

// ToggleForSale flips a collection entry's for-sale flag and mirrors
// the change into the for-sale list. A failed mirror write is rolled
// back so both lists stay consistent.
func (s *SyncService) ToggleForSale(ctx context.Context, userID, setCode string) (bool, error) {
	setCode = models.NormalizeSetCode(setCode)
	if setCode == "" {
		return false, models.ErrSetCodeRequired
	}

	collection, err := s.listRepo.GetOrCreate(ctx, userID, models.ListCollection)
	if err != nil {
		return false, fmt.Errorf("failed to load collection: %w", err)
	}

	entry := collection.FindCard(setCode)
	if entry == nil {
		return false, models.ErrCardNotInList
	}

	forSale := !entry.IsForSale
	if _, err := s.listRepo.SetForSale(ctx, userID, models.ListCollection, setCode, forSale); err != nil {
		return false, fmt.Errorf("failed to flip for-sale flag: %w", err)
	}

	if forSale {
		mirror := *entry
		mirror.IsForSale = true
		if err := s.listRepo.UpsertCard(ctx, userID, models.ListForSale, mirror); err != nil {
			// Roll the flag back rather than leave the lists split
			s.listRepo.SetForSale(ctx, userID, models.ListCollection, setCode, false)
			return false, fmt.Errorf("failed to mirror card into for-sale: %w", err)
		}
	} else {
		if _, err := s.listRepo.RemoveCard(ctx, userID, models.ListForSale, setCode); err != nil {
			s.listRepo.SetForSale(ctx, userID, models.ListCollection, setCode, true)
			return false, fmt.Errorf("failed to remove card from for-sale: %w", err)
		}
	}

	s.notifyChanged(userID)
	return forSale, nil
}

// AddToForSale adds a card straight to the for-sale list. A card not
// yet in the collection is inserted there too; one already present
// only has its flag raised, its quantity is untouched.
func (s *SyncService) AddToForSale(ctx context.Context, userID string, entry models.CardEntry) error {
	if err := validateEntry(&entry); err != nil {
		return err
	}

	collection, err := s.listRepo.GetOrCreate(ctx, userID, models.ListCollection)
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	forSaleEntry := entry
	forSaleEntry.IsForSale = true
	if err := s.listRepo.UpsertCard(ctx, userID, models.ListForSale, forSaleEntry); err != nil {
		return fmt.Errorf("failed to add card to for-sale: %w", err)
	}

	if existing := collection.FindCard(entry.SetCode); existing != nil {
		if _, err := s.listRepo.SetForSale(ctx, userID, models.ListCollection, entry.SetCode, true); err != nil {
			s.listRepo.RemoveCard(ctx, userID, models.ListForSale, entry.SetCode)
			return fmt.Errorf("failed to flag collection entry: %w", err)
		}
	} else {
		if err := s.listRepo.UpsertCard(ctx, userID, models.ListCollection, forSaleEntry); err != nil {
			s.listRepo.RemoveCard(ctx, userID, models.ListForSale, entry.SetCode)
			return fmt.Errorf("failed to insert collection entry: %w", err)
		}
	}

	s.notifyChanged(userID)
	return nil
}

// RemoveFromForSale takes a card off the market and lowers its
// collection flag when present
func (s *SyncService) RemoveFromForSale(ctx context.Context, userID, setCode string) error {
	setCode = models.NormalizeSetCode(setCode)
	if setCode == "" {
		return models.ErrSetCodeRequired
	}

	removed, err := s.listRepo.RemoveCard(ctx, userID, models.ListForSale, setCode)
	if err != nil {
		return fmt.Errorf("failed to remove card from for-sale: %w", err)
	}
	if !removed {
		return models.ErrCardNotInList
	}

	// The flag may already be false when the card never reached the
	// collection; SetForSale on a missing entry is a no-op
	if _, err := s.listRepo.SetForSale(ctx, userID, models.ListCollection, setCode, false); err != nil {
		return fmt.Errorf("failed to lower collection flag: %w", err)
	}

	s.notifyChanged(userID)
	return nil
}

// RemoveFromCollection deletes a collection entry and cascades the
// delete into for-sale. The cascade only ever runs this direction.
func (s *SyncService) RemoveFromCollection(ctx context.Context, userID, setCode string) error {
	setCode = models.NormalizeSetCode(setCode)
	if setCode == "" {
		return models.ErrSetCodeRequired
	}

	collection, err := s.listRepo.GetOrCreate(ctx, userID, models.ListCollection)
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	entry := collection.FindCard(setCode)
	if entry == nil {
		return models.ErrCardNotInList
	}

	if _, err := s.listRepo.RemoveCard(ctx, userID, models.ListCollection, setCode); err != nil {
		return fmt.Errorf("failed to remove card from collection: %w", err)
	}

	if _, err := s.listRepo.RemoveCard(ctx, userID, models.ListForSale, setCode); err != nil {
		// Restore the collection entry so the failed cascade is not
		// observable as a half-applied delete
		s.listRepo.UpsertCard(ctx, userID, models.ListCollection, *entry)
		return fmt.Errorf("failed to cascade delete into for-sale: %w", err)
	}

	s.notifyChanged(userID)
	return nil
}

func (s *SyncService) notifyChanged(userID string) {
	if s.wsHub == nil {
		return
	}
	s.wsHub.SendToUser(userID, WSMessage{
		Type: WSTypeListUpdated,
		Payload: ListUpdatedPayload{ListType: models.ListCollection},
	})
	s.wsHub.SendToUser(userID, WSMessage{
		Type: WSTypeListUpdated,
		Payload: ListUpdatedPayload{ListType: models.ListForSale},
	})
}
