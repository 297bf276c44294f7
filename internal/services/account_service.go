package services

import (
	"context"
	"fmt"

	"github.com/Avzolem/yugioh-server/internal/models"
	"github.com/Avzolem/yugioh-server/internal/repository"
)

// AccountService handles profile stats and the account-deletion cascade
type AccountService struct {
	userRepo    repository.UserRepo
	sessionRepo repository.WebSessionRepo
	listService *ListService
	deckService *DeckService
	shareSvc    *ShareService
}

// NewAccountService creates a new AccountService
func NewAccountService(
	userRepo repository.UserRepo,
	sessionRepo repository.WebSessionRepo,
	listService *ListService,
	deckService *DeckService,
	shareSvc *ShareService,
) *AccountService {
	return &AccountService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		listService: listService,
		deckService: deckService,
		shareSvc:    shareSvc,
	}
}

// GetStats aggregates the user's lists into the profile overview
func (s *AccountService) GetStats(ctx context.Context, userID string) (*models.UserStats, error) {
	collection, err := s.listService.GetList(ctx, userID, models.ListCollection)
	if err != nil {
		return nil, err
	}
	wishlist, err := s.listService.GetList(ctx, userID, models.ListWishlist)
	if err != nil {
		return nil, err
	}
	forSaleValue, err := s.listService.GetListValue(ctx, userID, models.ListForSale)
	if err != nil {
		return nil, err
	}

	return &models.UserStats{
		TotalCards:      collection.TotalQuantity(),
		CollectionValue: collection.TotalValue(),
		ForSaleValue:    forSaleValue,
		WishlistCount:   len(wishlist.Cards),
	}, nil
}

// DeleteAccount removes the user and everything they own: lists,
// decks, share links, sessions, then the user row itself
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.listService.DeleteUserLists(ctx, userID); err != nil {
		return err
	}
	if err := s.deckService.DeleteUserDecks(ctx, userID); err != nil {
		return err
	}
	if err := s.shareSvc.DeleteUserLinks(ctx, userID); err != nil {
		return err
	}
	if err := s.sessionRepo.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	deleted, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return models.ErrUserNotFound
	}
	return nil
}
