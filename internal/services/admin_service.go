package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Avzolem/yugioh-server/internal/models"
	"github.com/Avzolem/yugioh-server/internal/repository"
)

// AdminService serves the allowlist-gated overview
type AdminService struct {
	userRepo       repository.UserRepo
	listRepo       repository.ListRepo
	deckRepo       repository.DeckRepo
	sharedLinkRepo repository.SharedLinkRepo
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo repository.UserRepo,
	listRepo repository.ListRepo,
	deckRepo repository.DeckRepo,
	sharedLinkRepo repository.SharedLinkRepo,
) *AdminService {
	return &AdminService{
		userRepo:       userRepo,
		listRepo:       listRepo,
		deckRepo:       deckRepo,
		sharedLinkRepo: sharedLinkRepo,
	}
}

// GetStats returns instance-wide counts
func (s *AdminService) GetStats(ctx context.Context) (*models.AdminStatsResponse, error) {
	users, err := s.userRepo.GetCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	lists, err := s.listRepo.GetCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count lists: %w", err)
	}
	decks, err := s.deckRepo.GetCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count decks: %w", err)
	}
	links, err := s.sharedLinkRepo.CountActive(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to count share links: %w", err)
	}

	return &models.AdminStatsResponse{
		TotalUsers:  users,
		TotalLists:  lists,
		TotalDecks:  decks,
		ActiveLinks: links,
	}, nil
}
