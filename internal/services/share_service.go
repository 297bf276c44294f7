package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Avzolem/yugioh-server/internal/models"
	"github.com/Avzolem/yugioh-server/internal/repository"
)

// ShareService mints and resolves read-only share links
type ShareService struct {
	sharedLinkRepo repository.SharedLinkRepo
	listRepo       repository.ListRepo
	shareBaseURL   string
}

// NewShareService creates a new ShareService
func NewShareService(sharedLinkRepo repository.SharedLinkRepo, listRepo repository.ListRepo, shareBaseURL string) *ShareService {
	return &ShareService{
		sharedLinkRepo: sharedLinkRepo,
		listRepo:       listRepo,
		shareBaseURL:   shareBaseURL,
	}
}

// CreateLink mints an unguessable token exposing one list read-only
// for a bounded window. Creation opportunistically sweeps expired
// links without blocking the request.
func (s *ShareService) CreateLink(ctx context.Context, userID string, listType models.ListType, expiresInDays int) (*models.SharedLink, error) {
	if !models.IsValidListType(string(listType)) {
		return nil, models.ErrInvalidListType
	}

	link, err := models.NewSharedLink(userID, listType, expiresInDays)
	if err != nil {
		return nil, fmt.Errorf("failed to generate share link: %w", err)
	}

	if err := s.sharedLinkRepo.Add(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to store share link: %w", err)
	}

	go s.cleanupExpired()

	return link, nil
}

// ShareURL renders the public URL for a token
func (s *ShareService) ShareURL(token string) string {
	return fmt.Sprintf("%s/shared/%s", s.shareBaseURL, token)
}

// ResolveLink exchanges a token for the live current state of the
// shared list. Expired tokens are deleted on sight and reported as
// expired, never as unknown.
func (s *ShareService) ResolveLink(ctx context.Context, token string) (*models.SharedListResponse, error) {
	link, err := s.sharedLinkRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up share link: %w", err)
	}
	if link == nil {
		return nil, models.ErrShareLinkNotFound
	}

	if link.IsExpired() {
		if _, err := s.sharedLinkRepo.Delete(ctx, token); err != nil {
			log.Printf("Failed to delete expired share link: %v", err)
		}
		return nil, models.ErrShareLinkExpired
	}

	list, err := s.listRepo.GetOrCreate(ctx, link.UserID, link.ListType)
	if err != nil {
		return nil, fmt.Errorf("failed to load shared list: %w", err)
	}

	return &models.SharedListResponse{
		ListType:   link.ListType,
		List:       list,
		TotalValue: list.TotalValue(),
		ExpiresAt:  link.ExpiresAt,
	}, nil
}

// RevokeLink deletes a share link before its expiry
func (s *ShareService) RevokeLink(ctx context.Context, userID, token string) error {
	link, err := s.sharedLinkRepo.GetByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to look up share link: %w", err)
	}
	if link == nil || link.UserID != userID {
		return models.ErrShareLinkNotFound
	}

	if _, err := s.sharedLinkRepo.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke share link: %w", err)
	}
	return nil
}

// DeleteUserLinks removes the user's share links (account deletion)
func (s *ShareService) DeleteUserLinks(ctx context.Context, userID string) error {
	if err := s.sharedLinkRepo.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user share links: %w", err)
	}
	return nil
}

// CleanupExpired deletes every link past its expiry. Idempotent and
// safe under concurrent callers.
func (s *ShareService) CleanupExpired(ctx context.Context) (int, error) {
	return s.sharedLinkRepo.DeleteExpired(ctx, time.Now().UTC())
}

func (s *ShareService) cleanupExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.CleanupExpired(ctx); err != nil {
		log.Printf("Share link cleanup failed: %v", err)
	}
}
