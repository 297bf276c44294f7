package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avzolem/yugioh-server/internal/models"
)

func TestShareService_CreateLink(t *testing.T) {
	ctx := context.Background()

	t.Run("mints a link with default expiry", func(t *testing.T) {
		svc := NewShareService(newFakeSharedLinkRepo(), newFakeListRepo(), "https://cards.example.com")

		link, err := svc.CreateLink(ctx, "user-1", models.ListCollection, 0)

		require.NoError(t, err)
		assert.Len(t, link.Token, 32)
		assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, models.DefaultShareExpiryDays), link.ExpiresAt, time.Minute)
	})

	t.Run("rejects an invalid list type", func(t *testing.T) {
		svc := NewShareService(newFakeSharedLinkRepo(), newFakeListRepo(), "https://cards.example.com")

		_, err := svc.CreateLink(ctx, "user-1", "binder", 7)
		assert.ErrorIs(t, err, models.ErrInvalidListType)
	})
}

func TestShareService_ShareURL(t *testing.T) {
	svc := NewShareService(newFakeSharedLinkRepo(), newFakeListRepo(), "https://cards.example.com")
	assert.Equal(t, "https://cards.example.com/shared/abc123", svc.ShareURL("abc123"))
}

func TestShareService_ResolveLink(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the live list state", func(t *testing.T) {
		linkRepo := newFakeSharedLinkRepo()
		listRepo := newFakeListRepo()
		svc := NewShareService(linkRepo, listRepo, "https://cards.example.com")
		require.NoError(t, listRepo.UpsertCard(ctx, "user-1", models.ListForSale, entry("LOB-EN005", "Dark Magician", 2)))

		link, err := svc.CreateLink(ctx, "user-1", models.ListForSale, 7)
		require.NoError(t, err)

		// Mutate after minting: the resolver serves current state,
		// not a snapshot.
		require.NoError(t, listRepo.UpsertCard(ctx, "user-1", models.ListForSale, entry("MRD-EN060", "Mirror Force", 1)))

		shared, err := svc.ResolveLink(ctx, link.Token)

		require.NoError(t, err)
		assert.Equal(t, models.ListForSale, shared.ListType)
		assert.Len(t, shared.List.Cards, 2)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc := NewShareService(newFakeSharedLinkRepo(), newFakeListRepo(), "https://cards.example.com")

		_, err := svc.ResolveLink(ctx, "deadbeefdeadbeefdeadbeefdeadbeef")
		assert.ErrorIs(t, err, models.ErrShareLinkNotFound)
	})

	t.Run("expired token is reported expired and deleted", func(t *testing.T) {
		linkRepo := newFakeSharedLinkRepo()
		svc := NewShareService(linkRepo, newFakeListRepo(), "https://cards.example.com")

		stale := &models.SharedLink{
			Token:     "deadbeefdeadbeefdeadbeefdeadbeef",
			ListType:  models.ListCollection,
			UserID:    "user-1",
			CreatedAt: time.Now().UTC().Add(-8 * 24 * time.Hour),
			ExpiresAt: time.Now().UTC().Add(-24 * time.Hour),
		}
		require.NoError(t, linkRepo.Add(ctx, stale))

		_, err := svc.ResolveLink(ctx, stale.Token)
		assert.ErrorIs(t, err, models.ErrShareLinkExpired)

		// The second resolve sees no record at all.
		_, err = svc.ResolveLink(ctx, stale.Token)
		assert.ErrorIs(t, err, models.ErrShareLinkNotFound)
	})
}

func TestShareService_RevokeLink(t *testing.T) {
	ctx := context.Background()
	svc := NewShareService(newFakeSharedLinkRepo(), newFakeListRepo(), "https://cards.example.com")

	link, err := svc.CreateLink(ctx, "user-1", models.ListCollection, 7)
	require.NoError(t, err)

	t.Run("only the owner can revoke", func(t *testing.T) {
		err := svc.RevokeLink(ctx, "user-2", link.Token)
		assert.ErrorIs(t, err, models.ErrShareLinkNotFound)
	})

	t.Run("revoked link stops resolving", func(t *testing.T) {
		require.NoError(t, svc.RevokeLink(ctx, "user-1", link.Token))

		_, err := svc.ResolveLink(ctx, link.Token)
		assert.ErrorIs(t, err, models.ErrShareLinkNotFound)
	})
}

func TestShareService_CleanupExpired(t *testing.T) {
	ctx := context.Background()
	linkRepo := newFakeSharedLinkRepo()
	svc := NewShareService(linkRepo, newFakeListRepo(), "https://cards.example.com")

	live, err := svc.CreateLink(ctx, "user-1", models.ListCollection, 7)
	require.NoError(t, err)
	require.NoError(t, linkRepo.Add(ctx, &models.SharedLink{
		Token:     "expiredexpiredexpiredexpired0000",
		ListType:  models.ListCollection,
		UserID:    "user-1",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}))

	removed, err := svc.CleanupExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = svc.ResolveLink(ctx, live.Token)
	assert.NoError(t, err, "live links survive the sweep")
}
