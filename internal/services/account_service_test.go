package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avzolem/yugioh-server/internal/models"
)

func accountFixture(t *testing.T) (*AccountService, *fakeUserRepo, *fakeSessionRepo, *fakeListRepo, *fakeDeckRepo, *fakeSharedLinkRepo) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	lists := newFakeListRepo()
	decks := newFakeDeckRepo()
	links := newFakeSharedLinkRepo()

	listSvc := NewListService(lists)
	deckSvc := NewDeckService(decks)
	shareSvc := NewShareService(links, lists, "https://cards.example.com")

	return NewAccountService(users, sessions, listSvc, deckSvc, shareSvc), users, sessions, lists, decks, links
}

func TestAccountService_GetStats(t *testing.T) {
	ctx := context.Background()
	svc, _, _, lists, _, _ := accountFixture(t)

	priced := entry("LOB-EN005", "Dark Magician", 2)
	price := 10.0
	priced.Price = &price
	require.NoError(t, lists.UpsertCard(ctx, "user-1", models.ListCollection, priced))
	require.NoError(t, lists.UpsertCard(ctx, "user-1", models.ListCollection, entry("MRD-EN060", "Mirror Force", 3)))
	require.NoError(t, lists.UpsertCard(ctx, "user-1", models.ListForSale, priced))
	require.NoError(t, lists.UpsertCard(ctx, "user-1", models.ListWishlist, entry("SDK-001", "Blue-Eyes White Dragon", 1)))

	stats, err := svc.GetStats(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalCards)
	assert.Equal(t, 20.0, stats.CollectionValue)
	assert.Equal(t, 20.0, stats.ForSaleValue)
	assert.Equal(t, 1, stats.WishlistCount)
}

func TestAccountService_DeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the user and everything they own", func(t *testing.T) {
		svc, users, sessions, lists, decks, links := accountFixture(t)

		user, err := models.NewUser("yugi@example.com", "Yugi", "millennium1")
		require.NoError(t, err)
		require.NoError(t, users.Add(ctx, user))
		require.NoError(t, sessions.Add(ctx, models.NewWebSession(user.ID, "", "", 24)))
		require.NoError(t, lists.UpsertCard(ctx, user.ID, models.ListCollection, entry("LOB-EN005", "Dark Magician", 1)))
		deck, err := models.NewDeck(user.ID, "Spellcasters", nil)
		require.NoError(t, err)
		require.NoError(t, decks.Add(ctx, deck))
		require.NoError(t, links.Add(ctx, &models.SharedLink{
			Token: "tok", UserID: user.ID, ListType: models.ListCollection,
			ExpiresAt: time.Now().UTC().Add(time.Hour),
		}))

		require.NoError(t, svc.DeleteAccount(ctx, user.ID))

		gone, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)
		assert.Empty(t, sessions.sessions)
		assert.Empty(t, lists.lists)
		assert.Empty(t, decks.decks)
		assert.Empty(t, links.links)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _, _, _, _ := accountFixture(t)

		err := svc.DeleteAccount(ctx, "no-such-user")
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}
