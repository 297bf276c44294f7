package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avzolem/yugioh-server/internal/models"
)

func entry(setCode, name string, qty int) models.CardEntry {
	return models.CardEntry{
		SetCode:   setCode,
		CardID:    46986414,
		CardName:  name,
		CardImage: "https://images.ygoprodeck.com/images/cards/46986414.jpg",
		SetName:   "Legend of Blue Eyes White Dragon",
		SetRarity: "Ultra Rare",
		Quantity:  qty,
	}
}

func TestListService_AddCard(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a new entry", func(t *testing.T) {
		svc := NewListService(newFakeListRepo())

		list, err := svc.AddCard(ctx, "user-1", models.ListCollection, entry("LOB-EN005", "Dark Magician", 2))

		require.NoError(t, err)
		require.Len(t, list.Cards, 1)
		assert.Equal(t, 2, list.Cards[0].Quantity)
	})

	t.Run("same set code accumulates quantity", func(t *testing.T) {
		svc := NewListService(newFakeListRepo())

		_, err := svc.AddCard(ctx, "user-1", models.ListCollection, entry("LOB-EN005", "Dark Magician", 2))
		require.NoError(t, err)
		list, err := svc.AddCard(ctx, "user-1", models.ListCollection, entry("LOB-EN005", "Dark Magician", 3))
		require.NoError(t, err)

		require.Len(t, list.Cards, 1)
		assert.Equal(t, 5, list.Cards[0].Quantity)
	})

	t.Run("set code is normalized before keying", func(t *testing.T) {
		svc := NewListService(newFakeListRepo())

		_, err := svc.AddCard(ctx, "user-1", models.ListCollection, entry("LOB-EN005", "Dark Magician", 1))
		require.NoError(t, err)
		list, err := svc.AddCard(ctx, "user-1", models.ListCollection, entry("  lob-en005 ", "Dark Magician", 1))
		require.NoError(t, err)

		require.Len(t, list.Cards, 1)
		assert.Equal(t, 2, list.Cards[0].Quantity)
	})

	t.Run("missing quantity defaults to one", func(t *testing.T) {
		svc := NewListService(newFakeListRepo())

		list, err := svc.AddCard(ctx, "user-1", models.ListWishlist, entry("MRD-EN060", "Mirror Force", 0))

		require.NoError(t, err)
		assert.Equal(t, 1, list.Cards[0].Quantity)
	})

	t.Run("rejects blank set code", func(t *testing.T) {
		svc := NewListService(newFakeListRepo())

		_, err := svc.AddCard(ctx, "user-1", models.ListCollection, entry("  ", "Dark Magician", 1))
		assert.ErrorIs(t, err, models.ErrSetCodeRequired)
	})

	t.Run("rejects blank card name", func(t *testing.T) {
		svc := NewListService(newFakeListRepo())

		_, err := svc.AddCard(ctx, "user-1", models.ListCollection, entry("LOB-EN005", "  ", 1))
		assert.ErrorIs(t, err, models.ErrCardNameRequired)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		svc := NewListService(newFakeListRepo())

		e := entry("LOB-EN005", "Dark Magician", 1)
		price := -2.0
		e.Price = &price

		_, err := svc.AddCard(ctx, "user-1", models.ListCollection, e)
		assert.ErrorIs(t, err, models.ErrNegativePrice)
	})

	t.Run("lists are isolated per user and type", func(t *testing.T) {
		repo := newFakeListRepo()
		svc := NewListService(repo)

		_, err := svc.AddCard(ctx, "user-1", models.ListCollection, entry("LOB-EN005", "Dark Magician", 1))
		require.NoError(t, err)
		_, err = svc.AddCard(ctx, "user-2", models.ListCollection, entry("LOB-EN005", "Dark Magician", 1))
		require.NoError(t, err)

		wishlist, err := svc.GetList(ctx, "user-1", models.ListWishlist)
		require.NoError(t, err)
		assert.Empty(t, wishlist.Cards)

		other, err := svc.GetList(ctx, "user-2", models.ListCollection)
		require.NoError(t, err)
		assert.Len(t, other.Cards, 1)
	})
}

func TestListService_RemoveCard(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the whole entry regardless of quantity", func(t *testing.T) {
		svc := NewListService(newFakeListRepo())
		_, err := svc.AddCard(ctx, "user-1", models.ListCollection, entry("LOB-EN005", "Dark Magician", 3))
		require.NoError(t, err)

		require.NoError(t, svc.RemoveCard(ctx, "user-1", models.ListCollection, "LOB-EN005"))

		list, err := svc.GetList(ctx, "user-1", models.ListCollection)
		require.NoError(t, err)
		assert.Empty(t, list.Cards)
	})

	t.Run("missing card reports not in list", func(t *testing.T) {
		svc := NewListService(newFakeListRepo())

		err := svc.RemoveCard(ctx, "user-1", models.ListCollection, "LOB-EN005")
		assert.ErrorIs(t, err, models.ErrCardNotInList)
	})
}

func TestListService_UpdateCard(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*ListService, models.CardEntry) {
		svc := NewListService(newFakeListRepo())
		e := entry("LOB-EN005", "Dark Magician", 2)
		_, err := svc.AddCard(ctx, "user-1", models.ListCollection, e)
		require.NoError(t, err)
		return svc, e
	}

	t.Run("sets quantity directly", func(t *testing.T) {
		svc, _ := setup(t)
		qty := 5

		err := svc.UpdateCard(ctx, "user-1", models.ListCollection, &models.UpdateCardRequest{SetCode: "LOB-EN005", Quantity: &qty})
		require.NoError(t, err)

		list, _ := svc.GetList(ctx, "user-1", models.ListCollection)
		assert.Equal(t, 5, list.Cards[0].Quantity)
	})

	t.Run("quantity zero removes the entry", func(t *testing.T) {
		svc, _ := setup(t)
		qty := 0

		err := svc.UpdateCard(ctx, "user-1", models.ListCollection, &models.UpdateCardRequest{SetCode: "LOB-EN005", Quantity: &qty})
		require.NoError(t, err)

		list, _ := svc.GetList(ctx, "user-1", models.ListCollection)
		assert.Empty(t, list.Cards)
	})

	t.Run("updates price and notes", func(t *testing.T) {
		svc, _ := setup(t)
		price := 25.0
		notes := "1st edition"

		err := svc.UpdateCard(ctx, "user-1", models.ListCollection, &models.UpdateCardRequest{SetCode: "LOB-EN005", Price: &price, Notes: &notes})
		require.NoError(t, err)

		list, _ := svc.GetList(ctx, "user-1", models.ListCollection)
		require.NotNil(t, list.Cards[0].Price)
		assert.Equal(t, 25.0, *list.Cards[0].Price)
		require.NotNil(t, list.Cards[0].Notes)
		assert.Equal(t, "1st edition", *list.Cards[0].Notes)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		svc, _ := setup(t)
		price := -1.0

		err := svc.UpdateCard(ctx, "user-1", models.ListCollection, &models.UpdateCardRequest{SetCode: "LOB-EN005", Price: &price})
		assert.ErrorIs(t, err, models.ErrNegativePrice)
	})

	t.Run("unknown card reports not in list", func(t *testing.T) {
		svc, _ := setup(t)
		qty := 3

		err := svc.UpdateCard(ctx, "user-1", models.ListCollection, &models.UpdateCardRequest{SetCode: "SDK-001", Quantity: &qty})
		assert.ErrorIs(t, err, models.ErrCardNotInList)
	})
}

func TestListService_ClearList(t *testing.T) {
	ctx := context.Background()
	svc := NewListService(newFakeListRepo())

	_, err := svc.AddCard(ctx, "user-1", models.ListCollection, entry("LOB-EN005", "Dark Magician", 2))
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, "user-1", models.ListCollection, entry("MRD-EN060", "Mirror Force", 1))
	require.NoError(t, err)

	require.NoError(t, svc.ClearList(ctx, "user-1", models.ListCollection))

	list, err := svc.GetList(ctx, "user-1", models.ListCollection)
	require.NoError(t, err)
	assert.Empty(t, list.Cards)
}

func TestListService_GetListValue(t *testing.T) {
	ctx := context.Background()
	svc := NewListService(newFakeListRepo())

	priced := entry("LOB-EN005", "Dark Magician", 2)
	price := 10.0
	priced.Price = &price
	_, err := svc.AddCard(ctx, "user-1", models.ListForSale, priced)
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, "user-1", models.ListForSale, entry("MRD-EN060", "Mirror Force", 4))
	require.NoError(t, err)

	value, err := svc.GetListValue(ctx, "user-1", models.ListForSale)

	require.NoError(t, err)
	assert.Equal(t, 20.0, value, "unpriced entries contribute nothing")
}

func TestListService_CacheImagePath(t *testing.T) {
	ctx := context.Background()
	svc := NewListService(newFakeListRepo())

	_, err := svc.AddCard(ctx, "user-1", models.ListCollection, entry("LOB-EN005", "Dark Magician", 1))
	require.NoError(t, err)

	t.Run("records the cached path", func(t *testing.T) {
		require.NoError(t, svc.CacheImagePath(ctx, "user-1", models.ListCollection, "lob-en005", "user-1/LOB-EN005.jpg"))

		list, _ := svc.GetList(ctx, "user-1", models.ListCollection)
		require.NotNil(t, list.Cards[0].LocalImagePath)
		assert.Equal(t, "user-1/LOB-EN005.jpg", *list.Cards[0].LocalImagePath)
	})

	t.Run("missing card reports not in list", func(t *testing.T) {
		err := svc.CacheImagePath(ctx, "user-1", models.ListCollection, "SDK-001", "user-1/SDK-001.jpg")
		assert.ErrorIs(t, err, models.ErrCardNotInList)
	})
}
