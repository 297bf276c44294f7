package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSetCode(t *testing.T) {
	t.Run("uppercases and trims", func(t *testing.T) {
		assert.Equal(t, "LOB-EN001", NormalizeSetCode("  lob-en001 "))
	})

	t.Run("leaves normalized codes unchanged", func(t *testing.T) {
		assert.Equal(t, "SDK-001", NormalizeSetCode("SDK-001"))
	})

	t.Run("empty stays empty", func(t *testing.T) {
		assert.Equal(t, "", NormalizeSetCode("   "))
	})
}

func TestIsValidListType(t *testing.T) {
	assert.True(t, IsValidListType("collection"))
	assert.True(t, IsValidListType("for-sale"))
	assert.True(t, IsValidListType("wishlist"))
	assert.False(t, IsValidListType("binder"))
	assert.False(t, IsValidListType(""))
	assert.False(t, IsValidListType("Collection"))
}

func TestCardEntry_Value(t *testing.T) {
	price := 12.5

	t.Run("multiplies price by quantity", func(t *testing.T) {
		e := CardEntry{Price: &price, Quantity: 3}
		assert.Equal(t, 37.5, e.Value())
	})

	t.Run("nil price contributes zero", func(t *testing.T) {
		e := CardEntry{Quantity: 4}
		assert.Equal(t, 0.0, e.Value())
	})

	t.Run("quantity floor of one", func(t *testing.T) {
		e := CardEntry{Price: &price, Quantity: 0}
		assert.Equal(t, 12.5, e.Value())
	})
}

func TestList_Totals(t *testing.T) {
	priceA := 2.0
	priceB := 10.0
	list := &List{
		UserID: "user-1",
		Type:   ListCollection,
		Cards: []CardEntry{
			{SetCode: "LOB-EN001", Quantity: 3, Price: &priceA},
			{SetCode: "MRD-EN060", Quantity: 1, Price: &priceB},
			{SetCode: "SDY-006", Quantity: 2}, // unpriced
		},
	}

	t.Run("total value skips unpriced entries", func(t *testing.T) {
		assert.Equal(t, 16.0, list.TotalValue())
	})

	t.Run("total quantity counts every copy", func(t *testing.T) {
		assert.Equal(t, 6, list.TotalQuantity())
	})

	t.Run("empty list totals zero", func(t *testing.T) {
		empty := &List{Cards: []CardEntry{}}
		assert.Equal(t, 0.0, empty.TotalValue())
		assert.Equal(t, 0, empty.TotalQuantity())
	})
}

func TestList_FindCard(t *testing.T) {
	list := &List{
		Cards: []CardEntry{
			{SetCode: "LOB-EN001", CardName: "Tri-Horned Dragon", AddedAt: time.Now()},
			{SetCode: "MRD-EN060", CardName: "Mirror Force", AddedAt: time.Now()},
		},
	}

	t.Run("finds existing entry", func(t *testing.T) {
		entry := list.FindCard("MRD-EN060")
		assert.NotNil(t, entry)
		assert.Equal(t, "Mirror Force", entry.CardName)
	})

	t.Run("returns nil for unknown set code", func(t *testing.T) {
		assert.Nil(t, list.FindCard("LOB-EN002"))
	})

	t.Run("returned pointer aliases the list", func(t *testing.T) {
		entry := list.FindCard("LOB-EN001")
		entry.Quantity = 9
		assert.Equal(t, 9, list.Cards[0].Quantity)
	})
}
