package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avzolem/yugioh-server/internal/catalog"
	"github.com/Avzolem/yugioh-server/internal/models"
)

// fakeCatalog serves lookups from a fixed map and records the codes
// it was asked about.
type fakeCatalog struct {
	cards   map[string]*catalog.SetInfo
	lookups []string
}

func (f *fakeCatalog) LookupSetCode(ctx context.Context, setCode string) (*catalog.SetInfo, error) {
	f.lookups = append(f.lookups, setCode)
	if info, ok := f.cards[setCode]; ok {
		return info, nil
	}
	return nil, &catalog.NotFoundError{SetCode: setCode}
}

func TestResolverService_ResolveSetCode(t *testing.T) {
	ctx := context.Background()

	darkMagician := &catalog.SetInfo{
		Name:      "Dark Magician",
		SetCode:   "LOB-EN005",
		SetName:   "Legend of Blue Eyes White Dragon",
		SetRarity: "Ultra Rare",
		SetPrice:  "24.99",
	}

	t.Run("verbatim hit", func(t *testing.T) {
		cat := &fakeCatalog{cards: map[string]*catalog.SetInfo{"LOB-EN005": darkMagician}}
		svc := NewResolverService(cat)

		resp, err := svc.ResolveSetCode(ctx, "LOB-EN005")

		require.NoError(t, err)
		assert.Equal(t, "Dark Magician", resp.CardName)
		assert.False(t, resp.UsedFallback)
		assert.Empty(t, resp.OriginalCode)
		assert.Equal(t, []string{"LOB-EN005"}, cat.lookups)
	})

	t.Run("input is normalized first", func(t *testing.T) {
		cat := &fakeCatalog{cards: map[string]*catalog.SetInfo{"LOB-EN005": darkMagician}}
		svc := NewResolverService(cat)

		resp, err := svc.ResolveSetCode(ctx, "  lob-en005 ")

		require.NoError(t, err)
		assert.False(t, resp.UsedFallback)
	})

	t.Run("language marker falls back to EN", func(t *testing.T) {
		cat := &fakeCatalog{cards: map[string]*catalog.SetInfo{"LOB-EN005": darkMagician}}
		svc := NewResolverService(cat)

		resp, err := svc.ResolveSetCode(ctx, "LOB-SP005")

		require.NoError(t, err)
		assert.True(t, resp.UsedFallback)
		assert.Equal(t, "LOB-SP005", resp.OriginalCode)
		assert.Equal(t, "LOB-EN005", resp.FallbackCode)
		assert.Equal(t, []string{"LOB-SP005", "LOB-EN005"}, cat.lookups)
	})

	t.Run("all language markers are rewritten", func(t *testing.T) {
		for _, marker := range []string{"SP", "FR", "IT", "PT", "DE", "AE", "KR", "JP"} {
			cat := &fakeCatalog{cards: map[string]*catalog.SetInfo{"LOB-EN005": darkMagician}}
			svc := NewResolverService(cat)

			resp, err := svc.ResolveSetCode(ctx, "LOB-"+marker+"005")

			require.NoError(t, err, "marker %s", marker)
			assert.True(t, resp.UsedFallback, "marker %s", marker)
		}
	})

	t.Run("EN miss gets no retry", func(t *testing.T) {
		cat := &fakeCatalog{cards: map[string]*catalog.SetInfo{}}
		svc := NewResolverService(cat)

		_, err := svc.ResolveSetCode(ctx, "LOB-EN999")

		var notFound *catalog.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Len(t, cat.lookups, 1)
	})

	t.Run("code without a marker gets no retry", func(t *testing.T) {
		cat := &fakeCatalog{cards: map[string]*catalog.SetInfo{}}
		svc := NewResolverService(cat)

		_, err := svc.ResolveSetCode(ctx, "SDK-001")

		var notFound *catalog.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Len(t, cat.lookups, 1)
	})

	t.Run("fallback miss reports the original code", func(t *testing.T) {
		cat := &fakeCatalog{cards: map[string]*catalog.SetInfo{}}
		svc := NewResolverService(cat)

		_, err := svc.ResolveSetCode(ctx, "LOB-JP999")

		var notFound *catalog.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "LOB-JP999", notFound.SetCode)
		assert.Equal(t, []string{"LOB-JP999", "LOB-EN999"}, cat.lookups)
	})

	t.Run("empty code is rejected before any lookup", func(t *testing.T) {
		cat := &fakeCatalog{cards: map[string]*catalog.SetInfo{}}
		svc := NewResolverService(cat)

		_, err := svc.ResolveSetCode(ctx, "   ")

		assert.ErrorIs(t, err, models.ErrSetCodeRequired)
		assert.Empty(t, cat.lookups)
	})
}

func TestEnglishFallbackCode(t *testing.T) {
	cases := map[string]string{
		"LOB-SP001":  "LOB-EN001",
		"MRD-FR060":  "MRD-EN060",
		"SDJ-IT020":  "SDJ-EN020",
		"LOB-JP001":  "LOB-EN001",
		"LOB-EN001":  "", // already English
		"SDK-001":    "", // no marker at all
		"LOB-AS001":  "", // regional print, kept verbatim
		"TLM-EN035A": "",
	}
	for code, want := range cases {
		assert.Equal(t, want, englishFallbackCode(code), "code %s", code)
	}
}
