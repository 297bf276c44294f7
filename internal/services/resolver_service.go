package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/Avzolem/yugioh-server/internal/catalog"
	"github.com/Avzolem/yugioh-server/internal/models"
)

// CatalogClient is the slice of the catalog API the resolver needs
type CatalogClient interface {
	LookupSetCode(ctx context.Context, setCode string) (*catalog.SetInfo, error)
}

// Non-English language markers the catalog indexes under EN. AS/A/EU
// regional prints keep their marker and are left alone.
var setCodeLanguagePattern = regexp.MustCompile(`^([A-Z0-9]+)-(SP|FR|IT|PT|DE|AE|KR|JP)(\d.*)$`)

// ResolverService resolves set codes against the external catalog
type ResolverService struct {
	catalog CatalogClient
}

// NewResolverService creates a new ResolverService
func NewResolverService(catalog CatalogClient) *ResolverService {
	return &ResolverService{catalog: catalog}
}

// ResolveSetCode normalizes the code and asks the catalog for the
// card printed under it. Unresolved codes carrying a non-English
// language marker get exactly one retry with the marker swapped for
// EN; the response says when that fallback supplied the answer.
func (s *ResolverService) ResolveSetCode(ctx context.Context, code string) (*models.ResolveResponse, error) {
	normalized := models.NormalizeSetCode(code)
	if normalized == "" {
		return nil, models.ErrSetCodeRequired
	}

	info, err := s.catalog.LookupSetCode(ctx, normalized)
	if err == nil {
		return resolveResponse(info, false, "", ""), nil
	}

	var notFound *catalog.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, fmt.Errorf("catalog lookup failed: %w", err)
	}

	fallback := englishFallbackCode(normalized)
	if fallback == "" {
		return nil, &catalog.NotFoundError{SetCode: normalized}
	}

	info, err = s.catalog.LookupSetCode(ctx, fallback)
	if err != nil {
		if errors.As(err, &notFound) {
			return nil, &catalog.NotFoundError{SetCode: normalized}
		}
		return nil, fmt.Errorf("catalog fallback lookup failed: %w", err)
	}

	return resolveResponse(info, true, normalized, fallback), nil
}

// englishFallbackCode rewrites a known language marker to EN, or
// returns "" when the code has no recognized marker
func englishFallbackCode(code string) string {
	m := setCodeLanguagePattern.FindStringSubmatch(code)
	if m == nil {
		return ""
	}
	return m[1] + "-EN" + m[3]
}

func resolveResponse(info *catalog.SetInfo, usedFallback bool, originalCode, fallbackCode string) *models.ResolveResponse {
	return &models.ResolveResponse{
		CardName:     info.Name,
		SetCode:      info.SetCode,
		SetName:      info.SetName,
		SetRarity:    info.SetRarity,
		SetPrice:     info.SetPrice,
		UsedFallback: usedFallback,
		OriginalCode: originalCode,
		FallbackCode: fallbackCode,
	}
}
