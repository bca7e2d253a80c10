package adapters

import (
	"context"
	"fmt"

	catalogports "estate_portal_backend/internal/catalog/ports"
	"estate_portal_backend/internal/catalog/transport"
	favoritedomain "estate_portal_backend/internal/favorites/domain"
	favoriteports "estate_portal_backend/internal/favorites/ports"
	"estate_portal_backend/platform/apperr"

	"github.com/google/uuid"
)

// PropertyCardSource is the catalog surface the favorite ledger reads.
// *catalogservice.Service satisfies it.
type PropertyCardSource interface {
	PropertySummarizer
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]transport.PropertyResponse, error)
}

// FavoritesCatalog adapts the catalog service to the favorites
// PropertyCatalog port.
type FavoritesCatalog struct {
	catalog PropertyCardSource
}

// NewFavoritesCatalog creates a new adapter wrapping the catalog service.
func NewFavoritesCatalog(catalog PropertyCardSource) *FavoritesCatalog {
	return &FavoritesCatalog{catalog: catalog}
}

// Exists reports whether the listing is in the catalog.
func (a *FavoritesCatalog) Exists(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	_, err := a.catalog.PropertySummary(ctx, propertyID)
	if apperr.Is(err, apperr.KindNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("favorites adapter: property summary: %w", err)
	}
	return true, nil
}

// Cards returns the listing cards for ids. Deleted listings are omitted.
func (a *FavoritesCatalog) Cards(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]favoriteports.Property, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]favoriteports.Property{}, nil
	}
	properties, err := a.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("favorites adapter: get properties: %w", err)
	}

	cards := make(map[uuid.UUID]favoriteports.Property, len(properties))
	for _, p := range properties {
		cards[p.ID] = favoriteports.Property{
			ID:      p.ID,
			Title:   p.Title,
			Address: p.Address,
			City:    p.City,
			Price:   p.Price,
			Status:  p.Status,
			Type:    p.Type,
		}
	}
	return cards, nil
}

// FavoriteSetSource is the favorites surface the catalog reads.
// *favoriteservice.Service satisfies it.
type FavoriteSetSource interface {
	SetFor(ctx context.Context, ownerID uuid.UUID) (favoritedomain.Set, error)
}

// FavoriteSetReader adapts the favorite ledger so search results can flag
// saved listings.
type FavoriteSetReader struct {
	favorites FavoriteSetSource
}

// NewFavoriteSetReader creates a new adapter wrapping the favorites service.
func NewFavoriteSetReader(favorites FavoriteSetSource) *FavoriteSetReader {
	return &FavoriteSetReader{favorites: favorites}
}

// FavoriteSetFor returns the owner's membership set.
func (a *FavoriteSetReader) FavoriteSetFor(ctx context.Context, ownerID uuid.UUID) (catalogports.FavoriteSet, error) {
	set, err := a.favorites.SetFor(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("favorites adapter: set for owner: %w", err)
	}
	return set, nil
}

// Compile-time checks for the favorites bridge
var (
	_ favoriteports.PropertyCatalog = (*FavoritesCatalog)(nil)
	_ catalogports.FavoriteReader   = (*FavoriteSetReader)(nil)
)
