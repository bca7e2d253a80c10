// Package ports defines what the catalog context needs from other contexts.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// FavoriteSet answers membership for one owner's saved properties.
type FavoriteSet interface {
	Contains(propertyID uuid.UUID) bool
}

// FavoriteReader loads the caller's saved properties so search results can
// flag them. The favorites context provides the implementation.
type FavoriteReader interface {
	FavoriteSetFor(ctx context.Context, ownerID uuid.UUID) (FavoriteSet, error)
}
