// Package ports defines what the favorite ledger needs from the catalog.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// Property is the listing card shown next to a saved entry.
type Property struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Address string    `json:"address"`
	City    string    `json:"city"`
	Price   int64     `json:"price"`
	Status  string    `json:"status"`
	Type    string    `json:"type"`
}

// PropertyCatalog resolves listings for the ledger.
type PropertyCatalog interface {
	// Exists reports whether the listing is in the catalog.
	Exists(ctx context.Context, propertyID uuid.UUID) (bool, error)
	// Cards returns the listings that still exist among ids, keyed by ID.
	Cards(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Property, error)
}
