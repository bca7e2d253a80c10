package repository

import (
	"context"

	"estate_portal_backend/internal/catalog/domain"
	"estate_portal_backend/internal/catalog/matching"

	"github.com/google/uuid"
)

// CreateParams contains data for creating a listing.
type CreateParams struct {
	Title       string
	Description string
	Address     string
	City        string
	Price       int64
	Beds        int
	Baths       int
	Area        int
	Status      domain.Status
	Type        string
	Amenities   []string
	Features    []string
	Featured    bool
	AgentID     *uuid.UUID
}

// UpdateParams replaces the mutable fields of a listing.
type UpdateParams struct {
	ID uuid.UUID
	CreateParams
}

// Repository defines catalog storage operations.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (domain.Property, error)
	Update(ctx context.Context, params UpdateParams) (domain.Property, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Property, error)
	// ListAll returns the whole catalog newest first.
	ListAll(ctx context.Context) ([]domain.Property, error)
	// Search evaluates criteria inside the store. The result must equal
	// matching.MatchCriteria(ListAll(), criteria, key).
	Search(ctx context.Context, criteria matching.Criteria, key matching.SortKey) ([]domain.Property, error)
	// Range aggregates price and area bounds over the whole catalog.
	Range(ctx context.Context) (matching.Range, error)
}
