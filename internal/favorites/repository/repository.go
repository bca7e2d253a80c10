package repository

import (
	"context"
	"fmt"

	"estate_portal_backend/internal/favorites/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines favorite storage operations. Add and Remove report
// whether a row actually changed.
type Repository interface {
	Add(ctx context.Context, ownerID, propertyID uuid.UUID) (bool, error)
	Remove(ctx context.Context, ownerID, propertyID uuid.UUID) (bool, error)
	// List returns the owner's entries for properties that still exist,
	// most recently saved first.
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Entry, error)
}

// Repo implements Repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new favorites repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Add inserts the entry unless it already exists.
func (r *Repo) Add(ctx context.Context, ownerID, propertyID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO favorites (owner_id, property_id)
		VALUES ($1, $2)
		ON CONFLICT (owner_id, property_id) DO NOTHING`

	result, err := r.pool.Exec(ctx, query, ownerID, propertyID)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// Remove deletes the entry if present.
func (r *Repo) Remove(ctx context.Context, ownerID, propertyID uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE owner_id = $1 AND property_id = $2`, ownerID, propertyID)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// List joins against properties so entries for deleted listings drop out.
func (r *Repo) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Entry, error) {
	query := `
		SELECT f.owner_id, f.property_id, f.created_at
		FROM favorites f
		JOIN properties p ON p.id = f.property_id
		WHERE f.owner_id = $1
		ORDER BY f.created_at DESC, f.property_id ASC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.Entry, 0)
	for rows.Next() {
		var entry domain.Entry
		if err := rows.Scan(&entry.OwnerID, &entry.PropertyID, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		entries = append(entries, entry)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate favorites: %w", rows.Err())
	}
	return entries, nil
}
