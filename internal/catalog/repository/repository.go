package repository

import (
	"context"
	"errors"
	"fmt"

	"estate_portal_backend/internal/catalog/domain"
	"estate_portal_backend/internal/catalog/matching"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a property does not exist.
var ErrNotFound = errors.New("property not found")

const propertyColumns = `id, title, description, address, city, price, beds, baths, area,
	status, type, amenities, features, featured, agent_id, created_at, updated_at`

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a listing.
func (r *Repo) Create(ctx context.Context, params CreateParams) (domain.Property, error) {
	query := `
		INSERT INTO properties (
			title, description, address, city, price, beds, baths, area,
			status, type, amenities, features, featured, agent_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + propertyColumns

	row := r.pool.QueryRow(ctx, query,
		params.Title, params.Description, params.Address, params.City, params.Price,
		params.Beds, params.Baths, params.Area, string(params.Status), params.Type,
		nonNil(params.Amenities), nonNil(params.Features), params.Featured, params.AgentID,
	)
	property, err := scanProperty(row)
	if err != nil {
		return domain.Property{}, fmt.Errorf("create property: %w", err)
	}
	return property, nil
}

// Update replaces the mutable fields of a listing.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (domain.Property, error) {
	query := `
		UPDATE properties
		SET title = $2, description = $3, address = $4, city = $5, price = $6,
			beds = $7, baths = $8, area = $9, status = $10, type = $11,
			amenities = $12, features = $13, featured = $14, agent_id = $15,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + propertyColumns

	row := r.pool.QueryRow(ctx, query, params.ID,
		params.Title, params.Description, params.Address, params.City, params.Price,
		params.Beds, params.Baths, params.Area, string(params.Status), params.Type,
		nonNil(params.Amenities), nonNil(params.Features), params.Featured, params.AgentID,
	)
	property, err := scanProperty(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Property{}, ErrNotFound
	}
	if err != nil {
		return domain.Property{}, fmt.Errorf("update property: %w", err)
	}
	return property, nil
}

// Delete removes a listing. Leads and tours keep their reference.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a listing.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	property, err := scanProperty(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Property{}, ErrNotFound
	}
	if err != nil {
		return domain.Property{}, fmt.Errorf("get property by id: %w", err)
	}
	return property, nil
}

// GetByIDs retrieves the listings that still exist among ids, newest first.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Property, error) {
	if len(ids) == 0 {
		return []domain.Property{}, nil
	}
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = ANY($1) ORDER BY ` + orderClause(matching.SortDefault)
	return r.queryProperties(ctx, "get properties by ids", query, ids)
}

// ListAll returns the whole catalog in default order.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY ` + orderClause(matching.SortDefault)
	return r.queryProperties(ctx, "list properties", query)
}

// Search pushes criteria down into SQL.
func (r *Repo) Search(ctx context.Context, criteria matching.Criteria, key matching.SortKey) ([]domain.Property, error) {
	where, args := buildPropertySearchWhere(criteria)
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE %s ORDER BY %s`, propertyColumns, where, orderClause(key))
	return r.queryProperties(ctx, "search properties", query, args...)
}

// Range returns the catalog-wide price and area bounds, zeros when empty.
func (r *Repo) Range(ctx context.Context) (matching.Range, error) {
	query := `
		SELECT COALESCE(MIN(price), 0), COALESCE(MAX(price), 0),
			COALESCE(MIN(area), 0), COALESCE(MAX(area), 0)
		FROM properties`

	var rng matching.Range
	if err := r.pool.QueryRow(ctx, query).Scan(&rng.MinPrice, &rng.MaxPrice, &rng.MinArea, &rng.MaxArea); err != nil {
		return matching.Range{}, fmt.Errorf("property range: %w", err)
	}
	return rng, nil
}

func (r *Repo) queryProperties(ctx context.Context, op, query string, args ...interface{}) ([]domain.Property, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]domain.Property, 0)
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		items = append(items, property)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate properties: %w", rows.Err())
	}
	return items, nil
}

func scanProperty(row pgx.Row) (domain.Property, error) {
	var p domain.Property
	var status string
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Address, &p.City, &p.Price, &p.Beds, &p.Baths, &p.Area,
		&status, &p.Type, &p.Amenities, &p.Features, &p.Featured, &p.AgentID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Property{}, err
	}
	p.Status = domain.Status(status)
	return p, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
