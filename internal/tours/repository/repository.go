package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"estate_portal_backend/internal/tours/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when a tour does not exist.
	ErrNotFound = errors.New("tour not found")
	// ErrNotScheduled is returned by UpdateStatus when the tour left the
	// scheduled state before the write landed.
	ErrNotScheduled = errors.New("tour is no longer scheduled")
)

const tourColumns = `id, property_id, client_id, agent_id, lead_id, scheduled_date,
	scheduled_time, status, notes, created_at, updated_at`

// CreateParams holds the fields of a new tour.
type CreateParams struct {
	PropertyID    uuid.UUID
	ClientID      uuid.UUID
	AgentID       *uuid.UUID
	LeadID        *uuid.UUID
	ScheduledDate time.Time
	ScheduledTime string
	Notes         string
}

// ListParams narrows a tour listing. Nil fields are not filtered.
type ListParams struct {
	AgentID  *uuid.UUID
	ClientID *uuid.UUID
	Status   *domain.Status
	// From keeps tours dated on or after this day.
	From *time.Time
	// Limit of 0 means no limit.
	Limit int
}

// Repository defines tour storage operations.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (domain.Tour, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error)
	// List orders by scheduled date and time, earliest first.
	List(ctx context.Context, params ListParams) ([]domain.Tour, error)
	// UpdateStatus moves a scheduled tour to status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Tour, error)
}

// Repo implements Repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tours repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create inserts a scheduled tour.
func (r *Repo) Create(ctx context.Context, params CreateParams) (domain.Tour, error) {
	query := `
		INSERT INTO tours (
			property_id, client_id, agent_id, lead_id, scheduled_date, scheduled_time, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + tourColumns

	tour, err := scanTour(r.pool.QueryRow(ctx, query,
		params.PropertyID, params.ClientID, params.AgentID, params.LeadID,
		params.ScheduledDate, params.ScheduledTime, string(domain.StatusScheduled), params.Notes,
	))
	if err != nil {
		return domain.Tour{}, fmt.Errorf("create tour: %w", err)
	}
	return tour, nil
}

// GetByID loads a tour.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error) {
	tour, err := scanTour(r.pool.QueryRow(ctx, `SELECT `+tourColumns+` FROM tours WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Tour{}, ErrNotFound
	}
	if err != nil {
		return domain.Tour{}, fmt.Errorf("get tour: %w", err)
	}
	return tour, nil
}

// List returns tours matching params.
func (r *Repo) List(ctx context.Context, params ListParams) ([]domain.Tour, error) {
	where, args := buildTourListWhere(params)
	query := fmt.Sprintf(`SELECT %s FROM tours WHERE %s ORDER BY scheduled_date ASC, scheduled_time ASC, id ASC`, tourColumns, where)
	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", params.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	defer rows.Close()

	tours := make([]domain.Tour, 0)
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tour: %w", err)
		}
		tours = append(tours, tour)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return tours, nil
}

// UpdateStatus only writes while the row is still scheduled, so two
// concurrent terminal writes cannot both succeed.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Tour, error) {
	query := `
		UPDATE tours
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3
		RETURNING ` + tourColumns

	tour, err := scanTour(r.pool.QueryRow(ctx, query, id, string(status), string(domain.StatusScheduled)))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Tour{}, ErrNotScheduled
	}
	if err != nil {
		return domain.Tour{}, fmt.Errorf("update tour status: %w", err)
	}
	return tour, nil
}

func buildTourListWhere(params ListParams) (string, []interface{}) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	addClause := func(format string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf(format, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.AgentID != nil {
		addClause("agent_id = $%d", *params.AgentID)
	}
	if params.ClientID != nil {
		addClause("client_id = $%d", *params.ClientID)
	}
	if params.Status != nil {
		addClause("status = $%d", string(*params.Status))
	}
	if params.From != nil {
		addClause("scheduled_date >= $%d", *params.From)
	}

	return strings.Join(whereClauses, " AND "), args
}

func scanTour(row pgx.Row) (domain.Tour, error) {
	var (
		tour   domain.Tour
		status string
	)
	err := row.Scan(
		&tour.ID,
		&tour.PropertyID,
		&tour.ClientID,
		&tour.AgentID,
		&tour.LeadID,
		&tour.ScheduledDate,
		&tour.ScheduledTime,
		&status,
		&tour.Notes,
		&tour.CreatedAt,
		&tour.UpdatedAt,
	)
	if err != nil {
		return domain.Tour{}, err
	}
	tour.Status = domain.Status(status)
	return tour, nil
}
