package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"estate_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lead does not exist.
var ErrNotFound = errors.New("lead not found")

const leadColumns = `id, name, email, phone, message, property_id, agent_id,
	agent_name, agent_email, agent_phone, submitter_id, source, priority,
	status_vocabulary, status, created_at, updated_at`

// Repo implements Repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create inserts a lead.
func (r *Repo) Create(ctx context.Context, params CreateParams) (domain.Lead, error) {
	query := `
		INSERT INTO leads (
			name, email, phone, message, property_id, agent_id,
			agent_name, agent_email, agent_phone, submitter_id, source, priority,
			status_vocabulary, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + leadColumns

	row := r.pool.QueryRow(ctx, query,
		params.Name, params.Email, params.Phone, params.Message, params.PropertyID, params.AgentID,
		params.Agent.Name, params.Agent.Email, params.Agent.Phone, params.SubmitterID,
		string(params.Source), string(params.Priority),
		string(params.Status.Vocabulary), params.Status.Value,
	)
	lead, err := scanLead(row)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

// GetByID loads a lead.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// List returns leads matching params.
func (r *Repo) List(ctx context.Context, params ListParams) ([]domain.Lead, error) {
	where, args := buildLeadListWhere(params)
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE %s ORDER BY created_at DESC, id ASC`, leadColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return leads, nil
}

// UpdateStatus overwrites the status of a lead.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Lead, error) {
	query := `
		UPDATE leads
		SET status_vocabulary = $2, status = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, string(status.Vocabulary), status.Value))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("update lead status: %w", err)
	}
	return lead, nil
}

// UpdatePriority overwrites the priority of a lead.
func (r *Repo) UpdatePriority(ctx context.Context, id uuid.UUID, priority domain.Priority) (domain.Lead, error) {
	query := `
		UPDATE leads
		SET priority = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, string(priority)))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("update lead priority: %w", err)
	}
	return lead, nil
}

// CreateNote appends a note.
func (r *Repo) CreateNote(ctx context.Context, params CreateNoteParams) (domain.Note, error) {
	var note domain.Note
	query := `
		INSERT INTO lead_notes (lead_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lead_id, author_id, body, created_at`

	err := r.pool.QueryRow(ctx, query, params.LeadID, params.AuthorID, params.Body, params.CreatedAt).Scan(
		&note.ID,
		&note.LeadID,
		&note.AuthorID,
		&note.Body,
		&note.CreatedAt,
	)
	if err != nil {
		return domain.Note{}, fmt.Errorf("create lead note: %w", err)
	}
	return note, nil
}

// ListNotes returns the notes on a lead.
func (r *Repo) ListNotes(ctx context.Context, leadID uuid.UUID) ([]domain.Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, author_id, body, created_at
		FROM lead_notes
		WHERE lead_id = $1
		ORDER BY created_at ASC, id ASC
	`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list lead notes: %w", err)
	}
	defer rows.Close()

	notes := make([]domain.Note, 0)
	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(&note.ID, &note.LeadID, &note.AuthorID, &note.Body, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return notes, nil
}

func buildLeadListWhere(params ListParams) (string, []interface{}) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	addEquals := func(column string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.AgentID != nil {
		addEquals("agent_id", *params.AgentID)
	}
	if params.SubmitterID != nil {
		addEquals("submitter_id", *params.SubmitterID)
	}
	if params.Vocabulary != nil {
		addEquals("status_vocabulary", string(*params.Vocabulary))
	}
	if params.Status != nil {
		addEquals("status", *params.Status)
	}
	if params.Priority != nil {
		addEquals("priority", string(*params.Priority))
	}
	if params.Source != nil {
		addEquals("source", string(*params.Source))
	}

	return strings.Join(whereClauses, " AND "), args
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var (
		lead       domain.Lead
		source     string
		priority   string
		vocabulary string
	)
	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Message,
		&lead.PropertyID,
		&lead.AgentID,
		&lead.Agent.Name,
		&lead.Agent.Email,
		&lead.Agent.Phone,
		&lead.SubmitterID,
		&source,
		&priority,
		&vocabulary,
		&lead.Status.Value,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	lead.Source = domain.Source(source)
	lead.Priority = domain.Priority(priority)
	lead.Status.Vocabulary = domain.Vocabulary(vocabulary)
	return lead, nil
}
