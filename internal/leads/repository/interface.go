package repository

import (
	"context"
	"time"

	"estate_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// CreateParams holds the fields of a new lead.
type CreateParams struct {
	Name        string
	Email       string
	Phone       *string
	Message     string
	PropertyID  *uuid.UUID
	AgentID     *uuid.UUID
	Agent       domain.AgentSnapshot
	SubmitterID *uuid.UUID
	Source      domain.Source
	Priority    domain.Priority
	Status      domain.Status
}

// ListParams narrows a lead listing. Nil fields are not filtered.
type ListParams struct {
	AgentID     *uuid.UUID
	SubmitterID *uuid.UUID
	Vocabulary  *domain.Vocabulary
	Status      *string
	Priority    *domain.Priority
	Source      *domain.Source
}

// CreateNoteParams holds the fields of a new note.
type CreateNoteParams struct {
	LeadID    uuid.UUID
	AuthorID  uuid.UUID
	Body      string
	CreatedAt time.Time
}

// Repository defines lead storage operations.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	// List returns matching leads, newest first.
	List(ctx context.Context, params ListParams) ([]domain.Lead, error)
	// UpdateStatus is a single-row write; concurrent writers resolve
	// last-writer-wins.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Lead, error)
	UpdatePriority(ctx context.Context, id uuid.UUID, priority domain.Priority) (domain.Lead, error)

	CreateNote(ctx context.Context, params CreateNoteParams) (domain.Note, error)
	// ListNotes returns a lead's notes, oldest first.
	ListNotes(ctx context.Context, leadID uuid.UUID) ([]domain.Note, error)
}
