// Package ports declares what the leads context needs from other contexts.
package ports

import (
	"context"

	"estate_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Property is the slice of a listing a lead needs at intake.
type Property struct {
	ID      uuid.UUID
	Title   string
	AgentID *uuid.UUID
}

// PropertyReader resolves listings. found is false for unknown IDs.
type PropertyReader interface {
	Property(ctx context.Context, id uuid.UUID) (property Property, found bool, err error)
}

// AgentDirectory resolves an agent's current contact card.
type AgentDirectory interface {
	AgentSnapshot(ctx context.Context, agentID uuid.UUID) (snapshot domain.AgentSnapshot, found bool, err error)
}
