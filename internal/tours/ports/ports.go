// Package ports declares what the tours context needs from other contexts.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// PropertyAgentReader resolves the agent listing a property. agentID is nil
// when the property is unknown or has no agent.
type PropertyAgentReader interface {
	PropertyAgent(ctx context.Context, propertyID uuid.UUID) (agentID *uuid.UUID, err error)
}

// LeadReader checks that a referenced lead exists.
type LeadReader interface {
	LeadExists(ctx context.Context, leadID uuid.UUID) (bool, error)
}
