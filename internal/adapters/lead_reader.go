package adapters

import (
	"context"
	"fmt"

	"estate_portal_backend/internal/tours/ports"

	"github.com/google/uuid"
)

// LeadLookup is the leads surface the tours context reads.
// *leadservice.Service satisfies it.
type LeadLookup interface {
	LeadExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ToursLeadReader adapts the leads service for the tours domain.
type ToursLeadReader struct {
	leads LeadLookup
}

// NewToursLeadReader creates a new adapter wrapping the leads service.
func NewToursLeadReader(leads LeadLookup) *ToursLeadReader {
	return &ToursLeadReader{leads: leads}
}

// LeadExists reports whether the referenced lead exists.
func (a *ToursLeadReader) LeadExists(ctx context.Context, leadID uuid.UUID) (bool, error) {
	exists, err := a.leads.LeadExists(ctx, leadID)
	if err != nil {
		return false, fmt.Errorf("leads adapter: lead exists: %w", err)
	}
	return exists, nil
}

// Compile-time check that ToursLeadReader implements ports.LeadReader
var _ ports.LeadReader = (*ToursLeadReader)(nil)
