// Package adapters contains adapters that bridge different bounded contexts.
// These adapters implement interfaces defined by consuming domains while
// wrapping services from providing domains.
package adapters

import (
	"context"
	"fmt"

	catalogservice "estate_portal_backend/internal/catalog/service"
	leadports "estate_portal_backend/internal/leads/ports"
	tourports "estate_portal_backend/internal/tours/ports"
	"estate_portal_backend/platform/apperr"

	"github.com/google/uuid"
)

// PropertySummarizer is the catalog lookup shared by the lead and tour
// adapters. *catalogservice.Service satisfies it.
type PropertySummarizer interface {
	PropertySummary(ctx context.Context, id uuid.UUID) (catalogservice.Summary, error)
}

// CatalogPropertyReader adapts the catalog service for the leads and tours
// domains. Unknown listings are reported as absent rather than as errors.
type CatalogPropertyReader struct {
	catalog PropertySummarizer
}

// NewCatalogPropertyReader creates a new catalog reader adapter.
func NewCatalogPropertyReader(catalog PropertySummarizer) *CatalogPropertyReader {
	return &CatalogPropertyReader{catalog: catalog}
}

// Property resolves a listing for lead intake.
func (a *CatalogPropertyReader) Property(ctx context.Context, id uuid.UUID) (leadports.Property, bool, error) {
	summary, found, err := a.summary(ctx, id)
	if err != nil || !found {
		return leadports.Property{}, false, err
	}
	return leadports.Property{ID: summary.ID, Title: summary.Title, AgentID: summary.AgentID}, true, nil
}

// PropertyAgent returns the agent listing a property, nil when the listing
// is unknown or unassigned.
func (a *CatalogPropertyReader) PropertyAgent(ctx context.Context, propertyID uuid.UUID) (*uuid.UUID, error) {
	summary, found, err := a.summary(ctx, propertyID)
	if err != nil || !found {
		return nil, err
	}
	return summary.AgentID, nil
}

func (a *CatalogPropertyReader) summary(ctx context.Context, id uuid.UUID) (catalogservice.Summary, bool, error) {
	summary, err := a.catalog.PropertySummary(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		return catalogservice.Summary{}, false, nil
	}
	if err != nil {
		return catalogservice.Summary{}, false, fmt.Errorf("catalog adapter: property summary: %w", err)
	}
	return summary, true, nil
}

// Compile-time checks that CatalogPropertyReader implements both ports
var (
	_ leadports.PropertyReader      = (*CatalogPropertyReader)(nil)
	_ tourports.PropertyAgentReader = (*CatalogPropertyReader)(nil)
)
