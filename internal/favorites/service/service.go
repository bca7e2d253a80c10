// Package service implements the favorite ledger: a per-owner set of saved
// properties where repeated adds and removes are successful no-ops.
package service

import (
	"context"

	"estate_portal_backend/internal/events"
	"estate_portal_backend/internal/favorites/domain"
	"estate_portal_backend/internal/favorites/ports"
	"estate_portal_backend/internal/favorites/repository"
	"estate_portal_backend/internal/favorites/transport"
	"estate_portal_backend/internal/shared/caller"
	"estate_portal_backend/platform/apperr"
	"estate_portal_backend/platform/logger"

	"github.com/google/uuid"
)

const msgSignIn = "sign in to save favorites"

// SetCache mirrors owner sets for fast membership checks.
type SetCache interface {
	Load(ctx context.Context, ownerID uuid.UUID) (domain.Set, bool, error)
	Store(ctx context.Context, ownerID uuid.UUID, set domain.Set) error
	Add(ctx context.Context, ownerID, propertyID uuid.UUID) error
	Remove(ctx context.Context, ownerID, propertyID uuid.UUID) error
	Forget(ctx context.Context, ownerID uuid.UUID) error
}

// Service provides the favorite ledger operations.
type Service struct {
	repo    repository.Repository
	cache   SetCache
	catalog ports.PropertyCatalog
	bus     events.Bus
	log     *logger.Logger
}

// New creates the ledger service. cache and bus may be nil.
func New(repo repository.Repository, cache SetCache, catalog ports.PropertyCatalog, bus events.Bus, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, cache: cache, catalog: catalog, bus: bus, log: log}
}

// SetCatalog wires the catalog once it is constructed.
func (s *Service) SetCatalog(catalog ports.PropertyCatalog) {
	s.catalog = catalog
}

// Add saves propertyID for the caller. Saving twice reports Added=false.
func (s *Service) Add(ctx context.Context, who caller.Caller, propertyID uuid.UUID) (transport.AddResponse, error) {
	if !who.IsAuthenticated() {
		return transport.AddResponse{}, apperr.Unauthenticated(msgSignIn)
	}
	if s.catalog != nil {
		exists, err := s.catalog.Exists(ctx, propertyID)
		if err != nil {
			return transport.AddResponse{}, err
		}
		if !exists {
			return transport.AddResponse{}, apperr.NotFound("property not found")
		}
	}

	added, err := s.repo.Add(ctx, who.ID, propertyID)
	if err != nil {
		return transport.AddResponse{}, err
	}
	// A duplicate still refreshes the cache, which may have been filled
	// from a read that predates the stored entry.
	s.syncCache(ctx, who.ID, propertyID, true)
	if added {
		s.publish(ctx, who.ID, propertyID, true)
	}
	return transport.AddResponse{Added: added}, nil
}

// Remove forgets propertyID for the caller. Removing an absent entry
// reports Removed=false.
func (s *Service) Remove(ctx context.Context, who caller.Caller, propertyID uuid.UUID) (transport.RemoveResponse, error) {
	if !who.IsAuthenticated() {
		return transport.RemoveResponse{}, apperr.Unauthenticated(msgSignIn)
	}

	removed, err := s.repo.Remove(ctx, who.ID, propertyID)
	if err != nil {
		return transport.RemoveResponse{}, err
	}
	s.syncCache(ctx, who.ID, propertyID, false)
	if removed {
		s.publish(ctx, who.ID, propertyID, false)
	}
	return transport.RemoveResponse{Removed: removed}, nil
}

// Toggle flips membership and reports the resulting state. The cached set
// picks the first write; when the ledger disagrees the opposite write runs.
func (s *Service) Toggle(ctx context.Context, who caller.Caller, propertyID uuid.UUID) (transport.ToggleResponse, error) {
	present, err := s.Contains(ctx, who, propertyID)
	if err != nil {
		return transport.ToggleResponse{}, err
	}
	if present {
		removed, err := s.Remove(ctx, who, propertyID)
		if err != nil {
			return transport.ToggleResponse{}, err
		}
		if removed.Removed {
			return transport.ToggleResponse{Favorite: false}, nil
		}
		if _, err := s.Add(ctx, who, propertyID); err != nil {
			return transport.ToggleResponse{}, err
		}
		return transport.ToggleResponse{Favorite: true}, nil
	}

	added, err := s.Add(ctx, who, propertyID)
	if err != nil {
		return transport.ToggleResponse{}, err
	}
	if added.Added {
		return transport.ToggleResponse{Favorite: true}, nil
	}
	if _, err := s.Remove(ctx, who, propertyID); err != nil {
		return transport.ToggleResponse{}, err
	}
	return transport.ToggleResponse{Favorite: false}, nil
}

// ListFor returns the caller's saved property IDs.
func (s *Service) ListFor(ctx context.Context, who caller.Caller) (domain.Set, error) {
	if !who.IsAuthenticated() {
		return nil, apperr.Unauthenticated(msgSignIn)
	}
	return s.SetFor(ctx, who.ID)
}

// Contains reports whether the caller saved propertyID.
func (s *Service) Contains(ctx context.Context, who caller.Caller, propertyID uuid.UUID) (bool, error) {
	set, err := s.ListFor(ctx, who)
	if err != nil {
		return false, err
	}
	return set.Contains(propertyID), nil
}

// SetFor loads an owner's set, from cache when possible.
func (s *Service) SetFor(ctx context.Context, ownerID uuid.UUID) (domain.Set, error) {
	if s.cache != nil {
		set, hit, err := s.cache.Load(ctx, ownerID)
		if err != nil {
			s.log.Warn("favorites cache read failed", "owner", ownerID, "error", err)
		} else if hit {
			return set, nil
		}
	}

	entries, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	set := make(domain.Set, len(entries))
	for _, entry := range entries {
		set[entry.PropertyID] = struct{}{}
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, ownerID, set); err != nil {
			s.log.Warn("favorites cache write failed", "owner", ownerID, "error", err)
		}
	}
	return set, nil
}

// List returns the caller's saved listings, most recent first.
func (s *Service) List(ctx context.Context, who caller.Caller) (transport.ListResponse, error) {
	if !who.IsAuthenticated() {
		return transport.ListResponse{}, apperr.Unauthenticated(msgSignIn)
	}

	entries, err := s.repo.List(ctx, who.ID)
	if err != nil {
		return transport.ListResponse{}, err
	}

	ids := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.PropertyID
	}
	cards := map[uuid.UUID]ports.Property{}
	if s.catalog != nil && len(ids) > 0 {
		if cards, err = s.catalog.Cards(ctx, ids); err != nil {
			return transport.ListResponse{}, err
		}
	}

	resp := transport.ListResponse{
		Items:       make([]transport.FavoriteItem, 0, len(entries)),
		PropertyIDs: make([]uuid.UUID, 0, len(entries)),
	}
	for _, entry := range entries {
		card, ok := cards[entry.PropertyID]
		if s.catalog != nil && !ok {
			continue
		}
		resp.Items = append(resp.Items, transport.FavoriteItem{PropertyID: entry.PropertyID, SavedAt: entry.CreatedAt, Property: card})
		resp.PropertyIDs = append(resp.PropertyIDs, entry.PropertyID)
	}
	return resp, nil
}

func (s *Service) syncCache(ctx context.Context, ownerID, propertyID uuid.UUID, add bool) {
	if s.cache == nil {
		return
	}
	var err error
	if add {
		err = s.cache.Add(ctx, ownerID, propertyID)
	} else {
		err = s.cache.Remove(ctx, ownerID, propertyID)
	}
	if err != nil {
		s.log.Warn("favorites cache update failed, dropping owner set", "owner", ownerID, "error", err)
		_ = s.cache.Forget(ctx, ownerID)
	}
}

func (s *Service) publish(ctx context.Context, ownerID, propertyID uuid.UUID, favorite bool) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.FavoriteChanged{
		BaseEvent:  events.NewBaseEvent(),
		OwnerID:    ownerID,
		PropertyID: propertyID,
		Favorite:   favorite,
	})
}
