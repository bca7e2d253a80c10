package service

import (
	"context"
	"errors"
	"strings"

	"estate_portal_backend/internal/catalog/domain"
	"estate_portal_backend/internal/catalog/matching"
	"estate_portal_backend/internal/catalog/ports"
	"estate_portal_backend/internal/catalog/repository"
	"estate_portal_backend/internal/catalog/transport"
	"estate_portal_backend/internal/events"
	"estate_portal_backend/internal/shared/caller"
	"estate_portal_backend/platform/apperr"
	"estate_portal_backend/platform/config"
	"estate_portal_backend/platform/logger"
	"estate_portal_backend/platform/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize         = 20
	propertyNotFoundMessage = "property not found"
)

// ResultCache stores query results between catalog writes. Entries are
// addressed by the generation read before the store was queried, so a
// result that raced an Invalidate lands in a retired generation.
type ResultCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, generation int64, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, generation int64, key string, value interface{}) error
	Invalidate(ctx context.Context) error
}

// Summary is the slice of a listing other contexts need.
type Summary struct {
	ID      uuid.UUID
	Title   string
	AgentID *uuid.UUID
}

// Service provides business logic for the property catalog.
type Service struct {
	repo      repository.Repository
	cache     ResultCache
	favorites ports.FavoriteReader
	bus       events.Bus
	mode      string
	log       *logger.Logger
}

// New creates a new catalog service. cache may be nil.
func New(repo repository.Repository, cache ResultCache, bus events.Bus, mode string, log *logger.Logger) *Service {
	if mode != config.QueryModeEngine {
		mode = config.QueryModePushdown
	}
	return &Service{repo: repo, cache: cache, bus: bus, mode: mode, log: log}
}

// SetFavoriteReader wires the favorites context after both modules exist.
func (s *Service) SetFavoriteReader(reader ports.FavoriteReader) {
	s.favorites = reader
}

// Search runs a filtered, sorted, paginated search. The range always
// describes the unfiltered catalog. Favorite flags are resolved for
// authenticated callers only.
func (s *Service) Search(ctx context.Context, who caller.Caller, req transport.SearchPropertiesRequest) (transport.SearchPropertiesResponse, error) {
	criteria := matching.Normalize(req.Filter())
	sortKey := matching.ParseSortKey(req.Sort)

	var (
		items     []domain.Property
		rng       matching.Range
		favorites ports.FavoriteSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, rng, err = s.QueryProperties(gctx, criteria, sortKey)
		return err
	})
	if who.IsAuthenticated() && s.favorites != nil {
		g.Go(func() error {
			var err error
			favorites, err = s.favorites.FavoriteSetFor(gctx, who.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return transport.SearchPropertiesResponse{}, err
	}

	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	page, info := matching.Paginate(items, req.Page, pageSize)

	resp := transport.SearchPropertiesResponse{
		Items:      make([]transport.PropertyResponse, len(page)),
		Range:      rng,
		Total:      info.Total,
		Page:       info.Page,
		PageSize:   info.PageSize,
		TotalPages: info.TotalPages,
	}
	for i, p := range page {
		resp.Items[i] = toPropertyResponse(p, favorites != nil && favorites.Contains(p.ID))
	}
	return resp, nil
}

// QueryProperties returns every listing matching criteria in sort order,
// together with the catalog-wide range. Engine mode filters the full
// catalog in process; pushdown mode lets the store filter. Both agree.
func (s *Service) QueryProperties(ctx context.Context, criteria matching.Criteria, key matching.SortKey) ([]domain.Property, matching.Range, error) {
	cacheKey := repository.QueryCacheKey(criteria, key)

	var items []domain.Property
	var rng matching.Range
	generation, cached := s.cacheGeneration(ctx)
	itemsHit := cached && s.cacheGet(ctx, generation, cacheKey, &items)
	rangeHit := cached && s.cacheGet(ctx, generation, repository.RangeCacheKey, &rng)
	if itemsHit && rangeHit {
		metrics.ObserveCatalogQuery(s.mode, metrics.CacheHit)
		return items, rng, nil
	}
	if !cached {
		metrics.ObserveCatalogQuery(s.mode, metrics.CacheDisabled)
	} else {
		metrics.ObserveCatalogQuery(s.mode, metrics.CacheMiss)
	}

	if s.mode == config.QueryModeEngine {
		all, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, matching.Range{}, err
		}
		items = matching.MatchCriteria(all, criteria, key)
		rng = matching.ComputeRange(all)
	} else {
		g, gctx := errgroup.WithContext(ctx)
		if !itemsHit {
			g.Go(func() error {
				var err error
				items, err = s.repo.Search(gctx, criteria, key)
				return err
			})
		}
		if !rangeHit {
			g.Go(func() error {
				var err error
				rng, err = s.repo.Range(gctx)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, matching.Range{}, err
		}
	}

	if cached {
		s.cacheSet(ctx, generation, cacheKey, items)
		s.cacheSet(ctx, generation, repository.RangeCacheKey, rng)
	}
	return items, rng, nil
}

// Get returns a single listing.
func (s *Service) Get(ctx context.Context, who caller.Caller, id uuid.UUID) (transport.PropertyResponse, error) {
	property, err := s.getProperty(ctx, id)
	if err != nil {
		return transport.PropertyResponse{}, err
	}

	favorite := false
	if who.IsAuthenticated() && s.favorites != nil {
		set, err := s.favorites.FavoriteSetFor(ctx, who.ID)
		if err != nil {
			return transport.PropertyResponse{}, err
		}
		favorite = set.Contains(id)
	}
	return toPropertyResponse(property, favorite), nil
}

// GetByIDs returns the listings that still exist, for favorites listings.
func (s *Service) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]transport.PropertyResponse, error) {
	properties, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]transport.PropertyResponse, len(properties))
	for i, p := range properties {
		out[i] = toPropertyResponse(p, true)
	}
	return out, nil
}

// PropertySummary resolves the title and owning agent of a listing.
func (s *Service) PropertySummary(ctx context.Context, id uuid.UUID) (Summary, error) {
	property, err := s.getProperty(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	return Summary{ID: property.ID, Title: property.Title, AgentID: property.AgentID}, nil
}

// Create adds a listing. Agents always own what they create; admins may
// assign any agent.
func (s *Service) Create(ctx context.Context, who caller.Caller, req transport.PropertyRequest) (transport.PropertyResponse, error) {
	if err := requireStaff(who); err != nil {
		return transport.PropertyResponse{}, err
	}

	params, err := toCreateParams(who, req)
	if err != nil {
		return transport.PropertyResponse{}, err
	}

	property, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.PropertyResponse{}, err
	}

	s.changed(ctx, property.ID, events.PropertyCreated)
	s.log.Info("property created", "id", property.ID, "agentId", property.AgentID)
	return toPropertyResponse(property, false), nil
}

// Update replaces a listing's fields.
func (s *Service) Update(ctx context.Context, who caller.Caller, id uuid.UUID, req transport.PropertyRequest) (transport.PropertyResponse, error) {
	existing, err := s.authorizeWrite(ctx, who, id)
	if err != nil {
		return transport.PropertyResponse{}, err
	}

	params, err := toCreateParams(who, req)
	if err != nil {
		return transport.PropertyResponse{}, err
	}
	if who.IsAgent() {
		params.AgentID = existing.AgentID
	}

	property, err := s.repo.Update(ctx, repository.UpdateParams{ID: id, CreateParams: params})
	if errors.Is(err, repository.ErrNotFound) {
		return transport.PropertyResponse{}, apperr.NotFound(propertyNotFoundMessage)
	}
	if err != nil {
		return transport.PropertyResponse{}, err
	}

	s.changed(ctx, property.ID, events.PropertyUpdated)
	s.log.Info("property updated", "id", property.ID)
	return toPropertyResponse(property, false), nil
}

// Delete removes a listing. Leads, tours and favorites referencing it stay.
func (s *Service) Delete(ctx context.Context, who caller.Caller, id uuid.UUID) error {
	if _, err := s.authorizeWrite(ctx, who, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(propertyNotFoundMessage)
		}
		return err
	}

	s.changed(ctx, id, events.PropertyDeleted)
	s.log.Info("property deleted", "id", id)
	return nil
}

// InvalidateCache drops cached query results.
func (s *Service) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func (s *Service) authorizeWrite(ctx context.Context, who caller.Caller, id uuid.UUID) (domain.Property, error) {
	if err := requireStaff(who); err != nil {
		return domain.Property{}, err
	}
	property, err := s.getProperty(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}
	if who.IsAgent() && !who.Owns(property.AgentID) {
		return domain.Property{}, apperr.Forbidden("listing belongs to another agent")
	}
	return property, nil
}

func (s *Service) getProperty(ctx context.Context, id uuid.UUID) (domain.Property, error) {
	property, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Property{}, apperr.NotFound(propertyNotFoundMessage)
	}
	return property, err
}

// changed invalidates the cache synchronously so the writer's next read is
// fresh, then tells other modules.
func (s *Service) changed(ctx context.Context, id uuid.UUID, op string) {
	if err := s.InvalidateCache(ctx); err != nil {
		s.log.Warn("catalog cache invalidation failed", "error", err)
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.PropertyChanged{BaseEvent: events.NewBaseEvent(), PropertyID: id, Operation: op})
	}
}

func (s *Service) cacheGeneration(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	generation, err := s.cache.Generation(ctx)
	if err != nil {
		s.log.Warn("catalog cache generation read failed", "error", err)
		return 0, false
	}
	return generation, true
}

func (s *Service) cacheGet(ctx context.Context, generation int64, key string, dest interface{}) bool {
	hit, err := s.cache.Get(ctx, generation, key, dest)
	if err != nil {
		s.log.Warn("catalog cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *Service) cacheSet(ctx context.Context, generation int64, key string, value interface{}) {
	if err := s.cache.Set(ctx, generation, key, value); err != nil {
		s.log.Warn("catalog cache write failed", "key", key, "error", err)
	}
}

func requireStaff(who caller.Caller) error {
	if !who.IsAuthenticated() {
		return apperr.Unauthenticated("sign in to manage listings")
	}
	if !who.IsStaff() {
		return apperr.Forbidden("only agents and admins manage listings")
	}
	return nil
}

func toCreateParams(who caller.Caller, req transport.PropertyRequest) (repository.CreateParams, error) {
	status, _ := domain.ParseStatus(req.Status)
	agentID := req.AgentID
	if who.IsAgent() {
		id := who.ID
		agentID = &id
	}

	params := repository.CreateParams{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Address:     strings.TrimSpace(req.Address),
		City:        strings.TrimSpace(req.City),
		Price:       req.Price,
		Beds:        req.Beds,
		Baths:       req.Baths,
		Area:        req.Area,
		Status:      status,
		Type:        strings.TrimSpace(req.Type),
		Amenities:   cleanTags(req.Amenities),
		Features:    cleanTags(req.Features),
		Featured:    req.Featured,
		AgentID:     agentID,
	}

	candidate := domain.Property{
		Title: params.Title, Address: params.Address, Price: params.Price,
		Beds: params.Beds, Baths: params.Baths, Area: params.Area, Status: params.Status,
	}
	if err := candidate.Validate(); err != nil {
		return repository.CreateParams{}, apperr.Validation(err.Error())
	}
	return params, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		key := strings.ToLower(trimmed)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func toPropertyResponse(p domain.Property, favorite bool) transport.PropertyResponse {
	return transport.PropertyResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		City:        p.City,
		Price:       p.Price,
		Beds:        p.Beds,
		Baths:       p.Baths,
		Area:        p.Area,
		Status:      string(p.Status),
		Type:        p.Type,
		Amenities:   nonNil(p.Amenities),
		Features:    nonNil(p.Features),
		Featured:    p.Featured,
		AgentID:     p.AgentID,
		IsFavorite:  favorite,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
