// Package service implements the tour lifecycle machine: booking, the
// scheduled → completed | cancelled transitions, dashboard statistics and
// reminder delivery.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"estate_portal_backend/internal/events"
	"estate_portal_backend/internal/scheduler"
	"estate_portal_backend/internal/shared/caller"
	"estate_portal_backend/internal/tours/domain"
	"estate_portal_backend/internal/tours/ports"
	"estate_portal_backend/internal/tours/repository"
	"estate_portal_backend/internal/tours/transport"
	"estate_portal_backend/platform/apperr"
	"estate_portal_backend/platform/logger"
	"estate_portal_backend/platform/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	msgTourNotFound = "tour not found"
	msgLeadNotFound = "lead not found"
	msgSignIn       = "sign in to manage tours"
	msgNotYourTour  = "tour belongs to someone else"
	upcomingLimit   = 5
)

// Service provides tour operations.
type Service struct {
	repo         repository.Repository
	properties   ports.PropertyAgentReader
	leads        ports.LeadReader
	reminders    scheduler.ReminderScheduler
	bus          events.Bus
	validateDate domain.DateValidator
	reminderLead time.Duration
	now          func() time.Time
	log          *logger.Logger
}

// New creates the tours service. Dates are not checked against the clock
// unless SetDateValidator installs a check.
func New(repo repository.Repository, bus events.Bus, reminderLead time.Duration, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:         repo,
		bus:          bus,
		validateDate: domain.AcceptAnyDate,
		reminderLead: reminderLead,
		now:          time.Now,
		log:          log,
	}
}

// SetPropertyReader injects the catalog lookup.
func (s *Service) SetPropertyReader(properties ports.PropertyAgentReader) {
	s.properties = properties
}

// SetLeadReader injects the lead lookup.
func (s *Service) SetLeadReader(leads ports.LeadReader) {
	s.leads = leads
}

// SetReminderScheduler injects the delayed task queue.
func (s *Service) SetReminderScheduler(reminders scheduler.ReminderScheduler) {
	s.reminders = reminders
}

// SetDateValidator replaces the booking date check.
func (s *Service) SetDateValidator(validate domain.DateValidator) {
	if validate == nil {
		validate = domain.AcceptAnyDate
	}
	s.validateDate = validate
}

// Create books a tour in status scheduled.
func (s *Service) Create(ctx context.Context, who caller.Caller, req transport.CreateTourRequest) (transport.TourResponse, error) {
	if !who.IsAuthenticated() {
		return transport.TourResponse{}, apperr.Unauthenticated(msgSignIn)
	}

	clientID, err := resolveClient(who, req.ClientID)
	if err != nil {
		return transport.TourResponse{}, err
	}

	scheduledAt, err := domain.CombineDateTime(req.ScheduledDate, req.ScheduledTime)
	if err != nil {
		return transport.TourResponse{}, apperr.Validation("invalid scheduled date or time")
	}
	if err := s.validateDate(scheduledAt, s.now()); err != nil {
		return transport.TourResponse{}, apperr.Validation(err.Error())
	}

	if req.LeadID != nil && s.leads != nil {
		exists, err := s.leads.LeadExists(ctx, *req.LeadID)
		if err != nil {
			return transport.TourResponse{}, err
		}
		if !exists {
			return transport.TourResponse{}, apperr.NotFound(msgLeadNotFound)
		}
	}

	var agentID *uuid.UUID
	if s.properties != nil {
		if agentID, err = s.properties.PropertyAgent(ctx, req.PropertyID); err != nil {
			return transport.TourResponse{}, err
		}
	}

	date, _ := time.Parse(time.DateOnly, strings.TrimSpace(req.ScheduledDate))
	tour, err := s.repo.Create(ctx, repository.CreateParams{
		PropertyID:    req.PropertyID,
		ClientID:      clientID,
		AgentID:       agentID,
		LeadID:        req.LeadID,
		ScheduledDate: date,
		ScheduledTime: strings.TrimSpace(req.ScheduledTime),
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		return transport.TourResponse{}, err
	}

	s.scheduleReminder(ctx, tour)
	s.publish(ctx, events.TourScheduled{
		BaseEvent:   events.NewBaseEvent(),
		TourID:      tour.ID,
		PropertyID:  tour.PropertyID,
		ClientID:    tour.ClientID,
		AgentID:     tour.AgentID,
		LeadID:      tour.LeadID,
		ScheduledAt: tour.ScheduledAt(),
	})
	return toTourResponse(tour), nil
}

// SetStatus completes or cancels a scheduled tour. Admins and the owning
// agent may do either; the booked client may only cancel.
func (s *Service) SetStatus(ctx context.Context, who caller.Caller, id uuid.UUID, req transport.UpdateTourStatusRequest) (transport.TourResponse, error) {
	if !who.IsAuthenticated() {
		return transport.TourResponse{}, apperr.Unauthenticated(msgSignIn)
	}
	target := domain.Status(strings.ToLower(strings.TrimSpace(req.Status)))

	tour, err := s.getTour(ctx, id)
	if err != nil {
		return transport.TourResponse{}, err
	}
	if err := authorizeStatusChange(who, tour, target); err != nil {
		return transport.TourResponse{}, err
	}
	if err := domain.Transition(tour.Status, target); err != nil {
		return transport.TourResponse{}, transitionError(err)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, target)
	if errors.Is(err, repository.ErrNotScheduled) {
		return transport.TourResponse{}, s.lostRace(ctx, id)
	}
	if err != nil {
		return transport.TourResponse{}, err
	}

	s.log.StatusTransition("tour", id.String(), string(tour.Status), string(target))
	metrics.ObserveTourTransition(string(target))
	s.publish(ctx, events.TourStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		TourID:    id,
		ActorID:   who.ID,
		OldStatus: string(tour.Status),
		NewStatus: string(target),
	})
	return toTourResponse(updated), nil
}

// Get returns a tour visible to the caller.
func (s *Service) Get(ctx context.Context, who caller.Caller, id uuid.UUID) (transport.TourResponse, error) {
	if !who.IsAuthenticated() {
		return transport.TourResponse{}, apperr.Unauthenticated(msgSignIn)
	}
	tour, err := s.getTour(ctx, id)
	if err != nil {
		return transport.TourResponse{}, err
	}
	if !canView(who, tour) {
		return transport.TourResponse{}, apperr.Forbidden(msgNotYourTour)
	}
	return toTourResponse(tour), nil
}

// List returns every tour visible to the caller.
func (s *Service) List(ctx context.Context, who caller.Caller) (transport.TourListResponse, error) {
	if !who.IsAuthenticated() {
		return transport.TourListResponse{}, apperr.Unauthenticated(msgSignIn)
	}

	tours, err := s.repo.List(ctx, scopeFor(who))
	if err != nil {
		return transport.TourListResponse{}, err
	}
	return transport.TourListResponse{Items: toTourResponses(tours), Total: len(tours)}, nil
}

// Stats recomputes dashboard counters from the caller's tours, together
// with the next few scheduled ones.
func (s *Service) Stats(ctx context.Context, who caller.Caller) (transport.TourStatsResponse, error) {
	if !who.IsAuthenticated() {
		return transport.TourStatsResponse{}, apperr.Unauthenticated(msgSignIn)
	}
	now := s.now()

	var all, upcoming []domain.Tour
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = s.repo.List(gctx, scopeFor(who))
		return err
	})
	g.Go(func() error {
		params := scopeFor(who)
		status := domain.StatusScheduled
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		params.Status = &status
		params.From = &today
		params.Limit = upcomingLimit

		var err error
		upcoming, err = s.repo.List(gctx, params)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.TourStatsResponse{}, err
	}

	return transport.TourStatsResponse{
		Stats:    domain.ComputeStats(all, now),
		Upcoming: toTourResponses(upcoming),
	}, nil
}

// HandleTourReminder re-reads the tour when its reminder fires and emits
// TourReminderDue only if it is still scheduled.
func (s *Service) HandleTourReminder(ctx context.Context, tourID uuid.UUID) (bool, error) {
	tour, err := s.repo.GetByID(ctx, tourID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if tour.Status != domain.StatusScheduled {
		return false, nil
	}

	if s.bus != nil {
		if err := s.bus.PublishSync(ctx, events.TourReminderDue{
			BaseEvent:   events.NewBaseEvent(),
			TourID:      tour.ID,
			ClientID:    tour.ClientID,
			AgentID:     tour.AgentID,
			ScheduledAt: tour.ScheduledAt(),
		}); err != nil {
			return false, err
		}
	}
	return true, nil
}

// scheduleReminder is best effort; a queue failure does not undo the booking.
func (s *Service) scheduleReminder(ctx context.Context, tour domain.Tour) {
	if s.reminders == nil {
		return
	}
	runAt := tour.ScheduledAt().Add(-s.reminderLead)
	if !runAt.After(s.now()) {
		return
	}
	err := s.reminders.ScheduleTourReminder(ctx, scheduler.TourReminderPayload{TourID: tour.ID.String()}, runAt)
	if err != nil {
		s.log.Warn("failed to schedule tour reminder", "tourId", tour.ID, "error", err)
		metrics.ObserveTourReminder(metrics.ReminderFailed)
		return
	}
	metrics.ObserveTourReminder(metrics.ReminderScheduled)
}

// lostRace reports a conditional update that matched no row: either the
// tour was deleted or another writer ended it first.
func (s *Service) lostRace(ctx context.Context, id uuid.UUID) error {
	tour, err := s.getTour(ctx, id)
	if err != nil {
		return err
	}
	return apperr.TerminalState("tour is already " + string(tour.Status))
}

func (s *Service) getTour(ctx context.Context, id uuid.UUID) (domain.Tour, error) {
	tour, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Tour{}, apperr.NotFound(msgTourNotFound)
	}
	if err != nil {
		return domain.Tour{}, err
	}
	return tour, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}

func resolveClient(who caller.Caller, requested *uuid.UUID) (uuid.UUID, error) {
	if who.IsClient() {
		if requested != nil && *requested != who.ID {
			return uuid.Nil, apperr.Forbidden("clients can only book tours for themselves")
		}
		return who.ID, nil
	}
	if requested == nil || *requested == uuid.Nil {
		return uuid.Nil, apperr.Validation("clientId is required")
	}
	return *requested, nil
}

func authorizeStatusChange(who caller.Caller, tour domain.Tour, target domain.Status) error {
	switch {
	case who.IsAdmin():
		return nil
	case who.IsAgent():
		if who.Owns(tour.AgentID) {
			return nil
		}
	case who.IsClient():
		if tour.ClientID == who.ID {
			if target == domain.StatusCancelled || tour.Status.Terminal() {
				return nil
			}
			return apperr.Forbidden("clients can only cancel their tours")
		}
	}
	return apperr.Forbidden(msgNotYourTour)
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, domain.ErrTerminalState):
		return apperr.TerminalState(err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		return apperr.InvalidStatus(err.Error())
	default:
		return err
	}
}

func canView(who caller.Caller, tour domain.Tour) bool {
	switch {
	case who.IsAdmin():
		return true
	case who.IsAgent():
		return who.Owns(tour.AgentID)
	default:
		return tour.ClientID == who.ID
	}
}

func scopeFor(who caller.Caller) repository.ListParams {
	id := who.ID
	switch {
	case who.IsAdmin():
		return repository.ListParams{}
	case who.IsAgent():
		return repository.ListParams{AgentID: &id}
	default:
		return repository.ListParams{ClientID: &id}
	}
}

func toTourResponses(tours []domain.Tour) []transport.TourResponse {
	out := make([]transport.TourResponse, len(tours))
	for i, tour := range tours {
		out[i] = toTourResponse(tour)
	}
	return out
}

func toTourResponse(tour domain.Tour) transport.TourResponse {
	return transport.TourResponse{
		ID:            tour.ID,
		PropertyID:    tour.PropertyID,
		ClientID:      tour.ClientID,
		AgentID:       tour.AgentID,
		LeadID:        tour.LeadID,
		ScheduledDate: tour.ScheduledDate.Format(time.DateOnly),
		ScheduledTime: tour.ScheduledTime,
		ScheduledAt:   tour.ScheduledAt(),
		Status:        tour.Status,
		Notes:         tour.Notes,
		CreatedAt:     tour.CreatedAt,
		UpdatedAt:     tour.UpdatedAt,
	}
}
