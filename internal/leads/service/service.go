// Package service implements the lead lifecycle: intake of inquiries, the
// permissive two-vocabulary status machine, priorities and notes.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"estate_portal_backend/internal/events"
	"estate_portal_backend/internal/leads/domain"
	"estate_portal_backend/internal/leads/ports"
	"estate_portal_backend/internal/leads/repository"
	"estate_portal_backend/internal/leads/transport"
	"estate_portal_backend/internal/shared/caller"
	"estate_portal_backend/platform/apperr"
	"estate_portal_backend/platform/logger"
	"estate_portal_backend/platform/metrics"
	"estate_portal_backend/platform/phone"
	"estate_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgLeadNotFound     = "lead not found"
	msgPropertyNotFound = "property not found"
	msgSignIn           = "sign in to manage leads"
	msgStaffOnly        = "only agents and admins can manage leads"
	msgNotYourLead      = "lead belongs to another agent"
)

// Service provides lead operations.
type Service struct {
	repo        repository.Repository
	properties  ports.PropertyReader
	agents      ports.AgentDirectory
	bus         events.Bus
	phoneRegion string
	now         func() time.Time
	log         *logger.Logger
}

// New creates the leads service. Readers for properties and agents are
// wired later with SetPropertyReader and SetAgentDirectory.
func New(repo repository.Repository, bus events.Bus, phoneRegion string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, bus: bus, phoneRegion: phoneRegion, now: time.Now, log: log}
}

// SetPropertyReader injects the catalog lookup.
func (s *Service) SetPropertyReader(properties ports.PropertyReader) {
	s.properties = properties
}

// SetAgentDirectory injects the agent contact lookup.
func (s *Service) SetAgentDirectory(agents ports.AgentDirectory) {
	s.agents = agents
}

// Create turns an inquiry into a lead in status agent:New. who may be
// anonymous; an authenticated client is recorded as the submitter.
func (s *Service) Create(ctx context.Context, who caller.Caller, req transport.CreateLeadRequest) (transport.SubmissionResponse, error) {
	source, err := domain.ParseSource(req.Source)
	if err != nil {
		return transport.SubmissionResponse{}, apperr.Validation(err.Error())
	}
	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		return transport.SubmissionResponse{}, apperr.Validation(err.Error())
	}

	message := sanitize.Text(req.Message)
	if message == "" {
		return transport.SubmissionResponse{}, apperr.Validation("message is required")
	}

	params := repository.CreateParams{
		Name:       strings.TrimSpace(sanitize.StripHTML(req.Name)),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Message:    message,
		PropertyID: req.PropertyID,
		Source:     source,
		Priority:   priority,
		Status:     domain.StatusNew,
	}
	if p := strings.TrimSpace(req.Phone); p != "" {
		normalized := phone.NormalizeE164(p, s.phoneRegion)
		params.Phone = &normalized
	}

	if req.PropertyID != nil {
		agentID, err := s.resolvePropertyAgent(ctx, *req.PropertyID)
		if err != nil {
			return transport.SubmissionResponse{}, err
		}
		params.AgentID = agentID
	}
	switch {
	case who.IsClient():
		params.SubmitterID = &who.ID
	case who.IsAgent() && params.AgentID == nil:
		params.AgentID = &who.ID
	}
	if params.AgentID != nil {
		params.Agent = s.agentSnapshot(ctx, *params.AgentID)
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.SubmissionResponse{}, err
	}

	s.publish(ctx, events.LeadCreated{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		PropertyID:  lead.PropertyID,
		AgentID:     lead.AgentID,
		SubmitterID: lead.SubmitterID,
		Source:      string(lead.Source),
	})
	return toSubmissionResponse(lead), nil
}

// SetStatus writes any member of the requested vocabulary. There is no
// transition graph; the value must only belong to its vocabulary.
func (s *Service) SetStatus(ctx context.Context, who caller.Caller, id uuid.UUID, req transport.UpdateLeadStatusRequest) (transport.LeadResponse, error) {
	if err := requireStaff(who); err != nil {
		return transport.LeadResponse{}, err
	}
	status, err := domain.ParseStatus(req.Vocabulary, req.Status)
	if err != nil {
		return transport.LeadResponse{}, apperr.InvalidStatus(err.Error()).WithDetails(map[string]string{
			"vocabulary": req.Vocabulary,
			"status":     req.Status,
		})
	}

	current, err := s.authorized(ctx, who, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
	}
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.StatusTransition("lead", id.String(), current.Status.String(), status.String())
	metrics.ObserveLeadTransition(string(status.Vocabulary), status.Value)
	s.publish(ctx, events.LeadStatusChanged{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         id,
		ActorID:        who.ID,
		FromVocabulary: string(current.Status.Vocabulary),
		FromStatus:     current.Status.Value,
		ToVocabulary:   string(status.Vocabulary),
		ToStatus:       status.Value,
	})
	return toLeadResponse(updated, nil), nil
}

// SetPriority changes how urgently a lead is worked.
func (s *Service) SetPriority(ctx context.Context, who caller.Caller, id uuid.UUID, req transport.UpdateLeadPriorityRequest) (transport.LeadResponse, error) {
	if err := requireStaff(who); err != nil {
		return transport.LeadResponse{}, err
	}
	priority, err := domain.ParsePriority(req.Priority)
	if err != nil || req.Priority == "" {
		return transport.LeadResponse{}, apperr.Validation(domain.ErrInvalidPriority.Error())
	}
	if _, err := s.authorized(ctx, who, id); err != nil {
		return transport.LeadResponse{}, err
	}

	updated, err := s.repo.UpdatePriority(ctx, id, priority)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
	}
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(updated, nil), nil
}

// AddNote appends a note stamped with the service clock.
func (s *Service) AddNote(ctx context.Context, who caller.Caller, id uuid.UUID, req transport.AddNoteRequest) (transport.NoteResponse, error) {
	if err := requireStaff(who); err != nil {
		return transport.NoteResponse{}, err
	}
	body := sanitize.Text(req.Body)
	if body == "" {
		return transport.NoteResponse{}, apperr.Validation("note body is required")
	}
	if _, err := s.authorized(ctx, who, id); err != nil {
		return transport.NoteResponse{}, err
	}

	note, err := s.repo.CreateNote(ctx, repository.CreateNoteParams{
		LeadID:    id,
		AuthorID:  who.ID,
		Body:      body,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return transport.NoteResponse{}, err
	}

	s.publish(ctx, events.LeadNoteAdded{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    id,
		NoteID:    note.ID,
		AuthorID:  who.ID,
	})
	return toNoteResponse(note), nil
}

// Get returns the full lead with its notes to the owning agent or an admin.
func (s *Service) Get(ctx context.Context, who caller.Caller, id uuid.UUID) (transport.LeadResponse, error) {
	if err := requireStaff(who); err != nil {
		return transport.LeadResponse{}, err
	}
	lead, err := s.authorized(ctx, who, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	notes, err := s.repo.ListNotes(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead, notes), nil
}

// GetSubmission returns a submitter's own inquiry. Leads submitted by
// someone else read as not found.
func (s *Service) GetSubmission(ctx context.Context, who caller.Caller, id uuid.UUID) (transport.SubmissionResponse, error) {
	if !who.IsAuthenticated() {
		return transport.SubmissionResponse{}, apperr.Unauthenticated(msgSignIn)
	}
	lead, err := s.getLead(ctx, id)
	if err != nil {
		return transport.SubmissionResponse{}, err
	}
	if !who.Owns(lead.SubmitterID) {
		return transport.SubmissionResponse{}, apperr.NotFound(msgLeadNotFound)
	}
	return toSubmissionResponse(lead), nil
}

// List returns leads visible to the caller: all for admins, owned ones for
// agents.
func (s *Service) List(ctx context.Context, who caller.Caller, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	if err := requireStaff(who); err != nil {
		return transport.LeadListResponse{}, err
	}

	params, err := toListParams(req)
	if err != nil {
		return transport.LeadListResponse{}, err
	}
	if who.IsAgent() {
		params.AgentID = &who.ID
	}

	leads, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = toLeadResponse(lead, nil)
	}
	return transport.LeadListResponse{Items: items, Total: len(items)}, nil
}

// ListSubmissions returns the caller's own inquiries.
func (s *Service) ListSubmissions(ctx context.Context, who caller.Caller) (transport.SubmissionListResponse, error) {
	if !who.IsAuthenticated() {
		return transport.SubmissionListResponse{}, apperr.Unauthenticated(msgSignIn)
	}

	leads, err := s.repo.List(ctx, repository.ListParams{SubmitterID: &who.ID})
	if err != nil {
		return transport.SubmissionListResponse{}, err
	}

	items := make([]transport.SubmissionResponse, len(leads))
	for i, lead := range leads {
		items[i] = toSubmissionResponse(lead)
	}
	return transport.SubmissionListResponse{Items: items}, nil
}

// Statuses describes both vocabularies with the suggested next step per
// value, plus the valid priorities and sources.
func (s *Service) Statuses() transport.StatusesResponse {
	resp := transport.StatusesResponse{
		Priorities: domain.Priorities,
		Sources:    domain.Sources,
	}
	for _, vocabulary := range domain.Vocabularies() {
		values, _ := domain.StatusesOf(vocabulary)
		options := make([]transport.StatusOption, len(values))
		for i, value := range values {
			options[i] = transport.StatusOption{Value: value}
			if next, ok := domain.SuggestedNext(domain.Status{Vocabulary: vocabulary, Value: value}); ok {
				options[i].SuggestedNext = &next.Value
			}
		}
		resp.Vocabularies = append(resp.Vocabularies, transport.VocabularyResponse{Vocabulary: vocabulary, Statuses: options})
	}
	return resp
}

// LeadExists reports whether a lead exists.
func (s *Service) LeadExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// authorized loads the lead and checks that an agent caller owns it.
func (s *Service) authorized(ctx context.Context, who caller.Caller, id uuid.UUID) (domain.Lead, error) {
	lead, err := s.getLead(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}
	if who.IsAgent() && !lead.OwnedBy(who.ID) {
		return domain.Lead{}, apperr.Forbidden(msgNotYourLead)
	}
	return lead, nil
}

func (s *Service) getLead(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Lead{}, apperr.NotFound(msgLeadNotFound)
	}
	if err != nil {
		return domain.Lead{}, err
	}
	return lead, nil
}

func (s *Service) resolvePropertyAgent(ctx context.Context, propertyID uuid.UUID) (*uuid.UUID, error) {
	if s.properties == nil {
		return nil, nil
	}
	property, found, err := s.properties.Property(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound(msgPropertyNotFound)
	}
	return property.AgentID, nil
}

// agentSnapshot copies the agent's current card. A missing directory entry
// leaves the snapshot empty rather than failing intake.
func (s *Service) agentSnapshot(ctx context.Context, agentID uuid.UUID) domain.AgentSnapshot {
	if s.agents == nil {
		return domain.AgentSnapshot{}
	}
	snapshot, found, err := s.agents.AgentSnapshot(ctx, agentID)
	if err != nil {
		s.log.Warn("agent snapshot lookup failed", "agentId", agentID, "error", err)
		return domain.AgentSnapshot{}
	}
	if !found {
		return domain.AgentSnapshot{}
	}
	return snapshot
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}

func requireStaff(who caller.Caller) error {
	if !who.IsAuthenticated() {
		return apperr.Unauthenticated(msgSignIn)
	}
	if !who.IsStaff() {
		return apperr.Forbidden(msgStaffOnly)
	}
	return nil
}

func toListParams(req transport.ListLeadsRequest) (repository.ListParams, error) {
	var params repository.ListParams
	status := strings.TrimSpace(req.Status)

	switch {
	case req.Vocabulary != "" && status != "":
		parsed, err := domain.ParseStatus(req.Vocabulary, status)
		if err != nil {
			return params, apperr.InvalidStatus(err.Error())
		}
		params.Vocabulary = &parsed.Vocabulary
		params.Status = &parsed.Value
	case req.Vocabulary != "":
		if _, ok := domain.StatusesOf(domain.Vocabulary(req.Vocabulary)); !ok {
			return params, apperr.InvalidStatus("unknown vocabulary " + req.Vocabulary)
		}
		vocabulary := domain.Vocabulary(req.Vocabulary)
		params.Vocabulary = &vocabulary
	case status != "":
		params.Status = &status
	}

	if req.Priority != "" {
		priority, err := domain.ParsePriority(req.Priority)
		if err != nil {
			return params, apperr.Validation(err.Error())
		}
		params.Priority = &priority
	}
	if req.Source != "" {
		source, err := domain.ParseSource(req.Source)
		if err != nil {
			return params, apperr.Validation(err.Error())
		}
		params.Source = &source
	}
	return params, nil
}

func toLeadResponse(lead domain.Lead, notes []domain.Note) transport.LeadResponse {
	resp := transport.LeadResponse{
		ID:          lead.ID,
		Name:        lead.Name,
		Email:       lead.Email,
		Phone:       lead.Phone,
		Message:     lead.Message,
		PropertyID:  lead.PropertyID,
		AgentID:     lead.AgentID,
		Agent:       lead.Agent,
		SubmitterID: lead.SubmitterID,
		Source:      lead.Source,
		Priority:    lead.Priority,
		Status:      lead.Status,
		CreatedAt:   lead.CreatedAt,
		UpdatedAt:   lead.UpdatedAt,
	}
	if next, ok := domain.SuggestedNext(lead.Status); ok {
		resp.SuggestedNext = &next
	}
	if notes != nil {
		resp.Notes = make([]transport.NoteResponse, len(notes))
		for i, note := range notes {
			resp.Notes[i] = toNoteResponse(note)
		}
	}
	return resp
}

func toSubmissionResponse(lead domain.Lead) transport.SubmissionResponse {
	return transport.SubmissionResponse{
		ID:         lead.ID,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Message:    lead.Message,
		PropertyID: lead.PropertyID,
		Agent:      lead.Agent,
		Source:     lead.Source,
		CreatedAt:  lead.CreatedAt,
	}
}

func toNoteResponse(note domain.Note) transport.NoteResponse {
	return transport.NoteResponse{
		ID:        note.ID,
		LeadID:    note.LeadID,
		AuthorID:  note.AuthorID,
		Body:      note.Body,
		CreatedAt: note.CreatedAt,
	}
}
