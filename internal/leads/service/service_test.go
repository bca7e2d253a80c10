package service

import (
	"context"
	"testing"
	"time"

	"estate_portal_backend/internal/events"
	"estate_portal_backend/internal/leads/domain"
	"estate_portal_backend/internal/leads/ports"
	"estate_portal_backend/internal/leads/repository"
	"estate_portal_backend/internal/leads/transport"
	"estate_portal_backend/internal/shared/caller"
	"estate_portal_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	leads map[uuid.UUID]domain.Lead
	notes []domain.Note
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: map[uuid.UUID]domain.Lead{}}
}

func (f *fakeRepo) Create(_ context.Context, p repository.CreateParams) (domain.Lead, error) {
	lead := domain.Lead{
		ID: uuid.New(), Name: p.Name, Email: p.Email, Phone: p.Phone, Message: p.Message,
		PropertyID: p.PropertyID, AgentID: p.AgentID, Agent: p.Agent, SubmitterID: p.SubmitterID,
		Source: p.Source, Priority: p.Priority, Status: p.Status, CreatedAt: time.Now(),
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) List(_ context.Context, p repository.ListParams) ([]domain.Lead, error) {
	out := []domain.Lead{}
	for _, lead := range f.leads {
		if p.AgentID != nil && !lead.OwnedBy(*p.AgentID) {
			continue
		}
		if p.SubmitterID != nil && (lead.SubmitterID == nil || *lead.SubmitterID != *p.SubmitterID) {
			continue
		}
		if p.Status != nil && lead.Status.Value != *p.Status {
			continue
		}
		out = append(out, lead)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) (domain.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	lead.Status = status
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) UpdatePriority(_ context.Context, id uuid.UUID, priority domain.Priority) (domain.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	lead.Priority = priority
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) CreateNote(_ context.Context, p repository.CreateNoteParams) (domain.Note, error) {
	note := domain.Note{ID: uuid.New(), LeadID: p.LeadID, AuthorID: p.AuthorID, Body: p.Body, CreatedAt: p.CreatedAt}
	f.notes = append(f.notes, note)
	return note, nil
}

func (f *fakeRepo) ListNotes(_ context.Context, leadID uuid.UUID) ([]domain.Note, error) {
	out := []domain.Note{}
	for _, note := range f.notes {
		if note.LeadID == leadID {
			out = append(out, note)
		}
	}
	return out, nil
}

type fakeProperties map[uuid.UUID]ports.Property

func (f fakeProperties) Property(_ context.Context, id uuid.UUID) (ports.Property, bool, error) {
	p, ok := f[id]
	return p, ok, nil
}

type fakeAgents map[uuid.UUID]domain.AgentSnapshot

func (f fakeAgents) AgentSnapshot(_ context.Context, id uuid.UUID) (domain.AgentSnapshot, bool, error) {
	s, ok := f[id]
	return s, ok, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

type fixture struct {
	svc        *Service
	repo       *fakeRepo
	bus        *recordingBus
	agents     fakeAgents
	agentID    uuid.UUID
	propertyID uuid.UUID
}

func newFixture() fixture {
	agentID := uuid.New()
	propertyID := uuid.New()
	repo := newFakeRepo()
	bus := &recordingBus{}
	agents := fakeAgents{agentID: {Name: "Dana Agent", Email: "dana@example.com", Phone: "+16502530000"}}

	svc := New(repo, bus, "US", nil)
	svc.SetPropertyReader(fakeProperties{propertyID: {ID: propertyID, Title: "Loft", AgentID: &agentID}})
	svc.SetAgentDirectory(agents)
	return fixture{svc: svc, repo: repo, bus: bus, agents: agents, agentID: agentID, propertyID: propertyID}
}

func (f fixture) inquiry(t *testing.T, who caller.Caller) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), who, transport.CreateLeadRequest{
		Name:       "Sam Buyer",
		Email:      "Sam@Example.com ",
		Phone:      "(650) 253-0000",
		Message:    "<p>Is the loft still <b>available</b>?</p>",
		PropertyID: &f.propertyID,
	})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	return resp.ID
}

func TestCreateAppliesDefaults(t *testing.T) {
	f := newFixture()
	id := f.inquiry(t, caller.Caller{})
	lead := f.repo.leads[id]

	if lead.Status != domain.StatusNew {
		t.Fatalf("expected agent:New, got %v", lead.Status)
	}
	if lead.Priority != domain.PriorityMedium {
		t.Fatalf("expected medium priority, got %q", lead.Priority)
	}
	if lead.Source != domain.SourceWebsiteForm {
		t.Fatalf("expected Website Form, got %q", lead.Source)
	}
	if lead.Message != "Is the loft still available?" {
		t.Fatalf("message not sanitized: %q", lead.Message)
	}
	if lead.Phone == nil || *lead.Phone != "+16502530000" {
		t.Fatalf("phone not normalized: %v", lead.Phone)
	}
	if lead.Email != "sam@example.com" {
		t.Fatalf("email not normalized: %q", lead.Email)
	}
	if !lead.OwnedBy(f.agentID) {
		t.Fatalf("lead should be owned by the property's agent")
	}
	if lead.SubmitterID != nil {
		t.Fatalf("anonymous inquiry must not record a submitter")
	}
	if len(f.bus.published) != 1 {
		t.Fatalf("expected LeadCreated, got %d events", len(f.bus.published))
	}
}

func TestAgentSnapshotIsFrozenAtCreation(t *testing.T) {
	f := newFixture()
	id := f.inquiry(t, caller.Caller{})

	f.agents[f.agentID] = domain.AgentSnapshot{Name: "Dana Renamed"}
	admin := caller.New(uuid.New(), caller.RoleAdmin)
	resp, err := f.svc.Get(context.Background(), admin, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.Agent.Name != "Dana Agent" {
		t.Fatalf("snapshot should not follow profile edits, got %q", resp.Agent.Name)
	}
}

func TestCreateRejectsUnknownProperty(t *testing.T) {
	f := newFixture()
	missing := uuid.New()
	_, err := f.svc.Create(context.Background(), caller.Caller{}, transport.CreateLeadRequest{
		Name: "Sam", Email: "sam@example.com", Message: "hello", PropertyID: &missing,
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetStatusAcceptsAnyMemberFromAnyState(t *testing.T) {
	f := newFixture()
	id := f.inquiry(t, caller.Caller{})
	agent := caller.New(f.agentID, caller.RoleAgent)
	ctx := context.Background()

	steps := []transport.UpdateLeadStatusRequest{
		{Vocabulary: "agent", Status: "Converted"},
		{Vocabulary: "agent", Status: "New"},
		{Vocabulary: "admin", Status: "In Follow-up"},
		{Vocabulary: "agent", Status: "Lost"},
	}
	for _, step := range steps {
		resp, err := f.svc.SetStatus(ctx, agent, id, step)
		if err != nil {
			t.Fatalf("set %v: %v", step, err)
		}
		if string(resp.Status.Vocabulary) != step.Vocabulary || resp.Status.Value != step.Status {
			t.Fatalf("unexpected status %v", resp.Status)
		}
	}
}

func TestSetStatusRejectsOutsideVocabulary(t *testing.T) {
	f := newFixture()
	id := f.inquiry(t, caller.Caller{})
	admin := caller.New(uuid.New(), caller.RoleAdmin)

	for _, req := range []transport.UpdateLeadStatusRequest{
		{Vocabulary: "agent", Status: "Archived"},
		{Vocabulary: "admin", Status: "Archived"},
		{Vocabulary: "admin", Status: "Contacted"},
		{Vocabulary: "crm", Status: "New"},
	} {
		_, err := f.svc.SetStatus(context.Background(), admin, id, req)
		if !apperr.Is(err, apperr.KindInvalidStatus) {
			t.Fatalf("%v: expected invalid status, got %v", req, err)
		}
	}
	if f.repo.leads[id].Status != domain.StatusNew {
		t.Fatalf("status must be unchanged after rejected writes")
	}
}

func TestSetStatusAuthorization(t *testing.T) {
	f := newFixture()
	id := f.inquiry(t, caller.Caller{})
	req := transport.UpdateLeadStatusRequest{Vocabulary: "agent", Status: "Hot"}
	ctx := context.Background()

	if _, err := f.svc.SetStatus(ctx, caller.Caller{}, id, req); !apperr.Is(err, apperr.KindUnauthenticated) {
		t.Fatalf("anonymous: expected unauthenticated, got %v", err)
	}
	client := caller.New(uuid.New(), caller.RoleClient)
	if _, err := f.svc.SetStatus(ctx, client, id, req); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("client: expected forbidden, got %v", err)
	}
	stranger := caller.New(uuid.New(), caller.RoleAgent)
	if _, err := f.svc.SetStatus(ctx, stranger, id, req); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("other agent: expected forbidden, got %v", err)
	}
	if _, err := f.svc.SetStatus(ctx, caller.New(uuid.New(), caller.RoleAdmin), uuid.New(), req); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("missing lead: expected not found, got %v", err)
	}
}

func TestSetStatusPublishesTransition(t *testing.T) {
	f := newFixture()
	id := f.inquiry(t, caller.Caller{})
	agent := caller.New(f.agentID, caller.RoleAgent)

	if _, err := f.svc.SetStatus(context.Background(), agent, id, transport.UpdateLeadStatusRequest{Vocabulary: "agent", Status: "Contacted"}); err != nil {
		t.Fatalf("set status: %v", err)
	}
	last, ok := f.bus.published[len(f.bus.published)-1].(events.LeadStatusChanged)
	if !ok {
		t.Fatalf("expected LeadStatusChanged, got %T", f.bus.published[len(f.bus.published)-1])
	}
	if last.FromStatus != "New" || last.ToStatus != "Contacted" || last.ActorID != f.agentID {
		t.Fatalf("unexpected event %+v", last)
	}
}

func TestClientSeesOnlyOwnSubmission(t *testing.T) {
	f := newFixture()
	client := caller.New(uuid.New(), caller.RoleClient)
	id := f.inquiry(t, client)
	ctx := context.Background()

	if _, err := f.svc.Get(ctx, client, id); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("client must not read the staff view, got %v", err)
	}
	mine, err := f.svc.GetSubmission(ctx, client, id)
	if err != nil || mine.ID != id {
		t.Fatalf("submission: %+v %v", mine, err)
	}
	other := caller.New(uuid.New(), caller.RoleClient)
	if _, err := f.svc.GetSubmission(ctx, other, id); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("other client: expected not found, got %v", err)
	}

	list, err := f.svc.ListSubmissions(ctx, client)
	if err != nil || len(list.Items) != 1 {
		t.Fatalf("list submissions: %+v %v", list, err)
	}
}

func TestListScopesAgentsToOwnLeads(t *testing.T) {
	f := newFixture()
	f.inquiry(t, caller.Caller{})
	stranger := caller.New(uuid.New(), caller.RoleAgent)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, stranger, transport.CreateLeadRequest{Name: "Walk-in", Email: "w@example.com", Message: "hi", Source: "Direct"}); err != nil {
		t.Fatalf("agent create: %v", err)
	}

	owned, err := f.svc.List(ctx, caller.New(f.agentID, caller.RoleAgent), transport.ListLeadsRequest{})
	if err != nil || owned.Total != 1 {
		t.Fatalf("owner list: %+v %v", owned, err)
	}
	all, err := f.svc.List(ctx, caller.New(uuid.New(), caller.RoleAdmin), transport.ListLeadsRequest{})
	if err != nil || all.Total != 2 {
		t.Fatalf("admin list: %+v %v", all, err)
	}
	if _, err := f.svc.List(ctx, stranger, transport.ListLeadsRequest{Vocabulary: "agent", Status: "Archived"}); !apperr.Is(err, apperr.KindInvalidStatus) {
		t.Fatalf("expected invalid status filter, got %v", err)
	}
}

func TestAddNoteUsesServiceClock(t *testing.T) {
	f := newFixture()
	fixed := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }
	id := f.inquiry(t, caller.Caller{})
	admin := caller.New(uuid.New(), caller.RoleAdmin)

	note, err := f.svc.AddNote(context.Background(), admin, id, transport.AddNoteRequest{Body: "Called, left voicemail"})
	if err != nil {
		t.Fatalf("add note: %v", err)
	}
	if !note.CreatedAt.Equal(fixed) {
		t.Fatalf("expected %v, got %v", fixed, note.CreatedAt)
	}

	resp, err := f.svc.Get(context.Background(), admin, id)
	if err != nil || len(resp.Notes) != 1 {
		t.Fatalf("expected one note: %+v %v", resp.Notes, err)
	}
}

func TestStatusesDescribesBothVocabularies(t *testing.T) {
	f := newFixture()
	resp := f.svc.Statuses()
	if len(resp.Vocabularies) != 2 {
		t.Fatalf("expected two vocabularies, got %d", len(resp.Vocabularies))
	}
	first := resp.Vocabularies[0].Statuses[0]
	if first.Value != "New" || first.SuggestedNext == nil || *first.SuggestedNext != "Contacted" {
		t.Fatalf("unexpected first option %+v", first)
	}
}
