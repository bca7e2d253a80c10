package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"estate_portal_backend/internal/events"
	"estate_portal_backend/internal/scheduler"
	"estate_portal_backend/internal/shared/caller"
	"estate_portal_backend/internal/tours/domain"
	"estate_portal_backend/internal/tours/repository"
	"estate_portal_backend/internal/tours/transport"
	"estate_portal_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu    sync.Mutex
	tours map[uuid.UUID]domain.Tour
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tours: map[uuid.UUID]domain.Tour{}}
}

func (f *fakeRepo) Create(_ context.Context, p repository.CreateParams) (domain.Tour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tour := domain.Tour{
		ID: uuid.New(), PropertyID: p.PropertyID, ClientID: p.ClientID, AgentID: p.AgentID, LeadID: p.LeadID,
		ScheduledDate: p.ScheduledDate, ScheduledTime: p.ScheduledTime, Status: domain.StatusScheduled,
		Notes: p.Notes, CreatedAt: time.Now(),
	}
	f.tours[tour.ID] = tour
	return tour, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Tour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tour, ok := f.tours[id]
	if !ok {
		return domain.Tour{}, repository.ErrNotFound
	}
	return tour, nil
}

func (f *fakeRepo) List(_ context.Context, p repository.ListParams) ([]domain.Tour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Tour{}
	for _, tour := range f.tours {
		if p.AgentID != nil && (tour.AgentID == nil || *tour.AgentID != *p.AgentID) {
			continue
		}
		if p.ClientID != nil && tour.ClientID != *p.ClientID {
			continue
		}
		if p.Status != nil && tour.Status != *p.Status {
			continue
		}
		if p.From != nil && tour.ScheduledDate.Before(*p.From) {
			continue
		}
		out = append(out, tour)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt().Before(out[j].ScheduledAt()) })
	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) (domain.Tour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tour, ok := f.tours[id]
	if !ok || tour.Status != domain.StatusScheduled {
		return domain.Tour{}, repository.ErrNotScheduled
	}
	tour.Status = status
	f.tours[id] = tour
	return tour, nil
}

type fakeProperties map[uuid.UUID]*uuid.UUID

func (f fakeProperties) PropertyAgent(_ context.Context, id uuid.UUID) (*uuid.UUID, error) {
	return f[id], nil
}

type fakeLeads map[uuid.UUID]bool

func (f fakeLeads) LeadExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f[id], nil
}

type recordingReminders struct {
	runAt []time.Time
	err   error
}

func (r *recordingReminders) ScheduleTourReminder(_ context.Context, _ scheduler.TourReminderPayload, runAt time.Time) error {
	r.runAt = append(r.runAt, runAt)
	return r.err
}

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) count(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.published {
		if e.EventName() == name {
			n++
		}
	}
	return n
}

var fixedNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc        *Service
	repo       *fakeRepo
	bus        *recordingBus
	reminders  *recordingReminders
	agentID    uuid.UUID
	propertyID uuid.UUID
	client     caller.Caller
}

func newFixture() fixture {
	agentID := uuid.New()
	propertyID := uuid.New()
	repo := newFakeRepo()
	bus := &recordingBus{}
	reminders := &recordingReminders{}

	svc := New(repo, bus, 24*time.Hour, nil)
	svc.now = func() time.Time { return fixedNow }
	svc.SetPropertyReader(fakeProperties{propertyID: &agentID})
	svc.SetLeadReader(fakeLeads{})
	svc.SetReminderScheduler(reminders)

	return fixture{
		svc: svc, repo: repo, bus: bus, reminders: reminders,
		agentID: agentID, propertyID: propertyID,
		client: caller.New(uuid.New(), caller.RoleClient),
	}
}

func (f fixture) book(t *testing.T, date, clock string) transport.TourResponse {
	t.Helper()
	tour, err := f.svc.Create(context.Background(), f.client, transport.CreateTourRequest{
		PropertyID: f.propertyID, ScheduledDate: date, ScheduledTime: clock,
	})
	if err != nil {
		t.Fatalf("create tour: %v", err)
	}
	return tour
}

func TestCreateResolvesAgentAndSchedulesReminder(t *testing.T) {
	f := newFixture()
	tour := f.book(t, "2026-10-20", "15:00")

	if tour.Status != domain.StatusScheduled {
		t.Fatalf("expected scheduled, got %q", tour.Status)
	}
	if tour.AgentID == nil || *tour.AgentID != f.agentID {
		t.Fatalf("agent should come from the property")
	}
	if tour.ClientID != f.client.ID {
		t.Fatalf("client should default to the caller")
	}
	want := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	if len(f.reminders.runAt) != 1 || !f.reminders.runAt[0].Equal(want) {
		t.Fatalf("expected reminder at %v, got %v", want, f.reminders.runAt)
	}
	if f.bus.count(events.TourScheduled{}.EventName()) != 1 {
		t.Fatalf("expected TourScheduled")
	}
}

func TestCreateUnknownPropertyHasNoAgent(t *testing.T) {
	f := newFixture()
	tour, err := f.svc.Create(context.Background(), f.client, transport.CreateTourRequest{
		PropertyID: uuid.New(), ScheduledDate: "2026-10-20", ScheduledTime: "10:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tour.AgentID != nil {
		t.Fatalf("expected no agent, got %v", tour.AgentID)
	}
}

func TestCreateReminderFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture()
	f.reminders.err = errors.New("redis down")
	f.book(t, "2026-10-20", "15:00")
	if len(f.repo.tours) != 1 {
		t.Fatalf("tour should be stored despite reminder failure")
	}
}

func TestCreateSkipsReminderWhenTooLate(t *testing.T) {
	f := newFixture()
	f.book(t, "2026-10-14", "18:00")
	if len(f.reminders.runAt) != 0 {
		t.Fatalf("reminder time already passed, nothing should be queued")
	}
}

func TestCreateRequiresExistingLead(t *testing.T) {
	f := newFixture()
	leadID := uuid.New()
	_, err := f.svc.Create(context.Background(), f.client, transport.CreateTourRequest{
		PropertyID: f.propertyID, ScheduledDate: "2026-10-20", ScheduledTime: "10:00", LeadID: &leadID,
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPastDatesAllowedUnlessHookInstalled(t *testing.T) {
	f := newFixture()
	f.book(t, "2026-01-05", "10:00")

	f.svc.SetDateValidator(domain.RejectPastDates)
	_, err := f.svc.Create(context.Background(), f.client, transport.CreateTourRequest{
		PropertyID: f.propertyID, ScheduledDate: "2026-01-05", ScheduledTime: "10:00",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStaffMustNameClient(t *testing.T) {
	f := newFixture()
	agent := caller.New(f.agentID, caller.RoleAgent)
	_, err := f.svc.Create(context.Background(), agent, transport.CreateTourRequest{
		PropertyID: f.propertyID, ScheduledDate: "2026-10-20", ScheduledTime: "10:00",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetStatusTerminalStates(t *testing.T) {
	f := newFixture()
	tour := f.book(t, "2026-10-20", "15:00")
	agent := caller.New(f.agentID, caller.RoleAgent)
	ctx := context.Background()

	if _, err := f.svc.SetStatus(ctx, agent, tour.ID, transport.UpdateTourStatusRequest{Status: "completed"}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	for _, target := range []string{"cancelled", "completed", "scheduled", "archived"} {
		_, err := f.svc.SetStatus(ctx, agent, tour.ID, transport.UpdateTourStatusRequest{Status: target})
		if !apperr.Is(err, apperr.KindTerminalState) {
			t.Fatalf("%s after completed: expected terminal state violation, got %v", target, err)
		}
	}
	if f.bus.count(events.TourStatusChanged{}.EventName()) != 1 {
		t.Fatalf("only the first transition should publish")
	}
}

func TestSetStatusInvalidTarget(t *testing.T) {
	f := newFixture()
	tour := f.book(t, "2026-10-20", "15:00")
	admin := caller.New(uuid.New(), caller.RoleAdmin)

	for _, target := range []string{"scheduled", "archived"} {
		_, err := f.svc.SetStatus(context.Background(), admin, tour.ID, transport.UpdateTourStatusRequest{Status: target})
		if !apperr.Is(err, apperr.KindInvalidStatus) {
			t.Fatalf("%s: expected invalid status, got %v", target, err)
		}
	}
}

func TestClientMayOnlyCancelOwnTour(t *testing.T) {
	f := newFixture()
	tour := f.book(t, "2026-10-20", "15:00")
	ctx := context.Background()

	if _, err := f.svc.SetStatus(ctx, f.client, tour.ID, transport.UpdateTourStatusRequest{Status: "completed"}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("client complete: expected forbidden, got %v", err)
	}
	other := caller.New(uuid.New(), caller.RoleClient)
	if _, err := f.svc.SetStatus(ctx, other, tour.ID, transport.UpdateTourStatusRequest{Status: "cancelled"}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("other client: expected forbidden, got %v", err)
	}
	resp, err := f.svc.SetStatus(ctx, f.client, tour.ID, transport.UpdateTourStatusRequest{Status: "cancelled"})
	if err != nil || resp.Status != domain.StatusCancelled {
		t.Fatalf("client cancel: %+v %v", resp, err)
	}
}

func TestConcurrentTerminalWritesHaveOneWinner(t *testing.T) {
	f := newFixture()
	tour := f.book(t, "2026-10-20", "15:00")
	admin := caller.New(uuid.New(), caller.RoleAdmin)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := "completed"
			if i%2 == 0 {
				target = "cancelled"
			}
			_, errs[i] = f.svc.SetStatus(context.Background(), admin, tour.ID, transport.UpdateTourStatusRequest{Status: target})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case !apperr.Is(err, apperr.KindTerminalState):
			t.Fatalf("unexpected error %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}

func TestStatsCountsISOWeekAndUpcoming(t *testing.T) {
	f := newFixture()
	f.book(t, "2026-10-12", "10:00")
	f.book(t, "2026-10-16", "10:00")
	f.book(t, "2026-10-25", "10:00")
	done := f.book(t, "2026-10-13", "10:00")
	admin := caller.New(uuid.New(), caller.RoleAdmin)
	if _, err := f.svc.SetStatus(context.Background(), admin, done.ID, transport.UpdateTourStatusRequest{Status: "completed"}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	stats, err := f.svc.Stats(context.Background(), f.client)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := domain.Stats{Total: 4, Scheduled: 3, Completed: 1, ThisWeek: 2}
	if stats.Stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats.Stats)
	}
	// 10-12 is before today, so only the two later scheduled tours are upcoming.
	if len(stats.Upcoming) != 2 || stats.Upcoming[0].ScheduledDate != "2026-10-16" {
		t.Fatalf("unexpected upcoming %+v", stats.Upcoming)
	}
}

func TestListIsScopedByRole(t *testing.T) {
	f := newFixture()
	f.book(t, "2026-10-20", "15:00")
	ctx := context.Background()

	stranger := caller.New(uuid.New(), caller.RoleAgent)
	if list, _ := f.svc.List(ctx, stranger); list.Total != 0 {
		t.Fatalf("other agent should see nothing, got %d", list.Total)
	}
	if list, _ := f.svc.List(ctx, caller.New(f.agentID, caller.RoleAgent)); list.Total != 1 {
		t.Fatalf("owning agent should see the tour, got %d", list.Total)
	}
	if list, _ := f.svc.List(ctx, caller.New(uuid.New(), caller.RoleAdmin)); list.Total != 1 {
		t.Fatalf("admin should see the tour, got %d", list.Total)
	}
}

func TestHandleTourReminderRechecksStatus(t *testing.T) {
	f := newFixture()
	tour := f.book(t, "2026-10-20", "15:00")
	ctx := context.Background()

	sent, err := f.svc.HandleTourReminder(ctx, tour.ID)
	if err != nil || !sent {
		t.Fatalf("expected reminder to be sent: %v %v", sent, err)
	}
	if _, err := f.svc.SetStatus(ctx, f.client, tour.ID, transport.UpdateTourStatusRequest{Status: "cancelled"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	sent, err = f.svc.HandleTourReminder(ctx, tour.ID)
	if err != nil || sent {
		t.Fatalf("cancelled tour must not be reminded: %v %v", sent, err)
	}
	if f.bus.count(events.TourReminderDue{}.EventName()) != 1 {
		t.Fatalf("expected exactly one TourReminderDue")
	}
	if sent, err := f.svc.HandleTourReminder(ctx, uuid.New()); err != nil || sent {
		t.Fatalf("missing tour: %v %v", sent, err)
	}
}
