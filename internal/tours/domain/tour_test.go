package domain

import (
	"errors"
	"testing"
	"time"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want error
	}{
		{name: "complete", from: StatusScheduled, to: StatusCompleted},
		{name: "cancel", from: StatusScheduled, to: StatusCancelled},
		{name: "reschedule is not a transition", from: StatusScheduled, to: StatusScheduled, want: ErrInvalidStatus},
		{name: "unknown target", from: StatusScheduled, to: "archived", want: ErrInvalidStatus},
		{name: "completed to cancelled", from: StatusCompleted, to: StatusCancelled, want: ErrTerminalState},
		{name: "cancelled to completed", from: StatusCancelled, to: StatusCompleted, want: ErrTerminalState},
		{name: "same value on terminal", from: StatusCompleted, to: StatusCompleted, want: ErrTerminalState},
		{name: "terminal check runs first", from: StatusCancelled, to: "archived", want: ErrTerminalState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Transition(tt.from, tt.to)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestScheduledAt(t *testing.T) {
	tour := Tour{ScheduledDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), ScheduledTime: "14:30"}
	want := time.Date(2026, 5, 1, 14, 30, 0, 0, time.UTC)
	if got := tour.ScheduledAt(); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRejectPastDates(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := RejectPastDates(now.Add(-time.Minute), now); !errors.Is(err, ErrPastDate) {
		t.Fatalf("expected ErrPastDate, got %v", err)
	}
	if err := RejectPastDates(now.Add(time.Minute), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := AcceptAnyDate(now.AddDate(-1, 0, 0), now); err != nil {
		t.Fatalf("default hook must accept past dates: %v", err)
	}
}

func TestComputeStatsISOWeek(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	// Wednesday 2026-10-14; its ISO week is Mon 10-12 through Sun 10-18.
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	tours := []Tour{
		{Status: StatusScheduled, ScheduledDate: day(2026, 10, 12)},
		{Status: StatusScheduled, ScheduledDate: day(2026, 10, 18)},
		{Status: StatusScheduled, ScheduledDate: day(2026, 10, 11)},
		{Status: StatusScheduled, ScheduledDate: day(2026, 10, 19)},
		{Status: StatusCompleted, ScheduledDate: day(2026, 10, 13)},
		{Status: StatusCancelled, ScheduledDate: day(2026, 10, 14)},
	}

	got := ComputeStats(tours, now)
	want := Stats{Total: 6, Scheduled: 4, Completed: 1, Cancelled: 1, ThisWeek: 2}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestComputeStatsSundayBelongsToPreviousWeek(t *testing.T) {
	sunday := time.Date(2026, 10, 18, 22, 0, 0, 0, time.UTC)
	tours := []Tour{
		{Status: StatusScheduled, ScheduledDate: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
		{Status: StatusScheduled, ScheduledDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
	}
	if got := ComputeStats(tours, sunday).ThisWeek; got != 1 {
		t.Fatalf("expected 1 tour this week, got %d", got)
	}
}

func TestComputeStatsWeekFollowsUTCCalendar(t *testing.T) {
	// Sunday evening in UTC-5 is already Monday 2026-10-19 in UTC.
	now := time.Date(2026, 10, 18, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*60*60))
	tours := []Tour{
		{Status: StatusScheduled, ScheduledDate: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
		{Status: StatusScheduled, ScheduledDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
		{Status: StatusScheduled, ScheduledDate: time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)},
	}
	if got := ComputeStats(tours, now).ThisWeek; got != 2 {
		t.Fatalf("expected the UTC week of 10-19 to hold 2 tours, got %d", got)
	}
}
