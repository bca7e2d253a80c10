// Package domain holds the tour lifecycle: a scheduled viewing that ends
// either completed or cancelled.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is a tour's lifecycle state.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every tour status.
var Statuses = []Status{StatusScheduled, StatusCompleted, StatusCancelled}

var (
	// ErrTerminalState is returned for any change to a completed or
	// cancelled tour, including a write of the same value.
	ErrTerminalState = errors.New("tour is in a terminal state")
	// ErrInvalidStatus is returned for a target other than completed or
	// cancelled.
	ErrInvalidStatus = errors.New("invalid tour status")
	// ErrPastDate is returned by RejectPastDates.
	ErrPastDate = errors.New("tour date is in the past")
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Transition validates moving a tour from one status to another. The
// terminal check runs before the target is inspected.
func Transition(from, to Status) error {
	if from.Terminal() {
		return fmt.Errorf("%w: tour is already %s", ErrTerminalState, from)
	}
	if to != StatusCompleted && to != StatusCancelled {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	return nil
}

// Tour is a scheduled property viewing.
type Tour struct {
	ID            uuid.UUID
	PropertyID    uuid.UUID
	ClientID      uuid.UUID
	AgentID       *uuid.UUID
	LeadID        *uuid.UUID
	ScheduledDate time.Time
	ScheduledTime string
	Status        Status
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ScheduledAt combines the date and clock time in UTC.
func (t Tour) ScheduledAt() time.Time {
	at, err := CombineDateTime(t.ScheduledDate.Format(time.DateOnly), t.ScheduledTime)
	if err != nil {
		return t.ScheduledDate
	}
	return at
}

// CombineDateTime parses a YYYY-MM-DD date and an HH:MM time as UTC.
func CombineDateTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly+" 15:04", strings.TrimSpace(date)+" "+strings.TrimSpace(clock), time.UTC)
}

// DateValidator decides whether a tour may be booked at the given time.
type DateValidator func(scheduledAt, now time.Time) error

// AcceptAnyDate performs no check.
func AcceptAnyDate(time.Time, time.Time) error { return nil }

// RejectPastDates refuses tours scheduled before now.
func RejectPastDates(scheduledAt, now time.Time) error {
	if scheduledAt.Before(now) {
		return ErrPastDate
	}
	return nil
}
