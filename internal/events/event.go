// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"estate_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Catalog Domain Events
// =============================================================================

// Property change operations.
const (
	PropertyCreated = "created"
	PropertyUpdated = "updated"
	PropertyDeleted = "deleted"
)

// PropertyChanged is published after any catalog write.
type PropertyChanged struct {
	BaseEvent
	PropertyID uuid.UUID `json:"propertyId"`
	Operation  string    `json:"operation"`
}

func (e PropertyChanged) EventName() string { return "catalog.property.changed" }

// =============================================================================
// Favorites Domain Events
// =============================================================================

// FavoriteChanged is published when an entry is actually added or removed.
type FavoriteChanged struct {
	BaseEvent
	OwnerID    uuid.UUID `json:"ownerId"`
	PropertyID uuid.UUID `json:"propertyId"`
	Favorite   bool      `json:"favorite"`
}

func (e FavoriteChanged) EventName() string { return "favorites.changed" }

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when an inquiry becomes a lead.
type LeadCreated struct {
	BaseEvent
	LeadID      uuid.UUID  `json:"leadId"`
	PropertyID  *uuid.UUID `json:"propertyId,omitempty"`
	AgentID     *uuid.UUID `json:"agentId,omitempty"`
	SubmitterID *uuid.UUID `json:"submitterId,omitempty"`
	Source      string     `json:"source"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStatusChanged is published on every status write.
type LeadStatusChanged struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	ActorID        uuid.UUID `json:"actorId"`
	FromVocabulary string    `json:"fromVocabulary"`
	FromStatus     string    `json:"fromStatus"`
	ToVocabulary   string    `json:"toVocabulary"`
	ToStatus       string    `json:"toStatus"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// LeadNoteAdded is published when a note is appended to a lead.
type LeadNoteAdded struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	NoteID   uuid.UUID `json:"noteId"`
	AuthorID uuid.UUID `json:"authorId"`
}

func (e LeadNoteAdded) EventName() string { return "leads.note.added" }

// =============================================================================
// Tour Domain Events
// =============================================================================

// TourScheduled is published when a tour is booked.
type TourScheduled struct {
	BaseEvent
	TourID      uuid.UUID  `json:"tourId"`
	PropertyID  uuid.UUID  `json:"propertyId"`
	ClientID    uuid.UUID  `json:"clientId"`
	AgentID     *uuid.UUID `json:"agentId,omitempty"`
	LeadID      *uuid.UUID `json:"leadId,omitempty"`
	ScheduledAt time.Time  `json:"scheduledAt"`
}

func (e TourScheduled) EventName() string { return "tours.tour.scheduled" }

// TourStatusChanged is published when a tour reaches a terminal state.
type TourStatusChanged struct {
	BaseEvent
	TourID    uuid.UUID `json:"tourId"`
	ActorID   uuid.UUID `json:"actorId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
}

func (e TourStatusChanged) EventName() string { return "tours.tour.status_changed" }

// TourReminderDue is published by the scheduler when a tour is coming up.
type TourReminderDue struct {
	BaseEvent
	TourID      uuid.UUID  `json:"tourId"`
	ClientID    uuid.UUID  `json:"clientId"`
	AgentID     *uuid.UUID `json:"agentId,omitempty"`
	ScheduledAt time.Time  `json:"scheduledAt"`
}

func (e TourReminderDue) EventName() string { return "tours.tour.reminder_due" }
