package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Priority ranks how urgently a lead should be worked.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists valid priorities.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Source records the channel an inquiry arrived through.
type Source string

const (
	SourceWebsiteForm Source = "Website Form"
	SourceInstagram   Source = "Instagram"
	SourceFacebook    Source = "Facebook"
	SourceGoogleAds   Source = "Google Ads"
	SourceReferral    Source = "Referral"
	SourceDirect      Source = "Direct"
	SourceOther       Source = "Other"
)

// Sources lists valid sources.
var Sources = []Source{
	SourceWebsiteForm, SourceInstagram, SourceFacebook, SourceGoogleAds,
	SourceReferral, SourceDirect, SourceOther,
}

var (
	ErrInvalidPriority = errors.New("invalid lead priority")
	ErrInvalidSource   = errors.New("invalid lead source")
)

// ParsePriority maps an empty value to medium.
func ParsePriority(value string) (Priority, error) {
	if value == "" {
		return PriorityMedium, nil
	}
	for _, p := range Priorities {
		if string(p) == value {
			return p, nil
		}
	}
	return "", ErrInvalidPriority
}

// ParseSource maps an empty value to Website Form.
func ParseSource(value string) (Source, error) {
	if value == "" {
		return SourceWebsiteForm, nil
	}
	for _, s := range Sources {
		if string(s) == value {
			return s, nil
		}
	}
	return "", ErrInvalidSource
}

// AgentSnapshot is the owning agent's contact card as it was when the lead
// was created. Later profile edits are not reflected.
type AgentSnapshot struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Lead is a potential-customer contact record.
type Lead struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Phone       *string
	Message     string
	PropertyID  *uuid.UUID
	AgentID     *uuid.UUID
	Agent       AgentSnapshot
	SubmitterID *uuid.UUID
	Source      Source
	Priority    Priority
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether agentID is the lead's owning agent.
func (l Lead) OwnedBy(agentID uuid.UUID) bool {
	return l.AgentID != nil && *l.AgentID == agentID
}

// Note is an append-only remark on a lead.
type Note struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	AuthorID  uuid.UUID
	Body      string
	CreatedAt time.Time
}
