package transport

import (
	"time"

	"estate_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Request DTOs

// CreateLeadRequest is the inbound inquiry.
type CreateLeadRequest struct {
	Name       string     `json:"name" validate:"required,min=1,max=200"`
	Email      string     `json:"email" validate:"required,email,max=254"`
	Phone      string     `json:"phone,omitempty" validate:"omitempty,min=5,max=32"`
	Message    string     `json:"message" validate:"required,min=1,max=5000"`
	PropertyID *uuid.UUID `json:"propertyId,omitempty"`
	Source     string     `json:"source,omitempty" validate:"omitempty,lead_source"`
	Priority   string     `json:"priority,omitempty" validate:"omitempty,lead_priority"`
}

// UpdateLeadStatusRequest carries a tagged status. Membership is checked
// by the lifecycle machine so that a bad value reports invalid_status.
type UpdateLeadStatusRequest struct {
	Vocabulary string `json:"vocabulary" validate:"required"`
	Status     string `json:"status" validate:"required"`
}

type UpdateLeadPriorityRequest struct {
	Priority string `json:"priority" validate:"required,lead_priority"`
}

type AddNoteRequest struct {
	Body string `json:"body" validate:"required,min=1,max=4000"`
}

type ListLeadsRequest struct {
	Vocabulary string `form:"vocabulary" validate:"omitempty,oneof=agent admin"`
	Status     string `form:"status" validate:"max=64"`
	Priority   string `form:"priority" validate:"omitempty,lead_priority"`
	Source     string `form:"source" validate:"omitempty,lead_source"`
}

// Response DTOs

type NoteResponse struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"leadId"`
	AuthorID  uuid.UUID `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// LeadResponse is the staff view of a lead.
type LeadResponse struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Phone         *string              `json:"phone,omitempty"`
	Message       string               `json:"message"`
	PropertyID    *uuid.UUID           `json:"propertyId"`
	AgentID       *uuid.UUID           `json:"agentId"`
	Agent         domain.AgentSnapshot `json:"agent"`
	SubmitterID   *uuid.UUID           `json:"submitterId,omitempty"`
	Source        domain.Source        `json:"source"`
	Priority      domain.Priority      `json:"priority"`
	Status        domain.Status        `json:"status"`
	SuggestedNext *domain.Status       `json:"suggestedNext,omitempty"`
	Notes         []NoteResponse       `json:"notes,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// SubmissionResponse is what a submitter sees of their own inquiry. It
// carries neither status nor notes.
type SubmissionResponse struct {
	ID         uuid.UUID            `json:"id"`
	Name       string               `json:"name"`
	Email      string               `json:"email"`
	Phone      *string              `json:"phone,omitempty"`
	Message    string               `json:"message"`
	PropertyID *uuid.UUID           `json:"propertyId"`
	Agent      domain.AgentSnapshot `json:"agent"`
	Source     domain.Source        `json:"source"`
	CreatedAt  time.Time            `json:"createdAt"`
}

type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

type SubmissionListResponse struct {
	Items []SubmissionResponse `json:"items"`
}

type StatusOption struct {
	Value         string  `json:"value"`
	SuggestedNext *string `json:"suggestedNext,omitempty"`
}

type VocabularyResponse struct {
	Vocabulary domain.Vocabulary `json:"vocabulary"`
	Statuses   []StatusOption    `json:"statuses"`
}

type StatusesResponse struct {
	Vocabularies []VocabularyResponse `json:"vocabularies"`
	Priorities   []domain.Priority    `json:"priorities"`
	Sources      []domain.Source      `json:"sources"`
}
