package transport

import (
	"time"

	"estate_portal_backend/internal/tours/domain"

	"github.com/google/uuid"
)

// CreateTourRequest books a viewing. Clients may omit clientId; staff
// booking on a client's behalf must supply it.
type CreateTourRequest struct {
	PropertyID    uuid.UUID  `json:"propertyId" validate:"required"`
	ClientID      *uuid.UUID `json:"clientId,omitempty"`
	ScheduledDate string     `json:"scheduledDate" validate:"required,calendar_date"`
	ScheduledTime string     `json:"scheduledTime" validate:"required,clock_time"`
	Notes         string     `json:"notes,omitempty" validate:"max=2000"`
	LeadID        *uuid.UUID `json:"leadId,omitempty"`
}

// UpdateTourStatusRequest carries the target status. It is not restricted
// here so that bad values report invalid_status.
type UpdateTourStatusRequest struct {
	Status string `json:"status" validate:"required,max=32"`
}

type TourResponse struct {
	ID            uuid.UUID     `json:"id"`
	PropertyID    uuid.UUID     `json:"propertyId"`
	ClientID      uuid.UUID     `json:"clientId"`
	AgentID       *uuid.UUID    `json:"agentId"`
	LeadID        *uuid.UUID    `json:"leadId"`
	ScheduledDate string        `json:"scheduledDate"`
	ScheduledTime string        `json:"scheduledTime"`
	ScheduledAt   time.Time     `json:"scheduledAt"`
	Status        domain.Status `json:"status"`
	Notes         string        `json:"notes"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type TourListResponse struct {
	Items []TourResponse `json:"items"`
	Total int            `json:"total"`
}

type TourStatsResponse struct {
	domain.Stats
	Upcoming []TourResponse `json:"upcoming"`
}
