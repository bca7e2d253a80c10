// Package domain holds the property record and its invariants.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the listing state of a property.
type Status string

const (
	StatusForSale Status = "For Sale"
	StatusForRent Status = "For Rent"
	StatusSold    Status = "Sold"
	StatusRented  Status = "Rented"
)

// Statuses lists every listing status in display order.
var Statuses = []Status{StatusForSale, StatusForRent, StatusSold, StatusRented}

// ParseStatus matches s against the listing statuses, ignoring case.
func ParseStatus(s string) (Status, bool) {
	for _, status := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(status)) {
			return status, true
		}
	}
	return "", false
}

// Property is a catalog listing.
type Property struct {
	ID          uuid.UUID
	Title       string
	Description string
	Address     string
	City        string
	Price       int64
	Beds        int
	Baths       int
	Area        int
	Status      Status
	Type        string
	Amenities   []string
	Features    []string
	Featured    bool
	AgentID     *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var (
	ErrNegativePrice  = errors.New("price must not be negative")
	ErrNegativeArea   = errors.New("area must not be negative")
	ErrNegativeRooms  = errors.New("beds and baths must not be negative")
	ErrUnknownStatus  = errors.New("unknown listing status")
	ErrMissingTitle   = errors.New("title is required")
	ErrMissingAddress = errors.New("address is required")
)

// Validate checks the record invariants.
func (p Property) Validate() error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return ErrMissingTitle
	case strings.TrimSpace(p.Address) == "":
		return ErrMissingAddress
	case p.Price < 0:
		return ErrNegativePrice
	case p.Area < 0:
		return ErrNegativeArea
	case p.Beds < 0 || p.Baths < 0:
		return ErrNegativeRooms
	}
	if _, ok := ParseStatus(string(p.Status)); !ok {
		return ErrUnknownStatus
	}
	return nil
}

// Tags returns amenities followed by features. The result is a new slice.
func (p Property) Tags() []string {
	tags := make([]string, 0, len(p.Amenities)+len(p.Features))
	tags = append(tags, p.Amenities...)
	return append(tags, p.Features...)
}
