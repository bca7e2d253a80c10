package transport

import (
	"time"

	"estate_portal_backend/internal/catalog/matching"

	"github.com/google/uuid"
)

// SearchPropertiesRequest binds the listing search query string. Numeric
// bounds stay strings so unparseable values are ignored instead of rejected.
type SearchPropertiesRequest struct {
	DealType     string `form:"dealType"`
	PropertyType string `form:"propertyType"`
	Keyword      string `form:"keyword" validate:"max=200"`
	Location     string `form:"location" validate:"max=200"`
	MinPrice     string `form:"minPrice"`
	MaxPrice     string `form:"maxPrice"`
	MinBeds      string `form:"minBeds"`
	MinBaths     string `form:"minBaths"`
	MinArea      string `form:"minArea"`
	MaxArea      string `form:"maxArea"`
	HasParking   bool   `form:"hasParking"`
	IsFurnished  bool   `form:"isFurnished"`
	PetFriendly  bool   `form:"petFriendly"`
	Sort         string `form:"sort"`
	Page         int    `form:"page" validate:"omitempty,min=1,max=100000"`
	PageSize     int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// Filter converts the query into a matching request.
func (r SearchPropertiesRequest) Filter() matching.FilterRequest {
	return matching.FilterRequest{
		DealType:     r.DealType,
		PropertyType: r.PropertyType,
		Keyword:      r.Keyword,
		Location:     r.Location,
		MinPrice:     r.MinPrice,
		MaxPrice:     r.MaxPrice,
		MinBeds:      r.MinBeds,
		MinBaths:     r.MinBaths,
		MinArea:      r.MinArea,
		MaxArea:      r.MaxArea,
		HasParking:   r.HasParking,
		IsFurnished:  r.IsFurnished,
		PetFriendly:  r.PetFriendly,
	}
}

type PropertyRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Address     string     `json:"address" validate:"required,min=1,max=300"`
	City        string     `json:"city" validate:"max=120"`
	Price       int64      `json:"price" validate:"min=0"`
	Beds        int        `json:"beds" validate:"min=0,max=100"`
	Baths       int        `json:"baths" validate:"min=0,max=100"`
	Area        int        `json:"area" validate:"min=0"`
	Status      string     `json:"status" validate:"required,oneof='For Sale' 'For Rent' Sold Rented"`
	Type        string     `json:"type" validate:"required,max=60"`
	Amenities   []string   `json:"amenities" validate:"max=50,dive,min=1,max=80"`
	Features    []string   `json:"features" validate:"max=50,dive,min=1,max=80"`
	Featured    bool       `json:"featured"`
	AgentID     *uuid.UUID `json:"agentId,omitempty"`
}

type PropertyResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	Price       int64      `json:"price"`
	Beds        int        `json:"beds"`
	Baths       int        `json:"baths"`
	Area        int        `json:"area"`
	Status      string     `json:"status"`
	Type        string     `json:"type"`
	Amenities   []string   `json:"amenities"`
	Features    []string   `json:"features"`
	Featured    bool       `json:"featured"`
	AgentID     *uuid.UUID `json:"agentId,omitempty"`
	IsFavorite  bool       `json:"isFavorite"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type SearchPropertiesResponse struct {
	Items      []PropertyResponse `json:"items"`
	Range      matching.Range     `json:"range"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}
