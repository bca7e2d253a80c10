package transport

import (
	"time"

	"estate_portal_backend/internal/favorites/ports"

	"github.com/google/uuid"
)

type AddResponse struct {
	Added bool `json:"added"`
}

type RemoveResponse struct {
	Removed bool `json:"removed"`
}

type ToggleResponse struct {
	Favorite bool `json:"favorite"`
}

type FavoriteItem struct {
	PropertyID uuid.UUID      `json:"propertyId"`
	SavedAt    time.Time      `json:"savedAt"`
	Property   ports.Property `json:"property"`
}

type ListResponse struct {
	Items       []FavoriteItem `json:"items"`
	PropertyIDs []uuid.UUID    `json:"propertyIds"`
}
