package handler

import (
	"net/http"

	"estate_portal_backend/internal/favorites/service"
	"estate_portal_backend/internal/shared/caller"
	"estate_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidPropertyID = "invalid property id"

// Handler handles HTTP requests for saved listings.
type Handler struct {
	svc *service.Service
}

// New creates a new favorites handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// List returns the caller's saved listings.
// GET /api/v1/favorites
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.List(c.Request.Context(), caller.FromIdentity(identity))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Add saves a listing.
// PUT /api/v1/favorites/:propertyId
func (h *Handler) Add(c *gin.Context) {
	propertyID, identity, ok := h.bind(c)
	if !ok {
		return
	}

	result, err := h.svc.Add(c.Request.Context(), caller.FromIdentity(identity), propertyID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Remove forgets a saved listing.
// DELETE /api/v1/favorites/:propertyId
func (h *Handler) Remove(c *gin.Context) {
	propertyID, identity, ok := h.bind(c)
	if !ok {
		return
	}

	result, err := h.svc.Remove(c.Request.Context(), caller.FromIdentity(identity), propertyID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Toggle flips a listing's saved state.
// POST /api/v1/favorites/:propertyId/toggle
func (h *Handler) Toggle(c *gin.Context) {
	propertyID, identity, ok := h.bind(c)
	if !ok {
		return
	}

	result, err := h.svc.Toggle(c.Request.Context(), caller.FromIdentity(identity), propertyID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) bind(c *gin.Context) (uuid.UUID, httpkit.Identity, bool) {
	propertyID, err := uuid.Parse(c.Param("propertyId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidPropertyID, nil)
		return uuid.Nil, nil, false
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.Nil, nil, false
	}
	return propertyID, identity, true
}
