package handlers

import (
	"net/http"

	"github.com/arnavshah/council-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// ListEvents returns every event
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.Svc.ListEvents(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", events)
}

// GetEvent returns one event
func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	event, err := h.Svc.GetEvent(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", event)
}

// CreateEvent creates an event and assigns every council member to it
func (h *Handler) CreateEvent(c *gin.Context) {
	var req models.EventInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.Svc.CreateEvent(c.Request.Context(), currentUser(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"message":        "Event created successfully",
		"data":           result.Event,
		"dutiesAssigned": result.DutiesAssigned,
	})
}

// UpdateEvent changes the fields present in the body
func (h *Handler) UpdateEvent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.EventUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	event, err := h.Svc.UpdateEvent(c.Request.Context(), currentUser(c), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Event updated successfully", event)
}

// DeleteEvent removes an event and its duties
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	removed, err := h.Svc.DeleteEvent(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Event deleted successfully",
		"dutiesRemoved": removed,
	})
}
