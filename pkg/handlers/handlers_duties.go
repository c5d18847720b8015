package handlers

import (
	"net/http"

	"github.com/arnavshah/council-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// ListDuties returns every duty with live references
func (h *Handler) ListDuties(c *gin.Context) {
	duties, err := h.Svc.ListDuties(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", duties)
}

// MyDuties returns the caller's duties
func (h *Handler) MyDuties(c *gin.Context) {
	duties, err := h.Svc.MyDuties(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", duties)
}

// DutiesByEvent returns the duties on one event
func (h *Handler) DutiesByEvent(c *gin.Context) {
	eventID, ok := paramID(c, "eventId")
	if !ok {
		return
	}

	duties, err := h.Svc.DutiesByEvent(c.Request.Context(), currentUser(c), eventID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", duties)
}

// CreateDuty assigns a student to an event
func (h *Handler) CreateDuty(c *gin.Context) {
	var req models.DutyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	duty, err := h.Svc.CreateDuty(c.Request.Context(), currentUser(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Duty assigned successfully", duty)
}

// UpdateDutyStatus changes a duty's status, optionally with feedback
func (h *Handler) UpdateDutyStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.DutyStatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	duty, err := h.Svc.TransitionDuty(c.Request.Context(), currentUser(c), id, req.Status, req.Feedback)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Duty status updated successfully", duty)
}

// DeleteDuty removes one duty
func (h *Handler) DeleteDuty(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Svc.DeleteDuty(c.Request.Context(), currentUser(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Duty deleted successfully", nil)
}

// CleanupOrphans deletes duties with dangling references
func (h *Handler) CleanupOrphans(c *gin.Context) {
	removed, err := h.Svc.CleanupOrphans(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Orphaned duties cleaned up",
		"deletedCount": removed,
	})
}
