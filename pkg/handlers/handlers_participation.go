package handlers

import (
	"net/http"

	"github.com/arnavshah/council-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// TrackParticipation opens an attendance record for a duty
func (h *Handler) TrackParticipation(c *gin.Context) {
	var in models.TrackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	record, err := h.Svc.TrackParticipation(c.Request.Context(), currentUser(c), in.DutyID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Participation record created", record)
}

// CheckIn stamps the caller's arrival
func (h *Handler) CheckIn(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	record, err := h.Svc.CheckIn(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Successfully checked in", record)
}

// CheckOut stamps the caller's departure
func (h *Handler) CheckOut(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	record, err := h.Svc.CheckOut(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Successfully checked out", record)
}

// UpdateParticipation lets an admin rate and annotate a record
func (h *Handler) UpdateParticipation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in models.ParticipationUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	record, err := h.Svc.AdminUpdate(c.Request.Context(), currentUser(c), id, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Participation updated successfully", record)
}

// MarkNoShow records that a member did not turn up
func (h *Handler) MarkNoShow(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	record, err := h.Svc.MarkNoShow(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Marked as no-show", record)
}

// ParticipationStats summarises records by status
func (h *Handler) ParticipationStats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}

// ListParticipation returns every record
func (h *Handler) ListParticipation(c *gin.Context) {
	records, err := h.Svc.ListParticipation(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", records)
}

// MyParticipation returns the caller's records
func (h *Handler) MyParticipation(c *gin.Context) {
	records, err := h.Svc.MyParticipation(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", records)
}
