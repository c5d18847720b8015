package handlers

import (
	"net/http"

	"github.com/arnavshah/council-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// CreateRequest opens a change request on one of the caller's duties
func (h *Handler) CreateRequest(c *gin.Context) {
	var req models.DutyRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.Svc.CreateRequest(c.Request.Context(), currentUser(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Duty request submitted successfully", created)
}

// ListRequests returns every request
func (h *Handler) ListRequests(c *gin.Context) {
	reqs, err := h.Svc.ListRequests(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", reqs)
}

// MyRequests returns the requests on the caller's duties
func (h *Handler) MyRequests(c *gin.Context) {
	reqs, err := h.Svc.MyRequests(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", reqs)
}

// GetRequest returns one request
func (h *Handler) GetRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	req, err := h.Svc.GetRequest(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", req)
}

// ReviewRequest approves or rejects a pending request
func (h *Handler) ReviewRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in models.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	req, err := h.Svc.ReviewRequest(c.Request.Context(), currentUser(c), id, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Duty request "+string(in.Status)+" successfully", req)
}

// UpdateRequest rewrites the reason of a pending request
func (h *Handler) UpdateRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in models.ReasonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	req, err := h.Svc.UpdateRequest(c.Request.Context(), currentUser(c), id, in.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Duty request updated successfully", req)
}

// CancelRequest withdraws a pending request
func (h *Handler) CancelRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Svc.CancelRequest(c.Request.Context(), currentUser(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Duty request cancelled successfully", nil)
}

// DeleteRequest removes a request
func (h *Handler) DeleteRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Svc.DeleteRequest(c.Request.Context(), currentUser(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Duty request deleted successfully", nil)
}
