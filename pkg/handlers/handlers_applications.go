package handlers

import (
	"net/http"

	"github.com/arnavshah/council-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// SubmitApplication files the caller's council membership application
func (h *Handler) SubmitApplication(c *gin.Context) {
	var in models.ApplicationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	app, err := h.Svc.SubmitApplication(c.Request.Context(), currentUser(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Application submitted successfully", app)
}

// MyApplication returns the caller's application
func (h *Handler) MyApplication(c *gin.Context) {
	app, err := h.Svc.MyApplication(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", app)
}

// WithdrawApplication deletes the caller's application
func (h *Handler) WithdrawApplication(c *gin.Context) {
	if err := h.Svc.WithdrawApplication(c.Request.Context(), currentUser(c)); err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Application deleted successfully", nil)
}

// ListApplications returns every application
func (h *Handler) ListApplications(c *gin.Context) {
	apps, err := h.Svc.ListApplications(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", apps)
}

// ReviewApplication approves or rejects an application
func (h *Handler) ReviewApplication(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in models.ApplicationReview
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	app, err := h.Svc.ReviewApplication(c.Request.Context(), currentUser(c), id, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Application status updated successfully", app)
}
