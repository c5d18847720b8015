package handlers

import (
	"net/http"

	"github.com/arnavshah/council-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// ProposeEvent submits an event proposal
func (h *Handler) ProposeEvent(c *gin.Context) {
	var in models.ProposalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.Svc.ProposeEvent(c.Request.Context(), currentUser(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Event proposal submitted successfully", p)
}

// MyProposals returns the caller's proposals
func (h *Handler) MyProposals(c *gin.Context) {
	ps, err := h.Svc.MyProposals(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", ps)
}

// ListProposals returns every proposal
func (h *Handler) ListProposals(c *gin.Context) {
	ps, err := h.Svc.ListProposals(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", ps)
}

// GetProposal returns one proposal
func (h *Handler) GetProposal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	p, err := h.Svc.GetProposal(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", p)
}

// UpdateProposal edits a pending proposal
func (h *Handler) UpdateProposal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in models.ProposalUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.Svc.UpdateProposal(c.Request.Context(), currentUser(c), id, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Event proposal updated successfully", p)
}

// DeleteProposal withdraws a pending proposal
func (h *Handler) DeleteProposal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Svc.DeleteProposal(c.Request.Context(), currentUser(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Event proposal deleted successfully", nil)
}

// ReviewProposal records an admin decision; approval creates the event
func (h *Handler) ReviewProposal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in models.ProposalReview
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.Svc.ReviewProposal(c.Request.Context(), currentUser(c), id, in)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Event proposal " + string(in.Status) + " successfully",
		"data":           result.Proposal,
		"dutiesAssigned": result.DutiesAssigned,
	})
}
