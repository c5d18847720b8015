package handlers

import (
	"net/http"

	"github.com/arnavshah/council-api-go/pkg/council"
	"github.com/arnavshah/council-api-go/pkg/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Login exchanges email and password for a bearer token
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if council.IsKind(err, council.KindValidation) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}
		h.writeError(c, err)
		return
	}

	token, err := h.Tokens.CreateToken(user)
	if err != nil {
		h.Logger.Error("Could not create token", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"token":      token,
		"token_type": "bearer",
		"user": gin.H{
			"id":              user.ID,
			"name":            user.Name,
			"email":           user.Email,
			"role":            user.Role,
			"isCouncilMember": user.IsCouncilMember,
		},
	})
}

// Me returns the authenticated user
func (h *Handler) Me(c *gin.Context) {
	respond(c, http.StatusOK, "", currentUser(c))
}

// CreateUser adds a user to the directory
func (h *Handler) CreateUser(c *gin.Context) {
	var req models.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.Svc.CreateUser(c.Request.Context(), currentUser(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, "User created successfully", user)
}

// CouncilMembers lists the council roster
func (h *Handler) CouncilMembers(c *gin.Context) {
	members, err := h.Svc.CouncilMembers(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", members)
}
