package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/arnavshah/council-api-go/pkg/auth"
	"github.com/arnavshah/council-api-go/pkg/council"
	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/guard"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const userKey = "user"

// Handler contains dependencies for the route handlers
type Handler struct {
	DB     *gorm.DB
	Svc    *council.Service
	Tokens *auth.TokenIssuer
	Logger *zap.Logger
}

// New wires a Handler around db
func New(db *gorm.DB, tokens *auth.TokenIssuer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		DB:     db,
		Svc:    council.NewService(db, logger),
		Tokens: tokens,
		Logger: logger,
	}
}

// AuthMiddleware verifies the bearer token and loads the acting user
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			fail(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		// Strip "Bearer " if present
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := h.Tokens.VerifyToken(token)
		if err != nil {
			fail(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		user, err := h.Svc.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if council.IsKind(err, council.KindNotFound) {
				fail(c, http.StatusUnauthorized, "Not authorized, user not found")
				return
			}
			h.writeError(c, err)
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// AdminOnly lets only admins through. It must run after AuthMiddleware.
func (h *Handler) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !guard.IsAdmin(currentUser(c)) {
			fail(c, http.StatusForbidden, "Access denied. Admin only.")
			return
		}
		c.Next()
	}
}

// CouncilOnly lets only council members through. It must run after AuthMiddleware.
func (h *Handler) CouncilOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !guard.IsCouncilMember(currentUser(c)) {
			fail(c, http.StatusForbidden, "Access denied. Council members only.")
			return
		}
		c.Next()
	}
}

// Health reports whether the database is reachable
func (h *Handler) Health(c *gin.Context) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		h.Logger.Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Council API is running"})
}

func currentUser(c *gin.Context) *database.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*database.User)
	return user
}

// fail aborts with the failure envelope
func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// respond writes the success envelope. Slices also get a count.
func respond(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
		if v := reflect.ValueOf(data); v.Kind() == reflect.Slice {
			body["count"] = v.Len()
		}
	}
	c.JSON(status, body)
}

// writeError maps a council error to its status code. Internal causes are
// logged and never sent to the client.
func (h *Handler) writeError(c *gin.Context, err error) {
	var ce *council.Error
	if !errors.As(err, &ce) {
		ce = &council.Error{Kind: council.KindInternal, Message: "Internal server error", Err: err}
	}

	status := http.StatusInternalServerError
	switch ce.Kind {
	case council.KindValidation, council.KindConflict:
		status = http.StatusBadRequest
	case council.KindNotFound:
		status = http.StatusNotFound
	case council.KindForbidden:
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		h.Logger.Error(ce.Message,
			zap.String("path", c.FullPath()),
			zap.Error(ce.Err))
		_ = c.Error(err)
		c.JSON(status, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"success": false, "message": ce.Message})
}

// badRequest reports a body that failed to bind
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body", "error": err.Error()})
}

// paramID parses the named path parameter as an id, answering 400 when it is not one
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
