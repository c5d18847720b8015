package routes

import (
	"net/http"

	"github.com/arnavshah/council-api-go/pkg/handlers"
	"github.com/gin-gonic/gin"
)

// Setup registers every API route on r
func Setup(r *gin.Engine, h *handlers.Handler) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Council Duty API",
			"version": "1.0.0",
		})
	})

	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.POST("/auth/login", h.Login)

	authed := api.Group("")
	authed.Use(h.AuthMiddleware())
	authed.GET("/auth/me", h.Me)

	users := authed.Group("/users", h.AdminOnly())
	{
		users.POST("", h.CreateUser)
		users.GET("/council-members", h.CouncilMembers)
	}

	api.GET("/events", h.ListEvents)
	api.GET("/events/:id", h.GetEvent)
	events := authed.Group("/events", h.AdminOnly())
	{
		events.POST("", h.CreateEvent)
		events.PUT("/:id", h.UpdateEvent)
		events.DELETE("/:id", h.DeleteEvent)
	}

	duties := authed.Group("/duties")
	{
		duties.GET("/my-duties", h.MyDuties)
		duties.PUT("/:id", h.UpdateDutyStatus)

		admin := duties.Group("", h.AdminOnly())
		admin.GET("", h.ListDuties)
		admin.GET("/event/:eventId", h.DutiesByEvent)
		admin.POST("", h.CreateDuty)
		admin.POST("/cleanup-orphans", h.CleanupOrphans)
		admin.DELETE("/:id", h.DeleteDuty)
	}

	requests := authed.Group("/duty-requests")
	{
		requests.POST("", h.CreateRequest)
		requests.GET("/my-requests", h.MyRequests)
		requests.GET("/:id", h.GetRequest)
		requests.PUT("/:id", h.UpdateRequest)
		requests.PATCH("/:id/cancel", h.CancelRequest)
		requests.DELETE("/:id", h.DeleteRequest)

		admin := requests.Group("", h.AdminOnly())
		admin.GET("", h.ListRequests)
		admin.PATCH("/:id/review", h.ReviewRequest)
	}

	applications := authed.Group("/applications")
	{
		applications.GET("/my-application", h.MyApplication)
		applications.POST("", h.SubmitApplication)
		applications.DELETE("", h.WithdrawApplication)

		admin := applications.Group("", h.AdminOnly())
		admin.GET("", h.ListApplications)
		admin.PUT("/:id", h.ReviewApplication)
	}

	proposals := authed.Group("/event-proposals")
	{
		proposals.POST("", h.ProposeEvent)
		proposals.GET("/my-proposals", h.MyProposals)
		proposals.GET("/:id", h.GetProposal)
		proposals.PUT("/:id", h.UpdateProposal)
		proposals.DELETE("/:id", h.DeleteProposal)

		admin := proposals.Group("", h.AdminOnly())
		admin.GET("", h.ListProposals)
		admin.PATCH("/:id/review", h.ReviewProposal)
	}

	participation := authed.Group("/participation")
	{
		member := participation.Group("", h.CouncilOnly())
		member.GET("/my-participation", h.MyParticipation)
		member.POST("/:id/check-in", h.CheckIn)
		member.POST("/:id/check-out", h.CheckOut)

		admin := participation.Group("", h.AdminOnly())
		admin.POST("", h.TrackParticipation)
		admin.GET("", h.ListParticipation)
		admin.GET("/stats", h.ParticipationStats)
		admin.PATCH("/:id", h.UpdateParticipation)
		admin.PATCH("/:id/no-show", h.MarkNoShow)
	}
}
