package api

import (
	"net/http"

	"governance-backend/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	auth := delivery.AuthMiddleware(h.tokenUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Resolved feature set, read-only
		api.GET("/policy", auth, func(c *gin.Context) {
			c.JSON(http.StatusOK, h.features)
		})

		outreach := api.Group("/outreach")
		outreach.Use(auth)
		{
			outreach.POST("/submit", h.outreachHandler.Submit)
			outreach.GET("/queue", h.outreachHandler.GetQueue)
			outreach.POST("/queue", h.outreachHandler.UpdateQueueItem)
			outreach.GET("/queue/pending-count", h.outreachHandler.GetPendingCount)
		}

		conversations := api.Group("/conversations")
		conversations.Use(auth)
		{
			conversations.GET("", h.conversationHandler.GetConversations)
			conversations.POST("", h.conversationHandler.ImportConversation)
			conversations.PATCH("", h.conversationHandler.UpdateConversation)
		}

		rules := api.Group("/filter-rules")
		rules.Use(auth)
		{
			rules.GET("", h.filterRuleHandler.GetRules)
			rules.POST("", h.filterRuleHandler.CreateRule)
			rules.DELETE("", h.filterRuleHandler.DeleteRule)
			rules.PATCH("", h.filterRuleHandler.ToggleRule)
		}

		api.GET("/audit", auth, h.auditHandler.GetEntries)

		// Reviewer devices for push notifications
		devices := api.Group("/devices")
		devices.Use(auth)
		{
			devices.POST("", h.deviceHandler.RegisterDevice)
			devices.DELETE("/:token", h.deviceHandler.UnregisterDevice)
		}
	}
}
