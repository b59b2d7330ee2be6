package api

import (
	"net/http"

	authDelivery "lifehub-backend/internal/auth/delivery"
	authUsecase "lifehub-backend/internal/auth/usecase"
	connectionDelivery "lifehub-backend/internal/connection/delivery"
	emailDelivery "lifehub-backend/internal/email/delivery"
	eventDelivery "lifehub-backend/internal/event/delivery"
	syncDelivery "lifehub-backend/internal/sync/delivery"
	taskDelivery "lifehub-backend/internal/task/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	authUc authUsecase.AuthUsecase,
	authHandler *authDelivery.AuthHandler,
	emailHandler *emailDelivery.EmailHandler,
	eventHandler *eventDelivery.EventHandler,
	taskHandler *taskDelivery.TaskHandler,
	connectionHandler *connectionDelivery.ConnectionHandler,
	syncHandler *syncDelivery.SyncHandler,
) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
		}

		// Provider connection routes (protected)
		connections := api.Group("/connections")
		connections.Use(authDelivery.AuthMiddleware(authUc))
		{
			connections.GET("/auth-url/:provider", connectionHandler.AuthURL)
			connections.POST("/exchange/:provider", connectionHandler.ExchangeCode)
			connections.GET("/status", connectionHandler.Status)
			connections.DELETE("/:provider", connectionHandler.Disconnect)
			connections.PUT("/calendars", connectionHandler.SetCalendars)
		}

		// Email routes (protected)
		emails := api.Group("/emails")
		emails.Use(authDelivery.AuthMiddleware(authUc))
		{
			emails.GET("", emailHandler.List)
			emails.POST("", emailHandler.Compose)
			emails.POST("/sync", syncHandler.SyncMail)
			emails.POST("/reply-draft", emailHandler.DraftReply)
			emails.GET("/:id", emailHandler.Get)
			emails.GET("/:id/body", emailHandler.GetBody)
			emails.GET("/:id/attachments", emailHandler.Attachments)
			emails.GET("/:id/attachments/:attachmentId", emailHandler.DownloadAttachment)
			emails.PATCH("/:id/star", emailHandler.Star)
			emails.PATCH("/:id/unstar", emailHandler.Unstar)
			emails.PATCH("/:id/read", emailHandler.MarkRead)
			emails.PATCH("/:id/unread", emailHandler.MarkUnread)
			emails.PATCH("/:id/labels", emailHandler.ModifyLabels)
			emails.POST("/:id/trash", emailHandler.Trash)
		}

		// Calendar event routes (protected)
		events := api.Group("/events")
		events.Use(authDelivery.AuthMiddleware(authUc))
		{
			events.GET("", eventHandler.List)
			events.POST("", eventHandler.Create)
			events.POST("/sync", syncHandler.SyncCalendar)
			events.POST("/cleanup-duplicates", eventHandler.CleanupDuplicates)
			events.GET("/:id", eventHandler.Get)
			events.PUT("/:id", eventHandler.Update)
			events.DELETE("/:id", eventHandler.Delete)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(authDelivery.AuthMiddleware(authUc))
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTaskByID)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}
}
