package api

import (
	authDelivery "lifehub-backend/internal/auth/delivery"
	authUsecase "lifehub-backend/internal/auth/usecase"
	connectionDelivery "lifehub-backend/internal/connection/delivery"
	emailDelivery "lifehub-backend/internal/email/delivery"
	eventDelivery "lifehub-backend/internal/event/delivery"
	syncDelivery "lifehub-backend/internal/sync/delivery"
	taskDelivery "lifehub-backend/internal/task/delivery"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase       authUsecase.AuthUsecase
	authHandler       *authDelivery.AuthHandler
	emailHandler      *emailDelivery.EmailHandler
	eventHandler      *eventDelivery.EventHandler
	taskHandler       *taskDelivery.TaskHandler
	connectionHandler *connectionDelivery.ConnectionHandler
	syncHandler       *syncDelivery.SyncHandler
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	emailHandler *emailDelivery.EmailHandler,
	eventHandler *eventDelivery.EventHandler,
	taskHandler *taskDelivery.TaskHandler,
	connectionHandler *connectionDelivery.ConnectionHandler,
	syncHandler *syncDelivery.SyncHandler,
) *Handler {
	return &Handler{
		authUsecase:       authUc,
		authHandler:       authDelivery.NewAuthHandler(authUc),
		emailHandler:      emailHandler,
		eventHandler:      eventHandler,
		taskHandler:       taskHandler,
		connectionHandler: connectionHandler,
		syncHandler:       syncHandler,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.authHandler, h.emailHandler, h.eventHandler, h.taskHandler, h.connectionHandler, h.syncHandler)

	return r.Run(addr)
}
