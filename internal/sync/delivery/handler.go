package delivery

import (
	"errors"
	"net/http"

	"lifehub-backend/internal/sync"
	"lifehub-backend/pkg/remote"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	orchestrator *sync.Orchestrator
}

func NewSyncHandler(orchestrator *sync.Orchestrator) *SyncHandler {
	return &SyncHandler{orchestrator: orchestrator}
}

func (h *SyncHandler) SyncMail(c *gin.Context) {
	userID := c.GetString("userID")

	summary, err := h.orchestrator.SyncMail(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *SyncHandler) SyncCalendar(c *gin.Context) {
	userID := c.GetString("userID")

	summary, err := h.orchestrator.SyncCalendar(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *SyncHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sync.ErrNotConnected):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case remote.IsAuth(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "reconnect required", "detail": err.Error()})
	case remote.IsRateLimited(err):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "provider rate limited, try again later"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
