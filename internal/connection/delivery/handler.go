package delivery

import (
	"net/http"

	connectiondto "lifehub-backend/internal/connection/dto"
	"lifehub-backend/internal/connection/usecase"
	"lifehub-backend/pkg/remote"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	connUsecase usecase.ConnectionUsecase
}

func NewConnectionHandler(connUsecase usecase.ConnectionUsecase) *ConnectionHandler {
	return &ConnectionHandler{connUsecase: connUsecase}
}

// AuthURL returns the provider consent URL. The userID doubles as OAuth
// state so the callback can be correlated client-side.
func (h *ConnectionHandler) AuthURL(c *gin.Context) {
	userID := c.GetString("userID")
	provider := c.Param("provider")

	url, err := h.connUsecase.AuthURL(provider, userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, connectiondto.AuthURLResponse{URL: url})
}

func (h *ConnectionHandler) ExchangeCode(c *gin.Context) {
	userID := c.GetString("userID")
	provider := c.Param("provider")

	var req connectiondto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.connUsecase.ExchangeCode(c.Request.Context(), userID, provider, req.Code)
	if err != nil {
		status := http.StatusInternalServerError
		if remote.IsAuth(err) {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, conn)
}

func (h *ConnectionHandler) Status(c *gin.Context) {
	userID := c.GetString("userID")

	status, err := h.connUsecase.Status(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	userID := c.GetString("userID")
	provider := c.Param("provider")

	if err := h.connUsecase.Disconnect(userID, provider); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "disconnected"})
}

func (h *ConnectionHandler) SetCalendars(c *gin.Context) {
	userID := c.GetString("userID")

	var req connectiondto.SetCalendarsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.connUsecase.SetCalendars(userID, req.CalendarIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, conn)
}
