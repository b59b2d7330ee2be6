package delivery

import (
	"errors"
	"net/http"
	"strconv"

	emaildto "lifehub-backend/internal/email/dto"
	"lifehub-backend/internal/email/usecase"
	"lifehub-backend/pkg/remote"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	emailUsecase usecase.EmailUsecase
}

func NewEmailHandler(emailUsecase usecase.EmailUsecase) *EmailHandler {
	return &EmailHandler{emailUsecase: emailUsecase}
}

func (h *EmailHandler) List(c *gin.Context) {
	userID := c.GetString("userID")
	label := c.Query("label")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.emailUsecase.List(userID, label, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EmailHandler) Get(c *gin.Context) {
	userID := c.GetString("userID")

	email, err := h.emailUsecase.Get(userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

func (h *EmailHandler) GetBody(c *gin.Context) {
	userID := c.GetString("userID")

	email, err := h.emailUsecase.GetBody(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

func (h *EmailHandler) Attachments(c *gin.Context) {
	userID := c.GetString("userID")

	attachments, err := h.emailUsecase.Attachments(userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, attachments)
}

func (h *EmailHandler) DownloadAttachment(c *gin.Context) {
	userID := c.GetString("userID")

	resp, err := h.emailUsecase.DownloadAttachment(c.Request.Context(), userID, c.Param("id"), c.Param("attachmentId"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EmailHandler) Compose(c *gin.Context) {
	userID := c.GetString("userID")

	var req emaildto.ComposeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email, err := h.emailUsecase.Compose(userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, email)
}

func (h *EmailHandler) Star(c *gin.Context) {
	h.setStarred(c, true)
}

func (h *EmailHandler) Unstar(c *gin.Context) {
	h.setStarred(c, false)
}

func (h *EmailHandler) setStarred(c *gin.Context, starred bool) {
	userID := c.GetString("userID")

	email, err := h.emailUsecase.SetStarred(userID, c.Param("id"), starred)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

func (h *EmailHandler) MarkRead(c *gin.Context) {
	h.setRead(c, true)
}

func (h *EmailHandler) MarkUnread(c *gin.Context) {
	h.setRead(c, false)
}

func (h *EmailHandler) setRead(c *gin.Context, read bool) {
	userID := c.GetString("userID")

	email, err := h.emailUsecase.SetRead(userID, c.Param("id"), read)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

func (h *EmailHandler) ModifyLabels(c *gin.Context) {
	userID := c.GetString("userID")

	var req emaildto.ModifyLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email, err := h.emailUsecase.ModifyLabels(userID, c.Param("id"), req.Add, req.Remove)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

func (h *EmailHandler) Trash(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.emailUsecase.Trash(userID, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "moved to trash"})
}

func (h *EmailHandler) DraftReply(c *gin.Context) {
	userID := c.GetString("userID")

	var req emaildto.DraftReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.emailUsecase.DraftReply(c.Request.Context(), userID, c.Param("id"), req.Tone, req.Length)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, emaildto.DraftReplyResponse{Reply: reply})
}

func (h *EmailHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrEmailNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case remote.IsAuth(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "reconnect required", "detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
