package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/global-courier-network/gcn-backend/internal/auth"
	"github.com/global-courier-network/gcn-backend/internal/messaging/domain"
)

// ListThreads lists the caller's conversation threads, newest first
func (h *Handler) ListThreads(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	threads, err := h.messaging.Threads(c.Request.Context(), id.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list threads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"threads": threads})
}

// GetThread retrieves thread metadata, participant-only
func (h *Handler) GetThread(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	t, err := h.messaging.Thread(c.Request.Context(), c.Param("id"), id.UID)
	if err != nil {
		h.writeThreadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"thread": t})
}

// ListMessages returns the full message log of a thread, ascending
func (h *Handler) ListMessages(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	msgs, err := h.messaging.Messages(c.Request.Context(), c.Param("id"), id.UID)
	if err != nil {
		h.writeThreadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// SendMessage appends one message to a thread
func (h *Handler) SendMessage(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg, err := h.messaging.Send(c.Request.Context(), c.Param("id"), id.UID, id.Email, body.Message)
	if err != nil {
		h.writeThreadError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sent": msg})
}

func (h *Handler) writeThreadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrThreadNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "thread not found"})
	case errors.Is(err, domain.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, domain.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "message body is required"})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many messages, slow down"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
