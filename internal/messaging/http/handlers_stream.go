package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/global-courier-network/gcn-backend/internal/auth"
)

// StreamThreadEvents streams new messages on a thread using Server-Sent
// Events (SSE), backed by the thread's Pub/Sub channel
func (h *Handler) StreamThreadEvents(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	threadID := c.Param("id")
	if _, err := h.messaging.Thread(c.Request.Context(), threadID, id.UID); err != nil {
		h.writeThreadError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	ctx := c.Request.Context()

	sub := h.events.SubscribeThread(ctx, threadID)
	defer sub.Close()

	fmt.Fprint(c.Writer, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case m, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: message\ndata: %s\n\n", m.Payload)
			flusher.Flush()
		}
	}
}
