package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/global-courier-network/gcn-backend/internal/auth"
)

// StreamItemEvents streams item lifecycle updates using Server-Sent Events (SSE)
func (h *Handler) StreamItemEvents(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	itemID := c.Param("id")
	it, err := h.lifecycle.Get(c.Request.Context(), id.UID, itemID)
	if err != nil {
		h.writeItemError(c, err)
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

	initialData, _ := json.Marshal(gin.H{"item": it})
	fmt.Fprintf(c.Writer, "event: initial\ndata: %s\n\n", string(initialData))
	flusher.Flush()

	ctx := c.Request.Context()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	pollTicker := time.NewTicker(1 * time.Second)
	defer pollTicker.Stop()

	lastUpdatedAt := it.UpdatedAt

	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case <-pollTicker.C:
			updated, err := h.lifecycle.Get(ctx, id.UID, itemID)
			if err != nil {
				continue
			}

			if updated.UpdatedAt.After(lastUpdatedAt) {
				lastUpdatedAt = updated.UpdatedAt

				eventData, _ := json.Marshal(gin.H{"item": updated})
				fmt.Fprintf(c.Writer, "event: update\ndata: %s\n\n", string(eventData))
				flusher.Flush()

				if updated.Status.Terminal() {
					return
				}
			}
		}
	}
}
