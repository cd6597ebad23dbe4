package http

import "github.com/gin-gonic/gin"

// Register registers the messaging routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/threads", h.ListThreads)
	rg.GET("/threads/:id", h.GetThread)
	rg.GET("/threads/:id/messages", h.ListMessages)
	rg.POST("/threads/:id/messages", h.SendMessage)
	rg.GET("/threads/:id/stream", h.StreamThreadEvents)
}
