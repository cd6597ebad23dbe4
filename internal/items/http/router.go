package http

import "github.com/gin-gonic/gin"

// Register registers the item routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/items", h.CreateItem)
	rg.GET("/items/browse", h.BrowseItems)
	rg.GET("/items/:id", h.GetItem)
	rg.POST("/items/:id/accept", h.AcceptItem)
	rg.POST("/items/:id/status", h.AdvanceItem)
	rg.POST("/items/:id/cancel", h.CancelItem)
	rg.POST("/items/:id/conversation", h.RetryConversation)
	rg.GET("/items/:id/stream", h.StreamItemEvents)
}

// RegisterStats registers the marketplace stats route
func (h *Handler) RegisterStats(rg *gin.RouterGroup) {
	rg.GET("/stats/marketplace", h.MarketplaceStats)
}
