package http

import "github.com/gin-gonic/gin"

// Register registers the user routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/users/profile", h.RegisterProfile)
	rg.GET("/users/profile", h.GetProfile)
	rg.PATCH("/users/profile", h.UpdateProfile)
	rg.GET("/users/requests", h.ListRequests)
	rg.GET("/users/deliveries", h.ListDeliveries)
}
