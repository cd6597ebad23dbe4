package http

import (
	"github.com/redis/go-redis/v9"

	"github.com/global-courier-network/gcn-backend/internal/items/service"
)

// Handler handles HTTP requests for shipping items
type Handler struct {
	lifecycle *service.LifecycleService
	stats     *redis.Client
}

// New creates a new Handler
func New(lifecycle *service.LifecycleService, stats *redis.Client) *Handler {
	return &Handler{
		lifecycle: lifecycle,
		stats:     stats,
	}
}
