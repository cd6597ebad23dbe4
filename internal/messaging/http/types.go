package http

import (
	"github.com/global-courier-network/gcn-backend/internal/events"
	"github.com/global-courier-network/gcn-backend/internal/messaging/service"
)

// Handler handles HTTP requests for conversation threads
type Handler struct {
	messaging *service.MessagingService
	events    *events.Publisher
}

// New creates a new Handler
func New(messaging *service.MessagingService, events *events.Publisher) *Handler {
	return &Handler{
		messaging: messaging,
		events:    events,
	}
}
