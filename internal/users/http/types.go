package http

import (
	"context"

	itemsdomain "github.com/global-courier-network/gcn-backend/internal/items/domain"
	"github.com/global-courier-network/gcn-backend/internal/users/service"
)

// ItemLister exposes the per-user item views owned by the lifecycle manager.
type ItemLister interface {
	Owned(ctx context.Context, uid string) ([]itemsdomain.Item, error)
	Accepted(ctx context.Context, uid string) ([]itemsdomain.Item, error)
}

// Handler handles HTTP requests for user profiles
type Handler struct {
	profiles *service.ProfileService
	items    ItemLister
}

// New creates a new Handler
func New(profiles *service.ProfileService, items ItemLister) *Handler {
	return &Handler{
		profiles: profiles,
		items:    items,
	}
}
