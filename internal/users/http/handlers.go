package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/global-courier-network/gcn-backend/internal/auth"
	"github.com/global-courier-network/gcn-backend/internal/users/domain"
)

// RegisterProfile creates the profile row for a first-time identity
func (h *Handler) RegisterProfile(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.profiles.Register(c.Request.Context(), id.UID, id.Email, body.Name)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateProfile) {
			c.JSON(http.StatusConflict, gin.H{"error": "profile already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"profile": p})
}

// GetProfile returns the caller's own profile
func (h *Handler) GetProfile(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	p, err := h.profiles.Get(c.Request.Context(), id.UID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// UpdateProfile merges the provided fields into the caller's profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var body struct {
		Name        *string             `json:"name,omitempty"`
		Phone       *string             `json:"phone,omitempty"`
		Address     *string             `json:"address,omitempty"`
		TravelPlans []domain.TravelPlan `json:"travelPlans,omitempty"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.profiles.Update(c.Request.Context(), id.UID, domain.UpdateProfileRequest{
		Name:        body.Name,
		Phone:       body.Phone,
		Address:     body.Address,
		TravelPlans: body.TravelPlans,
	})
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// ListRequests lists the caller's posted items
func (h *Handler) ListRequests(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	items, err := h.items.Owned(c.Request.Context(), id.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListDeliveries lists the items the caller is delivering
func (h *Handler) ListDeliveries(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	items, err := h.items.Accepted(c.Request.Context(), id.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list deliveries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
