package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/global-courier-network/gcn-backend/internal/auth"
	cronjob "github.com/global-courier-network/gcn-backend/internal/items/cron"
	"github.com/global-courier-network/gcn-backend/internal/items/domain"
)

// CreateItem posts a new shipping request
func (h *Handler) CreateItem(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var body struct {
		ItemName           string  `json:"itemName"`
		Description        string  `json:"description"`
		OriginCountry      string  `json:"originCountry"`
		DestinationCountry string  `json:"destinationCountry"`
		Weight             float64 `json:"weight"`
		Size               string  `json:"size"`
		OfferPrice         float64 `json:"offerPrice"`
		Urgency            string  `json:"urgency"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	it, err := h.lifecycle.Create(c.Request.Context(), id.UID, id.Email, domain.CreateItemRequest{
		ItemName:           body.ItemName,
		Description:        body.Description,
		OriginCountry:      body.OriginCountry,
		DestinationCountry: body.DestinationCountry,
		Weight:             body.Weight,
		Size:               body.Size,
		OfferPrice:         body.OfferPrice,
		Urgency:            body.Urgency,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": it})
}

// BrowseItems lists open items from other requesters, with optional filters
func (h *Handler) BrowseItems(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	filters := domain.BrowseFilters{
		OriginCountry:      c.Query("originCountry"),
		DestinationCountry: c.Query("destinationCountry"),
	}
	if raw := c.Query("maxWeight"); raw != "" {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil || w <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "maxWeight must be a positive number"})
			return
		}
		filters.MaxWeight = w
	}

	items, err := h.lifecycle.Browse(c.Request.Context(), id.UID, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to browse items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetItem retrieves a single item by ID
func (h *Handler) GetItem(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	it, err := h.lifecycle.Get(c.Request.Context(), id.UID, c.Param("id"))
	if err != nil {
		h.writeItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": it})
}

// AcceptItem claims an open item for delivery and opens the conversation
func (h *Handler) AcceptItem(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	it, threadID, err := h.lifecycle.Accept(c.Request.Context(), c.Param("id"), id.UID, id.Email)
	if errors.Is(err, domain.ErrConversationBootstrap) {
		// The acceptance committed; only the conversation failed to open.
		c.JSON(http.StatusOK, gin.H{
			"item":    it,
			"code":    "conversation_bootstrap_failed",
			"warning": "item accepted but the conversation could not be opened; retry via POST /items/" + it.ID + "/conversation",
		})
		return
	}
	if err != nil {
		h.writeItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": it, "threadId": threadID})
}

// AdvanceItem moves an item to the next status in the delivery chain
func (h *Handler) AdvanceItem(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	target := domain.Status(body.Status)
	if !target.Valid() || target == domain.StatusOpen || target == domain.StatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown target status"})
		return
	}

	it, err := h.lifecycle.Advance(c.Request.Context(), c.Param("id"), id.UID, target)
	if err != nil {
		h.writeItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": it})
}

// CancelItem terminates an item before delivery (owner only)
func (h *Handler) CancelItem(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	it, err := h.lifecycle.Cancel(c.Request.Context(), c.Param("id"), id.UID)
	if err != nil {
		h.writeItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": it})
}

// RetryConversation re-opens the conversation for an accepted item after a
// bootstrap failure
func (h *Handler) RetryConversation(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	threadID, err := h.lifecycle.RetryConversation(c.Request.Context(), c.Param("id"), id.UID)
	if err != nil {
		h.writeItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"threadId": threadID})
}

// MarketplaceStats serves the latest per-status item counts snapshot
func (h *Handler) MarketplaceStats(c *gin.Context) {
	snap, err := cronjob.ReadSnapshot(c.Request.Context(), h.stats)
	if errors.Is(err, redis.Nil) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot captured yet"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": snap})
}

func (h *Handler) writeItemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, domain.ErrAlreadyAccepted):
		c.JSON(http.StatusConflict, gin.H{"error": "item already accepted"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid status transition"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
