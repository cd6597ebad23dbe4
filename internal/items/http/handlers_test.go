package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/global-courier-network/gcn-backend/internal/auth"
	"github.com/global-courier-network/gcn-backend/internal/items/domain"
	"github.com/global-courier-network/gcn-backend/internal/items/service"
)

type memItemStore struct {
	items map[string]*domain.Item
}

func (s *memItemStore) Create(_ context.Context, it *domain.Item) error {
	now := time.Now().UTC()
	it.CreatedAt = now
	it.UpdatedAt = now
	cp := *it
	s.items[it.ID] = &cp
	return nil
}

func (s *memItemStore) GetByID(_ context.Context, id string) (*domain.Item, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (s *memItemStore) ListOpenExcluding(_ context.Context, viewerUID string) ([]domain.Item, error) {
	out := []domain.Item{}
	for _, it := range s.items {
		if it.Status == domain.StatusOpen && it.UserID != viewerUID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (s *memItemStore) ListByOwner(_ context.Context, uid string) ([]domain.Item, error) {
	out := []domain.Item{}
	for _, it := range s.items {
		if it.UserID == uid {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (s *memItemStore) ListByAcceptor(_ context.Context, uid string) ([]domain.Item, error) {
	out := []domain.Item{}
	for _, it := range s.items {
		if it.AcceptorID != nil && *it.AcceptorID == uid {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (s *memItemStore) Accept(_ context.Context, id, acceptorUID, acceptorEmail string) (*domain.Item, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	if it.Status != domain.StatusOpen || it.AcceptorID != nil {
		return nil, domain.ErrAlreadyAccepted
	}
	now := time.Now().UTC()
	it.Status = domain.StatusAccepted
	it.AcceptorID = &acceptorUID
	it.AcceptorEmail = &acceptorEmail
	it.AcceptedAt = &now
	it.UpdatedAt = now
	cp := *it
	return &cp, nil
}

func (s *memItemStore) Transition(_ context.Context, id string, from, to domain.Status) (*domain.Item, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	if it.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	it.Status = to
	it.UpdatedAt = time.Now().UTC()
	cp := *it
	return &cp, nil
}

type memConvo struct{}

func (memConvo) Bootstrap(_ context.Context, ownerUID, _, acceptorUID, _ string) (string, error) {
	return ownerUID + "_" + acceptorUID, nil
}

func (memConvo) EnsureConversation(_ context.Context, ownerUID, _, acceptorUID, _ string, _ time.Time) (string, error) {
	return ownerUID + "_" + acceptorUID, nil
}

type noopPublisher struct{}

func (noopPublisher) PublishItemEvent(context.Context, string, string, any) {}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := &memItemStore{items: make(map[string]*domain.Item)}
	svc := service.NewLifecycleService(store, memConvo{}, nil, noopPublisher{})

	r := gin.New()
	r.Use(auth.HeaderIdentity())

	h := New(svc, client)
	api := r.Group("/")
	h.Register(api)
	h.RegisterStats(api)

	return r
}

func doJSON(r *gin.Engine, method, path, uid string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", uid)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createItemVia(t *testing.T, r *gin.Engine, uid string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/items", uid, gin.H{
		"itemName":           "Camera lens",
		"description":        "Padded box",
		"originCountry":      "LK",
		"destinationCountry": "AU",
		"weight":             0.9,
		"size":               "small",
		"offerPrice":         60,
		"urgency":            "standard",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Item domain.Item `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Item.ID
}

func TestCreateAndBrowse(t *testing.T) {
	r := setupRouter(t)
	id := createItemVia(t, r, "requester")

	t.Run("owner does not see their own item in browse", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/items/browse", "requester", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []domain.Item `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Items)
	})

	t.Run("other users see it", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/items/browse", "passenger", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []domain.Item `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, id, resp.Items[0].ID)
	})

	t.Run("rejects an unparseable weight filter", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/items/browse?maxWeight=heavy", "passenger", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects an invalid body", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/items", "requester", gin.H{"itemName": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAcceptFlow(t *testing.T) {
	r := setupRouter(t)
	id := createItemVia(t, r, "requester")

	t.Run("owner cannot accept", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/items/"+id+"/accept", "requester", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("first acceptor gets the item and a thread", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/items/"+id+"/accept", "passenger", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Item     domain.Item `json:"item"`
			ThreadID string      `json:"threadId"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, domain.StatusAccepted, resp.Item.Status)
		assert.NotEmpty(t, resp.ThreadID)
	})

	t.Run("the loser of the race gets a conflict", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/items/"+id+"/accept", "rival", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown item is a 404", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/items/ghost/accept", "passenger", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStatusEndpoints(t *testing.T) {
	r := setupRouter(t)
	id := createItemVia(t, r, "requester")
	doJSON(r, http.MethodPost, "/items/"+id+"/accept", "passenger", nil)

	t.Run("owner cannot drive custody states", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/items/"+id+"/status", "requester", gin.H{"status": "picked-up"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("acceptor advances one state at a time", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/items/"+id+"/status", "passenger", gin.H{"status": "picked-up"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = doJSON(r, http.MethodPost, "/items/"+id+"/status", "passenger", gin.H{"status": "in-flight"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("cancel is routed separately", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/items/"+id+"/status", "requester", gin.H{"status": "cancelled"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("owner cancels before delivery", func(t *testing.T) {
		other := createItemVia(t, r, "requester")
		w := doJSON(r, http.MethodPost, "/items/"+other+"/cancel", "requester", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Item domain.Item `json:"item"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, domain.StatusCancelled, resp.Item.Status)
	})
}

func TestMarketplaceStats(t *testing.T) {
	r := setupRouter(t)

	t.Run("404 before the first snapshot", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/stats/marketplace", "anyone", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
