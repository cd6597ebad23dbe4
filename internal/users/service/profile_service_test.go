package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/global-courier-network/gcn-backend/internal/users/domain"
)

type fakeProfileStore struct {
	profiles    map[string]*domain.Profile
	updateCalls int
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[string]*domain.Profile)}
}

// Create mirrors the unique-uid constraint of the real store.
func (s *fakeProfileStore) Create(_ context.Context, p *domain.Profile) error {
	if _, ok := s.profiles[p.UID]; ok {
		return domain.ErrDuplicateProfile
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	s.profiles[p.UID] = &cp
	return nil
}

func (s *fakeProfileStore) GetByUID(_ context.Context, uid string) (*domain.Profile, error) {
	p, ok := s.profiles[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

// Update mirrors the COALESCE merge of the real store: nil fields are
// left untouched, the profile is marked completed either way.
func (s *fakeProfileStore) Update(_ context.Context, uid string, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	s.updateCalls++
	p, ok := s.profiles[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.TravelPlans != nil {
		p.TravelPlans = req.TravelPlans
	}
	p.ProfileCompleted = true
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func strptr(s string) *string { return &s }

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the profile with a trimmed name", func(t *testing.T) {
		svc := NewProfileService(newFakeProfileStore())

		p, err := svc.Register(ctx, "uid-1", "a@x.test", "  Alice  ")
		require.NoError(t, err)

		assert.Equal(t, "uid-1", p.UID)
		assert.Equal(t, "a@x.test", p.Email)
		assert.Equal(t, "Alice", p.Name)
		assert.False(t, p.ProfileCompleted)
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("a second registration for the same uid is a conflict", func(t *testing.T) {
		svc := NewProfileService(newFakeProfileStore())

		_, err := svc.Register(ctx, "uid-1", "a@x.test", "Alice")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "uid-1", "a@x.test", "Alice again")
		assert.ErrorIs(t, err, domain.ErrDuplicateProfile)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown identity", func(t *testing.T) {
		svc := NewProfileService(newFakeProfileStore())

		_, err := svc.Get(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("merges only the supplied fields and marks completion", func(t *testing.T) {
		store := newFakeProfileStore()
		svc := NewProfileService(store)

		_, err := svc.Register(ctx, "uid-1", "a@x.test", "Alice")
		require.NoError(t, err)

		p, err := svc.Update(ctx, "uid-1", domain.UpdateProfileRequest{
			Phone: strptr("+94 77 000 0000"),
		})
		require.NoError(t, err)

		assert.Equal(t, "+94 77 000 0000", p.Phone)
		assert.Equal(t, "Alice", p.Name, "untouched field must survive the merge")
		assert.True(t, p.ProfileCompleted)
	})

	t.Run("travel plans replace as a whole", func(t *testing.T) {
		svc := NewProfileService(newFakeProfileStore())
		_, err := svc.Register(ctx, "uid-1", "a@x.test", "Alice")
		require.NoError(t, err)

		plans := []domain.TravelPlan{{FromCountry: "LK", ToCountry: "AU", TravelDate: time.Now().UTC()}}
		p, err := svc.Update(ctx, "uid-1", domain.UpdateProfileRequest{TravelPlans: plans})
		require.NoError(t, err)

		require.Len(t, p.TravelPlans, 1)
		assert.Equal(t, "AU", p.TravelPlans[0].ToCountry)
	})

	t.Run("an empty update is a read, not a write", func(t *testing.T) {
		store := newFakeProfileStore()
		svc := NewProfileService(store)

		_, err := svc.Register(ctx, "uid-1", "a@x.test", "Alice")
		require.NoError(t, err)

		p, err := svc.Update(ctx, "uid-1", domain.UpdateProfileRequest{})
		require.NoError(t, err)

		assert.Equal(t, 0, store.updateCalls)
		assert.False(t, p.ProfileCompleted)
	})

	t.Run("unknown identity", func(t *testing.T) {
		svc := NewProfileService(newFakeProfileStore())

		_, err := svc.Update(ctx, "ghost", domain.UpdateProfileRequest{Name: strptr("x")})
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})
}
