package service

import (
	"context"
	"strings"

	"github.com/global-courier-network/gcn-backend/internal/users/domain"
)

// ProfileStore is the persistence surface for user profiles.
type ProfileStore interface {
	Create(ctx context.Context, p *domain.Profile) error
	GetByUID(ctx context.Context, uid string) (*domain.Profile, error)
	Update(ctx context.Context, uid string, req domain.UpdateProfileRequest) (*domain.Profile, error)
}

// ProfileService manages the profile record tied to each identity.
type ProfileService struct {
	profiles ProfileStore
}

func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Register creates the profile row for a first-time identity. Exactly one
// profile exists per uid; a second call surfaces ErrDuplicateProfile.
func (s *ProfileService) Register(ctx context.Context, uid, email, name string) (*domain.Profile, error) {
	p := &domain.Profile{
		UID:   uid,
		Email: email,
		Name:  strings.TrimSpace(name),
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the caller's own profile.
func (s *ProfileService) Get(ctx context.Context, uid string) (*domain.Profile, error) {
	return s.profiles.GetByUID(ctx, uid)
}

// Update merges the provided fields into the caller's profile and marks it
// completed. Absent fields are left untouched.
func (s *ProfileService) Update(ctx context.Context, uid string, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	if req.Name == nil && req.Phone == nil && req.Address == nil && req.TravelPlans == nil {
		return s.profiles.GetByUID(ctx, uid)
	}
	return s.profiles.Update(ctx, uid, req)
}
