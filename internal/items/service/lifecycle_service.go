package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/global-courier-network/gcn-backend/internal/items/domain"
	usersdomain "github.com/global-courier-network/gcn-backend/internal/users/domain"
)

// Event types published on item channels.
const (
	EventItemCreated   = "item-created"
	EventStatusChanged = "status-changed"
)

// ItemStore is the persistence surface of the lifecycle manager.
type ItemStore interface {
	Create(ctx context.Context, it *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	ListOpenExcluding(ctx context.Context, viewerUID string) ([]domain.Item, error)
	ListByOwner(ctx context.Context, uid string) ([]domain.Item, error)
	ListByAcceptor(ctx context.Context, uid string) ([]domain.Item, error)
	Accept(ctx context.Context, id, acceptorUID, acceptorEmail string) (*domain.Item, error)
	Transition(ctx context.Context, id string, from, to domain.Status) (*domain.Item, error)
}

// ConversationBootstrapper opens the messaging channel between requester
// and acceptor. Bootstrap runs once per acceptance; EnsureConversation is
// the manual retry after a partial failure.
type ConversationBootstrapper interface {
	Bootstrap(ctx context.Context, ownerUID, ownerEmail, acceptorUID, acceptorEmail string) (string, error)
	EnsureConversation(ctx context.Context, ownerUID, ownerEmail, acceptorUID, acceptorEmail string, acceptedAt time.Time) (string, error)
}

// ProfileLog records item summaries on user profiles as lifecycle side
// effects. Best-effort; a failure never fails the transition.
type ProfileLog interface {
	AppendRequestLog(ctx context.Context, uid string, entry usersdomain.ItemSummary) error
	AppendDeliveryLog(ctx context.Context, uid string, entry usersdomain.ItemSummary) error
}

// EventPublisher announces lifecycle changes to live subscribers.
type EventPublisher interface {
	PublishItemEvent(ctx context.Context, itemID, eventType string, payload any)
}

// LifecycleService is the only path by which an item's status changes.
type LifecycleService struct {
	items     ItemStore
	convo     ConversationBootstrapper
	profiles  ProfileLog
	publisher EventPublisher
}

func NewLifecycleService(items ItemStore, convo ConversationBootstrapper, profiles ProfileLog, publisher EventPublisher) *LifecycleService {
	return &LifecycleService{
		items:     items,
		convo:     convo,
		profiles:  profiles,
		publisher: publisher,
	}
}

// Create posts a new shipping request with status=open.
func (s *LifecycleService) Create(ctx context.Context, ownerUID, ownerEmail string, req domain.CreateItemRequest) (*domain.Item, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	it := &domain.Item{
		ID:                 uuid.New().String(),
		UserID:             ownerUID,
		UserEmail:          ownerEmail,
		ItemName:           strings.TrimSpace(req.ItemName),
		Description:        strings.TrimSpace(req.Description),
		OriginCountry:      req.OriginCountry,
		DestinationCountry: req.DestinationCountry,
		Weight:             req.Weight,
		Size:               req.Size,
		OfferPrice:         req.OfferPrice,
		Urgency:            req.Urgency,
		Status:             domain.StatusOpen,
	}
	if err := s.items.Create(ctx, it); err != nil {
		return nil, err
	}

	s.appendLog(ctx, "request", ownerUID, it)
	s.publisher.PublishItemEvent(ctx, it.ID, EventItemCreated, it)
	return it, nil
}

func validateCreate(req domain.CreateItemRequest) error {
	if strings.TrimSpace(req.ItemName) == "" {
		return fmt.Errorf("itemName is required")
	}
	if req.OriginCountry == "" || req.DestinationCountry == "" {
		return fmt.Errorf("originCountry and destinationCountry are required")
	}
	if req.Weight <= 0 {
		return fmt.Errorf("weight must be positive")
	}
	if req.OfferPrice <= 0 {
		return fmt.Errorf("offerPrice must be positive")
	}
	if !domain.ValidSize(req.Size) {
		return fmt.Errorf("size must be one of small, medium, large")
	}
	if !domain.ValidUrgency(req.Urgency) {
		return fmt.Errorf("urgency must be one of standard, express, urgent")
	}
	return nil
}

// Browse returns all open items except the viewer's own, with the
// advisory filters applied as a pure predicate over the fetched set.
func (s *LifecycleService) Browse(ctx context.Context, viewerUID string, f domain.BrowseFilters) ([]domain.Item, error) {
	open, err := s.items.ListOpenExcluding(ctx, viewerUID)
	if err != nil {
		return nil, err
	}
	return domain.FilterItems(open, f), nil
}

// Get returns a single item. Open items are visible to everyone (they are
// browsable); after acceptance only the two parties may read it.
func (s *LifecycleService) Get(ctx context.Context, callerUID, id string) (*domain.Item, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.Status != domain.StatusOpen && !isParty(it, callerUID) {
		return nil, domain.ErrUnauthorized
	}
	return it, nil
}

// Owned lists items created by the identity.
func (s *LifecycleService) Owned(ctx context.Context, uid string) ([]domain.Item, error) {
	return s.items.ListByOwner(ctx, uid)
}

// Accepted lists items the identity is delivering.
func (s *LifecycleService) Accepted(ctx context.Context, uid string) ([]domain.Item, error) {
	return s.items.ListByAcceptor(ctx, uid)
}

// Accept drives the open→accepted transition and bootstraps the
// conversation. The first accept to commit wins; the loser gets
// ErrAlreadyAccepted. If the item is accepted but the conversation could
// not be opened, the accepted item is returned together with an
// ErrConversationBootstrap so the caller can surface the partial failure
// and retry via RetryConversation.
func (s *LifecycleService) Accept(ctx context.Context, id, acceptorUID, acceptorEmail string) (*domain.Item, string, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if it.UserID == acceptorUID {
		return nil, "", domain.ErrUnauthorized
	}
	if it.Status != domain.StatusOpen {
		if it.AcceptorID != nil {
			return nil, "", domain.ErrAlreadyAccepted
		}
		return nil, "", domain.ErrInvalidTransition
	}

	accepted, err := s.items.Accept(ctx, id, acceptorUID, acceptorEmail)
	if err != nil {
		return nil, "", err
	}

	s.appendLog(ctx, "delivery", acceptorUID, accepted)
	s.publisher.PublishItemEvent(ctx, accepted.ID, EventStatusChanged, accepted)

	threadID, err := s.convo.Bootstrap(ctx, accepted.UserID, accepted.UserEmail, acceptorUID, acceptorEmail)
	if err != nil {
		// The acceptance already committed; do not pretend it didn't.
		log.Printf("[warn] operation=conversation_bootstrap item=%s error=%v", accepted.ID, err)
		return accepted, threadID, fmt.Errorf("%w: %v", domain.ErrConversationBootstrap, err)
	}

	return accepted, threadID, nil
}

// Advance moves an item to the next status in the forward order. The
// transition table decides who may do what; the conditional update in the
// store guarantees a concurrent transition cannot be overwritten.
func (s *LifecycleService) Advance(ctx context.Context, id, callerUID string, target domain.Status) (*domain.Item, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == domain.StatusAccepted {
		// Acceptance goes through Accept, which also opens the conversation.
		return nil, domain.ErrInvalidTransition
	}
	if err := domain.ValidateTransition(it, callerUID, target); err != nil {
		return nil, err
	}

	updated, err := s.items.Transition(ctx, id, it.Status, target)
	if err != nil {
		return nil, err
	}

	s.publisher.PublishItemEvent(ctx, updated.ID, EventStatusChanged, updated)
	return updated, nil
}

// Cancel terminates an item before delivery. Owner only, non-resumable.
func (s *LifecycleService) Cancel(ctx context.Context, id, callerUID string) (*domain.Item, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateTransition(it, callerUID, domain.StatusCancelled); err != nil {
		return nil, err
	}

	updated, err := s.items.Transition(ctx, id, it.Status, domain.StatusCancelled)
	if err != nil {
		return nil, err
	}

	s.publisher.PublishItemEvent(ctx, updated.ID, EventStatusChanged, updated)
	return updated, nil
}

// RetryConversation re-runs the conversation bootstrap for an accepted
// item whose channel failed to open. Idempotent; either party may call it.
func (s *LifecycleService) RetryConversation(ctx context.Context, id, callerUID string) (string, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if it.AcceptorID == nil {
		return "", domain.ErrInvalidTransition
	}
	if !isParty(it, callerUID) {
		return "", domain.ErrUnauthorized
	}

	acceptedAt := it.UpdatedAt
	if it.AcceptedAt != nil {
		acceptedAt = *it.AcceptedAt
	}

	acceptorEmail := ""
	if it.AcceptorEmail != nil {
		acceptorEmail = *it.AcceptorEmail
	}

	return s.convo.EnsureConversation(ctx, it.UserID, it.UserEmail, *it.AcceptorID, acceptorEmail, acceptedAt)
}

func (s *LifecycleService) appendLog(ctx context.Context, kind, uid string, it *domain.Item) {
	if s.profiles == nil {
		return
	}

	entry := usersdomain.ItemSummary{
		ItemID:    it.ID,
		ItemName:  it.ItemName,
		Status:    string(it.Status),
		CreatedAt: time.Now().UTC(),
	}

	var err error
	if kind == "request" {
		err = s.profiles.AppendRequestLog(ctx, uid, entry)
	} else {
		err = s.profiles.AppendDeliveryLog(ctx, uid, entry)
	}
	if err != nil {
		log.Printf("[warn] operation=append_%s_log item=%s user=%s error=%v", kind, it.ID, uid, err)
	}
}

func isParty(it *domain.Item, uid string) bool {
	if uid == it.UserID {
		return true
	}
	return it.AcceptorID != nil && *it.AcceptorID == uid
}
