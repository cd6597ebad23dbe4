package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/global-courier-network/gcn-backend/internal/messaging/domain"
)

// AcceptGreeting is the fixed introductory text seeded into a thread when
// an item is accepted, sent from the acceptor to the requester.
const AcceptGreeting = "Hi! I've accepted your shipping request. Let's coordinate the pickup and delivery details."

// EventMessageSent is published on the thread channel for every append.
const EventMessageSent = "message"

// ThreadStore is the persistence surface the service needs for threads.
type ThreadStore interface {
	Ensure(ctx context.Context, t *domain.Thread) (*domain.Thread, error)
	Get(ctx context.Context, id string) (*domain.Thread, error)
	ListForUser(ctx context.Context, uid string) ([]domain.Thread, error)
}

// MessageStore is the persistence surface for the append-only message log.
type MessageStore interface {
	Append(ctx context.Context, m *domain.Message) error
	ListByThread(ctx context.Context, threadID string) ([]domain.Message, error)
	ExistsFromSenderSince(ctx context.Context, threadID, senderID string, since time.Time) (bool, error)
}

// Publisher announces appended messages to live subscribers.
type Publisher interface {
	PublishThreadEvent(ctx context.Context, threadID, eventType string, payload any)
}

// MessagingService owns thread bootstrapping and the message write path.
type MessagingService struct {
	threads   ThreadStore
	messages  MessageStore
	publisher Publisher

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewMessagingService(threads ThreadStore, messages MessageStore, publisher Publisher) *MessagingService {
	return &MessagingService{
		threads:   threads,
		messages:  messages,
		publisher: publisher,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Bootstrap opens the conversation channel for a freshly accepted item:
// it resolves the pair's thread (creating it only if the two identities
// never transacted before) and appends the fixed greeting from the
// acceptor to the owner. Invoked synchronously as part of open→accepted.
func (s *MessagingService) Bootstrap(ctx context.Context, ownerUID, ownerEmail, acceptorUID, acceptorEmail string) (*domain.Thread, error) {
	t, err := s.threads.Ensure(ctx, domain.NewThread(ownerUID, ownerEmail, acceptorUID, acceptorEmail))
	if err != nil {
		return nil, fmt.Errorf("ensure thread: %w", err)
	}

	if err := s.appendGreeting(ctx, t, ownerUID, ownerEmail, acceptorUID, acceptorEmail); err != nil {
		return t, err
	}
	return t, nil
}

// EnsureConversation is the retry path after a partial accept failure. It
// re-ensures the thread and seeds the greeting only if the acceptor has
// not written anything since the acceptance, so retries never duplicate
// the first message.
func (s *MessagingService) EnsureConversation(ctx context.Context, ownerUID, ownerEmail, acceptorUID, acceptorEmail string, acceptedAt time.Time) (*domain.Thread, error) {
	t, err := s.threads.Ensure(ctx, domain.NewThread(ownerUID, ownerEmail, acceptorUID, acceptorEmail))
	if err != nil {
		return nil, fmt.Errorf("ensure thread: %w", err)
	}

	seeded, err := s.messages.ExistsFromSenderSince(ctx, t.ID, acceptorUID, acceptedAt)
	if err != nil {
		return t, err
	}
	if seeded {
		return t, nil
	}

	if err := s.appendGreeting(ctx, t, ownerUID, ownerEmail, acceptorUID, acceptorEmail); err != nil {
		return t, err
	}
	return t, nil
}

func (s *MessagingService) appendGreeting(ctx context.Context, t *domain.Thread, ownerUID, ownerEmail, acceptorUID, acceptorEmail string) error {
	msg := &domain.Message{
		ID:            uuid.New().String(),
		ThreadID:      t.ID,
		SenderID:      acceptorUID,
		SenderEmail:   acceptorEmail,
		ReceiverID:    ownerUID,
		ReceiverEmail: ownerEmail,
		Body:          AcceptGreeting,
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return fmt.Errorf("seed greeting: %w", err)
	}

	s.publisher.PublishThreadEvent(ctx, t.ID, EventMessageSent, msg)
	return nil
}

// Send appends one message to a thread. Participant-only; the receiver is
// always the other participant. There is no delivery acknowledgement —
// ordering is whatever the server-assigned timestamps say.
func (s *MessagingService) Send(ctx context.Context, threadID, senderUID, senderEmail, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.ErrEmptyMessage
	}
	if !s.allow(senderUID) {
		return nil, domain.ErrRateLimited
	}

	t, err := s.threads.Get(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !t.HasParticipant(senderUID) {
		return nil, domain.ErrNotParticipant
	}

	receiverUID, receiverEmail := t.Other(senderUID)
	msg := &domain.Message{
		ID:            uuid.New().String(),
		ThreadID:      t.ID,
		SenderID:      senderUID,
		SenderEmail:   senderEmail,
		ReceiverID:    receiverUID,
		ReceiverEmail: receiverEmail,
		Body:          body,
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, err
	}

	s.publisher.PublishThreadEvent(ctx, t.ID, EventMessageSent, msg)
	return msg, nil
}

// Messages returns the ascending message log of a thread, participant-only.
func (s *MessagingService) Messages(ctx context.Context, threadID, callerUID string) ([]domain.Message, error) {
	t, err := s.threads.Get(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !t.HasParticipant(callerUID) {
		return nil, domain.ErrNotParticipant
	}
	return s.messages.ListByThread(ctx, threadID)
}

// Thread returns the thread metadata, participant-only.
func (s *MessagingService) Thread(ctx context.Context, threadID, callerUID string) (*domain.Thread, error) {
	t, err := s.threads.Get(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !t.HasParticipant(callerUID) {
		return nil, domain.ErrNotParticipant
	}
	return t, nil
}

// Threads lists the caller's threads, newest first.
func (s *MessagingService) Threads(ctx context.Context, callerUID string) ([]domain.Thread, error) {
	return s.threads.ListForUser(ctx, callerUID)
}

// maxSenderLimiters bounds the per-sender limiter map. When full, the map
// is dropped wholesale and budgets refill from scratch.
const maxSenderLimiters = 10000

// allow applies a per-sender flood limit to message sends.
func (s *MessagingService) allow(uid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[uid]
	if !ok {
		if len(s.limiters) >= maxSenderLimiters {
			s.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(rate.Every(500*time.Millisecond), 5)
		s.limiters[uid] = l
	}
	return l.Allow()
}
