package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/global-courier-network/gcn-backend/internal/messaging/domain"
)

// MessageRepository persists the append-only message log of a thread.
type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append stores one message. The server assigns the timestamp.
func (r *MessageRepository) Append(ctx context.Context, m *domain.Message) error {
	const q = `
INSERT INTO thread_messages (id, thread_id, sender_id, sender_email, receiver_id, receiver_email, body)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at;
`
	err := r.db.QueryRow(ctx, q,
		m.ID, m.ThreadID, m.SenderID, m.SenderEmail, m.ReceiverID, m.ReceiverEmail, m.Body,
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// ListByThread returns the full message log, ascending by creation time.
func (r *MessageRepository) ListByThread(ctx context.Context, threadID string) ([]domain.Message, error) {
	const q = `
SELECT id, thread_id, sender_id, sender_email, receiver_id, receiver_email, body, created_at
FROM thread_messages
WHERE thread_id = $1
ORDER BY created_at ASC, id ASC;
`
	rows, err := r.db.Query(ctx, q, threadID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Message, 0, 32)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.SenderEmail,
			&m.ReceiverID, &m.ReceiverEmail, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ExistsFromSenderSince reports whether the sender already appended a
// message to the thread at or after the given time. Used to keep the
// conversation-bootstrap retry from seeding a duplicate greeting.
func (r *MessageRepository) ExistsFromSenderSince(ctx context.Context, threadID, senderID string, since time.Time) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM thread_messages
  WHERE thread_id = $1 AND sender_id = $2 AND created_at >= $3
);
`
	var exists bool
	if err := r.db.QueryRow(ctx, q, threadID, senderID, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("check seeded message: %w", err)
	}
	return exists, nil
}
