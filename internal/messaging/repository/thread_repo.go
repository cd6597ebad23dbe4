package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/global-courier-network/gcn-backend/internal/messaging/domain"
)

// ThreadRepository persists conversation threads. The thread id is derived
// from the participant pair, so creation is naturally idempotent.
type ThreadRepository struct {
	db *pgxpool.Pool
}

func NewThreadRepository(db *pgxpool.Pool) *ThreadRepository {
	return &ThreadRepository{db: db}
}

// Ensure creates the thread if it does not exist and returns the stored
// record either way. Two people who transacted before keep their thread.
func (r *ThreadRepository) Ensure(ctx context.Context, t *domain.Thread) (*domain.Thread, error) {
	if len(t.Participants) != 2 {
		return nil, fmt.Errorf("thread requires exactly two participants")
	}

	const ins = `
INSERT INTO threads (id, participant_a, participant_b, participant_a_email, participant_b_email)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO NOTHING;
`
	_, err := r.db.Exec(ctx, ins,
		t.ID, t.Participants[0], t.Participants[1],
		t.ParticipantEmails[0], t.ParticipantEmails[1])
	if err != nil {
		return nil, fmt.Errorf("ensure thread: %w", err)
	}

	return r.Get(ctx, t.ID)
}

// Get retrieves a thread by id.
func (r *ThreadRepository) Get(ctx context.Context, id string) (*domain.Thread, error) {
	const q = `
SELECT id, participant_a, participant_b, participant_a_email, participant_b_email, created_at
FROM threads
WHERE id = $1;
`
	return scanThread(r.db.QueryRow(ctx, q, id))
}

// ListForUser returns the threads the given identity participates in,
// newest first.
func (r *ThreadRepository) ListForUser(ctx context.Context, uid string) ([]domain.Thread, error) {
	const q = `
SELECT id, participant_a, participant_b, participant_a_email, participant_b_email, created_at
FROM threads
WHERE participant_a = $1 OR participant_b = $1
ORDER BY created_at DESC;
`
	rows, err := r.db.Query(ctx, q, uid)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Thread, 0, 8)
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func scanThread(row pgx.Row) (*domain.Thread, error) {
	var t domain.Thread
	var a, b, aEmail, bEmail string
	err := row.Scan(&t.ID, &a, &b, &aEmail, &bEmail, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrThreadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan thread: %w", err)
	}
	t.Participants = []string{a, b}
	t.ParticipantEmails = []string{aEmail, bEmail}
	return &t, nil
}
