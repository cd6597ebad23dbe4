package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/global-courier-network/gcn-backend/internal/items/domain"
)

const itemColumns = `
id, user_id, user_email, item_name, description, origin_country, destination_country,
weight, size, offer_price, urgency, status, acceptor_id, acceptor_email,
created_at, updated_at, accepted_at, delivered_at, completed_at, cancelled_at`

// ItemRepository provides persistence operations for shipping requests.
type ItemRepository struct {
	db *pgxpool.Pool
}

func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db}
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var it domain.Item
	err := row.Scan(
		&it.ID,
		&it.UserID,
		&it.UserEmail,
		&it.ItemName,
		&it.Description,
		&it.OriginCountry,
		&it.DestinationCountry,
		&it.Weight,
		&it.Size,
		&it.OfferPrice,
		&it.Urgency,
		&it.Status,
		&it.AcceptorID,
		&it.AcceptorEmail,
		&it.CreatedAt,
		&it.UpdatedAt,
		&it.AcceptedAt,
		&it.DeliveredAt,
		&it.CompletedAt,
		&it.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserts a new item with status=open.
func (r *ItemRepository) Create(ctx context.Context, it *domain.Item) error {
	const q = `
INSERT INTO items (id, user_id, user_email, item_name, description, origin_country,
                   destination_country, weight, size, offer_price, urgency, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q,
		it.ID, it.UserID, it.UserEmail, it.ItemName, it.Description,
		it.OriginCountry, it.DestinationCountry, it.Weight, it.Size,
		it.OfferPrice, it.Urgency, it.Status,
	).Scan(&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID retrieves a single item.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	q := `SELECT` + itemColumns + ` FROM items WHERE id = $1;`
	it, err := scanItem(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// ListOpenExcluding returns all open items not owned by the viewer.
func (r *ItemRepository) ListOpenExcluding(ctx context.Context, viewerUID string) ([]domain.Item, error) {
	q := `SELECT` + itemColumns + `
FROM items
WHERE status = $1 AND user_id <> $2
ORDER BY created_at DESC;`
	return r.list(ctx, q, domain.StatusOpen, viewerUID)
}

// ListByOwner returns items created by the given identity.
func (r *ItemRepository) ListByOwner(ctx context.Context, uid string) ([]domain.Item, error) {
	q := `SELECT` + itemColumns + ` FROM items WHERE user_id = $1 ORDER BY created_at DESC;`
	return r.list(ctx, q, uid)
}

// ListByAcceptor returns items accepted by the given identity.
func (r *ItemRepository) ListByAcceptor(ctx context.Context, uid string) ([]domain.Item, error) {
	q := `SELECT` + itemColumns + ` FROM items WHERE acceptor_id = $1 ORDER BY created_at DESC;`
	return r.list(ctx, q, uid)
}

func (r *ItemRepository) list(ctx context.Context, q string, args ...any) ([]domain.Item, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Item, 0, 16)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Accept performs the open→accepted transition as a single conditional
// update. The guard on status and acceptor_id makes the first commit win;
// a lost race surfaces as ErrAlreadyAccepted, never as a silent overwrite.
func (r *ItemRepository) Accept(ctx context.Context, id, acceptorUID, acceptorEmail string) (*domain.Item, error) {
	q := `
UPDATE items
SET status = $4, acceptor_id = $2, acceptor_email = $3, accepted_at = now(), updated_at = now()
WHERE id = $1 AND status = $5 AND acceptor_id IS NULL
RETURNING` + itemColumns + `;`

	it, err := scanItem(r.db.QueryRow(ctx, q, id, acceptorUID, acceptorEmail, domain.StatusAccepted, domain.StatusOpen))
	if err == nil {
		return it, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("accept item: %w", err)
	}

	// Guard failed: either the row is gone or someone else got there first.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrAlreadyAccepted
}

// Transition moves an item from the expected current status to the target
// status, stamping the matching timestamp column. Conditional on the
// current status so a concurrent transition cannot be overwritten.
func (r *ItemRepository) Transition(ctx context.Context, id string, from, to domain.Status) (*domain.Item, error) {
	q := `
UPDATE items
SET status = $3,
    updated_at = now(),
    delivered_at = CASE WHEN $3 = 'delivered' THEN now() ELSE delivered_at END,
    completed_at = CASE WHEN $3 = 'completed' THEN now() ELSE completed_at END,
    cancelled_at = CASE WHEN $3 = 'cancelled' THEN now() ELSE cancelled_at END
WHERE id = $1 AND status = $2
RETURNING` + itemColumns + `;`

	it, err := scanItem(r.db.QueryRow(ctx, q, id, from, to))
	if err == nil {
		return it, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("transition item: %w", err)
	}

	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	// The item exists but is no longer in the expected state.
	return nil, domain.ErrInvalidTransition
}

// CountByStatus returns the number of items per status, used by the
// marketplace stats snapshot.
func (r *ItemRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	const q = `SELECT status, count(*) FROM items GROUP BY status;`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}
