package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/global-courier-network/gcn-backend/internal/users/domain"
)

// ProfileRepository provides persistence for user profiles.
type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts exactly one profile row for the given identity. A second
// insert for the same uid is a non-retryable conflict.
func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	if p.UID == "" {
		return fmt.Errorf("uid required")
	}
	if p.Email == "" {
		return fmt.Errorf("email required")
	}

	travelPlans := []byte("[]")
	if len(p.TravelPlans) > 0 {
		if b, err := json.Marshal(p.TravelPlans); err == nil {
			travelPlans = b
		}
	}

	const q = `
INSERT INTO profiles (uid, email, name, phone, address, travel_plans)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q, p.UID, p.Email, p.Name, p.Phone, p.Address, travelPlans).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateProfile
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// GetByUID retrieves a profile by identity uid.
func (r *ProfileRepository) GetByUID(ctx context.Context, uid string) (*domain.Profile, error) {
	const q = `
SELECT uid, email, name, phone, address, travel_plans, request_log, delivery_log,
       profile_completed, created_at, updated_at
FROM profiles
WHERE uid = $1;
`
	var p domain.Profile
	var travelPlans, requestLog, deliveryLog []byte

	err := r.db.QueryRow(ctx, q, uid).Scan(
		&p.UID,
		&p.Email,
		&p.Name,
		&p.Phone,
		&p.Address,
		&travelPlans,
		&requestLog,
		&deliveryLog,
		&p.ProfileCompleted,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if len(travelPlans) > 0 {
		_ = json.Unmarshal(travelPlans, &p.TravelPlans)
	}
	if len(requestLog) > 0 {
		_ = json.Unmarshal(requestLog, &p.RequestLog)
	}
	if len(deliveryLog) > 0 {
		_ = json.Unmarshal(deliveryLog, &p.DeliveryLog)
	}

	return &p, nil
}

// Update merges the supplied fields into the caller's own row and marks
// the profile completed. nil fields are left as they are.
func (r *ProfileRepository) Update(ctx context.Context, uid string, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	var travelPlans []byte
	if req.TravelPlans != nil {
		b, err := json.Marshal(req.TravelPlans)
		if err != nil {
			b = []byte("[]")
		}
		travelPlans = b
	}

	const q = `
UPDATE profiles
SET name = COALESCE($2, name),
    phone = COALESCE($3, phone),
    address = COALESCE($4, address),
    travel_plans = COALESCE($5::jsonb, travel_plans),
    profile_completed = TRUE,
    updated_at = now()
WHERE uid = $1
RETURNING uid, email, name, phone, address, travel_plans, request_log, delivery_log,
          profile_completed, created_at, updated_at;
`
	var p domain.Profile
	var plans, requestLog, deliveryLog []byte

	err := r.db.QueryRow(ctx, q, uid, req.Name, req.Phone, req.Address, travelPlans).Scan(
		&p.UID,
		&p.Email,
		&p.Name,
		&p.Phone,
		&p.Address,
		&plans,
		&requestLog,
		&deliveryLog,
		&p.ProfileCompleted,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if len(plans) > 0 {
		_ = json.Unmarshal(plans, &p.TravelPlans)
	}
	if len(requestLog) > 0 {
		_ = json.Unmarshal(requestLog, &p.RequestLog)
	}
	if len(deliveryLog) > 0 {
		_ = json.Unmarshal(deliveryLog, &p.DeliveryLog)
	}

	return &p, nil
}

// AppendRequestLog records an item summary on the owner's request log.
// Lifecycle side effect, append-only.
func (r *ProfileRepository) AppendRequestLog(ctx context.Context, uid string, entry domain.ItemSummary) error {
	return r.appendLog(ctx, "request_log", uid, entry)
}

// AppendDeliveryLog records an item summary on the acceptor's delivery log.
func (r *ProfileRepository) AppendDeliveryLog(ctx context.Context, uid string, entry domain.ItemSummary) error {
	return r.appendLog(ctx, "delivery_log", uid, entry)
}

func (r *ProfileRepository) appendLog(ctx context.Context, column, uid string, entry domain.ItemSummary) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}

	q := fmt.Sprintf(`
UPDATE profiles
SET %s = %s || $2::jsonb, updated_at = now()
WHERE uid = $1;
`, column, column)

	tag, err := r.db.Exec(ctx, q, uid, fmt.Sprintf("[%s]", b))
	if err != nil {
		return fmt.Errorf("append %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
