package cronjob

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// StatsKey is the Redis key holding the latest marketplace snapshot.
const StatsKey = "gcn:stats:items"

// StatsSource yields the per-status item counts for a snapshot.
type StatsSource interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// Snapshot is the serialized form stored under StatsKey.
type Snapshot struct {
	Counts     map[string]int64 `json:"counts"`
	CapturedAt time.Time        `json:"capturedAt"`
}

// Scheduler periodically snapshots marketplace counts into Redis so the
// stats endpoint never scans the items table on the request path.
type Scheduler struct {
	source StatsSource
	client *redis.Client
	cron   *cron.Cron
}

func NewScheduler(source StatsSource, client *redis.Client) *Scheduler {
	return &Scheduler{source: source, client: client}
}

// Start registers the snapshot job (every 5 minutes) and takes an initial
// snapshot immediately so the endpoint has data right after boot.
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 */5 * * * *", func() {
		s.SnapshotNow(context.Background())
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (marketplace snapshot every 5 minutes)")
	s.cron = c
	c.Start()

	go s.SnapshotNow(context.Background())
}

// Stop halts the scheduler. Running jobs finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// SnapshotNow captures the counts and writes them under StatsKey.
func (s *Scheduler) SnapshotNow(ctx context.Context) {
	counts, err := s.source.CountByStatus(ctx)
	if err != nil {
		log.Printf("[warn] operation=stats_snapshot error=%v", err)
		return
	}

	data, err := json.Marshal(Snapshot{Counts: counts, CapturedAt: time.Now().UTC()})
	if err != nil {
		log.Printf("[warn] operation=stats_snapshot error=%v", err)
		return
	}

	if err := s.client.Set(ctx, StatsKey, data, 0).Err(); err != nil {
		log.Printf("[warn] operation=stats_snapshot error=%v", err)
	}
}

// ReadSnapshot loads the latest snapshot, if any.
func ReadSnapshot(ctx context.Context, client *redis.Client) (*Snapshot, error) {
	data, err := client.Get(ctx, StatsKey).Bytes()
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
