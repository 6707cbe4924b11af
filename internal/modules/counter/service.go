// Package counter buffers high-churn counters (material downloads,
// presentation views) in Redis and folds them into Postgres on a timer.
// Without Redis every bump writes through to the database directly.
package counter

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Kind names one buffered counter family. It doubles as the Redis key
// namespace, so values must stay stable across deploys.
type Kind string

const (
	MaterialDownloads Kind = "material_downloads"
	PresentationViews Kind = "presentation_views"
)

// FlushFunc applies a buffered delta to the persistent counter.
type FlushFunc func(ctx context.Context, id uuid.UUID, delta int) error

type CounterService interface {
	Bump(ctx context.Context, kind Kind, id uuid.UUID) error
	RegisterFlusher(kind Kind, flush FlushFunc)
	StartSyncWorker(ctx context.Context, interval time.Duration)
}

type counterService struct {
	redisClient *redis.Client
	flushers    map[Kind]FlushFunc
}

func NewCounterService(redisClient *redis.Client) CounterService {
	return &counterService{
		redisClient: redisClient,
		flushers:    make(map[Kind]FlushFunc),
	}
}

func (s *counterService) RegisterFlusher(kind Kind, flush FlushFunc) {
	s.flushers[kind] = flush
}

func (s *counterService) Bump(ctx context.Context, kind Kind, id uuid.UUID) error {
	if s.redisClient == nil {
		flush, ok := s.flushers[kind]
		if !ok {
			return fmt.Errorf("no flusher registered for counter %s", kind)
		}
		return flush(ctx, id, 1)
	}

	countKey := fmt.Sprintf("%s:count:%s", kind, id)
	if _, err := s.redisClient.Incr(ctx, countKey).Result(); err != nil {
		return fmt.Errorf("failed to increment counter: %w", err)
	}

	pendingKey := fmt.Sprintf("pending:%s", kind)
	if _, err := s.redisClient.SAdd(ctx, pendingKey, id.String()).Result(); err != nil {
		return fmt.Errorf("failed to add to pending: %w", err)
	}

	return nil
}

func (s *counterService) syncToDB(ctx context.Context, kind Kind, flush FlushFunc) {
	pendingKey := fmt.Sprintf("pending:%s", kind)

	ids, err := s.redisClient.SMembers(ctx, pendingKey).Result()
	if err != nil {
		log.Printf("Error getting pending %s: %v", kind, err)
		return
	}
	if len(ids) == 0 {
		return
	}

	for _, idStr := range ids {
		id, err := uuid.Parse(idStr)
		if err != nil {
			log.Printf("Invalid id in pending %s: %s: %v", kind, idStr, err)
			continue
		}

		countKey := fmt.Sprintf("%s:count:%s", kind, id)
		countStr, err := s.redisClient.Get(ctx, countKey).Result()
		if err != nil && err != redis.Nil {
			log.Printf("Error getting counter %s: %v", countKey, err)
			continue
		}

		delta, _ := strconv.Atoi(countStr)
		if delta <= 0 {
			continue
		}

		if err := flush(ctx, id, delta); err != nil {
			log.Printf("Failed to flush %s for %s: %v", kind, id, err)
			continue
		}

		if _, err := s.redisClient.Del(ctx, countKey).Result(); err != nil {
			log.Printf("Failed to reset counter %s: %v", countKey, err)
		}
	}

	if _, err := s.redisClient.Del(ctx, pendingKey).Result(); err != nil {
		log.Printf("Failed to clear pending %s: %v", kind, err)
	}

	log.Printf("Synced %s for %d records", kind, len(ids))
}

func (s *counterService) StartSyncWorker(ctx context.Context, interval time.Duration) {
	if s.redisClient == nil {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for kind, flush := range s.flushers {
				s.syncToDB(ctx, kind, flush)
			}
		case <-ctx.Done():
			return
		}
	}
}
