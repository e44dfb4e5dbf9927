package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

// Redis keys mirroring the authoritative in-memory maps.
const (
	RedisCoursesKey   = "courses"
	RedisLecturersKey = "lecturers"
)

// LoadGraphFile reads and validates the catalog dataset. Malformed input
// yields an empty map and a warning rather than an error: the process
// stays up with an empty catalog.
func LoadGraphFile(path string) map[string]*models.Course {
	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Course dataset not readable, starting with empty catalog",
			"path", path, "error", err)
		return map[string]*models.Course{}
	}
	courses := map[string]*models.Course{}
	if err := json.Unmarshal(raw, &courses); err != nil {
		slog.Warn("Course dataset malformed, starting with empty catalog",
			"path", path, "error", err)
		return map[string]*models.Course{}
	}
	return courses
}

// Bootstrap fills the store from Redis when a mirror exists, falling back
// to the on-disk dataset. Returns the source used for logging.
func (s *Store) Bootstrap(ctx context.Context, rdb *redis.Client, graphPath string) string {
	if rdb != nil {
		courses, err := loadCoursesFromRedis(ctx, rdb)
		if err == nil && len(courses) > 0 {
			s.ReplaceAll(courses)
			return "redis"
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			slog.Warn("Could not load catalog from redis, falling back to file", "error", err)
		}
	}
	s.ReplaceAll(LoadGraphFile(graphPath))
	return graphPath
}

// SaveToRedis mirrors the catalog under the "courses" key.
func (s *Store) SaveToRedis(ctx context.Context, rdb *redis.Client) error {
	raw, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to serialize catalog: %w", err)
	}
	if err := rdb.Set(ctx, RedisCoursesKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist catalog to redis: %w", err)
	}
	return nil
}

// ReloadFromRedis replaces the catalog with the Redis mirror. Used by the
// server when a scrape cycle publishes a refresh notification.
func (s *Store) ReloadFromRedis(ctx context.Context, rdb *redis.Client) error {
	courses, err := loadCoursesFromRedis(ctx, rdb)
	if err != nil {
		return err
	}
	s.ReplaceAll(courses)
	return nil
}

func loadCoursesFromRedis(ctx context.Context, rdb *redis.Client) (map[string]*models.Course, error) {
	raw, err := rdb.Get(ctx, RedisCoursesKey).Result()
	if err != nil {
		return nil, err
	}
	courses := map[string]*models.Course{}
	if err := json.Unmarshal([]byte(raw), &courses); err != nil {
		return nil, fmt.Errorf("catalog mirror malformed: %w", err)
	}
	return courses, nil
}
