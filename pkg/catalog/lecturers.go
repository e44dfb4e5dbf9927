package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

// LecturerMap is the read-mostly instructor -> rating store, mirrored in
// the Redis "lecturers" hash by the rating scraper.
type LecturerMap struct {
	mu      sync.RWMutex
	ratings map[string]models.LecturerRating
}

// NewLecturerMap creates an empty lecturer map.
func NewLecturerMap() *LecturerMap {
	return &LecturerMap{ratings: map[string]models.LecturerRating{}}
}

// Get returns the rating for an instructor name as it appears in section
// records ("Last, First").
func (m *LecturerMap) Get(name string) (models.LecturerRating, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.ratings[name]
	return r, ok
}

// Len returns the number of cached ratings.
func (m *LecturerMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ratings)
}

// Set stores one rating.
func (m *LecturerMap) Set(name string, rating models.LecturerRating) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings[name] = rating
}

// ReplaceAll swaps the whole map in one step.
func (m *LecturerMap) ReplaceAll(ratings map[string]models.LecturerRating) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings = ratings
}

// Snapshot returns a copy of the rating map.
func (m *LecturerMap) Snapshot() map[string]models.LecturerRating {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]models.LecturerRating, len(m.ratings))
	for k, v := range m.ratings {
		out[k] = v
	}
	return out
}

// LoadLecturersFile reads the lecturer dataset; malformed input yields an
// empty map with a warning, same policy as the course dataset.
func LoadLecturersFile(path string) map[string]models.LecturerRating {
	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Lecturer dataset not readable, starting empty", "path", path, "error", err)
		return map[string]models.LecturerRating{}
	}
	ratings := map[string]models.LecturerRating{}
	if err := json.Unmarshal(raw, &ratings); err != nil {
		slog.Warn("Lecturer dataset malformed, starting empty", "path", path, "error", err)
		return map[string]models.LecturerRating{}
	}
	return ratings
}

// Bootstrap fills the map from the Redis hash when present, else from the
// on-disk dataset. Returns the source used.
func (m *LecturerMap) Bootstrap(ctx context.Context, rdb *redis.Client, path string) string {
	if rdb != nil {
		ratings, err := loadLecturersFromRedis(ctx, rdb)
		if err == nil && len(ratings) > 0 {
			m.ReplaceAll(ratings)
			return "redis"
		}
		if err != nil {
			slog.Warn("Could not load lecturers from redis, falling back to file", "error", err)
		}
	}
	m.ReplaceAll(LoadLecturersFile(path))
	return path
}

// ReloadFromRedis replaces the map with the Redis hash contents.
func (m *LecturerMap) ReloadFromRedis(ctx context.Context, rdb *redis.Client) error {
	ratings, err := loadLecturersFromRedis(ctx, rdb)
	if err != nil {
		return err
	}
	m.ReplaceAll(ratings)
	return nil
}

func loadLecturersFromRedis(ctx context.Context, rdb *redis.Client) (map[string]models.LecturerRating, error) {
	fields, err := rdb.HGetAll(ctx, RedisLecturersKey).Result()
	if err != nil {
		return nil, err
	}
	ratings := make(map[string]models.LecturerRating, len(fields))
	for name, raw := range fields {
		var r models.LecturerRating
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			slog.Warn("Skipping malformed lecturer rating", "name", name, "error", err)
			continue
		}
		ratings[name] = r
	}
	return ratings, nil
}
