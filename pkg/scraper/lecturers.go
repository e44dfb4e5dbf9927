package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/B3rK-3/ViewNJIT/pkg/catalog"
	"github.com/B3rK-3/ViewNJIT/pkg/events"
	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

// ratingMaxAge is how long a cached rating stays fresh.
const ratingMaxAge = 5 * time.Hour

// LecturerScraper refreshes RateMyProfessors ratings for every instructor
// appearing in the catalog's sections.
type LecturerScraper struct {
	proxyURL  string
	client    *http.Client
	store     *catalog.Store
	lecturers *catalog.LecturerMap
	rdb       *redis.Client
	publisher *events.Publisher
	dataFile  string

	now func() time.Time
}

// NewLecturerScraper wires a lecturer scraper.
func NewLecturerScraper(
	proxyURL string,
	store *catalog.Store,
	lecturers *catalog.LecturerMap,
	rdb *redis.Client,
	publisher *events.Publisher,
	dataFile string,
) *LecturerScraper {
	return &LecturerScraper{
		proxyURL:  proxyURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		store:     store,
		lecturers: lecturers,
		rdb:       rdb,
		publisher: publisher,
		dataFile:  dataFile,
		now:       time.Now,
	}
}

// RunCycle refreshes every stale rating, persists to the Redis hash and
// the file snapshot, and publishes the refresh notification. A lookup that
// fails stores the default rating record (see fetchRating); a rating that
// cannot be written to Redis is logged and skipped.
func (s *LecturerScraper) RunCycle(ctx context.Context) error {
	names := s.collectInstructors()
	slog.Info("Checking lecturer ratings", "instructors", len(names))

	existing, err := s.rdb.HGetAll(ctx, catalog.RedisLecturersKey).Result()
	if err != nil {
		return fmt.Errorf("failed to read cached lecturer ratings: %w", err)
	}

	refreshed := 0
	for _, name := range names {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if raw, ok := existing[name]; ok {
			var cached models.LecturerRating
			if err := json.Unmarshal([]byte(raw), &cached); err == nil && s.isFresh(cached) {
				s.lecturers.Set(name, cached)
				continue
			}
		}

		rating := s.fetchRating(ctx, name)
		rating.LastUpdated = s.now().Unix()

		raw, err := json.Marshal(rating)
		if err != nil {
			continue
		}
		if err := s.rdb.HSet(ctx, catalog.RedisLecturersKey, name, raw).Err(); err != nil {
			slog.Error("Failed to cache lecturer rating", "name", name, "error", err)
			continue
		}
		s.lecturers.Set(name, rating)
		refreshed++
	}

	s.writeSnapshot(ctx)

	if err := s.publisher.PublishRefresh(ctx, events.ChannelLecturerUpdates); err != nil {
		return err
	}
	slog.Info("Lecturer check finished", "refreshed", refreshed)
	return nil
}

// collectInstructors lists every distinct instructor across all sections.
func (s *LecturerScraper) collectInstructors() []string {
	unique := map[string]struct{}{}
	s.store.Range(func(_ string, course *models.Course) bool {
		for _, sections := range course.Sections {
			for _, entry := range sections {
				if instructor := entry.Instructor(); instructor != "" {
					unique[instructor] = struct{}{}
				}
			}
		}
		return true
	})
	names := make([]string, 0, len(unique))
	for name := range unique {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *LecturerScraper) isFresh(r models.LecturerRating) bool {
	return s.now().Unix()-r.LastUpdated < int64(ratingMaxAge.Seconds())
}

// fetchRating queries the external proxy. Section records carry
// "Lastname, Firstname"; the proxy wants "Firstname Lastname". Instructors
// the proxy does not know get the default record so they are not retried
// every cycle.
func (s *LecturerScraper) fetchRating(ctx context.Context, name string) models.LecturerRating {
	query := name
	if last, first, ok := strings.Cut(name, ", "); ok {
		query = first + " " + last
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.proxyURL+"/prof?q="+url.QueryEscape(query), nil)
	if err != nil {
		return models.DefaultRating()
	}
	resp, err := s.client.Do(req)
	if err != nil {
		slog.Error("Rating fetch failed", "name", name, "error", err)
		return models.DefaultRating()
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.DefaultRating()
	}

	var rating models.LecturerRating
	if err := json.NewDecoder(resp.Body).Decode(&rating); err != nil {
		slog.Error("Rating response malformed", "name", name, "error", err)
		return models.DefaultRating()
	}
	return rating
}

// writeSnapshot saves the full rating map back to disk so restarts have a
// dataset even when Redis starts cold.
func (s *LecturerScraper) writeSnapshot(_ context.Context) {
	raw, err := json.MarshalIndent(s.lecturers.Snapshot(), "", "  ")
	if err != nil {
		slog.Error("Failed to serialize lecturer snapshot", "error", err)
		return
	}
	if err := os.WriteFile(s.dataFile, raw, 0o644); err != nil {
		slog.Error("Failed to write lecturer snapshot", "path", s.dataFile, "error", err)
	}
}
