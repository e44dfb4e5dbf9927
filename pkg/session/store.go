// Package session persists per-session chat history and user profiles in
// Redis. Reads are best-effort: missing or corrupt values deserialize to
// an empty history and a default profile so a damaged key never takes a
// session down.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

// HistoryKey and PrereqsKey build the per-session Redis keys.
func HistoryKey(sessionID string) string { return sessionID + ":history" }
func PrereqsKey(sessionID string) string { return sessionID + ":prereqs" }

// Store reads and writes session state. Each key is written at most once
// per chat turn, after the LLM loop completes.
type Store struct {
	rdb   *redis.Client
	locks sync.Map // sessionID -> *sync.Mutex
}

// NewStore creates a session store on the given Redis client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Locker returns the per-session mutex. Concurrent /chat requests to one
// session are currently last-writer-wins; the handler does not take this
// lock, it exists so future serialization has a hook.
func (s *Store) Locker(sessionID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// LoadHistory returns the session's chat history, or an empty history when
// the key is missing or unreadable.
func (s *Store) LoadHistory(ctx context.Context, sessionID string) []models.Content {
	raw, err := s.rdb.Get(ctx, HistoryKey(sessionID)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Failed to read session history", "session_id", sessionID, "error", err)
		}
		return []models.Content{}
	}
	var history []models.Content
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		slog.Warn("Session history malformed, starting fresh", "session_id", sessionID, "error", err)
		return []models.Content{}
	}
	return history
}

// SaveHistory persists the chat history. Parts are sanitized so only
// text, function_call and function_response fields survive.
func (s *Store) SaveHistory(ctx context.Context, sessionID string, history []models.Content) error {
	raw, err := json.Marshal(SanitizeHistory(history))
	if err != nil {
		return fmt.Errorf("failed to serialize history: %w", err)
	}
	if err := s.rdb.Set(ctx, HistoryKey(sessionID), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}

// LoadProfile returns the session's profile, or a fresh default profile
// when the key is missing or unreadable.
func (s *Store) LoadProfile(ctx context.Context, sessionID string) *models.Profile {
	raw, err := s.rdb.Get(ctx, PrereqsKey(sessionID)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Failed to read session profile", "session_id", sessionID, "error", err)
		}
		return models.NewProfile()
	}
	return LoadProfileJSON(raw)
}

// SaveProfile persists the profile.
func (s *Store) SaveProfile(ctx context.Context, sessionID string, p *models.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}
	if err := s.rdb.Set(ctx, PrereqsKey(sessionID), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	return nil
}

// LoadProfileJSON deserializes a profile, defaulting on any failure.
func LoadProfileJSON(raw string) *models.Profile {
	if raw == "" {
		return models.NewProfile()
	}
	var p models.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		slog.Warn("Session profile malformed, using default", "error", err)
		return models.NewProfile()
	}
	if p.Courses == nil {
		p.Courses = map[string]models.UserCourseInfo{}
	}
	if p.Equivalents == nil {
		p.Equivalents = []string{}
	}
	return &p
}

// SanitizeHistory drops every part field other than the persisted trio.
// Each part keeps exactly one field; provider-internal fields never make
// it into Redis.
func SanitizeHistory(history []models.Content) []models.Content {
	out := make([]models.Content, 0, len(history))
	for _, entry := range history {
		clean := models.Content{Role: entry.Role}
		for _, part := range entry.Parts {
			switch {
			case part.FunctionCall != nil:
				clean.Parts = append(clean.Parts, models.Part{FunctionCall: part.FunctionCall})
			case part.FunctionResponse != nil:
				clean.Parts = append(clean.Parts, models.Part{FunctionResponse: part.FunctionResponse})
			case part.Text != "":
				clean.Parts = append(clean.Parts, models.Part{Text: part.Text})
			}
		}
		if len(clean.Parts) > 0 {
			out = append(out, clean)
		}
	}
	return out
}
