// Package semantic maintains the vector index over course titles and
// descriptions and serves hybrid queries: prefiltered vector retrieval
// re-ranked by a cross-encoder.
package semantic

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"

	chromem "github.com/philippgille/chromem-go"

	"github.com/B3rK-3/ViewNJIT/pkg/catalog"
	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

const (
	// upsertBatchSize bounds one reconcile flush.
	upsertBatchSize = 100
	// fetchK is how many vector candidates the re-ranker gets to see.
	// Vector retrieval alone is imprecise on short academic blurbs; a
	// wide net here gives the cross-encoder room to supply precision.
	fetchK = 500
)

// Match is one ranked query result.
type Match struct {
	ID           string  `json:"id"`
	Document     string  `json:"document"`
	InitDistance float32 `json:"init_distance"`
	Score        float64 `json:"score"`
}

// Index owns the course collection inside the vector database.
type Index struct {
	collection *chromem.Collection
	catalog    *catalog.Store
	reranker   Reranker
}

// NewIndex opens (or creates) the course collection.
func NewIndex(db *chromem.DB, name string, embed chromem.EmbeddingFunc, cat *catalog.Store, reranker Reranker) (*Index, error) {
	collection, err := db.GetOrCreateCollection(name, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %q: %w", name, err)
	}
	return &Index{collection: collection, catalog: cat, reranker: reranker}, nil
}

// ContentHash returns the MD5 content hash and the combined document text
// for a course.
func ContentHash(title, desc string) (string, string) {
	combined := title + " " + desc
	sum := md5.Sum([]byte(combined))
	return hex.EncodeToString(sum[:]), combined
}

// Reconcile upserts every course whose stored content hash is missing or
// stale, in batches of upsertBatchSize with a final flush. A second call
// with an unchanged catalog performs zero upserts. Returns the number of
// documents written.
func (ix *Index) Reconcile(ctx context.Context) (int, error) {
	var pending []chromem.Document
	upserted := 0

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if err := ix.collection.AddDocuments(ctx, pending, 1); err != nil {
			return fmt.Errorf("failed to upsert %d courses: %w", len(pending), err)
		}
		upserted += len(pending)
		pending = pending[:0]
		return nil
	}

	var courses []struct {
		name   string
		course *models.Course
	}
	ix.catalog.Range(func(name string, course *models.Course) bool {
		courses = append(courses, struct {
			name   string
			course *models.Course
		}{name, course})
		return true
	})
	sort.Slice(courses, func(i, j int) bool { return courses[i].name < courses[j].name })

	for _, entry := range courses {
		hash, combined := ContentHash(entry.course.Title, entry.course.Desc)

		existing, err := ix.collection.GetByID(ctx, entry.name)
		if err == nil && existing.Metadata["hash"] == hash {
			continue
		}
		if err == nil {
			slog.Debug("Course content changed, re-indexing", "course", entry.name)
		}

		pending = append(pending, chromem.Document{
			ID:      entry.name,
			Content: combined,
			Metadata: map[string]string{
				"title":       entry.course.Title,
				"description": entry.course.Desc,
				"hash":        hash,
			},
		})
		if len(pending) >= upsertBatchSize {
			if err := flush(); err != nil {
				return upserted, err
			}
		}
	}
	if err := flush(); err != nil {
		return upserted, err
	}
	return upserted, nil
}

// Query restricts the vector results to the candidate id set when one is
// given, keeps up to fetchK of the nearest remaining courses, re-ranks them
// by cross-encoder score and returns the top k descending.
func (ix *Index) Query(ctx context.Context, query string, candidateIDs []string, k int) ([]Match, error) {
	count := ix.collection.Count()
	if count == 0 || k <= 0 {
		return []Match{}, nil
	}

	// The whole collection is ranked so the candidate filter applies before
	// the fetchK cap.
	results, err := ix.collection.Query(ctx, query, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	var allowed map[string]struct{}
	if candidateIDs != nil {
		allowed = make(map[string]struct{}, len(candidateIDs))
		for _, id := range candidateIDs {
			allowed[id] = struct{}{}
		}
	}

	matches := make([]Match, 0, len(results))
	docs := make([]string, 0, len(results))
	for _, r := range results {
		if len(matches) == fetchK {
			break
		}
		if allowed != nil {
			if _, ok := allowed[r.ID]; !ok {
				continue
			}
		}
		matches = append(matches, Match{
			ID:           r.ID,
			Document:     r.Content,
			InitDistance: 1 - r.Similarity,
		})
		docs = append(docs, r.Content)
	}
	if len(matches) == 0 {
		return []Match{}, nil
	}

	scores, err := ix.reranker.Score(ctx, query, docs)
	if err != nil {
		return nil, fmt.Errorf("re-rank failed: %w", err)
	}
	if len(scores) != len(matches) {
		return nil, fmt.Errorf("re-rank returned %d scores for %d documents", len(scores), len(matches))
	}
	for i := range matches {
		matches[i].Score = scores[i]
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}
