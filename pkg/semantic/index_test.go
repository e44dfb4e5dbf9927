package semantic

import (
	"context"
	"math"
	"strings"
	"testing"

	chromem "github.com/philippgille/chromem-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/B3rK-3/ViewNJIT/pkg/catalog"
	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

// testEmbedding is a deterministic stand-in for the embedding model: a
// unit vector derived from the text bytes.
func testEmbedding(_ context.Context, text string) ([]float32, error) {
	var sum int
	for _, b := range []byte(text) {
		sum += int(b)
	}
	angle := float64(sum%360) * math.Pi / 180
	return []float32{float32(math.Cos(angle)), float32(math.Sin(angle)), 0}, nil
}

// keywordReranker scores documents by occurrences of the query's first word.
type keywordReranker struct{}

func (keywordReranker) Score(_ context.Context, query string, docs []string) ([]float64, error) {
	keyword := strings.Fields(query)[0]
	scores := make([]float64, len(docs))
	for i, doc := range docs {
		scores[i] = float64(strings.Count(strings.ToLower(doc), strings.ToLower(keyword)))
	}
	return scores, nil
}

func semanticFixture(t *testing.T) (*Index, *catalog.Store) {
	t.Helper()
	store := catalog.NewStore()
	store.ReplaceAll(map[string]*models.Course{
		"CS 101":   {Title: "Intro to Computing", Desc: "Programming fundamentals in python", Sections: map[string]models.SectionInfo{}},
		"CS 280":   {Title: "Programming Paradigms", Desc: "Functional and object oriented programming", Sections: map[string]models.SectionInfo{}},
		"HIST 213": {Title: "World History", Desc: "Survey of global history", Sections: map[string]models.SectionInfo{}},
	})

	index, err := NewIndex(chromem.NewDB(), "test_courses", testEmbedding, store, keywordReranker{})
	require.NoError(t, err)
	return index, store
}

func TestContentHash(t *testing.T) {
	hash1, combined := ContentHash("Intro", "desc")
	assert.Equal(t, "Intro desc", combined)
	assert.Len(t, hash1, 32)

	hash2, _ := ContentHash("Intro", "desc")
	assert.Equal(t, hash1, hash2)

	hash3, _ := ContentHash("Intro", "other")
	assert.NotEqual(t, hash1, hash3)
}

func TestReconcileIdempotent(t *testing.T) {
	index, store := semanticFixture(t)
	ctx := context.Background()

	upserted, err := index.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, upserted)

	// No catalog change: zero upserts.
	upserted, err = index.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, upserted)

	// One changed description: exactly one upsert.
	store.Upsert("CS 101", &models.Course{
		Title:    "Intro to Computing",
		Desc:     "Now with go instead of python",
		Sections: map[string]models.SectionInfo{},
	})
	upserted, err = index.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, upserted)
}

func TestQueryRestrictsToCandidates(t *testing.T) {
	index, _ := semanticFixture(t)
	ctx := context.Background()
	_, err := index.Reconcile(ctx)
	require.NoError(t, err)

	matches, err := index.Query(ctx, "programming courses", []string{"CS 101", "CS 280"}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Contains(t, []string{"CS 101", "CS 280"}, m.ID)
	}
}

func TestQueryRanksByRerankerScore(t *testing.T) {
	index, _ := semanticFixture(t)
	ctx := context.Background()
	_, err := index.Reconcile(ctx)
	require.NoError(t, err)

	matches, err := index.Query(ctx, "programming", nil, 10)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	// "Programming Paradigms" mentions the keyword twice, CS 101 once,
	// HIST 213 never; scores must be descending.
	assert.Equal(t, "CS 280", matches[0].ID)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
}

func TestQueryTruncatesToK(t *testing.T) {
	index, _ := semanticFixture(t)
	ctx := context.Background()
	_, err := index.Reconcile(ctx)
	require.NoError(t, err)

	matches, err := index.Query(ctx, "history", nil, 1)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestQueryEmptyCandidates(t *testing.T) {
	index, _ := semanticFixture(t)
	ctx := context.Background()
	_, err := index.Reconcile(ctx)
	require.NoError(t, err)

	matches, err := index.Query(ctx, "anything", []string{"ZZ 999"}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
