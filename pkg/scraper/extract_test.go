package scraper

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/B3rK-3/ViewNJIT/pkg/llm"
	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

// jsonLLM returns a canned JSON-mode response and records prompts.
type jsonLLM struct {
	response string
	prompts  []string
}

func (j *jsonLLM) Generate(context.Context, llm.GenerateInput) <-chan llm.Chunk {
	ch := make(chan llm.Chunk)
	close(ch)
	return ch
}

func (j *jsonLLM) GenerateJSON(_ context.Context, prompt string) (string, error) {
	j.prompts = append(j.prompts, prompt)
	return j.response, nil
}

func promptFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("Extract trees."), 0o644))
	return path
}

func TestExtractSkipsEmptyDescriptions(t *testing.T) {
	model := &jsonLLM{}
	e := NewTreeExtractor(model, promptFile(t))

	for _, desc := range []string{"", "  ", "No Description", "no description"} {
		extracted, err := e.Extract(context.Background(), desc)
		require.NoError(t, err)
		assert.Nil(t, extracted.PrereqTree)
		assert.Nil(t, extracted.CoreqTree)
		assert.NotNil(t, extracted.Restrictions)
	}
	assert.Empty(t, model.prompts, "no model calls for empty descriptions")
}

func TestExtractParsesTree(t *testing.T) {
	model := &jsonLLM{response: `{
		"prereq_tree": {"type":"AND","children":[{"type":"COURSE","course":"CS 101","min_grade":"C"}]},
		"coreq_tree": null,
		"restrictions": [{"raw":"Majors only"}]
	}`}
	e := NewTreeExtractor(model, promptFile(t))

	extracted, err := e.Extract(context.Background(), "Prerequisite: CS 101 with a grade of C.")
	require.NoError(t, err)
	require.NotNil(t, extracted.PrereqTree)
	assert.Equal(t, models.NodeAnd, extracted.PrereqTree.Type)
	assert.Equal(t, "CS 101", extracted.PrereqTree.Children[0].Course)
	require.Len(t, extracted.Restrictions, 1)
	assert.Equal(t, "Majors only", extracted.Restrictions[0].Raw)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "INPUT: Prerequisite: CS 101")
}

func TestExtractCleansUndefined(t *testing.T) {
	model := &jsonLLM{response: `{"prereq_tree": undefined, "coreq_tree": null, "restrictions": []}`}
	e := NewTreeExtractor(model, promptFile(t))

	extracted, err := e.Extract(context.Background(), "Some description.")
	require.NoError(t, err)
	assert.Nil(t, extracted.PrereqTree)
}

func TestExtractUnparseableJSON(t *testing.T) {
	model := &jsonLLM{response: "sorry, I cannot do that"}
	e := NewTreeExtractor(model, promptFile(t))

	_, err := e.Extract(context.Background(), "Some description.")
	assert.Error(t, err)
}
