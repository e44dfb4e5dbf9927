package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/B3rK-3/ViewNJIT/pkg/llm"
	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

// ExtractedCourse is the structured output of the description pass.
type ExtractedCourse struct {
	PrereqTree   *models.RequirementNode `json:"prereq_tree"`
	CoreqTree    *models.RequirementNode `json:"coreq_tree"`
	Restrictions []models.Restriction    `json:"restrictions"`
}

// TreeExtractor turns free-text course descriptions into requirement
// trees using an LLM JSON-mode prompt.
type TreeExtractor struct {
	llm        llm.Client
	promptPath string

	promptOnce sync.Once
	promptText string
	promptErr  error
}

// NewTreeExtractor creates an extractor reading its prompt template from
// promptPath.
func NewTreeExtractor(client llm.Client, promptPath string) *TreeExtractor {
	return &TreeExtractor{llm: client, promptPath: promptPath}
}

// Extract parses one description. Empty or placeholder descriptions skip
// the model call and yield empty trees.
func (e *TreeExtractor) Extract(ctx context.Context, description string) (*ExtractedCourse, error) {
	lowered := strings.ToLower(strings.TrimSpace(description))
	if lowered == "" || lowered == "no description" {
		return &ExtractedCourse{Restrictions: []models.Restriction{}}, nil
	}

	e.promptOnce.Do(func() {
		raw, err := os.ReadFile(e.promptPath)
		if err != nil {
			e.promptErr = fmt.Errorf("description prompt not readable: %w", err)
			return
		}
		e.promptText = string(raw)
	})
	if e.promptErr != nil {
		return nil, e.promptErr
	}

	response, err := e.llm.GenerateJSON(ctx, e.promptText+"\n INPUT: "+description)
	if err != nil {
		return nil, err
	}

	// The model occasionally emits JavaScript-style undefined values.
	cleaned := strings.ReplaceAll(response, "undefined", "null")

	var extracted ExtractedCourse
	if err := json.Unmarshal([]byte(cleaned), &extracted); err != nil {
		slog.Error("Description extraction returned unparseable JSON", "raw", response)
		return nil, fmt.Errorf("extraction response unparseable: %w", err)
	}
	if extracted.Restrictions == nil {
		extracted.Restrictions = []models.Restriction{}
	}
	return &extracted, nil
}
