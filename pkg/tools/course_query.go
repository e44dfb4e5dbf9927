package tools

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/B3rK-3/ViewNJIT/pkg/models"
	"github.com/B3rK-3/ViewNJIT/pkg/prereq"
	"github.com/B3rK-3/ViewNJIT/pkg/semantic"
)

const (
	defaultTopN = 20
	maxTopN     = 100
)

type courseQueryArgs struct {
	Query                string `json:"query"`
	TopN                 *int   `json:"top_n,omitempty"`
	OnlyPrereqsFulfilled *bool  `json:"only_prereqs_fulfilled,omitempty"`
	OnlyCurrentSemester  *bool  `json:"only_current_semester,omitempty"`
}

type courseQueryResult struct {
	SearchResult         []semantic.Match `json:"search_result"`
	MessageToRelayToUser string           `json:"message_to_relay_to_user"`
}

func newCourseQueryTool(deps Deps, profile *models.Profile, term string) *Tool {
	return &Tool{
		Name:        "course_query",
		Description: "Semantic search over the course catalog. Returns the most relevant courses for a natural-language query, optionally restricted to courses the user is eligible for and to the current semester.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Natural language description of the course(s) the user is searching for.",
				},
				"top_n": map[string]any{
					"type":        "integer",
					"description": "Maximum number of courses to return, ordered by relevance (1-100, default 20).",
				},
				"only_prereqs_fulfilled": map[string]any{
					"type":        "boolean",
					"description": "If true (default), return only courses for which the user satisfies all prerequisites.",
				},
				"only_current_semester": map[string]any{
					"type":        "boolean",
					"description": "If true (default), only look at courses offered in the current semester.",
				},
			},
			"required": []string{"query"},
		},
		Run: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args courseQueryArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}

			topN := defaultTopN
			if args.TopN != nil {
				topN = *args.TopN
			}
			if topN < 1 {
				topN = 1
			}
			if topN > maxTopN {
				topN = maxTopN
			}

			onlyPrereqs := true
			if args.OnlyPrereqsFulfilled != nil {
				onlyPrereqs = *args.OnlyPrereqsFulfilled
			}
			onlyTerm := true
			if args.OnlyCurrentSemester != nil {
				onlyTerm = *args.OnlyCurrentSemester
			}

			// Restricting the candidate ids up front keeps the re-rank
			// budget on courses the user can actually take.
			var candidates []string
			if onlyPrereqs || onlyTerm {
				candidates = prereq.AvailableCourses(deps.Catalog, profile, onlyPrereqs, onlyTerm, term)
			}

			matches, err := deps.Index.Query(ctx, args.Query, candidates, topN)
			if err != nil {
				// Vector-store failures are logged here and surface to
				// the model as a plain error value; no retries here.
				slog.Error("Course query failed", "error", err)
				return map[string]string{"error": "error"}, nil
			}
			return courseQueryResult{
				SearchResult:         matches,
				MessageToRelayToUser: "You should always choose the best ones and return in the format of course_id: document.",
			}, nil
		},
	}
}
