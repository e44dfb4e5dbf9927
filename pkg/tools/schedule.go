package tools

import (
	"context"
	"encoding/json"

	"github.com/B3rK-3/ViewNJIT/pkg/models"
	"github.com/B3rK-3/ViewNJIT/pkg/schedule"
)

func newMakeScheduleTool(deps Deps, term string, emitSchedule func(models.Schedule)) *Tool {
	return &Tool{
		Name:        "make_schedule",
		Description: "Builds up to five conflict-free weekly schedules from the given courses for the current term. Schedules are streamed to the user as they are found.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"courses": map[string]any{
					"type":        "array",
					"description": "Course names to include in the schedule.",
					"items":       map[string]any{"type": "string"},
				},
				"max_days": map[string]any{
					"type":        "integer",
					"description": "Maximum number of days per week the user wants to attend classes (1-5, default 5).",
				},
				"locked_in_sections": map[string]any{
					"type":        "object",
					"description": "Map from course name to the section ids to lock in; only those sections are considered for that course.",
					"additionalProperties": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"min_rmp_rating": map[string]any{
					"type":        "number",
					"description": "Minimum RateMyProfessors rating (0.0-5.0) required for instructors; sections below are excluded.",
				},
				"days": map[string]any{
					"type":        "array",
					"description": "Specific weekday names (e.g. [\"Monday\", \"Wednesday\"]); only sections meeting exclusively on these days are included.",
					"items":       map[string]any{"type": "string"},
				},
				"honors": map[string]any{
					"type":        "boolean",
					"description": "True if the student is honors; false excludes honors sections.",
				},
			},
			"required": []string{"courses"},
		},
		Run: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var req schedule.Request
			if err := decodeArgs(raw, &req); err != nil {
				return nil, err
			}
			if req.MinRMPRating != nil && *req.MinRMPRating <= 0 {
				req.MinRMPRating = nil
			}
			return deps.Builder.Build(ctx, req, term, emitSchedule), nil
		},
	}
}
