package tools

import (
	"context"
	"encoding/json"

	"github.com/B3rK-3/ViewNJIT/pkg/catalog"
	"github.com/B3rK-3/ViewNJIT/pkg/models"
	"github.com/B3rK-3/ViewNJIT/pkg/prereq"
)

type courseNameArgs struct {
	CourseName string `json:"course_name"`
}

var courseNameSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"course_name": map[string]any{
			"type":        "string",
			"description": "Course code, e.g. \"CS 101\". Close matches are resolved automatically.",
		},
	},
	"required": []string{"course_name"},
}

func newCourseDescriptionTool(deps Deps) *Tool {
	return &Tool{
		Name:        "get_course_description",
		Description: "Returns the catalog description of one course.",
		Parameters:  courseNameSchema,
		Run: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args courseNameArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			name, nerr := deps.Catalog.Normalize(args.CourseName)
			if nerr != nil {
				return nerr, nil
			}
			course, _ := deps.Catalog.Get(name)
			return map[string]string{"description": course.Desc}, nil
		},
	}
}

func newCanTakeCourseTool(deps Deps, profile *models.Profile) *Tool {
	return &Tool{
		Name:        "can_take_course",
		Description: "Checks whether the user satisfies all prerequisites for one course. Returns true, or an explanation of what is missing.",
		Parameters:  courseNameSchema,
		Run: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args courseNameArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			name, nerr := deps.Catalog.Normalize(args.CourseName)
			if nerr != nil {
				return nerr, nil
			}
			course, _ := deps.Catalog.Get(name)
			return map[string]prereq.Result{"response": prereq.Evaluate(course.PrereqTree, profile)}, nil
		},
	}
}

func newGetTermTool(term string) *Tool {
	return &Tool{
		Name:        "get_term",
		Description: "Returns the academic term this conversation is planning for, as \"<year> <season>\".",
		Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		Run: func(ctx context.Context, raw json.RawMessage) (any, error) {
			return catalog.TermSeason(term), nil
		},
	}
}
