package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

type removeFromProfileArgs struct {
	Courses       []string `json:"courses,omitempty"`
	Equivalents   []string `json:"equivalents,omitempty"`
	Standing      bool     `json:"standing,omitempty"`
	SemestersLeft bool     `json:"semesters_left,omitempty"`
}

type updateProfileArgs struct {
	Courses       []models.UserCourseInfo `json:"courses,omitempty"`
	Equivalents   []string                `json:"equivalents,omitempty"`
	Standing      *string                 `json:"standing,omitempty"`
	SemestersLeft *int                    `json:"semesters_left,omitempty"`
	Honors        *bool                   `json:"honors,omitempty"`
	ToRemove      *removeFromProfileArgs  `json:"to_remove,omitempty"`
}

type updateProfileResult struct {
	Profile *models.Profile `json:"profile"`
	Errors  []string        `json:"errors,omitempty"`
}

func newUpdateProfileTool(deps Deps, profile *models.Profile) *Tool {
	return &Tool{
		Name:        "update_user_profile",
		Description: "Add or remove completed courses, transfer equivalents, academic standing, semesters remaining and honors status on the user's profile. Returns the full profile after the update.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"courses": map[string]any{
					"type":        "array",
					"description": "Completed or in-progress courses the user has taken. A reported pass is the grade 'C'.",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"name":  map[string]any{"type": "string"},
							"grade": map[string]any{"type": "string", "enum": []string{"A", "B+", "B", "C+", "C", "C-", "F"}},
						},
						"required": []string{"name"},
					},
				},
				"equivalents": map[string]any{
					"type":        "array",
					"description": "Courses the user has transfer equivalents for.",
					"items":       map[string]any{"type": "string"},
				},
				"standing": map[string]any{
					"type":        "string",
					"description": "User's academic standing.",
					"enum":        models.Standings,
				},
				"semesters_left": map[string]any{
					"type":        "integer",
					"description": "Number of semesters remaining until graduation.",
				},
				"honors": map[string]any{
					"type":        "boolean",
					"description": "True if the student is in the honors program.",
				},
				"to_remove": map[string]any{
					"type":        "object",
					"description": "Entries to remove from the profile.",
					"properties": map[string]any{
						"courses":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"equivalents":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"standing":       map[string]any{"type": "boolean"},
						"semesters_left": map[string]any{"type": "boolean"},
					},
				},
			},
		},
		Run: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args updateProfileArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}

			var errs []string

			for _, course := range args.Courses {
				name, nerr := deps.Catalog.Normalize(course.Name)
				if nerr != nil {
					errs = append(errs, nerr.ErrorMessage)
					continue
				}
				grade := course.Grade
				if grade == "" {
					grade = "C"
				}
				profile.Courses[name] = models.UserCourseInfo{Name: name, Grade: grade}
			}

			for _, equiv := range args.Equivalents {
				name, nerr := deps.Catalog.Normalize(equiv)
				if nerr != nil {
					errs = append(errs, nerr.ErrorMessage)
					continue
				}
				if !profile.HasEquivalent(name) {
					profile.Equivalents = append(profile.Equivalents, name)
				}
			}

			if args.Standing != nil {
				if models.StandingRank(*args.Standing) < 0 {
					errs = append(errs, fmt.Sprintf("%q is not a valid standing", *args.Standing))
				} else {
					profile.Standing = *args.Standing
				}
			}
			if args.SemestersLeft != nil {
				profile.SemestersLeft = args.SemestersLeft
			}
			if args.Honors != nil {
				profile.Honors = *args.Honors
			}

			if args.ToRemove != nil {
				applyRemovals(deps, profile, args.ToRemove, &errs)
			}

			profile.NewUser = false
			return updateProfileResult{Profile: profile, Errors: errs}, nil
		},
	}
}

func applyRemovals(deps Deps, profile *models.Profile, rm *removeFromProfileArgs, errs *[]string) {
	for _, course := range rm.Courses {
		name, nerr := deps.Catalog.Normalize(course)
		if nerr != nil {
			*errs = append(*errs, nerr.ErrorMessage)
			continue
		}
		delete(profile.Courses, name)
	}
	for _, equiv := range rm.Equivalents {
		name, nerr := deps.Catalog.Normalize(equiv)
		if nerr != nil {
			*errs = append(*errs, nerr.ErrorMessage)
			continue
		}
		kept := profile.Equivalents[:0]
		for _, e := range profile.Equivalents {
			if e != name {
				kept = append(kept, e)
			}
		}
		profile.Equivalents = kept
	}
	if rm.Standing {
		profile.Standing = ""
	}
	if rm.SemestersLeft {
		profile.SemestersLeft = nil
	}
}
