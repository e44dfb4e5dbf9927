package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/B3rK-3/ViewNJIT/pkg/catalog"
	"github.com/B3rK-3/ViewNJIT/pkg/models"
	"github.com/B3rK-3/ViewNJIT/pkg/schedule"
)

const testTerm = "202610"

func testDeps() Deps {
	sections := map[string]models.SectionInfo{
		testTerm: {
			"001": models.SectionEntry{"001", "12345", "MW", "10:00 AM - 11:20 AM",
				"Room 1", "Open", "30", "10", "Doe, Jane", "Face-to-Face", "3", "", ""},
			"002": models.SectionEntry{"002", "12346", "TR", "10:00 AM - 11:20 AM",
				"Room 2", "Open", "30", "10", "Roe, Rick", "Face-to-Face", "3", "", ""},
		},
	}
	store := catalog.NewStore()
	store.ReplaceAll(map[string]*models.Course{
		"CS 100": {Title: "Intro", Desc: "Basics of computing", Sections: sections},
		"CS 200": {
			Title: "Data Structures",
			Desc:  "Lists and trees",
			PrereqTree: &models.RequirementNode{
				Type: models.NodeAnd,
				Children: []*models.RequirementNode{
					{Type: models.NodeCourse, Course: "CS 100", MinGrade: "B"},
				},
			},
			Sections: sections,
		},
	})
	return Deps{
		Catalog:   store,
		Lecturers: catalog.NewLecturerMap(),
		Builder:   schedule.NewBuilder(store, catalog.NewLecturerMap()),
	}
}

func execute(t *testing.T, r *Registry, tool, args string) map[string]json.RawMessage {
	t.Helper()
	raw := r.Execute(context.Background(), tool, args)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func TestRegistryDefinitions(t *testing.T) {
	r := NewRegistry(testDeps(), models.NewProfile(), testTerm, nil)
	defs := r.Definitions()
	require.Len(t, defs, 6)

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Function.Name)
	}
	assert.Equal(t, []string{
		"course_query", "update_user_profile", "get_course_description",
		"can_take_course", "make_schedule", "get_term",
	}, names)
}

func TestExecuteUnknownTool(t *testing.T) {
	r := NewRegistry(testDeps(), models.NewProfile(), testTerm, nil)
	resp := execute(t, r, "nope", "{}")
	assert.Contains(t, string(resp["error"]), "Unknown tool")
}

func TestUnwrapEnvelope(t *testing.T) {
	// A single args key wrapping an object unwraps once.
	assert.JSONEq(t, `{"course_name":"CS 100"}`,
		string(UnwrapEnvelope([]byte(`{"args":{"course_name":"CS 100"}}`))))

	// Anything else passes through untouched, except that a nested
	// envelope loses only its outer level.
	passthrough := []string{
		`{"course_name":"CS 100"}`,
		`{"args":{"a":1},"other":2}`,
		`{"args":"not an object"}`,
		`{"args":{"args":{"a":1}}}`, // only one level
	}
	for _, in := range passthrough {
		out := UnwrapEnvelope([]byte(in))
		if in == `{"args":{"args":{"a":1}}}` {
			assert.JSONEq(t, `{"args":{"a":1}}`, string(out))
			continue
		}
		assert.JSONEq(t, in, string(out))
	}

	assert.JSONEq(t, `{}`, string(UnwrapEnvelope(nil)))
}

func TestGetTerm(t *testing.T) {
	r := NewRegistry(testDeps(), models.NewProfile(), testTerm, nil)
	raw := r.Execute(context.Background(), "get_term", "")
	assert.Equal(t, `"2026 Spring"`, string(raw))
}

func TestGetCourseDescription(t *testing.T) {
	r := NewRegistry(testDeps(), models.NewProfile(), testTerm, nil)

	resp := execute(t, r, "get_course_description", `{"course_name":"cs100"}`)
	assert.Equal(t, `"Basics of computing"`, string(resp["description"]))

	resp = execute(t, r, "get_course_description", `{"course_name":"ZZ 999"}`)
	assert.Contains(t, string(resp["error_message"]), "not a valid course")
	var suggestions []string
	require.NoError(t, json.Unmarshal(resp["did_you_mean"], &suggestions))
	assert.LessOrEqual(t, len(suggestions), 5)
}

func TestCanTakeCourse(t *testing.T) {
	profile := models.NewProfile()
	r := NewRegistry(testDeps(), profile, testTerm, nil)

	resp := execute(t, r, "can_take_course", `{"course_name":"CS 100"}`)
	assert.Equal(t, "true", string(resp["response"]))

	profile.Courses["CS 100"] = models.UserCourseInfo{Name: "CS 100", Grade: "C"}
	resp = execute(t, r, "can_take_course", `{"course_name":"CS 200"}`)
	assert.Equal(t, `"User has C in CS 100, but B or better is required"`, string(resp["response"]))

	profile.Courses["CS 100"] = models.UserCourseInfo{Name: "CS 100", Grade: "A"}
	resp = execute(t, r, "can_take_course", `{"course_name":"CS 200"}`)
	assert.Equal(t, "true", string(resp["response"]))
}

func TestCanTakeCourseEnvelopeQuirk(t *testing.T) {
	r := NewRegistry(testDeps(), models.NewProfile(), testTerm, nil)
	resp := execute(t, r, "can_take_course", `{"args":{"course_name":"CS 100"}}`)
	assert.Equal(t, "true", string(resp["response"]))
}

func TestMakeScheduleTool(t *testing.T) {
	var streamed []models.Schedule
	r := NewRegistry(testDeps(), models.NewProfile(), testTerm, func(s models.Schedule) {
		streamed = append(streamed, s)
	})

	resp := execute(t, r, "make_schedule", `{"courses":["CS 100"],"max_days":5}`)
	var schedules []models.Schedule
	require.NoError(t, json.Unmarshal(resp["schedules"], &schedules))
	assert.Len(t, schedules, 2)
	assert.Equal(t, schedules, streamed)
}
