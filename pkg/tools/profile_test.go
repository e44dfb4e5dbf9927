package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

func TestUpdateProfileAddCourses(t *testing.T) {
	profile := models.NewProfile()
	r := NewRegistry(testDeps(), profile, testTerm, nil)

	resp := execute(t, r, "update_user_profile",
		`{"courses":[{"name":"cs100","grade":"B+"},{"name":"ZZ 999","grade":"A"}]}`)

	var errs []string
	require.NoError(t, json.Unmarshal(resp["errors"], &errs))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "not a valid course")

	assert.Equal(t, models.UserCourseInfo{Name: "CS 100", Grade: "B+"}, profile.Courses["CS 100"])
	assert.False(t, profile.NewUser, "new_user cleared on first successful update")
}

func TestUpdateProfileGradeDefaultsToPass(t *testing.T) {
	profile := models.NewProfile()
	r := NewRegistry(testDeps(), profile, testTerm, nil)

	execute(t, r, "update_user_profile", `{"courses":[{"name":"CS 100"}]}`)
	assert.Equal(t, "C", profile.Courses["CS 100"].Grade)
}

func TestUpdateProfileStandingAndHonors(t *testing.T) {
	profile := models.NewProfile()
	r := NewRegistry(testDeps(), profile, testTerm, nil)

	execute(t, r, "update_user_profile",
		`{"standing":"JUNIOR","semesters_left":3,"honors":true}`)
	assert.Equal(t, "JUNIOR", profile.Standing)
	require.NotNil(t, profile.SemestersLeft)
	assert.Equal(t, 3, *profile.SemestersLeft)
	assert.True(t, profile.Honors)

	// Omitted fields stay untouched on later updates.
	execute(t, r, "update_user_profile", `{"courses":[{"name":"CS 100"}]}`)
	assert.Equal(t, "JUNIOR", profile.Standing)
	assert.True(t, profile.Honors)
}

func TestUpdateProfileInvalidStanding(t *testing.T) {
	profile := models.NewProfile()
	r := NewRegistry(testDeps(), profile, testTerm, nil)

	resp := execute(t, r, "update_user_profile", `{"standing":"WIZARD"}`)
	var errs []string
	require.NoError(t, json.Unmarshal(resp["errors"], &errs))
	require.Len(t, errs, 1)
	assert.Empty(t, profile.Standing)
}

func TestUpdateProfileEquivalentsDeduplicated(t *testing.T) {
	profile := models.NewProfile()
	r := NewRegistry(testDeps(), profile, testTerm, nil)

	execute(t, r, "update_user_profile", `{"equivalents":["cs100","CS 100"]}`)
	assert.Equal(t, []string{"CS 100"}, profile.Equivalents)
}

func TestUpdateProfileRemovals(t *testing.T) {
	two := 2
	profile := &models.Profile{
		NewUser: false,
		Courses: map[string]models.UserCourseInfo{
			"CS 100": {Name: "CS 100", Grade: "A"},
			"CS 200": {Name: "CS 200", Grade: "B"},
		},
		Equivalents:   []string{"CS 100", "CS 200"},
		Standing:      "SENIOR",
		SemestersLeft: &two,
	}
	r := NewRegistry(testDeps(), profile, testTerm, nil)

	execute(t, r, "update_user_profile",
		`{"to_remove":{"courses":["cs100"],"equivalents":["CS 200"],"standing":true,"semesters_left":true}}`)

	assert.NotContains(t, profile.Courses, "CS 100")
	assert.Contains(t, profile.Courses, "CS 200")
	assert.Equal(t, []string{"CS 100"}, profile.Equivalents)
	assert.Empty(t, profile.Standing)
	assert.Nil(t, profile.SemestersLeft)
}

func TestUpdateProfileReturnsFullDump(t *testing.T) {
	profile := models.NewProfile()
	r := NewRegistry(testDeps(), profile, testTerm, nil)

	resp := execute(t, r, "update_user_profile", `{"courses":[{"name":"CS 100","grade":"A"}]}`)

	var dumped models.Profile
	require.NoError(t, json.Unmarshal(resp["profile"], &dumped))
	assert.Equal(t, profile.Courses, dumped.Courses)
	assert.False(t, dumped.NewUser)
}
