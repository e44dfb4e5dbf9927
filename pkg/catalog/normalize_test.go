package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

func testStore(names ...string) *Store {
	courses := map[string]*models.Course{}
	for _, name := range names {
		courses[name] = &models.Course{Title: name, Sections: map[string]models.SectionInfo{}}
	}
	s := NewStore()
	s.ReplaceAll(courses)
	return s
}

func TestNormalizeExactMatch(t *testing.T) {
	s := testStore("CS 101", "CS 280", "MATH 111")

	name, nerr := s.Normalize("CS 101")
	require.Nil(t, nerr)
	assert.Equal(t, "CS 101", name)

	// Lowercase input upper-cases to a valid name.
	name, nerr = s.Normalize("cs 101")
	require.Nil(t, nerr)
	assert.Equal(t, "CS 101", name)
}

func TestNormalizeSpaceInsensitive(t *testing.T) {
	s := testStore("CS 101", "CS 280", "MATH 111")

	name, nerr := s.Normalize("cs101")
	require.Nil(t, nerr)
	assert.Equal(t, "CS 101", name)

	name, nerr = s.Normalize("math111")
	require.Nil(t, nerr)
	assert.Equal(t, "MATH 111", name)
}

func TestNormalizeUnknownReturnsSuggestions(t *testing.T) {
	s := testStore("CS 101", "CS 102", "CS 103", "CS 104", "CS 105", "CS 106", "MATH 111")

	name, nerr := s.Normalize("ZZ 999")
	require.NotNil(t, nerr)
	assert.Empty(t, name)
	assert.NotEmpty(t, nerr.ErrorMessage)
	assert.LessOrEqual(t, len(nerr.DidYouMean), 5)
	for _, suggestion := range nerr.DidYouMean {
		_, ok := s.Get(suggestion)
		assert.True(t, ok, "suggestion %q must be a valid course", suggestion)
	}
}

// Every normalization outcome is either a member of the valid set or a
// structured error; never an arbitrary string.
func TestNormalizeClosedOverValidSet(t *testing.T) {
	s := testStore("CS 101", "CS 280", "MATH 111", "PHYS 102")

	inputs := []string{"CS 101", "cs101", "C S 1 0 1", "MATH111", "nonsense", "", "phys 102", "PHYS102A"}
	for _, input := range inputs {
		name, nerr := s.Normalize(input)
		if nerr == nil {
			_, ok := s.Get(name)
			assert.True(t, ok, "normalize(%q) = %q must be valid", input, name)
		} else {
			assert.Empty(t, name)
		}
	}
}

func TestNormalizeEmptyCatalog(t *testing.T) {
	s := NewStore()
	_, nerr := s.Normalize("CS 101")
	require.NotNil(t, nerr)
	assert.Empty(t, nerr.DidYouMean)
}

func TestLCSLength(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 0},
		{"abc", "", 0},
		{"abc", "abc", 3},
		{"cs101", "cs280", 3},
		{"abcdef", "acf", 3},
		{"xyz", "abc", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lcsLength(tt.a, tt.b), "lcs(%q, %q)", tt.a, tt.b)
	}
}

func TestNormalizeSectionID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2", "002"},
		{"02", "002"},
		{"002", "002"},
		{"H2", "H02"},
		{"h2", "H02"},
		{"HM2", "HM2"},
		{"101", "101"},
		{"HS1", "HS1"},
		{"1B", "1B"}, // digits before letters: returned upper-cased as-is
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSectionID(tt.in), "section id %q", tt.in)
	}
}
