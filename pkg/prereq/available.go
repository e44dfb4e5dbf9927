package prereq

import (
	"sort"

	"github.com/B3rK-3/ViewNJIT/pkg/catalog"
	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

// AvailableCourses lists candidate course names for downstream filtering.
// Courses the user already has are always skipped. When onlyCurrentTerm is
// set the candidates come from the term index; when onlyPrereqsFulfilled is
// set only courses whose prerequisite tree evaluates satisfied survive.
// The result is sorted for deterministic output.
func AvailableCourses(store *catalog.Store, p *models.Profile, onlyPrereqsFulfilled, onlyCurrentTerm bool, term string) []string {
	var candidates []string
	if onlyCurrentTerm {
		candidates = store.TermCourses(term)
	} else {
		candidates = store.Names()
	}

	out := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if _, taken := p.Courses[name]; taken {
			continue
		}
		if onlyPrereqsFulfilled {
			course, ok := store.Get(name)
			if !ok {
				continue
			}
			if r := Evaluate(course.PrereqTree, p); !r.Satisfied {
				continue
			}
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
