// Package catalog owns the authoritative in-memory course catalog, course
// name normalization and the per-term course index. The store is
// read-mostly: request handlers read it, scrape cycles replace or upsert
// entries in bulk.
package catalog

import (
	"sync"

	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

// Store maps course codes to course records and maintains the derived
// term -> courses index on every mutation.
type Store struct {
	mu          sync.RWMutex
	courses     map[string]*models.Course
	termCourses map[string]map[string]struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		courses:     map[string]*models.Course{},
		termCourses: map[string]map[string]struct{}{},
	}
}

// Get returns the course record for an exact (already normalized) name.
func (s *Store) Get(name string) (*models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[name]
	return c, ok
}

// Len returns the number of courses in the catalog.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses)
}

// Names returns all valid course names. The result is a copy.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.courses))
	for name := range s.courses {
		names = append(names, name)
	}
	return names
}

// Range calls fn for every course until fn returns false. fn must not
// mutate the store.
func (s *Store) Range(fn func(name string, course *models.Course) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for name, c := range s.courses {
		if !fn(name, c) {
			return
		}
	}
}

// Upsert inserts or replaces one course and reindexes its terms.
func (s *Store) Upsert(name string, course *models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeFromTermsLocked(name)
	s.courses[name] = course
	s.indexTermsLocked(name, course)
}

// ReplaceAll swaps the entire catalog in one step. Used at scrape and
// reload boundaries so readers never see a half-built map.
func (s *Store) ReplaceAll(courses map[string]*models.Course) {
	terms := map[string]map[string]struct{}{}
	for name, c := range courses {
		for term := range c.Sections {
			if terms[term] == nil {
				terms[term] = map[string]struct{}{}
			}
			terms[term][name] = struct{}{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = courses
	s.termCourses = terms
}

// TermCourses returns the names of all courses with at least one section
// in the given term.
func (s *Store) TermCourses(term string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.termCourses[term]
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	return names
}

// OfferedIn reports whether the course has sections in the term.
func (s *Store) OfferedIn(name, term string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.termCourses[term][name]
	return ok
}

// Snapshot returns a shallow copy of the catalog map for serialization.
func (s *Store) Snapshot() map[string]*models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.Course, len(s.courses))
	for name, c := range s.courses {
		out[name] = c
	}
	return out
}

func (s *Store) indexTermsLocked(name string, course *models.Course) {
	for term := range course.Sections {
		if s.termCourses[term] == nil {
			s.termCourses[term] = map[string]struct{}{}
		}
		s.termCourses[term][name] = struct{}{}
	}
}

func (s *Store) removeFromTermsLocked(name string) {
	old, ok := s.courses[name]
	if !ok {
		return
	}
	for term := range old.Sections {
		delete(s.termCourses[term], name)
		if len(s.termCourses[term]) == 0 {
			delete(s.termCourses, term)
		}
	}
}
