package schedule

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/B3rK-3/ViewNJIT/pkg/catalog"
	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

// MaxSchedules bounds how many schedules one request may produce.
const MaxSchedules = 5

// dayLetters maps weekday names accepted in requests to section day letters.
var dayLetters = map[string]byte{
	"Monday":    'M',
	"Tuesday":   'T',
	"Wednesday": 'W',
	"Thursday":  'R',
	"Friday":    'F',
}

// Request describes one schedule generation call.
type Request struct {
	Courses          []string            `json:"courses"`
	MaxDays          int                 `json:"max_days"`
	LockedInSections map[string][]string `json:"locked_in_sections,omitempty"`
	MinRMPRating     *float64            `json:"min_rmp_rating,omitempty"`
	Days             []string            `json:"days,omitempty"`
	Honors           bool                `json:"honors"`
}

// Result collects generated schedules together with per-course errors.
type Result struct {
	Errors    []string          `json:"errors,omitempty"`
	Schedules []models.Schedule `json:"schedules"`
}

// Builder enumerates schedules over the catalog and lecturer stores.
type Builder struct {
	catalog   *catalog.Store
	lecturers *catalog.LecturerMap
}

// NewBuilder creates a schedule builder.
func NewBuilder(cat *catalog.Store, lecturers *catalog.LecturerMap) *Builder {
	return &Builder{catalog: cat, lecturers: lecturers}
}

// candidate is one section that survived filtering, with parsed meetings.
type candidate struct {
	section  models.ScheduleSection
	meetings map[byte][]Interval
	days     string
}

// Build filters each course's sections, enumerates the shuffled Cartesian
// product and emits every conflict-free combination through emit as soon
// as it is found, stopping after MaxSchedules. The emit callback may be
// nil. Enumeration order is deliberately randomized so retries produce
// variety; only set-level properties are guaranteed.
func (b *Builder) Build(ctx context.Context, req Request, term string, emit func(models.Schedule)) Result {
	res := Result{Schedules: []models.Schedule{}}

	// An absent max_days (zero) means the default of 5; other values are
	// clamped to [1, 5].
	maxDays := req.MaxDays
	switch {
	case maxDays == 0 || maxDays > 5:
		maxDays = 5
	case maxDays < 1:
		maxDays = 1
	}

	allowedDays, dayErr := allowedDaySet(req.Days)
	if dayErr != "" {
		res.Errors = append(res.Errors, dayErr)
	}

	locked := normalizeLocked(b.catalog, req.LockedInSections)

	var perCourse [][]candidate
	seen := map[string]struct{}{}
	for _, raw := range req.Courses {
		name, nerr := b.catalog.Normalize(raw)
		if nerr != nil {
			res.Errors = append(res.Errors, nerr.ErrorMessage)
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		course, _ := b.catalog.Get(name)
		sections := course.Sections[term]
		if len(sections) == 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("No sections for %s in term %s", name, term))
			continue
		}

		cands := b.filterSections(name, sections, locked[name], allowedDays, req)
		if len(cands) == 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("No sections of %s match the given filters", name))
			continue
		}
		perCourse = append(perCourse, cands)
	}

	if len(perCourse) == 0 {
		return res
	}

	for _, combo := range shuffledProduct(perCourse) {
		if ctx.Err() != nil {
			break
		}
		sched, ok := combine(combo, maxDays)
		if !ok {
			continue
		}
		res.Schedules = append(res.Schedules, sched)
		if emit != nil {
			emit(sched)
		}
		if len(res.Schedules) >= MaxSchedules {
			break
		}
	}
	return res
}

// filterSections applies the locked-in / honors / rating / day filters to
// one course's sections and parses meeting times for the survivors.
func (b *Builder) filterSections(course string, sections models.SectionInfo, lockedIDs map[string]struct{}, allowedDays map[byte]struct{}, req Request) []candidate {
	var out []candidate
	for id, entry := range sections {
		normID := catalog.NormalizeSectionID(id)

		if lockedIDs != nil {
			if _, ok := lockedIDs[normID]; !ok {
				continue
			}
		} else {
			// High-school sections are never offered to advisees, and
			// honors sections only to honors students.
			if strings.HasPrefix(normID, "HS") {
				continue
			}
			if !req.Honors && strings.HasPrefix(normID, "H") {
				continue
			}
		}

		if req.MinRMPRating != nil && !b.meetsRating(entry.Instructor(), *req.MinRMPRating) {
			continue
		}

		if allowedDays != nil && !daysWithin(entry.Days(), allowedDays) {
			continue
		}

		out = append(out, candidate{
			section: models.ScheduleSection{
				Course:     course,
				SectionID:  entry.ID(),
				CRN:        entry.CRN(),
				Days:       entry.Days(),
				Times:      entry.Times(),
				Location:   entry.Location(),
				Instructor: entry.Instructor(),
			},
			meetings: ParseMeetings(entry.Days(), entry.Times()),
			days:     entry.Days(),
		})
	}
	return out
}

// meetsRating reports whether the instructor's average rating parses and
// clears the minimum. Missing or unparseable ratings exclude the section.
func (b *Builder) meetsRating(instructor string, min float64) bool {
	rating, ok := b.lecturers.Get(instructor)
	if !ok {
		return false
	}
	avg, err := strconv.ParseFloat(rating.AvgRating, 64)
	if err != nil {
		return false
	}
	return avg >= min
}

// combine checks a section combination for day-count and time conflicts
// and assembles the schedule if it is valid.
func combine(combo []candidate, maxDays int) (models.Schedule, bool) {
	used := map[byte]struct{}{}
	for _, c := range combo {
		for i := 0; i < len(c.days); i++ {
			used[c.days[i]] = struct{}{}
		}
	}
	if len(used) > maxDays {
		return models.Schedule{}, false
	}

	for i := 0; i < len(combo); i++ {
		for j := i + 1; j < len(combo); j++ {
			if conflicts(combo[i].meetings, combo[j].meetings) {
				return models.Schedule{}, false
			}
		}
	}

	daysUsed := make([]string, 0, len(used))
	for d := range used {
		daysUsed = append(daysUsed, string(d))
	}
	sort.Strings(daysUsed)

	sections := make([]models.ScheduleSection, 0, len(combo))
	for _, c := range combo {
		sections = append(sections, c.section)
	}
	return models.Schedule{Sections: sections, DaysUsed: daysUsed, NumDays: len(daysUsed)}, true
}

func conflicts(a, b map[byte][]Interval) bool {
	for day, ivsA := range a {
		ivsB, shared := b[day]
		if !shared {
			continue
		}
		for _, x := range ivsA {
			for _, y := range ivsB {
				if x.Overlaps(y) {
					return true
				}
			}
		}
	}
	return false
}

// shuffledProduct materializes the Cartesian product of the per-course
// candidate lists in uniform random order.
func shuffledProduct(perCourse [][]candidate) [][]candidate {
	total := 1
	for _, cands := range perCourse {
		total *= len(cands)
	}
	combos := make([][]candidate, 0, total)
	indices := make([]int, len(perCourse))
	for {
		combo := make([]candidate, len(perCourse))
		for i, idx := range indices {
			combo[i] = perCourse[i][idx]
		}
		combos = append(combos, combo)

		pos := len(indices) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < len(perCourse[pos]) {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	rand.Shuffle(len(combos), func(i, j int) {
		combos[i], combos[j] = combos[j], combos[i]
	})
	return combos
}

// allowedDaySet maps requested weekday names to day letters. Unknown names
// produce an error message and are skipped.
func allowedDaySet(days []string) (map[byte]struct{}, string) {
	if len(days) == 0 {
		return nil, ""
	}
	set := map[byte]struct{}{}
	var unknown []string
	for _, d := range days {
		letter, ok := dayLetters[d]
		if !ok {
			unknown = append(unknown, d)
			continue
		}
		set[letter] = struct{}{}
	}
	if len(unknown) > 0 {
		return set, fmt.Sprintf("Unknown weekday name(s): %s", strings.Join(unknown, ", "))
	}
	return set, ""
}

func daysWithin(days string, allowed map[byte]struct{}) bool {
	for i := 0; i < len(days); i++ {
		if _, ok := allowed[days[i]]; !ok {
			return false
		}
	}
	return true
}

// normalizeLocked canonicalizes both the course names and section ids of a
// locked_in_sections argument. Unresolvable course names are dropped; the
// per-course normalization pass will report them.
func normalizeLocked(cat *catalog.Store, locked map[string][]string) map[string]map[string]struct{} {
	if len(locked) == 0 {
		return map[string]map[string]struct{}{}
	}
	out := make(map[string]map[string]struct{}, len(locked))
	for rawCourse, ids := range locked {
		name, nerr := cat.Normalize(rawCourse)
		if nerr != nil {
			continue
		}
		set := map[string]struct{}{}
		for _, id := range ids {
			set[catalog.NormalizeSectionID(id)] = struct{}{}
		}
		out[name] = set
	}
	return out
}
