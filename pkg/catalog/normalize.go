package catalog

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// NormalizeError is returned when an input cannot be resolved to a valid
// course name. It is a structured value so tools can hand the suggestions
// straight to the model.
type NormalizeError struct {
	ErrorMessage string   `json:"error_message"`
	DidYouMean   []string `json:"did_you_mean"`
}

func (e *NormalizeError) Error() string { return e.ErrorMessage }

// maxSuggestions bounds the did_you_mean list.
const maxSuggestions = 5

// Normalize resolves a user-supplied course name against the valid set.
// The upper-cased input is accepted as-is when valid; otherwise candidates
// are ranked by longest common subsequence over space-stripped lowercase
// strings, and a unique space-insensitive match among the best candidates
// is accepted. Anything else yields a *NormalizeError with suggestions.
//
// LCS matching is adequate at single-institution scale (low thousands of
// names); a trigram index would be the next step beyond that.
func (s *Store) Normalize(input string) (string, *NormalizeError) {
	upper := strings.ToUpper(strings.TrimSpace(input))
	if _, ok := s.Get(upper); ok {
		return upper, nil
	}

	stripped := stripSpacesLower(upper)
	names := s.Names()
	if len(names) == 0 {
		return "", &NormalizeError{
			ErrorMessage: fmt.Sprintf("%q is not a valid course", input),
			DidYouMean:   []string{},
		}
	}

	type scored struct {
		name  string
		score int
	}
	ranked := make([]scored, 0, len(names))
	for _, name := range names {
		ranked = append(ranked, scored{name, lcsLength(stripped, stripSpacesLower(name))})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].name < ranked[j].name
	})

	best := ranked[0].score
	var exact []string
	for _, r := range ranked {
		if r.score != best {
			break
		}
		if stripSpacesLower(r.name) == stripped {
			exact = append(exact, r.name)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}

	n := maxSuggestions
	if n > len(ranked) {
		n = len(ranked)
	}
	suggestions := make([]string, 0, n)
	for _, r := range ranked[:n] {
		suggestions = append(suggestions, r.name)
	}
	return "", &NormalizeError{
		ErrorMessage: fmt.Sprintf("%q is not a valid course", input),
		DidYouMean:   suggestions,
	}
}

// lcsLength computes the longest-common-subsequence length with the
// standard dynamic program reduced to a single row.
func lcsLength(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	row := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0 // row[j-1] from the previous iteration of i
		for j := 1; j <= len(b); j++ {
			cur := row[j]
			if a[i-1] == b[j-1] {
				row[j] = prev + 1
			} else if row[j-1] > row[j] {
				row[j] = row[j-1]
			}
			prev = cur
		}
	}
	return row[len(b)]
}

func stripSpacesLower(s string) string {
	var b strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// NormalizeSectionID canonicalizes a section id for locked-in matching:
// uppercase, and for a letter-prefix/digit-suffix id the digits are
// left-padded with zeros until the whole id is three characters
// ("2" -> "002", "H2" -> "H02", "HM2" -> "HM2").
func NormalizeSectionID(id string) string {
	up := strings.ToUpper(strings.TrimSpace(id))
	i := 0
	for i < len(up) && up[i] >= 'A' && up[i] <= 'Z' {
		i++
	}
	prefix, digits := up[:i], up[i:]
	for _, c := range digits {
		if c < '0' || c > '9' {
			return up
		}
	}
	if digits == "" {
		return up
	}
	for len(prefix)+len(digits) < 3 {
		digits = "0" + digits
	}
	return prefix + digits
}
