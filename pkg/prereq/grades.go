// Package prereq evaluates prerequisite trees against a user profile.
// Evaluation never panics and never errors: every node reduces to either
// "satisfied" or a human-readable explanation of what is missing.
package prereq

// gradeValues is the total order over permitted grades.
var gradeValues = map[string]float64{
	"A":  4.0,
	"B+": 3.5,
	"B":  3.0,
	"C+": 2.5,
	"C":  2.0,
	"C-": 1.7,
	"F":  0.0,
}

// passingValue is the threshold used when a COURSE node carries no
// explicit minimum grade: a pass is a C.
const passingValue = 2.0

// IsGradeSufficient reports whether userGrade meets minGrade. An unknown
// user grade counts as failing; an empty or unknown minimum counts as C.
func IsGradeSufficient(userGrade, minGrade string) bool {
	user := gradeValues[userGrade] // unknown -> 0.0
	min := passingValue
	if minGrade != "" {
		if v, ok := gradeValues[minGrade]; ok {
			min = v
		}
	}
	return user >= min
}

// displayMinGrade renders the effective minimum grade of a COURSE node.
func displayMinGrade(minGrade string) string {
	if minGrade == "" {
		return "C"
	}
	if _, ok := gradeValues[minGrade]; !ok {
		return "C"
	}
	return minGrade
}
