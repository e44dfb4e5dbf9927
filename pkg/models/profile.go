package models

// Academic standings, lowest to highest.
var Standings = []string{"FRESHMAN", "SOPHOMORE", "JUNIOR", "SENIOR", "GRAD"}

// StandingRank returns the ordinal of a standing, or -1 if unknown.
func StandingRank(s string) int {
	for i, v := range Standings {
		if v == s {
			return i
		}
	}
	return -1
}

// UserCourseInfo is one course the user has taken, with the grade received.
// A reported "pass" is recorded as "C".
type UserCourseInfo struct {
	Name  string `json:"name"`
	Grade string `json:"grade"`
}

// Profile is the per-session academic profile. It is owned by the request
// handler and mutated only by the update_user_profile tool.
type Profile struct {
	NewUser       bool                      `json:"new_user"`
	Courses       map[string]UserCourseInfo `json:"courses"`
	Equivalents   []string                  `json:"equivalents"`
	Standing      string                    `json:"standing,omitempty"`
	SemestersLeft *int                      `json:"semesters_left,omitempty"`
	Honors        bool                      `json:"honors"`
}

// NewProfile returns the default profile for a session seen for the
// first time.
func NewProfile() *Profile {
	return &Profile{
		NewUser:     true,
		Courses:     map[string]UserCourseInfo{},
		Equivalents: []string{},
	}
}

// HasEquivalent reports whether the profile lists course as a transfer
// equivalent.
func (p *Profile) HasEquivalent(course string) bool {
	for _, c := range p.Equivalents {
		if c == course {
			return true
		}
	}
	return false
}
