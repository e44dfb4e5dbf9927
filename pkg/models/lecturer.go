package models

// LecturerRating is the cached RateMyProfessors record for one instructor.
// Numeric fields are strings because that is how the proxy serves them;
// consumers parse what they need.
type LecturerRating struct {
	AvgRating             string `json:"avgRating"`
	WouldTakeAgainPercent string `json:"wouldTakeAgainPercent"`
	AvgDifficulty         string `json:"avgDifficulty"`
	Link                  string `json:"link"`
	NumRatings            string `json:"numRatings"`
	LegacyID              int    `json:"legacyId"`
	LastUpdated           int64  `json:"last_updated"`
}

// DefaultRating is stored when the proxy has no record for an instructor,
// so the lookup is not retried on every cycle.
func DefaultRating() LecturerRating {
	return LecturerRating{
		AvgRating:             "0",
		WouldTakeAgainPercent: "0",
		AvgDifficulty:         "5",
		Link:                  "https://www.ratemyprofessors.com/teacher-not-found",
		NumRatings:            "0",
	}
}
