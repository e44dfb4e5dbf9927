package models

// ScheduleSection is one chosen section within a generated schedule.
type ScheduleSection struct {
	Course     string `json:"course"`
	SectionID  string `json:"section_id"`
	CRN        string `json:"crn"`
	Days       string `json:"days"`
	Times      string `json:"times"`
	Location   string `json:"location"`
	Instructor string `json:"instructor"`
}

// Schedule is one conflict-free combination of sections.
type Schedule struct {
	Sections []ScheduleSection `json:"sections"`
	DaysUsed []string          `json:"days_used"`
	NumDays  int               `json:"num_days"`
}
