// Package events carries the refresh notifications between the scraper
// process and the server over Redis pub/sub.
package events

// Pub/sub channels and the only payload they carry.
const (
	ChannelCourseUpdates   = "course_updates"
	ChannelLecturerUpdates = "lecturer_updates"
	PayloadRefresh         = "refresh"
)
