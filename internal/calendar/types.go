package calendar

import "time"

// EventSpec describes an event to create on a calendar.
type EventSpec struct {
	// Summary is the event title.
	Summary string
	// Start and End bound the event. End must be after Start.
	Start time.Time
	End   time.Time
	// TimeZone is an IANA zone name attached to both endpoints.
	TimeZone string
	// Attendee is an optional email address to invite. When set, the
	// attendee receives an invitation notification.
	Attendee string
}

// BookedEvent identifies an event created on a calendar.
type BookedEvent struct {
	ID   string
	Link string
}
