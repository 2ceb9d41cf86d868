// Package calendar provides a thin client over the Google Calendar API for
// the scheduling agent: free/busy checks against the primary calendar and
// event creation with optional attendee invitations.
package calendar
