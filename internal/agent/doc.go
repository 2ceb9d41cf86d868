// Package agent implements the per-user scheduling loop: it polls unread
// inbox messages, extracts meeting requests with a language model, books
// free slots on the calendar, negotiates alternates by email when the
// requested time is busy, and resolves later confirmation replies into
// bookings.
//
// One Loop runs per user. All external services sit behind the Inbox,
// Calendar, Completer, and Store interfaces, so the whole cycle is testable
// with fakes. A Registry owns the running loops and their cancellation.
package agent
