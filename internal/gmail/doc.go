// Package gmail provides a thin client over the Gmail API for the scheduling
// agent: listing unread inbox messages, fetching and decoding message bodies,
// marking messages read, and sending plain-text replies.
package gmail
