// Package store persists per-user agent state in Redis. Each concern gets
// its own key so updates never clobber unrelated state: seen message ids
// live in a capped list, pending confirmations in one JSON value per sender,
// and the activity log in an append-only list.
package store
