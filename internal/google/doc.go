// Package google handles OAuth2 credential acquisition for the Gmail and
// Calendar APIs. Tokens are stored per account under the user cache
// directory; client credentials are read from GOOGLE_CLIENT_ID and
// GOOGLE_CLIENT_SECRET.
package google
