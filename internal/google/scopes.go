package google

// DefaultOAuthScopes are the Google OAuth scopes the agent requires.
//
// The scopes provide access to:
//   - Gmail: read, modify (mark messages read), send (negotiation emails)
//   - Google Calendar: free/busy queries and event creation
var DefaultOAuthScopes = []string{
	// Gmail scopes
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.send",

	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar",
}
