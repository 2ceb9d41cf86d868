// Package llm provides the chat completion client the agent uses for event
// extraction, alternate-slot proposals, and reply interpretation. Any
// OpenAI-compatible chat completions endpoint can serve as the backend.
package llm
