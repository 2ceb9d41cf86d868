package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// maxEmailBodyChars bounds how much email text is sent to the model.
const maxEmailBodyChars = 3000

const extractorSystemPrompt = "You are a meeting assistant that extracts calendar events from email messages."

const extractorPromptTemplate = `Return a strict JSON object using this format:
{
  "title": "Team Sync",
  "date": "YYYY-MM-DD",
  "start": "HH:MM",
  "end": "HH:MM"
}

Rules:
- Convert relative dates like "tomorrow", "next Friday", or "day after" into YYYY-MM-DD format using today as %s.
- All dates and times must be in the future relative to today.
- Interpret common casual intent phrases like "let's sync", "catch up", "quick call", "connect", "discussion", etc., and assign them a meaningful title.
- Time must be in 24-hour HH:MM format.
- If no meeting is found, return an empty object: {}
- DO NOT include any explanations, only valid JSON.

Email:
"""
%s
"""`

// Extractor turns raw email text into an EventDraft via a language model
// call.
type Extractor struct {
	llm Completer
}

// NewExtractor creates an Extractor backed by the given completer.
func NewExtractor(llm Completer) *Extractor {
	return &Extractor{llm: llm}
}

// Extract asks the model for a structured event in the email body, resolving
// relative dates against today. A response that is not valid JSON, or that
// lacks any of the four required fields, means "no event found" and yields
// (nil, nil). Only transport failures surface as errors.
func (e *Extractor) Extract(ctx context.Context, body string, today time.Time) (*EventDraft, error) {
	body = truncate(body, maxEmailBodyChars)

	prompt := fmt.Sprintf(extractorPromptTemplate, today.Format("2006-01-02"), body)
	raw, err := e.llm.Complete(ctx, extractorSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("event extraction call failed: %w", err)
	}

	var draft EventDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &draft); err != nil {
		return nil, nil
	}
	if !draft.Complete() {
		return nil, nil
	}
	return &draft, nil
}

// truncate cuts s to at most max characters. Cutting on a rune boundary
// keeps the result valid UTF-8 even when the limit lands inside a multibyte
// character.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
