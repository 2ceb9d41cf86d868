package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const resolverPromptTemplate = `You are an assistant that interprets user replies to meeting suggestions.

The original options were:
%s

The user's reply is:
"""
%s
"""

Respond with only the selected option as JSON. Use exact values from the original list.
If no option matches, return: null`

// Resolver matches an inbound reply against the offered slots of a pending
// confirmation.
type Resolver struct {
	llm Completer
}

// NewResolver creates a Resolver backed by the given completer.
func NewResolver(llm Completer) *Resolver {
	return &Resolver{llm: llm}
}

// Resolve asks the model which offered option the reply selects. The model's
// answer is only accepted if it matches one of the offered options value for
// value; anything else, including a null response or malformed JSON, means
// no match and yields (nil, nil). Only transport failures surface as errors.
func (r *Resolver) Resolve(ctx context.Context, replyText string, options []SlotOption) (*SlotOption, error) {
	encoded, err := json.MarshalIndent(options, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode options: %w", err)
	}

	prompt := fmt.Sprintf(resolverPromptTemplate, string(encoded), replyText)
	raw, err := r.llm.Complete(ctx, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("reply resolution call failed: %w", err)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var selected SlotOption
	if err := json.Unmarshal([]byte(trimmed), &selected); err != nil {
		return nil, nil
	}

	// Accept only an option that was actually offered.
	for _, opt := range options {
		if selected == opt {
			return &opt, nil
		}
	}
	return nil, nil
}
