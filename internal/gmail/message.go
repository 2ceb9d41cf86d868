package gmail

import (
	"encoding/base64"
	"regexp"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

var angleAddrRe = regexp.MustCompile(`<(.+?)>`)

// HeaderValue returns the value of the named header of the given message,
// or the empty string if not found.
func HeaderValue(m *gmail.Message, header string) string {
	mpart := m.Payload
	if mpart == nil {
		return ""
	}
	for _, mph := range mpart.Headers {
		if strings.EqualFold(mph.Name, header) {
			return mph.Value
		}
	}
	return ""
}

// SenderAddress extracts the bare email address from a message's From header.
// A "Display Name <addr>" form yields addr; a bare address is returned
// trimmed as-is. Returns the empty string when there is no From header.
func SenderAddress(m *gmail.Message) string {
	from := HeaderValue(m, "From")
	if from == "" {
		return ""
	}
	if match := angleAddrRe.FindStringSubmatch(from); match != nil {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(from)
}

// Subject returns the message's Subject header.
func Subject(m *gmail.Message) string {
	return HeaderValue(m, "Subject")
}

// MessageBody returns the decoded plain-text body of a message. It prefers
// text/plain parts anywhere in the MIME tree and falls back to the top-level
// payload body for single-part messages. Returns the empty string when no
// decodable text is found.
func MessageBody(m *gmail.Message) string {
	if m == nil || m.Payload == nil {
		return ""
	}

	var plain string
	walkParts(m.Payload, func(part *gmail.MessagePart) {
		if plain != "" {
			return
		}
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			if decoded := decodeBody(part.Body.Data); decoded != "" {
				plain = decoded
			}
		}
	})
	if plain != "" {
		return plain
	}

	if m.Payload.Body != nil && m.Payload.Body.Data != "" {
		return decodeBody(m.Payload.Body.Data)
	}
	return ""
}

// walkParts recursively walks all message parts, calling fn for each
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}

func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		// Some senders omit padding
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}
