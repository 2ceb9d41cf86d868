package gmail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	gmail "google.golang.org/api/gmail/v1"
)

func msgWithHeaders(headers map[string]string) *gmail.Message {
	var hs []*gmail.MessagePartHeader
	for name, value := range headers {
		hs = append(hs, &gmail.MessagePartHeader{Name: name, Value: value})
	}
	return &gmail.Message{Payload: &gmail.MessagePart{Headers: hs}}
}

func TestHeaderValue(t *testing.T) {
	m := msgWithHeaders(map[string]string{"Subject": "Quick sync"})

	assert.Equal(t, "Quick sync", HeaderValue(m, "Subject"))
	assert.Equal(t, "Quick sync", HeaderValue(m, "subject"), "header lookup is case-insensitive")
	assert.Equal(t, "", HeaderValue(m, "From"))
	assert.Equal(t, "", HeaderValue(&gmail.Message{}, "Subject"), "nil payload yields empty value")
}

func TestSenderAddress(t *testing.T) {
	tests := []struct {
		name string
		from string
		want string
	}{
		{
			name: "display name with angle brackets",
			from: "Ada Lovelace <ada@example.com>",
			want: "ada@example.com",
		},
		{
			name: "bare address",
			from: "ada@example.com",
			want: "ada@example.com",
		},
		{
			name: "bare address with whitespace",
			from: "  ada@example.com ",
			want: "ada@example.com",
		},
		{
			name: "empty header",
			from: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m *gmail.Message
			if tt.from == "" {
				m = msgWithHeaders(nil)
			} else {
				m = msgWithHeaders(map[string]string{"From": tt.from})
			}
			assert.Equal(t, tt.want, SenderAddress(m))
		})
	}
}

func TestMessageBodyPrefersPlainTextPart(t *testing.T) {
	plain := base64.URLEncoding.EncodeToString([]byte("let's meet tomorrow"))
	html := base64.URLEncoding.EncodeToString([]byte("<p>let's meet tomorrow</p>"))

	m := &gmail.Message{
		Payload: &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmail.MessagePart{
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: html}},
				{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: plain}},
			},
		},
	}

	assert.Equal(t, "let's meet tomorrow", MessageBody(m))
}

func TestMessageBodyNestedMultipart(t *testing.T) {
	plain := base64.URLEncoding.EncodeToString([]byte("deep body"))

	m := &gmail.Message{
		Payload: &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmail.MessagePart{
				{
					MimeType: "multipart/alternative",
					Parts: []*gmail.MessagePart{
						{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: plain}},
					},
				},
			},
		},
	}

	assert.Equal(t, "deep body", MessageBody(m))
}

func TestMessageBodyTopLevelFallback(t *testing.T) {
	data := base64.URLEncoding.EncodeToString([]byte("single part body"))

	m := &gmail.Message{
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Body:     &gmail.MessagePartBody{Data: data},
		},
	}

	// The top-level payload is itself visited by the part walk.
	assert.Equal(t, "single part body", MessageBody(m))
}

func TestMessageBodyUnpaddedBase64(t *testing.T) {
	// 16 bytes encodes to 22 characters, so the padded decoder rejects it.
	data := base64.RawURLEncoding.EncodeToString([]byte("no padding here!"))

	m := &gmail.Message{
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Body:     &gmail.MessagePartBody{Data: data},
		},
	}

	assert.Equal(t, "no padding here!", MessageBody(m))
}

func TestMessageBodyEmpty(t *testing.T) {
	assert.Equal(t, "", MessageBody(nil))
	assert.Equal(t, "", MessageBody(&gmail.Message{}))
	assert.Equal(t, "", MessageBody(&gmail.Message{Payload: &gmail.MessagePart{MimeType: "text/plain"}}))
}

func TestEncodeRFC2047(t *testing.T) {
	assert.Equal(t, "Alternate meeting time suggestions", encodeRFC2047("Alternate meeting time suggestions"))
	assert.Contains(t, encodeRFC2047("Réunion"), "=?UTF-8?")
}
