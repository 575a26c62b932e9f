// Package bodytext selects a canonical plain-text body from the decoded
// body parts, converting HTML to text when no plain-text part exists.
package bodytext

import (
	"strings"

	"github.com/felo/mailintel/internal/email"
	"github.com/felo/mailintel/internal/mimedec"
)

// Resolve picks the body per the selection policy: first text/plain part,
// else first text/html part converted to text, else an empty body.
func Resolve(parts []mimedec.Part) email.Body {
	for _, part := range parts {
		if strings.HasPrefix(part.ContentType, "text/plain") {
			rendered := normalizeNewlines(part.Text)
			return withCounts(email.Body{
				Original:     part.Text,
				ContentType:  email.ContentTypePlain,
				RenderedText: rendered,
			})
		}
	}

	for _, part := range parts {
		if strings.HasPrefix(part.ContentType, "text/html") {
			return withCounts(email.Body{
				Original:     part.Text,
				ContentType:  email.ContentTypeHTML,
				RenderedText: HTMLToText(part.Text),
			})
		}
	}

	return email.Body{ContentType: email.ContentTypePlain}
}

func withCounts(b email.Body) email.Body {
	b.WordCount = len(strings.Fields(b.RenderedText))
	if b.RenderedText != "" {
		b.LineCount = len(strings.Split(b.RenderedText, "\n"))
	}
	return b
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
