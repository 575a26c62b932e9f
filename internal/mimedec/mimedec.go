// Package mimedec wraps the MIME structure decoder. It turns raw message
// bytes into a case-insensitive header multimap plus the decoded text body
// parts, and is the only place that knows about multipart boundaries,
// transfer encodings and charsets.
package mimedec

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"golang.org/x/text/encoding/charmap"

	"github.com/felo/mailintel/internal/email"
)

func init() {
	// Register additional charsets that are commonly used in emails
	charset.RegisterEncoding("windows-1252", charmap.Windows1252)
	charset.RegisterEncoding("iso-8859-1", charmap.ISO8859_1)
	charset.RegisterEncoding("iso-8859-15", charmap.ISO8859_15)
}

// Part is a single decoded text body part with its declared content type.
type Part struct {
	ContentType string
	Text        string
}

// Decoded is the output of structure decoding: all headers plus the text
// body parts in document order. Attachments are not retained.
type Decoded struct {
	Headers email.Headers
	Parts   []Part
}

// Decode parses raw message bytes. It fails only when the byte array is
// not a structurally valid message; per-part read errors degrade to
// skipped parts so a best-effort result is still produced.
func Decode(raw []byte) (*Decoded, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to create mail reader: %w", err)
	}

	decoded := &Decoded{Headers: make(email.Headers)}

	fields := mr.Header.Fields()
	for fields.Next() {
		value, err := fields.Text()
		if err != nil {
			// Undecodable header value, keep the raw form
			value = fields.Value()
		}
		decoded.Headers.Add(fields.Key(), value)
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed part should not discard what was already decoded
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, err := h.ContentType()
		if err != nil {
			contentType = "text/plain"
		}
		if !strings.HasPrefix(contentType, "text/") {
			continue
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}
		decoded.Parts = append(decoded.Parts, Part{
			ContentType: contentType,
			Text:        string(body),
		})
	}

	return decoded, nil
}
