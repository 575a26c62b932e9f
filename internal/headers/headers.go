// Package headers maps the raw decoded header multimap to typed fields.
// Only a missing From header is fatal; everything else degrades to empty
// or best-effort values.
package headers

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/felo/mailintel/internal/email"
)

// ErrMissingFrom is returned when the message has no From header.
var ErrMissingFrom = errors.New("missing From header")

// Normalized holds the typed header fields consumed by the rest of the
// pipeline. MessageID, References and InReplyTo are kept raw for the
// thread analyzer.
type Normalized struct {
	From       email.Address
	To         []email.Address
	Cc         []email.Address
	ReplyTo    *email.Address
	Subject    email.Subject
	Date       time.Time
	DateRaw    string
	MessageID  string
	References string
	InReplyTo  string
}

// Normalize maps raw headers to typed fields.
func Normalize(h email.Headers) (*Normalized, error) {
	fromRaw := h.Get("From")
	if strings.TrimSpace(fromRaw) == "" {
		return nil, ErrMissingFrom
	}
	fromList := ParseAddressList(fromRaw)
	if len(fromList) == 0 {
		return nil, ErrMissingFrom
	}

	n := &Normalized{
		From:       fromList[0],
		To:         ParseAddressList(h.Get("To")),
		Cc:         ParseAddressList(h.Get("Cc")),
		Subject:    ParseSubject(h.Get("Subject")),
		DateRaw:    strings.TrimSpace(h.Get("Date")),
		MessageID:  strings.TrimSpace(h.Get("Message-Id")),
		References: strings.TrimSpace(h.Get("References")),
		InReplyTo:  strings.TrimSpace(h.Get("In-Reply-To")),
	}

	if replyToRaw := h.Get("Reply-To"); replyToRaw != "" {
		if list := ParseAddressList(replyToRaw); len(list) > 0 {
			n.ReplyTo = &list[0]
		}
	}

	// Unparsable dates are retained as raw text, never fatal
	if n.DateRaw != "" {
		if date, err := mail.ParseDate(n.DateRaw); err == nil {
			n.Date = date
		}
	}

	return n, nil
}

// ParseAddress parses a single address in display-name + angle-bracket or
// bare form. Malformed input degrades to treating the whole string as a
// bare address when it contains an @, rather than being dropped.
func ParseAddress(s string) (email.Address, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return email.Address{}, false
	}

	if parsed, err := mail.ParseAddress(s); err == nil {
		return makeAddress(parsed.Name, parsed.Address)
	}

	// Fallback: pull the address out of angle brackets ourselves
	if start := strings.IndexByte(s, '<'); start >= 0 {
		if end := strings.IndexByte(s[start:], '>'); end > 0 {
			name := strings.Trim(strings.TrimSpace(s[:start]), `"`)
			return makeAddress(name, s[start+1:start+end])
		}
	}

	return makeAddress("", s)
}

// ParseAddressList parses a comma-separated address list, degrading
// per-entry rather than dropping the whole list on one malformed entry.
func ParseAddressList(s string) []email.Address {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if parsed, err := mail.ParseAddressList(s); err == nil {
		addrs := make([]email.Address, 0, len(parsed))
		for _, p := range parsed {
			if addr, ok := makeAddress(p.Name, p.Address); ok {
				addrs = append(addrs, addr)
			}
		}
		return addrs
	}

	var addrs []email.Address
	for _, entry := range strings.Split(s, ",") {
		if addr, ok := ParseAddress(entry); ok {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}

func makeAddress(name, address string) (email.Address, bool) {
	address = strings.TrimSpace(address)
	if address == "" {
		return email.Address{}, false
	}
	addr := email.Address{Name: strings.TrimSpace(name), Address: address}
	if at := strings.LastIndexByte(address, '@'); at > 0 {
		addr.LocalPart = address[:at]
		addr.Domain = address[at+1:]
	} else {
		addr.LocalPart = address
	}
	return addr, true
}
