// Package email defines the typed records produced by parsing a raw
// message: addresses, subject, body, thread position, extracted entities,
// spam indicators and the signature split. All values are constructed once
// inside a parse call and never mutated afterwards.
package email

import (
	"strings"
	"time"
)

// Address is an email address with an optional display name.
// Address is always non-empty; an absent address is represented by the
// zero value, never by an Address with an empty Address field.
type Address struct {
	Name      string `json:"name,omitempty"`
	Address   string `json:"address"`
	LocalPart string `json:"local_part"`
	Domain    string `json:"domain"`
}

// IsZero reports whether the address is absent.
func (a Address) IsZero() bool {
	return a.Address == ""
}

// IsNoReply reports whether the local part looks like an automated sender.
func (a Address) IsNoReply() bool {
	local := strings.ToLower(a.LocalPart)
	for _, marker := range []string{"noreply", "no-reply", "donotreply", "do-not-reply", "automated", "mailer-daemon"} {
		if strings.Contains(local, marker) {
			return true
		}
	}
	return false
}

// IsFreemail reports whether the domain belongs to a well-known free
// email provider.
func (a Address) IsFreemail() bool {
	switch strings.ToLower(a.Domain) {
	case "gmail.com", "yahoo.com", "outlook.com", "hotmail.com",
		"protonmail.com", "proton.me", "icloud.com", "aol.com":
		return true
	}
	return false
}

func (a Address) String() string {
	if a.Name != "" {
		return a.Name + " <" + a.Address + ">"
	}
	return a.Address
}

// Subject is a subject line together with its normalized form.
// Normalized has reply/forward prefixes stripped and whitespace collapsed.
type Subject struct {
	Original   string `json:"original"`
	Normalized string `json:"normalized"`
	ReplyDepth int    `json:"reply_depth"`
	IsForward  bool   `json:"is_forward"`
}

// ContentType identifies the declared type of a body part.
type ContentType string

const (
	ContentTypePlain ContentType = "text/plain"
	ContentTypeHTML  ContentType = "text/html"
)

// Body is the resolved message body. RenderedText is always plain text,
// even when Original is HTML.
type Body struct {
	Original     string      `json:"original"`
	ContentType  ContentType `json:"content_type"`
	RenderedText string      `json:"rendered_text"`
	WordCount    int         `json:"word_count"`
	LineCount    int         `json:"line_count"`
}

// SignatureSplit divides a rendered body into primary content and a
// trailing signature block. Content + Separator + Signature reconstructs
// the rendered body exactly; when no signature was found Separator and
// Signature are empty and Content is the whole body.
type SignatureSplit struct {
	Content   string `json:"content"`
	Separator string `json:"separator,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// HasSignature reports whether a signature block was detected.
func (s SignatureSplit) HasSignature() bool {
	return s.Signature != "" || s.Separator != ""
}

// Reconstruct returns the original rendered body.
func (s SignatureSplit) Reconstruct() string {
	return s.Content + s.Separator + s.Signature
}

// Kind identifies a category of extracted entity.
type Kind string

const (
	KindEmail        Kind = "email"
	KindPhone        Kind = "phone"
	KindURL          Kind = "url"
	KindName         Kind = "name"
	KindCompany      Kind = "company"
	KindAmount       Kind = "amount"
	KindSocialHandle Kind = "social_handle"
)

// Match is a single extracted entity occurrence. Position is the byte
// offset of Raw in the scanned text.
type Match struct {
	Raw        string `json:"raw"`
	Normalized string `json:"normalized"`
	Position   int    `json:"position"`
}

// ExtractedEntities maps each entity kind to its matches, ordered by first
// appearance and deduplicated by normalized value (first occurrence wins).
type ExtractedEntities map[Kind][]Match

// Total returns the number of matches across all kinds.
func (e ExtractedEntities) Total() int {
	n := 0
	for _, matches := range e {
		n += len(matches)
	}
	return n
}

// ThreadInfo is the local structural thread position derived from the
// Message-ID, References and In-Reply-To headers. Depth is 0 only when
// the message is not a reply at all.
type ThreadInfo struct {
	MessageID  string   `json:"message_id,omitempty"`
	References []string `json:"references,omitempty"`
	InReplyTo  string   `json:"in_reply_to,omitempty"`
	Depth      int      `json:"depth"`
}

// SpamIndicators holds the active heuristic flags and the aggregate score.
// Score is in [0, 1] and monotone non-decreasing in the number of flags.
type SpamIndicators struct {
	Flags []string `json:"flags"`
	Score float64  `json:"score"`
}

// HasFlag reports whether the named indicator fired.
func (s SpamIndicators) HasFlag(name string) bool {
	for _, f := range s.Flags {
		if f == name {
			return true
		}
	}
	return false
}

// Email is the root record returned by a parse call.
type Email struct {
	ID             string            `json:"id"`
	From           Address           `json:"from"`
	To             []Address         `json:"to,omitempty"`
	Cc             []Address         `json:"cc,omitempty"`
	ReplyTo        *Address          `json:"reply_to,omitempty"`
	Subject        Subject           `json:"subject"`
	Date           time.Time         `json:"date"`
	DateRaw        string            `json:"date_raw,omitempty"`
	Body           Body              `json:"body"`
	SignatureSplit SignatureSplit    `json:"signature_split"`
	Headers        Headers           `json:"headers"`
	Extracted      ExtractedEntities `json:"extracted"`
	Thread         ThreadInfo        `json:"thread"`
	Spam           SpamIndicators    `json:"spam"`
}
