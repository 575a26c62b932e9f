// Package thread computes reply depth and the reference chain from the
// Message-ID, References and In-Reply-To headers. This is local
// structural inference only; no mailbox lookup is involved.
package thread

import (
	"strings"

	"github.com/felo/mailintel/internal/email"
)

// Analyze derives thread position from the three raw header values.
// References identifiers are kept in document order with duplicates
// preserved: they represent a causal chain, not a set.
//
// Depth is 0 only when the message has neither References nor
// In-Reply-To; with references it is max(1, len(references)); with only
// In-Reply-To it is 1.
func Analyze(messageID, references, inReplyTo string) email.ThreadInfo {
	info := email.ThreadInfo{
		MessageID:  strings.TrimSpace(messageID),
		References: parseIDList(references),
		InReplyTo:  firstID(inReplyTo),
	}

	switch {
	case len(info.References) > 0:
		info.Depth = len(info.References)
		if info.Depth < 1 {
			info.Depth = 1
		}
	case info.InReplyTo != "":
		info.Depth = 1
	}

	return info
}

// parseIDList splits a whitespace-separated sequence of angle-bracket
// message identifiers.
func parseIDList(s string) []string {
	var ids []string
	for _, field := range strings.Fields(s) {
		if field != "" {
			ids = append(ids, field)
		}
	}
	return ids
}

// firstID returns the first angle-bracketed identifier in s, or the
// trimmed string when none is bracketed.
func firstID(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.IndexByte(s, '<'); start >= 0 {
		if end := strings.IndexByte(s[start:], '>'); end > 0 {
			return s[start : start+end+1]
		}
	}
	return s
}
