package headers

import (
	"strconv"
	"strings"

	"github.com/felo/mailintel/internal/email"
)

// ParseSubject normalizes a subject line: reply and forward prefixes are
// stripped (repeated and mixed-case variants, including the Re[N]: counted
// form) and whitespace is collapsed.
func ParseSubject(s string) email.Subject {
	subject := email.Subject{Original: s}

	rest := strings.TrimSpace(s)
	for {
		lower := strings.ToLower(rest)
		switch {
		case strings.HasPrefix(lower, "re:"):
			subject.ReplyDepth++
			rest = strings.TrimSpace(rest[3:])
		case strings.HasPrefix(lower, "re["):
			end := strings.Index(rest, "]:")
			if end < 0 {
				subject.Normalized = collapseWhitespace(rest)
				return subject
			}
			if count, err := strconv.Atoi(rest[3:end]); err == nil && count > 0 {
				subject.ReplyDepth += count
			} else {
				subject.ReplyDepth++
			}
			rest = strings.TrimSpace(rest[end+2:])
		case strings.HasPrefix(lower, "fwd:"):
			subject.IsForward = true
			rest = strings.TrimSpace(rest[4:])
		case strings.HasPrefix(lower, "fw:"):
			subject.IsForward = true
			rest = strings.TrimSpace(rest[3:])
		default:
			subject.Normalized = collapseWhitespace(rest)
			return subject
		}
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
