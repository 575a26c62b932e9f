// Package signature splits a rendered body into primary content and a
// trailing signature block. Detection is an ordered chain of boundary
// detectors evaluated in priority order; the first success wins. The
// explicit "--" delimiter is unambiguous and always takes priority over
// heuristic sign-off detection.
package signature

import (
	"strings"

	"github.com/felo/mailintel/internal/email"
)

// Boundary marks a detected split: content ends at ContentEnd, the
// signature starts at SigStart, and the bytes between the two are the
// separator. Indexes are byte offsets into the scanned text.
type Boundary struct {
	ContentEnd int
	SigStart   int
}

// Detector is one boundary-detection strategy.
type Detector interface {
	Name() string
	Detect(text string) (Boundary, bool)
}

// Config tunes the heuristic detectors.
type Config struct {
	// MaxLines caps how far from the end of the body the sign-off
	// detector will look.
	MaxLines int
}

// DefaultConfig returns the default detector tuning.
func DefaultConfig() Config {
	return Config{MaxLines: 8}
}

// Separator runs the detector chain over a body.
type Separator struct {
	detectors []Detector
}

// New builds a separator with the standard detector chain: the RFC-style
// "--" delimiter first, then the sign-off heuristic.
func New(cfg Config) *Separator {
	if cfg.MaxLines <= 0 {
		cfg = DefaultConfig()
	}
	return &Separator{
		detectors: []Detector{
			delimiterDetector{},
			signoffDetector{maxLines: cfg.MaxLines},
		},
	}
}

// Separate splits text at the first boundary any detector reports.
// Content + Separator + Signature always reconstructs text exactly; when
// nothing matches, Content is the whole body.
func (s *Separator) Separate(text string) email.SignatureSplit {
	for _, d := range s.detectors {
		if b, ok := d.Detect(text); ok {
			return email.SignatureSplit{
				Content:   text[:b.ContentEnd],
				Separator: text[b.ContentEnd:b.SigStart],
				Signature: text[b.SigStart:],
			}
		}
	}
	return email.SignatureSplit{Content: text}
}

// line is a body line together with its byte span.
type line struct {
	text  string
	start int
	end   int // exclusive, not counting the trailing newline
}

func splitLines(text string) []line {
	var lines []line
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, line{text: text[start:i], start: start, end: i})
			start = i + 1
		}
	}
	lines = append(lines, line{text: text[start:], start: start, end: len(text)})
	return lines
}

// boundaryAt builds a Boundary where the signature starts at the line
// following lines[i], eating the newline before lines[i] into the
// separator so content does not end with a dangling line break.
func boundaryAt(lines []line, i int, text string) (Boundary, bool) {
	sigStart := lines[i].end
	if sigStart < len(text) && text[sigStart] == '\n' {
		sigStart++
	}
	if sigStart >= len(text) {
		// Delimiter with nothing after it is not a signature
		return Boundary{}, false
	}
	contentEnd := lines[i].start
	if contentEnd > 0 {
		contentEnd--
	}
	return Boundary{ContentEnd: contentEnd, SigStart: sigStart}, true
}

// delimiterDetector finds the last line consisting solely of the
// RFC-style "--" delimiter (also "-- " per RFC 3676, and "---").
type delimiterDetector struct{}

func (delimiterDetector) Name() string { return "delimiter" }

func (delimiterDetector) Detect(text string) (Boundary, bool) {
	lines := splitLines(text)
	for i := len(lines) - 1; i >= 0; i-- {
		switch strings.TrimRight(lines[i].text, "\r") {
		case "--", "-- ", "---":
			return boundaryAt(lines, i, text)
		}
	}
	return Boundary{}, false
}

// Sign-off tokens recognized at the start of a trailing line, lowercase.
var signoffTokens = []string{
	"best regards", "kind regards", "warm regards", "regards",
	"sincerely", "best wishes", "cheers", "thanks", "thank you", "best",
}

// signoffDetector finds a short trailing block opened by a sign-off token
// followed by a name-like line, or a "Sent from my ..." footer.
type signoffDetector struct {
	maxLines int
}

func (signoffDetector) Name() string { return "signoff" }

func (d signoffDetector) Detect(text string) (Boundary, bool) {
	lines := splitLines(text)
	first := len(lines) - d.maxLines
	if first < 1 {
		// A signature needs content before it
		first = 1
	}

	for i := first; i < len(lines); i++ {
		trimmed := strings.ToLower(strings.TrimSpace(lines[i].text))

		if strings.HasPrefix(trimmed, "sent from my ") {
			sigStart := lines[i].start
			contentEnd := sigStart
			if contentEnd > 0 {
				contentEnd--
			}
			return Boundary{ContentEnd: contentEnd, SigStart: sigStart}, true
		}

		if !matchesSignoff(trimmed) {
			continue
		}
		if !nameLikeFollows(lines, i) {
			continue
		}
		sigStart := lines[i].start
		contentEnd := sigStart
		if contentEnd > 0 {
			contentEnd--
		}
		return Boundary{ContentEnd: contentEnd, SigStart: sigStart}, true
	}

	return Boundary{}, false
}

func matchesSignoff(trimmed string) bool {
	for _, token := range signoffTokens {
		if trimmed == token || trimmed == token+"," || trimmed == token+"!" || trimmed == token+"." {
			return true
		}
	}
	return false
}

func nameLikeFollows(lines []line, i int) bool {
	for j := i + 1; j < len(lines); j++ {
		t := strings.TrimSpace(lines[j].text)
		if t == "" {
			continue
		}
		r := t[0]
		return r >= 'A' && r <= 'Z'
	}
	return false
}
