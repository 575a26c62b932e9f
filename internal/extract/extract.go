// Package extract scans resolved message text for entities: email
// addresses, phone numbers, URLs, monetary amounts, social handles, and
// lower-confidence names and companies. Each kind is handled by an
// independent Matcher strategy over one text buffer; matches carry their
// byte offset so downstream consumers can relate them to regions of the
// scanned text.
package extract

import (
	"sort"

	"github.com/felo/mailintel/internal/email"
)

// Matcher finds all occurrences of one entity kind in a text buffer.
// Implementations are pure and independent of each other.
type Matcher interface {
	Kind() email.Kind
	Find(text string) []email.Match
}

// Config tunes the heuristic matchers. Values are approximate by design;
// the extraction contract is predictability, not precision/recall targets.
type Config struct {
	// Plausible digit counts for a phone number after separator removal.
	PhoneMinDigits int
	PhoneMaxDigits int
}

// DefaultConfig returns the default matcher tuning.
func DefaultConfig() Config {
	return Config{
		PhoneMinDigits: 7,
		PhoneMaxDigits: 15,
	}
}

// Extractor runs a fixed set of matchers over a text buffer.
type Extractor struct {
	matchers []Matcher
}

// New builds an extractor with the standard matcher set.
func New(cfg Config) *Extractor {
	if cfg.PhoneMinDigits <= 0 {
		cfg = DefaultConfig()
	}
	return &Extractor{
		matchers: []Matcher{
			emailMatcher{},
			phoneMatcher{minDigits: cfg.PhoneMinDigits, maxDigits: cfg.PhoneMaxDigits},
			urlMatcher{},
			amountMatcher{},
			nameMatcher{},
			companyMatcher{},
			socialMatcher{},
		},
	}
}

// Extract runs every matcher over text. Within each kind, matches are
// ordered by first appearance and deduplicated by normalized value, first
// occurrence winning.
func (e *Extractor) Extract(text string) email.ExtractedEntities {
	entities := make(email.ExtractedEntities)
	if text == "" {
		return entities
	}

	for _, m := range e.matchers {
		matches := m.Find(text)
		if len(matches) == 0 {
			continue
		}
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Position < matches[j].Position
		})
		entities[m.Kind()] = dedupe(matches)
	}

	return entities
}

func dedupe(matches []email.Match) []email.Match {
	seen := make(map[string]bool, len(matches))
	out := matches[:0]
	for _, m := range matches {
		if seen[m.Normalized] {
			continue
		}
		seen[m.Normalized] = true
		out = append(out, m)
	}
	return out
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
