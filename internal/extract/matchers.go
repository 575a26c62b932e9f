package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/felo/mailintel/internal/email"
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\(?\d[\d\s().-]{5,18}\d`)
	urlRe   = regexp.MustCompile(`(?:https?://|www\.)[^\s<>"]+`)
	isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	amountSymbolRe = regexp.MustCompile(`[$€£¥]\s?\d[\d,]*(?:\.\d+)?`)
	amountCodeRe   = regexp.MustCompile(`\b\d[\d,]*(?:\.\d+)?\s?(USD|EUR|GBP|JPY|CAD|AUD|CHF)\b`)

	greetingNameRe = regexp.MustCompile(`(?m)^[ \t]*(?:Hi|Hello|Dear|Hey)[ ,][ \t]*([A-Z][a-z]+(?:[ \t][A-Z][a-z]+)?)`)
	signoffNameRe  = regexp.MustCompile(`(?m)^(?:(?:[Kk]ind|[Bb]est|[Ww]arm)[ \t]+[Rr]egards|[Rr]egards|[Ss]incerely|[Bb]est|[Cc]heers|[Tt]hanks|[Tt]hank [Yy]ou)[,.!]?[ \t]*\n+([A-Z][a-z]+(?:[ \t][A-Z][a-z]+){0,2})`)

	companyRe = regexp.MustCompile(`\b([A-Z][\w&'.-]*(?:,?[ \t]+[A-Z][\w&'.-]*){0,3},?[ \t]+(?:Inc\.?|LLC|Ltd\.?|Corp\.?|GmbH|Co\.))`)

	handleRe   = regexp.MustCompile(`@[A-Za-z0-9_]{2,30}`)
	linkedinRe = regexp.MustCompile(`linkedin\.com/in/([A-Za-z0-9_-]+)`)
)

// emailMatcher finds local@domain tokens whose domain contains a dot.
// Matches embedded in longer alphanumeric runs are rejected.
type emailMatcher struct{}

func (emailMatcher) Kind() email.Kind { return email.KindEmail }

func (emailMatcher) Find(text string) []email.Match {
	var out []email.Match
	for _, loc := range emailRe.FindAllStringIndex(text, -1) {
		if loc[0] > 0 && isWordByte(text[loc[0]-1]) {
			continue
		}
		if loc[1] < len(text) && isWordByte(text[loc[1]]) {
			continue
		}
		raw := text[loc[0]:loc[1]]
		out = append(out, email.Match{
			Raw:        raw,
			Normalized: strings.ToLower(raw),
			Position:   loc[0],
		})
	}
	return out
}

// phoneMatcher recognizes digit runs of plausible length with common
// separators, with an optional +N country-code prefix.
type phoneMatcher struct {
	minDigits int
	maxDigits int
}

func (phoneMatcher) Kind() email.Kind { return email.KindPhone }

func (m phoneMatcher) Find(text string) []email.Match {
	var out []email.Match
	for _, loc := range phoneRe.FindAllStringIndex(text, -1) {
		if loc[0] > 0 && isWordByte(text[loc[0]-1]) {
			continue
		}
		if loc[1] < len(text) && isWordByte(text[loc[1]]) {
			continue
		}
		raw := text[loc[0]:loc[1]]
		if isoDate.MatchString(raw) {
			continue
		}
		normalized := normalizePhone(raw)
		digits := strings.TrimPrefix(normalized, "+")
		if len(digits) < m.minDigits || len(digits) > m.maxDigits {
			continue
		}
		out = append(out, email.Match{
			Raw:        raw,
			Normalized: normalized,
			Position:   loc[0],
		})
	}
	return out
}

func normalizePhone(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' || r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// urlMatcher finds scheme:// and bare www. forms, trimming trailing
// sentence punctuation from the match.
type urlMatcher struct{}

func (urlMatcher) Kind() email.Kind { return email.KindURL }

func (urlMatcher) Find(text string) []email.Match {
	var out []email.Match
	for _, loc := range urlRe.FindAllStringIndex(text, -1) {
		raw := strings.TrimRight(text[loc[0]:loc[1]], ".,;:!?)]'\"")
		if raw == "" {
			continue
		}
		normalized := raw
		if strings.HasPrefix(normalized, "www.") {
			normalized = "http://" + normalized
		}
		out = append(out, email.Match{
			Raw:        raw,
			Normalized: normalized,
			Position:   loc[0],
		})
	}
	return out
}

// amountMatcher finds digit sequences adjacent to a currency symbol or
// followed by a 3-letter currency code. The normalized value is the
// decimal amount plus its currency code.
type amountMatcher struct{}

func (amountMatcher) Kind() email.Kind { return email.KindAmount }

func (amountMatcher) Find(text string) []email.Match {
	var out []email.Match

	for _, loc := range amountSymbolRe.FindAllStringIndex(text, -1) {
		raw := text[loc[0]:loc[1]]
		if m, ok := makeAmount(raw, currencyFromSymbol(raw), loc[0]); ok {
			out = append(out, m)
		}
	}

	for _, loc := range amountCodeRe.FindAllStringSubmatchIndex(text, -1) {
		raw := text[loc[0]:loc[1]]
		code := text[loc[2]:loc[3]]
		if m, ok := makeAmount(raw, code, loc[0]); ok {
			out = append(out, m)
		}
	}

	return out
}

func makeAmount(raw, currency string, pos int) (email.Match, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' || r == '.' {
			digits.WriteRune(r)
		}
	}
	value, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return email.Match{}, false
	}
	return email.Match{
		Raw:        raw,
		Normalized: fmt.Sprintf("%.2f %s", value, currency),
		Position:   pos,
	}, true
}

func currencyFromSymbol(raw string) string {
	switch {
	case strings.Contains(raw, "$"):
		return "USD"
	case strings.Contains(raw, "€"):
		return "EUR"
	case strings.Contains(raw, "£"):
		return "GBP"
	case strings.Contains(raw, "¥"):
		return "JPY"
	}
	return "USD"
}

// nameMatcher finds capitalized runs in greeting and sign-off context.
// Low confidence by design.
type nameMatcher struct{}

func (nameMatcher) Kind() email.Kind { return email.KindName }

func (nameMatcher) Find(text string) []email.Match {
	var out []email.Match
	for _, re := range []*regexp.Regexp{greetingNameRe, signoffNameRe} {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			raw := text[loc[2]:loc[3]]
			out = append(out, email.Match{
				Raw:        raw,
				Normalized: raw,
				Position:   loc[2],
			})
		}
	}
	return out
}

// companyMatcher finds capitalized phrases ending in a corporate suffix.
// Low confidence by design.
type companyMatcher struct{}

func (companyMatcher) Kind() email.Kind { return email.KindCompany }

func (companyMatcher) Find(text string) []email.Match {
	var out []email.Match
	for _, loc := range companyRe.FindAllStringSubmatchIndex(text, -1) {
		raw := text[loc[2]:loc[3]]
		out = append(out, email.Match{
			Raw:        raw,
			Normalized: raw,
			Position:   loc[2],
		})
	}
	return out
}

// socialMatcher finds @handle tokens and linkedin.com/in/ profile slugs.
// An @ preceded by an alphanumeric byte is part of an email address and
// is skipped, as is a token that looks like a bare domain.
type socialMatcher struct{}

func (socialMatcher) Kind() email.Kind { return email.KindSocialHandle }

func (socialMatcher) Find(text string) []email.Match {
	var out []email.Match

	for _, loc := range handleRe.FindAllStringIndex(text, -1) {
		if loc[0] > 0 && isWordByte(text[loc[0]-1]) {
			continue
		}
		// "@example.com" is a domain fragment, not a handle
		if loc[1]+1 < len(text) && text[loc[1]] == '.' && isWordByte(text[loc[1]+1]) {
			continue
		}
		raw := text[loc[0]:loc[1]]
		out = append(out, email.Match{
			Raw:        raw,
			Normalized: strings.ToLower(strings.TrimPrefix(raw, "@")),
			Position:   loc[0],
		})
	}

	for _, loc := range linkedinRe.FindAllStringSubmatchIndex(text, -1) {
		raw := text[loc[2]:loc[3]]
		out = append(out, email.Match{
			Raw:        raw,
			Normalized: strings.ToLower(raw),
			Position:   loc[2],
		})
	}

	return out
}
