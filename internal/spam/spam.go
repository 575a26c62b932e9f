// Package spam evaluates a fixed, ordered set of independent heuristic
// checks over headers, body and extracted entities, producing indicator
// flags and a normalized aggregate score. It reports indicators only; it
// never makes an accept/reject decision.
package spam

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/felo/mailintel/internal/email"
)

// Input is everything a check may look at. Checks are side-effect-free
// and independent: no check's outcome depends on another's.
type Input struct {
	From      email.Address
	ReplyTo   *email.Address
	Subject   email.Subject
	MessageID string
	Body      string
	Extracted email.ExtractedEntities
}

// Check is one indicator: a name, a fixed weight, and a predicate.
type Check struct {
	Name    string
	Weight  float64
	Applies func(cfg Config, in *Input) bool
}

// Config carries the scorer's tuning. Weights and thresholds are
// heuristic defaults, exposed as configuration rather than constants.
type Config struct {
	// Weights overrides the default weight per check name; a zero or
	// missing entry keeps the default.
	Weights map[string]float64

	// UppercaseRatio is the fraction of uppercase letters in the subject
	// above which the subject counts as shouting.
	UppercaseRatio float64

	// URLDensity is the minimum body bytes expected per extracted URL;
	// more URLs than len(body)/URLDensity (min 2) counts as excessive.
	URLDensity int

	// MaxTrackingURLs is how many tracking-style URLs are tolerated
	// before the tracking indicator fires.
	MaxTrackingURLs int
}

// DefaultConfig returns the default scoring tuning.
func DefaultConfig() Config {
	return Config{
		UppercaseRatio:  0.5,
		URLDensity:      200,
		MaxTrackingURLs: 3,
	}
}

var urgencyKeywords = []string{
	"urgent", "act now", "limited time", "immediately", "asap",
	"final notice", "expires today", "last chance",
}

var financialLureKeywords = []string{
	"winner", "lottery", "prize", "free money", "million dollar",
	"inheritance", "wire transfer", "investment opportunity",
	"risk-free", "guaranteed income",
}

var trackingURLRe = regexp.MustCompile(`(?i)track|click\.|redirect|utm_|mc_eid|\btrk\b`)

var messageIDRe = regexp.MustCompile(`^<[^<>@\s]+@[^<>@\s]+>$`)

// defaultChecks is the fixed, ordered check set. Order determines flag
// order in the output, nothing else.
var defaultChecks = []Check{
	{
		Name:   "display_name_mismatch",
		Weight: 0.20,
		Applies: func(_ Config, in *Input) bool {
			name := strings.ToLower(in.From.Name)
			at := strings.IndexByte(name, '@')
			if at < 0 {
				return false
			}
			// Display name embeds an address; suspicious when its domain
			// differs from the real sender domain
			domain := name[at+1:]
			if end := strings.IndexFunc(domain, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '-'
			}); end >= 0 {
				domain = domain[:end]
			}
			return domain != "" && domain != strings.ToLower(in.From.Domain)
		},
	},
	{
		Name:   "uppercase_subject",
		Weight: 0.10,
		Applies: func(cfg Config, in *Input) bool {
			letters, upper := 0, 0
			for _, r := range in.Subject.Original {
				if unicode.IsLetter(r) {
					letters++
					if unicode.IsUpper(r) {
						upper++
					}
				}
			}
			return letters >= 8 && float64(upper)/float64(letters) > cfg.UppercaseRatio
		},
	},
	{
		Name:   "urgency_keywords",
		Weight: 0.15,
		Applies: func(_ Config, in *Input) bool {
			return containsAny(in.Subject.Original+"\n"+in.Body, urgencyKeywords)
		},
	},
	{
		Name:   "financial_lure",
		Weight: 0.15,
		Applies: func(_ Config, in *Input) bool {
			return containsAny(in.Subject.Original+"\n"+in.Body, financialLureKeywords)
		},
	},
	{
		Name:   "replyto_domain_mismatch",
		Weight: 0.20,
		Applies: func(_ Config, in *Input) bool {
			return in.ReplyTo != nil && in.ReplyTo.Domain != "" &&
				!strings.EqualFold(in.ReplyTo.Domain, in.From.Domain)
		},
	},
	{
		Name:   "excessive_urls",
		Weight: 0.10,
		Applies: func(cfg Config, in *Input) bool {
			urls := len(in.Extracted[email.KindURL])
			if urls == 0 {
				return false
			}
			allowed := len(in.Body) / cfg.URLDensity
			if allowed < 2 {
				allowed = 2
			}
			return urls > allowed
		},
	},
	{
		Name:   "message_id_missing",
		Weight: 0.10,
		Applies: func(_ Config, in *Input) bool {
			return !messageIDRe.MatchString(strings.TrimSpace(in.MessageID))
		},
	},
	{
		Name:   "noreply_sender",
		Weight: 0.05,
		Applies: func(_ Config, in *Input) bool {
			return in.From.IsNoReply()
		},
	},
	{
		Name:   "tracking_urls",
		Weight: 0.10,
		Applies: func(cfg Config, in *Input) bool {
			tracking := 0
			for _, m := range in.Extracted[email.KindURL] {
				if trackingURLRe.MatchString(m.Normalized) {
					tracking++
				}
			}
			return tracking > cfg.MaxTrackingURLs
		},
	},
}

// Scorer evaluates the check set with a fixed weighting.
type Scorer struct {
	cfg         Config
	checks      []Check
	totalWeight float64
}

// New builds a scorer, applying any weight overrides from cfg.
func New(cfg Config) *Scorer {
	if cfg.UppercaseRatio <= 0 {
		cfg.UppercaseRatio = DefaultConfig().UppercaseRatio
	}
	if cfg.URLDensity <= 0 {
		cfg.URLDensity = DefaultConfig().URLDensity
	}
	if cfg.MaxTrackingURLs <= 0 {
		cfg.MaxTrackingURLs = DefaultConfig().MaxTrackingURLs
	}

	checks := make([]Check, len(defaultChecks))
	copy(checks, defaultChecks)
	total := 0.0
	for i := range checks {
		if w, ok := cfg.Weights[checks[i].Name]; ok && w > 0 {
			checks[i].Weight = w
		}
		total += checks[i].Weight
	}

	return &Scorer{cfg: cfg, checks: checks, totalWeight: total}
}

// Score runs every check. The score is the weighted sum of active flags
// normalized by the total weight and clamped to [0, 1]; it is
// deterministic and monotone non-decreasing in the set of active flags.
func (s *Scorer) Score(in *Input) email.SpamIndicators {
	result := email.SpamIndicators{Flags: []string{}}
	sum := 0.0
	for _, c := range s.checks {
		if c.Applies(s.cfg, in) {
			result.Flags = append(result.Flags, c.Name)
			sum += c.Weight
		}
	}
	if s.totalWeight > 0 {
		result.Score = sum / s.totalWeight
	}
	if result.Score > 1 {
		result.Score = 1
	}
	return result
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
