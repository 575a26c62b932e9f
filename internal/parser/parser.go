// Package parser assembles the full intelligence record for one message:
// MIME decoding, header normalization, body resolution, entity
// extraction, signature separation, thread analysis and spam scoring.
// Parse is the single entry point; one call does bounded, deterministic
// work over one message, performs no I/O, and holds no state between
// calls, so a Parser is safe for concurrent use.
package parser

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/felo/mailintel/internal/bodytext"
	"github.com/felo/mailintel/internal/email"
	"github.com/felo/mailintel/internal/extract"
	"github.com/felo/mailintel/internal/headers"
	"github.com/felo/mailintel/internal/mimedec"
	"github.com/felo/mailintel/internal/signature"
	"github.com/felo/mailintel/internal/spam"
	"github.com/felo/mailintel/internal/thread"
)

// ErrDecode means the byte array is not a structurally valid message.
var ErrDecode = errors.New("failed to decode message structure")

// ErrMissingHeader means a required header (From) is absent.
var ErrMissingHeader = errors.New("missing required header")

// Options configures the heuristic sub-components. Zero values select
// documented defaults.
type Options struct {
	Extract   extract.Config
	Signature signature.Config
	Spam      spam.Config
	Logger    *zap.Logger
}

// Parser turns raw message bytes into Email records.
type Parser struct {
	extractor *extract.Extractor
	separator *signature.Separator
	scorer    *spam.Scorer
	log       *zap.Logger
}

// New builds a parser from the given options.
func New(opts Options) *Parser {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{
		extractor: extract.New(opts.Extract),
		separator: signature.New(opts.Signature),
		scorer:    spam.New(opts.Spam),
		log:       log,
	}
}

// Parse converts one raw message into an immutable Email record. It fails
// only when the bytes cannot be decoded at all or when the From header is
// absent; every other irregularity degrades to empty or default values so
// the caller always gets a best-effort structured result.
func (p *Parser) Parse(id string, raw []byte) (*email.Email, error) {
	decoded, err := mimedec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	normalized, err := headers.Normalize(decoded.Headers)
	if err != nil {
		if errors.Is(err, headers.ErrMissingFrom) {
			return nil, fmt.Errorf("%w: From", ErrMissingHeader)
		}
		return nil, err
	}

	body := bodytext.Resolve(decoded.Parts)
	extracted := p.extractor.Extract(scanBuffer(normalized.Subject, body))
	split := p.separator.Separate(body.RenderedText)
	threadInfo := thread.Analyze(normalized.MessageID, normalized.References, normalized.InReplyTo)

	indicators := p.scorer.Score(&spam.Input{
		From:      normalized.From,
		ReplyTo:   normalized.ReplyTo,
		Subject:   normalized.Subject,
		MessageID: normalized.MessageID,
		Body:      body.RenderedText,
		Extracted: extracted,
	})

	p.log.Debug("parsed email",
		zap.String("id", id),
		zap.String("from", normalized.From.Address),
		zap.String("subject", normalized.Subject.Original),
		zap.Int("entities", extracted.Total()),
		zap.Float64("spam_score", indicators.Score),
	)

	return &email.Email{
		ID:             id,
		From:           normalized.From,
		To:             normalized.To,
		Cc:             normalized.Cc,
		ReplyTo:        normalized.ReplyTo,
		Subject:        normalized.Subject,
		Date:           normalized.Date,
		DateRaw:        normalized.DateRaw,
		Body:           body,
		SignatureSplit: split,
		Headers:        decoded.Headers,
		Extracted:      extracted,
		Thread:         threadInfo,
		Spam:           indicators,
	}, nil
}

// scanBuffer is the single text buffer entities are extracted from:
// subject, a blank line, then the rendered body. Match positions are byte
// offsets into this buffer.
func scanBuffer(subject email.Subject, body email.Body) string {
	if subject.Original == "" {
		return body.RenderedText
	}
	return subject.Original + "\n\n" + body.RenderedText
}

// Parse is a convenience wrapper using default options.
func Parse(id string, raw []byte) (*email.Email, error) {
	return New(Options{}).Parse(id, raw)
}
