package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felo/mailintel/internal/email"
)

func rawMessage(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n"))
}

func TestParse_SimpleReply(t *testing.T) {
	raw := rawMessage(
		"From: Alice Smith <alice@example.com>",
		"To: Bob <bob@example.com>",
		"Subject: Re: Project Update",
		"Date: Mon, 15 Jan 2024 10:30:00 +0000",
		"Message-ID: <msg1@example.com>",
		"In-Reply-To: <msg0@example.com>",
		"References: <msg0@example.com>",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Hi Bob,",
		"",
		"The new invoice totals $1,250.00. Details at https://example.com/invoice.",
		"",
		"Thanks,",
		"Alice",
	)

	parsed, err := Parse("id-1", raw)
	require.NoError(t, err)

	assert.Equal(t, "id-1", parsed.ID)
	assert.Equal(t, "alice@example.com", parsed.From.Address)
	assert.Equal(t, "Alice Smith", parsed.From.Name)
	require.Len(t, parsed.To, 1)
	assert.Equal(t, "bob@example.com", parsed.To[0].Address)

	assert.Equal(t, "Re: Project Update", parsed.Subject.Original)
	assert.Equal(t, "Project Update", parsed.Subject.Normalized)
	assert.Equal(t, 1, parsed.Subject.ReplyDepth)

	assert.Equal(t, email.ContentTypePlain, parsed.Body.ContentType)
	assert.Contains(t, parsed.Body.RenderedText, "Hi Bob,")

	assert.Equal(t, "<msg1@example.com>", parsed.Thread.MessageID)
	assert.Equal(t, []string{"<msg0@example.com>"}, parsed.Thread.References)
	assert.Equal(t, 1, parsed.Thread.Depth)

	assert.Equal(t, "Thanks,\nAlice", parsed.SignatureSplit.Signature)
	assert.Equal(t, parsed.Body.RenderedText, parsed.SignatureSplit.Reconstruct())

	urls := parsed.Extracted[email.KindURL]
	require.Len(t, urls, 1)
	assert.Equal(t, "https://example.com/invoice", urls[0].Normalized)

	amounts := parsed.Extracted[email.KindAmount]
	require.Len(t, amounts, 1)
	assert.Equal(t, "1250.00 USD", amounts[0].Normalized)

	names := parsed.Extracted[email.KindName]
	require.Len(t, names, 2)
	assert.Equal(t, "Bob", names[0].Raw)
	assert.Equal(t, "Alice", names[1].Raw)

	assert.Empty(t, parsed.Spam.Flags)
	assert.Zero(t, parsed.Spam.Score)
	assert.False(t, parsed.Date.IsZero())
}

func TestParse_MissingFromIsFatal(t *testing.T) {
	raw := rawMessage(
		"To: bob@example.com",
		"Subject: Anonymous",
		"",
		"No sender on this one.",
	)

	_, err := Parse("id-2", raw)
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestParse_HTMLOnlyBody(t *testing.T) {
	raw := rawMessage(
		"From: alice@example.com",
		"Subject: Newsletter",
		"Message-ID: <news1@example.com>",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>Hello <b>World</b></p>",
	)

	parsed, err := Parse("id-3", raw)
	require.NoError(t, err)

	assert.Equal(t, email.ContentTypeHTML, parsed.Body.ContentType)
	assert.Equal(t, "Hello World", parsed.Body.RenderedText)
	assert.Equal(t, "<p>Hello <b>World</b></p>", parsed.Body.Original)
}

func TestParse_SpamIndicators(t *testing.T) {
	raw := rawMessage(
		"From: Lottery Department <noreply@lotto.example>",
		"Reply-To: claims@other.example",
		"Subject: URGENT: YOU ARE A WINNER",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"You have won the lottery! Act now to claim your prize.",
	)

	parsed, err := Parse("id-4", raw)
	require.NoError(t, err)

	for _, flag := range []string{
		"uppercase_subject", "urgency_keywords", "financial_lure",
		"replyto_domain_mismatch", "message_id_missing", "noreply_sender",
	} {
		assert.True(t, parsed.Spam.HasFlag(flag), "expected flag %s", flag)
	}
	assert.Greater(t, parsed.Spam.Score, 0.5)
	assert.LessOrEqual(t, parsed.Spam.Score, 1.0)
}

func TestParse_UnstructuredBytes(t *testing.T) {
	_, err := Parse("id-5", []byte("this is not: \x00 a message\nat all"))
	if err != nil {
		assert.ErrorIs(t, err, ErrDecode)
	}
}

func TestParse_Deterministic(t *testing.T) {
	raw := rawMessage(
		"From: alice@example.com",
		"Subject: Determinism check",
		"Message-ID: <det@example.com>",
		"",
		"Same bytes, same record.",
	)

	first, err := Parse("same-id", raw)
	require.NoError(t, err)
	second, err := Parse("same-id", raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParse_HeadersRetained(t *testing.T) {
	raw := rawMessage(
		"From: alice@example.com",
		"Subject: Header check",
		"X-Custom-Tag: tag-value",
		"",
		"Body.",
	)

	parsed, err := Parse("id-6", raw)
	require.NoError(t, err)

	assert.Equal(t, "tag-value", parsed.Headers.Get("X-Custom-Tag"))
	assert.Equal(t, "Header check", parsed.Headers.Get("Subject"))
}
