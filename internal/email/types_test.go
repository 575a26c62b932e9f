package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress_IsNoReply(t *testing.T) {
	tests := []struct {
		local string
		want  bool
	}{
		{"noreply", true},
		{"no-reply", true},
		{"DoNotReply", true},
		{"newsletter-noreply", true},
		{"mailer-daemon", true},
		{"alice", false},
		{"replies", false},
	}
	for _, tt := range tests {
		a := Address{Address: tt.local + "@example.com", LocalPart: tt.local, Domain: "example.com"}
		assert.Equal(t, tt.want, a.IsNoReply(), "local part %q", tt.local)
	}
}

func TestAddress_IsFreemail(t *testing.T) {
	assert.True(t, Address{Domain: "gmail.com"}.IsFreemail())
	assert.True(t, Address{Domain: "Gmail.Com"}.IsFreemail())
	assert.False(t, Address{Domain: "example.com"}.IsFreemail())
}

func TestAddress_String(t *testing.T) {
	assert.Equal(t, "Alice <alice@example.com>",
		Address{Name: "Alice", Address: "alice@example.com"}.String())
	assert.Equal(t, "alice@example.com",
		Address{Address: "alice@example.com"}.String())
}

func TestSignatureSplit_Reconstruct(t *testing.T) {
	split := SignatureSplit{Content: "Body", Separator: "\n--\n", Signature: "Sig"}
	assert.Equal(t, "Body\n--\nSig", split.Reconstruct())
	assert.True(t, split.HasSignature())

	whole := SignatureSplit{Content: "Just body"}
	assert.Equal(t, "Just body", whole.Reconstruct())
	assert.False(t, whole.HasSignature())
}

func TestExtractedEntities_Total(t *testing.T) {
	e := ExtractedEntities{
		KindEmail: {{Normalized: "a@b.com"}},
		KindURL:   {{Normalized: "http://x"}, {Normalized: "http://y"}},
	}
	assert.Equal(t, 3, e.Total())
	assert.Zero(t, ExtractedEntities{}.Total())
}

func TestSpamIndicators_HasFlag(t *testing.T) {
	s := SpamIndicators{Flags: []string{"uppercase_subject"}}
	assert.True(t, s.HasFlag("uppercase_subject"))
	assert.False(t, s.HasFlag("financial_lure"))
}

func TestHeaders_CaseInsensitive(t *testing.T) {
	h := make(Headers)
	h.Add("message-id", "<a@b.com>")

	assert.Equal(t, "<a@b.com>", h.Get("Message-Id"))
	assert.True(t, h.Has("MESSAGE-ID"))
	assert.Empty(t, h.Get("Subject"))
}
