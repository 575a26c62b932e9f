package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze_NoThreadHeaders(t *testing.T) {
	info := Analyze("<msg1@example.com>", "", "")

	assert.Equal(t, "<msg1@example.com>", info.MessageID)
	assert.Empty(t, info.References)
	assert.Empty(t, info.InReplyTo)
	assert.Equal(t, 0, info.Depth, "A message with no References and no In-Reply-To is not a reply")
}

func TestAnalyze_InReplyToOnly(t *testing.T) {
	info := Analyze("<msg2@example.com>", "", "<msg1@example.com>")

	assert.Equal(t, "<msg1@example.com>", info.InReplyTo)
	assert.Equal(t, 1, info.Depth)
}

func TestAnalyze_ReferencesChain(t *testing.T) {
	refs := "<a@example.com> <b@example.com> <c@example.com>"
	info := Analyze("<d@example.com>", refs, "<c@example.com>")

	assert.Equal(t, []string{"<a@example.com>", "<b@example.com>", "<c@example.com>"}, info.References)
	assert.Equal(t, 3, info.Depth)
}

func TestAnalyze_ReferencesPreserveOrderAndDuplicates(t *testing.T) {
	// References form a causal chain, not a set
	refs := "<a@example.com> <a@example.com> <b@example.com>"
	info := Analyze("", refs, "")

	assert.Equal(t, []string{"<a@example.com>", "<a@example.com>", "<b@example.com>"}, info.References)
	assert.Equal(t, 3, info.Depth)
}

func TestAnalyze_ReferencesAcrossFoldedWhitespace(t *testing.T) {
	refs := "<a@example.com>\n\t<b@example.com>"
	info := Analyze("", refs, "")

	assert.Equal(t, []string{"<a@example.com>", "<b@example.com>"}, info.References)
	assert.Equal(t, 2, info.Depth)
}

func TestAnalyze_InReplyToWithComment(t *testing.T) {
	// Some clients add commentary around the identifier
	info := Analyze("", "", "your message <msg1@example.com> of Friday")

	assert.Equal(t, "<msg1@example.com>", info.InReplyTo)
	assert.Equal(t, 1, info.Depth)
}
