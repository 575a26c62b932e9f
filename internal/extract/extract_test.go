package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felo/mailintel/internal/email"
)

func TestExtract_EmailAddresses(t *testing.T) {
	e := New(DefaultConfig())

	entities := e.Extract("Contact alice@example.com or ALICE@example.com today")

	matches := entities[email.KindEmail]
	require.Len(t, matches, 1, "Case variants dedupe to one normalized value")
	assert.Equal(t, "alice@example.com", matches[0].Raw)
	assert.Equal(t, "alice@example.com", matches[0].Normalized)
	assert.Equal(t, 8, matches[0].Position)
}

func TestExtract_OrderedByFirstAppearance(t *testing.T) {
	e := New(DefaultConfig())

	entities := e.Extract("first@example.com then second@example.com then first@example.com")

	matches := entities[email.KindEmail]
	require.Len(t, matches, 2)
	assert.Equal(t, "first@example.com", matches[0].Normalized)
	assert.Equal(t, "second@example.com", matches[1].Normalized)
	assert.Less(t, matches[0].Position, matches[1].Position)
}

func TestExtract_PhoneNumbers(t *testing.T) {
	e := New(DefaultConfig())

	entities := e.Extract("Call 555-123-4567 or +44 20 7946 0958")

	matches := entities[email.KindPhone]
	require.Len(t, matches, 2)
	assert.Equal(t, "555-123-4567", matches[0].Raw)
	assert.Equal(t, "5551234567", matches[0].Normalized)
	assert.Equal(t, "+442079460958", matches[1].Normalized, "Leading + survives normalization")
}

func TestExtract_PhoneDigitBounds(t *testing.T) {
	e := New(Config{PhoneMinDigits: 7, PhoneMaxDigits: 15})

	entities := e.Extract("Ext. 555-1234 but ticket 12-34-56 is too short")

	matches := entities[email.KindPhone]
	require.Len(t, matches, 1)
	assert.Equal(t, "5551234", matches[0].Normalized)
}

func TestExtract_PhoneIgnoresISODates(t *testing.T) {
	e := New(DefaultConfig())

	entities := e.Extract("Meeting on 2024-01-15 at noon")

	assert.Empty(t, entities[email.KindPhone])
}

func TestExtract_URLs(t *testing.T) {
	e := New(DefaultConfig())

	entities := e.Extract("Visit https://example.com/page. Also www.test.org!")

	matches := entities[email.KindURL]
	require.Len(t, matches, 2)
	assert.Equal(t, "https://example.com/page", matches[0].Raw, "Trailing punctuation is trimmed")
	assert.Equal(t, "https://example.com/page", matches[0].Normalized)
	assert.Equal(t, "www.test.org", matches[1].Raw)
	assert.Equal(t, "http://www.test.org", matches[1].Normalized, "Bare www gets a scheme")
}

func TestExtract_Amounts(t *testing.T) {
	e := New(DefaultConfig())

	entities := e.Extract("The invoice totals $1,234.56 and the deposit was 500 EUR")

	matches := entities[email.KindAmount]
	require.Len(t, matches, 2)
	assert.Equal(t, "$1,234.56", matches[0].Raw)
	assert.Equal(t, "1234.56 USD", matches[0].Normalized)
	assert.Equal(t, "500 EUR", matches[1].Raw)
	assert.Equal(t, "500.00 EUR", matches[1].Normalized)
}

func TestExtract_NamesFromGreetingAndSignoff(t *testing.T) {
	e := New(DefaultConfig())

	text := "Hi Bob,\n\nSee you tomorrow.\n\nRegards,\nAlice Johnson"
	entities := e.Extract(text)

	matches := entities[email.KindName]
	require.Len(t, matches, 2)
	assert.Equal(t, "Bob", matches[0].Raw)
	assert.Equal(t, "Alice Johnson", matches[1].Raw)
}

func TestExtract_Companies(t *testing.T) {
	e := New(DefaultConfig())

	entities := e.Extract("The contract with Acme Widgets Inc. was renewed")

	matches := entities[email.KindCompany]
	require.Len(t, matches, 1)
	assert.Equal(t, "Acme Widgets Inc.", matches[0].Raw)
}

func TestExtract_SocialHandles(t *testing.T) {
	e := New(DefaultConfig())

	entities := e.Extract("Follow @gopher_dev or see linkedin.com/in/jane-doe")

	matches := entities[email.KindSocialHandle]
	require.Len(t, matches, 2)
	assert.Equal(t, "@gopher_dev", matches[0].Raw)
	assert.Equal(t, "gopher_dev", matches[0].Normalized)
	assert.Equal(t, "jane-doe", matches[1].Normalized)
}

func TestExtract_HandleNotConfusedWithEmail(t *testing.T) {
	e := New(DefaultConfig())

	entities := e.Extract("Mail alice@example.com for details")

	assert.Len(t, entities[email.KindEmail], 1)
	assert.Empty(t, entities[email.KindSocialHandle],
		"The domain fragment of an address is not a handle")
}

func TestExtract_EmptyText(t *testing.T) {
	e := New(DefaultConfig())

	entities := e.Extract("")
	assert.Empty(t, entities)
	assert.Zero(t, entities.Total())
}
