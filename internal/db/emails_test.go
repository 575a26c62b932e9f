package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felo/mailintel/internal/email"
)

func sampleEmail(id string) *email.Email {
	return &email.Email{
		ID: id,
		From: email.Address{
			Name: "Alice Smith", Address: "alice@example.com",
			LocalPart: "alice", Domain: "example.com",
		},
		To: []email.Address{
			{Address: "bob@example.com", LocalPart: "bob", Domain: "example.com"},
		},
		Subject: email.Subject{
			Original: "Re: Invoice 1042", Normalized: "Invoice 1042", ReplyDepth: 1,
		},
		Date:    time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		DateRaw: "Mon, 15 Jan 2024 10:30:00 +0000",
		Body: email.Body{
			ContentType:  email.ContentTypePlain,
			RenderedText: "Invoice attached.\n\nThanks,\nAlice",
		},
		SignatureSplit: email.SignatureSplit{
			Content:   "Invoice attached.\n",
			Separator: "\n",
			Signature: "Thanks,\nAlice",
		},
		Extracted: email.ExtractedEntities{
			email.KindAmount: {{Raw: "$1,250.00", Normalized: "1250.00 USD", Position: 24}},
		},
		Thread: email.ThreadInfo{
			MessageID:  "<msg1@example.com>",
			References: []string{"<msg0@example.com>"},
			InReplyTo:  "<msg0@example.com>",
			Depth:      1,
		},
		Spam: email.SpamIndicators{Flags: []string{}, Score: 0},
	}
}

func TestInsertAndGetEmail(t *testing.T) {
	database := NewTestDB(t)

	rec, entities := NewRecord(sampleEmail("em-1"), "inbox/msg1.eml")
	require.NoError(t, database.InsertEmail(rec, entities))

	got, err := database.GetEmail("em-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "em-1", got.ID)
	assert.Equal(t, "inbox/msg1.eml", got.SourcePath)
	assert.Equal(t, "Re: Invoice 1042", got.Subject)
	assert.Equal(t, "Invoice 1042", got.SubjectNormalized)
	assert.Equal(t, "alice@example.com", got.Sender)
	assert.Equal(t, "Alice Smith", got.SenderName)
	assert.Equal(t, "bob@example.com", got.Recipients)
	assert.Equal(t, "<msg1@example.com>", got.MessageID)
	assert.Equal(t, "<msg0@example.com>", got.ThreadReferences)
	assert.Equal(t, 1, got.ThreadDepth)
	assert.Equal(t, "Invoice attached.\n", got.ContentPreview)
	assert.Equal(t, "Thanks,\nAlice", got.Signature)
	assert.Equal(t, 1, got.EntityCount)
	assert.True(t, got.Date.Valid)
}

func TestGetEmail_NotFound(t *testing.T) {
	database := NewTestDB(t)

	got, err := database.GetEmail("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmailExists(t *testing.T) {
	database := NewTestDB(t)

	exists, err := database.EmailExists("inbox/msg1.eml")
	require.NoError(t, err)
	assert.False(t, exists)

	rec, entities := NewRecord(sampleEmail("em-1"), "inbox/msg1.eml")
	require.NoError(t, database.InsertEmail(rec, entities))

	exists, err = database.EmailExists("inbox/msg1.eml")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInsertEmail_EmptySourcePath(t *testing.T) {
	database := NewTestDB(t)

	// Two ad-hoc records without source paths must not collide on the
	// unique index
	rec1, _ := NewRecord(sampleEmail("em-1"), "")
	rec2, _ := NewRecord(sampleEmail("em-2"), "")
	require.NoError(t, database.InsertEmail(rec1, nil))
	require.NoError(t, database.InsertEmail(rec2, nil))

	got, err := database.GetEmail("em-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.SourcePath)
}

func TestGetEntities(t *testing.T) {
	database := NewTestDB(t)

	e := sampleEmail("em-1")
	e.Extracted = email.ExtractedEntities{
		email.KindEmail: {
			{Raw: "carol@example.com", Normalized: "carol@example.com", Position: 10},
		},
		email.KindURL: {
			{Raw: "https://example.com", Normalized: "https://example.com", Position: 40},
		},
	}
	rec, entities := NewRecord(e, "inbox/msg1.eml")
	require.NoError(t, database.InsertEmail(rec, entities))

	got, err := database.GetEntities("em-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by kind, then position
	assert.Equal(t, "email", got[0].Kind)
	assert.Equal(t, "carol@example.com", got[0].Normalized)
	assert.Equal(t, "url", got[1].Kind)
	assert.Equal(t, 40, got[1].Position)
}

func TestListEmails_OrderedByDateDesc(t *testing.T) {
	database := NewTestDB(t)

	older := sampleEmail("em-old")
	older.Date = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleEmail("em-new")
	newer.Date = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	recOld, _ := NewRecord(older, "a.eml")
	recNew, _ := NewRecord(newer, "b.eml")
	require.NoError(t, database.InsertEmail(recOld, nil))
	require.NoError(t, database.InsertEmail(recNew, nil))

	records, err := database.ListEmails(10, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "em-new", records[0].ID)
	assert.Equal(t, "em-old", records[1].ID)
}

func TestNewRecord_HTMLBodyRetained(t *testing.T) {
	e := sampleEmail("em-html")
	e.Body = email.Body{
		Original:     "<p>Hello</p>",
		ContentType:  email.ContentTypeHTML,
		RenderedText: "Hello",
	}

	rec, _ := NewRecord(e, "")
	assert.Equal(t, "<p>Hello</p>", rec.BodyHTML)
}

func TestNewRecord_PlainBodyHasNoHTML(t *testing.T) {
	rec, _ := NewRecord(sampleEmail("em-plain"), "")
	assert.Empty(t, rec.BodyHTML)
}
