package db

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/felo/mailintel/internal/email"
)

// NullTime handles both string and time.Time values coming back from
// SQLite.
type NullTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner for NullTime.
func (nt *NullTime) Scan(value interface{}) error {
	if value == nil {
		nt.Time, nt.Valid = time.Time{}, false
		return nil
	}

	switch v := value.(type) {
	case time.Time:
		nt.Time, nt.Valid = v, true
		return nil
	case string:
		formats := []string{
			time.RFC3339,
			time.RFC3339Nano,
			"2006-01-02 15:04:05.999999999 -0700 -0700",
			"2006-01-02 15:04:05 -0700 -0700",
			"2006-01-02 15:04:05 -0700 MST",
			"2006-01-02 15:04:05 -0700",
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05Z",
		}
		var err error
		for _, format := range formats {
			var t time.Time
			t, err = time.Parse(format, v)
			if err == nil {
				nt.Time, nt.Valid = t, true
				return nil
			}
		}
		return fmt.Errorf("failed to parse time string %q: %w", v, err)
	default:
		return fmt.Errorf("unsupported Scan type for NullTime: %T", value)
	}
}

// Value implements driver.Valuer for NullTime.
func (nt NullTime) Value() (driver.Value, error) {
	if !nt.Valid {
		return nil, nil
	}
	return nt.Time, nil
}

// Record is one parsed email's intelligence in storage form.
type Record struct {
	ID                string
	SourcePath        string
	MessageID         string
	InReplyTo         string
	ThreadReferences  string // space-separated, document order
	ThreadDepth       int
	Subject           string
	SubjectNormalized string
	Sender            string
	SenderName        string
	Recipients        string // comma-separated addresses
	Cc                string
	ReplyTo           string
	Date              NullTime
	DateRaw           string
	ContentPreview    string
	Signature         string
	BodyHTML          string
	SpamScore         float64
	SpamFlags         string // comma-separated indicator names
	EntityCount       int
	IndexedAt         NullTime
}

// Entity is one extracted entity occurrence in storage form.
type Entity struct {
	EmailID    string
	Kind       string
	Raw        string
	Normalized string
	Position   int
}

const previewLimit = 10 * 1024

// NewRecord converts a parsed Email into its storage form.
func NewRecord(e *email.Email, sourcePath string) (*Record, []Entity) {
	rec := &Record{
		ID:                e.ID,
		SourcePath:        sourcePath,
		MessageID:         e.Thread.MessageID,
		InReplyTo:         e.Thread.InReplyTo,
		ThreadReferences:  strings.Join(e.Thread.References, " "),
		ThreadDepth:       e.Thread.Depth,
		Subject:           e.Subject.Original,
		SubjectNormalized: e.Subject.Normalized,
		Sender:            e.From.Address,
		SenderName:        e.From.Name,
		Recipients:        joinAddresses(e.To),
		Cc:                joinAddresses(e.Cc),
		Date:              NullTime{Time: e.Date, Valid: !e.Date.IsZero()},
		DateRaw:           e.DateRaw,
		ContentPreview:    truncateText(e.SignatureSplit.Content, previewLimit),
		Signature:         e.SignatureSplit.Signature,
		SpamScore:         e.Spam.Score,
		SpamFlags:         strings.Join(e.Spam.Flags, ","),
		EntityCount:       e.Extracted.Total(),
	}
	if e.ReplyTo != nil {
		rec.ReplyTo = e.ReplyTo.Address
	}
	if e.Body.ContentType == email.ContentTypeHTML {
		rec.BodyHTML = e.Body.Original
	}

	var entities []Entity
	for kind, matches := range e.Extracted {
		for _, m := range matches {
			entities = append(entities, Entity{
				EmailID:    e.ID,
				Kind:       string(kind),
				Raw:        m.Raw,
				Normalized: m.Normalized,
				Position:   m.Position,
			})
		}
	}
	return rec, entities
}

func joinAddresses(addrs []email.Address) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = a.Address
	}
	return strings.Join(parts, ", ")
}

// InsertEmail stores a record and its entities in one transaction.
func (db *DB) InsertEmail(rec *Record, entities []Entity) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO emails (
			id, source_path, message_id, in_reply_to, thread_references, thread_depth,
			subject, subject_normalized, sender, sender_name, recipients, cc, reply_to,
			date, date_raw, content_preview, signature, body_html,
			spam_score, spam_flags, entity_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID, nullIfEmpty(rec.SourcePath), rec.MessageID, rec.InReplyTo, rec.ThreadReferences, rec.ThreadDepth,
		rec.Subject, rec.SubjectNormalized, rec.Sender, rec.SenderName, rec.Recipients, rec.Cc, rec.ReplyTo,
		rec.Date, rec.DateRaw, rec.ContentPreview, rec.Signature, rec.BodyHTML,
		rec.SpamScore, rec.SpamFlags, rec.EntityCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert email: %w", err)
	}

	for _, ent := range entities {
		_, err = tx.Exec(`
			INSERT INTO entities (email_id, kind, raw, normalized, position)
			VALUES (?, ?, ?, ?, ?)
		`, ent.EmailID, ent.Kind, ent.Raw, ent.Normalized, ent.Position)
		if err != nil {
			return fmt.Errorf("failed to insert entity: %w", err)
		}
	}

	return tx.Commit()
}

// EmailExists reports whether a record with the given source path is
// already stored.
func (db *DB) EmailExists(sourcePath string) (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM emails WHERE source_path = ?", sourcePath).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

const recordColumns = `
	id, source_path, message_id, in_reply_to, thread_references, thread_depth,
	subject, subject_normalized, sender, sender_name, recipients, cc, reply_to,
	date, date_raw, content_preview, signature, body_html,
	spam_score, spam_flags, entity_count, indexed_at
`

func scanRecord(row interface{ Scan(...interface{}) error }) (*Record, error) {
	rec := &Record{}
	var sourcePath sql.NullString
	err := row.Scan(
		&rec.ID, &sourcePath, &rec.MessageID, &rec.InReplyTo, &rec.ThreadReferences, &rec.ThreadDepth,
		&rec.Subject, &rec.SubjectNormalized, &rec.Sender, &rec.SenderName, &rec.Recipients, &rec.Cc, &rec.ReplyTo,
		&rec.Date, &rec.DateRaw, &rec.ContentPreview, &rec.Signature, &rec.BodyHTML,
		&rec.SpamScore, &rec.SpamFlags, &rec.EntityCount, &rec.IndexedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.SourcePath = sourcePath.String
	return rec, nil
}

// GetEmail retrieves one record by id, or nil when absent.
func (db *DB) GetEmail(id string) (*Record, error) {
	rec, err := scanRecord(db.QueryRow(
		"SELECT "+recordColumns+" FROM emails WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email: %w", err)
	}
	return rec, nil
}

// ListEmails returns records ordered by date descending.
func (db *DB) ListEmails(limit, offset int) ([]*Record, error) {
	rows, err := db.Query(
		"SELECT "+recordColumns+" FROM emails ORDER BY date DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating emails: %w", err)
	}
	return records, nil
}

// GetEntities returns the stored entities for an email, ordered by
// position within each kind.
func (db *DB) GetEntities(emailID string) ([]Entity, error) {
	rows, err := db.Query(`
		SELECT email_id, kind, raw, normalized, position
		FROM entities
		WHERE email_id = ?
		ORDER BY kind, position
	`, emailID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entities: %w", err)
	}
	defer rows.Close()

	var entities []Entity
	for rows.Next() {
		var ent Entity
		if err := rows.Scan(&ent.EmailID, &ent.Kind, &ent.Raw, &ent.Normalized, &ent.Position); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, ent)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entities: %w", err)
	}
	return entities, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen]
}
