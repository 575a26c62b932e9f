package db

import (
	"fmt"
	"strings"
)

// SearchResult is a record with a highlighted snippet.
type SearchResult struct {
	Record
	Snippet string
}

// SearchEmails performs a full-text search using FTS5. An empty query
// returns recent emails.
func (db *DB) SearchEmails(query string, limit int) ([]*SearchResult, error) {
	if query == "" {
		records, err := db.ListEmails(limit, 0)
		if err != nil {
			return nil, err
		}
		results := make([]*SearchResult, len(records))
		for i, rec := range records {
			results[i] = &SearchResult{
				Record:  *rec,
				Snippet: truncateText(rec.ContentPreview, 200),
			}
		}
		return results, nil
	}

	// Wildcard each term for prefix matching: "john doe" -> "john* doe*"
	terms := strings.Fields(query)
	fuzzyTerms := make([]string, len(terms))
	for i, term := range terms {
		term = strings.ReplaceAll(term, `"`, `""`)
		fuzzyTerms[i] = `"` + term + `"*`
	}
	fuzzyQuery := strings.Join(fuzzyTerms, " ")

	rows, err := db.Query(`
		SELECT
			e.id, e.source_path, e.message_id, e.in_reply_to, e.thread_references, e.thread_depth,
			e.subject, e.subject_normalized, e.sender, e.sender_name, e.recipients, e.cc, e.reply_to,
			e.date, e.date_raw, e.content_preview, e.signature, e.body_html,
			e.spam_score, e.spam_flags, e.entity_count, e.indexed_at,
			snippet(emails_fts, 4, '<mark>', '</mark>', '...', 32) as snippet
		FROM emails e
		JOIN emails_fts ON e.rowid = emails_fts.rowid
		WHERE emails_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, fuzzyQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search emails: %w", err)
	}
	defer rows.Close()

	var results []*SearchResult
	for rows.Next() {
		result := &SearchResult{}
		var sourcePath interface{}
		err := rows.Scan(
			&result.ID, &sourcePath, &result.MessageID, &result.InReplyTo, &result.ThreadReferences, &result.ThreadDepth,
			&result.Subject, &result.SubjectNormalized, &result.Sender, &result.SenderName, &result.Recipients, &result.Cc, &result.ReplyTo,
			&result.Date, &result.DateRaw, &result.ContentPreview, &result.Signature, &result.BodyHTML,
			&result.SpamScore, &result.SpamFlags, &result.EntityCount, &result.IndexedAt,
			&result.Snippet,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		if s, ok := sourcePath.(string); ok {
			result.SourcePath = s
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return results, nil
}
