package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/felo/mailintel/internal/db"
)

// emailSummary is the list/search representation of a stored record.
type emailSummary struct {
	ID          string    `json:"id"`
	MessageID   string    `json:"message_id,omitempty"`
	Subject     string    `json:"subject"`
	Sender      string    `json:"sender"`
	SenderName  string    `json:"sender_name,omitempty"`
	Date        time.Time `json:"date,omitzero"`
	ThreadDepth int       `json:"thread_depth"`
	SpamScore   float64   `json:"spam_score"`
	EntityCount int       `json:"entity_count"`
	Snippet     string    `json:"snippet,omitempty"`
}

func summarize(rec *db.Record, snippet string) emailSummary {
	return emailSummary{
		ID:          rec.ID,
		MessageID:   rec.MessageID,
		Subject:     rec.Subject,
		Sender:      rec.Sender,
		SenderName:  rec.SenderName,
		Date:        rec.Date.Time,
		ThreadDepth: rec.ThreadDepth,
		SpamScore:   rec.SpamScore,
		EntityCount: rec.EntityCount,
		Snippet:     snippet,
	}
}

// ListEmails handles GET /emails.
func (h *Handlers) ListEmails(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	records, err := h.db.ListEmails(limit, offset)
	if err != nil {
		h.log.Error("failed to list emails", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to list emails")
		return
	}

	summaries := make([]emailSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, summarize(rec, ""))
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

// emailDetail is the full stored record plus its entities.
type emailDetail struct {
	emailSummary
	SubjectNormalized string      `json:"subject_normalized"`
	Recipients        string      `json:"recipients,omitempty"`
	Cc                string      `json:"cc,omitempty"`
	ReplyTo           string      `json:"reply_to,omitempty"`
	InReplyTo         string      `json:"in_reply_to,omitempty"`
	ThreadReferences  string      `json:"thread_references,omitempty"`
	DateRaw           string      `json:"date_raw,omitempty"`
	Content           string      `json:"content"`
	Signature         string      `json:"signature,omitempty"`
	SpamFlags         string      `json:"spam_flags,omitempty"`
	Entities          []db.Entity `json:"entities"`
}

// GetEmail handles GET /emails/{id}.
func (h *Handlers) GetEmail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.db.GetEmail(id)
	if err != nil {
		h.log.Error("failed to get email", zap.String("id", id), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to load email")
		return
	}
	if rec == nil {
		h.writeError(w, http.StatusNotFound, "email not found")
		return
	}

	entities, err := h.db.GetEntities(id)
	if err != nil {
		h.log.Error("failed to get entities", zap.String("id", id), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to load entities")
		return
	}
	if entities == nil {
		entities = []db.Entity{}
	}

	h.writeJSON(w, http.StatusOK, emailDetail{
		emailSummary:      summarize(rec, ""),
		SubjectNormalized: rec.SubjectNormalized,
		Recipients:        rec.Recipients,
		Cc:                rec.Cc,
		ReplyTo:           rec.ReplyTo,
		InReplyTo:         rec.InReplyTo,
		ThreadReferences:  rec.ThreadReferences,
		DateRaw:           rec.DateRaw,
		Content:           rec.ContentPreview,
		Signature:         rec.Signature,
		SpamFlags:         rec.SpamFlags,
		Entities:          entities,
	})
}

var htmlPolicy = bluemonday.UGCPolicy()

// GetEmailHTML handles GET /emails/{id}/html, serving the sanitized
// original HTML body of an HTML-only message.
func (h *Handlers) GetEmailHTML(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.db.GetEmail(id)
	if err != nil {
		h.log.Error("failed to get email", zap.String("id", id), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to load email")
		return
	}
	if rec == nil {
		h.writeError(w, http.StatusNotFound, "email not found")
		return
	}
	if rec.BodyHTML == "" {
		h.writeError(w, http.StatusNotFound, "email has no HTML body")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(htmlPolicy.Sanitize(rec.BodyHTML)))
}

func queryInt(r *http.Request, name string, fallback int) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
