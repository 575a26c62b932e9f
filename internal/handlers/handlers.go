// Package handlers exposes the parsed intelligence over a JSON HTTP API.
package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/felo/mailintel/internal/db"
	"github.com/felo/mailintel/internal/parser"
)

// Handlers holds all HTTP handlers and their dependencies.
type Handlers struct {
	db     *db.DB
	parser *parser.Parser
	log    *zap.Logger
}

// New creates a Handlers instance.
func New(database *db.DB, p *parser.Parser, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{db: database, parser: p, log: log}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
