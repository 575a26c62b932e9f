package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/felo/mailintel/internal/parser"
)

// maxParseBody caps POST /parse request bodies at 25 MB.
const maxParseBody = 25 << 20

// Parse handles POST /parse: raw RFC 5322 bytes in, parsed record out.
// Nothing is stored.
func (h *Handlers) Parse(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxParseBody))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(raw) == 0 {
		h.writeError(w, http.StatusBadRequest, "empty request body")
		return
	}

	parsed, err := h.parser.Parse(uuid.NewString(), raw)
	if err != nil {
		h.log.Debug("parse request failed", zap.Error(err))
		switch {
		case errors.Is(err, parser.ErrMissingHeader):
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, parser.ErrDecode):
			h.writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.writeError(w, http.StatusInternalServerError, "failed to parse message")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, parsed)
}
