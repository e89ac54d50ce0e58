package handler

import (
	"log/slog"
	"net/http"

	"sitedeck/internal/disciplines"
	"sitedeck/internal/httputil"
)

// DisciplineHandler serves the discipline master data
type DisciplineHandler struct {
	registry *disciplines.Registry
	logger   *slog.Logger
}

// NewDisciplineHandler creates a new discipline handler
func NewDisciplineHandler(registry *disciplines.Registry, logger *slog.Logger) *DisciplineHandler {
	return &DisciplineHandler{
		registry: registry,
		logger:   logger,
	}
}

// List returns all known disciplines
// GET /api/disciplines
func (h *DisciplineHandler) List(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.registry.List())
}

// SuggestNumber extracts a sheet-number suggestion from a file name
// GET /api/disciplines/suggest?file_name=A-101%20Floor%20Plan.pdf
func (h *DisciplineHandler) SuggestNumber(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("file_name")
	if fileName == "" {
		httputil.RespondError(w, http.StatusBadRequest, "file_name query parameter is required")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"suggested_number": h.registry.SuggestNumber(fileName),
	})
}
