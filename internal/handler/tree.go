package handler

import (
	"log/slog"
	"net/http"

	"sitedeck/internal/domain/models/hierarchy"
	hierarchySvc "sitedeck/internal/domain/services/hierarchy"
	"sitedeck/internal/httputil"
)

// TreeHandler serves the flattened hierarchy consumed by selector widgets
type TreeHandler struct {
	resolver hierarchySvc.PathResolver
	logger   *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(resolver hierarchySvc.PathResolver, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// Flatten returns the project's forest in depth-first, sibling-ordered
// traversal, each entry carrying its depth and display label. The selector
// query counter lives in the resolver, which is the single increment site.
// GET /api/projects/{projectID}/tree
func (h *TreeHandler) Flatten(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")

	flat, err := h.resolver.Flatten(r.Context(), projectID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if flat == nil {
		flat = []hierarchy.FlatNode{}
	}

	httputil.RespondJSON(w, http.StatusOK, flat)
}
