package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"sitedeck/internal/domain"
	"sitedeck/internal/httputil"
)

// handleError maps domain errors to HTTP responses. Integrity violations
// (ErrCorruptHierarchy, ErrNoRevisions) are defects, not user errors: they
// are logged distinctly and surfaced as 500s without leaking internals.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	// Typed errors carry their own status code
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), err.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInvalidParent),
		errors.Is(err, domain.ErrCrossOwner),
		errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCycle):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, err.Error(),
			map[string]interface{}{"code": "cycle_detected"})
	case errors.Is(err, domain.ErrHasChildren):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, err.Error(),
			map[string]interface{}{"code": "has_children"})
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrCorruptHierarchy):
		logger.Error("hierarchy integrity violation", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "hierarchy data integrity error")
	case errors.Is(err, domain.ErrNoRevisions):
		logger.Error("revision integrity violation", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "revision data integrity error")
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
