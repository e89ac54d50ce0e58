package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"sitedeck/internal/blob"
	"sitedeck/internal/config"
	"sitedeck/internal/domain"
	"sitedeck/internal/domain/models/drawings"
	drawingsSvc "sitedeck/internal/domain/services/drawings"
	"sitedeck/internal/httputil"
	"sitedeck/internal/middleware"
)

// DrawingHandler handles drawing and revision HTTP requests
type DrawingHandler struct {
	registry drawingsSvc.DrawingRegistry
	ledger   drawingsSvc.VersionLedger
	listing  drawingsSvc.ListingService
	blobs    blob.Store
	logger   *slog.Logger
}

// NewDrawingHandler creates a new drawing handler
func NewDrawingHandler(
	registry drawingsSvc.DrawingRegistry,
	ledger drawingsSvc.VersionLedger,
	listing drawingsSvc.ListingService,
	blobs blob.Store,
	logger *slog.Logger,
) *DrawingHandler {
	return &DrawingHandler{
		registry: registry,
		ledger:   ledger,
		listing:  listing,
		blobs:    blobs,
		logger:   logger,
	}
}

// CreateDrawing creates a drawing together with its first revision
// POST /api/projects/{projectID}/drawings
func (h *DrawingHandler) CreateDrawing(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")

	var req createDrawingRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.FirstRevision == nil {
		handleError(w, h.logger, &domain.ValidationError{Message: "first_revision is required"})
		return
	}

	input, err := h.storeUpload(r, req.FirstRevision)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	drawing, err := h.registry.CreateWithFirstRevision(r.Context(), &drawingsSvc.CreateDrawingRequest{
		ProjectID:     projectID,
		Number:        req.Number,
		Title:         req.Title,
		Discipline:    req.Discipline,
		Status:        req.Status,
		SetID:         req.SetID,
		FirstRevision: input,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, drawing)
}

// GetDrawing retrieves a drawing header
// GET /api/projects/{projectID}/drawings/{id}
func (h *DrawingHandler) GetDrawing(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	id := r.PathValue("id")

	drawing, err := h.registry.GetDrawing(r.Context(), id, projectID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, drawing)
}

// UpdateDrawing edits a drawing header: title, status, set filing
// PATCH /api/projects/{projectID}/drawings/{id}
func (h *DrawingHandler) UpdateDrawing(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	id := r.PathValue("id")

	var req drawingsSvc.UpdateDrawingRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ProjectID = projectID

	drawing, err := h.registry.UpdateDrawing(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, drawing)
}

// ListDrawings lists drawings with their current revision metadata
// GET /api/projects/{projectID}/drawings?discipline=A&status=approved&set_id={id}&number=A-101
func (h *DrawingHandler) ListDrawings(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")

	q := r.URL.Query()
	filters := drawings.ListFilters{
		Discipline: q.Get("discipline"),
		Status:     q.Get("status"),
		Number:     q.Get("number"),
	}
	if v := q.Get("set_id"); v != "" {
		filters.SetID = &v
	}

	rows, err := h.listing.ListDrawings(r.Context(), projectID, filters)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if rows == nil {
		rows = []drawings.ListRow{}
	}

	httputil.RespondJSON(w, http.StatusOK, rows)
}

// AddRevision uploads a new revision and promotes it to current
// POST /api/projects/{projectID}/drawings/{id}/revisions
func (h *DrawingHandler) AddRevision(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	id := r.PathValue("id")

	var req revisionUpload
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	input, err := h.storeUpload(r, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	drawing, err := h.registry.AddRevision(r.Context(), id, projectID, input)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, drawing)
}

// History lists a drawing's revisions ordered oldest first
// GET /api/projects/{projectID}/drawings/{id}/revisions
func (h *DrawingHandler) History(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	id := r.PathValue("id")

	revisions, err := h.ledger.History(r.Context(), id, projectID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if revisions == nil {
		revisions = []drawings.Revision{}
	}

	httputil.RespondJSON(w, http.StatusOK, revisions)
}

// CurrentRevision returns the drawing's current revision
// GET /api/projects/{projectID}/drawings/{id}/revisions/current
func (h *DrawingHandler) CurrentRevision(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	id := r.PathValue("id")

	revision, err := h.ledger.Current(r.Context(), id, projectID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, revision)
}

// DownloadRevision streams a revision's artifact bytes
// GET /api/projects/{projectID}/drawings/{id}/revisions/{revisionID}/download
func (h *DrawingHandler) DownloadRevision(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	revisionID := r.PathValue("revisionID")

	revision, err := h.ledger.GetRevision(r.Context(), revisionID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if revision.DrawingID != id {
		handleError(w, h.logger, &domain.NotFoundError{Message: "revision not found for drawing"})
		return
	}

	data, err := h.blobs.Get(r.Context(), revision.ArtifactRef)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			h.logger.Error("revision artifact missing from blob store",
				"revision_id", revision.ID,
				"artifact_ref", revision.ArtifactRef,
			)
			httputil.RespondError(w, http.StatusInternalServerError, "revision artifact unavailable")
			return
		}
		handleError(w, h.logger, err)
		return
	}

	contentType := revision.Artifact.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if revision.Artifact.FileName != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", revision.Artifact.FileName))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// storeUpload decodes the base64 payload, stores it in the blob store, and
// builds the ledger input. The actor comes from the request header so
// created_by is never caller-forgeable through the body.
func (h *DrawingHandler) storeUpload(r *http.Request, upload *revisionUpload) (*drawingsSvc.RevisionInput, error) {
	actor := middleware.ActorFromContext(r.Context())
	if actor == "" {
		return nil, fmt.Errorf("%w: %s header is required", domain.ErrValidation, middleware.ActorHeader)
	}
	if upload.DataBase64 == "" {
		return nil, fmt.Errorf("%w: data_base64 is required", domain.ErrValidation)
	}

	data, err := base64.StdEncoding.DecodeString(upload.DataBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: data_base64 is not valid base64", domain.ErrValidation)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: artifact is empty", domain.ErrValidation)
	}
	if len(data) > config.MaxArtifactBytes {
		return nil, fmt.Errorf("%w: artifact exceeds %d bytes", domain.ErrValidation, config.MaxArtifactBytes)
	}

	ref, err := h.blobs.Put(r.Context(), data, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store artifact: %w", err)
	}

	return &drawingsSvc.RevisionInput{
		VersionLabel: upload.VersionLabel,
		ArtifactRef:  ref,
		Artifact: drawings.ArtifactMeta{
			FileName:    upload.FileName,
			FileSize:    int64(len(data)),
			ContentType: upload.ContentType,
		},
		ChangeNotes: upload.ChangeNotes,
		CreatedBy:   actor,
	}, nil
}
