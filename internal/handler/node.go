package handler

import (
	"log/slog"
	"net/http"

	"sitedeck/internal/domain/models/hierarchy"
	hierarchySvc "sitedeck/internal/domain/services/hierarchy"
	"sitedeck/internal/httputil"
)

// NodeHandler handles hierarchy node HTTP requests
type NodeHandler struct {
	nodeService hierarchySvc.NodeService
	resolver    hierarchySvc.PathResolver
	logger      *slog.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(nodeService hierarchySvc.NodeService, resolver hierarchySvc.PathResolver, logger *slog.Logger) *NodeHandler {
	return &NodeHandler{
		nodeService: nodeService,
		resolver:    resolver,
		logger:      logger,
	}
}

// CreateNode creates a new node
// POST /api/projects/{projectID}/nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")

	var req hierarchySvc.CreateNodeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ProjectID = projectID

	node, err := h.nodeService.CreateNode(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, node)
}

// GetNode retrieves a node with its computed display path
// GET /api/projects/{projectID}/nodes/{id}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	id := r.PathValue("id")

	node, err := h.nodeService.GetNode(r.Context(), id, projectID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}

// UpdateNode renames, reparents, or reorders a node
// PATCH /api/projects/{projectID}/nodes/{id}
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	id := r.PathValue("id")

	var req hierarchySvc.UpdateNodeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ProjectID = projectID

	node, err := h.nodeService.UpdateNode(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}

// DeleteNode deletes a node (must be childless)
// DELETE /api/projects/{projectID}/nodes/{id}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	id := r.PathValue("id")

	if err := h.nodeService.DeleteNode(r.Context(), id, projectID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListChildren lists immediate children, roots when parent_id is absent
// GET /api/projects/{projectID}/nodes?parent_id={id}
func (h *NodeHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")

	var parentID *string
	if v := r.URL.Query().Get("parent_id"); v != "" {
		parentID = &v
	}

	nodes, err := h.nodeService.ListChildren(r.Context(), parentID, projectID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if nodes == nil {
		nodes = []hierarchy.Node{}
	}

	httputil.RespondJSON(w, http.StatusOK, nodes)
}

// GetNodePath returns the root-to-node chain and its display label
// GET /api/projects/{projectID}/nodes/{id}/path
func (h *NodeHandler) GetNodePath(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	id := r.PathValue("id")

	chain, err := h.resolver.ResolvePath(r.Context(), id, projectID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	label, err := h.resolver.DisplayLabel(r.Context(), id, projectID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"path":          chain,
		"display_label": label,
	})
}
