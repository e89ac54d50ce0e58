package hierarchy

import (
	"context"

	"sitedeck/internal/domain/models/hierarchy"
	"sitedeck/internal/httputil"
)

// NodeService owns the project's hierarchy nodes (locations and drawing
// sets): creation, rename, reparent, reorder, and guarded deletion.
type NodeService interface {
	// CreateNode creates a new node, optionally under a parent
	CreateNode(ctx context.Context, req *CreateNodeRequest) (*hierarchy.Node, error)

	// GetNode retrieves a node with its computed display path
	GetNode(ctx context.Context, id, projectID string) (*hierarchy.Node, error)

	// UpdateNode renames, reparents, or reorders a node
	UpdateNode(ctx context.Context, id string, req *UpdateNodeRequest) (*hierarchy.Node, error)

	// DeleteNode deletes a node. Fails if the node still has children;
	// deletion never cascades.
	DeleteNode(ctx context.Context, id, projectID string) error

	// ListChildren lists immediate children ordered by (sort_order, name).
	// parentID = nil lists roots.
	ListChildren(ctx context.Context, parentID *string, projectID string) ([]hierarchy.Node, error)
}

// PathResolver derives display paths and depths by walking parent
// references. It never loops: traversal is bounded by the project's node
// count and fails on corrupt data instead of hanging.
type PathResolver interface {
	// ResolvePath returns the chain from root to the node, inclusive
	ResolvePath(ctx context.Context, id, projectID string) ([]hierarchy.Node, error)

	// DisplayLabel renders the path as "Root > Child > Grandchild"
	DisplayLabel(ctx context.Context, id, projectID string) (string, error)

	// Flatten returns the project's forest in depth-first, sibling-ordered
	// traversal - the shape consumed by hierarchical selectors
	Flatten(ctx context.Context, projectID string) ([]hierarchy.FlatNode, error)
}

// CreateNodeRequest represents a node creation request
type CreateNodeRequest struct {
	ProjectID   string  `json:"project_id"`
	Name        string  `json:"name"`
	ParentID    *string `json:"parent_id,omitempty"` // null for root
	Kind        string  `json:"kind,omitempty"`
	Description string  `json:"description,omitempty"`
	SortOrder   *int    `json:"sort_order,omitempty"`
}

// UpdateNodeRequest represents a node update request. ParentID uses
// tri-state semantics: absent = keep, null = move to root, value = move
// under that node.
type UpdateNodeRequest struct {
	ProjectID   string                  `json:"project_id"`
	Name        *string                 `json:"name,omitempty"`
	ParentID    httputil.OptionalString `json:"parent_id"`
	Description *string                 `json:"description,omitempty"`
	SortOrder   *int                    `json:"sort_order,omitempty"`
}
