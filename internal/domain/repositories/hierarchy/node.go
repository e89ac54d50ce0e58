package hierarchy

import (
	"context"

	"sitedeck/internal/domain/models/hierarchy"
)

// NodeRepository defines data access operations for hierarchy nodes
type NodeRepository interface {
	// Create inserts a new node
	Create(ctx context.Context, node *hierarchy.Node) error

	// GetByID retrieves a node by ID within a project
	GetByID(ctx context.Context, id, projectID string) (*hierarchy.Node, error)

	// GetByIDOnly retrieves a node by ID without project scoping. Used to
	// distinguish "parent does not exist" from "parent belongs to another
	// project".
	GetByIDOnly(ctx context.Context, id string) (*hierarchy.Node, error)

	// Update persists name, parent, kind, description, and sort order changes
	Update(ctx context.Context, node *hierarchy.Node) error

	// Delete removes a node. The caller is responsible for the childless
	// check; the parent_id foreign key is a second line of defense.
	Delete(ctx context.Context, id, projectID string) error

	// ListChildren lists immediate children ordered by (sort_order, name).
	// parentID = nil lists roots.
	ListChildren(ctx context.Context, parentID *string, projectID string) ([]hierarchy.Node, error)

	// HasChildren reports whether any node has the given node as parent
	HasChildren(ctx context.Context, id, projectID string) (bool, error)

	// GetAllByProject retrieves all nodes in a project (flat list)
	GetAllByProject(ctx context.Context, projectID string) ([]hierarchy.Node, error)
}
