package hierarchy

import (
	"time"
)

// Node kinds. Kind is a free-form classification tag; these are the two
// values the dashboard currently files under a project.
const (
	KindLocation = "location" // physical location (building, floor, room)
	KindSet      = "set"      // drawing-set folder
)

// Node is a hierarchical master-data entity: a physical location or a
// drawing-set folder. The parent graph restricted to a single project is a
// forest - no cycles, no cross-project parent references.
type Node struct {
	ID          string    `json:"id" db:"id"`
	ProjectID   string    `json:"project_id" db:"project_id"`
	Name        string    `json:"name" db:"name"`
	ParentID    *string   `json:"parent_id" db:"parent_id"` // NULL = root
	Kind        string    `json:"kind,omitempty" db:"kind"`
	Description string    `json:"description,omitempty" db:"description"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	Path        string    `json:"path,omitempty"` // Computed display path, not stored in DB
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
