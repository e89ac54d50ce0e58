package drawings

import (
	"context"

	"sitedeck/internal/domain/models/drawings"
)

// DrawingRepository defines data access operations for drawing sheets
type DrawingRepository interface {
	// Create inserts a new drawing header. CurrentRevisionID may be nil at
	// insert time; the registry promotes the first revision before the
	// enclosing transaction commits.
	Create(ctx context.Context, drawing *drawings.Drawing) error

	// GetByID retrieves a drawing by ID within a project
	GetByID(ctx context.Context, id, projectID string) (*drawings.Drawing, error)

	// Update persists set_id, title, discipline, and status changes
	Update(ctx context.Context, drawing *drawings.Drawing) error

	// SetCurrentRevision atomically points the drawing at a revision. This
	// is the ledger's promotion step and the only writer of
	// current_revision_id after creation.
	SetCurrentRevision(ctx context.Context, drawingID, revisionID string) error

	// List retrieves a project's drawings matching the filters, ordered by
	// (number, title)
	List(ctx context.Context, projectID string, filters drawings.ListFilters) ([]drawings.Drawing, error)
}
