package drawings

import (
	"context"

	"sitedeck/internal/domain/models/drawings"
)

// RevisionRepository defines data access operations for revisions.
// Revisions are append-only: there is no update or delete.
type RevisionRepository interface {
	// Create inserts a new revision
	Create(ctx context.Context, revision *drawings.Revision) error

	// GetByID retrieves a revision by ID
	GetByID(ctx context.Context, id string) (*drawings.Revision, error)

	// ListByDrawing retrieves a drawing's revisions ordered by
	// (created_at, id) ascending
	ListByDrawing(ctx context.Context, drawingID string) ([]drawings.Revision, error)
}
