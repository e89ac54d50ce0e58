package drawings

import (
	"context"

	"sitedeck/internal/domain/models/drawings"
	"sitedeck/internal/httputil"
)

// VersionLedger owns the append-only revision history of a drawing and the
// "exactly one current revision" invariant. Appending a revision and
// promoting it to current happen inside one transaction: an observer sees
// either the previous or the new current pointer, never a dangling one.
type VersionLedger interface {
	// AppendRevision appends a revision and atomically promotes it to
	// current. If promotion fails the inserted revision is rolled back
	// rather than left orphaned.
	AppendRevision(ctx context.Context, drawingID, projectID string, input *RevisionInput) (*drawings.Revision, error)

	// History returns a drawing's revisions ordered by created_at ascending
	History(ctx context.Context, drawingID, projectID string) ([]drawings.Revision, error)

	// Current returns the drawing's current revision. Fails with
	// domain.ErrNoRevisions rather than returning nil silently.
	Current(ctx context.Context, drawingID, projectID string) (*drawings.Revision, error)

	// GetRevision retrieves one revision by ID, e.g. for artifact download
	GetRevision(ctx context.Context, revisionID string) (*drawings.Revision, error)
}

// DrawingRegistry owns drawing headers and coordinates creating a drawing
// together with its first revision as one logical unit.
type DrawingRegistry interface {
	// CreateWithFirstRevision creates a drawing and its first revision
	// transactionally: either both exist afterwards or neither does.
	// Sheet-number uniqueness within a project is intentionally not
	// enforced here; the surrounding UI owns that policy.
	CreateWithFirstRevision(ctx context.Context, req *CreateDrawingRequest) (*drawings.Drawing, error)

	// AddRevision delegates to the ledger and returns the drawing with its
	// updated current pointer
	AddRevision(ctx context.Context, drawingID, projectID string, input *RevisionInput) (*drawings.Drawing, error)

	// GetDrawing retrieves a drawing header
	GetDrawing(ctx context.Context, id, projectID string) (*drawings.Drawing, error)

	// UpdateDrawing edits the header: title, status, and the set it is
	// filed under (tri-state: absent = keep, null = unfile, value = move)
	UpdateDrawing(ctx context.Context, id string, req *UpdateDrawingRequest) (*drawings.Drawing, error)
}

// ListingService is the read-only projection over drawings for list
// screens. It never writes; a row whose current revision cannot be
// resolved is surfaced as an inline row error, not a failed listing.
type ListingService interface {
	ListDrawings(ctx context.Context, projectID string, filters drawings.ListFilters) ([]drawings.ListRow, error)
}

// RevisionInput carries the caller-supplied fields for a new revision. The
// artifact has already been handed to the blob store; the core only records
// the opaque reference and metadata.
type RevisionInput struct {
	VersionLabel string                `json:"version_label"`
	ArtifactRef  string                `json:"artifact_ref"`
	Artifact     drawings.ArtifactMeta `json:"artifact"`
	ChangeNotes  string                `json:"change_notes,omitempty"`
	CreatedBy    string                `json:"created_by"`
}

// CreateDrawingRequest represents a drawing creation request
type CreateDrawingRequest struct {
	ProjectID     string         `json:"project_id"`
	Number        string         `json:"number"`
	Title         string         `json:"title"`
	Discipline    string         `json:"discipline"`
	Status        string         `json:"status"`
	SetID         *string        `json:"set_id,omitempty"`
	FirstRevision *RevisionInput `json:"first_revision"`
}

// UpdateDrawingRequest represents a drawing header update request
type UpdateDrawingRequest struct {
	ProjectID string                  `json:"project_id"`
	Title     *string                 `json:"title,omitempty"`
	Status    *string                 `json:"status,omitempty"`
	SetID     httputil.OptionalString `json:"set_id"`
}
