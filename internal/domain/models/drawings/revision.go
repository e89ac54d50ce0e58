package drawings

import (
	"time"
)

// ArtifactMeta describes the uploaded file behind a revision. The bytes
// themselves live in the blob store; the core never interprets them.
type ArtifactMeta struct {
	FileName    string `json:"file_name" db:"file_name"`
	FileSize    int64  `json:"file_size" db:"file_size"`
	ContentType string `json:"content_type" db:"content_type"`
}

// Revision is one immutable snapshot of a drawing's content. For a given
// drawing, revisions form an append-only sequence ordered by CreatedAt;
// they are never updated or deleted.
type Revision struct {
	ID           string       `json:"id" db:"id"`
	DrawingID    string       `json:"drawing_id" db:"drawing_id"`
	VersionLabel string       `json:"version_label" db:"version_label"` // caller-supplied, e.g. "1", "A", "Rev 2"
	ArtifactRef  string       `json:"artifact_ref" db:"artifact_ref"`
	Artifact     ArtifactMeta `json:"artifact"`
	ChangeNotes  string       `json:"change_notes,omitempty" db:"change_notes"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	CreatedBy    string       `json:"created_by" db:"created_by"` // opaque actor reference
}
