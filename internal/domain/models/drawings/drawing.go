package drawings

import (
	"time"
)

// Drawing statuses
const (
	StatusDraft     = "draft"
	StatusForReview = "for_review"
	StatusApproved  = "approved"
)

// ValidStatus reports whether s is one of the known drawing statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusForReview, StatusApproved:
		return true
	}
	return false
}

// Drawing is a versioned sheet header. CurrentRevisionID is the single
// source of truth for which revision consumers see by default; it is
// mutated only by the ledger's promotion step and always resolves once the
// drawing has been persisted (a drawing with zero revisions is never a
// valid persisted state).
type Drawing struct {
	ID                string    `json:"id" db:"id"`
	ProjectID         string    `json:"project_id" db:"project_id"`
	SetID             *string   `json:"set_id" db:"set_id"` // NULL = not filed under a set
	Number            string    `json:"number" db:"number"` // human code, e.g. "A-101"
	Title             string    `json:"title" db:"title"`
	Discipline        string    `json:"discipline" db:"discipline"`
	Status            string    `json:"status" db:"status"`
	CurrentRevisionID *string   `json:"current_revision_id" db:"current_revision_id"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}
