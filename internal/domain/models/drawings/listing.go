package drawings

// ListFilters narrows a project's drawing listing. Zero values mean "no
// filter". SetID filters by the set a drawing is filed under; it does not
// descend into child sets.
type ListFilters struct {
	Discipline string
	Status     string
	SetID      *string
	Number     string // exact match on the human sheet code
}

// ListRow joins a drawing to its current revision's file metadata for list
// rendering. If the current revision lookup fails, Err carries the
// row-level problem and the rest of the listing is unaffected.
type ListRow struct {
	Drawing         Drawing       `json:"drawing"`
	CurrentRevision *Revision     `json:"current_revision,omitempty"`
	Err             *ListRowError `json:"error,omitempty"`
}

// ListRowError is a reportable row-level failure in a listing projection.
type ListRowError struct {
	DrawingID string `json:"drawing_id"`
	Message   string `json:"message"`
}
