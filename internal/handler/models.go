package handler

// revisionUpload is the wire shape for uploading a new revision. The
// artifact travels base64-encoded in the JSON body; the handler stores the
// bytes in the blob store and passes the resulting reference to the ledger.
type revisionUpload struct {
	VersionLabel string `json:"version_label"`
	FileName     string `json:"file_name"`
	ContentType  string `json:"content_type"`
	DataBase64   string `json:"data_base64"`
	ChangeNotes  string `json:"change_notes,omitempty"`
}

// createDrawingRequest is the wire shape for creating a drawing together
// with its first revision.
type createDrawingRequest struct {
	Number        string          `json:"number"`
	Title         string          `json:"title"`
	Discipline    string          `json:"discipline"`
	Status        string          `json:"status"`
	SetID         *string         `json:"set_id,omitempty"`
	FirstRevision *revisionUpload `json:"first_revision"`
}
