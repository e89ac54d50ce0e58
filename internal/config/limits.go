package config

// Input size limits. These guard the store against pathological input;
// they are not business rules.
const (
	// MaxNodeNameLength is the maximum length of a node name
	MaxNodeNameLength = 255

	// MaxDescriptionLength is the maximum length of a node description
	MaxDescriptionLength = 2000

	// MaxNumberLength is the maximum length of a sheet number, e.g. "A-101"
	MaxNumberLength = 50

	// MaxTitleLength is the maximum length of a drawing title
	MaxTitleLength = 500

	// MaxVersionLabelLength is the maximum length of a revision label
	MaxVersionLabelLength = 50

	// MaxChangeNotesLength is the maximum length of revision change notes
	MaxChangeNotesLength = 5000

	// MaxArtifactBytes is the maximum size of an uploaded drawing file
	MaxArtifactBytes = 50 << 20 // 50MB

	// MaxLogFiles is the number of rotated server log files to keep
	MaxLogFiles = 10
)
