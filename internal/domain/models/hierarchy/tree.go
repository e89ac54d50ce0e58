package hierarchy

// PathSeparator joins node names into a display label, e.g.
// "Building A > Floor 2 > Room 201".
const PathSeparator = " > "

// FlatNode is one row of a depth-first flattening of a project's node
// forest - the shape consumed by hierarchical selectors. A parent is
// immediately followed by all its descendants before the next sibling.
type FlatNode struct {
	Node         Node   `json:"node"`
	Depth        int    `json:"depth"`
	DisplayLabel string `json:"display_label"`
}
