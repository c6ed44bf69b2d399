package graph

// Branch handle values used by "if" nodes to select a successor connection.
const (
	HandleTrue  = "true"
	HandleFalse = "false"
)

// Connection represents a directed edge between two procedure nodes.
type Connection struct {
	// ID is the unique identifier of the connection.
	ID string `json:"id" yaml:"id"`
	// Source is the node ID the connection leaves from.
	Source string `json:"source" yaml:"source"`
	// Target is the node ID the connection points at.
	Target string `json:"target" yaml:"target"`
	// Handle optionally tags the connection for branch selection.
	// "if" nodes route on "true"/"false"; other values are free labels.
	Handle string `json:"handle,omitempty" yaml:"handle,omitempty"`
}
