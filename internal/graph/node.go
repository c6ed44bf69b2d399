package graph

// NodeType defines the type of a procedure node.
type NodeType string

const (
	NodeTypeStart           NodeType = "start"
	NodeTypeIf              NodeType = "if"
	NodeTypeUserInteraction NodeType = "user-interaction"
	NodeTypeToolCall        NodeType = "tool-call"
	NodeTypeDataQuery       NodeType = "data-query"
	NodeTypeDecision        NodeType = "decision"
	NodeTypeParallel        NodeType = "parallel"
	NodeTypeMerge           NodeType = "merge"
	NodeTypeEnd             NodeType = "end"
)

// KnownNodeTypes lists every node type the engine understands, in a stable order.
var KnownNodeTypes = []NodeType{
	NodeTypeStart,
	NodeTypeIf,
	NodeTypeUserInteraction,
	NodeTypeToolCall,
	NodeTypeDataQuery,
	NodeTypeDecision,
	NodeTypeParallel,
	NodeTypeMerge,
	NodeTypeEnd,
}

// IsKnown reports whether the node type is one of the closed set of types.
// Unknown types still execute (as generic pass-through nodes) but are flagged
// during validation.
func (t NodeType) IsKnown() bool {
	for _, known := range KnownNodeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// NodeStatus represents the execution status of a procedure node.
type NodeStatus string

const (
	NodeStatusIdle      NodeStatus = "idle"
	NodeStatusRunning   NodeStatus = "running"
	NodeStatusCompleted NodeStatus = "completed"
	NodeStatusError     NodeStatus = "error"
	NodeStatusWaiting   NodeStatus = "waiting"
)

// Node represents a single step in an emergency-response procedure graph.
//
// The graph is owned by the authoring side and is read-only during a run; the
// engine reports status changes through callbacks and never writes back into
// the node. The Status field carries the editor's last known display status.
type Node struct {
	// Core identity fields
	ID          string     `json:"id" yaml:"id"`
	Type        NodeType   `json:"type" yaml:"type"`
	Label       string     `json:"label" yaml:"label"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Status      NodeStatus `json:"status,omitempty" yaml:"status,omitempty"`

	// If node fields
	Condition *ConditionSpec `json:"condition,omitempty" yaml:"-"`

	// User-interaction node fields
	Interaction *InteractionSpec `json:"interaction,omitempty" yaml:"-"`

	// Tool-call node fields
	Tool *ToolSpec `json:"tool,omitempty" yaml:"-"`

	// Data-query node fields
	Query *QuerySpec `json:"query,omitempty" yaml:"-"`

	// Decision node fields
	Decision *DecisionSpec `json:"decision,omitempty" yaml:"-"`

	// End node fields
	End *EndSpec `json:"end,omitempty" yaml:"-"`

	// Additional metadata
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
