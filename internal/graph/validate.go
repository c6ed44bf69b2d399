package graph

import (
	"fmt"
)

// Validator performs structural validation of procedure graphs before a run.
// It is stateless and safe for concurrent use.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Issue describes a single validation finding.
type Issue struct {
	// NodeID is the node the issue relates to, if any.
	NodeID string
	// Message is the human-readable description.
	Message string
	// Fatal marks issues that prevent a run from starting. Non-fatal issues
	// (dangling connections, unknown node types) are legal no-ops at run time
	// and reported as warnings.
	Fatal bool
}

// Result aggregates validation findings for one graph.
type Result struct {
	Errors   []Issue
	Warnings []Issue
}

// Valid reports whether the graph can be executed.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Validate checks the structural invariants of a procedure graph:
//   - the graph has at least one node
//   - node IDs are unique
//   - exactly one start node exists
//   - node types belong to the closed type set (warning otherwise)
//   - connection endpoints reference known nodes (warning otherwise)
func (v *Validator) Validate(g *Graph) *Result {
	result := &Result{}

	if g == nil || len(g.Nodes) == 0 {
		result.Errors = append(result.Errors, Issue{
			Message: "procedure must contain at least one node",
			Fatal:   true,
		})
		return result
	}

	seen := make(map[string]bool, len(g.Nodes))
	startCount := 0
	for _, node := range g.Nodes {
		if seen[node.ID] {
			result.Errors = append(result.Errors, Issue{
				NodeID:  node.ID,
				Message: fmt.Sprintf("duplicate node id %q", node.ID),
				Fatal:   true,
			})
		}
		seen[node.ID] = true

		if node.Type == NodeTypeStart {
			startCount++
		}
		if !node.Type.IsKnown() {
			result.Warnings = append(result.Warnings, Issue{
				NodeID:  node.ID,
				Message: fmt.Sprintf("unknown node type %q; node will execute as a pass-through step", node.Type),
			})
		}
	}

	switch {
	case startCount == 0:
		result.Errors = append(result.Errors, Issue{
			Message: "procedure has no start node",
			Fatal:   true,
		})
	case startCount > 1:
		result.Errors = append(result.Errors, Issue{
			Message: fmt.Sprintf("procedure has %d start nodes, expected exactly one", startCount),
			Fatal:   true,
		})
	}

	for _, conn := range g.Connections {
		if !seen[conn.Source] {
			result.Warnings = append(result.Warnings, Issue{
				Message: fmt.Sprintf("connection %s references unknown source node %q", conn.ID, conn.Source),
			})
		}
		if !seen[conn.Target] {
			result.Warnings = append(result.Warnings, Issue{
				Message: fmt.Sprintf("connection %s references unknown target node %q; it will be skipped at run time", conn.ID, conn.Target),
			})
		}
	}

	return result
}
