// Package graph defines the emergency-response procedure graph: typed nodes,
// directed connections, YAML loading, and structural validation. The graph is
// supplied once to the engine and is read-only for the duration of a run.
package graph

import (
	"fmt"
)

// Graph represents a complete response procedure as a directed graph of typed
// nodes and connections.
type Graph struct {
	// Name is a human-readable name for the procedure.
	Name string `json:"name" yaml:"name"`

	// Description provides additional context about the procedure.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Nodes contains all nodes in declaration order.
	Nodes []*Node `json:"nodes" yaml:"nodes"`

	// Connections contains all directed edges in declaration order.
	Connections []Connection `json:"connections" yaml:"connections"`

	// index maps node IDs to nodes for O(1) lookup.
	index map[string]*Node
}

// New builds a Graph from nodes and connections and indexes the nodes by ID.
func New(name string, nodes []*Node, connections []Connection) *Graph {
	g := &Graph{
		Name:        name,
		Nodes:       nodes,
		Connections: connections,
	}
	g.reindex()
	return g
}

// reindex rebuilds the node lookup index. Must be called after Nodes changes.
func (g *Graph) reindex() {
	g.index = make(map[string]*Node, len(g.Nodes))
	for _, node := range g.Nodes {
		if node != nil {
			g.index[node.ID] = node
		}
	}
}

// Node retrieves a node by its ID. Returns nil if the node is not found.
func (g *Graph) Node(id string) *Node {
	if g.index == nil {
		g.reindex()
	}
	return g.index[id]
}

// StartNode returns the unique "start" node of the graph. It returns an error
// when no start node exists; a run cannot begin without one.
func (g *Graph) StartNode() (*Node, error) {
	for _, node := range g.Nodes {
		if node.Type == NodeTypeStart {
			return node, nil
		}
	}
	return nil, fmt.Errorf("procedure %q has no start node", g.Name)
}

// ConnectionsFrom returns all connections leaving the given node, preserving
// declaration order. Declaration order matters: "if" nodes fall back to the
// first outgoing connection when no handle matches the evaluated branch.
func (g *Graph) ConnectionsFrom(nodeID string) []Connection {
	var out []Connection
	for _, conn := range g.Connections {
		if conn.Source == nodeID {
			out = append(out, conn)
		}
	}
	return out
}

// ConnectionsTo returns all connections arriving at the given node, preserving
// declaration order.
func (g *Graph) ConnectionsTo(nodeID string) []Connection {
	var out []Connection
	for _, conn := range g.Connections {
		if conn.Target == nodeID {
			out = append(out, conn)
		}
	}
	return out
}
