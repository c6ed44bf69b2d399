package graph

import (
	"testing"
)

func buildTestGraph() *Graph {
	nodes := []*Node{
		{ID: "start", Type: NodeTypeStart, Label: "Start"},
		{ID: "check", Type: NodeTypeIf, Label: "Fire nearby?", Condition: &ConditionSpec{Condition: "contains fire"}},
		{ID: "evacuate", Type: NodeTypeEnd, Label: "Evacuate"},
		{ID: "stand-down", Type: NodeTypeEnd, Label: "Stand down"},
	}
	connections := []Connection{
		{ID: "c1", Source: "start", Target: "check"},
		{ID: "c2", Source: "check", Target: "evacuate", Handle: HandleTrue},
		{ID: "c3", Source: "check", Target: "stand-down", Handle: HandleFalse},
	}
	return New("fire response", nodes, connections)
}

func TestGraph_Node(t *testing.T) {
	g := buildTestGraph()

	if node := g.Node("check"); node == nil || node.Type != NodeTypeIf {
		t.Errorf("Node(check) = %+v, want if node", node)
	}
	if node := g.Node("missing"); node != nil {
		t.Errorf("Node(missing) = %+v, want nil", node)
	}
}

func TestGraph_StartNode(t *testing.T) {
	g := buildTestGraph()
	start, err := g.StartNode()
	if err != nil {
		t.Fatalf("StartNode() error = %v", err)
	}
	if start.ID != "start" {
		t.Errorf("StartNode() = %s, want start", start.ID)
	}

	noStart := New("broken", []*Node{{ID: "lonely", Type: NodeTypeEnd}}, nil)
	if _, err := noStart.StartNode(); err == nil {
		t.Error("StartNode() on graph without start node should fail")
	}
}

func TestGraph_ConnectionsFrom(t *testing.T) {
	g := buildTestGraph()

	conns := g.ConnectionsFrom("check")
	if len(conns) != 2 {
		t.Fatalf("ConnectionsFrom(check) returned %d connections, want 2", len(conns))
	}
	// Declaration order must be preserved: the first connection is the
	// fallback branch for "if" nodes when no handle matches.
	if conns[0].ID != "c2" || conns[1].ID != "c3" {
		t.Errorf("ConnectionsFrom(check) order = %s, %s; want c2, c3", conns[0].ID, conns[1].ID)
	}

	if conns := g.ConnectionsFrom("evacuate"); len(conns) != 0 {
		t.Errorf("ConnectionsFrom(evacuate) = %d connections, want 0", len(conns))
	}
}

func TestGraph_ConnectionsTo(t *testing.T) {
	g := buildTestGraph()
	conns := g.ConnectionsTo("check")
	if len(conns) != 1 || conns[0].Source != "start" {
		t.Errorf("ConnectionsTo(check) = %+v, want single connection from start", conns)
	}
}

func TestNodeType_IsKnown(t *testing.T) {
	for _, typ := range KnownNodeTypes {
		if !typ.IsKnown() {
			t.Errorf("%s should be a known type", typ)
		}
	}
	if NodeType("teleport").IsKnown() {
		t.Error("teleport should not be a known type")
	}
}
