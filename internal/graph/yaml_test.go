package graph

import (
	"errors"
	"testing"
)

const validProcedureYAML = `
name: Wildfire response
description: Initial triage for wildfire reports
nodes:
  - id: start
    type: start
    label: Report received
  - id: ask-location
    type: user-interaction
    label: Ask for location
    config:
      instruction: Ask the caller where the fire is located
  - id: check-fire
    type: if
    label: Confirmed fire?
    config:
      condition: contains fire
  - id: dispatch
    type: tool-call
    label: Dispatch units
    config:
      name: dispatch-units
      parameters:
        priority: high
  - id: lookup
    type: data-query
    label: Find hydrants
    config:
      collection: hydrants
      query: nearest
  - id: done
    type: end
    label: Done
    config:
      message: Procedure complete
connections:
  - source: start
    target: ask-location
  - source: ask-location
    target: check-fire
  - id: branch-true
    source: check-fire
    target: dispatch
    handle: "true"
  - source: check-fire
    target: done
    handle: "false"
  - source: dispatch
    target: lookup
  - source: lookup
    target: done
`

func TestParse_ValidProcedure(t *testing.T) {
	g, err := Parse([]byte(validProcedureYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if g.Name != "Wildfire response" {
		t.Errorf("Name = %q", g.Name)
	}
	if len(g.Nodes) != 6 {
		t.Fatalf("parsed %d nodes, want 6", len(g.Nodes))
	}
	if len(g.Connections) != 6 {
		t.Fatalf("parsed %d connections, want 6", len(g.Connections))
	}

	ask := g.Node("ask-location")
	if ask == nil || ask.Interaction == nil || ask.Interaction.Instruction == "" {
		t.Errorf("user-interaction payload not decoded: %+v", ask)
	}

	check := g.Node("check-fire")
	if check == nil || check.Condition == nil || check.Condition.Condition != "contains fire" {
		t.Errorf("if payload not decoded: %+v", check)
	}

	dispatch := g.Node("dispatch")
	if dispatch == nil || dispatch.Tool == nil || dispatch.Tool.Name != "dispatch-units" {
		t.Errorf("tool payload not decoded: %+v", dispatch)
	}
	if dispatch.Tool.Parameters["priority"] != "high" {
		t.Errorf("tool parameters not decoded: %+v", dispatch.Tool.Parameters)
	}

	lookup := g.Node("lookup")
	if lookup == nil || lookup.Query == nil || lookup.Query.Collection != "hydrants" {
		t.Errorf("query payload not decoded: %+v", lookup)
	}

	// Explicit connection IDs kept, missing ones generated.
	if g.Connections[2].ID != "branch-true" {
		t.Errorf("explicit connection ID lost: %q", g.Connections[2].ID)
	}
	if g.Connections[0].ID == "" {
		t.Error("generated connection ID is empty")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", ":\n  - ::"},
		{"missing name", "nodes:\n  - id: a\n    type: start\n"},
		{"no nodes", "name: empty\n"},
		{"node without id", "name: p\nnodes:\n  - type: start\n"},
		{"connection without target", "name: p\nnodes:\n  - id: a\n    type: start\nconnections:\n  - source: a\n"},
		{"interaction missing instruction", "name: p\nnodes:\n  - id: a\n    type: user-interaction\n    config:\n      instruction: \"\"\n"},
		{"tool missing name", "name: p\nnodes:\n  - id: a\n    type: tool-call\n    config:\n      parameters: {}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("error is %T, want *ParseError", err)
			}
		})
	}
}

func TestParse_NodeErrorCarriesPosition(t *testing.T) {
	doc := "name: p\nnodes:\n  - id: a\n    type: start\n  - id: b\n    type: data-query\n    config:\n      query: nope\n"
	_, err := Parse([]byte(doc))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error is %T, want *ParseError", err)
	}
	if parseErr.NodeID != "b" {
		t.Errorf("NodeID = %q, want b", parseErr.NodeID)
	}
	if parseErr.Line == 0 {
		t.Error("ParseError should carry a source line")
	}
}
