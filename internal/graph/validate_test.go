package graph

import (
	"testing"
)

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name         string
		graph        *Graph
		wantValid    bool
		wantWarnings int
	}{
		{
			name:      "valid graph",
			graph:     buildTestGraph(),
			wantValid: true,
		},
		{
			name:      "nil graph",
			graph:     nil,
			wantValid: false,
		},
		{
			name:      "empty graph",
			graph:     New("empty", nil, nil),
			wantValid: false,
		},
		{
			name: "no start node",
			graph: New("p", []*Node{
				{ID: "a", Type: NodeTypeEnd},
			}, nil),
			wantValid: false,
		},
		{
			name: "two start nodes",
			graph: New("p", []*Node{
				{ID: "a", Type: NodeTypeStart},
				{ID: "b", Type: NodeTypeStart},
			}, nil),
			wantValid: false,
		},
		{
			name: "duplicate node ids",
			graph: New("p", []*Node{
				{ID: "a", Type: NodeTypeStart},
				{ID: "a", Type: NodeTypeEnd},
			}, nil),
			wantValid: false,
		},
		{
			name: "unknown node type warns",
			graph: New("p", []*Node{
				{ID: "a", Type: NodeTypeStart},
				{ID: "b", Type: NodeType("teleport")},
			}, nil),
			wantValid:    true,
			wantWarnings: 1,
		},
		{
			name: "dangling connection warns",
			graph: New("p", []*Node{
				{ID: "a", Type: NodeTypeStart},
			}, []Connection{
				{ID: "c1", Source: "a", Target: "ghost"},
			}),
			wantValid:    true,
			wantWarnings: 1,
		},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.graph)
			if result.Valid() != tt.wantValid {
				t.Errorf("Valid() = %v, want %v (errors: %+v)", result.Valid(), tt.wantValid, result.Errors)
			}
			if tt.wantWarnings > 0 && len(result.Warnings) != tt.wantWarnings {
				t.Errorf("got %d warnings, want %d: %+v", len(result.Warnings), tt.wantWarnings, result.Warnings)
			}
		})
	}
}
