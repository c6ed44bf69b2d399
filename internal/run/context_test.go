package run

import (
	"testing"

	"github.com/aegis-response/playbook/internal/graph"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext()
	if ctx.Status != StatusRunning {
		t.Errorf("Status = %s, want running", ctx.Status)
	}
	if ctx.StartedAt.IsZero() {
		t.Error("StartedAt not set")
	}
	if len(ctx.History) != 0 || len(ctx.Knowledge) != 0 {
		t.Error("fresh context must have empty history and knowledge")
	}
}

func TestContext_NodeValue(t *testing.T) {
	tests := []struct {
		name      string
		variables map[string]any
		want      any
		wantOK    bool
	}{
		{
			name:      "response wins over decision and result",
			variables: map[string]any{"n_response": "yes", "n_decision": "d", "n_result": "r"},
			want:      "yes",
			wantOK:    true,
		},
		{
			name:      "decision wins over result",
			variables: map[string]any{"n_decision": "d", "n_result": "r"},
			want:      "d",
			wantOK:    true,
		},
		{
			name:      "result alone",
			variables: map[string]any{"n_result": true},
			want:      true,
			wantOK:    true,
		},
		{
			name:      "nothing contributed",
			variables: map[string]any{"other_result": "x"},
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext()
			for k, v := range tt.variables {
				ctx.SetVariable(k, v)
			}
			got, ok := ctx.NodeValue("n")
			if ok != tt.wantOK {
				t.Fatalf("NodeValue() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("NodeValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContext_AppendOnly(t *testing.T) {
	ctx := NewContext()

	ctx.AddHistory("a", graph.NodeTypeStart, "Procedure started", HistorySuccess, "")
	ctx.AddHistory("b", graph.NodeTypeToolCall, "Called tool", HistoryError, "boom")
	ctx.AddKnowledge("b", KnowledgeToolResult, "content", "summary")

	if len(ctx.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(ctx.History))
	}
	if ctx.History[0].NodeID != "a" || ctx.History[1].NodeID != "b" {
		t.Error("history order not preserved")
	}
	if ctx.History[1].Status != HistoryError || ctx.History[1].Output != "boom" {
		t.Errorf("history entry = %+v", ctx.History[1])
	}
	if ctx.History[0].ID == ctx.History[1].ID {
		t.Error("history entry IDs must be unique")
	}
	if len(ctx.Knowledge) != 1 || ctx.Knowledge[0].Type != KnowledgeToolResult {
		t.Errorf("knowledge = %+v", ctx.Knowledge)
	}
}

func TestContext_RecentKnowledgeSummaries(t *testing.T) {
	ctx := NewContext()
	for _, s := range []string{"one", "two", "three", "four", "five", "six", "seven"} {
		ctx.AddKnowledge("n", KnowledgeDecision, s, s)
	}

	got := ctx.RecentKnowledgeSummaries(5)
	want := []string{"three", "four", "five", "six", "seven"}
	if len(got) != len(want) {
		t.Fatalf("got %d summaries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("summary[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := ctx.RecentKnowledgeSummaries(0); got != nil {
		t.Errorf("RecentKnowledgeSummaries(0) = %v, want nil", got)
	}
	if got := NewContext().RecentKnowledgeSummaries(5); got != nil {
		t.Errorf("empty context summaries = %v, want nil", got)
	}
}

func TestContext_Snapshot(t *testing.T) {
	ctx := NewContext()
	ctx.SetVariable("a_result", 1)
	ctx.AddHistory("a", graph.NodeTypeStart, "started", HistorySuccess, "")

	snapshot := ctx.Snapshot()

	// Mutating the original must not be visible through the snapshot.
	ctx.SetVariable("a_result", 2)
	ctx.AddHistory("b", graph.NodeTypeEnd, "finished", HistorySuccess, "")
	ctx.SetError("late failure")

	if snapshot.Variables["a_result"] != 1 {
		t.Errorf("snapshot variable mutated: %v", snapshot.Variables["a_result"])
	}
	if len(snapshot.History) != 1 {
		t.Errorf("snapshot history length = %d, want 1", len(snapshot.History))
	}
	if snapshot.Status != StatusRunning || snapshot.Error != "" {
		t.Errorf("snapshot status mutated: %s %q", snapshot.Status, snapshot.Error)
	}
}

func TestContext_SetError(t *testing.T) {
	ctx := NewContext()
	ctx.SetError("node exploded")
	if ctx.Status != StatusError || ctx.Error != "node exploded" {
		t.Errorf("SetError: status=%s error=%q", ctx.Status, ctx.Error)
	}
	if !ctx.Status.IsTerminal() {
		t.Error("error status should be terminal")
	}
}
