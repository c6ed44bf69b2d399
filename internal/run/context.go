// Package run holds the mutable state of one procedure execution: variables,
// the append-only knowledge base, the execution history, and the run status.
//
// A Context is exclusively owned by one engine instance for the duration of a
// run, and the engine serializes all access; the Context itself carries no
// locking. Collaborators only ever observe deep-copied snapshots.
package run

import (
	"time"

	"github.com/aegis-response/playbook/internal/graph"
)

// Status represents the overall status of a procedure run.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// IsTerminal returns true if the status represents a finished run.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Variable name suffixes. Nodes publish their outputs under
// "{nodeID}<suffix>" so downstream nodes can read upstream results without
// explicit data wiring.
const (
	SuffixResult   = "_result"
	SuffixResponse = "_response"
	SuffixDecision = "_decision"
)

// ResultKey returns the variable name a node stores its result under.
func ResultKey(nodeID string) string { return nodeID + SuffixResult }

// ResponseKey returns the variable name a node stores a user response under.
func ResponseKey(nodeID string) string { return nodeID + SuffixResponse }

// DecisionKey returns the variable name a node stores a decision under.
func DecisionKey(nodeID string) string { return nodeID + SuffixDecision }

// Context is the run-scoped store for one procedure execution.
type Context struct {
	// Variables holds node outputs and run metadata, keyed by convention.
	Variables map[string]any `json:"variables"`

	// Knowledge is the append-only ordered knowledge base for the run.
	Knowledge []KnowledgeEntry `json:"knowledge_base"`

	// History is the append-only ordered audit trail for the run.
	History []HistoryEntry `json:"history"`

	// Status is the overall run status.
	Status Status `json:"status"`

	// StartedAt is the timestamp the run began.
	StartedAt time.Time `json:"started_at"`

	// Error holds the failure message when Status is StatusError.
	Error string `json:"error,omitempty"`
}

// NewContext creates a fresh Context for a new run in running status.
// A fresh context is the only thing that resets history and knowledge.
func NewContext() *Context {
	return &Context{
		Variables: make(map[string]any),
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}
}

// SetVariable stores a variable value.
func (c *Context) SetVariable(name string, value any) {
	c.Variables[name] = value
}

// Variable returns a variable value and whether it is defined.
func (c *Context) Variable(name string) (any, bool) {
	v, ok := c.Variables[name]
	return v, ok
}

// NodeValue resolves the value a node contributed to the run, checking the
// response, decision, and result variables in that order. The first defined
// variable wins.
func (c *Context) NodeValue(nodeID string) (any, bool) {
	for _, key := range []string{ResponseKey(nodeID), DecisionKey(nodeID), ResultKey(nodeID)} {
		if v, ok := c.Variables[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// SetError marks the run as failed with the given message.
func (c *Context) SetError(msg string) {
	c.Status = StatusError
	c.Error = msg
}

// Snapshot returns a deep copy of the context for handing to collaborators.
// The copy never aliases run state, so callback consumers cannot observe or
// cause mid-run mutation.
func (c *Context) Snapshot() *Context {
	snapshot := &Context{
		Variables: make(map[string]any, len(c.Variables)),
		Knowledge: make([]KnowledgeEntry, len(c.Knowledge)),
		History:   make([]HistoryEntry, len(c.History)),
		Status:    c.Status,
		StartedAt: c.StartedAt,
		Error:     c.Error,
	}
	for k, v := range c.Variables {
		snapshot.Variables[k] = v
	}
	copy(snapshot.Knowledge, c.Knowledge)
	copy(snapshot.History, c.History)
	return snapshot
}

// AddHistory appends an audit record for one node's execution outcome.
// History is append-only for the duration of a run.
func (c *Context) AddHistory(nodeID string, nodeType graph.NodeType, action string, status HistoryStatus, output string) HistoryEntry {
	entry := HistoryEntry{
		ID:        newEntryID(),
		Timestamp: time.Now(),
		NodeID:    nodeID,
		NodeType:  nodeType,
		Action:    action,
		Status:    status,
		Output:    output,
	}
	c.History = append(c.History, entry)
	return entry
}

// AddKnowledge appends a fact produced by a node to the knowledge base.
// The knowledge base is append-only for the duration of a run.
func (c *Context) AddKnowledge(nodeID string, kind KnowledgeType, content, summary string) KnowledgeEntry {
	entry := KnowledgeEntry{
		ID:        newEntryID(),
		Timestamp: time.Now(),
		NodeID:    nodeID,
		Type:      kind,
		Content:   content,
		Summary:   summary,
	}
	c.Knowledge = append(c.Knowledge, entry)
	return entry
}

// RecentKnowledgeSummaries returns the summaries of the most recent n
// knowledge entries, oldest first. Used to build compact prompt context.
func (c *Context) RecentKnowledgeSummaries(n int) []string {
	if n <= 0 || len(c.Knowledge) == 0 {
		return nil
	}
	start := len(c.Knowledge) - n
	if start < 0 {
		start = 0
	}
	summaries := make([]string, 0, len(c.Knowledge)-start)
	for _, entry := range c.Knowledge[start:] {
		summaries = append(summaries, entry.Summary)
	}
	return summaries
}
