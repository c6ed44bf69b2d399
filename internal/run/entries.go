package run

import (
	"time"

	"github.com/aegis-response/playbook/internal/graph"
	"github.com/aegis-response/playbook/internal/types"
)

// newEntryID mints IDs for history and knowledge entries.
var newEntryID = types.NewID

// KnowledgeType classifies the origin of a knowledge entry.
type KnowledgeType string

const (
	KnowledgeToolResult  KnowledgeType = "tool-result"
	KnowledgeQueryResult KnowledgeType = "query-result"
	KnowledgeDecision    KnowledgeType = "decision"
	KnowledgeUserInput   KnowledgeType = "user-input"
)

// KnowledgeEntry is a timestamped, summarized fact produced by a node and
// consumed later by prompt construction or downstream nodes.
type KnowledgeEntry struct {
	ID        types.ID      `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	NodeID    string        `json:"node_id"`
	Type      KnowledgeType `json:"type"`
	Content   string        `json:"content"`
	Summary   string        `json:"summary"`
}

// HistoryStatus records how a node execution concluded.
type HistoryStatus string

const (
	HistorySuccess HistoryStatus = "success"
	HistoryError   HistoryStatus = "error"
	HistorySkipped HistoryStatus = "skipped"
)

// HistoryEntry is an audit record of one node's execution outcome.
type HistoryEntry struct {
	ID        types.ID       `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	NodeID    string         `json:"node_id"`
	NodeType  graph.NodeType `json:"node_type"`
	Action    string         `json:"action"`
	Status    HistoryStatus  `json:"status"`
	Output    string         `json:"output,omitempty"`
}
