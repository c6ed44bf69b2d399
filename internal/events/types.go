package events

import (
	"time"

	"github.com/aegis-response/playbook/internal/graph"
	"github.com/aegis-response/playbook/internal/run"
	"github.com/aegis-response/playbook/internal/types"
)

// EventType identifies the category of a procedure run event.
type EventType string

// Run lifecycle events.
const (
	EventRunStarted   EventType = "run.started"
	EventRunCompleted EventType = "run.completed"
	EventRunFailed    EventType = "run.failed"
	EventRunPaused    EventType = "run.paused"
	EventRunStopped   EventType = "run.stopped"
)

// Node execution events.
const (
	EventNodeStatus    EventType = "node.status"
	EventAwaitingInput EventType = "node.awaiting_input"
)

// Conversation and state events.
const (
	EventMessage        EventType = "message"
	EventContextUpdated EventType = "context.updated"
)

func (t EventType) String() string {
	return string(t)
}

// Event is a single observable occurrence within a procedure run. Events are
// JSON-serializable so consumers can stream or persist them.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// RunID associates the event with one run of a procedure.
	RunID types.ID `json:"run_id,omitempty"`

	// NodeID identifies the node the event concerns, when there is one.
	NodeID string `json:"node_id,omitempty"`

	// Payload carries event-specific typed data.
	Payload any `json:"payload,omitempty"`
}

// Filter selects events in a subscription. All set fields must match; empty
// fields are wildcards.
type Filter struct {
	Types  []EventType `json:"types,omitempty"`
	RunID  types.ID    `json:"run_id,omitempty"`
	NodeID string      `json:"node_id,omitempty"`
}

// Matches reports whether the event satisfies every set criterion.
func (f *Filter) Matches(event Event) bool {
	if len(f.Types) > 0 {
		matched := false
		for _, t := range f.Types {
			if event.Type == t {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if !f.RunID.IsZero() && event.RunID != f.RunID {
		return false
	}
	if f.NodeID != "" && event.NodeID != f.NodeID {
		return false
	}
	return true
}

// NodeStatusPayload carries data for node.status events.
type NodeStatusPayload struct {
	NodeID string           `json:"node_id"`
	Status graph.NodeStatus `json:"status"`
}

// AwaitingInputPayload carries data for node.awaiting_input events.
type AwaitingInputPayload struct {
	NodeID string `json:"node_id"`
	Prompt string `json:"prompt"`
}

// MessagePayload carries data for message events.
type MessagePayload struct {
	MessageID types.ID  `json:"message_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ContextUpdatedPayload carries a snapshot of the run context.
type ContextUpdatedPayload struct {
	Snapshot *run.Context `json:"snapshot"`
}

// RunFinishedPayload carries data for run.completed and run.failed events.
type RunFinishedPayload struct {
	Status run.Status `json:"status"`
	Error  string     `json:"error,omitempty"`
}
