package engine

import (
	"time"

	"github.com/aegis-response/playbook/internal/graph"
	"github.com/aegis-response/playbook/internal/run"
	"github.com/aegis-response/playbook/internal/types"
)

// Role tags a message with its speaker.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a timestamped, role-tagged message for display to responders.
type Message struct {
	ID        types.ID  `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Callbacks is the engine's outbound surface. Implementations persist or
// display what the engine reports; the engine never mutates the graph itself.
// Callbacks are invoked while the engine holds its run lock, so
// implementations must not call back into the engine synchronously.
type Callbacks interface {
	// OnNodeStatusChange reports a node entering a new execution status.
	OnNodeStatusChange(nodeID string, status graph.NodeStatus)

	// OnContextUpdate pushes a fresh snapshot of the full run context.
	OnContextUpdate(snapshot *run.Context)

	// OnMessage delivers a responder-visible message.
	OnMessage(msg Message)

	// OnWaitForUser signals that free-text input must be collected and
	// later returned through ContinueFromUserInput.
	OnWaitForUser(nodeID string, prompt string)
}

// NopCallbacks is a Callbacks implementation that ignores everything.
type NopCallbacks struct{}

func (NopCallbacks) OnNodeStatusChange(string, graph.NodeStatus) {}
func (NopCallbacks) OnContextUpdate(*run.Context)                {}
func (NopCallbacks) OnMessage(Message)                           {}
func (NopCallbacks) OnWaitForUser(string, string)                {}
