package events

import (
	"context"

	"github.com/aegis-response/playbook/internal/engine"
	"github.com/aegis-response/playbook/internal/graph"
	"github.com/aegis-response/playbook/internal/run"
	"github.com/aegis-response/playbook/internal/types"
)

// Bridge adapts engine callbacks onto a Bus so consumers can observe a run
// through subscriptions instead of direct callbacks. The engine invokes
// callbacks under its own lock; Publish never blocks, so the bridge is safe
// to hand to an engine directly.
type Bridge struct {
	bus   Bus
	runID types.ID
}

// NewBridge creates a bridge that stamps every event with runID.
func NewBridge(bus Bus, runID types.ID) *Bridge {
	return &Bridge{bus: bus, runID: runID}
}

// RunID returns the identifier stamped on published events.
func (b *Bridge) RunID() types.ID {
	return b.runID
}

func (b *Bridge) OnNodeStatusChange(nodeID string, status graph.NodeStatus) {
	b.publish(Event{
		Type:    EventNodeStatus,
		NodeID:  nodeID,
		Payload: NodeStatusPayload{NodeID: nodeID, Status: status},
	})
}

func (b *Bridge) OnContextUpdate(snapshot *run.Context) {
	b.publish(Event{
		Type:    EventContextUpdated,
		Payload: ContextUpdatedPayload{Snapshot: snapshot},
	})

	switch snapshot.Status {
	case run.StatusCompleted:
		b.publish(Event{
			Type:    EventRunCompleted,
			Payload: RunFinishedPayload{Status: snapshot.Status},
		})
	case run.StatusError:
		b.publish(Event{
			Type:    EventRunFailed,
			Payload: RunFinishedPayload{Status: snapshot.Status, Error: snapshot.Error},
		})
	case run.StatusPaused:
		b.publish(Event{Type: EventRunPaused})
	case run.StatusIdle:
		b.publish(Event{Type: EventRunStopped})
	}
}

func (b *Bridge) OnMessage(msg engine.Message) {
	b.publish(Event{
		Type: EventMessage,
		Payload: MessagePayload{
			MessageID: msg.ID,
			Role:      string(msg.Role),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		},
	})
}

func (b *Bridge) OnWaitForUser(nodeID, prompt string) {
	b.publish(Event{
		Type:    EventAwaitingInput,
		NodeID:  nodeID,
		Payload: AwaitingInputPayload{NodeID: nodeID, Prompt: prompt},
	})
}

func (b *Bridge) publish(event Event) {
	event.RunID = b.runID
	// Publish fails only when the bus is already closed.
	_ = b.bus.Publish(context.Background(), event)
}

var _ engine.Callbacks = (*Bridge)(nil)
