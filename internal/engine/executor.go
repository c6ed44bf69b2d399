package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/aegis-response/playbook/internal/condition"
	"github.com/aegis-response/playbook/internal/graph"
	"github.com/aegis-response/playbook/internal/prompt"
	"github.com/aegis-response/playbook/internal/run"
)

// outcome describes how one node's behavior concluded.
type outcome struct {
	// waiting suspends the run at this node until ContinueFromUserInput.
	waiting bool
	// end finishes the run and uniquely skips successor scheduling.
	end bool
	// endMessage is the terminal message an end node emits.
	endMessage string
	// branch carries the evaluated boolean of an "if" node for successor
	// selection.
	branch *bool
}

// executeNodeLocked runs one node to its conclusion. Unknown IDs are a
// no-op. All failures inside node behavior resolve here, at the node
// boundary: the node and context are marked, the run halts, and nothing
// escapes to the scheduler.
func (e *Engine) executeNodeLocked(nodeID string) {
	node := e.graph.Node(nodeID)
	if node == nil {
		e.logger.Debug("skipping unknown node", "node_id", nodeID)
		return
	}
	if e.rctx == nil {
		return
	}

	span := e.nodeSpan(node)
	if span != nil {
		defer span.End()
	}

	e.setNodeStatusLocked(node, graph.NodeStatusRunning)
	e.emitMessageLocked(RoleSystem, fmt.Sprintf("Executing step: %s", nodeLabel(node)))

	res, err := e.performLocked(node)
	if err != nil {
		if span != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}
		e.logger.Error("node execution failed",
			"node_id", node.ID,
			"node_type", node.Type,
			"error", err,
		)
		e.rctx.AddHistory(node.ID, node.Type, "Step failed", run.HistoryError, err.Error())
		e.setNodeStatusLocked(node, graph.NodeStatusError)
		e.rctx.SetError(err.Error())
		e.emitMessageLocked(RoleSystem, fmt.Sprintf("Step %q failed: %v", nodeLabel(node), err))
		e.emitContextUpdateLocked()
		return
	}

	if span != nil {
		span.SetStatus(codes.Ok, "node executed")
	}

	switch {
	case res.waiting:
		e.setNodeStatusLocked(node, graph.NodeStatusWaiting)
		e.emitContextUpdateLocked()

	case res.end:
		e.setNodeStatusLocked(node, graph.NodeStatusCompleted)
		e.emitMessageLocked(RoleSystem, res.endMessage)
		e.emitContextUpdateLocked()
		// The run finishes when the last branch goes quiet, not when the
		// first end node fires; sibling branches may still be scheduled.
		e.completeIfQuiescentLocked()

	default:
		e.setNodeStatusLocked(node, graph.NodeStatusCompleted)
		e.emitContextUpdateLocked()
		e.scheduleSuccessorsLocked(node, res.branch)
	}
}

// performLocked dispatches to the node type's behavior. The closed type set
// is matched exhaustively; unrecognized types execute as generic pass-through
// steps. A panic inside a behavior is caught here and converted to a node
// execution error.
func (e *Engine) performLocked(node *graph.Node) (res outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{
				Code:    ErrNodeExecution,
				Message: fmt.Sprintf("panic in node behavior: %v", r),
				NodeID:  node.ID,
			}
		}
	}()

	switch node.Type {
	case graph.NodeTypeStart:
		return e.performStart(node), nil
	case graph.NodeTypeUserInteraction:
		return e.performUserInteraction(node), nil
	case graph.NodeTypeToolCall:
		return e.performToolCall(node), nil
	case graph.NodeTypeIf:
		return e.performIf(node), nil
	case graph.NodeTypeDecision:
		return e.performDecision(node), nil
	case graph.NodeTypeDataQuery:
		return e.performDataQuery(node), nil
	case graph.NodeTypeEnd:
		return e.performEnd(node), nil
	case graph.NodeTypeParallel, graph.NodeTypeMerge:
		// Fan-out and fan-in both happen through connections; the nodes
		// themselves are pass-through steps. A merge node fires once per
		// arriving branch with no join barrier.
		return e.performDefault(node), nil
	default:
		return e.performDefault(node), nil
	}
}

// performStart stamps the run start timestamp into variables.
func (e *Engine) performStart(node *graph.Node) outcome {
	e.rctx.SetVariable(run.ResultKey(node.ID), e.rctx.StartedAt.Format(time.RFC3339))
	e.rctx.AddHistory(node.ID, node.Type, "Procedure started", run.HistorySuccess, "")
	return outcome{}
}

// performUserInteraction asks the question generator for a responder-facing
// question and suspends the run at this node. This is the engine's only true
// suspension point. Generator failure substitutes the fixed default question
// and never fails the run.
func (e *Engine) performUserInteraction(node *graph.Node) outcome {
	instruction := nodeLabel(node)
	if node.Interaction != nil && node.Interaction.Instruction != "" {
		instruction = node.Interaction.Instruction
	}

	qctx, cancel := context.WithTimeout(context.Background(), e.questionTimeout)
	defer cancel()

	question, err := e.questions.Question(qctx, prompt.Request{
		Instruction:        instruction,
		Variables:          e.rctx.Snapshot().Variables,
		KnowledgeSummaries: e.rctx.RecentKnowledgeSummaries(5),
	})
	if err != nil {
		e.logger.Warn("question generation failed, using default question",
			"node_id", node.ID,
			"error", err,
		)
		question = prompt.DefaultQuestion
	}

	e.rctx.AddHistory(node.ID, node.Type, "Requested responder input", run.HistorySuccess, question)
	e.emitMessageLocked(RoleAssistant, question)
	e.callbacks.OnWaitForUser(node.ID, question)
	e.waiting[node.ID] = question

	return outcome{waiting: true}
}

// performToolCall records a synthesized description of the invoked tool.
// The real invocation is a collaborator concern outside the engine.
func (e *Engine) performToolCall(node *graph.Node) outcome {
	name := nodeLabel(node)
	var params map[string]any
	if node.Tool != nil {
		name = node.Tool.Name
		params = node.Tool.Parameters
	}

	paramsText := "{}"
	if len(params) > 0 {
		if data, err := json.Marshal(params); err == nil {
			paramsText = string(data)
		}
	}

	content := fmt.Sprintf("Invoked tool %q with parameters %s", name, paramsText)
	e.rctx.AddKnowledge(node.ID, run.KnowledgeToolResult, content,
		fmt.Sprintf("Tool %q invoked at step %q", name, nodeLabel(node)))
	e.rctx.SetVariable(run.ResultKey(node.ID), content)
	e.rctx.AddHistory(node.ID, node.Type, fmt.Sprintf("Invoked tool %q", name), run.HistorySuccess, content)

	return outcome{}
}

// performIf resolves the branch decision. The upstream input is the value
// contributed by the source of the first connection targeting this node.
func (e *Engine) performIf(node *graph.Node) outcome {
	var value any
	if inbound := e.graph.ConnectionsTo(node.ID); len(inbound) > 0 {
		value, _ = e.rctx.NodeValue(inbound[0].Source)
	}

	decision := e.evaluator.Evaluate(node.Condition, condition.Input{
		Value:     value,
		Variables: e.rctx.Variables,
	})

	e.rctx.SetVariable(run.ResultKey(node.ID), decision.Result)
	e.emitMessageLocked(RoleSystem, decision.TaggedReasoning())
	e.rctx.AddHistory(node.ID, node.Type, "Evaluated branch condition", run.HistorySuccess, decision.TaggedReasoning())

	branch := decision.Result
	return outcome{branch: &branch}
}

// performDecision synthesizes a recommendation from prior responder input
// and the node's configured prompt.
func (e *Engine) performDecision(node *graph.Node) outcome {
	promptText := "proceed with the standard procedure"
	if node.Decision != nil && node.Decision.Prompt != "" {
		promptText = node.Decision.Prompt
	}

	var inputs []string
	for key, value := range e.rctx.Variables {
		if strings.HasSuffix(key, run.SuffixResponse) {
			inputs = append(inputs, fmt.Sprintf("%s=%v", key, value))
		}
	}
	sort.Strings(inputs)

	basis := "no responder input so far"
	if len(inputs) > 0 {
		basis = strings.Join(inputs, "; ")
	}

	recommendation := fmt.Sprintf("Considering %s, the recommended course of action is: %s", basis, promptText)
	e.rctx.SetVariable(run.DecisionKey(node.ID), recommendation)
	e.rctx.AddKnowledge(node.ID, run.KnowledgeDecision, recommendation,
		fmt.Sprintf("Decision made at step %q", nodeLabel(node)))
	e.rctx.AddHistory(node.ID, node.Type, "Synthesized recommendation", run.HistorySuccess, recommendation)

	return outcome{}
}

// performDataQuery records a synthesized description of a query against a
// named collection.
func (e *Engine) performDataQuery(node *graph.Node) outcome {
	collection := "records"
	query := ""
	if node.Query != nil {
		collection = node.Query.Collection
		query = node.Query.Query
	}

	content := fmt.Sprintf("Queried collection %q with query %q", collection, query)
	e.rctx.AddKnowledge(node.ID, run.KnowledgeQueryResult, content,
		fmt.Sprintf("Looked up %q at step %q", collection, nodeLabel(node)))
	e.rctx.SetVariable(run.ResultKey(node.ID), content)
	e.rctx.AddHistory(node.ID, node.Type, fmt.Sprintf("Queried collection %q", collection), run.HistorySuccess, content)

	return outcome{}
}

// performEnd finishes the run. End nodes uniquely skip successor scheduling
// even when outgoing connections exist.
func (e *Engine) performEnd(node *graph.Node) outcome {
	message := "Procedure completed."
	if node.End != nil && node.End.Message != "" {
		message = node.End.Message
	}
	e.rctx.AddHistory(node.ID, node.Type, "Procedure finished", run.HistorySuccess, "")
	return outcome{end: true, endMessage: message}
}

// performDefault records a generic history entry and proceeds normally.
func (e *Engine) performDefault(node *graph.Node) outcome {
	e.rctx.AddHistory(node.ID, node.Type, fmt.Sprintf("Executed %s step", node.Type), run.HistorySuccess, "")
	return outcome{}
}
