// Package engine drives the execution of an emergency-response procedure
// graph: node-to-node advancement, branch selection, fan-out, suspension for
// responder input, and cooperative pause/stop.
//
// The engine runs as a single logical thread of time-delayed continuations.
// Every scheduled continuation carries the generation token of the run that
// created it and re-checks that token under the engine lock before touching
// state, so stopping a run reliably suppresses stale continuations. At most
// one continuation executes at a time; the run context needs no locking of
// its own.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aegis-response/playbook/internal/condition"
	"github.com/aegis-response/playbook/internal/graph"
	"github.com/aegis-response/playbook/internal/prompt"
	"github.com/aegis-response/playbook/internal/run"
	"github.com/aegis-response/playbook/internal/types"
)

// DefaultPacing is the delay between node-to-node transitions. Pacing is a
// presentation concern; non-interactive callers set it to zero.
const DefaultPacing = 500 * time.Millisecond

// defaultQuestionTimeout bounds one question-generation call.
const defaultQuestionTimeout = 15 * time.Second

// Engine executes one procedure run at a time over a read-only graph.
type Engine struct {
	graph     *graph.Graph
	callbacks Callbacks

	logger          *slog.Logger
	tracer          trace.Tracer
	pacing          time.Duration
	evaluator       condition.Evaluator
	questions       prompt.Generator
	questionTimeout time.Duration

	mu         sync.Mutex
	rctx       *run.Context
	nodeStatus map[string]graph.NodeStatus
	waiting    map[string]string // suspended node ID -> question put to the responder
	generation uint64            // bumped by Start and Stop; stale continuations drop
	scheduled  int               // current-generation continuations not yet finished
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithLogger configures the engine to use the specified structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTracer configures the engine to create a span per node execution.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// WithPacing sets the delay between node-to-node transitions. Zero disables
// pacing.
func WithPacing(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.pacing = d
		}
	}
}

// WithEvaluator replaces the built-in heuristic condition evaluator.
func WithEvaluator(ev condition.Evaluator) Option {
	return func(e *Engine) {
		if ev != nil {
			e.evaluator = ev
		}
	}
}

// WithQuestionGenerator sets the collaborator that generates questions for
// user-interaction nodes.
func WithQuestionGenerator(g prompt.Generator) Option {
	return func(e *Engine) {
		if g != nil {
			e.questions = g
		}
	}
}

// WithQuestionTimeout bounds a single question-generation call.
func WithQuestionTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.questionTimeout = d
		}
	}
}

// New creates an Engine for the given procedure graph and callback surface.
// The graph is treated as read-only for the lifetime of the engine.
func New(g *graph.Graph, callbacks Callbacks, opts ...Option) *Engine {
	if callbacks == nil {
		callbacks = NopCallbacks{}
	}
	e := &Engine{
		graph:           g,
		callbacks:       callbacks,
		logger:          slog.Default(),
		pacing:          DefaultPacing,
		evaluator:       condition.NewHeuristicEvaluator(),
		questions:       prompt.Static{},
		questionTimeout: defaultQuestionTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a fresh run. It locates the unique start node (failing with a
// configuration error, before any callback fires, if none exists), replaces
// the run context wholesale, and schedules the start node after the pacing
// delay.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start, err := e.graph.StartNode()
	if err != nil {
		return &Error{
			Code:    ErrNoStartNode,
			Message: err.Error(),
			Cause:   err,
		}
	}

	e.generation++
	e.scheduled = 0
	e.rctx = run.NewContext()
	e.nodeStatus = make(map[string]graph.NodeStatus, len(e.graph.Nodes))
	e.waiting = make(map[string]string)

	e.logger.Info("starting procedure run",
		"procedure", e.graph.Name,
		"start_node", start.ID,
		"generation", e.generation,
	)

	e.emitContextUpdateLocked()
	e.scheduleLocked(start.ID)
	return nil
}

// Pause freezes the run. Already-scheduled continuations fire but drop
// without mutating state. There is no resume operation; a paused run is
// abandoned or replaced by the next Start.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rctx == nil || e.rctx.Status != run.StatusRunning {
		return
	}
	e.rctx.Status = run.StatusPaused
	e.logger.Info("run paused", "procedure", e.graph.Name)
	e.emitContextUpdateLocked()
}

// Stop abandons the run. The generation token is bumped so every scheduled
// continuation becomes stale.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++
	e.scheduled = 0
	if e.rctx == nil {
		return
	}
	e.rctx.Status = run.StatusIdle
	e.logger.Info("run stopped", "procedure", e.graph.Name)
	e.emitContextUpdateLocked()
}

// ContinueFromUserInput resumes a node suspended at a user-interaction step.
// It records the response as a user-input knowledge entry and as the node's
// response variable, completes the node, and resumes scheduling from its
// outgoing connections.
func (e *Engine) ContinueFromUserInput(nodeID, response string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rctx == nil {
		return &Error{Code: ErrNoRun, Message: "no active run"}
	}

	node := e.graph.Node(nodeID)
	if node == nil || e.nodeStatus[nodeID] != graph.NodeStatusWaiting {
		return &Error{
			Code:    ErrNotWaiting,
			Message: "node is not waiting for input",
			NodeID:  nodeID,
		}
	}

	delete(e.waiting, nodeID)

	e.rctx.AddKnowledge(nodeID, run.KnowledgeUserInput, response,
		fmt.Sprintf("Responder answered %q at step %q", response, nodeLabel(node)))
	e.rctx.SetVariable(run.ResponseKey(nodeID), response)
	e.rctx.AddHistory(nodeID, node.Type, "Received responder input", run.HistorySuccess, response)

	e.setNodeStatusLocked(node, graph.NodeStatusCompleted)
	e.emitContextUpdateLocked()

	e.logger.Info("resumed from responder input",
		"node_id", nodeID,
		"response_length", len(response),
	)

	e.scheduleSuccessorsLocked(node, nil)
	return nil
}

// ExecuteNode runs a single node synchronously, bypassing the pacing delay.
// Unknown IDs are a no-op: no callbacks fire and no error is returned.
func (e *Engine) ExecuteNode(nodeID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executeNodeLocked(nodeID)
}

// scheduleLocked queues a node execution after the pacing delay, stamped with
// the current generation.
func (e *Engine) scheduleLocked(nodeID string) {
	gen := e.generation
	e.scheduled++
	time.AfterFunc(e.pacing, func() {
		e.runScheduled(gen, nodeID)
	})
}

// runScheduled is the continuation body for a scheduled node execution.
func (e *Engine) runScheduled(gen uint64, nodeID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		// A newer run owns the engine; the counter was reset with it.
		return
	}
	e.scheduled--

	if e.rctx == nil || e.rctx.Status != run.StatusRunning {
		return
	}

	e.executeNodeLocked(nodeID)
	e.completeIfQuiescentLocked()
}

// scheduleSuccessorsLocked computes the successor connections of a finished
// node and schedules each target. For "if" nodes, branch selects the
// connection whose handle matches the evaluated boolean, falling back to the
// first outgoing connection when no handle matches. "end" nodes never reach
// this point. Dangling targets are scheduled and resolve as no-ops.
func (e *Engine) scheduleSuccessorsLocked(node *graph.Node, branch *bool) {
	conns := e.graph.ConnectionsFrom(node.ID)
	if len(conns) == 0 {
		e.completeIfQuiescentLocked()
		return
	}

	if branch != nil {
		selected := selectBranch(conns, *branch)
		e.scheduleLocked(selected.Target)
		return
	}

	for _, conn := range conns {
		e.scheduleLocked(conn.Target)
	}
}

// selectBranch picks the connection whose handle matches the evaluated
// boolean. When no handle matches the first connection wins; that fallback
// can silently route an unlabeled branch.
func selectBranch(conns []graph.Connection, result bool) graph.Connection {
	want := graph.HandleFalse
	if result {
		want = graph.HandleTrue
	}
	for _, conn := range conns {
		if conn.Handle == want {
			return conn
		}
	}
	return conns[0]
}

// completeIfQuiescentLocked finishes the run once no continuation is
// scheduled and no node is suspended. This is how fan-out runs complete:
// the last branch to go quiet closes the run.
func (e *Engine) completeIfQuiescentLocked() {
	if e.rctx == nil || e.rctx.Status != run.StatusRunning {
		return
	}
	if e.scheduled > 0 || len(e.waiting) > 0 {
		return
	}
	e.rctx.Status = run.StatusCompleted
	e.logger.Info("run completed", "procedure", e.graph.Name)
	e.emitContextUpdateLocked()
}

// setNodeStatusLocked tracks and reports a node status change.
func (e *Engine) setNodeStatusLocked(node *graph.Node, status graph.NodeStatus) {
	e.nodeStatus[node.ID] = status
	e.callbacks.OnNodeStatusChange(node.ID, status)
}

// emitMessageLocked delivers a responder-visible message.
func (e *Engine) emitMessageLocked(role Role, content string) {
	e.callbacks.OnMessage(Message{
		ID:        types.NewID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// emitContextUpdateLocked pushes a deep-copied context snapshot.
func (e *Engine) emitContextUpdateLocked() {
	e.callbacks.OnContextUpdate(e.rctx.Snapshot())
}

// nodeSpan opens a tracing span for one node execution when a tracer is
// configured.
func (e *Engine) nodeSpan(node *graph.Node) trace.Span {
	if e.tracer == nil {
		return nil
	}
	_, span := e.tracer.Start(context.Background(), "engine.execute_node",
		trace.WithAttributes(
			attribute.String("node.id", node.ID),
			attribute.String("node.type", string(node.Type)),
		),
	)
	return span
}

func nodeLabel(node *graph.Node) string {
	if node.Label != "" {
		return node.Label
	}
	return node.ID
}
