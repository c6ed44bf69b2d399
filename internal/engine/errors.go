package engine

import "fmt"

// ErrorCode classifies engine failures.
type ErrorCode string

const (
	// ErrNoStartNode is a fatal configuration error: the procedure has no
	// start node, so no run can begin.
	ErrNoStartNode ErrorCode = "no_start_node"
	// ErrNodeExecution marks a failure inside a node's behavior. It is
	// terminal for the run but never crashes the scheduler.
	ErrNodeExecution ErrorCode = "node_execution_failed"
	// ErrNotWaiting is returned when resuming a node that is not suspended.
	ErrNotWaiting ErrorCode = "node_not_waiting"
	// ErrNoRun is returned when an operation requires an active run.
	ErrNoRun ErrorCode = "no_active_run"
)

// Error represents an engine-level failure.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	NodeID  string    `json:"node_id,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.NodeID != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s [node: %s]: %s (caused by: %v)", e.Code, e.NodeID, e.Message, e.Cause)
		}
		return fmt.Sprintf("%s [node: %s]: %s", e.Code, e.NodeID, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface.
func (e *Error) Unwrap() error {
	return e.Cause
}
