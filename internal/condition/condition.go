// Package condition resolves the branch decision of an "if" node.
//
// Three mutually exclusive strategies apply in strict precedence: AI-prompt
// mode when an evaluation prompt is configured, simple-text mode when a
// condition string is configured, and auto mode otherwise. Evaluation is total
// over its input domain: malformed input resolves to a definite false with a
// reasoning string flagging the problem, never an error.
package condition

import (
	"fmt"

	"github.com/aegis-response/playbook/internal/graph"
)

// Mode identifies the strategy that produced an outcome. The mode is surfaced
// to responders as a tag on the reasoning message.
type Mode string

const (
	ModeAI       Mode = "AI Mode"
	ModeVariable Mode = "Variable Mode"
	ModeText     Mode = "Text Mode"
	ModeNumeric  Mode = "Numeric Mode"
	ModeAuto     Mode = "Auto Mode"
)

// Outcome is the result of evaluating one branch condition.
type Outcome struct {
	// Result is the branch decision.
	Result bool
	// Reasoning explains the decision in responder-readable terms.
	Reasoning string
	// Mode is the strategy that produced the decision.
	Mode Mode
}

// TaggedReasoning returns the reasoning prefixed with the mode tag, the form
// emitted as a user-visible message.
func (o Outcome) TaggedReasoning() string {
	return fmt.Sprintf("[%s] %s", o.Mode, o.Reasoning)
}

// Input carries everything a strategy may consult.
type Input struct {
	// Value is the resolved contribution of the upstream node feeding the
	// decision, or nil when nothing was contributed.
	Value any
	// Variables exposes the full run variable map for ${name} references.
	Variables map[string]any
}

// Evaluator resolves an "if" node's branch decision. Implementations must be
// total: every spec and input maps to a definite Outcome. The engine treats
// the evaluator as a pluggable strategy, so a model-backed implementation can
// replace the built-in heuristic without touching the scheduler.
type Evaluator interface {
	Evaluate(spec *graph.ConditionSpec, input Input) Outcome
}

// Truthy reports the truthiness of an arbitrary value: nil, false, zero
// numbers, and empty strings are false; everything else is true.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case float32:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

// Stringify renders a resolved value for text comparison. Nil renders as the
// empty string.
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
