package graph

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Per-type configuration payloads. Each node type carries at most one of
// these, decoded from the free-form config map of a procedure definition.

// ConditionSpec configures an "if" node. When EvaluationPrompt is set the
// evaluator runs in AI-prompt mode; otherwise a non-empty Condition selects
// simple-text mode; with neither set the evaluator falls back to auto mode.
type ConditionSpec struct {
	Condition        string `json:"condition,omitempty" mapstructure:"condition"`
	EvaluationPrompt string `json:"evaluation_prompt,omitempty" mapstructure:"evaluation_prompt"`
}

// InteractionSpec configures a "user-interaction" node.
type InteractionSpec struct {
	// Instruction guides question generation for the responder.
	Instruction string `json:"instruction" mapstructure:"instruction" validate:"required"`
}

// ToolSpec configures a "tool-call" node.
type ToolSpec struct {
	Name       string         `json:"name" mapstructure:"name" validate:"required"`
	Parameters map[string]any `json:"parameters,omitempty" mapstructure:"parameters"`
}

// QuerySpec configures a "data-query" node.
type QuerySpec struct {
	Collection string `json:"collection" mapstructure:"collection" validate:"required"`
	Query      string `json:"query,omitempty" mapstructure:"query"`
}

// DecisionSpec configures a "decision" node.
type DecisionSpec struct {
	Prompt string `json:"prompt,omitempty" mapstructure:"prompt"`
}

// EndSpec configures an "end" node.
type EndSpec struct {
	Message string `json:"message,omitempty" mapstructure:"message"`
}

// payloadValidate checks struct-level validation tags on decoded payloads.
var payloadValidate = validator.New(validator.WithRequiredStructEnabled())

// decodePayload decodes a raw config map into the node's typed payload for its
// type and validates required fields. Node types without a payload ignore the
// config map entirely.
func decodePayload(node *Node, raw map[string]any) error {
	if raw == nil {
		return nil
	}

	var target any
	switch node.Type {
	case NodeTypeIf:
		node.Condition = &ConditionSpec{}
		target = node.Condition
	case NodeTypeUserInteraction:
		node.Interaction = &InteractionSpec{}
		target = node.Interaction
	case NodeTypeToolCall:
		node.Tool = &ToolSpec{}
		target = node.Tool
	case NodeTypeDataQuery:
		node.Query = &QuerySpec{}
		target = node.Query
	case NodeTypeDecision:
		node.Decision = &DecisionSpec{}
		target = node.Decision
	case NodeTypeEnd:
		node.End = &EndSpec{}
		target = node.End
	default:
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("creating config decoder for node %s: %w", node.ID, err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decoding config for node %s: %w", node.ID, err)
	}

	if err := payloadValidate.Struct(target); err != nil {
		return fmt.Errorf("invalid config for node %s: %w", node.ID, err)
	}

	return nil
}
