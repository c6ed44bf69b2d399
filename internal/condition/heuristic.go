package condition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aegis-response/playbook/internal/graph"
)

// Keyword lists for AI-prompt mode. Matching is substring containment over
// the lower-cased input.
var (
	positiveWords = []string{"yes", "true", "confirmed", "affirmative", "correct", "agree", "ok", "okay", "sure", "proceed"}
	negativeWords = []string{"no", "false", "never", "negative", "denied", "decline", "stop", "cancel", "unable"}
)

// lengthFallbackThreshold drives AI-prompt mode when neither keyword list
// matches: inputs longer than this evaluate true.
const lengthFallbackThreshold = 10

// HeuristicEvaluator is the built-in Evaluator. AI-prompt mode is a keyword
// heuristic, not a real model call; it sits behind the Evaluator interface so
// a model-backed strategy can replace it.
type HeuristicEvaluator struct{}

// NewHeuristicEvaluator creates the default condition evaluator.
func NewHeuristicEvaluator() *HeuristicEvaluator {
	return &HeuristicEvaluator{}
}

// Evaluate applies the strategy precedence: AI-prompt mode if an evaluation
// prompt is configured, simple-text mode if a condition string is configured,
// auto mode otherwise. A nil spec behaves as an empty one.
func (e *HeuristicEvaluator) Evaluate(spec *graph.ConditionSpec, input Input) Outcome {
	if spec == nil {
		spec = &graph.ConditionSpec{}
	}

	switch {
	case strings.TrimSpace(spec.EvaluationPrompt) != "":
		return e.evaluatePrompt(spec.EvaluationPrompt, input)
	case strings.TrimSpace(spec.Condition) != "":
		return e.evaluateSimple(spec.Condition, input)
	default:
		return e.evaluateAuto(input)
	}
}

// evaluatePrompt implements AI-prompt mode: keyword polarity matching with a
// length heuristic fallback.
func (e *HeuristicEvaluator) evaluatePrompt(prompt string, input Input) Outcome {
	text := strings.ToLower(Stringify(input.Value))
	loweredPrompt := strings.ToLower(prompt)

	hasPositive := containsAny(text, positiveWords)
	hasNegative := containsAny(text, negativeWords)

	// The prompt's desired polarity: "true if"/"when" phrasing, or the
	// absence of "false if", implies the prompt is asking for a positive
	// signal.
	wantsPositive := strings.Contains(loweredPrompt, "true if") ||
		strings.Contains(loweredPrompt, "when") ||
		!strings.Contains(loweredPrompt, "false if")

	if !hasPositive && !hasNegative {
		result := len(text) > lengthFallbackThreshold
		return Outcome{
			Result:    result,
			Reasoning: fmt.Sprintf("no keyword signals in input %q; length heuristic (%d characters) resolves to %v", text, len(text), result),
			Mode:      ModeAI,
		}
	}

	result := hasPositive && !hasNegative
	if !wantsPositive {
		result = !result
	}

	return Outcome{
		Result: result,
		Reasoning: fmt.Sprintf("input %q has positive signals: %v, negative signals: %v; prompt polarity %s resolves to %v",
			text, hasPositive, hasNegative, polarityLabel(wantsPositive), result),
		Mode: ModeAI,
	}
}

// evaluateSimple implements simple-text mode: ${name} variable truthiness,
// the equals/contains text operators, the greater than/less than numeric
// operators, and finally direct case-insensitive equality.
func (e *HeuristicEvaluator) evaluateSimple(cond string, input Input) Outcome {
	cond = strings.TrimSpace(cond)
	text := Stringify(input.Value)

	if strings.HasPrefix(cond, "${") {
		name, ok := strings.CutSuffix(strings.TrimPrefix(cond, "${"), "}")
		if !ok || name == "" || strings.ContainsAny(name, "${}") {
			return Outcome{
				Result:    false,
				Reasoning: fmt.Sprintf("malformed variable reference %q; resolving to false", cond),
				Mode:      ModeVariable,
			}
		}
		value := input.Variables[name]
		result := Truthy(value)
		return Outcome{
			Result:    result,
			Reasoning: fmt.Sprintf("variable %q = %v is %v", name, value, result),
			Mode:      ModeVariable,
		}
	}

	lowered := strings.ToLower(cond)
	loweredText := strings.ToLower(text)

	if operand, ok := cutPrefixFold(cond, "equals "); ok {
		result := strings.EqualFold(text, strings.TrimSpace(operand))
		return Outcome{
			Result:    result,
			Reasoning: fmt.Sprintf("input %q equals %q: %v", text, strings.TrimSpace(operand), result),
			Mode:      ModeText,
		}
	}

	if operand, ok := cutPrefixFold(cond, "contains "); ok {
		operand = strings.TrimSpace(operand)
		result := strings.Contains(loweredText, strings.ToLower(operand))
		return Outcome{
			Result:    result,
			Reasoning: fmt.Sprintf("input %q contains %q: %v", text, operand, result),
			Mode:      ModeText,
		}
	}

	if operand, ok := cutPrefixFold(cond, "greater than "); ok {
		return compareNumeric(text, operand, func(a, b float64) bool { return a > b }, "greater than")
	}

	if operand, ok := cutPrefixFold(cond, "less than "); ok {
		return compareNumeric(text, operand, func(a, b float64) bool { return a < b }, "less than")
	}

	result := loweredText == lowered
	return Outcome{
		Result:    result,
		Reasoning: fmt.Sprintf("input %q matches %q: %v", text, cond, result),
		Mode:      ModeText,
	}
}

// evaluateAuto implements auto mode: truthiness of the resolved value.
func (e *HeuristicEvaluator) evaluateAuto(input Input) Outcome {
	result := Truthy(input.Value)
	return Outcome{
		Result:    result,
		Reasoning: fmt.Sprintf("no condition configured; upstream value %v is %v", input.Value, result),
		Mode:      ModeAuto,
	}
}

// compareNumeric parses both operands as floats. A parse failure on either
// side fails closed.
func compareNumeric(text, operand string, cmp func(a, b float64) bool, label string) Outcome {
	left, errL := strconv.ParseFloat(strings.TrimSpace(text), 64)
	right, errR := strconv.ParseFloat(strings.TrimSpace(operand), 64)
	if errL != nil || errR != nil {
		return Outcome{
			Result:    false,
			Reasoning: fmt.Sprintf("cannot compare %q %s %q numerically; resolving to false", text, label, strings.TrimSpace(operand)),
			Mode:      ModeNumeric,
		}
	}
	result := cmp(left, right)
	return Outcome{
		Result:    result,
		Reasoning: fmt.Sprintf("%v %s %v: %v", left, label, right, result),
		Mode:      ModeNumeric,
	}
}

// cutPrefixFold removes a case-insensitive prefix, reporting whether it was
// present.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func polarityLabel(positive bool) string {
	if positive {
		return "positive"
	}
	return "negative"
}
