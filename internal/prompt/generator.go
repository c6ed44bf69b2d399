// Package prompt generates responder-facing questions for user-interaction
// nodes. Question generation is delegated to an external text-generation
// model; any failure falls back to a fixed default question rather than
// failing the run.
package prompt

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// DefaultQuestion is the fixed fallback emitted when question generation is
// unavailable or fails.
const DefaultQuestion = "Please provide the information needed to continue the response procedure."

// Request carries everything available to question generation: the node's
// instruction text, a snapshot of run variables, and the most recent
// knowledge summaries.
type Request struct {
	Instruction        string
	Variables          map[string]any
	KnowledgeSummaries []string
}

// Generator produces a single question to put to the responder.
type Generator interface {
	Question(ctx context.Context, req Request) (string, error)
}

// Static is a Generator that always returns a fixed question. It serves
// offline use and tests.
type Static struct {
	// Text is the question to return; empty means DefaultQuestion.
	Text string
}

// Question implements Generator.
func (s Static) Question(_ context.Context, _ Request) (string, error) {
	if s.Text == "" {
		return DefaultQuestion, nil
	}
	return s.Text, nil
}

// buildPrompt renders the model prompt from a request. Variables are listed
// in sorted order so prompts are deterministic.
func buildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are assisting an emergency-response operator working through a response procedure.\n")
	b.WriteString("Instruction for this step: ")
	b.WriteString(req.Instruction)
	b.WriteString("\n")

	if len(req.Variables) > 0 {
		b.WriteString("\nCurrent run variables:\n")
		keys := make([]string, 0, len(req.Variables))
		for k := range req.Variables {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %v\n", k, req.Variables[k])
		}
	}

	if len(req.KnowledgeSummaries) > 0 {
		b.WriteString("\nRecent findings:\n")
		for _, s := range req.KnowledgeSummaries {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	b.WriteString("\nAsk the operator one concise question that gathers the information this step needs. Reply with the question only.")
	return b.String()
}
