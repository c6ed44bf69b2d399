package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

// fakeModel is a minimal llms.Model that records the prompt it receives.
type fakeModel struct {
	response  string
	err       error
	gotPrompt string
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				f.gotPrompt = text.Text
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	f.gotPrompt = prompt
	return f.response, f.err
}

func TestStatic_Question(t *testing.T) {
	q, err := Static{}.Question(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Question() error = %v", err)
	}
	if q != DefaultQuestion {
		t.Errorf("Question() = %q, want default", q)
	}

	q, _ = Static{Text: "Where are you?"}.Question(context.Background(), Request{})
	if q != "Where are you?" {
		t.Errorf("Question() = %q", q)
	}
}

func TestLLMGenerator_Question(t *testing.T) {
	model := &fakeModel{response: "  What is the exact address of the fire?\n"}
	gen := NewLLMGenerator(model)

	req := Request{
		Instruction:        "Ask the caller for the fire location",
		Variables:          map[string]any{"start_result": "2026-01-01", "ask_response": "there is a fire"},
		KnowledgeSummaries: []string{"Caller reported smoke", "Wind from the north"},
	}

	q, err := gen.Question(context.Background(), req)
	if err != nil {
		t.Fatalf("Question() error = %v", err)
	}
	if q != "What is the exact address of the fire?" {
		t.Errorf("Question() = %q", q)
	}

	// The prompt must carry instruction, variables, and knowledge summaries.
	for _, want := range []string{
		"Ask the caller for the fire location",
		"ask_response",
		"Caller reported smoke",
		"Wind from the north",
	} {
		if !strings.Contains(model.gotPrompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, model.gotPrompt)
		}
	}
}

func TestLLMGenerator_QuestionErrors(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
	}{
		{"model error", &fakeModel{err: errors.New("connection refused")}},
		{"empty completion", &fakeModel{response: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewLLMGenerator(tt.model)
			if _, err := gen.Question(context.Background(), Request{Instruction: "x"}); err == nil {
				t.Fatal("Question() succeeded, want error")
			}
		})
	}
}
