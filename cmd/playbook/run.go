package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/aegis-response/playbook/internal/config"
	"github.com/aegis-response/playbook/internal/engine"
	"github.com/aegis-response/playbook/internal/events"
	"github.com/aegis-response/playbook/internal/graph"
	"github.com/aegis-response/playbook/internal/prompt"
	"github.com/aegis-response/playbook/internal/types"
)

var (
	assistantColor = color.New(color.FgCyan)
	systemColor    = color.New(color.Faint)
	promptColor    = color.New(color.FgYellow, color.Bold)
	successColor   = color.New(color.FgGreen)
	errorColor     = color.New(color.FgRed)
)

var runCmd = &cobra.Command{
	Use:   "run <procedure.yaml>",
	Short: "Execute a procedure interactively",
	Long: `Run loads a procedure from a YAML file and executes it. When a step
needs responder input the run pauses and reads one line from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcedure,
}

func runProcedure(cmd *cobra.Command, args []string) error {
	g, err := graph.ParseFile(args[0])
	if err != nil {
		return err
	}
	if err := reportIssues(g); err != nil {
		return err
	}

	logger := config.NewLogger(cfg.Log, os.Stderr)

	generator, err := buildGenerator(cfg.LLM, logger)
	if err != nil {
		return err
	}

	bus := events.NewBus()
	defer bus.Close()

	ch, cleanup := bus.Subscribe(cmd.Context(), events.Filter{}, 0)
	defer cleanup()

	bridge := events.NewBridge(bus, types.NewID())
	eng := engine.New(g, bridge,
		engine.WithLogger(logger),
		engine.WithPacing(cfg.Pacing),
		engine.WithQuestionGenerator(generator),
	)

	// A signal stops the run; the stop event ends the loop below.
	stop := context.AfterFunc(cmd.Context(), eng.Stop)
	defer stop()

	if err := eng.Start(); err != nil {
		return err
	}

	stdin := bufio.NewReader(os.Stdin)
	for event := range ch {
		switch event.Type {
		case events.EventMessage:
			printMessage(event)
		case events.EventAwaitingInput:
			payload, ok := event.Payload.(events.AwaitingInputPayload)
			if !ok {
				continue
			}
			response, err := readResponse(stdin, payload.Prompt)
			if err != nil {
				eng.Stop()
				continue
			}
			if err := eng.ContinueFromUserInput(payload.NodeID, response); err != nil {
				return err
			}
		case events.EventNodeStatus:
			if payload, ok := event.Payload.(events.NodeStatusPayload); ok {
				logger.Debug("step status changed",
					"node", payload.NodeID, "status", payload.Status)
			}
		case events.EventRunCompleted:
			successColor.Fprintln(cmd.OutOrStdout(), "Run completed.")
			return nil
		case events.EventRunFailed:
			if payload, ok := event.Payload.(events.RunFinishedPayload); ok {
				return fmt.Errorf("run failed: %s", payload.Error)
			}
			return fmt.Errorf("run failed")
		case events.EventRunStopped:
			errorColor.Fprintln(cmd.OutOrStdout(), "Run stopped.")
			return nil
		}
	}
	return nil
}

func printMessage(event events.Event) {
	payload, ok := event.Payload.(events.MessagePayload)
	if !ok {
		return
	}
	switch payload.Role {
	case string(engine.RoleAssistant):
		assistantColor.Printf("responder> %s\n", payload.Content)
	default:
		systemColor.Printf("  %s\n", payload.Content)
	}
}

func readResponse(stdin *bufio.Reader, question string) (string, error) {
	promptColor.Printf("%s\n> ", question)
	line, err := stdin.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func reportIssues(g *graph.Graph) error {
	result := graph.NewValidator().Validate(g)
	for _, warning := range result.Warnings {
		color.Yellow("warning: %s: %s", warning.NodeID, warning.Message)
	}
	for _, issue := range result.Errors {
		color.Red("error: %s: %s", issue.NodeID, issue.Message)
	}
	if !result.Valid() {
		return fmt.Errorf("procedure %q failed validation", g.Name)
	}
	return nil
}

// buildGenerator wires the configured language model, falling back to the
// canned question when no provider is set.
func buildGenerator(llmCfg config.LLMConfig, logger *slog.Logger) (prompt.Generator, error) {
	if !llmCfg.Enabled() {
		return prompt.Static{}, nil
	}
	model, err := buildModel(llmCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s model: %w", llmCfg.Provider, err)
	}
	return prompt.NewLLMGenerator(model, prompt.WithLogger(logger)), nil
}

func buildModel(llmCfg config.LLMConfig) (llms.Model, error) {
	switch llmCfg.Provider {
	case "openai":
		var opts []openai.Option
		if llmCfg.Model != "" {
			opts = append(opts, openai.WithModel(llmCfg.Model))
		}
		if llmCfg.APIKey != "" {
			opts = append(opts, openai.WithToken(llmCfg.APIKey))
		}
		return openai.New(opts...)
	case "anthropic":
		var opts []anthropic.Option
		if llmCfg.Model != "" {
			opts = append(opts, anthropic.WithModel(llmCfg.Model))
		}
		if llmCfg.APIKey != "" {
			opts = append(opts, anthropic.WithToken(llmCfg.APIKey))
		}
		return anthropic.New(opts...)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", llmCfg.Provider)
	}
}
