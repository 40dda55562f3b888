package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/Sn1r/shannon/internal/backend"
	"github.com/Sn1r/shannon/internal/config"
	"github.com/Sn1r/shannon/internal/message"
	"github.com/Sn1r/shannon/internal/session"
)

func loadConfigFromCmd(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if kind := cmd.String("backend"); kind != "" {
		cfg.Backend.Kind = kind
	}
	if model := cmd.String("model"); model != "" {
		cfg.Backend.Model = model
	}
	if turns := cmd.Int("max-turns"); turns > 0 {
		cfg.Run.MaxTurns = turns
	}
	if cmd.Bool("stream") {
		cfg.Run.Streaming = true
	}
	return cfg, nil
}

func cmdChat(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("usage: shannon chat <prompt>")
	}
	prompt := strings.Join(args, " ")

	cfg, err := loadConfigFromCmd(cmd)
	if err != nil {
		return err
	}

	// Credentials and backend selection resolve exactly once, before
	// the driver exists. A bad setup is the one error that surfaces
	// here instead of inside the notification stream.
	b, err := backend.Resolve(backend.Config{
		Kind:    cfg.Backend.Kind,
		APIKey:  cfg.Backend.APIKey,
		BaseURL: cfg.Backend.BaseURL,
	})
	if err != nil {
		return err
	}

	return runChat(ctx, cmd, cfg, b, prompt)
}

func cmdSessions(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfigFromCmd(cmd)
	if err != nil {
		return err
	}

	db, err := session.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(ctx, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	data := pterm.TableData{{"ID", "WHEN", "STATUS", "TURNS", "COST", "PROMPT"}}
	for _, r := range runs {
		prompt := r.Prompt
		if len(prompt) > 40 {
			prompt = prompt[:40] + "…"
		}
		data = append(data, []string{
			shortID(r.ID),
			r.CreatedAt.Local().Format(time.DateTime),
			r.Status,
			fmt.Sprintf("%d", r.Turns),
			fmt.Sprintf("$%.4f", r.CostUSD),
			prompt,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func cmdShow(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("usage: shannon show <run-id>")
	}

	cfg, err := loadConfigFromCmd(cmd)
	if err != nil {
		return err
	}

	db, err := session.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer db.Close()

	runID, err := resolveRunID(ctx, db, args[0])
	if err != nil {
		return err
	}

	run, err := db.GetRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}
	msgs, err := db.Messages(ctx, runID)
	if err != nil {
		return fmt.Errorf("load transcript: %w", err)
	}

	pterm.DefaultSection.Printfln("run %s", shortID(run.ID))
	fmt.Printf("  model:  %s (%s)\n", run.Model, run.Backend)
	fmt.Printf("  status: %s", run.Status)
	if run.Subtype != "" {
		fmt.Printf(" (%s)", run.Subtype)
	}
	fmt.Println()
	fmt.Printf("  tokens: %d in / %d out, est. $%.4f\n\n",
		run.InputTokens, run.OutputTokens, run.CostUSD)

	for _, m := range msgs {
		label := pterm.LightCyan(string(m.Role) + " ▸")
		if m.Role == message.RoleAssistant {
			label = pterm.LightMagenta(string(m.Role) + " ▸")
		}
		fmt.Printf("%s %s\n", label, renderTranscriptMessage(m))
	}
	return nil
}

func cmdConfig(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfigFromCmd(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("Configuration (%s):\n", cmd.String("config"))
	fmt.Printf("  Backend:     %s\n", cfg.Backend.Kind)
	fmt.Printf("  Model:       %s → %s\n", cfg.Backend.Model,
		backend.ModelID(cfg.Backend.Kind, cfg.Backend.Model))
	if cfg.Backend.BaseURL != "" {
		fmt.Printf("  Base URL:    %s\n", cfg.Backend.BaseURL)
	}
	fmt.Printf("  Max Turns:   %d\n", cfg.Run.MaxTurns)
	fmt.Printf("  Max Tokens:  %d\n", cfg.Run.MaxTokens)
	fmt.Printf("  Streaming:   %v\n", cfg.Run.Streaming)
	fmt.Printf("  Pricing:     %d tok/block at $%.2f/MTok\n",
		cfg.Pricing.TokensPerBlock, cfg.Pricing.PricePerMTok)
	fmt.Printf("  Data Dir:    %s\n", cfg.DataDir)
	return nil
}

func cmdModels(ctx context.Context, cmd *cli.Command) error {
	data := pterm.TableData{{"LOGICAL", "ANTHROPIC", "GATEWAY"}}
	for _, name := range backend.LogicalModels() {
		data = append(data, []string{
			name,
			backend.ModelID("anthropic", name),
			backend.ModelID("gateway", name),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveRunID accepts a full id or an unambiguous prefix.
func resolveRunID(ctx context.Context, db *session.DB, prefix string) (string, error) {
	runs, err := db.ListRuns(ctx, 1000)
	if err != nil {
		return "", err
	}
	var match string
	for _, r := range runs {
		if r.ID == prefix {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("run id %q is ambiguous", prefix)
			}
			match = r.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no run matching %q", prefix)
	}
	return match, nil
}

func renderTranscriptMessage(m message.Message) string {
	var parts []string
	for _, b := range m.Content {
		switch b.Type {
		case message.BlockText:
			parts = append(parts, b.Text)
		case message.BlockToolUse:
			if b.ToolUse != nil {
				parts = append(parts, fmt.Sprintf("[tool %s]", b.ToolUse.Name))
			}
		case message.BlockToolResult:
			if b.ToolResult != nil {
				parts = append(parts, fmt.Sprintf("[result for %s]", b.ToolResult.ToolUseID))
			}
		case message.BlockImage:
			parts = append(parts, "[image]")
		case message.BlockOpaque:
			parts = append(parts, "[opaque]")
		}
	}
	return strings.Join(parts, " ")
}
