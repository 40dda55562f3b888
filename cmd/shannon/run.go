package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/Sn1r/shannon/internal/backend"
	"github.com/Sn1r/shannon/internal/bus"
	"github.com/Sn1r/shannon/internal/config"
	"github.com/Sn1r/shannon/internal/cost"
	"github.com/Sn1r/shannon/internal/driver"
	"github.com/Sn1r/shannon/internal/errs"
	"github.com/Sn1r/shannon/internal/output"
	"github.com/Sn1r/shannon/internal/session"
	"github.com/Sn1r/shannon/internal/stream"
	"github.com/Sn1r/shannon/internal/tui"
)

func pickMode(cmd *cli.Command) output.Mode {
	switch {
	case cmd.Bool("json"):
		return output.ModeJSON
	case cmd.Bool("quiet"):
		return output.ModeQuiet
	case !cmd.Bool("no-tui") && term.IsTerminal(int(os.Stdout.Fd())):
		return output.ModeTUI
	default:
		return output.ModePlain
	}
}

func runChat(ctx context.Context, cmd *cli.Command, cfg *config.Config, b backend.Backend, prompt string) error {
	mode := pickMode(cmd)
	logger := log.New(os.Stderr, "", log.LstdFlags)

	opts := driver.Options{
		Prompt:         prompt,
		Model:          backend.ModelID(cfg.Backend.Kind, cfg.Backend.Model),
		SystemPrompt:   cfg.Run.SystemPrompt,
		MaxTurns:       cfg.Run.MaxTurns,
		MaxTokens:      cfg.Run.MaxTokens,
		Temperature:    cfg.Run.Temperature,
		PermissionMode: cfg.Run.PermissionMode,
		Streaming:      cfg.Run.Streaming,
		Logger:         logger,
		Quiet:          mode == output.ModeQuiet || mode == output.ModeJSON,
		Estimator:      cost.New(cfg.Pricing.TokensPerBlock, cfg.Pricing.PricePerMTok),
	}

	nbus := bus.New(0)

	// Run history is best effort: a broken store never stops a chat.
	if db, err := session.Open(cfg.DataDir); err != nil {
		logger.Printf("⚠ run store unavailable: %v", err)
	} else {
		defer db.Close()
		recorder := session.NewRecorder(db, b.Name())
		nbus.Subscribe(func(env bus.Envelope) {
			if err := recorder.Record(ctx, env.SessionID, env.Notification); err != nil {
				logger.Printf("⚠ record run: %v", err)
			}
		})
	}

	if mode == output.ModeTUI {
		return runChatTUI(ctx, b, opts, nbus, cfg.Run.MaxTurns)
	}

	printer := output.NewPrinter(mode, cmd.Bool("verbose"))
	jsonOut := output.NewJSONWriter(os.Stdout)
	nbus.Subscribe(func(env bus.Envelope) {
		if mode == output.ModeJSON {
			if err := jsonOut.Notify(env.Notification); err != nil {
				logger.Printf("⚠ emit json: %v", err)
			}
			return
		}
		printer.Notify(env.Notification)
	})

	if opts.Streaming && mode == output.ModePlain {
		opts.OnEvent = func(ev *stream.Event) {
			if ev.Kind == stream.KindBlockDelta && ev.Delta != nil {
				printer.StreamText(ev.Delta.Text)
			}
		}
	}

	drv := driver.New(b, opts)
	if err := pull(ctx, drv, nbus); err != nil {
		return err
	}

	return finalError(drv, printer)
}

func runChatTUI(ctx context.Context, b backend.Backend, opts driver.Options, nbus *bus.Bus, maxTurns int) error {
	program := tui.NewProgram(maxTurns)

	nbus.Subscribe(func(env bus.Envelope) {
		program.SendNotification(env.Notification)
	})
	if opts.Streaming {
		opts.OnEvent = func(ev *stream.Event) {
			if ev.Kind == stream.KindBlockDelta && ev.Delta != nil {
				program.SendStreamText(ev.Delta.Text)
			}
		}
	}
	// The TUI owns the terminal; route diagnostics away from stderr.
	opts.Quiet = true

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	drv := driver.New(b, opts)
	go func() {
		// Abandoning the pull loop on TUI exit is the designed
		// cancellation path: no terminal notification is forced.
		_ = pull(runCtx, drv, nbus)
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	cancel()

	return finalError(drv, nil)
}

// pull drives the notification sequence to completion. The driver does
// no work between calls, so abandoning this loop abandons the run.
func pull(ctx context.Context, drv *driver.Driver, nbus *bus.Bus) error {
	for {
		n, err := drv.Next(ctx)
		if errors.Is(err, driver.ErrDone) {
			return nil
		}
		if err != nil {
			return err
		}
		nbus.Publish(drv.SessionID(), n)
	}
}

// finalError maps the terminal result to the process outcome: a failed
// run exits non-zero, budget exhaustion does not.
func finalError(drv *driver.Driver, printer *output.Printer) error {
	result := drv.Result()
	if result == nil || result.Success {
		return nil
	}
	if printer != nil && errs.IsTransient(errors.New(result.Error)) {
		printer.Hint("the failure looks transient; retrying may succeed")
	}
	return fmt.Errorf("run failed: %s", result.Error)
}
