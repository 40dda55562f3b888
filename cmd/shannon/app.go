package main

import (
	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "shannon",
		Usage: "converse with an LLM through interchangeable backends",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "shannon.json",
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "backend kind: anthropic or gateway",
			},
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "logical model name or raw backend model id",
			},
			&cli.IntFlag{
				Name:  "max-turns",
				Usage: "turn budget for a run (default from config)",
			},
			&cli.BoolFlag{
				Name:  "stream",
				Usage: "use the streaming operation when the backend supports it",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "emit notifications as JSON lines",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "suppress all non-error output",
			},
			&cli.BoolFlag{
				Name:  "no-tui",
				Usage: "plain output even on a terminal",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "show opaque blocks and extra detail",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "chat",
				Usage:     "run one conversation",
				ArgsUsage: "<prompt>",
				Action:    cmdChat,
			},
			{
				Name:   "sessions",
				Usage:  "list recorded runs",
				Action: cmdSessions,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "number of runs to list"},
				},
			},
			{
				Name:      "show",
				Usage:     "print a recorded run's transcript",
				ArgsUsage: "<run-id>",
				Action:    cmdShow,
			},
			{
				Name:   "config",
				Usage:  "print the effective configuration",
				Action: cmdConfig,
			},
			{
				Name:   "models",
				Usage:  "list logical model names and their backend ids",
				Action: cmdModels,
			},
		},
		Action: cmdChat, // bare "shannon <prompt>" starts a chat
	}
}
