package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/snapreview/internal/app"
	"github.com/tildaslashalef/snapreview/internal/commands"
	"github.com/tildaslashalef/snapreview/internal/render"
)

// Version information - populated at build time
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "unknown"
	Author     = "unknown"
	Email      = "unknown"
)

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config-dir",
		Usage:   "Configuration directory (default: ~/.snapreview)",
		EnvVars: []string{"SNAPREVIEW_CONFIG_DIR"},
	},
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn, error or none (overrides SNAPREVIEW_LOG_LEVEL)",
	},
}

func main() {
	review := commands.ReviewCommand()

	cliApp := &cli.App{
		Name:      "snapreview",
		Usage:     "Claude-powered code review for a single file",
		ArgsUsage: "[FILE]",
		Description: "snapreview sends one source file to Claude and prints a structured review.\n\n" +
			"When run without subcommands, snapreview reviews FILE or stdin (same as 'snapreview review').",
		Version: fmt.Sprintf("%s (%s)", Version, CommitHash),
		Compiled: func() time.Time {
			t, err := time.Parse(time.RFC3339, BuildTime)
			if err != nil {
				return time.Now()
			}
			return t
		}(),
		Authors: []*cli.Author{
			{
				Name:  Author,
				Email: Email,
			},
		},
		Flags: append(globalFlags, review.Flags...),
		After: func(c *cli.Context) error {
			if application, err := app.FromContext(c); err == nil {
				return application.Shutdown()
			}
			return nil
		},
		Commands: []*cli.Command{
			review,
			commands.TUICommand(),
			commands.LanguagesCommand(),
			commands.InitCommand(),
		},
		Action: review.Action,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		render.PrintError(os.Stderr, err.Error())
		stop()
		os.Exit(1)
	}
}
