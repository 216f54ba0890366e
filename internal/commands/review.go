package commands

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/snapreview/internal/app"
	"github.com/tildaslashalef/snapreview/internal/pipeline"
	"github.com/tildaslashalef/snapreview/internal/render"
)

// ReviewCommand returns the CLI command that reviews one file and prints the result
func ReviewCommand() *cli.Command {
	return &cli.Command{
		Name:      "review",
		Usage:     "Review a source file and print the result",
		ArgsUsage: "[FILE]",
		Description: "Sends FILE (or code piped on stdin) to Claude and prints a structured review:\n" +
			"a 0-100 score, issues, positives and suggestions. Exits with status 1 when the review fails.",
		Flags: []cli.Flag{
			langFlag,
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown or json (default from SNAPREVIEW_OUTPUT_FORMAT)",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Print markdown without terminal styling",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the request payload instead of sending it",
			},
		},
		Action: reviewAction,
	}
}

func reviewAction(c *cli.Context) error {
	application, err := app.Load(c)
	if err != nil {
		return err
	}

	formatName := c.String("format")
	if formatName == "" {
		formatName = application.Config.Review.OutputFormat
	}
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	src, err := readSource(c, application)
	if err != nil {
		return err
	}

	if c.Bool("dry-run") {
		payload, err := application.Prompts.Build(src.Code, src.Language)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(payload)
	}

	out := c.App.Writer
	render.SetColorEnabled(!c.Bool("no-color") && isTerminal(out))

	application.Logger.Info("Starting review", "name", src.Name, "language", src.Language, "format", format)
	application.Pipeline.Submit(src.Code, src.Language)
	if isTerminal(c.App.ErrWriter) {
		render.PrintInfo(c.App.ErrWriter, fmt.Sprintf("Reviewing %s (%s)...", src.Name, src.Language))
	}

	snap, err := application.Pipeline.Await(c.Context)
	if err != nil {
		return fmt.Errorf("review interrupted: %w", err)
	}

	if err := render.Render(out, snap.Review, render.Options{
		Format:   format,
		Width:    outputWidth(out),
		Raw:      c.Bool("raw"),
		Language: src.Language,
	}); err != nil {
		return err
	}

	if snap.State == pipeline.StateFailed {
		return cli.Exit(fmt.Sprintf("review failed (cycle %s); see %s for details", snap.Cycle, application.Config.Logging.Output), 1)
	}
	return nil
}
