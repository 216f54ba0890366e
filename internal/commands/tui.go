package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/snapreview/internal/app"
	"github.com/tildaslashalef/snapreview/internal/tui"
)

// TUICommand returns the CLI command for the interactive review view
func TUICommand() *cli.Command {
	return &cli.Command{
		Name:        "tui",
		Usage:       "Review a source file in the interactive terminal view",
		ArgsUsage:   "[FILE]",
		Description: "Shows the pipeline state while the review runs and the result once it arrives. Press 'r' to review again.",
		Flags:       []cli.Flag{langFlag},
		Action:      tuiAction,
	}
}

func tuiAction(c *cli.Context) error {
	application, err := app.Load(c)
	if err != nil {
		return err
	}

	src, err := readSource(c, application)
	if err != nil {
		return err
	}

	application.Logger.Info("Starting TUI mode", "name", src.Name, "language", src.Language)

	snap, err := tui.Run(c.Context, application.Pipeline, tui.Source{
		Name:     src.Name,
		Code:     src.Code,
		Language: src.Language,
	}, application.Logger)
	if err != nil {
		return err
	}

	application.Logger.Info("TUI closed", "state", snap.State, "cycle_id", snap.Cycle)
	return nil
}
