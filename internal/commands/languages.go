package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/snapreview/internal/language"
)

// LanguagesCommand returns the CLI command listing common language tags
func LanguagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "List common language tags and the extensions they are detected from",
		Description: "Any tag is accepted by --lang; this list shows the ones detected automatically\n" +
			"from file extensions.",
		Action: func(c *cli.Context) error {
			t := table.NewWriter()
			t.SetOutputMirror(c.App.Writer)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Tag", "Language", "Extensions"})
			for _, l := range language.Common() {
				t.AppendRow(table.Row{l.Tag, l.Name, strings.Join(l.Extensions, " ")})
			}
			t.Render()
			return nil
		},
	}
}
