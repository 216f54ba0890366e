package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/muesli/reflow/wordwrap"

	"github.com/tildaslashalef/snapreview/internal/review"
)

// Text writes the score, an issues table and the positives and suggestions lists
func Text(w io.Writer, r *review.Review, opts Options) error {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	band := r.Score.Band()
	heading := "Code Quality Score"
	if opts.Language != "" {
		heading = fmt.Sprintf("Code Quality Score (%s)", opts.Language)
	}
	fmt.Fprintf(w, "%s: %s  %s\n",
		Theme.Heading.Sprint(heading),
		bandColor(band).Sprint(r.Score.String()),
		Theme.Subtle.Sprint(band.Verdict()))

	if r.IsPipelineError() {
		fmt.Fprintln(w)
		PrintError(w, r.Issues[0].Description)
		return nil
	}

	fmt.Fprintln(w)
	if len(r.Issues) == 0 {
		PrintSuccess(w, "No issues found")
	} else {
		writeIssuesTable(w, r.Issues, width)
	}

	writeList(w, "Positives", "✓", Theme.Success, r.Positives, width)
	writeList(w, "Suggestions", "→", Theme.Accent, r.Suggestions, width)
	return nil
}

func writeIssuesTable(w io.Writer, issues []review.Issue, width int) {
	// Fixed columns take roughly 30 cells including borders
	descWidth := width - 30
	if descWidth < 20 {
		descWidth = 20
	}

	t := newTable(w, fmt.Sprintf("Issues (%d)", len(issues)))
	t.AppendHeader(table.Row{"", "Type", "Severity", "Line", "Description"})
	for _, issue := range issues {
		line := "-"
		if issue.Line != nil {
			line = fmt.Sprintf("%d", *issue.Line)
		}
		issueType := string(issue.Type)
		if issueType == "" {
			issueType = "-"
		}
		severity := issue.Severity.Normalize()
		t.AppendRow(table.Row{
			IssueIcon(issue.Type),
			issueType,
			severityColors(severity).Sprint(string(severity)),
			line,
			wordwrap.String(issue.Description, descWidth),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, WidthMax: descWidth},
	})
	t.Render()
}

func writeList(w io.Writer, title, bullet string, colors text.Colors, items []string, width int) {
	if len(items) == 0 {
		return
	}

	fmt.Fprintln(w)
	PrintHeading(w, title)
	indent := strings.Repeat(" ", len([]rune(bullet))+1)
	for _, item := range items {
		wrapped := wordwrap.String(item, width-len(indent))
		lines := strings.Split(wrapped, "\n")
		fmt.Fprintf(w, "%s %s\n", colors.Sprint(bullet), lines[0])
		for _, l := range lines[1:] {
			fmt.Fprintf(w, "%s%s\n", indent, l)
		}
	}
}
