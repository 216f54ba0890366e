package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/tildaslashalef/snapreview/internal/review"
)

// Markdown renders the review as a markdown document
func Markdown(r *review.Review, language string) string {
	var b strings.Builder

	b.WriteString("# Code Review")
	if language != "" {
		fmt.Fprintf(&b, " (%s)", language)
	}
	b.WriteString("\n\n")

	band := r.Score.Band()
	fmt.Fprintf(&b, "**Score:** %s / 100 (%s)\n\n", r.Score.String(), band.Verdict())

	b.WriteString("## Issues\n\n")
	if len(r.Issues) == 0 {
		b.WriteString("No issues found.\n\n")
	}
	for _, issue := range r.Issues {
		fmt.Fprintf(&b, "- %s **%s** `%s`", IssueIcon(issue.Type), strings.ToUpper(string(issue.Severity.Normalize())), orDash(string(issue.Type)))
		if issue.Line != nil {
			fmt.Fprintf(&b, " line %d", *issue.Line)
		}
		fmt.Fprintf(&b, ": %s\n", issue.Description)
	}
	if len(r.Issues) > 0 {
		b.WriteString("\n")
	}

	if len(r.Positives) > 0 {
		b.WriteString("## Positives\n\n")
		for _, p := range r.Positives {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}

	if len(r.Suggestions) > 0 {
		b.WriteString("## Suggestions\n\n")
		for i, s := range r.Suggestions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Terminal styles markdown for the terminal with glamour
func Terminal(markdown string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
