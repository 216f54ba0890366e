package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tildaslashalef/snapreview/internal/review"
)

// Theme implements a Gruvbox-inspired dark theme for tables and status lines
var Theme = struct {
	Success   text.Colors
	Info      text.Colors
	Warning   text.Colors
	Error     text.Colors
	Heading   text.Colors
	Subtle    text.Colors
	Accent    text.Colors
	Badge     text.Colors
	Code      text.Colors

	TableHeader text.Colors
	TableBorder text.Colors
	TableRow    text.Colors
	TableAltRow text.Colors
	Title       text.Colors
}{
	Success: text.Colors{text.FgGreen},
	Info:    text.Colors{text.FgBlue},
	Warning: text.Colors{text.FgYellow},
	Error:   text.Colors{text.FgRed},
	Heading: text.Colors{text.FgHiCyan, text.Bold},
	Subtle:  text.Colors{text.FgHiBlack},
	Accent:  text.Colors{text.FgCyan},
	Badge:   text.Colors{text.FgHiYellow, text.Bold},
	Code:    text.Colors{text.FgHiGreen},

	TableHeader: text.Colors{text.FgHiBlue, text.Bold},
	TableBorder: text.Colors{text.FgBlue},
	TableRow:    text.Colors{text.FgWhite},
	TableAltRow: text.Colors{text.FgWhite, text.Faint},
	Title:       text.Colors{text.FgHiCyan, text.Bold},
}

// SetColorEnabled turns terminal colors on or off for every renderer
func SetColorEnabled(enabled bool) {
	color.NoColor = !enabled
	if enabled {
		text.EnableColors()
	} else {
		text.DisableColors()
	}
}

// bandColor is the score color: green for good, yellow for fair, red otherwise
func bandColor(band review.ScoreBand) *color.Color {
	switch band {
	case review.ScoreBandGood:
		return color.New(color.FgGreen, color.Bold)
	case review.ScoreBandFair:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// severityColors returns the colors used for a severity cell
func severityColors(severity review.IssueSeverity) text.Colors {
	switch severity.Normalize() {
	case review.IssueSeverityHigh:
		return text.Colors{text.FgHiRed, text.Bold}
	case review.IssueSeverityMedium:
		return text.Colors{text.FgHiYellow}
	default:
		return text.Colors{text.FgHiBlue}
	}
}

// IssueIcon returns the marker shown next to an issue of the given type
func IssueIcon(issueType review.IssueType) string {
	switch issueType {
	case review.IssueTypeBug:
		return "🐛"
	case review.IssueTypeSecurity:
		return "🔒"
	case review.IssueTypePerformance:
		return "⚡"
	case review.IssueTypeStyle:
		return "🎨"
	default:
		return "⚠"
	}
}

// newTable creates a table writer with the theme applied
func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if title != "" {
		t.SetTitle(title)
	}

	style := table.StyleLight
	style.Color.Header = Theme.TableHeader
	style.Color.Border = Theme.TableBorder
	style.Color.Separator = Theme.TableBorder
	style.Color.Row = Theme.TableRow
	style.Color.RowAlternate = Theme.TableAltRow
	style.Title.Colors = Theme.Title
	style.Title.Align = text.AlignLeft
	style.Options.DrawBorder = true
	style.Options.SeparateColumns = true
	style.Options.SeparateHeader = true
	style.Options.SeparateRows = false
	style.Box.PaddingLeft = " "
	style.Box.PaddingRight = " "
	t.SetStyle(style)

	return t
}

// PrintSuccess prints a success status line
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, Theme.Success.Sprint("✓ ")+message)
}

// PrintInfo prints an info status line
func PrintInfo(w io.Writer, message string) {
	fmt.Fprintln(w, Theme.Info.Sprint("ℹ ")+message)
}

// PrintWarning prints a warning status line
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintln(w, Theme.Warning.Sprint("⚠ ")+message)
}

// PrintError prints an error status line
func PrintError(w io.Writer, message string) {
	fmt.Fprintln(w, Theme.Error.Sprint("✗ ")+message)
}

// PrintHeading prints a heading line
func PrintHeading(w io.Writer, title string) {
	fmt.Fprintln(w, Theme.Heading.Sprint(title))
}
