package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tildaslashalef/snapreview/internal/pipeline"
	"github.com/tildaslashalef/snapreview/internal/review"
)

// Theme represents the color theme for the TUI
type Theme struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Info      lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	TextDim   lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
}

// GruvboxTheme creates a new Gruvbox-inspired theme
func GruvboxTheme() Theme {
	return Theme{
		Primary:   lipgloss.AdaptiveColor{Light: "#b8bb26", Dark: "#b8bb26"},
		Secondary: lipgloss.AdaptiveColor{Light: "#fe8019", Dark: "#fe8019"},
		Success:   lipgloss.AdaptiveColor{Light: "#98971a", Dark: "#b8bb26"},
		Warning:   lipgloss.AdaptiveColor{Light: "#d79921", Dark: "#fabd2f"},
		Error:     lipgloss.AdaptiveColor{Light: "#cc241d", Dark: "#fb4934"},
		Info:      lipgloss.AdaptiveColor{Light: "#458588", Dark: "#83a598"},
		Border:    lipgloss.AdaptiveColor{Light: "#d5c4a1", Dark: "#504945"},
		Text:      lipgloss.AdaptiveColor{Light: "#3c3836", Dark: "#fbf1c7"},
		TextDim:   lipgloss.AdaptiveColor{Light: "#7c6f64", Dark: "#a89984"},
		Highlight: lipgloss.AdaptiveColor{Light: "#d5c4a1", Dark: "#3c3836"},
	}
}

// Styles contains predefined styles for the TUI
type Styles struct {
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Paragraph lipgloss.Style
	Spinner   lipgloss.Style
	StatusBar lipgloss.Style
	Header    lipgloss.Style
	Good      lipgloss.Style
	Fair      lipgloss.Style
	Poor      lipgloss.Style
	Error     lipgloss.Style

	states map[pipeline.State]lipgloss.Style
}

// DefaultStyles returns default styles for the TUI
func DefaultStyles() Styles {
	theme := GruvboxTheme()
	badge := lipgloss.NewStyle().Bold(true).PaddingLeft(1).PaddingRight(1)

	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(theme.Text),
		Subtle:    lipgloss.NewStyle().Foreground(theme.TextDim),
		Paragraph: lipgloss.NewStyle().Foreground(theme.Text),
		Spinner:   lipgloss.NewStyle().Foreground(theme.Secondary),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Text).
			Background(theme.Highlight).
			PaddingLeft(1).
			PaddingRight(1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Text).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			PaddingLeft(1).
			PaddingRight(1),
		Good:  lipgloss.NewStyle().Bold(true).Foreground(theme.Success),
		Fair:  lipgloss.NewStyle().Bold(true).Foreground(theme.Warning),
		Poor:  lipgloss.NewStyle().Bold(true).Foreground(theme.Error),
		Error: lipgloss.NewStyle().Bold(true).Foreground(theme.Error),

		states: map[pipeline.State]lipgloss.Style{
			pipeline.StateIdle:       badge.Foreground(theme.TextDim),
			pipeline.StateSubmitting: badge.Foreground(theme.Info),
			pipeline.StateSuccess:    badge.Foreground(theme.Success),
			pipeline.StateFailed:     badge.Foreground(theme.Error),
		},
	}
}

// State renders the badge for a pipeline state
func (s Styles) State(state pipeline.State) string {
	style, ok := s.states[state]
	if !ok {
		style = s.Subtle
	}
	return style.Render(string(state))
}

// Score renders a score in its band color
func (s Styles) Score(score review.Score) string {
	switch score.Band() {
	case review.ScoreBandGood:
		return s.Good.Render(score.String())
	case review.ScoreBandFair:
		return s.Fair.Render(score.String())
	default:
		return s.Poor.Render(score.String())
	}
}
