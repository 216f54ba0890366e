package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tildaslashalef/snapreview/internal/pipeline"
	"github.com/tildaslashalef/snapreview/internal/render"
)

// View renders the UI based on the model's current state
func (m Model) View() string {
	if !m.ready {
		return "Initializing...\n"
	}

	var body string
	switch m.snapshot.State {
	case pipeline.StateSubmitting:
		body = lipgloss.Place(m.width, m.viewport.Height,
			lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+m.styles.Paragraph.Render("Reviewing "+m.source.Name+"..."))
	case pipeline.StateIdle:
		body = lipgloss.Place(m.width, m.viewport.Height,
			lipgloss.Center, lipgloss.Center,
			m.styles.Subtle.Render("Press 'r' to review "+m.source.Name))
	default:
		body = m.viewport.View()
	}

	var footer string
	if m.showHelp {
		footer = m.help.View(Keys)
	} else {
		footer = m.help.ShortHelpView(Keys.ShortHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		footer,
	)
}

// renderHeader shows the file, language, state and score
func (m Model) renderHeader() string {
	left := m.styles.Header.Render(fmt.Sprintf("%s %s",
		m.styles.Title.Render(m.source.Name),
		m.styles.Subtle.Render("("+m.source.Language+")")))

	right := m.styles.State(m.snapshot.State)
	if r := m.snapshot.Review; r != nil {
		right = fmt.Sprintf("%s  Score %s", right, m.styles.Score(r.Score))
	}
	right = m.styles.Header.Render(right)

	spacerWidth := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacerWidth < 0 {
		spacerWidth = 0
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, spacer, right)
}

// renderReview renders the current review as terminal markdown sized to the viewport
func (m Model) renderReview() string {
	r := m.snapshot.Review
	if r == nil {
		return ""
	}
	if r.IsPipelineError() {
		return m.styles.Error.Render(r.Issues[0].Description) + "\n\n" +
			m.styles.Subtle.Render("Press 'r' to try again.")
	}

	md := render.Markdown(r, m.source.Language)
	out, err := render.Terminal(md, max(m.width-4, 20))
	if err != nil {
		m.logger.Warn("Falling back to plain markdown", "error", err)
		return md
	}
	return out
}
