package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tildaslashalef/snapreview/internal/pipeline"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.ready = true
		m.logger.Debug("Window resized", "width", m.width, "height", m.height)
		m.refreshContent()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Quit):
			m.logger.Info("Quit key pressed, shutting down TUI")
			if m.unsubscribe != nil {
				m.unsubscribe()
			}
			return m, tea.Quit

		case key.Matches(msg, Keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, Keys.Resubmit):
			if m.snapshot.State == pipeline.StateSubmitting {
				return m, nil
			}
			m.logger.Info("Resubmitting review", "language", m.source.Language)
			return m, tea.Batch(m.spinner.Tick, submitCmd(m.reviewer, m.source))

		default:
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case snapshotMsg:
		prev := m.snapshot.State
		m.snapshot = msg.snapshot
		m.logger.Debug("Snapshot received", "state", m.snapshot.State, "cycle_id", m.snapshot.Cycle)
		m.refreshContent()
		cmds := []tea.Cmd{waitForSnapshot(m.updates)}
		if m.snapshot.State == pipeline.StateSubmitting && prev != pipeline.StateSubmitting {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case subscriptionClosedMsg, submittedMsg:
		return m, nil

	case spinner.TickMsg:
		if m.snapshot.State != pipeline.StateSubmitting {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refreshContent re-renders the review into the viewport
func (m *Model) refreshContent() {
	if !m.ready || m.snapshot.Review == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.renderReview())
	m.viewport.GotoTop()
}
