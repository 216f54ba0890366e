package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tildaslashalef/snapreview/internal/pipeline"
)

// snapshotMsg carries a snapshot published by the pipeline
type snapshotMsg struct {
	snapshot pipeline.Snapshot
}

// subscriptionClosedMsg is sent once the snapshot channel is closed
type subscriptionClosedMsg struct{}

// submittedMsg is sent after a submit has been handed to the pipeline
type submittedMsg struct{}

// waitForSnapshot blocks on the next snapshot. The model re-issues it after every snapshotMsg.
func waitForSnapshot(updates <-chan pipeline.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return subscriptionClosedMsg{}
		}
		return snapshotMsg{snapshot: snap}
	}
}

func submitCmd(reviewer Reviewer, source Source) tea.Cmd {
	return func() tea.Msg {
		reviewer.Submit(source.Code, source.Language)
		return submittedMsg{}
	}
}
