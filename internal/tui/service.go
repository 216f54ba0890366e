package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tildaslashalef/snapreview/internal/loggy"
	"github.com/tildaslashalef/snapreview/internal/pipeline"
)

// Run starts the TUI for source and returns the last snapshot it saw
func Run(ctx context.Context, reviewer Reviewer, source Source, logger *loggy.Logger) (pipeline.Snapshot, error) {
	model := NewModel(reviewer, source, logger)
	defer model.unsubscribe()

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}
	// Piped source leaves stdin at EOF, so keys come from the terminal
	if source.Name == StdinName {
		opts = append(opts, tea.WithInputTTY())
	}

	p := tea.NewProgram(model, opts...)

	final, err := p.Run()
	if err != nil {
		return reviewer.Snapshot(), fmt.Errorf("error running TUI: %w", err)
	}
	if fm, ok := final.(Model); ok {
		return fm.Snapshot(), nil
	}
	return reviewer.Snapshot(), nil
}
