// Package tui is an interactive terminal view of one review pipeline.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tildaslashalef/snapreview/internal/loggy"
	"github.com/tildaslashalef/snapreview/internal/pipeline"
)

// headerHeight and footerHeight are the rows reserved around the viewport
const (
	headerHeight = 3
	footerHeight = 2
)

// Reviewer is the part of the pipeline the TUI drives
type Reviewer interface {
	Submit(sourceCode, languageTag string)
	Snapshot() pipeline.Snapshot
	Subscribe() (<-chan pipeline.Snapshot, func())
}

// StdinName is the Source name used for piped input
const StdinName = "stdin"

// Source is the code under review
type Source struct {
	Name     string // file name, "stdin" when piped
	Code     string
	Language string
}

// Model represents the TUI model state
type Model struct {
	reviewer    Reviewer
	source      Source
	updates     <-chan pipeline.Snapshot
	unsubscribe func()
	logger      *loggy.Logger

	snapshot pipeline.Snapshot
	width    int
	height   int
	ready    bool
	showHelp bool

	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	styles   Styles
}

// NewModel subscribes to reviewer and returns a model that submits source on Init
func NewModel(reviewer Reviewer, source Source, logger *loggy.Logger) Model {
	styles := DefaultStyles()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	h := help.New()
	h.ShowAll = false

	vp := viewport.New(10, 10)
	vp.Style = styles.Paragraph

	updates, unsubscribe := reviewer.Subscribe()

	return Model{
		reviewer:    reviewer,
		source:      source,
		updates:     updates,
		unsubscribe: unsubscribe,
		logger:      logger,
		snapshot:    reviewer.Snapshot(),
		viewport:    vp,
		spinner:     s,
		help:        h,
		styles:      styles,
	}
}

// Init starts the spinner, the snapshot listener and the first review
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForSnapshot(m.updates),
		submitCmd(m.reviewer, m.source),
	)
}

// Snapshot returns the last snapshot the model has seen
func (m Model) Snapshot() pipeline.Snapshot {
	return m.snapshot
}
