package tui

import (
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/snapreview/internal/loggy"
	"github.com/tildaslashalef/snapreview/internal/pipeline"
	"github.com/tildaslashalef/snapreview/internal/review"
)

type fakeReviewer struct {
	mu       sync.Mutex
	submits  []string
	snapshot pipeline.Snapshot
	updates  chan pipeline.Snapshot
	closed   bool
}

func newFakeReviewer() *fakeReviewer {
	return &fakeReviewer{
		snapshot: pipeline.Snapshot{State: pipeline.StateIdle},
		updates:  make(chan pipeline.Snapshot, 4),
	}
}

func (f *fakeReviewer) Submit(sourceCode, languageTag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, languageTag+":"+sourceCode)
}

func (f *fakeReviewer) Snapshot() pipeline.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot
}

func (f *fakeReviewer) Subscribe() (<-chan pipeline.Snapshot, func()) {
	return f.updates, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if !f.closed {
			f.closed = true
			close(f.updates)
		}
	}
}

func (f *fakeReviewer) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submits)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) (Model, *fakeReviewer) {
	t.Helper()
	reviewer := newFakeReviewer()
	m := NewModel(reviewer, Source{Name: "main.go", Code: "package main", Language: "go"}, loggy.NewNoopLogger())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), reviewer
}

func successSnapshot() pipeline.Snapshot {
	return pipeline.Snapshot{
		State: pipeline.StateSuccess,
		Cycle: "cyc-1",
		Review: &review.Review{
			Score:     review.IntScore(85),
			Positives: []string{"Clear structure"},
		},
	}
}

func TestViewBeforeResize(t *testing.T) {
	m := NewModel(newFakeReviewer(), Source{Name: "main.go"}, loggy.NewNoopLogger())
	assert.Equal(t, "Initializing...\n", m.View())
}

func TestSubmitCmd(t *testing.T) {
	reviewer := newFakeReviewer()
	msg := submitCmd(reviewer, Source{Code: "x = 1", Language: "python"})()

	assert.IsType(t, submittedMsg{}, msg)
	assert.Equal(t, []string{"python:x = 1"}, reviewer.submits)
}

func TestWaitForSnapshot(t *testing.T) {
	updates := make(chan pipeline.Snapshot, 1)
	updates <- successSnapshot()

	msg := waitForSnapshot(updates)()
	require.IsType(t, snapshotMsg{}, msg)
	assert.Equal(t, pipeline.StateSuccess, msg.(snapshotMsg).snapshot.State)

	close(updates)
	assert.IsType(t, subscriptionClosedMsg{}, waitForSnapshot(updates)())
}

func TestWindowResize(t *testing.T) {
	m, _ := newTestModel(t)

	assert.True(t, m.ready)
	assert.Equal(t, 100, m.viewport.Width)
	assert.Equal(t, 30-headerHeight-footerHeight, m.viewport.Height)
}

func TestSnapshotRendersReview(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(snapshotMsg{snapshot: successSnapshot()})
	m = next.(Model)

	assert.NotNil(t, cmd, "the model keeps listening for snapshots")
	assert.Equal(t, pipeline.StateSuccess, m.Snapshot().State)

	view := m.View()
	assert.Contains(t, view, "main.go")
	assert.Contains(t, view, "success")
	assert.Contains(t, view, "85")
	assert.Contains(t, view, "Clear structure")
}

func TestSubmittingShowsSpinner(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(snapshotMsg{snapshot: pipeline.Snapshot{State: pipeline.StateSubmitting, Cycle: "cyc-2"}})
	view := next.(Model).View()

	assert.Contains(t, view, "Reviewing main.go...")
	assert.Contains(t, view, "submitting")
}

func TestFailedShowsPipelineError(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(snapshotMsg{snapshot: pipeline.Snapshot{
		State:  pipeline.StateFailed,
		Review: review.NewPipelineErrorReview(),
	}})
	view := next.(Model).View()

	assert.Contains(t, view, "failed")
	assert.Contains(t, view, review.PipelineErrorDescription)
}

func TestResubmitKey(t *testing.T) {
	m, reviewer := newTestModel(t)

	next, _ := m.Update(snapshotMsg{snapshot: pipeline.Snapshot{State: pipeline.StateSubmitting}})
	m = next.(Model)
	_, cmd := m.Update(keyMsg("r"))
	assert.Nil(t, cmd, "no resubmit while a review is in flight")

	next, _ = m.Update(snapshotMsg{snapshot: successSnapshot()})
	m = next.(Model)
	_, cmd = m.Update(keyMsg("r"))
	require.NotNil(t, cmd)

	// Run the batched commands that do not block
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c == nil {
			continue
		}
		if _, isSubmit := c().(submittedMsg); isSubmit {
			break
		}
	}
	assert.Equal(t, 1, reviewer.submitCount())
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	short := m.View()

	next, _ := m.Update(keyMsg("?"))
	m = next.(Model)
	assert.True(t, m.showHelp)
	assert.NotEqual(t, short, m.View())
	assert.True(t, strings.Contains(m.View(), "scroll"))
}

func TestQuitUnsubscribes(t *testing.T) {
	m, reviewer := newTestModel(t)

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	reviewer.mu.Lock()
	defer reviewer.mu.Unlock()
	assert.True(t, reviewer.closed)
}

func TestStyles(t *testing.T) {
	styles := DefaultStyles()
	assert.Contains(t, styles.State(pipeline.StateSubmitting), "submitting")
	assert.Contains(t, styles.Score(review.IntScore(42)), "42")
	assert.Contains(t, styles.State("unknown"), "unknown")
}
