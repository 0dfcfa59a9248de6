// ABOUTME: Terminal UI model and whole-run state machine for the sync flow
// ABOUTME: Bubble Tea model wiring the two checklist screens to the sync executor

package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"podsync/device"
	"podsync/library"
)

// Run states. Transitions only move forward; quitting before stateSyncing
// leaves the filesystem untouched.
type runState int

const (
	stateEpisodes    runState = iota // Screen A: pick episodes to copy
	stateDeviceFiles                 // Screen B: pick device files to keep
	stateSyncing                     // Copy/delete batch running, not interruptible
	stateSummary                     // Results shown, unmount prompt
)

// Layout constants for UI dimensions
const (
	// UI chrome heights (elements that reduce available viewport space)
	titleHeight     = 2 // Screen title
	statusBarHeight = 1 // Bottom status bar
	helpHeight      = 1 // Help text line
	spacingHeight   = 1 // Vertical spacing
	totalUIChrome   = titleHeight + statusBarHeight + helpHeight + spacingHeight

	// Minimum viewport dimensions to ensure usability
	minViewportWidth  = 20
	minViewportHeight = 3
)

// RunSyncFunc executes the copy/delete batch for the confirmed selections
type RunSyncFunc func(selected []library.Episode, keep map[string]bool) device.Report

// UnmountFunc requests ejection of the device volume
type UnmountFunc func(ctx context.Context) error

// Options contains configuration for running the TUI
type Options struct {
	DryRun bool // If true, the executor only reports what it would do
}

// syncDoneMsg carries the report once the copy/delete batch finishes
type syncDoneMsg struct {
	report device.Report
}

// unmountDoneMsg carries the result of the unmount attempt
type unmountDoneMsg struct {
	err error
}

// model holds the TUI state
type model struct {
	// Dependencies (function values following the rest of the codebase)
	runSync RunSyncFunc
	unmount UnmountFunc
	debugf  func(string, ...interface{})

	// Items under selection
	episodes []library.Episode
	files    []device.File

	// Selection state, one checklist per screen
	episodeList Checklist
	fileList    Checklist

	// Run state
	state      runState
	report     *device.Report
	unmountErr error
	unmounted  bool
	aborted    bool
	quitting   bool
	dryRun     bool

	// UI state
	width    int
	height   int
	viewport viewport.Model
	ready    bool
}

// Key bindings
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Confirm     key.Binding
	Quit        key.Binding
	Unmount     key.Binding
	KeepMounted key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Unmount: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "unmount"),
	),
	KeepMounted: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "keep mounted"),
	),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9"))
)

// Run starts the interactive sync flow with injected dependencies. It returns
// the sync report, or nil when the user quit before confirming both screens.
func Run(opts Options, episodes []library.Episode, files []device.File, runSync RunSyncFunc, unmount UnmountFunc, debugf func(string, ...interface{})) (*device.Report, error) {
	m := initModel(opts, episodes, files, runSync, unmount, debugf)

	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}

	fm, ok := finalModel.(model)
	if !ok || fm.aborted {
		return nil, nil
	}

	return fm.report, nil
}

// initModel creates the initial model with injected dependencies
func initModel(opts Options, episodes []library.Episode, files []device.File, runSync RunSyncFunc, unmount UnmountFunc, debugf func(string, ...interface{})) model {
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	return model{
		runSync: runSync,
		unmount: unmount,
		debugf:  debugf,

		episodes:    episodes,
		files:       files,
		episodeList: NewChecklist(len(episodes)),
		fileList:    NewChecklist(len(files)),

		state:  stateEpisodes,
		dryRun: opts.DryRun,

		// Width and height set on first WindowSizeMsg
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// activeList returns the checklist for the current screen
func (m *model) activeList() *Checklist {
	if m.state == stateDeviceFiles {
		return &m.fileList
	}

	return &m.episodeList
}

// selectedEpisodes resolves the episode checklist to Episode values
func (m *model) selectedEpisodes() []library.Episode {
	indices := m.episodeList.Selected()

	selected := make([]library.Episode, 0, len(indices))
	for _, i := range indices {
		selected = append(selected, m.episodes[i])
	}

	return selected
}

// keepSet resolves the file checklist to a keep map keyed by device file name
func (m *model) keepSet() map[string]bool {
	keep := make(map[string]bool, m.fileList.SelectedCount())
	for _, i := range m.fileList.Selected() {
		keep[m.files[i].Name] = true
	}

	return keep
}

// startSync returns a command that runs the copy/delete batch. Once started
// the batch runs to completion; there is no cancellation mid-copy.
func (m *model) startSync() tea.Cmd {
	selected := m.selectedEpisodes()
	keep := m.keepSet()

	m.debugf("[tui] sync confirmed: %d episodes to copy, %d of %d device files kept",
		len(selected), len(keep), len(m.files))

	return func() tea.Msg {
		return syncDoneMsg{report: m.runSync(selected, keep)}
	}
}

// startUnmount returns a command that requests device ejection
func (m *model) startUnmount() tea.Cmd {
	return func() tea.Msg {
		return unmountDoneMsg{err: m.unmount(context.Background())}
	}
}

// ensureCursorVisible adjusts the viewport offset for the active checklist
func (m *model) ensureCursorVisible() {
	list := m.activeList()
	s := NewScroller(m.viewport.Height, list.Cursor(), list.Count())
	m.viewport.SetYOffset(s.Offset())
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}
