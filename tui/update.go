// ABOUTME: Event handling and state transitions for the sync TUI
// ABOUTME: Implements the Bubble Tea Update() function and key handlers

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		viewportWidth := msg.Width
		if viewportWidth < minViewportWidth {
			viewportWidth = minViewportWidth
		}

		viewportHeight := msg.Height - totalUIChrome
		if viewportHeight < minViewportHeight {
			viewportHeight = minViewportHeight
		}

		m.viewport.Width = viewportWidth
		m.viewport.Height = viewportHeight
		m.viewport.YOffset = 0
		m.ready = true

		m.ensureCursorVisible()
		m.updateViewportContent()

		return m, nil

	case syncDoneMsg:
		report := msg.report
		m.report = &report
		m.state = stateSummary
		m.debugf("[tui] sync finished: %d copied, %d skipped, %d deleted, %d copy errors, %d delete errors",
			len(report.Copied), len(report.Skipped), len(report.Deleted),
			len(report.CopyErrors), len(report.DeleteErrors))

		return m, nil

	case unmountDoneMsg:
		m.unmountErr = msg.err
		m.unmounted = msg.err == nil
		m.quitting = true

		if msg.err != nil {
			m.debugf("[tui] unmount failed: %v", msg.err)
		}

		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes key presses by run state
func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	// The batch is not interruptible once confirmed
	if m.state == stateSyncing {
		return m, nil
	}

	if m.state == stateSummary {
		return m.handleSummaryKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		// Quit before syncing leaves the filesystem untouched
		m.aborted = true
		m.quitting = true
		m.debugf("[tui] user quit at state %d, no changes made", m.state)

		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		m.activeList().CursorUp()
		m.ensureCursorVisible()
		m.updateViewportContent()

	case key.Matches(msg, keys.Down):
		m.activeList().CursorDown()
		m.ensureCursorVisible()
		m.updateViewportContent()

	case key.Matches(msg, keys.Toggle):
		m.activeList().Toggle()
		m.updateViewportContent()

	case key.Matches(msg, keys.Confirm):
		return m.handleConfirm()
	}

	return m, nil
}

// handleConfirm advances the state machine. An empty selection is a valid
// confirmation on both screens.
func (m model) handleConfirm() (model, tea.Cmd) {
	switch m.state {
	case stateEpisodes:
		m.state = stateDeviceFiles
		m.viewport.YOffset = 0
		m.ensureCursorVisible()
		m.updateViewportContent()

		return m, nil

	case stateDeviceFiles:
		m.state = stateSyncing

		return m, m.startSync()

	default:
		return m, nil
	}
}

// handleSummaryKey handles the unmount prompt after the sync completes
func (m model) handleSummaryKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Unmount):
		if m.dryRun {
			// Nothing was written; treat unmount as keep-mounted
			m.quitting = true

			return m, tea.Quit
		}

		return m, m.startUnmount()

	case key.Matches(msg, keys.KeepMounted), key.Matches(msg, keys.Quit):
		m.quitting = true

		return m, tea.Quit
	}

	return m, nil
}
