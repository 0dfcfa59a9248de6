// ABOUTME: Rendering for the sync TUI screens
// ABOUTME: Implements the Bubble Tea View() function and all render helpers

package tui

import (
	"fmt"
	"strings"
)

// View renders the TUI
func (m model) View() string {
	if m.quitting {
		return m.renderFarewell()
	}

	if !m.ready {
		return "Loading...\n"
	}

	switch m.state {
	case stateEpisodes, stateDeviceFiles:
		return m.renderChecklistScreen()
	case stateSyncing:
		return titleStyle.Render("Syncing...") + "\n\n" +
			detailStyle.Render("Copying and deleting files, do not unplug the device.")
	case stateSummary:
		return m.renderSummary()
	}

	return ""
}

// renderChecklistScreen renders screen A or B with the shared chrome
func (m model) renderChecklistScreen() string {
	var title, status string

	if m.state == stateEpisodes {
		title = "Select episodes to copy to device"
		status = fmt.Sprintf("%d of %d episodes selected", m.episodeList.SelectedCount(), len(m.episodes))
	} else {
		title = "Select device files to keep (unselected files will be removed)"
		status = fmt.Sprintf("%d of %d files kept, %d to remove",
			m.fileList.SelectedCount(), len(m.files), len(m.files)-m.fileList.SelectedCount())
	}

	return titleStyle.Render(title) + "\n\n" +
		m.viewport.View() + "\n" +
		statusStyle.Width(m.width).Render(status) + "\n" +
		m.renderHelp()
}

// updateViewportContent builds and sets the viewport content for the active
// checklist. All rows are rendered; the viewport handles scrolling via YOffset.
func (m *model) updateViewportContent() {
	var content strings.Builder

	switch m.state {
	case stateEpisodes:
		if len(m.episodes) == 0 {
			content.WriteString(detailStyle.Render("No downloaded episodes found in the library.") + "\n")
			break
		}

		for i, ep := range m.episodes {
			line := fmt.Sprintf("%s %-44s %s",
				checkbox(m.episodeList.IsSelected(i)),
				truncate(ep.Title, 44),
				detailStyle.Render(fmt.Sprintf("%-24s %s", truncate(ep.Podcast, 24), ep.DownloadedAt.Format("2006-01-02"))),
			)

			if i == m.episodeList.Cursor() {
				line = cursorStyle.Render(line)
			}

			content.WriteString(line + "\n")
		}

	case stateDeviceFiles:
		if len(m.files) == 0 {
			content.WriteString(detailStyle.Render("No audio files on the device.") + "\n")
			break
		}

		for i, f := range m.files {
			detail := fmt.Sprintf("%7.2f MB", f.SizeMB())
			if f.Artist != "" {
				detail += "  " + truncate(f.Artist, 24)
			}

			line := fmt.Sprintf("%s %-44s %s",
				checkbox(m.fileList.IsSelected(i)),
				truncate(f.Name, 44),
				detailStyle.Render(detail),
			)

			if i == m.fileList.Cursor() {
				line = cursorStyle.Render(line)
			}

			content.WriteString(line + "\n")
		}
	}

	m.viewport.SetContent(content.String())
}

// renderSummary renders the post-sync report and unmount prompt
func (m model) renderSummary() string {
	var b strings.Builder

	title := "Sync complete"
	if m.report != nil && m.report.HasFailures() {
		title = "Sync finished with errors"
	}

	if m.dryRun {
		title += " (dry-run, nothing written)"
	}

	b.WriteString(titleStyle.Render(title) + "\n\n")

	if m.report != nil {
		b.WriteString(okStyle.Render(fmt.Sprintf("  Copied:  %d", len(m.report.Copied))) + "\n")
		b.WriteString(okStyle.Render(fmt.Sprintf("  Skipped: %d (already on device)", len(m.report.Skipped))) + "\n")
		b.WriteString(okStyle.Render(fmt.Sprintf("  Deleted: %d", len(m.report.Deleted))) + "\n")

		for _, fe := range m.report.CopyErrors {
			b.WriteString(errStyle.Render(fmt.Sprintf("  copy failed: %s: %v", fe.Name, fe.Err)) + "\n")
		}

		for _, fe := range m.report.DeleteErrors {
			b.WriteString(errStyle.Render(fmt.Sprintf("  delete failed: %s: %v", fe.Name, fe.Err)) + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render(" u: unmount device | m: keep mounted"))

	return b.String()
}

// renderFarewell renders the final line shown as the program exits
func (m model) renderFarewell() string {
	switch {
	case m.aborted:
		return "Aborted, no changes made.\n"
	case m.unmountErr != nil:
		return errStyle.Render(fmt.Sprintf("Unmount failed: %v", m.unmountErr)) + "\nDevice remains mounted.\n"
	case m.unmounted:
		return "Device unmounted. Bye!\n"
	default:
		return "Sync complete. Device remains mounted.\n"
	}
}

// renderHelp renders the help text for the checklist screens
func (m model) renderHelp() string {
	return helpStyle.Render(" ↑/↓/j/k: navigate | space: toggle | enter: confirm | q: quit without changes")
}

// checkbox renders the toggle marker for a row
func checkbox(selected bool) string {
	if selected {
		return "[x]"
	}

	return "[ ]"
}
