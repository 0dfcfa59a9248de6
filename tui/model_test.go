// ABOUTME: Tests for the sync TUI state machine driven through Update()
// ABOUTME: Verifies no filesystem mutation happens before both confirms

package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"podsync/device"
	"podsync/library"
)

// syncRecorder captures executor invocations in place of a real Syncer
type syncRecorder struct {
	calls    int
	episodes []library.Episode
	keep     map[string]bool
	report   device.Report
}

func (r *syncRecorder) run(selected []library.Episode, keep map[string]bool) device.Report {
	r.calls++
	r.episodes = selected
	r.keep = keep

	return r.report
}

// unmountRecorder captures unmount invocations
type unmountRecorder struct {
	calls int
	err   error
}

func (r *unmountRecorder) unmount(_ context.Context) error {
	r.calls++

	return r.err
}

// createTestModel creates a model with mock dependencies for testing
func createTestModel(episodes []library.Episode, files []device.File, sync *syncRecorder, un *unmountRecorder) model {
	return initModel(Options{}, episodes, files, sync.run, un.unmount, nil)
}

// createTestEpisodes creates sample episodes for testing
func createTestEpisodes(count int) []library.Episode {
	episodes := make([]library.Episode, count)
	for i := range episodes {
		episodes[i] = library.Episode{
			Title:        string(rune('A' + i)),
			Podcast:      "Test Show",
			Path:         "/library/" + string(rune('A'+i)) + ".mp3",
			DownloadedAt: time.Date(2024, 1, count-i, 0, 0, 0, 0, time.UTC),
		}
	}

	return episodes
}

// createTestFiles creates sample device files for testing
func createTestFiles(names ...string) []device.File {
	files := make([]device.File, len(names))
	for i, name := range names {
		files[i] = device.File{Name: name, Path: "/Volumes/X/" + name, Size: 1024}
	}

	return files
}

// press feeds a key message through Update and returns the resulting model
func press(t *testing.T, m model, msg tea.KeyMsg) (model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)

	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned unexpected model type %T", next)
	}

	return nm, cmd
}

var (
	keyUp     = tea.KeyMsg{Type: tea.KeyUp}
	keyDown   = tea.KeyMsg{Type: tea.KeyDown}
	keySpace  = tea.KeyMsg{Type: tea.KeySpace}
	keyEnter  = tea.KeyMsg{Type: tea.KeyEnter}
	keyQuit   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
	keyEject  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")}
	keyKeep   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")}
	sizeEvent = tea.WindowSizeMsg{Width: 80, Height: 24}
)

// resize delivers an initial window size so the viewport is usable
func resize(t *testing.T, m model) model {
	t.Helper()

	next, _ := m.Update(sizeEvent)

	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned unexpected model type %T", next)
	}

	return nm
}

func TestInitialState(t *testing.T) {
	sync := &syncRecorder{}
	un := &unmountRecorder{}
	m := createTestModel(createTestEpisodes(3), createTestFiles("a.mp3"), sync, un)

	if m.state != stateEpisodes {
		t.Errorf("Expected initial state stateEpisodes, got %d", m.state)
	}

	if m.episodeList.SelectedCount() != 0 || m.fileList.SelectedCount() != 0 {
		t.Error("Expected both checklists to start unselected")
	}
}

func TestQuitAtEpisodeScreenMakesNoChanges(t *testing.T) {
	sync := &syncRecorder{}
	un := &unmountRecorder{}
	m := resize(t, createTestModel(createTestEpisodes(3), createTestFiles("a.mp3"), sync, un))

	m, _ = press(t, m, keyQuit)

	if !m.aborted {
		t.Error("Expected aborted after quit")
	}

	if sync.calls != 0 {
		t.Errorf("Expected no sync on quit, got %d calls", sync.calls)
	}

	if un.calls != 0 {
		t.Errorf("Expected no unmount on quit, got %d calls", un.calls)
	}
}

func TestQuitAtDeviceScreenMakesNoChanges(t *testing.T) {
	sync := &syncRecorder{}
	un := &unmountRecorder{}
	m := resize(t, createTestModel(createTestEpisodes(3), createTestFiles("a.mp3"), sync, un))

	m, _ = press(t, m, keyEnter) // confirm screen A
	if m.state != stateDeviceFiles {
		t.Fatalf("Expected stateDeviceFiles after confirm, got %d", m.state)
	}

	m, _ = press(t, m, keyQuit)

	if !m.aborted || sync.calls != 0 || un.calls != 0 {
		t.Error("Expected abort with zero filesystem activity")
	}
}

func TestFullFlowInvokesSyncWithSelections(t *testing.T) {
	sync := &syncRecorder{report: device.Report{Copied: []string{"A.mp3"}}}
	un := &unmountRecorder{}
	episodes := createTestEpisodes(3)
	files := createTestFiles("keep.mp3", "remove.mp3")
	m := resize(t, createTestModel(episodes, files, sync, un))

	// Screen A: select first and third episode
	m, _ = press(t, m, keySpace)
	m, _ = press(t, m, keyDown)
	m, _ = press(t, m, keyDown)
	m, _ = press(t, m, keySpace)
	m, _ = press(t, m, keyEnter)

	// Screen B: keep only the first file
	m, _ = press(t, m, keySpace)

	var cmd tea.Cmd

	m, cmd = press(t, m, keyEnter)

	if m.state != stateSyncing {
		t.Fatalf("Expected stateSyncing after second confirm, got %d", m.state)
	}

	if cmd == nil {
		t.Fatal("Expected sync command after second confirm")
	}

	// Execute the batch and deliver its result
	msg := cmd()

	done, ok := msg.(syncDoneMsg)
	if !ok {
		t.Fatalf("Expected syncDoneMsg, got %T", msg)
	}

	next, _ := m.Update(done)
	m = next.(model)

	if m.state != stateSummary {
		t.Errorf("Expected stateSummary after sync, got %d", m.state)
	}

	if sync.calls != 1 {
		t.Fatalf("Expected exactly one sync call, got %d", sync.calls)
	}

	if len(sync.episodes) != 2 || sync.episodes[0].Title != "A" || sync.episodes[1].Title != "C" {
		t.Errorf("Unexpected episode selection: %v", sync.episodes)
	}

	if len(sync.keep) != 1 || !sync.keep["keep.mp3"] {
		t.Errorf("Unexpected keep set: %v", sync.keep)
	}

	if m.report == nil || len(m.report.Copied) != 1 {
		t.Errorf("Expected report carried into summary, got %+v", m.report)
	}
}

func TestEmptySelectionsAreValidConfirms(t *testing.T) {
	sync := &syncRecorder{}
	un := &unmountRecorder{}
	m := resize(t, createTestModel(createTestEpisodes(2), createTestFiles("a.mp3"), sync, un))

	m, _ = press(t, m, keyEnter)

	var cmd tea.Cmd

	m, cmd = press(t, m, keyEnter)

	if cmd == nil {
		t.Fatal("Expected sync command")
	}

	cmd()

	if sync.calls != 1 {
		t.Fatalf("Expected sync call, got %d", sync.calls)
	}

	if len(sync.episodes) != 0 {
		t.Errorf("Expected empty episode selection, got %v", sync.episodes)
	}

	if len(sync.keep) != 0 {
		t.Errorf("Expected empty keep set (remove-by-default), got %v", sync.keep)
	}
}

func TestQuitIgnoredWhileSyncing(t *testing.T) {
	sync := &syncRecorder{}
	un := &unmountRecorder{}
	m := resize(t, createTestModel(createTestEpisodes(1), nil, sync, un))
	m.state = stateSyncing

	m, _ = press(t, m, keyQuit)

	if m.state != stateSyncing || m.aborted {
		t.Error("Expected quit to be ignored during sync")
	}
}

func TestUnmountFromSummary(t *testing.T) {
	sync := &syncRecorder{}
	un := &unmountRecorder{}
	m := resize(t, createTestModel(nil, nil, sync, un))
	m.state = stateSummary
	m.report = &device.Report{}

	m, cmd := press(t, m, keyEject)
	if cmd == nil {
		t.Fatal("Expected unmount command")
	}

	msg := cmd()

	next, _ := m.Update(msg)
	m = next.(model)

	if un.calls != 1 {
		t.Errorf("Expected exactly one unmount attempt, got %d", un.calls)
	}

	if !m.unmounted || !m.quitting {
		t.Error("Expected model to record successful unmount and quit")
	}
}

func TestKeepMountedSkipsUnmount(t *testing.T) {
	sync := &syncRecorder{}
	un := &unmountRecorder{}
	m := resize(t, createTestModel(nil, nil, sync, un))
	m.state = stateSummary
	m.report = &device.Report{}

	m, _ = press(t, m, keyKeep)

	if un.calls != 0 {
		t.Errorf("Expected no unmount, got %d calls", un.calls)
	}

	if !m.quitting {
		t.Error("Expected quit after keeping mounted")
	}
}

func TestCursorMovementClamped(t *testing.T) {
	sync := &syncRecorder{}
	un := &unmountRecorder{}
	m := resize(t, createTestModel(createTestEpisodes(2), nil, sync, un))

	m, _ = press(t, m, keyUp)
	if m.episodeList.Cursor() != 0 {
		t.Errorf("Expected cursor clamped at 0, got %d", m.episodeList.Cursor())
	}

	m, _ = press(t, m, keyDown)
	m, _ = press(t, m, keyDown)
	m, _ = press(t, m, keyDown)

	if m.episodeList.Cursor() != 1 {
		t.Errorf("Expected cursor clamped at 1, got %d", m.episodeList.Cursor())
	}
}
