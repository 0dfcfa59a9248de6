// ABOUTME: Sync executor copying selected episodes onto the device and pruning files
// ABOUTME: Collects per-file failures into a report instead of aborting the batch

package device

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"podsync/library"
)

// FileError records a single failed copy or delete
type FileError struct {
	Name string
	Err  error
}

// Report summarizes one sync run. Per-file failures never abort the batch;
// they are collected here and shown in the final summary.
type Report struct {
	Copied       []string
	Skipped      []string
	Deleted      []string
	CopyErrors   []FileError
	DeleteErrors []FileError
	DryRun       bool
}

// HasFailures reports whether any per-file operation failed
func (r Report) HasFailures() bool {
	return len(r.CopyErrors) > 0 || len(r.DeleteErrors) > 0
}

// Syncer performs the copy and delete phases of a sync
type Syncer struct {
	audioDir string
	dryRun   bool
	debugf   func(string, ...interface{})
}

// NewSyncer creates a syncer targeting the device's audio folder
func NewSyncer(audioDir string, dryRun bool, debugf func(string, ...interface{})) *Syncer {
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	return &Syncer{audioDir: audioDir, dryRun: dryRun, debugf: debugf}
}

// Run copies each selected episode into the audio folder and deletes every
// enumerated device file not in the keep set. Matching is by file name only;
// an episode whose derived name already exists non-empty on the device is
// skipped rather than re-copied. Operations are not transactional and there
// is no rollback.
func (s *Syncer) Run(episodes []library.Episode, files []File, keep map[string]bool) Report {
	report := Report{DryRun: s.dryRun}

	if len(episodes) > 0 && !s.dryRun {
		if err := os.MkdirAll(s.audioDir, 0755); err != nil {
			// Without the folder every copy would fail the same way
			for _, ep := range episodes {
				report.CopyErrors = append(report.CopyErrors, FileError{Name: ep.FileName(), Err: err})
			}

			episodes = nil
		}
	}

	for _, ep := range episodes {
		name := ep.FileName()
		dst := filepath.Join(s.audioDir, name)

		if info, err := os.Stat(dst); err == nil && info.Size() > 0 {
			s.debugf("[sync] skipped %s: already on device", name)
			report.Skipped = append(report.Skipped, name)

			continue
		}

		if s.dryRun {
			s.debugf("[sync] dry-run: would copy %s -> %s", ep.Path, dst)
			report.Copied = append(report.Copied, name)

			continue
		}

		if err := copyFile(ep.Path, dst); err != nil {
			s.debugf("[sync] copy failed for %s: %v", name, err)
			report.CopyErrors = append(report.CopyErrors, FileError{Name: name, Err: err})

			continue
		}

		s.debugf("[sync] copied %s", name)
		report.Copied = append(report.Copied, name)
	}

	for _, f := range files {
		if keep[f.Name] {
			continue
		}

		if s.dryRun {
			s.debugf("[sync] dry-run: would delete %s", f.Name)
			report.Deleted = append(report.Deleted, f.Name)

			continue
		}

		if err := os.Remove(f.Path); err != nil {
			s.debugf("[sync] delete failed for %s: %v", f.Name, err)
			report.DeleteErrors = append(report.DeleteErrors, FileError{Name: f.Name, Err: err})

			continue
		}

		s.debugf("[sync] deleted %s", f.Name)
		report.Deleted = append(report.Deleted, f.Name)
	}

	return report
}

// copyFile copies src to dst, fsyncing before close so the file survives an
// abrupt device unplug
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)

		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := out.Sync(); err != nil {
		_ = out.Close()

		return fmt.Errorf("failed to sync destination: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination: %w", err)
	}

	return nil
}
