// ABOUTME: Entry point for podsync, a podcast-to-device sync tool
// ABOUTME: Handles flags, startup checks, and wiring the components into the TUI

// Package main provides the entry point for podsync, which copies recently
// downloaded podcast episodes onto a removable audio player.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"podsync/config"
	"podsync/device"
	"podsync/library"
	"podsync/session"
	"podsync/tui"
)

const debugLogFile = "podsync-debug.log"

func main() {
	os.Exit(run())
}

func run() int {
	debug := flag.Bool("debug", false, "enable debug logging to "+debugLogFile)
	dryRun := flag.Bool("dry-run", false, "preview the sync without copying, deleting or unmounting")
	wait := flag.Bool("wait", false, "wait for the device to mount instead of failing immediately")
	limit := flag.Int("limit", 0, "number of recent episodes to offer (default from config)")
	configPath := flag.String("config", "", "config file path (default: ./podsync.toml or ~/.config/podsync/config.toml)")
	flag.Parse()

	if flag.NArg() != 0 {
		fmt.Println("Usage: podsync [flags]")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()

		return 1
	}

	path := *configPath
	if path == "" {
		path = config.GetConfigPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
	}

	if *limit > 0 {
		cfg.EpisodeLimit = *limit
	}

	debugPath := ""
	if *debug {
		debugPath = debugLogFile
	}

	sess, err := session.New(debugPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}
	defer func() { _ = sess.Close() }()

	ctx := context.Background()

	if *wait {
		fmt.Printf("Waiting for %s to mount...\n", cfg.DeviceMount)

		if err := device.WaitForMount(ctx, cfg.VolumesDir, cfg.DeviceMount, sess.Debugf); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)

			return 1
		}
	}

	locator := device.NewLocator(cfg.DeviceMount, cfg.AudioExtensions, sess.Debugf)

	// Startup errors are fatal before the interactive flow begins
	if err := locator.Check(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\nConnect the device and try again.\n", err)

		return 1
	}

	dbPath, err := library.FindDatabase(cfg.LibraryPaths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	sess.Debugf("[main] using library database %s", dbPath)

	lib, err := library.Open(dbPath, sess.Debugf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}
	defer func() { _ = lib.Close() }()

	episodes, err := lib.RecentEpisodes(ctx, cfg.EpisodeLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	files, err := locator.AudioFiles()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	audioDir := filepath.Join(cfg.DeviceMount, cfg.AudioFolder)
	syncer := device.NewSyncer(audioDir, *dryRun, sess.Debugf)

	runSync := func(selected []library.Episode, keep map[string]bool) device.Report {
		return syncer.Run(selected, files, keep)
	}
	unmount := func(ctx context.Context) error {
		return device.Unmount(ctx, cfg.DeviceMount)
	}

	opts := tui.Options{DryRun: *dryRun}

	report, err := tui.Run(opts, episodes, files, runSync, unmount, sess.Debugf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	if report == nil {
		// User quit before confirming; nothing was touched
		return 0
	}

	// Partial per-file failures are reported in the summary but do not
	// change the exit code
	printReport(*report)

	return 0
}

// printReport echoes the sync outcome to stdout after the TUI has closed, so
// the result survives the alt screen
func printReport(report device.Report) {
	prefix := ""
	if report.DryRun {
		prefix = "dry-run: "
	}

	fmt.Printf("%sCopied %d, skipped %d, deleted %d.\n",
		prefix, len(report.Copied), len(report.Skipped), len(report.Deleted))

	for _, fe := range report.CopyErrors {
		fmt.Printf("  copy failed: %s: %v\n", fe.Name, fe.Err)
	}

	for _, fe := range report.DeleteErrors {
		fmt.Printf("  delete failed: %s: %v\n", fe.Name, fe.Err)
	}
}
