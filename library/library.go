// ABOUTME: Read-only access to the Apple Podcasts library database
// ABOUTME: Locates the SQLite file and queries the most recent downloaded episodes

package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	// SQLite driver, registered as "sqlite3"
	_ "github.com/mattn/go-sqlite3"
)

// Startup error taxonomy. Both are fatal before the interactive flow begins.
var (
	// ErrLibraryNotFound means no candidate database path exists
	ErrLibraryNotFound = errors.New("podcast library database not found")
	// ErrLibraryUnreadable means the database exists but cannot be opened or
	// lacks the expected schema
	ErrLibraryUnreadable = errors.New("podcast library database unreadable")
)

// coreDataEpoch is the zero point of Core Data timestamps
var coreDataEpoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// recentEpisodesQuery joins episodes with their podcast and keeps only rows
// that have a downloaded asset. Title breaks download-date ties for
// deterministic ordering.
const recentEpisodesQuery = `
SELECT
    e.ZTITLE,
    p.ZTITLE,
    e.ZASSETURL,
    e.ZDOWNLOADDATE
FROM ZMTEPISODE e
JOIN ZMTPODCAST p ON e.ZPODCAST = p.Z_PK
WHERE e.ZASSETURL IS NOT NULL
AND e.ZASSETURL != ''
AND e.ZDOWNLOADDATE IS NOT NULL
ORDER BY e.ZDOWNLOADDATE DESC, e.ZTITLE ASC
LIMIT ?
`

// Library provides read-only queries against the podcast database
type Library struct {
	db     *sql.DB
	debugf func(string, ...interface{})
}

// FindDatabase returns the first existing database among the candidate paths.
// Candidates may contain glob patterns. Returns ErrLibraryNotFound when no
// candidate matches an existing file.
func FindDatabase(candidates []string) (string, error) {
	for _, candidate := range candidates {
		matches, err := filepath.Glob(candidate)
		if err != nil {
			// Malformed pattern, try the next candidate
			continue
		}

		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && !info.IsDir() {
				return match, nil
			}
		}
	}

	return "", ErrLibraryNotFound
}

// Open opens the database read-only and verifies the expected schema is
// present. Schema or open failures are reported as ErrLibraryUnreadable.
func Open(path string, debugf func(string, ...interface{})) (*Library, error) {
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLibraryUnreadable, err)
	}

	lib := &Library{db: db, debugf: debugf}

	if err := lib.verifySchema(context.Background()); err != nil {
		_ = db.Close()

		return nil, err
	}

	return lib, nil
}

// Close releases the database handle
func (l *Library) Close() error {
	return l.db.Close()
}

// verifySchema confirms the episode and podcast tables exist. The library
// schema is a versionless external contract, so fail cleanly rather than
// crash mid-query when it differs.
func (l *Library) verifySchema(ctx context.Context) error {
	var count int

	row := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('ZMTEPISODE', 'ZMTPODCAST')`)
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("%w: %v", ErrLibraryUnreadable, err)
	}

	if count != 2 {
		return fmt.Errorf("%w: expected episode and podcast tables", ErrLibraryUnreadable)
	}

	return nil
}

// RecentEpisodes returns up to limit most recently downloaded episodes,
// newest first. Rows whose downloaded file no longer exists on disk are
// skipped. An empty library yields an empty slice, not an error.
func (l *Library) RecentEpisodes(ctx context.Context, limit int) ([]Episode, error) {
	rows, err := l.db.QueryContext(ctx, recentEpisodesQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLibraryUnreadable, err)
	}
	defer func() { _ = rows.Close() }()

	var episodes []Episode

	for rows.Next() {
		var (
			title        sql.NullString
			podcast      sql.NullString
			assetURL     string
			downloadDate float64
		)

		if err := rows.Scan(&title, &podcast, &assetURL, &downloadDate); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLibraryUnreadable, err)
		}

		path, err := assetURLToPath(assetURL)
		if err != nil {
			l.debugf("[library] skipping episode with bad asset URL %q: %v", assetURL, err)
			continue
		}

		if _, err := os.Stat(path); err != nil {
			l.debugf("[library] skipping episode, file missing: %s", path)
			continue
		}

		episodes = append(episodes, Episode{
			Title:        orDefault(title, "Unknown Episode"),
			Podcast:      orDefault(podcast, "Unknown Podcast"),
			Path:         path,
			DownloadedAt: coreDataTime(downloadDate),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLibraryUnreadable, err)
	}

	l.debugf("[library] found %d downloaded episodes (limit %d)", len(episodes), limit)

	return episodes, nil
}

// assetURLToPath converts a file:// asset URL into a filesystem path
func assetURLToPath(assetURL string) (string, error) {
	if !strings.HasPrefix(assetURL, "file://") {
		return "", fmt.Errorf("not a file URL: %s", assetURL)
	}

	path, err := url.PathUnescape(strings.TrimPrefix(assetURL, "file://"))
	if err != nil {
		return "", fmt.Errorf("failed to unescape asset URL: %w", err)
	}

	return path, nil
}

// coreDataTime converts seconds since the Core Data epoch to a time.Time
func coreDataTime(seconds float64) time.Time {
	return coreDataEpoch.Add(time.Duration(seconds * float64(time.Second)))
}

// orDefault returns the string value or a fallback when NULL or empty
func orDefault(s sql.NullString, fallback string) string {
	if s.Valid && s.String != "" {
		return s.String
	}

	return fallback
}
