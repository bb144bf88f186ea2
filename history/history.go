package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Actions recorded in the history table
const (
	ActionPlay     = "play"
	ActionDownload = "download"
)

// Store keeps a local record of played and downloaded tracks
type Store struct {
	db     *sql.DB
	path   string
	logger *log.Entry
}

// Entry is one history row
type Entry struct {
	ID       int64     `json:"-"`
	TrackID  string    `json:"id"`
	Name     string    `json:"name"`
	Artist   string    `json:"artist"`
	Album    string    `json:"album,omitempty"`
	Quality  string    `json:"quality,omitempty"`
	Action   string    `json:"action"`
	PlayedAt time.Time `json:"playedAt"`
}

// TopEntry aggregates the plays of one track
type TopEntry struct {
	TrackID    string    `json:"id"`
	Name       string    `json:"name"`
	Artist     string    `json:"artist"`
	PlayCount  int       `json:"playCount"`
	LastPlayed time.Time `json:"lastPlayed"`
}

// Open creates the database at path if needed and runs migrations
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrapf(err, "failed to create history directory %s", dir)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open history database")
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to set WAL mode")
	}
	if _, err := db.Exec("PRAGMA busy_timeout=2000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to set busy timeout")
	}

	s := &Store{
		db:   db,
		path: path,
		logger: log.WithFields(log.Fields{
			"module": "history",
		}),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to run history migrations")
	}
	s.logger.Debugf("history database at %s", path)
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS track_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			track_id TEXT NOT NULL,
			name TEXT NOT NULL,
			artist TEXT NOT NULL DEFAULT '',
			album TEXT NOT NULL DEFAULT '',
			quality TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL DEFAULT 'play',
			played_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_track_history_played_at ON track_history(played_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_track_history_track_id ON track_history(track_id)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return errors.Wrapf(err, "migration failed\nSQL: %s", m)
		}
	}
	return nil
}

// Record inserts e. A zero PlayedAt is set to now.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.PlayedAt.IsZero() {
		e.PlayedAt = time.Now()
	}
	if e.Action == "" {
		e.Action = ActionPlay
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO track_history (track_id, name, artist, album, quality, action, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.TrackID, e.Name, e.Artist, e.Album, e.Quality, e.Action,
		e.PlayedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return errors.Wrap(err, "failed to record history")
	}
	return nil
}

// Recent returns the newest entries first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, track_id, name, artist, album, quality, action, played_at
		 FROM track_history
		 ORDER BY played_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query history")
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e        Entry
			playedAt string
		)
		if err := rows.Scan(&e.ID, &e.TrackID, &e.Name, &e.Artist, &e.Album, &e.Quality, &e.Action, &playedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan history row")
		}
		e.PlayedAt = parseTime(playedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MostPlayed ranks tracks by the number of plays
func (s *Store) MostPlayed(ctx context.Context, limit int) ([]TopEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT track_id, MAX(name), MAX(artist), COUNT(*) AS play_count, MAX(played_at) AS last_played
		 FROM track_history
		 WHERE action = ?
		 GROUP BY track_id
		 ORDER BY play_count DESC, last_played DESC
		 LIMIT ?`,
		ActionPlay, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query most played")
	}
	defer rows.Close()

	entries := []TopEntry{}
	for rows.Next() {
		var (
			e          TopEntry
			lastPlayed string
		)
		if err := rows.Scan(&e.TrackID, &e.Name, &e.Artist, &e.PlayCount, &lastPlayed); err != nil {
			return nil, errors.Wrap(err, "failed to scan most played row")
		}
		e.LastPlayed = parseTime(lastPlayed)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.Local()
}
