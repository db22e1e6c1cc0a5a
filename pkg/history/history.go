// Package history records rendered clouds in a local SQLite database.
//
// The pure-Go modernc.org/sqlite driver is used so the binary stays free of
// CGO. Each render gets a UUID; `tagcloud history` lists the most recent ones.
package history

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/tagcloud/pkg/errors"
)

// DefaultLimit is used by Recent when limit <= 0.
const DefaultLimit = 20

// Entry is one recorded render.
type Entry struct {
	ID        string        `json:"id"`
	Source    string        `json:"source"`
	Algorithm string        `json:"algorithm"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Words     int           `json:"words"`
	Placed    int           `json:"placed"`
	Dropped   int           `json:"dropped"`
	Outputs   string        `json:"outputs,omitempty"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Store is a handle to the history database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns ~/.local/share/tagcloud/history.db, falling back to
// the user cache directory.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "tagcloud", "history.db")
	}
	dir, _ := os.UserCacheDir()
	return filepath.Join(dir, "tagcloud", "history.db")
}

// Open creates or opens the database at path and runs migrations. An empty
// path uses DefaultPath; ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	if path != ":memory:" {
		if path[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "expand %s", path)
			}
			path = filepath.Join(home, path[1:])
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSaveFailed, err, "create history directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open history database")
	}
	// A single connection keeps ":memory:" databases shared between calls.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to history database")
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "migrate history database")
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS renders (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			algorithm TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			words INTEGER NOT NULL DEFAULT 0,
			placed INTEGER NOT NULL DEFAULT 0,
			dropped INTEGER NOT NULL DEFAULT 0,
			outputs TEXT NOT NULL DEFAULT '',
			duration_ns INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created_at DESC);
	`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores e. A missing ID is generated and a zero CreatedAt is set to
// now. The stored entry is returned.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO renders
		 (id, source, algorithm, width, height, words, placed, dropped, outputs, duration_ns, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Source, e.Algorithm, e.Width, e.Height, e.Words, e.Placed, e.Dropped,
		e.Outputs, int64(e.Duration), e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeSaveFailed, err, "record render")
	}
	return e, nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	e, err := scan(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Entry{}, errors.New(errors.ErrCodeRecordNotFound, "no render with id %s", id)
	}
	if err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInternal, err, "query render")
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "query renders")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "scan render")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "iterate renders")
	}
	return entries, nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM renders`)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "clear history")
	}
	return res.RowsAffected()
}

const selectColumns = `SELECT id, source, algorithm, width, height, words, placed, dropped, outputs, duration_ns, created_at FROM renders`

type scanner interface {
	Scan(dest ...any) error
}

func scan(r scanner) (Entry, error) {
	var (
		e          Entry
		durationNs int64
		createdNs  int64
	)
	err := r.Scan(&e.ID, &e.Source, &e.Algorithm, &e.Width, &e.Height,
		&e.Words, &e.Placed, &e.Dropped, &e.Outputs, &durationNs, &createdNs)
	if err != nil {
		return Entry{}, err
	}
	e.Duration = time.Duration(durationNs)
	e.CreatedAt = time.Unix(0, createdNs)
	return e, nil
}
