package highscore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS ledger (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    top_score INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS recent_scores (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    score INTEGER NOT NULL,
    date TEXT NOT NULL
);
`

var errStoreClosed = errors.New("high score database is closed")

// SQLiteStore keeps the ledger in a SQLite database. The connection is opened
// on first use, so an unreadable database behaves like a missing ledger: Load
// returns Empty and Save reports the error.
type SQLiteStore struct {
	path   string
	logger *slog.Logger
	sqlDB  *sql.DB
	closed bool
}

// OpenSQLite returns a store for the database at path, creating it if needed.
// Only an empty path is an error; a database that cannot be opened is logged
// and retried on the next Load or Save.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &SQLiteStore{path: filepath.Clean(path), logger: logger}
	if _, err := s.db(); err != nil {
		logger.Warn("high score database unavailable, starting with an empty ledger",
			slog.String("path", s.path),
			slog.Any("error", err),
		)
	}
	return s, nil
}

// db returns the open handle, connecting if this is the first successful use.
func (s *SQLiteStore) db() (*sql.DB, error) {
	if s == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if s.closed {
		return nil, errStoreClosed
	}
	if s.sqlDB != nil {
		return s.sqlDB, nil
	}

	sqlDB, err := connectSQLite(s.path)
	if err != nil {
		return nil, err
	}
	s.sqlDB = sqlDB
	return sqlDB, nil
}

func connectSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create score dir: %w", err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return sqlDB, nil
}

// Close closes the SQLite handle. The store is unusable afterwards.
func (s *SQLiteStore) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	if s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load reads the ledger, returning an empty one on any error.
func (s *SQLiteStore) Load(ctx context.Context) Ledger {
	l, err := s.load(ctx)
	if err != nil {
		s.logger.Error("load high scores", slog.Any("error", err))
		return Empty()
	}
	return l.normalize()
}

func (s *SQLiteStore) load(ctx context.Context) (Ledger, error) {
	sqlDB, err := s.db()
	if err != nil {
		return Ledger{}, err
	}

	l := Empty()
	err = sqlDB.QueryRowContext(ctx, `SELECT top_score FROM ledger WHERE id = 1`).Scan(&l.TopScore)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Ledger{}, fmt.Errorf("query top score: %w", err)
	}

	rows, err := sqlDB.QueryContext(ctx, `SELECT score, date FROM recent_scores ORDER BY id`)
	if err != nil {
		return Ledger{}, fmt.Errorf("query recent scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc Score
		if err := rows.Scan(&sc.Score, &sc.Date); err != nil {
			return Ledger{}, fmt.Errorf("scan recent score: %w", err)
		}
		l.RecentScores = append(l.RecentScores, sc)
	}
	if err := rows.Err(); err != nil {
		return Ledger{}, fmt.Errorf("iterate recent scores: %w", err)
	}
	return l, nil
}

// Save replaces the stored ledger with l in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, l Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sqlDB, err := s.db()
	if err != nil {
		return err
	}
	l = l.normalize()

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ledger (id, top_score) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET top_score = excluded.top_score`,
		l.TopScore,
	); err != nil {
		return fmt.Errorf("store top score: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recent_scores`); err != nil {
		return fmt.Errorf("clear recent scores: %w", err)
	}
	for _, sc := range l.RecentScores {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recent_scores (score, date) VALUES (?, ?)`,
			sc.Score, sc.Date,
		); err != nil {
			return fmt.Errorf("store recent score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
