package highscore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// FileStore keeps the ledger in an indented JSON document.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore returns a store backed by the JSON file at path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: filepath.Clean(path), logger: logger}
}

// Path is the file the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the ledger. A missing file is seeded with an empty ledger.
func (s *FileStore) Load(ctx context.Context) Ledger {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("no high score file yet, creating one", slog.String("path", s.path))
			if err := s.Save(ctx, Empty()); err != nil {
				s.logger.Warn("could not create high score file", slog.String("path", s.path), slog.Any("error", err))
			}
		} else {
			s.logger.Error("read high scores", slog.String("path", s.path), slog.Any("error", err))
		}
		return Empty()
	}

	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		s.logger.Error("parse high scores", slog.String("path", s.path), slog.Any("error", err))
		return Empty()
	}
	return l.normalize()
}

// Save overwrites the file with l.
func (s *FileStore) Save(ctx context.Context, l Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create score dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(l.normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode high scores: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write high scores: %w", err)
	}

	s.logger.Debug("saved high scores", slog.String("path", s.path))
	return nil
}
