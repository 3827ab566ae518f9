package highscore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Backend names accepted by OpenStore.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store persists a Ledger.
//
// Load never fails: any read or parse problem is logged and an empty ledger is
// returned. Save reports failures so the caller can log them, but the in-memory
// ledger stays authoritative either way.
type Store interface {
	Load(ctx context.Context) Ledger
	Save(ctx context.Context, l Ledger) error
}

// Closer is implemented by stores holding an open handle.
type Closer interface {
	Close() error
}

// OpenStore opens the backend named by backend at path.
// An empty path resolves to DefaultPath for that backend, or to a file in the
// working directory when no per-user location can be resolved. Only an unknown
// backend is an error; an unreadable ledger surfaces as an empty one on Load.
func OpenStore(backend, path string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" {
		backend = BackendFile
	}

	if strings.TrimSpace(path) == "" {
		p, err := DefaultPath(backend)
		if err != nil {
			p = storeFileName(backend)
			logger.Warn("no per-user score location, using the working directory",
				slog.String("path", p),
				slog.Any("error", err),
			)
		}
		path = p
	}

	switch backend {
	case BackendFile:
		return NewFileStore(path, logger), nil
	case BackendSQLite:
		return OpenSQLite(path, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// DefaultPath is the per-user location of the score file:
// ~/.pokemonquiz on Unix and %APPDATA%\PokemonQuiz on Windows.
func DefaultPath(backend string) (string, error) {
	name := storeFileName(backend)

	if runtime.GOOS == "windows" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve app data dir: %w", err)
		}
		return filepath.Join(dir, "PokemonQuiz", name), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".pokemonquiz", name), nil
}

func storeFileName(backend string) string {
	if backend == BackendSQLite {
		return "high_scores.db"
	}
	return "high_scores.json"
}
