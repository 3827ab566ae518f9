package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io/fs"
	"log/slog"
	"path"
	"strings"
)

// Entry is a single playable Pokemon. Entries are immutable once loaded.
type Entry struct {
	ID    string
	Name  string
	Image image.Image
}

// Catalog is the loaded pool of entries plus the name table they were resolved against.
type Catalog struct {
	entries []Entry
	index   map[string]int
	names   map[string]string
}

// NewCatalog builds a catalog from already-loaded entries.
// Later entries with an identifier already present are dropped.
func NewCatalog(entries []Entry, names map[string]string) *Catalog {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
		names:   names,
	}
	if c.names == nil {
		c.names = map[string]string{}
	}
	for _, e := range entries {
		if _, dup := c.index[e.ID]; dup {
			continue
		}
		c.index[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c
}

// Entries returns the pool in load order. Callers must not modify it.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Len is the size of the pool.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup returns the pool entry for id.
func (c *Catalog) Lookup(id string) (*Entry, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return &c.entries[i], true
}

// Name resolves the display name for id, falling back to "Pokemon {id}".
func (c *Catalog) Name(id string) string {
	if e, ok := c.Lookup(id); ok && e.Name != "" {
		return e.Name
	}
	if name, ok := c.names[id]; ok && name != "" {
		return name
	}
	return FallbackName(id)
}

// LoadCatalog loads every image under imageDir and names it from namesFile.
// A missing directory or name table is not an error: the pool is simply empty
// or every entry gets a fallback name.
func LoadCatalog(fsys fs.FS, imageDir, namesFile string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	names, err := LoadNames(fsys, namesFile, logger)
	if err != nil {
		return nil, err
	}

	// 1. List images (fs.ReadDir returns them sorted by filename)
	dirEntries, err := fs.ReadDir(fsys, imageDir)
	if err != nil {
		logger.Warn("image directory not readable, pool is empty",
			slog.String("dir", imageDir),
			slog.Any("error", err),
		)
		return NewCatalog(nil, names), nil
	}

	// 2. Decode and name each one
	entries := make([]Entry, 0, len(dirEntries))
	seen := make(map[string]string, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !isImageFile(de.Name()) {
			continue
		}

		id := ParseID(de.Name())
		if prev, dup := seen[id]; dup {
			logger.Warn("duplicate pokemon id, keeping first image",
				slog.String("id", id),
				slog.String("kept", prev),
				slog.String("dropped", de.Name()),
			)
			continue
		}

		img, err := LoadImage(fsys, path.Join(imageDir, de.Name()))
		if err != nil {
			logger.Warn("could not load image", slog.String("file", de.Name()), slog.Any("error", err))
			continue
		}

		name, ok := names[id]
		if !ok {
			logger.Warn("no name found for id", slog.String("id", id))
			name = FallbackName(id)
		}

		seen[id] = de.Name()
		entries = append(entries, Entry{ID: id, Name: name, Image: img})
	}

	logger.Info("loaded pokemon images", slog.Int("count", len(entries)), slog.Int("names", len(names)))
	return NewCatalog(entries, names), nil
}

// LoadNames reads the name table. Missing or unreadable tables yield an empty map;
// only an unsupported file type is reported as an error.
func LoadNames(fsys fs.FS, namesFile string, logger *slog.Logger) (map[string]string, error) {
	if strings.TrimSpace(namesFile) == "" {
		return map[string]string{}, nil
	}

	parser, err := NewNameParser(namesFile)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(fsys, namesFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("name table not found", slog.String("file", namesFile))
		} else {
			logger.Error("read name table", slog.String("file", namesFile), slog.Any("error", err))
		}
		return map[string]string{}, nil
	}

	names, err := parser.Parse(data)
	if err != nil {
		logger.Error("parse name table", slog.String("file", namesFile), slog.Any("error", err))
		return map[string]string{}, nil
	}
	return names, nil
}

// LoadImage decodes a single image from fsys.
func LoadImage(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", name, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", name, err)
	}
	return img, nil
}

func isImageFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}
