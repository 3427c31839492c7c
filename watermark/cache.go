package watermark

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/bookdigest/core"
)

// DefaultCeiling bounds the persisted set.
const DefaultCeiling = 100_000

// Set is a set of record identifiers.
type Set map[string]struct{}

// NewSet builds a Set from ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members sorted numerically descending.
func (s Set) IDs() []string {
	ids := s.members()
	SortDescending(ids)
	return ids
}

func (s Set) members() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

type file struct {
	IDs []string `json:"ids"`
}

// Cache is the processed-set file for one user stream.
type Cache struct {
	Path    string
	Ceiling int

	logger *slog.Logger
}

// New creates a Cache for path. A ceiling <= 0 uses DefaultCeiling.
func New(path string, ceiling int, logger *slog.Logger) *Cache {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		Path:    path,
		Ceiling: ceiling,
		logger:  logger.With("component", "watermark"),
	}
}

// Load reads the processed set. A missing file and a corrupt file both
// return an empty set; corruption is logged.
func (c *Cache) Load() Set {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("failed to read processed ids, treating as empty", "path", c.Path, "err", err)
		}
		return Set{}
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		c.logger.Warn("corrupt processed ids file, treating as empty", "path", c.Path, "err", err)
		return Set{}
	}
	return NewSet(f.IDs...)
}

// Save merges ids into the persisted set, truncates the union to the
// ceiling and writes it atomically. It returns the number of ids written.
func (c *Cache) Save(ids []string) (int, error) {
	union := c.Load()
	for _, id := range ids {
		if id != "" {
			union[id] = struct{}{}
		}
	}

	kept := Truncate(union.members(), c.Ceiling)
	if err := c.write(kept); err != nil {
		return 0, err
	}
	c.logger.Info("saved processed ids", "path", c.Path, "count", len(kept), "evicted", len(union)-len(kept))
	return len(kept), nil
}

func (c *Cache) write(ids []string) error {
	data, err := json.MarshalIndent(file{IDs: ids}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding processed ids: %w", err)
	}

	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".processed-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), c.Path); err != nil {
		return fmt.Errorf("replacing %s: %w", c.Path, err)
	}
	return nil
}

// Filter returns the records whose identifiers are not in processed, in
// their original order, and the number skipped.
func Filter(records []core.Record, processed Set) ([]core.Record, int) {
	kept := make([]core.Record, 0, len(records))
	for _, r := range records {
		if processed.Has(r.ID) {
			continue
		}
		kept = append(kept, r)
	}
	return kept, len(records) - len(kept)
}

// Filter drops processed records and logs how many were skipped.
func (c *Cache) Filter(records []core.Record, processed Set) []core.Record {
	kept, skipped := Filter(records, processed)
	if skipped > 0 {
		c.logger.Info("skipping already processed records", "skipped", skipped, "remaining", len(kept))
	}
	return kept
}
