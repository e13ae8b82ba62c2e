package namecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"mappack/internal/fileutil"
	"mappack/internal/logging"
)

// Cache provides access to the persistent external-ID to internal-name
// mapping. Entries are append-only ground truth: once a name has been
// resolved through the expensive extraction path it is never expired or
// invalidated automatically.
//
// The document is rewritten whole on every Put. A file lock serializes the
// read-modify-write cycle across processes; within a process a mutex does
// the same. Writers that race from different hosts over shared storage
// still get last-writer-wins semantics, which callers must tolerate.
type Cache struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]string // external ID -> internal name
}

// New creates a cache instance backed by the given file. If path is empty
// the cache is non-functional and all operations become no-ops. A corrupt
// or unreadable file degrades to an empty cache with a warning; it must
// never block resolution, it only costs a re-derivation.
func New(path string, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "namecache")

	c := &Cache{
		path:    path,
		logger:  logger,
		entries: make(map[string]string),
	}
	if path == "" {
		return c
	}

	if err := c.load(); err != nil {
		logger.Warn("failed to load name cache, starting empty",
			logging.Error(err),
			logging.String("path", path))
	}
	return c
}

// Get returns the cached internal name for the given external ID.
func (c *Cache) Get(externalID string) (string, bool) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" || c.path == "" {
		return "", false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	name, found := c.entries[externalID]
	return name, found
}

// Put records a resolved mapping and persists the whole document. The
// on-disk map is reloaded under the file lock first so entries written by
// other processes since startup are preserved.
func (c *Cache) Put(externalID, internalName string) error {
	externalID = strings.TrimSpace(externalID)
	internalName = strings.TrimSpace(internalName)
	if externalID == "" {
		return errors.New("external ID cannot be empty")
	}
	if internalName == "" {
		return errors.New("internal name cannot be empty")
	}
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	lock := flock.New(c.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	defer lock.Unlock()

	if disk, err := readEntries(c.path); err == nil {
		for id, name := range disk {
			if _, exists := c.entries[id]; !exists {
				c.entries[id] = name
			}
		}
	}

	c.entries[externalID] = internalName

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cached name mapping",
		logging.String("external_id", externalID),
		logging.String("internal_name", internalName))
	return nil
}

// Len returns the number of cached mappings.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns a copy of all cached mappings.
func (c *Cache) Entries() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.entries))
	for id, name := range c.entries {
		out[id] = name
	}
	return out
}

// Clear removes all entries and persists the empty document.
func (c *Cache) Clear() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]string)
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	c.logger.Debug("cleared name cache")
	return nil
}

func (c *Cache) load() error {
	entries, err := readEntries(c.path)
	if err != nil {
		return err
	}
	c.entries = entries
	c.logger.Debug("loaded name cache",
		logging.Int("entry_count", len(entries)),
		logging.String("path", c.path))
	return nil
}

func readEntries(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return make(map[string]string), nil
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse cache file: %w", err)
	}

	entries := make(map[string]string, len(raw))
	for id, name := range raw {
		if strings.TrimSpace(id) != "" && strings.TrimSpace(name) != "" {
			entries[id] = name
		}
	}
	return entries, nil
}

func (c *Cache) save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	return fileutil.WriteFileAtomic(c.path, data, 0o644)
}
