// Package catalog keeps the name catalogs the converter consults: working
// group display names and the bibliographic index. Each catalog is fetched
// from its remote sources once and persisted as a JSON file in the cache
// directory; later runs read the file and never touch the network until the
// cache is flushed.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Default remote sources.
var (
	DefaultWorkingGroups = []string{
		"https://datatracker.ietf.org/wg/",
		"https://datatracker.ietf.org/rg/",
	}
	DefaultBibliography = []string{
		"https://bib.ietf.org/public/rfc/bibxml/",
		"https://bib.ietf.org/public/rfc/bibxml2/",
		"https://bib.ietf.org/public/rfc/bibxml3/",
		"https://bib.ietf.org/public/rfc/bibxml4/",
		"https://bib.ietf.org/public/rfc/bibxml5/",
	}
)

// Options configure a catalog Set.
type Options struct {
	Dir     string        // cache directory
	Timeout time.Duration // per source fetch timeout

	WorkingGroups []string // sources, DefaultWorkingGroups if empty
	Bibliography  []string // sources, DefaultBibliography if empty

	Fetcher Fetcher // NewHTTPFetcher(Timeout) if nil
	Logger  *zap.Logger
}

// DefaultDir returns the default cache directory.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("unable to find user configuration directory: %w", err)
	}
	return filepath.Join(dir, "rfcmark"), nil
}

// Set holds one cache per catalog kind.
type Set struct {
	caches map[Kind]*cache
}

// New creates the catalog set. Nothing is read until a catalog is first
// needed.
func New(opts Options) *Set {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher(opts.Timeout)
	}
	sources := map[Kind][]string{
		WorkingGroups: opts.WorkingGroups,
		Bibliography:  opts.Bibliography,
	}
	if len(sources[WorkingGroups]) == 0 {
		sources[WorkingGroups] = DefaultWorkingGroups
	}
	if len(sources[Bibliography]) == 0 {
		sources[Bibliography] = DefaultBibliography
	}

	s := &Set{caches: make(map[Kind]*cache, len(Kinds))}
	for _, k := range Kinds {
		s.caches[k] = &cache{
			kind:    k,
			path:    filepath.Join(opts.Dir, k.String()+".json"),
			sources: sources[k],
			fetcher: fetcher,
			log:     log.Named(k.String()),
		}
	}
	return s
}

// Path returns the cache file of kind.
func (s *Set) Path(kind Kind) string {
	return s.caches[kind].path
}

// EnsureLoaded makes kind available for lookups, reading the cache file or,
// when there is no usable file, fetching every source and persisting the
// result. On fetch failure whatever was collected stays usable for this
// process, nothing is written and a *Error is returned.
func (s *Set) EnsureLoaded(ctx context.Context, kind Kind) error {
	return s.caches[kind].ensureLoaded(ctx)
}

// Lookup returns the entry for key. It never loads the catalog.
func (s *Set) Lookup(kind Kind, key string) (string, bool) {
	return s.caches[kind].lookup(key)
}

// Len returns the number of entries of kind held in memory.
func (s *Set) Len(kind Kind) int {
	c := s.caches[kind]
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Flush deletes the cache file of kind and forgets the loaded entries, the
// next EnsureLoaded fetches again.
func (s *Set) Flush(kind Kind) error {
	return s.caches[kind].flush()
}

// Prefetch loads the given kinds concurrently, all of them when none are
// given.
func (s *Set) Prefetch(ctx context.Context, kinds ...Kind) error {
	if len(kinds) == 0 {
		kinds = Kinds
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, k := range kinds {
		g.Go(func() error {
			return s.EnsureLoaded(ctx, k)
		})
	}
	return g.Wait()
}

// cache is a single catalog. All access is serialized by mu, so a kind has a
// single writer even when several goroutines ask for it.
type cache struct {
	kind    Kind
	path    string
	sources []string
	fetcher Fetcher
	log     *zap.Logger

	mu      sync.Mutex
	entries map[string]string
	loaded  bool
}

func (c *cache) lookup(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *cache) ensureLoaded(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return nil
	}
	if c.read() {
		c.loaded = true
		return nil
	}
	return c.populate(ctx)
}

// read loads the cache file, reporting whether it was usable.
func (c *cache) read() bool {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.log.Warn("Unable to read catalog, fetching it again", zap.String("file", c.path), zap.Error(err))
		}
		return false
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		c.log.Warn("Malformed catalog, fetching it again", zap.String("file", c.path), zap.Error(err))
		return false
	}
	c.entries = entries
	c.log.Debug("Catalog loaded", zap.String("file", c.path), zap.Int("entries", len(entries)))
	return true
}

// populate fetches the sources in order. Every source is tried even after a
// failure so the partial map is as complete as it can be.
func (c *cache) populate(ctx context.Context) error {
	entries := make(map[string]string)
	var errs error
	for _, src := range c.sources {
		start := time.Now()
		body, err := c.fetcher.Fetch(ctx, src)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w %s: %w", ErrFetch, src, err))
			continue
		}
		n := c.kind.parser()(src, body, entries)
		if n == 0 {
			c.log.Warn("No catalog entries found in source", zap.String("url", src))
		}
		c.log.Debug("Catalog source fetched", zap.String("url", src), zap.Int("entries", n), zap.Duration("elapsed", time.Since(start)))
	}

	// keep what we have for this process either way
	c.entries = entries
	if errs != nil {
		return &Error{Kind: c.kind, Op: "fetch", Err: errs}
	}

	if err := c.write(); err != nil {
		return &Error{Kind: c.kind, Op: "store", Err: fmt.Errorf("%w: %w", ErrStore, err)}
	}
	c.loaded = true
	c.log.Info("Catalog stored", zap.String("file", c.path), zap.Int("entries", len(entries)))
	return nil
}

// write replaces the cache file atomically.
func (c *cache) write() (err error) {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, c.kind.String()+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, os.Remove(tmp.Name()))
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return multierr.Append(err, tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}

func (c *cache) flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries, c.loaded = nil, false
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &Error{Kind: c.kind, Op: "flush", Err: err}
	}
	c.log.Debug("Catalog flushed", zap.String("file", c.path))
	return nil
}

// Snapshot returns a copy of the entries of kind held in memory.
func (s *Set) Snapshot(kind Kind) map[string]string {
	c := s.caches[kind]
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.entries)
}
