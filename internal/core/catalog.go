package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/valter-silva-au/witag/internal/storage"
	"github.com/valter-silva-au/witag/pkg/workitem"
)

// Catalog loads work item manifests into a registry.
type Catalog interface {
	// Load expands patterns relative to the base path and applies every
	// matching manifest to reg, in sorted path order. It returns the paths
	// that were loaded.
	Load(reg *workitem.Registry, patterns []string) ([]string, error)
}

type manifestCatalog struct {
	basePath string
	store    storage.ManifestStore
	logger   *slog.Logger
}

// NewCatalog creates a Catalog reading manifests through store.
func NewCatalog(basePath string, store storage.ManifestStore, logger *slog.Logger) Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &manifestCatalog{basePath: basePath, store: store, logger: logger}
}

func (c *manifestCatalog) Load(reg *workitem.Registry, patterns []string) ([]string, error) {
	paths, err := c.expand(patterns)
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		mf, err := c.store.Load(path)
		if err != nil {
			return nil, err
		}
		if err := mf.Apply(reg); err != nil {
			return nil, fmt.Errorf("applying manifest %s: %w", path, err)
		}
		c.logger.Debug("Loaded manifest", slog.String("path", path), slog.Int("classes", len(mf.Classes)))
	}

	if len(paths) == 0 {
		c.logger.Warn("No manifests matched", slog.Any("patterns", patterns), slog.String("base", c.basePath))
	}
	return paths, nil
}

// expand resolves each pattern to a sorted, de-duplicated list of files.
// A pattern without glob metacharacters must name an existing file, except
// DefaultManifest, which matches nothing when absent.
func (c *manifestCatalog) expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	for _, pattern := range patterns {
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(c.basePath, pattern)
		}

		if !hasMeta(pattern) {
			if _, err := os.Stat(full); err != nil {
				if pattern == DefaultManifest && errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, fmt.Errorf("manifest %s: %w", full, err)
			}
			if !seen[full] {
				seen[full] = true
				out = append(out, full)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(full, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding manifest pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}

	sort.Strings(out)
	return out, nil
}

func hasMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
