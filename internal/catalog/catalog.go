package catalog

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
)

// DefaultManifestName is the file name the scan looks for in each
// asset folder.
const DefaultManifestName = "manifest.json"

// Summary is the lightweight projection of a manifest used in search
// results and listings.
type Summary struct {
	AssetID      string   `json:"asset_id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags,omitempty"`
	FallbackFor  []string `json:"fallback_for,omitempty"`
	SensorType   string   `json:"sensor_type,omitempty"`
	Availability string   `json:"availability"`
	Dir          string   `json:"dir"`
}

// Catalog is an immutable index over every valid manifest found under
// one repository root. Scan order is the lexical walk order, which
// keeps listings, search ties, and suggestions deterministic.
type Catalog struct {
	root         string
	manifestName string

	byID       map[string]*Manifest
	dirs       map[string]string
	order      []string
	summaries  []Summary
	byFallback map[string][]string
}

// Option configures catalog construction.
type Option func(*Catalog)

// WithManifestName overrides the manifest file name used by the scan.
func WithManifestName(name string) Option {
	return func(c *Catalog) { c.manifestName = name }
}

// New scans root and builds the index. Manifests that fail to parse or
// validate are logged and skipped; New fails only when the root itself
// cannot be walked.
func New(root string, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		root:         root,
		manifestName: DefaultManifestName,
		byID:         make(map[string]*Manifest),
		dirs:         make(map[string]string),
		byFallback:   make(map[string][]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.scan(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) scan() error {
	slog.Info("scanning asset repository", "root", c.root)
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != c.manifestName {
			return nil
		}
		m, err := LoadManifest(path)
		if err != nil {
			slog.Warn("skipping manifest", "path", path, "error", err)
			return nil
		}
		if _, dup := c.byID[m.AssetID]; dup {
			slog.Warn("skipping duplicate asset id", "path", path, "asset_id", m.AssetID)
			return nil
		}
		c.add(m, filepath.Dir(path))
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan asset repository %s: %w", c.root, err)
	}
	slog.Info("asset scan complete", "root", c.root, "assets", len(c.byID))
	return nil
}

func (c *Catalog) add(m *Manifest, dir string) {
	id := m.AssetID
	c.byID[id] = m
	c.dirs[id] = dir
	c.order = append(c.order, id)
	c.summaries = append(c.summaries, Summary{
		AssetID:      m.AssetID,
		Name:         m.Name,
		Category:     m.Category,
		Tags:         m.Tags,
		FallbackFor:  m.FallbackFor,
		SensorType:   m.SensorType,
		Availability: m.Availability,
		Dir:          dir,
	})
	for _, concept := range m.FallbackFor {
		key := foldKey(concept)
		c.byFallback[key] = append(c.byFallback[key], id)
	}
	slog.Debug("indexed asset", "asset_id", id, "category", m.Category, "availability", m.Availability)
}

// Root returns the scanned repository root.
func (c *Catalog) Root() string { return c.root }

// Len returns the number of indexed assets.
func (c *Catalog) Len() int { return len(c.order) }

// Contains reports whether an exact asset id is indexed.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Resolve returns the manifest for an exact asset id. A miss is a
// NotFoundError carrying up to three suggested ids.
func (c *Catalog) Resolve(id string) (*Manifest, error) {
	m, ok := c.byID[id]
	if !ok {
		return nil, NewNotFoundError(id, "", c.suggest(id, maxSuggestions))
	}
	return m, nil
}

// Dir returns the folder holding the asset's manifest and fragment.
func (c *Catalog) Dir(id string) (string, error) {
	dir, ok := c.dirs[id]
	if !ok {
		return "", NewNotFoundError(id, "", c.suggest(id, maxSuggestions))
	}
	return dir, nil
}

// FragmentPath returns the path of the asset's document fragment,
// resolved against the asset folder.
func (c *Catalog) FragmentPath(id string) (string, error) {
	m, err := c.Resolve(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.dirs[id], filepath.FromSlash(m.MJCFInclude)), nil
}

// List returns summaries in scan order, optionally filtered by
// category.
func (c *Catalog) List(category string) []Summary {
	if category == "" {
		out := make([]Summary, len(c.summaries))
		copy(out, c.summaries)
		return out
	}
	var out []Summary
	for _, s := range c.summaries {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// Categories returns the sorted set of categories present in the
// index.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	for _, s := range c.summaries {
		seen[s.Category] = true
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// GroupedEntry is one asset in a grouped catalog export, trimmed to
// the fields useful for choosing assets. Availability is set only for
// remote assets.
type GroupedEntry struct {
	AssetID      string   `json:"asset_id"`
	Name         string   `json:"name"`
	Tags         []string `json:"tags,omitempty"`
	FallbackFor  []string `json:"fallback_for,omitempty"`
	SensorType   string   `json:"sensor_type,omitempty"`
	Availability string   `json:"availability,omitempty"`
}

// Grouped returns assets grouped by category, the compact export used
// to brief scene authors on what the repository offers.
func (c *Catalog) Grouped(localOnly bool) map[string][]GroupedEntry {
	out := make(map[string][]GroupedEntry)
	for _, s := range c.summaries {
		if localOnly && s.Availability != AvailabilityLocal {
			continue
		}
		entry := GroupedEntry{
			AssetID:     s.AssetID,
			Name:        s.Name,
			Tags:        s.Tags,
			FallbackFor: s.FallbackFor,
			SensorType:  s.SensorType,
		}
		if s.Availability == AvailabilityRemote {
			entry.Availability = AvailabilityRemote
		}
		out[s.Category] = append(out[s.Category], entry)
	}
	return out
}
