package extension

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/mmr-tortoise/wtd/internal/clierr"
)

//go:embed builtin
var builtinFS embed.FS

// Catalog is the effective set of extensions for a worktree: the curated
// built-in set, shadowed entry-for-entry by any repo-local manifest that
// shares a name.
type Catalog struct {
	byName map[string]Manifest
	// shadowed records built-in names a repo-local manifest overrode, for
	// logging — not an error, per SPEC_FULL.md §4.3.
	shadowed []string
}

// Get returns the manifest for name, or false if it's not in the catalog.
func (c *Catalog) Get(name string) (Manifest, bool) {
	m, ok := c.byName[name]
	return m, ok
}

// All returns every manifest in the catalog, sorted by name for
// deterministic iteration.
func (c *Catalog) All() []Manifest {
	names := make([]string, 0, len(c.byName))
	for n := range c.byName {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]Manifest, len(names))
	for i, n := range names {
		out[i] = c.byName[n]
	}
	return out
}

// Shadowed returns the built-in names overridden by a repo-local manifest,
// in the order they were discovered.
func (c *Catalog) Shadowed() []string {
	return c.shadowed
}

// NewCatalog returns a catalog holding exactly ms, keyed by name. It adds
// no built-in manifests and runs no catalog-level validation.
func NewCatalog(ms ...Manifest) *Catalog {
	c := &Catalog{byName: make(map[string]Manifest, len(ms))}
	for _, m := range ms {
		c.byName[m.Name] = m
	}
	return c
}

// Load builds the effective catalog: built-in manifests first, then
// repo-local manifest.json files found at any depth under
// <worktreeRoot>/.wtd/extensions/, which win on name collision.
func Load(worktreeRoot string) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Manifest)}

	if err := loadBuiltins(c); err != nil {
		return nil, err
	}

	localDir := filepath.Join(worktreeRoot, ".wtd", "extensions")
	manifestPaths, err := findLocalManifests(localDir)
	if err != nil {
		// No repo-local directory is not an error — it's common for a repo
		// to rely entirely on the built-in catalog.
		if err := validateCatalog(c); err != nil {
			return nil, err
		}
		return c, nil
	}

	seenLocal := make(map[string]bool)
	for _, manifestPath := range manifestPaths {
		raw, err := os.ReadFile(manifestPath)
		if err != nil {
			continue // removed between walk and read; treat as not an extension
		}

		m, err := ParseManifest(raw)
		if err != nil {
			return nil, clierr.ManifestInvalid(manifestPath, err.Error())
		}
		if seenLocal[m.Name] {
			return nil, clierr.CatalogInvalid(fmt.Sprintf("duplicate repo-local extension name %q", m.Name))
		}
		seenLocal[m.Name] = true

		if _, exists := c.byName[m.Name]; exists {
			c.shadowed = append(c.shadowed, m.Name)
		}
		c.byName[m.Name] = m
	}

	if err := validateCatalog(c); err != nil {
		return nil, err
	}
	return c, nil
}

// findLocalManifests recursively walks localDir and returns the path of
// every manifest.json found beneath it, in a deterministic (lexical)
// order. A repo-local extension need not put its manifest directly under
// .wtd/extensions/<name>/ — any depth is searched.
func findLocalManifests(localDir string) ([]string, error) {
	if _, err := os.Stat(localDir); err != nil {
		return nil, err
	}

	var found []string
	err := filepath.WalkDir(localDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == "manifest.json" {
			found = append(found, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}

func loadBuiltins(c *Catalog) error {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return fmt.Errorf("reading embedded built-in extensions: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifestPath := path.Join("builtin", entry.Name(), "manifest.json")
		raw, err := fs.ReadFile(builtinFS, manifestPath)
		if err != nil {
			return fmt.Errorf("reading built-in manifest %s: %w", manifestPath, err)
		}
		m, err := ParseManifest(raw)
		if err != nil {
			return clierr.ManifestInvalid(manifestPath, err.Error())
		}
		c.byName[m.Name] = m
	}
	return nil
}

// validateCatalog checks the catalog-level invariant that every
// dependency names a manifest present in the effective catalog.
// never_load entries are not checked.
func validateCatalog(c *Catalog) error {
	for _, m := range c.All() {
		for _, dep := range m.Dependencies {
			if _, ok := c.byName[dep]; !ok {
				return clierr.CatalogInvalid(fmt.Sprintf("extension %q depends on unknown extension %q", m.Name, dep))
			}
		}
	}
	return nil
}
