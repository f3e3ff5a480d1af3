// Package config builds the single Config record that is threaded
// explicitly through every component invocation — there is no
// package-level global state. FromEnvironment fills the
// environment-derived fields only; internal/cli reads its flag values
// directly and does not copy them into this record.
package config

import (
	"os"
	"path/filepath"
)

// defaultBaseImage is the root stage's FROM image when WTD_BASE_IMAGE is
// unset. ubuntu:22.04, not 24.04 — see DESIGN.md open question notes.
const defaultBaseImage = "ubuntu:22.04"

// Config holds every environment- and flag-derived setting a reconciler
// invocation needs. Callers populate it once near main() and pass it down.
type Config struct {
	// CacheDir is the root of the shared on-disk cache tree, default ~/.wtd.
	CacheDir string

	// BaseImage is the root Dockerfile stage's FROM image.
	BaseImage string

	// CacheRegistry, if set, is used as an additional docker buildx bake
	// --cache-from/--cache-to target alongside the local .buildx-cache/ dir.
	CacheRegistry string

	// Builder is the docker buildx builder name (--builder).
	Builder string

	// Platforms is the --platforms value passed to docker buildx bake.
	Platforms string

	// LogLevel controls the slog handler level ("debug", "info", "warn", "error").
	LogLevel string

	// Rebuild forces a cache-missing rebuild of the image (--rebuild).
	Rebuild bool

	// NoCache passes --no-cache through to docker buildx bake (--nocache).
	NoCache bool

	// NoGUI / NoGPU drop the corresponding bundled extensions from the root set.
	NoGUI bool
	NoGPU bool

	// NoContainer stops reconciliation after worktree readiness (--no-container).
	NoContainer bool

	// ExtraExtensions are extension names requested via repeated -e flags.
	ExtraExtensions []string
}

// FromEnvironment builds a Config seeded from process environment
// variables, applying documented defaults for anything unset. The
// flag-derived fields (Builder, Platforms, Rebuild, NoCache, NoGUI, NoGPU,
// NoContainer, ExtraExtensions) are left at their zero values.
func FromEnvironment() Config {
	cacheDir := os.Getenv("WTD_CACHE_DIR")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cacheDir = filepath.Join(home, ".wtd")
	}

	baseImage := os.Getenv("WTD_BASE_IMAGE")
	if baseImage == "" {
		baseImage = defaultBaseImage
	}

	return Config{
		CacheDir:      cacheDir,
		BaseImage:     baseImage,
		CacheRegistry: os.Getenv("WTD_CACHE_REGISTRY"),
		LogLevel:      "info",
	}
}
