// Package pathmodel computes the on-disk layout for a repo specifier's
// bare clone, worktree, and generated build artifacts. Resolve is a pure
// function of (cache root, specifier) — it performs no filesystem I/O so
// it can be used for planning before anything is created on disk.
package pathmodel

import "path/filepath"

// Paths is the full set of filesystem locations derived for one specifier.
type Paths struct {
	// CacheRoot is the root of the shared cache tree (~/.wtd by default).
	CacheRoot string

	// BareClone is <cache>/workspaces/<owner>/<repo>/bare.
	BareClone string

	// Worktree is <cache>/workspaces/<owner>/<repo>/worktree-<safe-branch>.
	Worktree string

	// LegacyWorktree is the wt-<safe-branch> alias recognized by prune
	// for directories created by an older naming convention.
	LegacyWorktree string

	// Dockerfile, ComposeFile, and BakeFile are generated build artifacts
	// written alongside the worktree directory.
	Dockerfile  string
	ComposeFile string
	BakeFile    string

	// BuildxCacheDir is the local docker buildx bake cache dir.
	BuildxCacheDir string
}

// Specifier is the minimal shape pathmodel needs from a parsed repo
// specifier, avoiding a direct import-time dependency on internal/specifier
// so this package stays a leaf in the dependency graph.
type Specifier struct {
	Owner      string
	Repo       string
	SafeBranch string
}

// Resolve derives every path for spec rooted at cacheRoot.
func Resolve(cacheRoot string, spec Specifier) Paths {
	repoRoot := filepath.Join(cacheRoot, "workspaces", spec.Owner, spec.Repo)
	worktree := filepath.Join(repoRoot, "worktree-"+spec.SafeBranch)

	return Paths{
		CacheRoot:      cacheRoot,
		BareClone:      filepath.Join(repoRoot, "bare"),
		Worktree:       worktree,
		LegacyWorktree: filepath.Join(repoRoot, "wt-"+spec.SafeBranch),
		Dockerfile:     filepath.Join(worktree, "Dockerfile"),
		ComposeFile:    filepath.Join(worktree, "docker-compose.yml"),
		BakeFile:       filepath.Join(worktree, "docker-bake.hcl"),
		BuildxCacheDir: filepath.Join(worktree, ".buildx-cache"),
	}
}
