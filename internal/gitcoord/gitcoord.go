// Package gitcoord drives the external git CLI to maintain the shared
// bare clone and per-branch worktrees described in SPEC_FULL.md §4.7.
//
// Adapted directly from the teacher's internal/worktree/manager.go: shell
// out to git rather than use a Go git library (go-git's worktree support
// is inadequate for `worktree add`/`worktree list --porcelain` semantics),
// capture stdout/stderr separately, wrap failures in a typed CLI error
// that carries the git-specific exit code.
package gitcoord

import (
	"os"
	"os/exec"
	"strings"

	"github.com/mmr-tortoise/wtd/internal/clierr"
)

// Coordinator provides git worktree operations by invoking the git CLI.
// It is stateless; all methods take paths explicitly.
type Coordinator struct{}

// New creates a Coordinator.
func New() *Coordinator { return &Coordinator{} }

// WorktreeInfo describes one entry from `git worktree list --porcelain`.
type WorktreeInfo struct {
	Path   string
	Branch string
	HEAD   string
}

// EnsureBare makes sure a bare clone of remoteURL exists at barePath,
// cloning it if absent. If the bare clone already exists, it fetches
// with --prune, but a fetch failure is downgraded to a non-fatal warning
// (returned as fetchWarning with a nil error) since the cache may be usable
// offline — a clone failure on a nonexistent bare clone is always fatal.
func (c *Coordinator) EnsureBare(remoteURL, barePath string) (fetchWarning string, err error) {
	if _, statErr := os.Stat(barePath); statErr == nil {
		_, fetchErr := runGit(barePath, "fetch", "--prune")
		if fetchErr != nil {
			return fetchErr.Error(), nil
		}
		return "", nil
	}

	if err := os.MkdirAll(parentDir(barePath), 0o755); err != nil {
		return "", clierr.Wrap("GitFailed", clierr.ExitGit, "creating cache directory", err)
	}
	_, err = runGit("", "clone", "--bare", remoteURL, barePath)
	return "", err
}

// EnsureWorktree reuses an already-registered worktree at worktreePath,
// or creates one from branch (creating the branch from defaultBranch if
// it doesn't exist remotely, and pushing it upstream on first use). If
// worktreePath exists on disk but is not a registered worktree of
// barePath, returns WorktreeConflict.
func (c *Coordinator) EnsureWorktree(barePath, worktreePath, branch, defaultBranch string) error {
	existing, err := c.List(barePath)
	if err != nil {
		return err
	}
	for _, wt := range existing {
		if wt.Path == worktreePath {
			return nil // already registered, reuse as-is
		}
	}

	if _, statErr := os.Stat(worktreePath); statErr == nil {
		return clierr.WorktreeConflict(worktreePath)
	}

	if c.branchExists(barePath, branch) {
		_, err := runGit(barePath, "worktree", "add", worktreePath, branch)
		return err
	}

	args := []string{"worktree", "add", "-b", branch, worktreePath}
	if defaultBranch != "" {
		args = append(args, defaultBranch)
	}
	if _, err := runGit(barePath, args...); err != nil {
		return err
	}

	// First use of a newly created branch: push it upstream so later
	// invocations (and collaborators) see it on the remote.
	_, err = runGit(worktreePath, "push", "--set-upstream", "origin", branch)
	return err
}

// List returns every worktree registered against barePath.
func (c *Coordinator) List(barePath string) ([]WorktreeInfo, error) {
	output, err := runGit(barePath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parsePorcelain(output), nil
}

// Prune removes a worktree's git registration. It does not delete the
// directory itself — callers are expected to have already removed it, or
// to pass a path that no longer exists, matching git's own "prune" model.
func (c *Coordinator) Prune(barePath string) error {
	_, err := runGit(barePath, "worktree", "prune")
	return err
}

func (c *Coordinator) branchExists(repoPath, branch string) bool {
	_, err := runGit(repoPath, "rev-parse", "--verify", branch)
	return err == nil
}

func runGit(dir string, args ...string) (string, error) {
	fullArgs := args
	if dir != "" {
		fullArgs = append([]string{"-C", dir}, args...)
	}

	// #nosec G204 — args are constructed internally, never from raw user input
	cmd := exec.Command("git", fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", clierr.GitFailed("git "+strings.Join(args, " "), strings.TrimSpace(stderr.String()), err)
	}
	return stdout.String(), nil
}

func parsePorcelain(output string) []WorktreeInfo {
	var worktrees []WorktreeInfo
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	var current *WorktreeInfo
	for _, line := range lines {
		if line == "" {
			if current != nil {
				worktrees = append(worktrees, *current)
				current = nil
			}
			continue
		}
		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "worktree":
			current = &WorktreeInfo{Path: value}
		case "HEAD":
			if current != nil {
				current.HEAD = value
			}
		case "branch":
			if current != nil {
				current.Branch = value
			}
		}
	}
	if current != nil {
		worktrees = append(worktrees, *current)
	}
	return worktrees
}

func parentDir(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return "."
	}
	return path[:idx]
}
