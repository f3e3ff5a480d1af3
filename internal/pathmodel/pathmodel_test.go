package pathmodel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	p := Resolve("/home/u/.wtd", Specifier{Owner: "octocat", Repo: "hello-world", SafeBranch: "feature-login"})

	assert.Equal(t, filepath.Join("/home/u/.wtd", "workspaces", "octocat", "hello-world", "bare"), p.BareClone)
	assert.Equal(t, filepath.Join("/home/u/.wtd", "workspaces", "octocat", "hello-world", "worktree-feature-login"), p.Worktree)
	assert.Equal(t, filepath.Join("/home/u/.wtd", "workspaces", "octocat", "hello-world", "wt-feature-login"), p.LegacyWorktree)
	assert.Equal(t, filepath.Join(p.Worktree, "Dockerfile"), p.Dockerfile)
	assert.Equal(t, filepath.Join(p.Worktree, ".buildx-cache"), p.BuildxCacheDir)
}

func TestResolve_CollisionIsNotDetected(t *testing.T) {
	// Two distinct branches can map to the same safe-branch; pathmodel
	// intentionally does not detect this — it's a documented known
	// ambiguity, not a pathmodel responsibility.
	a := Resolve("/c", Specifier{Owner: "o", Repo: "r", SafeBranch: "feature-x"})
	b := Resolve("/c", Specifier{Owner: "o", Repo: "r", SafeBranch: "feature-x"})
	assert.Equal(t, a.Worktree, b.Worktree)
}
