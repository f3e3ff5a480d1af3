package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/wtd/internal/clierr"
	"github.com/mmr-tortoise/wtd/internal/config"
	"github.com/mmr-tortoise/wtd/internal/gitcoord"
	"github.com/mmr-tortoise/wtd/internal/pathmodel"
	"github.com/mmr-tortoise/wtd/internal/specifier"
	"github.com/mmr-tortoise/wtd/internal/supervisor"
)

// runPrune implements --prune [spec]. With no spec (rawSpec is empty or
// the NoOptDefVal sentinel), every container whose worktree no longer
// exists on disk is removed, along with its image. With a spec, only
// that container and its worktree/image are removed, label-scoped to
// wtd=1 plus the matching wtd.spec value, along with the spec's legacy
// wt-<safe-branch> directory if one exists.
//
// Per SPEC_FULL.md §4.8, pruning also removes the worktree directory
// (and, once it has no remaining sibling worktrees, the shared bare
// clone) under the cache tree — not just the container and image.
func runPrune(ctx context.Context, rawSpec string) error {
	client, err := supervisor.NewClient()
	if err != nil {
		return err
	}
	defer client.Close()

	git := gitcoord.New()

	trimmed := rawSpec
	if trimmed == " " {
		trimmed = ""
	}

	if trimmed == "" {
		pruned, err := supervisor.PruneAll(ctx, client)
		if err != nil {
			return err
		}
		for _, info := range pruned {
			// The selection criterion for prune-all is already "worktree
			// absent", so only git's own registration and a now-orphaned
			// bare clone can still need cleanup.
			if err := pruneWorktreeAndBare(git, info.Identity.WorktreePath); err != nil {
				return err
			}
			fmt.Println("pruned", info.Identity.SpecKey())
		}
		if len(pruned) == 0 {
			fmt.Println("nothing to prune")
		}
		return nil
	}

	spec, err := specifier.Parse(trimmed)
	if err != nil {
		return err
	}

	all, err := supervisor.List(ctx, client)
	if err != nil {
		return err
	}
	target := spec.Owner + "/" + spec.Repo + "@" + spec.Branch
	for _, info := range all {
		if info.Identity.SpecKey() != target {
			continue
		}
		if err := supervisor.PruneOne(ctx, client, info); err != nil {
			return err
		}
		if err := os.RemoveAll(info.Identity.WorktreePath); err != nil {
			return clierr.Wrap("GitFailed", clierr.ExitGit, "removing worktree directory", err)
		}
		legacy := pathmodel.Resolve(config.FromEnvironment().CacheDir, pathmodel.Specifier{
			Owner: spec.Owner, Repo: spec.Repo, SafeBranch: spec.SafeBranch(),
		}).LegacyWorktree
		if err := os.RemoveAll(legacy); err != nil {
			return clierr.Wrap("GitFailed", clierr.ExitGit, "removing legacy worktree directory", err)
		}
		if err := pruneWorktreeAndBare(git, info.Identity.WorktreePath); err != nil {
			return err
		}
		fmt.Println("pruned", target)
		return nil
	}

	return clierr.New("ContainerFailed", clierr.ExitContainer, "no managed container found for "+target)
}

// pruneWorktreeAndBare deregisters worktreePath from its bare clone's git
// metadata, then removes the shared bare clone itself once no sibling
// worktree directories remain under the same repo root — "bare retained
// iff other specs share it" (spec.md §8 scenario 5).
func pruneWorktreeAndBare(git *gitcoord.Coordinator, worktreePath string) error {
	if worktreePath == "" {
		return nil
	}
	repoRoot := filepath.Dir(worktreePath)
	barePath := filepath.Join(repoRoot, "bare")

	if _, err := os.Stat(barePath); err != nil {
		return nil // nothing registered under this repo root (already pruned)
	}

	if err := git.Prune(barePath); err != nil {
		return err
	}

	remaining, err := git.List(barePath)
	if err != nil {
		return err
	}
	for _, wt := range remaining {
		// git worktree list always includes the bare repository itself as
		// an entry; only a *different* path means a sibling worktree is
		// still registered.
		if wt.Path != barePath {
			return nil // other worktrees still share this bare clone
		}
	}
	return os.RemoveAll(repoRoot)
}
