package reconcile

import (
	"context"

	"github.com/mmr-tortoise/wtd/internal/clierr"
)

// Git is the subset of gitcoord.Coordinator the reconciler drives.
// Declared here (rather than depending on gitcoord directly) so tests can
// substitute fakes, matching the teacher's cli/list_test.go style of
// exercising orchestration logic against doubles.
type Git interface {
	EnsureBare(remoteURL, barePath string) (warning string, err error)
	EnsureWorktree(barePath, worktreePath, branch, defaultBranch string) error
}

// Supervisor is the subset of the Container Supervisor the reconciler drives.
type Supervisor interface {
	Build(ctx context.Context) error
	Remove(ctx context.Context, containerID string) error
	Create(ctx context.Context) (containerID string, err error)
	Start(ctx context.Context, containerID string) error
	Attach(ctx context.Context, containerID string) (exitCode int, err error)
	Exec(ctx context.Context, containerID string, command []string) (exitCode int, err error)
}

// Target bundles the concrete paths/identifiers an Execute call needs;
// Decide already captured the observed state, so Execute only needs to
// know where to act, not what to decide.
type Target struct {
	RemoteURL     string
	BarePath      string
	WorktreePath  string
	Branch        string
	DefaultBranch string

	// ExistingContainerID is set when ContainerState in the Inputs that
	// produced this plan was not ContainerAbsent.
	ExistingContainerID string

	Command []string
}

// Result reports what Execute actually did, for CLI-level reporting.
type Result struct {
	Warning      string
	ContainerID  string
	ExitCode     int
	ExecutedMode Mode
}

// Execute runs each action in plan against git and sup, in order, stopping
// at the first error. A context cancellation observed between actions is
// surfaced as clierr.Cancelled rather than the partially-applied error,
// per SPEC_FULL.md's no-implicit-rollback contract.
func Execute(ctx context.Context, plan []Action, target Target, git Git, sup Supervisor) (Result, error) {
	var res Result
	containerID := target.ExistingContainerID

	for _, action := range plan {
		if err := ctx.Err(); err != nil {
			return res, clierr.Cancelled()
		}

		switch action {
		case ActionGit:
			warning, err := git.EnsureBare(target.RemoteURL, target.BarePath)
			if err != nil {
				return res, err
			}
			res.Warning = warning
			if err := git.EnsureWorktree(target.BarePath, target.WorktreePath, target.Branch, target.DefaultBranch); err != nil {
				return res, err
			}

		case ActionBuild:
			if err := sup.Build(ctx); err != nil {
				return res, err
			}

		case ActionRemove:
			if err := sup.Remove(ctx, containerID); err != nil {
				return res, err
			}

		case ActionCreate:
			id, err := sup.Create(ctx)
			if err != nil {
				return res, err
			}
			containerID = id

		case ActionStart:
			if err := sup.Start(ctx, containerID); err != nil {
				return res, err
			}

		case ActionAttach:
			code, err := sup.Attach(ctx, containerID)
			if err != nil {
				return res, err
			}
			res.ExitCode = code
			res.ExecutedMode = ModeAttach

		case ActionExec:
			code, err := sup.Exec(ctx, containerID, target.Command)
			if err != nil {
				return res, err
			}
			res.ExitCode = code
			res.ExecutedMode = ModeRun
		}
	}

	res.ContainerID = containerID
	return res, nil
}
