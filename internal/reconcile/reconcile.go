// Package reconcile implements the goal-state reconciler: given the
// observed state of the worktree, image, and container for a specifier,
// it computes the minimal ordered sequence of actions needed to reach the
// requested mode (interactive attach or one-shot exec), then executes
// that sequence against the Git Coordinator and Container Supervisor.
//
// Sequencing follows the teacher's internal/cli/create.go and start.go:
// git before build before create before start before attach/exec, never
// reordered. Decide is a pure function so the state-machine table can be
// tested directly without a Docker daemon or git subprocess, matching the
// teacher's internal/cli/list_test.go style of driving logic against
// fakes rather than live infrastructure.
package reconcile

// Mode selects the terminal action of a reconcile run.
type Mode int

const (
	// ModeAttach opens an interactive shell in the container.
	ModeAttach Mode = iota
	// ModeRun executes a one-shot command and returns its exit code.
	ModeRun
)

// ContainerState mirrors supervisor.State without importing that package,
// keeping the decision table importable by tests with no Docker SDK
// dependency at all.
type ContainerState int

const (
	ContainerAbsent ContainerState = iota
	ContainerStopped
	ContainerRunning
)

// Action is one step of a reconcile plan, always emitted in dependency
// order (Decide never reorders; it only omits unneeded steps).
type Action int

const (
	ActionGit Action = iota
	ActionBuild
	// ActionRemove stops and removes a stale existing container before a
	// recreate. Only emitted when ContainerState is not ContainerAbsent —
	// there is nothing to tear down otherwise.
	ActionRemove
	ActionCreate
	ActionStart
	ActionAttach
	ActionExec
)

func (a Action) String() string {
	switch a {
	case ActionGit:
		return "git"
	case ActionBuild:
		return "build"
	case ActionRemove:
		return "remove"
	case ActionCreate:
		return "create"
	case ActionStart:
		return "start"
	case ActionAttach:
		return "attach"
	case ActionExec:
		return "exec"
	default:
		return "unknown"
	}
}

// Inputs captures the observed world state Decide plans against.
type Inputs struct {
	Mode Mode

	// Rebuild forces a build regardless of image presence (--rebuild).
	Rebuild bool

	// NoContainer stops the plan after worktree readiness (--no-container).
	NoContainer bool

	// ImagePresent is whether an image tagged for this spec already
	// exists in the local store.
	ImagePresent bool

	// ImageIdentityMatches is whether that image's recorded stage
	// identity equals the freshly resolved build plan's identity. A
	// stale image (false here) is treated as image-not-present for
	// build planning purposes.
	ImageIdentityMatches bool

	ContainerState ContainerState

	// ContainerIdentityMatches is whether the existing container's
	// recorded stage-identity label equals the freshly resolved
	// identity. An existing running/stopped container is only
	// recreated when this is false — a stale image alone never forces
	// a container recreate.
	ContainerIdentityMatches bool
}

// Decide computes the ordered action sequence for in. It never includes
// an action whose effect is already satisfied by the observed state.
func Decide(in Inputs) []Action {
	plan := []Action{ActionGit}
	if in.NoContainer {
		return plan
	}

	needsBuild := in.Rebuild || !in.ImagePresent || !in.ImageIdentityMatches
	if needsBuild {
		plan = append(plan, ActionBuild)
	}

	needsRecreate := in.ContainerState == ContainerAbsent || !in.ContainerIdentityMatches
	switch {
	case needsRecreate:
		// A stale container (wrong identity) must be stopped and removed
		// before Create can reuse its name; an absent container has
		// nothing to tear down.
		if in.ContainerState != ContainerAbsent {
			plan = append(plan, ActionRemove)
		}
		plan = append(plan, ActionCreate, ActionStart)
	case in.ContainerState == ContainerStopped:
		plan = append(plan, ActionStart)
	}

	if in.Mode == ModeAttach {
		plan = append(plan, ActionAttach)
	} else {
		plan = append(plan, ActionExec)
	}
	return plan
}
