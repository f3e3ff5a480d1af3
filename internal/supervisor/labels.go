// Package supervisor wraps the Docker Engine SDK to observe and drive the
// lifecycle of the single long-lived container attached to a worktree.
//
// Adapted from the teacher's internal/docker package: the same automatic
// socket-detection client wrapper, and the same label-based persistence
// discipline (state lives entirely on the container's labels — there is no
// side file). The label namespace is generalized from the teacher's
// "worktree.*" prefix to the wtd=1 / wtd.spec=<owner>/<repo>@<branch>
// scheme SPEC_FULL.md §4.8 calls for.
package supervisor

import (
	"fmt"
	"strings"
)

// LabelManaged is set to "1" on every container wtd creates, and is the
// sole filter used to discover wtd-managed containers on a host.
const LabelManaged = "wtd"

// LabelSpec stores the owner/repo@branch identity the container was
// created for. Combined with LabelManaged this lets wtd rediscover a
// container across invocations without any external state file.
const LabelSpec = "wtd.spec"

// LabelSubfolder stores the optional #subfolder suffix, empty when absent.
const LabelSubfolder = "wtd.subfolder"

// LabelIdentity stores the build-plan FinalIdentity the container's image
// was built from, letting the reconciler detect staleness by comparing
// against a freshly computed plan without re-reading the Dockerfile.
const LabelIdentity = "wtd.identity"

// LabelWorktree stores the absolute host path of the worktree mounted
// into the container, so stale-container detection can stat it directly.
const LabelWorktree = "wtd.worktree"

// ManagedValue is the fixed value of LabelManaged on every wtd container.
const ManagedValue = "1"

// Identity describes the spec a container was created for, used both to
// build labels and to report discovered containers back to the reconciler.
type Identity struct {
	Owner        string
	Repo         string
	Branch       string
	Subfolder    string
	WorktreePath string
	PlanIdentity string
}

// SpecKey renders the owner/repo@branch form stored in LabelSpec.
func (id Identity) SpecKey() string {
	return fmt.Sprintf("%s/%s@%s", id.Owner, id.Repo, id.Branch)
}

// BuildLabels constructs the full label map to apply at container creation.
func BuildLabels(id Identity) map[string]string {
	return map[string]string{
		LabelManaged:   ManagedValue,
		LabelSpec:      id.SpecKey(),
		LabelSubfolder: id.Subfolder,
		LabelIdentity:  id.PlanIdentity,
		LabelWorktree:  id.WorktreePath,
	}
}

// ParseLabels reconstructs an Identity from a container's label map. It
// returns ok=false if the container is not wtd-managed (missing or
// mismatched LabelManaged), rather than an error, since callers typically
// scan many containers and only care about the managed subset.
func ParseLabels(labels map[string]string) (Identity, bool) {
	if labels[LabelManaged] != ManagedValue {
		return Identity{}, false
	}

	owner, repo, branch := splitSpecKey(labels[LabelSpec])
	return Identity{
		Owner:        owner,
		Repo:         repo,
		Branch:       branch,
		Subfolder:    labels[LabelSubfolder],
		WorktreePath: labels[LabelWorktree],
		PlanIdentity: labels[LabelIdentity],
	}, true
}

func splitSpecKey(key string) (owner, repo, branch string) {
	owner, rest, ok := strings.Cut(key, "/")
	if !ok {
		return "", "", ""
	}
	repo, branch, _ = strings.Cut(rest, "@")
	return owner, repo, branch
}
