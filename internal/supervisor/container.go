// container.go implements the observable half of the Container Supervisor:
// discovering wtd-managed containers and images via the Docker SDK.
// Adapted from the teacher's internal/docker/container.go list/group/status
// pattern, generalized from its worktree.* label scheme to wtd's.
package supervisor

import (
	"context"
	"os"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"

	"github.com/mmr-tortoise/wtd/internal/clierr"
)

// State is the observed lifecycle state of a supervised container.
type State string

const (
	StateAbsent  State = "absent"
	StateRunning State = "running"
	StateStopped State = "stopped"
)

// ContainerInfo describes one discovered wtd-managed container.
type ContainerInfo struct {
	ID       string
	Name     string
	Image    string
	State    State
	Identity Identity
}

// Find looks up the container registered for id's spec key, returning
// StateAbsent (with a zero ID) if none is registered.
func Find(ctx context.Context, c *Client, id Identity) (ContainerInfo, error) {
	all, err := List(ctx, c)
	if err != nil {
		return ContainerInfo{}, err
	}
	for _, ci := range all {
		if ci.Identity.SpecKey() == id.SpecKey() {
			return ci, nil
		}
	}
	return ContainerInfo{State: StateAbsent}, nil
}

// List returns every container wtd manages, running or stopped.
func List(ctx context.Context, c *Client) ([]ContainerInfo, error) {
	filterArgs := filters.NewArgs(filters.Arg("label", LabelManaged+"="+ManagedValue))

	containers, err := c.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, clierr.ContainerFailed("list containers", "", err)
	}

	result := make([]ContainerInfo, 0, len(containers))
	for _, ct := range containers {
		identity, ok := ParseLabels(ct.Labels)
		if !ok {
			continue
		}
		name := ""
		if len(ct.Names) > 0 {
			name = strings.TrimPrefix(ct.Names[0], "/")
		}
		state := StateStopped
		if ct.State == "running" {
			state = StateRunning
		}
		result = append(result, ContainerInfo{
			ID:       ct.ID,
			Name:     name,
			Image:    ct.Image,
			State:    state,
			Identity: identity,
		})
	}
	return result, nil
}

// ImagePresent reports whether imageTag already exists in the local image
// store, so the reconciler can skip a build when nothing changed.
func ImagePresent(ctx context.Context, c *Client, imageTag string) (bool, error) {
	images, err := c.Inner().ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", imageTag)),
	})
	if err != nil {
		return false, clierr.ContainerFailed("list images", "", err)
	}
	return len(images) > 0, nil
}

// WorktreeStillPresent reports whether a container's mounted worktree path
// still exists on disk, distinguishing an orphaned container (its worktree
// was removed out-of-band) from one whose worktree is intact.
func WorktreeStillPresent(info ContainerInfo) bool {
	_, err := os.Stat(info.Identity.WorktreePath)
	return err == nil
}
