// lifecycle.go implements container creation and teardown through the
// Docker SDK, grounded on the teacher's StartContainer/StopContainer/
// RemoveContainer (internal/docker/container.go). Creation itself is new
// (the teacher creates containers via `docker run`/compose rewritten from
// devcontainer.json; wtd instead has its own generated compose file and
// Dockerfile), but uses the SDK's container.Config/HostConfig the way the
// rest of the retrieved corpus constructs containers programmatically.
package supervisor

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/mmr-tortoise/wtd/internal/clierr"
)

// Mount describes a single bind mount to attach to the supervised
// container, sourced either from the worktree root or from an
// extension's declared host_mounts.
type Mount struct {
	HostPath      string
	ContainerPath string
	ReadOnly      bool
}

// CreateSpec describes everything needed to create the long-lived
// container for a worktree.
type CreateSpec struct {
	Name   string
	Image  string
	Mounts []Mount
	Env    map[string]string
	Labels map[string]string

	// WorkingDir is the container's initial working directory, per
	// SPEC_FULL.md §4.8: "/workspace" or "/workspace/<subfolder>". Callers
	// derive this from the parsed specifier's subfolder; an empty value
	// falls back to "/workspace".
	WorkingDir string
}

// Create creates (but does not start) the supervised container.
func Create(ctx context.Context, c *Client, spec CreateSpec) (string, error) {
	env := make([]string, 0, len(spec.Env))
	for k, v := range spec.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	binds := make([]string, 0, len(spec.Mounts))
	for _, m := range spec.Mounts {
		mode := "rw"
		if m.ReadOnly {
			mode = "ro"
		}
		binds = append(binds, fmt.Sprintf("%s:%s:%s", m.HostPath, m.ContainerPath, mode))
	}

	workingDir := spec.WorkingDir
	if workingDir == "" {
		workingDir = "/workspace"
	}

	cfg := &container.Config{
		Image:      spec.Image,
		Env:        env,
		Labels:     spec.Labels,
		Tty:        true,
		OpenStdin:  true,
		Cmd:        []string{"sleep", "infinity"},
		WorkingDir: workingDir,
	}
	hostCfg := &container.HostConfig{
		Binds: binds,
	}

	resp, err := c.Inner().ContainerCreate(ctx, cfg, hostCfg, &network.NetworkingConfig{}, (*ocispec.Platform)(nil), spec.Name)
	if err != nil {
		return "", clierr.ContainerFailed("create container "+spec.Name, "", err)
	}
	return resp.ID, nil
}

// Start starts a previously created (or stopped) container.
func Start(ctx context.Context, c *Client, containerID string) error {
	if err := c.Inner().ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return clierr.ContainerFailed("start container "+containerID, "", err)
	}
	return nil
}

// Stop stops a running container, giving it Docker's default grace period.
func Stop(ctx context.Context, c *Client, containerID string) error {
	if err := c.Inner().ContainerStop(ctx, containerID, container.StopOptions{}); err != nil {
		return clierr.ContainerFailed("stop container "+containerID, "", err)
	}
	return nil
}

// Remove deletes a container. force also kills it first if running.
func Remove(ctx context.Context, c *Client, containerID string, force bool) error {
	if err := c.Inner().ContainerRemove(ctx, containerID, container.RemoveOptions{Force: force}); err != nil {
		return clierr.ContainerFailed("remove container "+containerID, "", err)
	}
	return nil
}

// RemoveImage deletes the named image from the local store. A missing
// image is not an error — it may already have been removed by a prior
// prune or never built at all.
func RemoveImage(ctx context.Context, c *Client, imageRef string) error {
	if imageRef == "" {
		return nil
	}
	if _, err := c.Inner().ImageRemove(ctx, imageRef, image.RemoveOptions{Force: true}); err != nil {
		if client.IsErrNotFound(err) {
			return nil
		}
		return clierr.ContainerFailed("remove image "+imageRef, "", err)
	}
	return nil
}

// PruneOne stops and removes a single supervised container and its image,
// used by `wtd --prune <spec>`. The caller is responsible for the
// corresponding worktree/bare filesystem and git-registration cleanup
// (internal/gitcoord.Prune plus os.RemoveAll), since PruneOne only knows
// about Docker-side state.
func PruneOne(ctx context.Context, c *Client, info ContainerInfo) error {
	if info.State == StateRunning {
		if err := Stop(ctx, c, info.ID); err != nil {
			return err
		}
	}
	if err := Remove(ctx, c, info.ID, true); err != nil {
		return err
	}
	return RemoveImage(ctx, c, info.Image)
}

// PruneAll stops and removes every wtd-managed container (and its image)
// whose worktree no longer exists on disk, used by `wtd --prune` with no
// argument. As with PruneOne, on-disk worktree/bare cleanup is the
// caller's job.
func PruneAll(ctx context.Context, c *Client) ([]ContainerInfo, error) {
	all, err := List(ctx, c)
	if err != nil {
		return nil, err
	}

	var pruned []ContainerInfo
	for _, info := range all {
		if WorktreeStillPresent(info) {
			continue
		}
		if err := PruneOne(ctx, c, info); err != nil {
			return pruned, err
		}
		pruned = append(pruned, info)
	}
	return pruned, nil
}
