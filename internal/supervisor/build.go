// build.go drives `docker buildx bake` against the generated bake.hcl,
// the same subprocess-wrapping approach the teacher uses for `docker
// compose` (see internal/docker/container.go's runCompose): the Docker SDK
// has no buildx bake endpoint, so the bake file's own target is invoked
// as a child process and its combined output captured for error reporting.
package supervisor

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/mmr-tortoise/wtd/internal/clierr"
)

// Build invokes `docker buildx bake -f <bakeFile> <target>` in dir,
// streaming neither stdout nor stderr to the caller but capturing both
// for inclusion in a BuildFailed error. When builder is non-empty it is
// passed through as `--builder <name>`, selecting a non-default buildx
// builder instance (e.g. one with remote/cloud build capacity) instead
// of the ambient Docker context's default.
func Build(ctx context.Context, dir, bakeFile, target, builder string) error {
	args := []string{"buildx", "bake", "-f", bakeFile}
	if builder != "" {
		args = append(args, "--builder", builder)
	}
	args = append(args, target)

	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()

	output, err := cmd.CombinedOutput()
	if err != nil {
		return clierr.BuildFailed(strings.TrimSpace(string(output)), err)
	}
	return nil
}
