// adapter.go bridges the Container Supervisor's free functions (which take
// an explicit *supervisor.Client per call) to the reconcile.Supervisor
// interface, which closes over a single container/build target for the
// duration of one reconcile run.
package cli

import (
	"context"

	"github.com/mmr-tortoise/wtd/internal/supervisor"
)

type dockerSupervisor struct {
	client     *supervisor.Client
	bakeDir    string
	bakeFile   string
	target     string
	builder    string
	create     supervisor.CreateSpec
	workingDir string
}

func (d *dockerSupervisor) Build(ctx context.Context) error {
	return supervisor.Build(ctx, d.bakeDir, d.bakeFile, d.target, d.builder)
}

func (d *dockerSupervisor) Remove(ctx context.Context, containerID string) error {
	// Stop is best-effort: a container that's already stopped (or that
	// races to exit between our state read and this call) still needs
	// removing, and Remove's Force flag handles that below regardless.
	_ = supervisor.Stop(ctx, d.client, containerID)
	return supervisor.Remove(ctx, d.client, containerID, true)
}

func (d *dockerSupervisor) Create(ctx context.Context) (string, error) {
	return supervisor.Create(ctx, d.client, d.create)
}

func (d *dockerSupervisor) Start(ctx context.Context, containerID string) error {
	return supervisor.Start(ctx, d.client, containerID)
}

func (d *dockerSupervisor) Attach(ctx context.Context, containerID string) (int, error) {
	return supervisor.AttachExec(ctx, d.client, containerID, nil, d.workingDir)
}

func (d *dockerSupervisor) Exec(ctx context.Context, containerID string, command []string) (int, error) {
	return supervisor.AttachExec(ctx, d.client, containerID, command, d.workingDir)
}
