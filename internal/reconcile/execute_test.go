package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGit struct {
	ensureBareCalls     int
	ensureWorktreeCalls int
	warning             string
	err                 error
}

func (f *fakeGit) EnsureBare(remoteURL, barePath string) (string, error) {
	f.ensureBareCalls++
	return f.warning, f.err
}

func (f *fakeGit) EnsureWorktree(barePath, worktreePath, branch, defaultBranch string) error {
	f.ensureWorktreeCalls++
	return nil
}

type fakeSupervisor struct {
	buildCalls  int
	removeCalls int
	removedID   string
	createCalls int
	startCalls  int
	execCmd     []string
	createdID   string
	buildErr    error
}

func (f *fakeSupervisor) Build(ctx context.Context) error {
	f.buildCalls++
	return f.buildErr
}

func (f *fakeSupervisor) Remove(ctx context.Context, containerID string) error {
	f.removeCalls++
	f.removedID = containerID
	return nil
}

func (f *fakeSupervisor) Create(ctx context.Context) (string, error) {
	f.createCalls++
	return f.createdID, nil
}

func (f *fakeSupervisor) Start(ctx context.Context, containerID string) error {
	f.startCalls++
	return nil
}

func (f *fakeSupervisor) Attach(ctx context.Context, containerID string) (int, error) {
	return 0, nil
}

func (f *fakeSupervisor) Exec(ctx context.Context, containerID string, command []string) (int, error) {
	f.execCmd = command
	return 0, nil
}

func TestExecute_FreshCloneAndRun(t *testing.T) {
	git := &fakeGit{}
	sup := &fakeSupervisor{createdID: "container-123"}

	plan := Decide(Inputs{Mode: ModeRun, ContainerState: ContainerAbsent})
	res, err := Execute(context.Background(), plan, Target{
		RemoteURL:    "https://github.com/octocat/hello-world.git",
		BarePath:     "/cache/octocat-hello-world.git",
		WorktreePath: "/cache/worktree-main",
		Branch:       "main",
		Command:      []string{"echo", "hi"},
	}, git, sup)

	require.NoError(t, err)
	assert.Equal(t, 1, git.ensureBareCalls)
	assert.Equal(t, 1, git.ensureWorktreeCalls)
	assert.Equal(t, 1, sup.buildCalls)
	assert.Equal(t, 1, sup.createCalls)
	assert.Equal(t, 1, sup.startCalls)
	assert.Equal(t, []string{"echo", "hi"}, sup.execCmd)
	assert.Equal(t, "container-123", res.ContainerID)
	assert.Equal(t, ModeRun, res.ExecutedMode)
}

func TestExecute_ReuseRunningContainer_NeverCallsCreateOrStart(t *testing.T) {
	git := &fakeGit{}
	sup := &fakeSupervisor{}

	plan := Decide(Inputs{
		Mode:                     ModeAttach,
		ImagePresent:             true,
		ImageIdentityMatches:     true,
		ContainerState:           ContainerRunning,
		ContainerIdentityMatches: true,
	})
	res, err := Execute(context.Background(), plan, Target{
		ExistingContainerID: "container-existing",
	}, git, sup)

	require.NoError(t, err)
	assert.Equal(t, 0, sup.buildCalls)
	assert.Equal(t, 0, sup.createCalls)
	assert.Equal(t, 0, sup.startCalls)
	assert.Equal(t, "container-existing", res.ContainerID)
}

func TestExecute_FolderDeletionRecovery_RecreatesOnIdentityMismatch(t *testing.T) {
	git := &fakeGit{}
	sup := &fakeSupervisor{createdID: "container-new"}

	// The worktree directory was recreated by gitcoord but the previously
	// running container's identity no longer matches (e.g. it mounted the
	// old, now-gone, worktree inode) — must be recreated, not reused.
	plan := Decide(Inputs{
		Mode:                     ModeAttach,
		ImagePresent:             true,
		ImageIdentityMatches:     true,
		ContainerState:           ContainerRunning,
		ContainerIdentityMatches: false,
	})
	res, err := Execute(context.Background(), plan, Target{
		ExistingContainerID: "container-stale",
	}, git, sup)

	require.NoError(t, err)
	assert.Equal(t, 1, sup.removeCalls)
	assert.Equal(t, "container-stale", sup.removedID)
	assert.Equal(t, 1, sup.createCalls)
	assert.Equal(t, 1, sup.startCalls)
	assert.Equal(t, "container-new", res.ContainerID)
}

func TestExecute_AbsentContainer_NeverCallsRemove(t *testing.T) {
	git := &fakeGit{}
	sup := &fakeSupervisor{createdID: "container-new"}

	plan := Decide(Inputs{Mode: ModeRun, ContainerState: ContainerAbsent})
	_, err := Execute(context.Background(), plan, Target{}, git, sup)

	require.NoError(t, err)
	assert.Equal(t, 0, sup.removeCalls)
}

func TestExecute_StopsAtFirstError_NeverRunsLaterActions(t *testing.T) {
	git := &fakeGit{err: errors.New("clone failed")}
	sup := &fakeSupervisor{}

	plan := Decide(Inputs{Mode: ModeRun, ContainerState: ContainerAbsent})
	_, err := Execute(context.Background(), plan, Target{}, git, sup)

	require.Error(t, err)
	assert.Equal(t, 0, sup.buildCalls, "build must not run after git fails")
}

func TestExecute_CancelledContextSurfacesCancelled(t *testing.T) {
	git := &fakeGit{}
	sup := &fakeSupervisor{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := Decide(Inputs{Mode: ModeRun, ContainerState: ContainerAbsent})
	_, err := Execute(ctx, plan, Target{}, git, sup)
	require.Error(t, err)
	assert.Equal(t, "Cancelled: interrupted", err.Error())
}
