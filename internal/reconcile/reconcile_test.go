package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide_FreshCloneAndRun(t *testing.T) {
	plan := Decide(Inputs{
		Mode:           ModeRun,
		ImagePresent:   false,
		ContainerState: ContainerAbsent,
	})
	assert.Equal(t, []Action{ActionGit, ActionBuild, ActionCreate, ActionStart, ActionExec}, plan)
}

func TestDecide_ReuseRunningContainer_SkipsBuildCreateStart(t *testing.T) {
	plan := Decide(Inputs{
		Mode:                     ModeAttach,
		ImagePresent:             true,
		ImageIdentityMatches:     true,
		ContainerState:           ContainerRunning,
		ContainerIdentityMatches: true,
	})
	assert.Equal(t, []Action{ActionGit, ActionAttach}, plan)
}

func TestDecide_StoppedContainerWithMatchingIdentity_OnlyStarts(t *testing.T) {
	plan := Decide(Inputs{
		Mode:                     ModeAttach,
		ImagePresent:             true,
		ImageIdentityMatches:     true,
		ContainerState:           ContainerStopped,
		ContainerIdentityMatches: true,
	})
	assert.Equal(t, []Action{ActionGit, ActionStart, ActionAttach}, plan)
}

func TestDecide_StaleImageButMatchingContainer_RebuildsWithoutRecreate(t *testing.T) {
	// A stale image is treated as "not present" for build planning, but a
	// running container whose own identity label still matches is left
	// untouched — no create/start, even though a fresh build happens.
	plan := Decide(Inputs{
		Mode:                     ModeRun,
		ImagePresent:             true,
		ImageIdentityMatches:     false,
		ContainerState:           ContainerRunning,
		ContainerIdentityMatches: true,
	})
	assert.Equal(t, []Action{ActionGit, ActionBuild, ActionExec}, plan)
}

func TestDecide_ContainerIdentityMismatch_ForcesRecreateEvenWithFreshImage(t *testing.T) {
	plan := Decide(Inputs{
		Mode:                     ModeAttach,
		ImagePresent:             true,
		ImageIdentityMatches:     true,
		ContainerState:           ContainerRunning,
		ContainerIdentityMatches: false,
	})
	assert.Equal(t, []Action{ActionGit, ActionRemove, ActionCreate, ActionStart, ActionAttach}, plan)
}

func TestDecide_StoppedContainerIdentityMismatch_RemovesBeforeRecreate(t *testing.T) {
	plan := Decide(Inputs{
		Mode:                     ModeAttach,
		ImagePresent:             true,
		ImageIdentityMatches:     true,
		ContainerState:           ContainerStopped,
		ContainerIdentityMatches: false,
	})
	assert.Equal(t, []Action{ActionGit, ActionRemove, ActionCreate, ActionStart, ActionAttach}, plan)
}

func TestDecide_AbsentContainer_NeverEmitsRemove(t *testing.T) {
	plan := Decide(Inputs{
		Mode:           ModeAttach,
		ImagePresent:   true,
		ContainerState: ContainerAbsent,
	})
	assert.NotContains(t, plan, ActionRemove)
}

func TestDecide_Rebuild_ForcesBuildRegardlessOfImagePresence(t *testing.T) {
	plan := Decide(Inputs{
		Mode:                     ModeAttach,
		Rebuild:                  true,
		ImagePresent:             true,
		ImageIdentityMatches:     true,
		ContainerState:           ContainerRunning,
		ContainerIdentityMatches: true,
	})
	assert.Equal(t, []Action{ActionGit, ActionBuild, ActionAttach}, plan)
}

func TestDecide_NoContainer_StopsAfterGit(t *testing.T) {
	plan := Decide(Inputs{
		Mode:         ModeRun,
		NoContainer:  true,
		ImagePresent: false,
	})
	assert.Equal(t, []Action{ActionGit}, plan)
}

func TestDecide_MultiStageCommandUsesExecNotAttach(t *testing.T) {
	plan := Decide(Inputs{
		Mode:                     ModeRun,
		ImagePresent:             true,
		ImageIdentityMatches:     true,
		ContainerState:           ContainerRunning,
		ContainerIdentityMatches: true,
	})
	assert.Contains(t, plan, ActionExec)
	assert.NotContains(t, plan, ActionAttach)
}
