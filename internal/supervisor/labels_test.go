package supervisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLabels_RoundTripsThroughParseLabels(t *testing.T) {
	id := Identity{
		Owner:        "octocat",
		Repo:         "hello-world",
		Branch:       "feature/x",
		Subfolder:    "services/api",
		WorktreePath: "/home/user/.wtd/worktrees/octocat-hello-world-feature-x",
		PlanIdentity: "abc123",
	}

	labels := BuildLabels(id)
	assert.Equal(t, ManagedValue, labels[LabelManaged])
	assert.Equal(t, "octocat/hello-world@feature/x", labels[LabelSpec])

	parsed, ok := ParseLabels(labels)
	require.True(t, ok)
	assert.Equal(t, id, parsed)
}

func TestParseLabels_RejectsUnmanagedContainer(t *testing.T) {
	_, ok := ParseLabels(map[string]string{"com.docker.compose.service": "web"})
	assert.False(t, ok)
}

func TestSpecKey_FormatsOwnerRepoBranch(t *testing.T) {
	id := Identity{Owner: "octocat", Repo: "hello-world", Branch: "main"}
	assert.Equal(t, "octocat/hello-world@main", id.SpecKey())
}

func TestParseLabels_HandlesBranchNamesContainingSlash(t *testing.T) {
	labels := BuildLabels(Identity{Owner: "a", Repo: "b", Branch: "feature/foo/bar"})
	parsed, ok := ParseLabels(labels)
	require.True(t, ok)
	assert.Equal(t, "feature/foo/bar", parsed.Branch)
}
