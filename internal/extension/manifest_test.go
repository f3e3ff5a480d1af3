package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest_StripsComments(t *testing.T) {
	raw := []byte(`{
		// a comment
		"name": "node",
		"dependencies": ["shell-base"]
	}`)
	m, err := ParseManifest(raw)
	require.NoError(t, err)
	assert.Equal(t, "node", m.Name)
	assert.Equal(t, []string{"shell-base"}, m.Dependencies)
}

func TestParseManifest_RequiresName(t *testing.T) {
	_, err := ParseManifest([]byte(`{"description": "no name"}`))
	require.Error(t, err)
}

func TestManifest_HostMounts(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name": "git-clone", "metadata": {"host_mounts": ["ssh", "gitconfig"]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"ssh", "gitconfig"}, m.HostMounts())
}
