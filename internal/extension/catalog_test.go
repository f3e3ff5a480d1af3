package extension

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_BuiltinsOnly(t *testing.T) {
	dir := t.TempDir()
	c, err := Load(dir)
	require.NoError(t, err)

	_, ok := c.Get("git-clone")
	assert.True(t, ok)
	_, ok = c.Get("shell-base")
	assert.True(t, ok)
	assert.Empty(t, c.Shadowed())
}

func TestLoad_RepoLocalShadowsBuiltin(t *testing.T) {
	dir := t.TempDir()
	extDir := filepath.Join(dir, ".wtd", "extensions", "node")
	require.NoError(t, os.MkdirAll(extDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(extDir, "manifest.json"),
		[]byte(`{"name": "node", "description": "custom node override"}`), 0o644))

	c, err := Load(dir)
	require.NoError(t, err)

	m, ok := c.Get("node")
	require.True(t, ok)
	assert.Equal(t, "custom node override", m.Description)
	assert.Contains(t, c.Shadowed(), "node")
}

func TestLoad_RepoLocalManifestNestedBeyondOneDirectoryLevel(t *testing.T) {
	dir := t.TempDir()
	extDir := filepath.Join(dir, ".wtd", "extensions", "group", "rust", "v2")
	require.NoError(t, os.MkdirAll(extDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(extDir, "manifest.json"),
		[]byte(`{"name": "rust"}`), 0o644))

	c, err := Load(dir)
	require.NoError(t, err)

	_, ok := c.Get("rust")
	assert.True(t, ok)
}

func TestLoad_UnknownDependencyIsCatalogInvalid(t *testing.T) {
	dir := t.TempDir()
	extDir := filepath.Join(dir, ".wtd", "extensions", "broken")
	require.NoError(t, os.MkdirAll(extDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(extDir, "manifest.json"),
		[]byte(`{"name": "broken", "dependencies": ["does-not-exist"]}`), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CatalogInvalid")
}

func TestLoad_DuplicateRepoLocalNames(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		extDir := filepath.Join(dir, ".wtd", "extensions", sub)
		require.NoError(t, os.MkdirAll(extDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(extDir, "manifest.json"),
			[]byte(`{"name": "dup"}`), 0o644))
	}

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate repo-local extension name")
}
