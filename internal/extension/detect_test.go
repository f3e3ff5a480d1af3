package extension

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches_Files(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0o644))

	m := Manifest{Name: "node", AutoDetect: AutoDetect{Files: []string{`^package\.json$`}}}
	assert.True(t, m.Matches(dir))

	m2 := Manifest{Name: "python", AutoDetect: AutoDetect{Files: []string{`^requirements\.txt$`}}}
	assert.False(t, m2.Matches(dir))
}

func TestMatches_NotRecursive(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "package.json"), []byte("{}"), 0o644))

	m := Manifest{Name: "node", AutoDetect: AutoDetect{Files: []string{`^package\.json$`}}}
	assert.False(t, m.Matches(dir))
}

func TestMatches_FileContentsMissingFileIsNonMatch(t *testing.T) {
	dir := t.TempDir()
	m := Manifest{Name: "gui-x11", AutoDetect: AutoDetect{FileContents: map[string][]string{".wtd/extensions.lock": {"gui-x11"}}}}
	assert.False(t, m.Matches(dir))
}

func TestMatches_FileContentsSubstring(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".wtd"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".wtd", "extensions.lock"), []byte("gui-x11\nnode\n"), 0o644))

	m := Manifest{Name: "gui-x11", AutoDetect: AutoDetect{FileContents: map[string][]string{".wtd/extensions.lock": {"gui-x11"}}}}
	assert.True(t, m.Matches(dir))
}

func TestMatches_FileContentsMatchesAnyOfMultipleSubstrings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".wtd"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".wtd", "extensions.lock"), []byte("node\n"), 0o644))

	m := Manifest{Name: "gui-x11", AutoDetect: AutoDetect{FileContents: map[string][]string{".wtd/extensions.lock": {"gui-x11", "node"}}}}
	assert.True(t, m.Matches(dir))
}

func TestMatches_HostPaths(t *testing.T) {
	existing := t.TempDir()
	m := Manifest{Name: "gpu-cuda", AutoDetect: AutoDetect{HostPaths: []string{existing}}}
	assert.True(t, m.Matches(t.TempDir()))

	m2 := Manifest{Name: "gpu-cuda", AutoDetect: AutoDetect{HostPaths: []string{"/definitely/not/a/real/path"}}}
	assert.False(t, m2.Matches(t.TempDir()))
}

func TestEmptyAutoDetectNeverMatches(t *testing.T) {
	m := Manifest{Name: "shell-base"}
	assert.False(t, m.Matches(t.TempDir()))
}
