package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/wtd/internal/extension"
)

// loadWith parses one manifest per name->json and returns a catalog
// holding exactly those manifests. Building the catalog directly (rather
// than through extension.Load, which always adds the embedded built-ins)
// keeps resolver tests independent of the built-in catalog's contents.
func loadWith(t *testing.T, manifests map[string]string) *extension.Catalog {
	t.Helper()
	ms := make([]extension.Manifest, 0, len(manifests))
	for _, body := range manifests {
		m, err := extension.ParseManifest([]byte(body))
		require.NoError(t, err)
		ms = append(ms, m)
	}
	return extension.NewCatalog(ms...)
}

func names(ms []extension.Manifest) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func TestResolve_AlwaysLoadAndDependencyOrder(t *testing.T) {
	cat := loadWith(t, map[string]string{
		"base": `{"name": "base", "always_load": true}`,
		"mid":  `{"name": "mid", "dependencies": ["base"]}`,
		"top":  `{"name": "top", "dependencies": ["mid"]}`,
	})

	result, err := Resolve(cat, Options{Requested: []string{"top"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "mid", "top"}, names(result))
}

func TestResolve_DeterministicTieBreakByName(t *testing.T) {
	cat := loadWith(t, map[string]string{
		"base": `{"name": "base", "always_load": true}`,
		"zeta": `{"name": "zeta", "dependencies": ["base"]}`,
		"alpha": `{"name": "alpha", "dependencies": ["base"]}`,
	})

	result, err := Resolve(cat, Options{Requested: []string{"zeta", "alpha"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "alpha", "zeta"}, names(result))
}

func TestResolve_DependencyMissing(t *testing.T) {
	cat := loadWith(t, map[string]string{
		"top": `{"name": "top", "dependencies": ["ghost"]}`,
	})

	_, err := Resolve(cat, Options{Requested: []string{"top"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DependencyMissing")
}

func TestResolve_NeverLoadHardFailure(t *testing.T) {
	cat := loadWith(t, map[string]string{
		"a": `{"name": "a", "never_load": ["b"]}`,
		"b": `{"name": "b"}`,
	})

	_, err := Resolve(cat, Options{Requested: []string{"a", "b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IncompatibleExtensions")
}

func TestResolve_Cycle(t *testing.T) {
	cat := loadWith(t, map[string]string{
		"a": `{"name": "a", "dependencies": ["b"]}`,
		"b": `{"name": "b", "dependencies": ["a"]}`,
	})

	_, err := Resolve(cat, Options{Requested: []string{"a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DependencyCycle")
}

func TestResolve_GPUExtensionBundledByDefault(t *testing.T) {
	cat := loadWith(t, map[string]string{
		"gpu": `{"name": "gpu", "gpu": true}`,
	})

	result, err := Resolve(cat, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"gpu"}, names(result))
}

func TestResolve_NoGPUDropsGPUExtension(t *testing.T) {
	cat := loadWith(t, map[string]string{
		"gpu": `{"name": "gpu", "gpu": true}`,
	})

	result, err := Resolve(cat, Options{NoGPU: true})
	require.NoError(t, err)
	assert.Empty(t, result)
}
