// Package resolve computes the root set of extensions for a worktree,
// expands it to a transitive closure over dependency edges, checks
// never_load pairwise incompatibility, and produces a deterministic
// topological order.
//
// The topological sort is Kahn's algorithm with alphabetic tie-breaking,
// grounded directly on the devcontainer "Features" ordering logic from
// the retrieved griffithind-dcx example (internal/features/ordering.go) —
// this spec's dependency graph is the same shape (name, hard dependency
// edges, cycle-freedom requirement) without that example's soft
// dependency (installsAfter) concept, which this spec has no analog for.
package resolve

import (
	"sort"

	"github.com/mmr-tortoise/wtd/internal/clierr"
	"github.com/mmr-tortoise/wtd/internal/extension"
)

// Options configures root-set construction.
type Options struct {
	// AutoDetected are extension names the Auto-Detector matched.
	AutoDetected []string

	// Requested are extension names the user passed via repeated -e flags.
	Requested []string

	// NoGUI and NoGPU drop gui/gpu-bundled extensions from the root set
	// even if they were auto-detected or always_load.
	NoGUI bool
	NoGPU bool
}

// Resolve computes the final, topologically ordered list of extensions
// that should be built into the image, given the effective catalog and
// root-set options.
func Resolve(cat *extension.Catalog, opts Options) ([]extension.Manifest, error) {
	root := buildRootSet(cat, opts)

	closure, err := closeOverDependencies(cat, root)
	if err != nil {
		return nil, err
	}

	if err := checkNeverLoad(cat, closure); err != nil {
		return nil, err
	}

	return topoSort(cat, closure)
}

// buildRootSet unions always_load, auto-detected, user-requested, and
// (unless disabled) gui/gpu-bundled extensions into a name set.
func buildRootSet(cat *extension.Catalog, opts Options) map[string]bool {
	root := make(map[string]bool)

	for _, m := range cat.All() {
		if m.AlwaysLoad && !droppedByFlags(m, opts) {
			root[m.Name] = true
		}
		// GUI/GPU-bundled extensions are in the root set by default;
		// --no-gui/--no-gpu remove them from this implicit inclusion only —
		// an explicit -e request for one still wins (see opts.Requested below).
		if m.GUI && !opts.NoGUI {
			root[m.Name] = true
		}
		if m.GPU && !opts.NoGPU {
			root[m.Name] = true
		}
	}
	for _, name := range opts.AutoDetected {
		if m, ok := cat.Get(name); ok && !droppedByFlags(m, opts) {
			root[name] = true
		}
	}
	for _, name := range opts.Requested {
		root[name] = true
	}
	return root
}

func droppedByFlags(m extension.Manifest, opts Options) bool {
	if m.GUI && opts.NoGUI {
		return true
	}
	if m.GPU && opts.NoGPU {
		return true
	}
	return false
}

// closeOverDependencies expands root to its transitive closure over
// dependency edges, returning DependencyMissing if an edge target isn't
// in the catalog (should already be caught by catalog validation, but
// resolve re-checks since root-set membership can introduce references
// catalog-level validation doesn't see, e.g. a requested name itself).
func closeOverDependencies(cat *extension.Catalog, root map[string]bool) (map[string]bool, error) {
	closure := make(map[string]bool)
	var visit func(name, from string) error
	visit = func(name, from string) error {
		if closure[name] {
			return nil
		}
		m, ok := cat.Get(name)
		if !ok {
			return clierr.DependencyMissing(from, name)
		}
		closure[name] = true
		for _, dep := range m.Dependencies {
			if err := visit(dep, name); err != nil {
				return err
			}
		}
		return nil
	}

	names := make([]string, 0, len(root))
	for name := range root {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := visit(name, "(requested)"); err != nil {
			return nil, err
		}
	}
	return closure, nil
}

// checkNeverLoad reports the first IncompatibleExtensions pair found
// among the closure, checked in both directions since never_load is
// declared per-extension and may not be symmetric in the manifests.
func checkNeverLoad(cat *extension.Catalog, closure map[string]bool) error {
	names := sortedNames(closure)
	for _, a := range names {
		ma, _ := cat.Get(a)
		for _, conflict := range ma.NeverLoad {
			if closure[conflict] {
				return clierr.IncompatibleExtensions(a, conflict)
			}
		}
	}
	return nil
}

// topoSort performs Kahn's algorithm over the closure's dependency edges,
// breaking ties by ascending name for determinism, and detects cycles by
// comparing the result length to the input length.
func topoSort(cat *extension.Catalog, closure map[string]bool) ([]extension.Manifest, error) {
	names := sortedNames(closure)

	inDegree := make(map[string]int, len(names))
	dependents := make(map[string][]string, len(names))
	for _, name := range names {
		inDegree[name] = 0
	}
	for _, name := range names {
		m, _ := cat.Get(name)
		for _, dep := range m.Dependencies {
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var queue []string
	for _, name := range names {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		next := append([]string(nil), dependents[current]...)
		sort.Strings(next)
		for _, dependent := range next {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
				sort.Strings(queue)
			}
		}
	}

	if len(order) != len(names) {
		var cycle []string
		for _, name := range names {
			if inDegree[name] > 0 {
				cycle = append(cycle, name)
			}
		}
		sort.Strings(cycle)
		return nil, clierr.DependencyCycle(cycle)
	}

	result := make([]extension.Manifest, len(order))
	for i, name := range order {
		m, _ := cat.Get(name)
		result[i] = m
	}
	return result, nil
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
