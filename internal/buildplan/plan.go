// Package buildplan turns a resolved, topologically ordered extension
// list into the generated Dockerfile, service description, and
// docker-bake.hcl build manifest, plus the per-stage content-hash
// identity used to detect a stale image.
package buildplan

import (
	"fmt"

	"github.com/mmr-tortoise/wtd/internal/extension"
)

// Stage is one layer of the generated multi-stage Dockerfile,
// corresponding to one resolved extension.
type Stage struct {
	Name           string
	Fragment       string
	ParentIdentity string
	Identity       string
}

// Plan is the full build plan for one container: an ordered stage list
// plus the deep-merged service description.
type Plan struct {
	BaseImage     string
	ContainerName string
	Stages        []Stage
	Service       map[string]any

	// FinalIdentity is the last stage's identity — the image's recorded
	// stage-identity label value.
	FinalIdentity string
}

// Build constructs a Plan from a topologically ordered extension list.
// rebuildSalt, when non-empty, is mixed into the root stage's identity so
// that --rebuild forces a cache miss even when nothing else changed.
func Build(baseImage, containerName string, extensions []extension.Manifest, rebuildSalt string) Plan {
	plan := Plan{BaseImage: baseImage, ContainerName: containerName}

	parentID := ""
	for i, m := range extensions {
		baseTag := ""
		if i == 0 {
			baseTag = baseImage + rebuildSalt
		}
		id := stageIdentity(m.Name, parentID, m.DockerfileFragment, baseTag)
		plan.Stages = append(plan.Stages, Stage{
			Name:           m.Name,
			Fragment:       m.DockerfileFragment,
			ParentIdentity: parentID,
			Identity:       id,
		})
		parentID = id
	}
	plan.FinalIdentity = stageIdentity("final", parentID, "", "")
	plan.Service = mergeServiceFragments(extensions)

	return plan
}

// mergeServiceFragments deep-merges every extension's service_fragment in
// resolution order: map keys recurse, list values concatenate with
// order-preserving dedup, scalar values are overwritten by the later
// extension. See DESIGN.md for why this is hand-written rather than
// delegated to compose-go's loader-internal merge.
func mergeServiceFragments(extensions []extension.Manifest) map[string]any {
	result := map[string]any{}
	for _, m := range extensions {
		if m.ServiceFragment == nil {
			continue
		}
		result = deepMerge(result, m.ServiceFragment)
	}
	return result
}

func deepMerge(dst, src map[string]any) map[string]any {
	for k, v := range src {
		existing, ok := dst[k]
		if !ok {
			dst[k] = v
			continue
		}
		dst[k] = mergeValue(existing, v)
	}
	return dst
}

func mergeValue(existing, incoming any) any {
	switch e := existing.(type) {
	case map[string]any:
		if i, ok := incoming.(map[string]any); ok {
			return deepMerge(e, i)
		}
		return incoming
	case []any:
		if i, ok := incoming.([]any); ok {
			return concatDedup(e, i)
		}
		return incoming
	default:
		return incoming
	}
}

// concatDedup concatenates a then b, dropping later duplicates while
// preserving the first-seen order.
func concatDedup(a, b []any) []any {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]any, 0, len(a)+len(b))
	for _, v := range append(append([]any{}, a...), b...) {
		key := fmt.Sprintf("%v", v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
