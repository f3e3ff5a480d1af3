// Package extension loads and validates extension manifests and builds
// the effective catalog for a worktree: a curated built-in set shadowed
// by repo-local manifests found at any depth under .wtd/extensions/.
//
// Manifests are JSONC (JSON with comments), parsed the same way the
// teacher's devcontainer package parses devcontainer.json: strip comments
// with tidwall/jsonc, then unmarshal into a typed struct with
// encoding/json so unknown fields are simply ignored rather than
// rejected.
package extension

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// AutoDetect describes the conditions under which an extension is
// automatically added to the dependency resolver's root set.
type AutoDetect struct {
	// Files lists regexes matched against direct children of the worktree
	// root (not recursive) that are regular files.
	Files []string `json:"files,omitempty"`

	// Directories lists regexes matched against direct children of the
	// worktree root (not recursive) that are directories.
	Directories []string `json:"directories,omitempty"`

	// HostPaths lists absolute paths on the host whose existence triggers
	// auto-detection (e.g. a GPU device node).
	HostPaths []string `json:"host_paths,omitempty"`

	// FileContents maps a path (relative to the worktree root) to a list
	// of substrings; the file matches if it contains at least one of
	// them, case-sensitive. A missing or unreadable file is a non-match,
	// never an error.
	FileContents map[string][]string `json:"file_contents,omitempty"`
}

// Empty reports whether none of the auto_detect sub-rules are populated.
func (a AutoDetect) Empty() bool {
	return len(a.Files) == 0 && len(a.Directories) == 0 && len(a.HostPaths) == 0 && len(a.FileContents) == 0
}

// Manifest is one extension's full definition: identity, graph edges,
// auto-detection rules, and the two text fragments contributed to the
// generated Dockerfile and service description.
type Manifest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	NeverLoad   []string `json:"never_load,omitempty"`
	AlwaysLoad  bool     `json:"always_load,omitempty"`
	GUI         bool     `json:"gui,omitempty"`
	GPU         bool     `json:"gpu,omitempty"`
	AutoDetect  AutoDetect `json:"auto_detect,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`

	// DockerfileFragment is appended verbatim to this extension's build stage.
	DockerfileFragment string `json:"dockerfile_fragment,omitempty"`

	// ServiceFragment is deep-merged into the generated service description
	// in resolution order.
	ServiceFragment map[string]any `json:"service_fragment,omitempty"`
}

// HostMounts returns the optional list of extra host paths (e.g. "ssh",
// "gitconfig") this extension's metadata requests be mounted read-only
// into the container, per SPEC_FULL.md §4.8.
func (m Manifest) HostMounts() []string {
	raw, ok := m.Metadata["host_mounts"]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var mounts []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			mounts = append(mounts, s)
		}
	}
	return mounts
}

// ParseManifest strips JSONC comments from raw and unmarshals it into a
// Manifest, validating the one invariant a single manifest can violate on
// its own: the name field must be non-empty.
func ParseManifest(raw []byte) (Manifest, error) {
	clean := jsonc.ToJSON(raw)

	var m Manifest
	if err := json.Unmarshal(clean, &m); err != nil {
		return Manifest{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if m.Name == "" {
		return Manifest{}, fmt.Errorf("manifest is missing required field \"name\"")
	}
	return m, nil
}
