package extension

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Matches reports whether m's auto_detect rules match the given worktree
// root. Any populated sub-rule matching is sufficient — the sub-rules are
// OR'd together, not AND'd. A manifest with an empty AutoDetect never
// auto-detects.
func (m Manifest) Matches(worktreeRoot string) bool {
	ad := m.AutoDetect
	if ad.Empty() {
		return false
	}

	entries, err := os.ReadDir(worktreeRoot)
	if err != nil {
		entries = nil
	}

	if matchDirectChildren(entries, ad.Files, false) {
		return true
	}
	if matchDirectChildren(entries, ad.Directories, true) {
		return true
	}
	for _, hp := range ad.HostPaths {
		if _, err := os.Stat(hp); err == nil {
			return true
		}
	}
	for relPath, substrs := range ad.FileContents {
		data, err := os.ReadFile(filepath.Join(worktreeRoot, relPath))
		if err != nil {
			continue // missing/unreadable file is a non-match, not an error
		}
		for _, substr := range substrs {
			if strings.Contains(string(data), substr) {
				return true
			}
		}
	}
	return false
}

// matchDirectChildren tests each direct child of the worktree root (not
// recursive) against the given regexes, filtering by whether the caller
// wants directories or regular files.
func matchDirectChildren(entries []os.DirEntry, patterns []string, wantDir bool) bool {
	if len(patterns) == 0 {
		return false
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		compiled = append(compiled, re)
	}

	for _, entry := range entries {
		if entry.IsDir() != wantDir {
			continue
		}
		for _, re := range compiled {
			if re.MatchString(entry.Name()) {
				return true
			}
		}
	}
	return false
}
