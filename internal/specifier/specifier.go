// Package specifier parses and validates the repo specifier grammar
//
//	owner/repo(@branch)?(#subfolder)?
//
// Parse is a pure function: no I/O, no filesystem or network access.
// Validation follows the same "check everything, report one reason"
// style as the devcontainer config validator it's grounded on.
package specifier

import (
	"regexp"
	"strings"

	"github.com/mmr-tortoise/wtd/internal/clierr"
)

// defaultBranch is used when the specifier omits "@branch".
const defaultBranch = "main"

// segmentPattern matches owner/repo segments: letters, digits, dot,
// underscore, hyphen. Branch names additionally allow "/".
var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
var branchPattern = regexp.MustCompile(`^[A-Za-z0-9._/-]+$`)

// Spec is a parsed, validated repo specifier.
type Spec struct {
	Owner     string
	Repo      string
	Branch    string
	Subfolder string
}

// SafeBranch returns the branch name with "/" replaced by "-", used to
// build collision-prone but filesystem-safe directory/image/container names.
func (s Spec) SafeBranch() string {
	return strings.ReplaceAll(s.Branch, "/", "-")
}

// ContainerName returns the repo + safe-branch name shared by the image
// tag and the container name.
func (s Spec) ContainerName() string {
	return s.Repo + "-" + s.SafeBranch()
}

// Parse validates and parses a raw specifier string. It never touches
// the filesystem or network — all checks are on the string's shape.
func Parse(raw string) (Spec, error) {
	if strings.ContainsAny(raw, " \t\r\n") {
		return Spec{}, clierr.MalformedSpec(raw, "must not contain whitespace")
	}

	rest := raw
	subfolder := ""
	if idx := strings.IndexByte(rest, '#'); idx >= 0 {
		subfolder = rest[idx+1:]
		rest = rest[:idx]
		if subfolder == "" {
			return Spec{}, clierr.MalformedSpec(raw, "subfolder after '#' must not be empty")
		}
		if err := validateSubfolder(subfolder); err != nil {
			return Spec{}, clierr.MalformedSpec(raw, err.Error())
		}
	}

	branch := defaultBranch
	if idx := strings.IndexByte(rest, '@'); idx >= 0 {
		branch = rest[idx+1:]
		rest = rest[:idx]
		if branch == "" {
			return Spec{}, clierr.MalformedSpec(raw, "branch after '@' must not be empty")
		}
		if !branchPattern.MatchString(branch) {
			return Spec{}, clierr.MalformedSpec(raw, "branch contains invalid characters")
		}
	}

	owner, repo, ok := strings.Cut(rest, "/")
	if !ok {
		return Spec{}, clierr.MalformedSpec(raw, "expected owner/repo")
	}
	if owner == "" || repo == "" {
		return Spec{}, clierr.MalformedSpec(raw, "owner and repo must not be empty")
	}
	if !segmentPattern.MatchString(owner) {
		return Spec{}, clierr.MalformedSpec(raw, "owner contains invalid characters")
	}
	if !segmentPattern.MatchString(repo) {
		return Spec{}, clierr.MalformedSpec(raw, "repo contains invalid characters")
	}

	return Spec{Owner: owner, Repo: repo, Branch: branch, Subfolder: subfolder}, nil
}

// validateSubfolder rejects absolute paths and ".." path traversal segments.
func validateSubfolder(subfolder string) error {
	if strings.HasPrefix(subfolder, "/") {
		return errString("subfolder must be relative")
	}
	for _, part := range strings.Split(subfolder, "/") {
		if part == ".." {
			return errString("subfolder must not contain '..'")
		}
	}
	return nil
}

type errString string

func (e errString) Error() string { return string(e) }
