// Package clierr defines the named error kinds wtd uses to report failures
// and the exit code each one maps to at the process boundary.
//
// All state is persisted via Docker labels and the on-disk cache tree
// (there is no separate error log or state file), so every error returned
// from an internal package is expected to carry enough context — kind,
// message, wrapped cause — to be printed directly to the user.
package clierr

import "fmt"

// ExitCode is a process exit code as defined by the CLI contract.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitUsage indicates a CLI invocation/flag-parsing error.
	ExitUsage ExitCode = 2

	// ExitConfig indicates a specifier, manifest, or dependency-graph
	// validation failure. No partial mutation occurs before this is returned.
	ExitConfig ExitCode = 3

	// ExitGit indicates a git subprocess failure.
	ExitGit ExitCode = 4

	// ExitBuild indicates a docker buildx bake / image build failure.
	ExitBuild ExitCode = 5

	// ExitContainer indicates a container lifecycle failure, or contention
	// on the optional per-worktree file lock (Busy).
	ExitContainer ExitCode = 6

	// ExitCancelled indicates the invocation was interrupted by
	// SIGINT/SIGTERM and surfaced as Cancelled.
	ExitCancelled ExitCode = 130
)

// CLIError is a typed error carrying the exit code its kind maps to.
// It satisfies error and Unwrap() so callers can still use errors.Is/As
// against the wrapped cause.
type CLIError struct {
	Kind    string
	Code    ExitCode
	Message string
	Err     error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// New creates a CLIError with no wrapped cause.
func New(kind string, code ExitCode, message string) *CLIError {
	return &CLIError{Kind: kind, Code: code, Message: message}
}

// Wrap creates a CLIError wrapping an existing error.
func Wrap(kind string, code ExitCode, message string, err error) *CLIError {
	return &CLIError{Kind: kind, Code: code, Message: message, Err: err}
}

// MalformedSpec reports a repo specifier that does not match the
// owner/repo[@branch][#subfolder] grammar.
func MalformedSpec(input, reason string) *CLIError {
	return New("MalformedSpec", ExitConfig, fmt.Sprintf("%q: %s", input, reason))
}

// ManifestInvalid reports an extension manifest that failed to parse or
// violates a manifest-level invariant.
func ManifestInvalid(path, reason string) *CLIError {
	return New("ManifestInvalid", ExitConfig, fmt.Sprintf("%s: %s", path, reason))
}

// CatalogInvalid reports a catalog-level invariant violation (duplicate
// repo-local name, dependency referencing an unknown extension).
func CatalogInvalid(reason string) *CLIError {
	return New("CatalogInvalid", ExitConfig, reason)
}

// DependencyMissing reports a dependency edge whose target is absent from
// the effective catalog.
func DependencyMissing(extension, dependency string) *CLIError {
	return New("DependencyMissing", ExitConfig,
		fmt.Sprintf("extension %q depends on %q, which is not in the catalog", extension, dependency))
}

// IncompatibleExtensions reports two extensions that cannot coexist because
// one declares the other in its never_load list.
func IncompatibleExtensions(a, b string) *CLIError {
	return New("IncompatibleExtensions", ExitConfig,
		fmt.Sprintf("%q and %q cannot be loaded together (never_load)", a, b))
}

// DependencyCycle reports a cycle discovered during topological sort.
func DependencyCycle(path []string) *CLIError {
	return New("DependencyCycle", ExitConfig, fmt.Sprintf("dependency cycle: %v", path))
}

// WorktreeConflict reports a worktree path that exists on disk but is not
// a registered git worktree.
func WorktreeConflict(path string) *CLIError {
	return New("WorktreeConflict", ExitGit, fmt.Sprintf("%s exists but is not a registered worktree", path))
}

// GitFailed wraps a failed git subprocess invocation, including its stderr.
func GitFailed(command, stderr string, err error) *CLIError {
	msg := command
	if stderr != "" {
		msg = fmt.Sprintf("%s: %s", command, stderr)
	}
	return Wrap("GitFailed", ExitGit, msg, err)
}

// BuildFailed wraps a failed docker buildx bake invocation, including its stderr.
func BuildFailed(stderr string, err error) *CLIError {
	return Wrap("BuildFailed", ExitBuild, stderr, err)
}

// ContainerFailed wraps a failed container lifecycle operation.
func ContainerFailed(op, stderr string, err error) *CLIError {
	msg := op
	if stderr != "" {
		msg = fmt.Sprintf("%s: %s", op, stderr)
	}
	return Wrap("ContainerFailed", ExitContainer, msg, err)
}

// Busy reports contention on the per-worktree advisory lock.
func Busy(path string) *CLIError {
	return New("Busy", ExitContainer, fmt.Sprintf("%s is locked by another wtd invocation", path))
}

// Cancelled reports that SIGINT/SIGTERM interrupted the reconciler.
// Partial state from whatever action was in flight is left as-is.
func Cancelled() *CLIError {
	return New("Cancelled", ExitCancelled, "interrupted")
}

// Usage reports a CLI flag-parsing/invocation error.
func Usage(message string) *CLIError {
	return New("Usage", ExitUsage, message)
}
