// Package progress renders reconcile progress to the terminal using pterm
// spinners; internal/cli starts one for the git sync step only.
// Adapted from dcx's internal/ui package, trimmed to the subset
// wtd needs: no table rendering or quiet-mode plumbing, since wtd's only
// verbosity control is the --log-level flag feeding internal/wlog.
package progress

import "github.com/pterm/pterm"

// Step wraps a pterm spinner for a single reconcile action.
type Step struct {
	printer *pterm.SpinnerPrinter
}

// Start begins a spinner with message. Returns a no-op Step if pterm's
// terminal detection decides output isn't interactive (pterm handles
// that fallback internally via DefaultSpinner).
func Start(message string) *Step {
	s, _ := pterm.DefaultSpinner.Start(message)
	return &Step{printer: s}
}

// Done marks the step as succeeded.
func (s *Step) Done(message string) {
	if s.printer != nil {
		s.printer.Success(message)
	}
}

// Failed marks the step as failed.
func (s *Step) Failed(message string) {
	if s.printer != nil {
		s.printer.Fail(message)
	}
}

// Warn prints a standalone warning line, used for EnsureBare's
// offline-tolerant fetch-failure downgrade.
func Warn(format string, args ...any) {
	pterm.Warning.Printf(format+"\n", args...)
}
