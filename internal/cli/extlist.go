package cli

import (
	"context"
	"fmt"

	"github.com/mmr-tortoise/wtd/internal/extension"
)

// runExtList prints the extension catalog loaded with an empty worktree
// root: the built-ins, plus any manifests under .wtd/extensions/ relative
// to the current directory. No worktree's own extensions are consulted.
func runExtList(ctx context.Context) error {
	catalog, err := extension.Load("")
	if err != nil {
		return err
	}
	for _, m := range catalog.All() {
		flags := ""
		if m.AlwaysLoad {
			flags += " [always]"
		}
		if m.GUI {
			flags += " [gui]"
		}
		if m.GPU {
			flags += " [gpu]"
		}
		fmt.Printf("%-16s %s%s\n", m.Name, m.Description, flags)
	}
	return nil
}
