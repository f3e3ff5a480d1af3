// attach.go implements the interactive shell and one-shot exec paths,
// grounded on dcx's internal/cli/attach.go: detect a TTY, put stdin into
// raw mode for the duration of the session, and restore it on return
// regardless of how the session ends.
package supervisor

import (
	"context"
	"io"
	"os"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"golang.org/x/term"

	"github.com/mmr-tortoise/wtd/internal/clierr"
)

// AttachExec runs command inside containerID (an empty command attaches an
// interactive shell instead) with stdio wired to the current process's
// stdin/stdout/stderr. When stdin is a TTY it is switched to raw mode for
// the duration of the call and restored afterward. workingDir sets the
// exec's initial directory, per SPEC_FULL.md §4.8 ("/workspace" or
// "/workspace/<subfolder>"); an empty value defers to the container's own
// working directory.
func AttachExec(ctx context.Context, c *Client, containerID string, command []string, workingDir string) (int, error) {
	cmd := command
	if len(cmd) == 0 {
		cmd = []string{"/bin/bash"}
	}

	isTTY := term.IsTerminal(int(os.Stdin.Fd()))

	execCfg := container.ExecOptions{
		Cmd:          cmd,
		AttachStdin:  true,
		AttachStdout: true,
		AttachStderr: true,
		Tty:          isTTY,
		WorkingDir:   workingDir,
	}

	created, err := c.Inner().ContainerExecCreate(ctx, containerID, execCfg)
	if err != nil {
		return 0, clierr.ContainerFailed("exec create", "", err)
	}

	hijacked, err := c.Inner().ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{Tty: isTTY})
	if err != nil {
		return 0, clierr.ContainerFailed("exec attach", "", err)
	}
	defer hijacked.Close()

	var oldState *term.State
	if isTTY {
		oldState, err = term.MakeRaw(int(os.Stdin.Fd()))
		if err == nil {
			defer term.Restore(int(os.Stdin.Fd()), oldState)
		}
	}

	done := make(chan error, 1)
	go func() {
		_, copyErr := io.Copy(hijacked.Conn, os.Stdin)
		done <- copyErr
	}()

	if isTTY {
		_, err = io.Copy(os.Stdout, hijacked.Reader)
	} else {
		// Without a TTY the exec stream multiplexes stdout and stderr.
		_, err = stdcopy.StdCopy(os.Stdout, os.Stderr, hijacked.Reader)
	}
	if err != nil && err != io.EOF {
		return 0, clierr.ContainerFailed("exec stream", "", err)
	}
	<-done

	inspect, err := c.Inner().ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return 0, clierr.ContainerFailed("exec inspect", "", err)
	}
	return inspect.ExitCode, nil
}
