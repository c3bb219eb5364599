package main

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/fwojciec/scratches"
)

var _ scratches.Opener = (*ExecOpener)(nil)

// ExecOpener opens URLs with the platform's opener command.
type ExecOpener struct {
	// Command builds the command for a URL. Defaults to the platform opener.
	Command func(ctx context.Context, url string) *exec.Cmd
}

// NewExecOpener returns an opener for the current platform.
func NewExecOpener() *ExecOpener {
	return &ExecOpener{Command: platformCommand}
}

// Open runs the opener command and waits for it to exit.
func (o *ExecOpener) Open(ctx context.Context, url string) error {
	cmd := o.Command(ctx, url)
	if out, err := cmd.CombinedOutput(); err != nil {
		if len(out) > 0 {
			return fmt.Errorf("%s: %w: %s", cmd.Path, err, out)
		}
		return fmt.Errorf("%s: %w", cmd.Path, err)
	}
	return nil
}

func platformCommand(ctx context.Context, url string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", url)
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.CommandContext(ctx, "xdg-open", url)
	}
}
