package order

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// Opener hands a link to whatever will deliver it. Success means the link was
// handed over, not that a message was sent.
type Opener interface {
	Open(ctx context.Context, link string) error
}

type OpenerFunc func(ctx context.Context, link string) error

func (f OpenerFunc) Open(ctx context.Context, link string) error {
	return f(ctx, link)
}

// PrintOpener writes the link for the operator to follow.
type PrintOpener struct {
	W io.Writer
}

func (p PrintOpener) Open(_ context.Context, link string) error {
	_, err := fmt.Fprintln(p.W, link)
	return err
}

// BrowserOpener launches the platform URL handler.
type BrowserOpener struct{}

func (BrowserOpener) Open(ctx context.Context, link string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", link)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", link)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", link)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open link: %w", err)
	}
	return cmd.Process.Release()
}
