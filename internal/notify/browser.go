package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/browser"
)

type Browser interface {
	Open(ctx context.Context, url string) error
}

// SystemBrowser opens URLs with the desktop's default handler.
type SystemBrowser struct {
	open func(url string) error
}

func NewSystemBrowser() SystemBrowser { return SystemBrowser{open: browser.OpenURL} }

func (b SystemBrowser) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	open := b.open
	if open == nil {
		open = browser.OpenURL
	}
	if err := open(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

// PrintBrowser writes the URL instead of opening it, for headless runs.
type PrintBrowser struct {
	W io.Writer
}

func (b PrintBrowser) Open(_ context.Context, url string) error {
	_, err := fmt.Fprintln(b.W, url)
	return err
}
