// Package share hands exported text to a destination outside the app.
package share

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"

	"github.com/julianstephens/quotapace/internal/logger"
)

// Sharer delivers a titled text payload.
type Sharer interface {
	Share(ctx context.Context, title, payload string) error
}

// Clipboard copies the payload to the system clipboard. The title is not kept.
type Clipboard struct{}

// ClipboardAvailable reports whether a clipboard backend exists on this system.
func ClipboardAvailable() bool {
	return !clipboard.Unsupported
}

func (Clipboard) Share(ctx context.Context, title, payload string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	if err := clipboard.WriteAll(payload); err != nil {
		return fmt.Errorf("failed to copy %q to clipboard: %w", title, err)
	}
	logger.Debug("shared to clipboard", "title", title, "bytes", len(payload))
	return nil
}

// File writes the payload to Path, replacing any existing file.
type File struct {
	Path string
}

func (f File) Share(ctx context.Context, title, payload string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(f.Path, []byte(payload), 0644); err != nil {
		return fmt.Errorf("failed to write %q: %w", title, err)
	}
	logger.Debug("shared to file", "title", title, "path", f.Path)
	return nil
}

// Writer prints the payload to W, with the title as a header line when
// Header is set.
type Writer struct {
	W      io.Writer
	Header bool
}

// Stdout returns a Writer on standard output.
func Stdout() Writer {
	return Writer{W: os.Stdout}
}

func (w Writer) Share(ctx context.Context, title, payload string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.Header {
		if _, err := fmt.Fprintf(w.W, "# %s\n", title); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w.W, payload)
	return err
}
