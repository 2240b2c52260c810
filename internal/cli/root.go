package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/quotapace/internal/backup"
	"github.com/julianstephens/quotapace/internal/engine"
	qerrors "github.com/julianstephens/quotapace/internal/errors"
	"github.com/julianstephens/quotapace/internal/logger"
	"github.com/julianstephens/quotapace/internal/persistence"
	"github.com/julianstephens/quotapace/internal/storage"
	"github.com/julianstephens/quotapace/internal/storage/sqlite"
)

// Context is handed to every command's Run method.
type Context struct {
	Store storage.Provider
	Out   io.Writer
	In    io.Reader
	Now   func() time.Time

	session *engine.Session
}

// NewContext wires a context to the process's stdio.
func NewContext(store storage.Provider) *Context {
	return &Context{
		Store: store,
		Out:   os.Stdout,
		In:    os.Stdin,
		Now:   time.Now,
	}
}

// Session hydrates the engine from the store on first use.
func (c *Context) Session() *engine.Session {
	if c.session == nil {
		now := c.Now
		if now == nil {
			now = time.Now
		}
		c.session = engine.Open(persistence.New(c.Store), engine.WithClock(now))
	}
	return c.session
}

// Printf writes to the command output.
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// Warn prints a save warning from an engine mutation. Other errors are returned.
func (c *Context) Warn(err error) error {
	var warn *engine.SaveWarning
	if errors.As(err, &warn) {
		qerrors.Warn(c.Out, err)
		return nil
	}
	return err
}

// Confirm asks a yes/no question on Out and reads the answer from In.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// PerformAutomaticBackup snapshots a SQLite store. Other backends are skipped.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
