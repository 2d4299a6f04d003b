package ops

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/justyntemme/sidetree/internal/config"
	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/fs"
	"github.com/justyntemme/sidetree/internal/trash"
	"github.com/justyntemme/sidetree/internal/tree"
)

// Options are the settings the engine reads on every operation.
type Options struct {
	DeleteBehavior         string
	CheckIllegalCharacters bool
	WorkspaceFolders       []string
}

// OptionsFrom extracts engine options from a configuration.
func OptionsFrom(cfg config.Config, workspaceFolders []string) Options {
	return Options{
		DeleteBehavior:         cfg.DeleteBehavior,
		CheckIllegalCharacters: cfg.IllegalCharacterCheck(),
		WorkspaceFolders:       append([]string(nil), workspaceFolders...),
	}
}

// OSRemover deletes through the platform recycle bin or permanently.
type OSRemover struct{}

func (OSRemover) Trash(path string) error  { return trash.MoveToTrash(path) }
func (OSRemover) Remove(path string) error { return fs.Remove(path) }

// Engine runs file operations against a view.
type Engine struct {
	view    View
	host    Host
	session *Session
	remover Remover

	mu   sync.RWMutex
	opts Options
}

// NewEngine creates an engine. A nil session gets a fresh one and a nil
// remover uses OSRemover.
func NewEngine(view View, host Host, session *Session, remover Remover, opts Options) *Engine {
	if session == nil {
		session = &Session{}
	}
	if remover == nil {
		remover = OSRemover{}
	}
	return &Engine{
		view:    view,
		host:    host,
		session: session,
		remover: remover,
		opts:    opts,
	}
}

// Session returns the engine's shared state.
func (e *Engine) Session() *Session {
	return e.session
}

// SetOptions replaces the engine settings after a configuration change.
func (e *Engine) SetOptions(opts Options) {
	e.mu.Lock()
	e.opts = opts
	e.mu.Unlock()
}

func (e *Engine) options() Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.opts
}

// refresh drops cached listings for the directories an operation touched,
// then redraws.
func (e *Engine) refresh(dirs ...string) {
	for _, d := range dirs {
		e.view.Invalidate(d)
	}
	e.view.Refresh()
}

// parents returns the containing directories of items.
func parents(items []*tree.Node) []string {
	dirs := make([]string, 0, len(items))
	for _, n := range items {
		dirs = append(dirs, filepath.Dir(n.Path))
	}
	return dirs
}

func (e *Engine) reveal(path string) {
	if e.host.Reveal == nil {
		return
	}
	if n, _ := e.view.NodeFor(path); n != nil {
		e.host.Reveal(n)
	}
}

// guard turns a panic inside an operation into a logged error so nothing
// escapes to the host.
func guard(op string, err *error) {
	if r := recover(); r != nil {
		log.Printf("ops: %s panicked: %v", op, r)
		*err = fmt.Errorf("%s: unexpected failure: %v", op, r)
	}
}

// dirOf resolves the directory an operation targets: the node itself for
// folders, the parent for files.
func dirOf(n *tree.Node) string {
	if n.IsDir() {
		return n.Path
	}
	return filepath.Dir(n.Path)
}

// batch runs fn over items in order. With progress enabled the host's
// progress surface is shown and its cancellation is polled before each item.
// Failures are counted and never stop the batch.
func (e *Engine) batch(ctx context.Context, title, verb string, showProgress bool, items []*tree.Node, fn func(*tree.Node) error) BatchResult {
	res := BatchResult{Total: len(items)}

	var rep Reporter
	if showProgress && e.host.Progress != nil {
		ctx, rep = e.host.Progress.Start(ctx, title)
		defer rep.Done()
	}

	for i, item := range items {
		if ctx.Err() != nil {
			res.Cancelled = true
			debug.Log(debug.OPS, "%s: cancelled after %d/%d", title, i, len(items))
			break
		}
		if err := fn(item); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Errorf("%s: %w", item.Path, err))
			debug.Log(debug.OPS, "%s: %s failed: %v", title, item.Path, err)
		} else {
			res.Done++
		}
		if rep != nil {
			rep.Report(100/float64(len(items)), fmt.Sprintf("%d/%d %s", i+1, len(items), verb))
		}
	}
	return res
}

func hasFolder(items []*tree.Node) bool {
	for _, n := range items {
		if n.IsDir() {
			return true
		}
	}
	return false
}

// summarize reports a finished batch to the user.
func (e *Engine) summarize(res BatchResult, action string) {
	if res.Cancelled {
		e.host.Notifier.Info(fmt.Sprintf("%s operation cancelled.", action))
	}
	if res.Failed > 0 {
		e.host.Notifier.Error(fmt.Sprintf("Failed to %s %d item(s).", strings.ToLower(action), res.Failed))
	}
}
