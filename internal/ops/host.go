// Package ops performs the file operations issued against the tree:
// create, rename, delete, cut/copy/paste, drag-and-drop and workspace-root
// copies. Every operation validates first, then does its I/O, then asks the
// view for exactly one refresh.
package ops

import (
	"context"

	"github.com/justyntemme/sidetree/internal/config"
	"github.com/justyntemme/sidetree/internal/tree"
)

// InputRequest describes a single-line text prompt. Validate returns nil
// when the value is acceptable; hosts should show the error inline.
type InputRequest struct {
	Title       string
	Placeholder string
	Value       string
	Validate    func(string) error
}

// Prompter collects input from the user.
type Prompter interface {
	// Input returns the entered text, or ok=false when the user dismissed it.
	Input(ctx context.Context, req InputRequest) (value string, ok bool)
	// Confirm shows message with buttons and returns the chosen one, or
	// ok=false when dismissed.
	Confirm(ctx context.Context, message string, buttons ...string) (choice string, ok bool)
}

// Notifier shows messages to the user.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Reporter receives progress updates for one running batch.
type Reporter interface {
	Report(increment float64, message string)
	Done()
}

// Progress starts a progress surface. The returned context is cancelled
// when the user cancels the batch.
type Progress interface {
	Start(ctx context.Context, title string) (context.Context, Reporter)
}

// Editor opens files for editing.
type Editor interface {
	Open(path string, preview bool) error
	// Active returns the path shown in the active editor, or "".
	Active() string
}

// Remover deletes entries from disk.
type Remover interface {
	Trash(path string) error
	Remove(path string) error
}

// View is the tree the engine refreshes after mutating.
type View interface {
	Roots() []config.Root
	Refresh()
	Invalidate(dir string)
	NodeFor(path string) (*tree.Node, []*tree.Node)
}

// Host bundles the collaborators supplied by the embedding application.
// Reveal may be nil.
type Host struct {
	Prompter Prompter
	Notifier Notifier
	Progress Progress
	Editor   Editor
	Reveal   func(node *tree.Node)
}
