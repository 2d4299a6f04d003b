package app

import (
	"errors"
	"fmt"

	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/ops"
	"github.com/justyntemme/sidetree/internal/tree"
)

// ErrNotRoot is returned by root commands invoked on a non-root node.
var ErrNotRoot = errors.New("not a root")

func (x *Explorer) fail(action string, err error) error {
	if err != nil && x.host.Notifier != nil {
		x.host.Notifier.Error(fmt.Sprintf("Failed to %s: %v", action, err))
	}
	return err
}

// AddRoots appends paths to the configured roots, skipping ones already
// present.
func (x *Explorer) AddRoots(paths ...string) error {
	debug.Log(debug.APP, "AddRoots: %v", paths)
	return x.fail("add folder", x.settings.AddPaths(paths...))
}

// RemoveRoot deletes the configured entry a root node came from.
func (x *Explorer) RemoveRoot(n *tree.Node) error {
	if n == nil || !n.IsRoot {
		return ErrNotRoot
	}
	debug.Log(debug.APP, "RemoveRoot: %s (entry %d)", n.Path, n.ConfigIndex)
	return x.fail("remove folder", x.settings.RemovePath(n.ConfigIndex))
}

// HideRoot marks a root's entry hidden, keeping its current settings so
// unhiding restores it as it was.
func (x *Explorer) HideRoot(n *tree.Node) error {
	if n == nil || !n.IsRoot {
		return ErrNotRoot
	}
	debug.Log(debug.APP, "HideRoot: %s (entry %d)", n.Path, n.ConfigIndex)
	return x.fail("hide folder", x.settings.HidePath(n.ConfigIndex, n.Snapshot()))
}

// UnhideRoot shows again every hidden entry with the given name or path.
func (x *Explorer) UnhideRoot(nameOrPath string) (bool, error) {
	changed, err := x.settings.UnhidePath(nameOrPath)
	if err == nil && !changed && x.host.Notifier != nil {
		x.host.Notifier.Warn(fmt.Sprintf("No hidden folder named %q", nameOrPath))
	}
	return changed, x.fail("unhide folder", err)
}

// ToggleListView flips list mode for the root governing n, or the global
// default when n is nil.
func (x *Explorer) ToggleListView(n *tree.Node) error {
	return x.fail("toggle list view", x.settings.ToggleViewAsList(entryIndex(n)))
}

// ToggleShowEmptyDirectories flips empty-folder display for the root
// governing n, or the global default when n is nil.
func (x *Explorer) ToggleShowEmptyDirectories(n *tree.Node) error {
	return x.fail("toggle empty folders", x.settings.ToggleShowEmptyDirectories(entryIndex(n)))
}

func entryIndex(n *tree.Node) int {
	if n == nil {
		return -1
	}
	return n.ConfigIndex
}

// CopyPath puts the node's absolute path on the system clipboard.
func (x *Explorer) CopyPath(n *tree.Node) (string, error) {
	p := ops.AbsolutePath(n)
	return p, x.fail("copy path", x.writeClip(p))
}

// CopyRelativePath puts the node's root-relative path on the system
// clipboard.
func (x *Explorer) CopyRelativePath(n *tree.Node) (string, error) {
	p := ops.RelativePath(n)
	return p, x.fail("copy path", x.writeClip(p))
}

// OpenFile opens the selected files in the host editor.
func (x *Explorer) OpenFile(sel ops.Selection) error {
	errs := x.engine.OpenFiles(sel)
	if len(errs) == 0 {
		return nil
	}
	return x.fail("open file", errs[0])
}
