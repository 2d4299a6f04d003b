package ops

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/tree"
)

// CopyToWorkspaceRoot copies the selected entry into the first workspace
// folder under a collision-free name.
func (e *Engine) CopyToWorkspaceRoot(sel Selection) (string, error) {
	return e.toWorkspaceRoot(sel, false)
}

// MoveToWorkspaceRoot moves the selected entry into the first workspace
// folder under a collision-free name.
func (e *Engine) MoveToWorkspaceRoot(sel Selection) (string, error) {
	return e.toWorkspaceRoot(sel, true)
}

func (e *Engine) toWorkspaceRoot(sel Selection, move bool) (dst string, err error) {
	defer guard("workspace root", &err)

	n := sel.Target()
	if n == nil {
		e.host.Notifier.Warn("No file or folder selected.")
		return "", ErrNoTarget
	}
	ws := e.options().WorkspaceFolders
	if len(ws) == 0 {
		e.host.Notifier.Warn("No active workspace folder found.")
		return "", ErrNoWorkspace
	}

	verb := "copy"
	if move {
		verb = "move"
	}
	dst, err = transfer(n.Path, ws[0], move)
	if err != nil {
		e.host.Notifier.Error(fmt.Sprintf("Failed to %s: %v", verb, err))
		return "", err
	}
	debug.Log(debug.OPS, "%s to workspace root: %s -> %s", verb, n.Path, dst)

	past := "Copied"
	if move {
		past = "Moved"
	}
	e.host.Notifier.Info(fmt.Sprintf("%s %q to workspace root", past, filepath.Base(n.Path)))
	e.refresh(ws[0], filepath.Dir(n.Path))
	return dst, nil
}

// OpenFiles opens the selected files. A single file opens as a preview
// unless it is the file opened last, which opens for good.
func (e *Engine) OpenFiles(sel Selection) []error {
	if e.host.Editor == nil {
		return nil
	}
	var files []*tree.Node
	if len(sel.Selected) <= 1 && sel.Item != nil {
		if !sel.Item.IsDir() {
			files = append(files, sel.Item)
		}
	} else {
		for _, n := range sel.Selected {
			if !n.IsDir() {
				files = append(files, n)
			}
		}
	}

	var errs []error
	for _, f := range files {
		same := e.session.LastOpened() == f.Path
		e.session.SetLastOpened(f.Path)
		if err := e.host.Editor.Open(f.Path, !same && len(files) == 1); err != nil {
			debug.Log(debug.OPS, "OpenFiles: %s: %v", f.Path, err)
			errs = append(errs, err)
		}
	}
	return errs
}

// AbsolutePath returns the node's path with forward slashes.
func AbsolutePath(n *tree.Node) string {
	return filepath.ToSlash(n.Path)
}

// RelativePath returns the node's path relative to its governing root,
// prefixed with the root folder's name. A root yields its own name.
func RelativePath(n *tree.Node) string {
	root := n.RootPath
	if root == "" {
		root = n.Path
	}
	rel, err := filepath.Rel(root, n.Path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		rel = ""
	}
	rel = filepath.ToSlash(rel)
	if rel == "" {
		rel = filepath.Base(root)
	}
	if n.IsRoot {
		return rel
	}
	return filepath.Base(root) + "/" + rel
}
