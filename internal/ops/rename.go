package ops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/fs"
	"github.com/justyntemme/sidetree/internal/tree"
)

// Rename prompts for a new name for the selected entry and renames it.
func (e *Engine) Rename(ctx context.Context, sel Selection) (newPath string, err error) {
	defer guard("rename", &err)

	n := sel.Target()
	if n == nil {
		return "", ErrNoTarget
	}
	value, ok := e.host.Prompter.Input(ctx, InputRequest{
		Title: fmt.Sprintf("Rename %q", n.Name),
		Value: n.Name,
		Validate: func(s string) error {
			_, err := e.validateRename(n.Path, s)
			return err
		},
	})
	if !ok {
		return "", ErrCancelled
	}
	return e.RenameTo(n, value)
}

// RenameTo renames n to name without prompting. name is relative to n's
// parent; a folder may only be moved into nested folders while empty.
func (e *Engine) RenameTo(n *tree.Node, name string) (newPath string, err error) {
	defer guard("rename", &err)

	newPath, err = e.validateRename(n.Path, name)
	if err != nil {
		e.host.Notifier.Warn(err.Error())
		return "", err
	}
	rel, _ := filepath.Rel(filepath.Dir(n.Path), newPath)

	if n.IsDir() && isNested(rel) {
		entries, err := os.ReadDir(n.Path)
		if err != nil {
			e.host.Notifier.Error("Rename failed: " + err.Error())
			return "", err
		}
		if len(entries) > 0 {
			e.host.Notifier.Warn(fmt.Sprintf("Cannot rename %q into nested folders because it is not empty.", n.Name))
			return "", ErrNestedNotEmpty
		}
		if err := fs.EnsureDir(newPath); err != nil {
			e.host.Notifier.Error("Rename failed: " + err.Error())
			return "", err
		}
		if err := fs.Remove(n.Path); err != nil {
			e.host.Notifier.Error("Rename failed: " + err.Error())
			return "", err
		}
	} else if err := fs.Move(n.Path, newPath); err != nil {
		e.host.Notifier.Error("Rename failed: " + err.Error())
		return "", err
	}
	debug.Log(debug.OPS, "Rename: %s -> %s", n.Path, newPath)

	if !n.IsDir() && e.host.Editor != nil && e.host.Editor.Active() == n.Path {
		if err := e.host.Editor.Open(newPath, false); err != nil {
			debug.Log(debug.OPS, "Rename: reopen %s: %v", newPath, err)
		}
	}
	e.refresh(filepath.Dir(n.Path), filepath.Dir(newPath))
	e.reveal(newPath)
	return newPath, nil
}
