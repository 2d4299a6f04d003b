package ops

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/fs"
)

// EntryKind selects what Create makes.
type EntryKind int

const (
	// EntryAuto classifies the typed leaf name: a name with an extension or
	// a dotfile becomes a file, anything else a folder.
	EntryAuto EntryKind = iota
	EntryFile
	EntryFolder
)

// createBase resolves the directory a new entry goes into: the selected
// folder, the parent of a selected file, or the only active root.
func (e *Engine) createBase(sel Selection) (string, bool) {
	if n := sel.Target(); n != nil {
		return dirOf(n), true
	}
	roots := e.view.Roots()
	if len(roots) == 1 && fs.IsDir(roots[0].BasePath) {
		return roots[0].BasePath, true
	}
	return "", false
}

// Create prompts for a name and creates a file or folder. Nested names such
// as "a/b/c.md" create the intermediate folders. A new file is opened for
// editing. It returns the created path.
func (e *Engine) Create(ctx context.Context, sel Selection, kind EntryKind) (created string, err error) {
	defer guard("create", &err)

	base, ok := e.createBase(sel)
	if !ok {
		e.host.Notifier.Warn("Please select a file or folder to create a new file inside")
		return "", ErrNoTarget
	}

	what := "file or folder"
	switch kind {
	case EntryFile:
		what = "file"
	case EntryFolder:
		what = "folder"
	}
	value, ok := e.host.Prompter.Input(ctx, InputRequest{
		Title:       fmt.Sprintf("Create %s in %q", what, filepath.Base(base)),
		Placeholder: "Enter a name or path (e.g. foo, bar/foo.md)",
		Validate: func(s string) error {
			_, err := e.validateNew(base, s)
			return err
		},
	})
	if !ok {
		return "", ErrCancelled
	}
	return e.CreateNamed(base, value, kind)
}

// CreateNamed creates name below base without prompting.
func (e *Engine) CreateNamed(base, name string, kind EntryKind) (created string, err error) {
	defer guard("create", &err)

	target, err := e.validateNew(base, name)
	if err != nil {
		e.host.Notifier.Warn(err.Error())
		return "", err
	}

	asFile := kind == EntryFile || (kind == EntryAuto && looksLikeFile(target))
	if asFile {
		if err := fs.EnsureFile(target); err != nil {
			e.host.Notifier.Error("Failed to create file: " + err.Error())
			return "", err
		}
	} else if err := fs.EnsureDir(target); err != nil {
		e.host.Notifier.Error("Failed to create folder: " + err.Error())
		return "", err
	}
	debug.Log(debug.OPS, "Create: %s (file=%v)", target, asFile)

	e.refresh(base)
	if asFile && e.host.Editor != nil {
		if err := e.host.Editor.Open(target, false); err != nil {
			debug.Log(debug.OPS, "Create: open %s: %v", target, err)
		}
	}
	e.reveal(target)
	return target, nil
}
