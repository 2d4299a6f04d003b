package ops

import (
	"context"
	"path/filepath"

	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/fs"
	"github.com/justyntemme/sidetree/internal/tree"
)

// Cut puts the selection on the clipboard to be moved by the next paste.
func (e *Engine) Cut(sel Selection) {
	e.session.Clipboard.Set(ModeCut, sel.Items())
	e.host.Notifier.Info("Cut!")
}

// Copy puts the selection on the clipboard to be copied by the next paste.
func (e *Engine) Copy(sel Selection) {
	e.session.Clipboard.Set(ModeCopy, sel.Items())
	e.host.Notifier.Info("Copied!")
}

// transfer copies or moves src into dir under a collision-free name. A
// folder cannot be moved or copied into itself or a descendant.
func transfer(src, dir string, move bool) (string, error) {
	if src == dir || fs.IsSubpath(src, dir) {
		return "", ErrIntoItself
	}
	dst := fs.UniqueDestPath(dir, filepath.Base(src))
	if move {
		return dst, fs.Move(src, dst)
	}
	return dst, fs.Copy(src, dst)
}

// Paste copies or moves the clipboard items into the selected folder, or
// the folder holding the selected file. Each item gets a name that does not
// collide with anything already there. The clipboard is consumed.
func (e *Engine) Paste(ctx context.Context, sel Selection) (res BatchResult, err error) {
	defer guard("paste", &err)

	if e.session.Clipboard.Empty() {
		e.host.Notifier.Info("Clipboard is empty")
		return res, nil
	}
	target := sel.First()
	if target == nil {
		return res, ErrNoTarget
	}
	dest := dirOf(target)

	mode, items := e.session.Clipboard.Take()
	move := mode == ModeCut
	title := "Pasting"
	if !move {
		title = "Copying"
	}

	res = e.batch(ctx, title, "processed", len(items) > 1 || hasFolder(items), items, func(n *tree.Node) error {
		dst, err := transfer(n.Path, dest, move)
		if err == nil {
			debug.Log(debug.OPS, "Paste: %s -> %s (move=%v)", n.Path, dst, move)
		}
		return err
	})

	e.refresh(append(parents(items), dest)...)
	e.summarize(res, "Paste")
	return res, nil
}
