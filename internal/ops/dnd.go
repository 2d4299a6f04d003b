package ops

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/fs"
	"github.com/justyntemme/sidetree/internal/tree"
)

// Transfer formats understood by Drop.
const (
	MimeTree    = "application/vnd.sidetree.tree"
	MimeURIList = "text/uri-list"
)

// DragData is what a drag carries. Paths is set for drags that start in the
// tree; URIList alone comes from outside.
type DragData struct {
	Paths   []string
	URIList string
}

// Drag builds the transfer data for nodes being dragged.
func (e *Engine) Drag(nodes []*tree.Node) DragData {
	d := DragData{Paths: make([]string, 0, len(nodes))}
	uris := make([]string, 0, len(nodes))
	for _, n := range nodes {
		d.Paths = append(d.Paths, n.Path)
		uris = append(uris, FileURI(n.Path))
	}
	d.URIList = strings.Join(uris, "\r\n")
	return d
}

// FileURI renders an absolute path as a file:// URI.
func FileURI(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// ParseURIList extracts local paths from a text/uri-list payload. Comment
// lines and non-file URIs are ignored.
func ParseURIList(list string) []string {
	var paths []string
	for _, line := range strings.Split(list, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, err := url.Parse(line)
		if err != nil || u.Scheme != "file" || u.Path == "" {
			continue
		}
		p := u.Path
		if runtime.GOOS == "windows" && len(p) > 2 && p[0] == '/' && p[2] == ':' {
			p = p[1:]
		}
		paths = append(paths, filepath.Clean(filepath.FromSlash(p)))
	}
	return paths
}

func nodeAt(path string) *tree.Node {
	kind := tree.KindFile
	if fs.IsDir(path) {
		kind = tree.KindFolder
	}
	return &tree.Node{Path: path, Name: filepath.Base(path), Kind: kind, RootIndex: -1}
}

// skipForDrop reports whether moving path into dir would be a no-op or would
// put a folder inside itself.
func skipForDrop(path, dir string) bool {
	return filepath.Dir(path) == dir || path == dir || fs.IsSubpath(path, dir)
}

// Drop handles data dropped onto target. Paths from the tree are moved into
// the target folder (or the folder holding a target file); external URIs
// are copied. When every dragged path already lives in the target, or
// contains it, nothing happens at all. Otherwise a folder that contains the
// target counts as a failed item.
func (e *Engine) Drop(ctx context.Context, target *tree.Node, data DragData) (res BatchResult, err error) {
	defer guard("drop", &err)

	if target == nil {
		return res, ErrNoTarget
	}
	info, err := os.Stat(target.Path)
	if err != nil {
		e.host.Notifier.Error("Target not accessible: " + err.Error())
		return res, err
	}
	dir := target.Path
	if !info.IsDir() {
		dir = filepath.Dir(target.Path)
	}

	if len(data.Paths) > 0 {
		noop := true
		for _, p := range data.Paths {
			if !skipForDrop(filepath.Clean(p), dir) {
				noop = false
				break
			}
		}
		if noop {
			debug.Log(debug.OPS, "Drop: every path is already in or above %s", dir)
			return res, nil
		}
		// The rest follows the cut-paste path: a folder dropped into itself
		// fails as ErrIntoItself, an entry already in dir stays put.
		var items []*tree.Node
		for _, p := range data.Paths {
			p = filepath.Clean(p)
			if filepath.Dir(p) == dir {
				debug.Log(debug.OPS, "Drop: %s already in %s", p, dir)
				continue
			}
			items = append(items, nodeAt(p))
		}
		res = e.batch(ctx, "Moving files...", "moved", true, items, func(n *tree.Node) error {
			_, err := transfer(n.Path, dir, true)
			return err
		})
		e.refresh(append(parents(items), dir)...)
		e.summarize(res, "Move")
		return res, nil
	}

	paths := ParseURIList(data.URIList)
	if len(paths) == 0 {
		return res, nil
	}
	items := make([]*tree.Node, 0, len(paths))
	for _, p := range paths {
		items = append(items, nodeAt(p))
	}
	res = e.batch(ctx, "Copying files...", "copied", true, items, func(n *tree.Node) error {
		_, err := transfer(n.Path, dir, false)
		return err
	})
	e.refresh(dir)
	e.summarize(res, "Copy")
	return res, nil
}
