// Package tree materializes configured roots into a lazily expanded node
// hierarchy, one level at a time.
package tree

import (
	"path/filepath"
	"weak"

	"github.com/justyntemme/sidetree/internal/config"
	"github.com/justyntemme/sidetree/internal/glob"
)

// Kind distinguishes files from folders.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Node is one filesystem entry in the presented hierarchy. Nodes are
// rebuilt on every listing; only the parent link is fixed at construction.
type Node struct {
	Path string
	Name string
	Kind Kind

	// RootIndex is the node's position in the active root list, or -1.
	RootIndex int
	IsRoot    bool
	// ConfigIndex is the governing entry's position in the stored paths
	// setting. Used for remove and hide.
	ConfigIndex int

	// RootPath is the base path of the governing root.
	RootPath string
	RootName string

	Include              []string
	Exclude              []string
	SortOrderPattern     []string
	ShowEmptyDirectories bool
	ViewAsList           bool

	Description string
	Tooltip     string

	parent weak.Pointer[Node]
}

// IsDir reports whether the node is a folder.
func (n *Node) IsDir() bool {
	return n.Kind == KindFolder
}

// Parent returns the node this one was listed under. It is nil for
// top-level nodes, and also once the host has released the parent.
func (n *Node) Parent() *Node {
	return n.parent.Value()
}

// Matcher builds the include/exclude matcher the node's children are
// filtered with.
func (n *Node) Matcher() *glob.Matcher {
	return glob.New(n.Include, n.Exclude)
}

// RootNode builds the node for a resolved root.
func RootNode(r config.Root, index int, kind Kind) *Node {
	return &Node{
		Path:                 r.BasePath,
		Name:                 r.Name,
		Kind:                 kind,
		RootIndex:            index,
		IsRoot:               true,
		ConfigIndex:          r.ConfigIndex,
		RootPath:             r.BasePath,
		RootName:             r.Name,
		Include:              r.Include,
		Exclude:              r.Exclude,
		SortOrderPattern:     r.SortOrderPattern,
		ShowEmptyDirectories: r.ShowEmptyDirectories,
		ViewAsList:           r.ViewAsList,
		Description:          r.Description,
		Tooltip:              r.Tooltip,
	}
}

// child creates a node for path governed by the same root as from. parent
// may be nil for nodes surfaced at the top level.
func child(from, parent *Node, path string, kind Kind) *Node {
	return &Node{
		Path:                 path,
		Name:                 filepath.Base(path),
		Kind:                 kind,
		RootIndex:            -1,
		ConfigIndex:          from.ConfigIndex,
		RootPath:             from.RootPath,
		RootName:             from.RootName,
		Include:              from.Include,
		Exclude:              from.Exclude,
		SortOrderPattern:     from.SortOrderPattern,
		ShowEmptyDirectories: from.ShowEmptyDirectories,
		ViewAsList:           from.ViewAsList,
		parent:               weak.Make(parent),
	}
}

// Snapshot returns the node's settings as a structured path entry, as
// stored when a root is hidden.
func (n *Node) Snapshot() config.RootConfig {
	show := n.ShowEmptyDirectories
	list := n.ViewAsList
	return config.RootConfig{
		BasePath:             n.Path,
		Name:                 n.Name,
		ShowEmptyDirectories: &show,
		ViewAsList:           &list,
	}
}
