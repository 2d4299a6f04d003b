package tree

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/justyntemme/sidetree/internal/config"
	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/fs"
)

// Options holds the global settings that shape the top level.
type Options struct {
	RootSortOrder        string
	ShowSingleRootFolder bool
	CacheListings        bool
}

// OptionsFrom extracts materializer options from a configuration.
func OptionsFrom(cfg config.Config) Options {
	return Options{
		RootSortOrder:        cfg.RootPathSortOrder,
		ShowSingleRootFolder: cfg.ShowSingleRootFolder,
		CacheListings:        cfg.CacheListings,
	}
}

// Materializer lists, filters and sorts nodes on demand. Its public methods
// never fail: unexpected errors produce an empty listing.
type Materializer struct {
	mu    sync.RWMutex
	roots []config.Root
	opts  Options
	cache *Cache

	listenMu  sync.Mutex
	listeners map[int]func(*Node)
	nextID    int
}

// NewMaterializer creates a materializer over resolved roots.
func NewMaterializer(roots []config.Root, opts Options) *Materializer {
	return &Materializer{
		roots:     roots,
		opts:      opts,
		cache:     NewCache(),
		listeners: make(map[int]func(*Node)),
	}
}

// SetRoots replaces the active roots, clears every cached listing and
// fires a full refresh.
func (m *Materializer) SetRoots(roots []config.Root, opts Options) {
	m.mu.Lock()
	m.roots = roots
	m.opts = opts
	m.mu.Unlock()
	m.cache.Clear()
	debug.Log(debug.TREE, "SetRoots: %d active root(s)", len(roots))
	m.Refresh()
}

// Roots returns the active roots in configured order.
func (m *Materializer) Roots() []config.Root {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]config.Root(nil), m.roots...)
}

func (m *Materializer) options() Options {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opts
}

// OnChange registers fn to be called when the tree must be redrawn. The
// node argument is the subtree that changed, or nil for the whole tree.
func (m *Materializer) OnChange(fn func(*Node)) (unsubscribe func()) {
	m.listenMu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.listenMu.Unlock()
	return func() {
		m.listenMu.Lock()
		delete(m.listeners, id)
		m.listenMu.Unlock()
	}
}

func (m *Materializer) fire(n *Node) {
	m.listenMu.Lock()
	fns := make([]func(*Node), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.listenMu.Unlock()
	for _, fn := range fns {
		fn(n)
	}
}

// Refresh asks listeners to redraw the whole tree.
func (m *Materializer) Refresh() {
	m.fire(nil)
}

// Invalidate drops cached listings for dir and below.
func (m *Materializer) Invalidate(dir string) {
	m.cache.Invalidate(dir)
}

// Reset clears every cached listing.
func (m *Materializer) Reset() {
	m.cache.Clear()
}

func kindOf(path string) (Kind, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return KindFile, false
	}
	if info.IsDir() {
		return KindFolder, true
	}
	return KindFile, true
}

// RootNodes returns the top level. A single directory root is flattened to
// its children unless ShowSingleRootFolder is set. A single file root is
// returned as one file node.
func (m *Materializer) RootNodes() []*Node {
	return m.RootNodesContext(context.Background())
}

// RootNodesContext is RootNodes with a context bounding recursive walks.
func (m *Materializer) RootNodesContext(ctx context.Context) (nodes []*Node) {
	defer func() {
		if r := recover(); r != nil {
			debug.Log(debug.TREE, "RootNodes: recovered: %v", r)
			nodes = nil
		}
	}()

	roots := m.Roots()
	opts := m.options()

	if len(roots) == 1 {
		kind, ok := kindOf(roots[0].BasePath)
		if !ok {
			return nil
		}
		root := RootNode(roots[0], 0, kind)
		if kind == KindFile || opts.ShowSingleRootFolder {
			return []*Node{root}
		}
		return m.list(ctx, root, nil)
	}

	for i, r := range roots {
		kind, ok := kindOf(r.BasePath)
		if !ok {
			debug.Log(debug.TREE, "RootNodes: root %q vanished", r.BasePath)
			continue
		}
		nodes = append(nodes, RootNode(r, i, kind))
	}
	SortRoots(nodes, opts.RootSortOrder)
	return nodes
}

// Children lists the children of node.
func (m *Materializer) Children(node *Node) []*Node {
	return m.ChildrenContext(context.Background(), node)
}

// ChildrenContext is Children with a context bounding recursive walks.
func (m *Materializer) ChildrenContext(ctx context.Context, node *Node) (nodes []*Node) {
	defer func() {
		if r := recover(); r != nil {
			debug.Log(debug.TREE, "Children: recovered: %v", r)
			nodes = nil
		}
	}()
	if node == nil {
		return m.RootNodesContext(ctx)
	}
	if !node.IsDir() {
		return nil
	}
	return m.list(ctx, node, node)
}

// list materializes the children of node, linking them to parent.
func (m *Materializer) list(ctx context.Context, node, parent *Node) []*Node {
	if node.ViewAsList {
		return m.listFlat(ctx, node, parent)
	}
	return m.listTree(ctx, node, parent)
}

func (m *Materializer) listFlat(ctx context.Context, node, parent *Node) []*Node {
	matches, err := fs.FindFiles(ctx, node.Path, node.Matcher())
	if err != nil {
		debug.Log(debug.TREE, "listFlat: %s: %v", node.Path, err)
		if ctx.Err() != nil {
			return nil
		}
	}
	nodes := make([]*Node, 0, len(matches))
	for _, e := range matches {
		nodes = append(nodes, child(node, parent, e.Path, KindFile))
	}
	SortSiblings(nodes, node.SortOrderPattern)
	return nodes
}

func (m *Materializer) readDir(dir string) ([]fs.Entry, error) {
	caching := m.options().CacheListings
	if caching {
		if entries, ok := m.cache.Get(dir); ok {
			debug.Log(debug.TREE, "readDir: cache hit %s", dir)
			return entries, nil
		}
	}
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	if caching {
		m.cache.Put(dir, entries)
	}
	return entries, nil
}

func (m *Materializer) listTree(ctx context.Context, node, parent *Node) []*Node {
	entries, err := m.readDir(node.Path)
	if err != nil {
		debug.Log(debug.TREE, "listTree: %s: %v", node.Path, err)
		return nil
	}

	matcher := node.Matcher()
	prune := matcher.Filtered() && !node.ShowEmptyDirectories

	nodes := make([]*Node, 0, len(entries))
	for _, e := range entries {
		if ctx.Err() != nil {
			return nil
		}
		rel := rootRelative(node, e.Path)
		if !e.IsDir {
			if matcher.MatchFile(rel) {
				nodes = append(nodes, child(node, parent, e.Path, KindFile))
			}
			continue
		}
		if matcher.Excluded(rel) {
			debug.Log(debug.TREE_ENTRY, "listTree: excluded dir %s", e.Path)
			continue
		}
		if prune && !fs.HasMatch(ctx, rootOf(node), e.Path, matcher) {
			debug.Log(debug.TREE_ENTRY, "listTree: pruned empty dir %s", e.Path)
			continue
		}
		nodes = append(nodes, child(node, parent, e.Path, KindFolder))
	}
	SortSiblings(nodes, node.SortOrderPattern)
	return nodes
}

// rootOf returns the base path patterns below node are matched against.
func rootOf(node *Node) string {
	if node.RootPath != "" {
		return node.RootPath
	}
	return node.Path
}

// rootRelative returns path relative to node's governing root.
func rootRelative(node *Node, path string) string {
	rel, err := filepath.Rel(rootOf(node), path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// RootFor returns the active root governing path and its position in the
// active list. The deepest matching root wins.
func (m *Materializer) RootFor(path string) (config.Root, int, bool) {
	path = filepath.Clean(path)
	best := -1
	roots := m.Roots()
	for i, r := range roots {
		if path != r.BasePath && !fs.IsSubpath(r.BasePath, path) {
			continue
		}
		if best < 0 || len(r.BasePath) > len(roots[best].BasePath) {
			best = i
		}
	}
	if best < 0 {
		return config.Root{}, -1, false
	}
	return roots[best], best, true
}

// NodeFor builds the node for path with its chain of ancestors up to the
// governing root, so a host can reveal it. The returned node keeps its
// ancestors alive through the chain slice. Returns nil when path is not
// under an active root or does not exist.
func (m *Materializer) NodeFor(path string) (*Node, []*Node) {
	path = filepath.Clean(path)
	root, idx, ok := m.RootFor(path)
	if !ok {
		return nil, nil
	}
	kind, exists := kindOf(root.BasePath)
	if !exists {
		return nil, nil
	}
	cur := RootNode(root, idx, kind)

	// A flattened single root has no node of its own.
	flattened := len(m.Roots()) == 1 && kind == KindFolder && !m.options().ShowSingleRootFolder
	chain := []*Node{cur}
	if path == root.BasePath {
		if flattened {
			return nil, nil
		}
		return cur, chain
	}

	rel, err := filepath.Rel(root.BasePath, path)
	if err != nil {
		return nil, nil
	}
	parent := cur
	if flattened {
		parent = nil
	}
	dir := root.BasePath
	for _, part := range splitPath(rel) {
		dir = filepath.Join(dir, part)
		k, exists := kindOf(dir)
		if !exists {
			return nil, nil
		}
		n := child(cur, parent, dir, k)
		chain = append(chain, n)
		cur, parent = n, n
	}
	return cur, chain
}

func splitPath(rel string) []string {
	return strings.Split(filepath.ToSlash(rel), "/")
}
