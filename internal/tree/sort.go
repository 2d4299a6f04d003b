package tree

import (
	"sort"

	"golang.org/x/text/cases"

	"github.com/justyntemme/sidetree/internal/config"
	"github.com/justyntemme/sidetree/internal/glob"
)

// foldKeys maps each node to its case-folded name. A Caser is stateful, so
// a fresh one is used per sort.
func foldKeys(nodes []*Node) map[*Node]string {
	folder := cases.Fold()
	keys := make(map[*Node]string, len(nodes))
	for _, n := range nodes {
		keys[n] = folder.String(n.Name)
	}
	return keys
}

// SortSiblings orders nodes in place: folders before files, then by the
// first sort pattern each name matches, then by case-insensitive name.
func SortSiblings(nodes []*Node, patterns []string) {
	keys := foldKeys(nodes)
	var rank map[*Node]int
	if len(patterns) > 0 {
		rank = make(map[*Node]int, len(nodes))
		for _, n := range nodes {
			rank[n] = glob.Rank(n.Name, patterns)
		}
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		if rank != nil && rank[a] != rank[b] {
			return rank[a] < rank[b]
		}
		if keys[a] != keys[b] {
			return keys[a] < keys[b]
		}
		return a.Name < b.Name
	})
}

// SortRoots orders the top-level root list. The default policy keeps the
// configured order.
func SortRoots(nodes []*Node, policy string) {
	var dirsFirst bool
	switch policy {
	case config.RootSortFoldersFirst:
		dirsFirst = true
	case config.RootSortFilesFirst:
		dirsFirst = false
	default:
		return
	}

	keys := foldKeys(nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.IsDir() != b.IsDir() {
			return a.IsDir() == dirsFirst
		}
		if keys[a] != keys[b] {
			return keys[a] < keys[b]
		}
		return a.Name < b.Name
	})
}
