package fs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/glob"
)

type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

func entryFromInfo(path string, info fs.FileInfo) Entry {
	return Entry{
		Name:    filepath.Base(path),
		Path:    path,
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

// Stat follows symlinks, falling back to lstat for broken links.
func Stat(path string) (Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		info, err = os.Lstat(path)
		if err != nil {
			return Entry{}, err
		}
	}
	return entryFromInfo(path, info), nil
}

// relFrom returns fullPath relative to base without calling filepath.Rel;
// fastwalk always yields paths that start with base.
func relFrom(base, fullPath string) string {
	relStart := len(base)
	if relStart < len(fullPath) && (fullPath[relStart] == '/' || fullPath[relStart] == '\\') {
		relStart++
	}
	if relStart > len(fullPath) {
		return ""
	}
	return fullPath[relStart:]
}

// ReadDir lists the immediate children of path. Entries that cannot be
// stat'ed are skipped so one bad entry never fails the whole listing.
func ReadDir(path string) ([]Entry, error) {
	debug.Log(debug.TREE, "ReadDir: reading %q", path)

	var result []Entry
	var mu sync.Mutex

	conf := &fastwalk.Config{
		Follow: true, // Follow symlinks to get target info
	}

	err := fastwalk.Walk(conf, path, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			debug.Log(debug.TREE_ENTRY, "ReadDir: walk error at %q: %v", fullPath, err)
			return nil
		}
		if fullPath == path {
			return nil
		}

		rel := relFrom(path, fullPath)
		if strings.ContainsAny(rel, "/\\") {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			info, err = os.Lstat(fullPath)
			if err != nil {
				debug.Log(debug.TREE_ENTRY, "ReadDir: skipping %q: stat error: %v", d.Name(), err)
				return nil
			}
			debug.Log(debug.TREE_ENTRY, "ReadDir: %q: using lstat (symlink target inaccessible)", d.Name())
		}

		mu.Lock()
		result = append(result, entryFromInfo(fullPath, info))
		mu.Unlock()

		if d.IsDir() {
			return fastwalk.SkipDir
		}
		return nil
	})
	if err != nil {
		debug.Log(debug.TREE, "ReadDir: walk error: %v", err)
		return nil, err
	}

	debug.Log(debug.TREE, "ReadDir: returning %d entries", len(result))
	return result, nil
}

// FindFiles walks root recursively and returns every regular file whose path
// relative to root passes m. Excluded directories are not descended into.
func FindFiles(ctx context.Context, root string, m *glob.Matcher) ([]Entry, error) {
	debug.Log(debug.TREE, "FindFiles: root=%q", root)

	var results []Entry
	var mu sync.Mutex

	// Don't follow symlinks in recursive walks to avoid cycles
	conf := &fastwalk.Config{Follow: false}

	err := fastwalk.Walk(conf, root, func(fullPath string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			debug.Log(debug.TREE_ENTRY, "FindFiles: error at %q: %v", fullPath, err)
			return nil
		}
		if fullPath == root {
			return nil
		}

		rel := relFrom(root, fullPath)
		if d.IsDir() {
			if m.Excluded(rel) {
				return fastwalk.SkipDir
			}
			return nil
		}
		if !m.MatchFile(rel) {
			return nil
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			debug.Log(debug.TREE_ENTRY, "FindFiles: skipping %q: %v", fullPath, err)
			return nil
		}
		if info.IsDir() {
			return nil
		}

		mu.Lock()
		results = append(results, entryFromInfo(fullPath, info))
		mu.Unlock()
		return nil
	})
	if err != nil {
		return results, err
	}

	debug.Log(debug.TREE, "FindFiles: %d results under %q", len(results), root)
	return results, nil
}

// HasMatch reports whether any file below dir passes m. Paths are matched
// relative to base, the governing root, the same way listings match them.
// The walk stops at the first match.
func HasMatch(ctx context.Context, base, dir string, m *glob.Matcher) bool {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var found atomic.Bool
	conf := &fastwalk.Config{Follow: false}

	_ = fastwalk.Walk(conf, dir, func(fullPath string, d fs.DirEntry, err error) error {
		if found.Load() {
			return fastwalk.SkipDir
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return nil
		}
		rel := relFrom(base, fullPath)
		if d.IsDir() {
			if m.Excluded(rel) {
				return fastwalk.SkipDir
			}
			return nil
		}
		if m.MatchFile(rel) {
			found.Store(true)
			cancel()
			return fastwalk.SkipDir
		}
		return nil
	})
	return found.Load()
}

// Dirs returns root and every directory beneath it for which skip returns
// false. skip receives the path relative to root.
func Dirs(ctx context.Context, root string, skip func(rel string) bool) ([]string, error) {
	dirs := []string{root}
	var mu sync.Mutex

	conf := &fastwalk.Config{Follow: false}
	err := fastwalk.Walk(conf, root, func(fullPath string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil || fullPath == root || !d.IsDir() {
			return nil
		}
		if skip != nil && skip(relFrom(root, fullPath)) {
			return fastwalk.SkipDir
		}
		mu.Lock()
		dirs = append(dirs, fullPath)
		mu.Unlock()
		return nil
	})
	return dirs, err
}
