// Package watch keeps the tree in step with out-of-band filesystem changes.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/justyntemme/sidetree/internal/config"
	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/fs"
	"github.com/justyntemme/sidetree/internal/glob"
)

// DefaultDebounce is used when no positive interval is configured.
const DefaultDebounce = 200 * time.Millisecond

// Target receives change signals. tree.Materializer implements it.
type Target interface {
	Invalidate(dir string)
	Refresh()
}

// Bridge owns one watcher set covering every active root. Reset tears the
// whole set down before building the next one.
type Bridge struct {
	target   Target
	debounce time.Duration

	mu  sync.Mutex
	set *watchSet
}

// NewBridge creates a bridge with nothing watched yet.
func NewBridge(target Target, debounce time.Duration) *Bridge {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Bridge{target: target, debounce: debounce}
}

// Reset replaces the watched roots. Failures to watch individual
// directories are logged and skipped.
func (b *Bridge) Reset(roots []config.Root) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.set != nil {
		b.set.close()
		b.set = nil
	}
	if len(roots) == 0 {
		return nil
	}

	set, err := newWatchSet(b.target, b.debounce)
	if err != nil {
		debug.Log(debug.WATCH, "Reset: cannot create watcher: %v", err)
		return err
	}
	for _, r := range roots {
		set.addRoot(r)
	}
	b.set = set
	go set.run()
	debug.Log(debug.WATCH, "Reset: watching %d director(ies) for %d root(s)", set.count(), len(roots))
	return nil
}

// Watching returns the directories currently watched.
func (b *Bridge) Watching() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.set == nil {
		return nil
	}
	return b.set.list()
}

// Close stops watching everything.
func (b *Bridge) Close() error {
	return b.Reset(nil)
}

// watchedRoot scopes events to one configured root.
type watchedRoot struct {
	path    string
	isFile  bool
	matcher *glob.Matcher
}

type watchSet struct {
	watcher  *fsnotify.Watcher
	target   Target
	debounce time.Duration

	mu       sync.Mutex
	watching map[string]*watchedRoot // watched dir -> governing root

	done    chan struct{}
	stopped chan struct{}
}

func newWatchSet(target Target, debounce time.Duration) (*watchSet, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &watchSet{
		watcher:  w,
		target:   target,
		debounce: debounce,
		watching: make(map[string]*watchedRoot),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

func (s *watchSet) addRoot(r config.Root) {
	info, err := os.Stat(r.BasePath)
	if err != nil {
		debug.Log(debug.WATCH, "addRoot: %s: %v", r.BasePath, err)
		return
	}
	wr := &watchedRoot{path: r.BasePath, matcher: glob.New(r.Include, r.Exclude)}
	if !info.IsDir() {
		// File roots are watched through their parent.
		wr.isFile = true
		s.watch(filepath.Dir(r.BasePath), wr)
		return
	}
	s.addTree(r.BasePath, wr)
}

// addTree watches dir and every non-excluded directory below it.
func (s *watchSet) addTree(dir string, wr *watchedRoot) {
	skip := func(rel string) bool {
		if dir != wr.path {
			if r, err := filepath.Rel(wr.path, filepath.Join(dir, rel)); err == nil {
				rel = r
			}
		}
		return wr.matcher.Excluded(rel)
	}
	dirs, err := fs.Dirs(context.Background(), dir, skip)
	if err != nil {
		debug.Log(debug.WATCH, "addTree: walking %s: %v", dir, err)
	}
	for _, d := range dirs {
		s.watch(d, wr)
	}
}

func (s *watchSet) watch(dir string, wr *watchedRoot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.watching[dir]; ok {
		return
	}
	if err := s.watcher.Add(dir); err != nil {
		debug.Log(debug.WATCH, "watch: %s: %v", dir, err)
		return
	}
	s.watching[dir] = wr
}

func (s *watchSet) rootOf(dir string) (*watchedRoot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wr, ok := s.watching[dir]
	return wr, ok
}

func (s *watchSet) forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for dir := range s.watching {
		if dir == path || fs.IsSubpath(path, dir) {
			delete(s.watching, dir)
		}
	}
}

func (s *watchSet) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watching)
}

func (s *watchSet) list() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.watching))
	for dir := range s.watching {
		out = append(out, dir)
	}
	return out
}

// run processes filesystem events with debouncing
func (s *watchSet) run() {
	defer close(s.stopped)

	// Debounce: track last event time per directory
	lastEvent := make(map[string]time.Time)
	ticker := time.NewTicker(s.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if dir, ok := s.handle(event); ok {
				lastEvent[dir] = time.Now()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.WATCH, "fsnotify error: %v", err)

		case <-ticker.C:
			now := time.Now()
			var ready []string
			for dir, at := range lastEvent {
				if now.Sub(at) >= s.debounce {
					ready = append(ready, dir)
					delete(lastEvent, dir)
				}
			}
			if len(ready) == 0 {
				continue
			}
			for _, dir := range ready {
				s.target.Invalidate(dir)
			}
			debug.Log(debug.WATCH, "refresh after changes in %d director(ies)", len(ready))
			s.target.Refresh()
		}
	}
}

// handle records an event and returns the directory whose listing changed.
func (s *watchSet) handle(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
		return "", false
	}

	parent := filepath.Dir(event.Name)
	wr, ok := s.rootOf(parent)
	if !ok {
		return "", false
	}
	if wr.isFile && event.Name != wr.path {
		return "", false
	}
	debug.Log(debug.WATCH, "event: %s on %s", event.Op, event.Name)

	switch {
	case event.Has(fsnotify.Create) && !wr.isFile:
		if fs.IsDir(event.Name) {
			rel, err := filepath.Rel(wr.path, event.Name)
			if err == nil && !wr.matcher.Excluded(rel) {
				s.addTree(event.Name, wr)
			}
		}
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		s.forget(event.Name)
	}
	return parent, true
}

func (s *watchSet) close() {
	close(s.done)
	if err := s.watcher.Close(); err != nil {
		debug.Log(debug.WATCH, "close: %v", err)
	}
	<-s.stopped
}
