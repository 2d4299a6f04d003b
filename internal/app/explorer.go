// Package app composes the settings, tree, operations, watcher and session
// store into one explorer and exposes the root-management commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/justyntemme/sidetree/internal/config"
	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/ops"
	"github.com/justyntemme/sidetree/internal/store"
	"github.com/justyntemme/sidetree/internal/tree"
	"github.com/justyntemme/sidetree/internal/watch"
)

// Options configures a new Explorer.
type Options struct {
	// ConfigPath is the settings file. Empty means config.ConfigPath().
	ConfigPath string
	// StatePath is the session database. Empty disables persistence.
	StatePath string
	// WorkspaceFolders are the open workspace folders, first one primary.
	WorkspaceFolders []string
	// Watch enables the filesystem watcher.
	Watch bool

	Host    ops.Host
	Remover ops.Remover
	// WriteClipboard puts text on the system clipboard. Defaults to
	// clipboard.WriteAll.
	WriteClipboard func(string) error
}

// Explorer is the running tree view: every settings change re-resolves the
// roots and rebuilds the listing cache and the watchers.
type Explorer struct {
	settings  *config.Manager
	env       config.Environment
	tree      *tree.Materializer
	engine    *ops.Engine
	bridge    *watch.Bridge
	db        *store.DB
	host      ops.Host
	writeClip func(string) error

	applyMu sync.Mutex
	unsub   func()
}

// New loads the settings and builds an explorer. A settings file that
// fails to parse does not stop startup; the defaults are used and the
// error is reported through the host.
func New(opts Options) (*Explorer, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.ConfigPath()
	}
	settings := config.NewManager(path)
	if err := settings.Load(); err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	x := &Explorer{
		settings:  settings,
		env:       config.EnvironmentFromOS(opts.WorkspaceFolders...),
		host:      opts.Host,
		writeClip: opts.WriteClipboard,
	}
	if x.writeClip == nil {
		x.writeClip = clipboard.WriteAll
	}

	session := &ops.Session{}
	if opts.StatePath != "" {
		db, err := store.Open(opts.StatePath)
		if err != nil {
			log.Printf("Failed to open session DB: %v", err)
		} else {
			x.db = db
			if err := db.Restore(context.Background(), session); err != nil {
				log.Printf("Failed to restore session: %v", err)
			}
		}
	}

	cfg := settings.Get()
	roots := config.Resolve(cfg, x.env)
	x.tree = tree.NewMaterializer(roots, tree.OptionsFrom(cfg))
	x.engine = ops.NewEngine(x.tree, opts.Host, session, opts.Remover, ops.OptionsFrom(cfg, x.env.WorkspaceFolders))
	if opts.Watch {
		x.bridge = watch.NewBridge(x.tree, cfg.Debounce())
		if err := x.bridge.Reset(roots); err != nil {
			log.Printf("Failed to start watcher: %v", err)
		}
	}
	x.unsub = settings.Subscribe(x.apply)

	if err := settings.ParseError(); err != nil && x.host.Notifier != nil {
		x.host.Notifier.Error(fmt.Sprintf("Settings file could not be read, using defaults: %v", err))
	}
	debug.Log(debug.APP, "New: %d active root(s), settings at %s", len(roots), path)
	return x, nil
}

// apply reacts to a settings change. Watchers are torn down before the new
// set is built.
func (x *Explorer) apply(cfg config.Config) {
	x.applyMu.Lock()
	defer x.applyMu.Unlock()

	roots := config.Resolve(cfg, x.env)
	debug.Log(debug.APP, "apply: %d active root(s)", len(roots))
	x.engine.SetOptions(ops.OptionsFrom(cfg, x.env.WorkspaceFolders))
	if x.bridge != nil {
		if err := x.bridge.Reset(roots); err != nil {
			log.Printf("Failed to rebuild watchers: %v", err)
		}
	}
	x.tree.SetRoots(roots, tree.OptionsFrom(cfg))
}

// Reload re-reads the settings file and applies it, for edits made by
// hand while the explorer is running.
func (x *Explorer) Reload() error {
	if err := x.settings.Load(); err != nil {
		return err
	}
	x.apply(x.settings.Get())
	return x.settings.ParseError()
}

// Tree returns the materializer that serves root nodes and children.
func (x *Explorer) Tree() *tree.Materializer { return x.tree }

// Engine returns the operation engine.
func (x *Explorer) Engine() *ops.Engine { return x.engine }

// Settings returns the settings manager.
func (x *Explorer) Settings() *config.Manager { return x.settings }

// Watching returns the directories under watch, if watching is enabled.
func (x *Explorer) Watching() []string {
	if x.bridge == nil {
		return nil
	}
	return x.bridge.Watching()
}

// Close stops the watchers and writes the session back.
func (x *Explorer) Close() error {
	if x.unsub != nil {
		x.unsub()
		x.unsub = nil
	}
	var errs []error
	if x.bridge != nil {
		errs = append(errs, x.bridge.Close())
	}
	if x.db != nil {
		x.db.Persist(context.Background(), x.engine.Session())
		errs = append(errs, x.db.Close())
		x.db = nil
	}
	return errors.Join(errs...)
}
