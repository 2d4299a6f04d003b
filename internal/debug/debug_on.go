//go:build debug

// Package debug provides a centralized, categorized debug logging system.
// Build with -tags debug to enable logging.
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Enabled indicates whether debug logging is active
const Enabled = true

// Category represents a debug logging category
type Category string

const (
	// Core categories
	APP    Category = "APP"    // Explorer wiring, command dispatch
	CONFIG Category = "CONFIG" // Settings load/save, root resolution
	TREE   Category = "TREE"   // Materializer listings, cache, refresh
	OPS    Category = "OPS"    // Mutation engine (create, rename, delete, paste, drop)
	WATCH  Category = "WATCH"  // Filesystem watchers
	STORE  Category = "STORE"  // Session database

	// Per-entry listing detail, very verbose
	TREE_ENTRY Category = "TREE_ENTRY"
)

var (
	enabledCategories = map[Category]bool{
		APP:    true,
		CONFIG: true,
		TREE:   true,
		OPS:    true,
		WATCH:  true,
		STORE:  true,
		// Verbose categories disabled by default
		TREE_ENTRY: false,
	}
	categoryMu sync.RWMutex

	outMu  sync.Mutex
	logger = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
)

func init() {
	// Format: SIDETREE_DEBUG=TREE,OPS or SIDETREE_DEBUG=all or SIDETREE_DEBUG=none
	if env := os.Getenv("SIDETREE_DEBUG"); env != "" {
		categoryMu.Lock()
		defer categoryMu.Unlock()

		env = strings.ToUpper(env)
		switch env {
		case "ALL":
			for cat := range enabledCategories {
				enabledCategories[cat] = true
			}
		case "NONE":
			for cat := range enabledCategories {
				enabledCategories[cat] = false
			}
		default:
			for cat := range enabledCategories {
				enabledCategories[cat] = false
			}
			for _, cat := range strings.Split(env, ",") {
				cat = strings.TrimSpace(cat)
				enabledCategories[Category(cat)] = true
			}
		}
	}
}

// Log logs a debug message for the specified category
func Log(cat Category, format string, args ...interface{}) {
	categoryMu.RLock()
	enabled := enabledCategories[cat]
	categoryMu.RUnlock()

	if !enabled {
		return
	}

	msg := fmt.Sprintf(format, args...)
	outMu.Lock()
	logger.Printf("[%s] %s", cat, msg)
	outMu.Unlock()
}

// SetOutput redirects the diagnostic log.
func SetOutput(w io.Writer) {
	outMu.Lock()
	logger.SetOutput(w)
	outMu.Unlock()
}

// OpenLogFile opens path in append-only mode and routes the diagnostic
// log into it. The caller closes the returned file on shutdown.
func OpenLogFile(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	SetOutput(f)
	return f, nil
}

// Enable enables a debug category
func Enable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = true
	categoryMu.Unlock()
}

// Disable disables a debug category
func Disable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = false
	categoryMu.Unlock()
}

// IsEnabled returns whether a category is enabled
func IsEnabled(cat Category) bool {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	return enabledCategories[cat]
}

// EnableAll enables all debug categories including verbose ones
func EnableAll() {
	categoryMu.Lock()
	for cat := range enabledCategories {
		enabledCategories[cat] = true
	}
	categoryMu.Unlock()
}

// DisableAll disables all debug categories
func DisableAll() {
	categoryMu.Lock()
	for cat := range enabledCategories {
		enabledCategories[cat] = false
	}
	categoryMu.Unlock()
}
