//go:build !debug

// Package debug provides a centralized, categorized debug logging system.
// This is the no-op version for release builds.
package debug

import "io"

// Enabled indicates whether debug logging is active
const Enabled = false

// Category represents a debug logging category
type Category string

const (
	APP        Category = "APP"
	CONFIG     Category = "CONFIG"
	TREE       Category = "TREE"
	TREE_ENTRY Category = "TREE_ENTRY"
	OPS        Category = "OPS"
	WATCH      Category = "WATCH"
	STORE      Category = "STORE"
)

// Log is a no-op in release builds
func Log(cat Category, format string, args ...interface{}) {}

// Enable is a no-op in release builds
func Enable(cat Category) {}

// Disable is a no-op in release builds
func Disable(cat Category) {}

// IsEnabled always returns false in release builds
func IsEnabled(cat Category) bool { return false }

// EnableAll is a no-op in release builds
func EnableAll() {}

// DisableAll is a no-op in release builds
func DisableAll() {}

// SetOutput is a no-op in release builds
func SetOutput(w io.Writer) {}

// OpenLogFile is a no-op in release builds
func OpenLogFile(path string) (io.Closer, error) { return io.NopCloser(nil), nil }
