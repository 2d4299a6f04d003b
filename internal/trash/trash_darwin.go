//go:build darwin

package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/justyntemme/sidetree/internal/fs"
)

// macOS uses ~/.Trash for the user's trash. Entries are moved there directly
// without metadata; name conflicts get a timestamp suffix.

func getPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".Trash")
}

func isAvailable() bool {
	trashPath := getPath()
	if trashPath == "" {
		return false
	}
	info, err := os.Stat(trashPath)
	return err == nil && info.IsDir()
}

func moveToTrash(path string) error {
	trashPath := getPath()
	if trashPath == "" {
		return ErrUnavailable
	}

	baseName := filepath.Base(path)
	destPath := filepath.Join(trashPath, baseName)
	if fs.Exists(destPath) {
		ext := filepath.Ext(baseName)
		name := strings.TrimSuffix(baseName, ext)
		timestamp := time.Now().Format("2006-01-02-150405")
		destPath = filepath.Join(trashPath, fmt.Sprintf("%s %s%s", name, timestamp, ext))
	}

	return fs.Move(path, destPath)
}

func displayName() string {
	return "Trash"
}
