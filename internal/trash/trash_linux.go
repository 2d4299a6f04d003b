//go:build linux

package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/justyntemme/sidetree/internal/fs"
)

// Linux uses the freedesktop.org trash specification.
// Trash location: $XDG_DATA_HOME/Trash (default ~/.local/share/Trash)
//   - files/  trashed entries
//   - info/   .trashinfo metadata, one per entry
//
// [Trash Info]
// Path=/original/path/to/file
// DeletionDate=2024-01-15T10:30:45

func getPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "Trash")
}

func isAvailable() bool {
	trashPath := getPath()
	if trashPath == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Join(trashPath, "files"), 0o700); err != nil {
		return false
	}
	return os.MkdirAll(filepath.Join(trashPath, "info"), 0o700) == nil
}

func moveToTrash(path string) error {
	trashPath := getPath()
	if trashPath == "" {
		return ErrUnavailable
	}
	filesPath := filepath.Join(trashPath, "files")
	infoPath := filepath.Join(trashPath, "info")

	if err := os.MkdirAll(filesPath, 0o700); err != nil {
		return fmt.Errorf("cannot create trash files directory: %w", err)
	}
	if err := os.MkdirAll(infoPath, 0o700); err != nil {
		return fmt.Errorf("cannot create trash info directory: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	// Name collisions in the trash use name.N.ext
	baseName := filepath.Base(absPath)
	destName := baseName
	for counter := 1; fs.Exists(filepath.Join(filesPath, destName)); counter++ {
		ext := filepath.Ext(baseName)
		destName = fmt.Sprintf("%s.%d%s", strings.TrimSuffix(baseName, ext), counter, ext)
	}
	destPath := filepath.Join(filesPath, destName)

	infoContent := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		url.PathEscape(absPath),
		time.Now().Format("2006-01-02T15:04:05"))

	infoFilePath := filepath.Join(infoPath, destName+".trashinfo")
	if err := os.WriteFile(infoFilePath, []byte(infoContent), 0o600); err != nil {
		return fmt.Errorf("cannot create trashinfo file: %w", err)
	}

	if err := fs.Move(absPath, destPath); err != nil {
		os.Remove(infoFilePath)
		return fmt.Errorf("cannot move file to trash: %w", err)
	}
	return nil
}

func displayName() string {
	return "Trash"
}
