//go:build linux

package app

import (
	"os/exec"
	"path/filepath"

	"github.com/justyntemme/sidetree/internal/fs"
)

// platformOpen opens the file using 'xdg-open' (default application).
func platformOpen(path string) error {
	return exec.Command("xdg-open", path).Start()
}

// platformReveal shows the file's folder in the file manager. xdg-open has
// no way to select the file itself, so the folder is opened instead.
func platformReveal(path string) error {
	dir := path
	if !fs.IsDir(dir) {
		dir = filepath.Dir(dir)
	}
	if _, err := exec.LookPath("gio"); err == nil {
		return exec.Command("gio", "open", dir).Start()
	}
	return exec.Command("xdg-open", dir).Start()
}
