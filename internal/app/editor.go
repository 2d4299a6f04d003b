package app

import (
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/justyntemme/sidetree/internal/debug"
)

// SystemEditor opens files for a terminal host. With Command set the file
// is handed to that program in the foreground; otherwise the platform's
// default application is launched.
type SystemEditor struct {
	// Command is an editor command line such as "vim" or "code -w".
	Command string

	mu     sync.Mutex
	active string
}

// EditorFromEnv returns an editor using $VISUAL or $EDITOR.
func EditorFromEnv() *SystemEditor {
	cmd := os.Getenv("VISUAL")
	if cmd == "" {
		cmd = os.Getenv("EDITOR")
	}
	return &SystemEditor{Command: cmd}
}

// Open implements ops.Editor. Previews go to the default application so a
// single click never blocks the terminal.
func (e *SystemEditor) Open(path string, preview bool) error {
	debug.Log(debug.APP, "Open: %s (preview=%v)", path, preview)
	var err error
	fields := strings.Fields(e.Command)
	if preview || len(fields) == 0 {
		err = platformOpen(path)
	} else {
		cmd := exec.Command(fields[0], append(fields[1:], path)...)
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
		err = cmd.Run()
	}
	if err == nil {
		e.mu.Lock()
		e.active = path
		e.mu.Unlock()
	}
	return err
}

// Active implements ops.Editor.
func (e *SystemEditor) Active() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Reveal shows path in the platform file manager.
func Reveal(path string) error {
	debug.Log(debug.APP, "Reveal: %s", path)
	return platformReveal(path)
}
