// Package cli implements the sidetree command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/justyntemme/sidetree/internal/app"
	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/ops"
	"github.com/justyntemme/sidetree/internal/store"
	"github.com/justyntemme/sidetree/internal/tree"
	"github.com/spf13/cobra"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	statePath  string
	noState    bool
	workspace  []string
	assumeYes  bool
	noColor    bool
	logFile    string

	// noEditor leaves the host without an editor, so creating a file does
	// not launch one.
	noEditor bool
}

// NewRootCommand creates the sidetree command tree.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "sidetree",
		Short: "Browse and manage configured folders as one filtered tree",
		Long: `sidetree shows a set of configured folders and files as a single tree,
filtered by include/exclude globs and sorted folders first. Entries can be
created, renamed, deleted, cut, copied, pasted and moved between roots.

Roots are read from the settings file (see 'sidetree config path').`,
		SilenceUsage: true,
	}

	var logCloser io.Closer
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if g.noColor {
			disableColor()
		}
		if g.logFile != "" {
			c, err := debug.OpenLogFile(g.logFile)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			logCloser = c
		}
		debug.Log(debug.APP, "run: %s %v", cmd.CommandPath(), args)
		return nil
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "settings file (default $SIDETREE_CONFIG or ~/.config/sidetree/config.json)")
	root.PersistentFlags().StringVar(&g.statePath, "state", "", "session database (default $SIDETREE_STATE or the user cache dir)")
	root.PersistentFlags().BoolVar(&g.noState, "no-state", false, "do not persist the clipboard between runs")
	root.PersistentFlags().StringSliceVarP(&g.workspace, "workspace", "w", nil, "workspace folder for ${workspaceFolder} (default current directory)")
	root.PersistentFlags().BoolVarP(&g.assumeYes, "yes", "y", false, "answer confirmations with the first choice")
	root.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().StringVar(&g.logFile, "log-file", os.Getenv("SIDETREE_LOG"), "append diagnostics to this file (debug builds)")

	root.AddCommand(
		newTreeCommand(g),
		newLsCommand(g),
		newWatchCommand(g),
		newRootsCommand(g),
		newNewCommand(g),
		newRenameCommand(g),
		newDeleteCommand(g),
		newClipCommand(g, ops.ModeCut),
		newClipCommand(g, ops.ModeCopy),
		newPasteCommand(g),
		newMoveCommand(g),
		newImportCommand(g),
		newToWorkspaceCommand(g),
		newOpenCommand(g),
		newCopyPathCommand(g),
		newConfigCommand(g),
		newInfoCommand(g),
	)
	return root
}

// session is one command's view of the explorer.
type session struct {
	*app.Explorer
	term *terminal
}

func (g *globals) workspaceFolders() []string {
	if len(g.workspace) > 0 {
		out := make([]string, 0, len(g.workspace))
		for _, w := range g.workspace {
			if abs, err := filepath.Abs(w); err == nil {
				out = append(out, abs)
			}
		}
		return out
	}
	if wd, err := os.Getwd(); err == nil {
		return []string{wd}
	}
	return nil
}

func (g *globals) resolvedStatePath() string {
	if g.noState {
		return ""
	}
	if g.statePath != "" {
		return g.statePath
	}
	p, err := store.DefaultPath()
	if err != nil {
		return ""
	}
	return p
}

// open builds the explorer for cmd. The caller must Close it.
func (g *globals) open(cmd *cobra.Command, watch bool) (*session, error) {
	term := newTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), g.assumeYes)
	host := ops.Host{
		Prompter: term,
		Notifier: term,
		Progress: term,
		Reveal:   term.reveal,
	}
	if !g.noEditor {
		host.Editor = app.EditorFromEnv()
	}
	x, err := app.New(app.Options{
		ConfigPath:       g.configPathOf(),
		StatePath:        g.resolvedStatePath(),
		WorkspaceFolders: g.workspaceFolders(),
		Watch:            watch,
		Host:             host,
	})
	if err != nil {
		return nil, err
	}
	return &session{Explorer: x, term: term}, nil
}

// node resolves a path argument to a tree node. The folder of a flattened
// single root gets a root node of its own so it can be targeted.
func (s *session) node(arg string) (*tree.Node, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return nil, err
	}
	if _, err := os.Lstat(abs); err != nil {
		return nil, err
	}
	if n, _ := s.Tree().NodeFor(abs); n != nil {
		return n, nil
	}
	if roots := s.Tree().Roots(); len(roots) == 1 && roots[0].BasePath == abs {
		return tree.RootNode(roots[0], 0, tree.KindFolder), nil
	}
	return nil, fmt.Errorf("%s is not under a configured root", arg)
}

// selection resolves every argument.
func (s *session) selection(args []string) (ops.Selection, error) {
	nodes := make([]*tree.Node, 0, len(args))
	for _, a := range args {
		n, err := s.node(a)
		if err != nil {
			return ops.Selection{}, err
		}
		nodes = append(nodes, n)
	}
	return ops.Select(nodes...), nil
}
