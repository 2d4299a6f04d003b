package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/justyntemme/sidetree/internal/config"
	"github.com/justyntemme/sidetree/internal/fs"
	"github.com/justyntemme/sidetree/internal/tree"
	"github.com/spf13/cobra"
)

func newRootsCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roots",
		Short: "Manage the configured roots",
	}
	cmd.AddCommand(
		newRootsListCommand(g),
		newRootsAddCommand(g),
		newRootEditCommand(g, "remove", "Remove a root from the settings", func(s *session, n *tree.Node) error {
			return s.RemoveRoot(n)
		}),
		newRootEditCommand(g, "hide", "Hide a root, keeping its settings", func(s *session, n *tree.Node) error {
			return s.HideRoot(n)
		}),
		newRootsUnhideCommand(g),
		newToggleCommand(g, "toggle-list", "Toggle list view for a root, or the global default", func(s *session, n *tree.Node) error {
			return s.ToggleListView(n)
		}),
		newToggleCommand(g, "toggle-empty", "Toggle showing empty folders for a root, or the global default", func(s *session, n *tree.Node) error {
			return s.ToggleShowEmptyDirectories(n)
		}),
	)
	return cmd
}

func newRootsListCommand(g *globals) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active roots, or every configured entry with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer tw.Flush()

			if all {
				fmt.Fprintln(tw, "#\tENTRY\tNAME\tHIDDEN")
				for i, p := range s.Settings().Get().Paths {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%v\n", i, p.Template(), p.Name, p.Hidden)
				}
				return nil
			}
			fmt.Fprintln(tw, "#\tNAME\tPATH\tLIST\tEMPTY\tINCLUDE\tEXCLUDE")
			for i, r := range s.Tree().Roots() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%v\t%v\t%v\t%v\n",
					i, r.Name, r.BasePath, r.ViewAsList, r.ShowEmptyDirectories, r.Include, r.Exclude)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "show stored entries, including hidden and unresolved ones")
	return cmd
}

func newRootsAddCommand(g *globals) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "add <path>...",
		Short: "Add folders or files as roots",
		Long: `Add folders or files as roots. Paths are stored as absolute paths unless
--raw is given, in which case they are stored verbatim so templates such as
${workspaceFolder}/docs can be added.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			paths := args
			if !raw {
				paths = make([]string, 0, len(args))
				for _, a := range args {
					abs, err := filepath.Abs(a)
					if err != nil {
						return err
					}
					paths = append(paths, abs)
				}
			}
			return s.AddRoots(paths...)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "store the arguments verbatim")
	return cmd
}

// rootArg finds a root node by active index, name or path.
func (s *session) rootArg(arg string) (*tree.Node, error) {
	abs, _ := filepath.Abs(arg)
	for i, r := range s.Tree().Roots() {
		if arg == r.Name || arg == fmt.Sprint(i) || r.BasePath == arg || r.BasePath == abs {
			kind := tree.KindFile
			if fs.IsDir(r.BasePath) {
				kind = tree.KindFolder
			}
			return tree.RootNode(r, i, kind), nil
		}
	}
	return nil, fmt.Errorf("no active root %q", arg)
}

func newRootEditCommand(g *globals, use, short string, fn func(*session, *tree.Node) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <root>",
		Short: short,
		Long:  short + ". <root> is an index from 'roots list', a root name or its path.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.rootArg(args[0])
			if err != nil {
				return err
			}
			return fn(s, n)
		},
	}
}

func newToggleCommand(g *globals, use, short string, fn func(*session, *tree.Node) error) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   use + " [root]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !global {
				return fmt.Errorf("give a root or --global")
			}
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			var n *tree.Node
			if len(args) == 1 {
				if n, err = s.rootArg(args[0]); err != nil {
					return err
				}
			}
			return fn(s, n)
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "change the default for all roots")
	return cmd
}

func newRootsUnhideCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "unhide <name-or-path>",
		Short: "Show a hidden root again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()
			_, err = s.UnhideRoot(args[0])
			return err
		},
	}
}

// configPathOf reports the settings file in use.
func (g *globals) configPathOf() string {
	if g.configPath != "" {
		return g.configPath
	}
	return config.ConfigPath()
}
