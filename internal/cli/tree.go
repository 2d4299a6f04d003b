package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/justyntemme/sidetree/internal/tree"
	"github.com/spf13/cobra"
)

// printer renders nodes as an indented outline.
type printer struct {
	w     io.Writer
	m     *tree.Materializer
	depth int
	paths bool
}

func (p *printer) label(n *tree.Node) string {
	name := n.Name
	if p.paths {
		name = n.Path
	}
	if n.IsDir() {
		name = color.New(color.FgBlue, color.Bold).Sprint(name + "/")
	}
	if n.IsRoot && n.Description != "" {
		name += " " + color.New(color.FgHiBlack).Sprint(n.Description)
	}
	return name
}

// print writes nodes and, down to the configured depth, their children.
// A depth of zero or less means unlimited.
func (p *printer) print(ctx context.Context, nodes []*tree.Node, level int) {
	for _, n := range nodes {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", level), p.label(n))
		if n.IsDir() && (p.depth <= 0 || level+1 < p.depth) {
			p.print(ctx, p.m.ChildrenContext(ctx, n), level+1)
		}
	}
}

func newTreeCommand(g *globals) *cobra.Command {
	var depth int
	var paths bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the configured roots as a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			p := &printer{w: cmd.OutOrStdout(), m: s.Tree(), depth: depth, paths: paths}
			p.print(cmd.Context(), s.Tree().RootNodesContext(cmd.Context()), 0)
			return nil
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "levels to descend (0 for all)")
	cmd.Flags().BoolVar(&paths, "paths", false, "print absolute paths instead of names")
	return cmd
}

func newLsCommand(g *globals) *cobra.Command {
	var paths bool

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List one level: the roots, or the children of a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			var n *tree.Node
			if len(args) == 1 {
				if n, err = s.node(args[0]); err != nil {
					return err
				}
			}
			p := &printer{w: cmd.OutOrStdout(), m: s.Tree(), depth: 1, paths: paths}
			p.print(cmd.Context(), s.Tree().ChildrenContext(cmd.Context(), n), 0)
			return nil
		},
	}
	cmd.Flags().BoolVar(&paths, "paths", false, "print absolute paths instead of names")
	return cmd
}

func newWatchCommand(g *globals) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the tree and reprint it whenever something changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, err := g.open(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			changed := make(chan struct{}, 1)
			unsub := s.Tree().OnChange(func(*tree.Node) {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
			defer unsub()

			out := cmd.OutOrStdout()
			p := &printer{w: out, m: s.Tree(), depth: depth}
			for {
				p.print(ctx, s.Tree().RootNodesContext(ctx), 0)
				fmt.Fprintln(out, color.New(color.FgHiBlack).Sprintf("-- watching %d folder(s), Ctrl-C to stop", len(s.Watching())))
				select {
				case <-ctx.Done():
					return nil
				case <-changed:
				}
			}
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", 2, "levels to descend (0 for all)")
	return cmd
}
