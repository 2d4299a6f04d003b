package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/justyntemme/sidetree/internal/fs"
	"github.com/justyntemme/sidetree/internal/trash"
	"github.com/spf13/cobra"
)

func newInfoCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show where settings, session state and deleted files go",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer tw.Flush()

			describe := func(label, path string) {
				if path == "" {
					fmt.Fprintf(tw, "%s:\t(disabled)\n", label)
					return
				}
				e, err := fs.Stat(path)
				if err != nil {
					fmt.Fprintf(tw, "%s:\t%s\t(missing)\n", label, path)
					return
				}
				fmt.Fprintf(tw, "%s:\t%s\t%d bytes, modified %s\n", label, path, e.Size, e.ModTime.Format("2006-01-02 15:04"))
			}
			describe("Settings", g.configPathOf())
			describe("Session", g.resolvedStatePath())

			if trash.IsAvailable() {
				fmt.Fprintf(tw, "%s:\t%s\n", trash.DisplayName(), trash.GetPath())
			} else {
				fmt.Fprintf(tw, "%s:\tunavailable, deletes are permanent only\n", trash.DisplayName())
			}
			return nil
		},
	}
}
