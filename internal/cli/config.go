package cli

import (
	"fmt"

	"github.com/justyntemme/sidetree/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), g.configPathOf())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write default settings, backing up the current file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.configPathOf()
			backup, err := config.GenerateConfig(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if backup != "" {
				fmt.Fprintf(out, "Backed up %s to %s\n", path, backup)
			}
			fmt.Fprintf(out, "Wrote defaults to %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "delete-behavior <alwaysAsk|recycleBin|permanent>",
		Short:     "Set how delete removes entries",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{config.DeleteAlwaysAsk, config.DeleteRecycleBin, config.DeletePermanent},
		RunE: func(cmd *cobra.Command, args []string) error {
			m := config.NewManager(g.configPathOf())
			if err := m.Load(); err != nil {
				return err
			}
			return m.SetDeleteBehavior(args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "root-order <default|filesFirst|foldersFirst>",
		Short:     "Set how multiple roots are ordered",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{config.RootSortDefault, config.RootSortFilesFirst, config.RootSortFoldersFirst},
		RunE: func(cmd *cobra.Command, args []string) error {
			m := config.NewManager(g.configPathOf())
			if err := m.Load(); err != nil {
				return err
			}
			return m.SetRootPathSortOrder(args[0])
		},
	})
	return cmd
}
