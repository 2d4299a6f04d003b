package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/justyntemme/sidetree/internal/config"
	"github.com/justyntemme/sidetree/internal/ops"
	"github.com/justyntemme/sidetree/internal/trash"
	"github.com/spf13/cobra"
)

func newNewCommand(g *globals) *cobra.Command {
	var asFile, asFolder, edit bool

	cmd := &cobra.Command{
		Use:   "new <where> [name]",
		Short: "Create a file or folder",
		Long: `Create a file or folder inside <where>, or next to it when <where> is a
file. The name may contain slashes to create intermediate folders. Without
--file or --folder a name with an extension becomes a file.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asFile && asFolder {
				return errors.New("--file and --folder are mutually exclusive")
			}
			kind := ops.EntryAuto
			switch {
			case asFile:
				kind = ops.EntryFile
			case asFolder:
				kind = ops.EntryFolder
			}
			g.noEditor = !edit

			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			sel, err := s.selection(args[:1])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				base := sel.Item.Path
				if !sel.Item.IsDir() {
					base = filepath.Dir(base)
				}
				_, err = s.Engine().CreateNamed(base, args[1], kind)
				return err
			}
			_, err = s.Engine().Create(cmd.Context(), sel, kind)
			return err
		},
	}
	cmd.Flags().BoolVar(&asFile, "file", false, "always create a file")
	cmd.Flags().BoolVar(&asFolder, "folder", false, "always create a folder")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "open a new file in the editor")
	return cmd
}

func newRenameCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <path> [new-name]",
		Short: "Rename a file or folder",
		Long: `Rename a file or folder. The new name is relative to the entry's folder and
may contain slashes to move it into nested folders; a folder can only be
moved that way while it is empty.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			sel, err := s.selection(args[:1])
			if err != nil {
				return err
			}
			if sel.Item.IsRoot {
				return ops.ErrIsRoot
			}
			if len(args) == 2 {
				_, err = s.Engine().RenameTo(sel.Item, args[1])
				return err
			}
			_, err = s.Engine().Rename(cmd.Context(), sel)
			return err
		},
	}
}

func newDeleteCommand(g *globals) *cobra.Command {
	var permanent, toTrash bool

	cmd := &cobra.Command{
		Use:     "delete <path>...",
		Aliases: []string{"rm"},
		Short:   "Delete files and folders",
		Long: `Delete files and folders using the deleteBehavior setting: move them to the
recycle bin, delete them permanently, or ask each time.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if permanent && toTrash {
				return errors.New("--permanent and --trash are mutually exclusive")
			}
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if permanent || toTrash {
				cfg := s.Settings().Get()
				cfg.DeleteBehavior = config.DeleteRecycleBin
				if permanent {
					cfg.DeleteBehavior = config.DeletePermanent
				}
				s.Engine().SetOptions(ops.OptionsFrom(cfg, g.workspaceFolders()))
			}

			sel, err := s.selection(args)
			if err != nil {
				return err
			}
			res, err := s.Engine().Delete(cmd.Context(), sel)
			if err != nil {
				return err
			}
			return res.Err()
		},
	}
	cmd.Flags().BoolVar(&permanent, "permanent", false, "delete permanently regardless of settings")
	cmd.Flags().BoolVar(&toTrash, "trash", false, strings.ToLower(trash.VerbPhrase())+" regardless of settings")
	return cmd
}

func newClipCommand(g *globals, mode ops.Mode) *cobra.Command {
	verb := "Copy"
	if mode == ops.ModeCut {
		verb = "Cut"
	}
	return &cobra.Command{
		Use:   string(mode) + " <path>...",
		Short: verb + " entries to the sidetree clipboard for a later paste",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			sel, err := s.selection(args)
			if err != nil {
				return err
			}
			if mode == ops.ModeCut {
				s.Engine().Cut(sel)
			} else {
				s.Engine().Copy(sel)
			}
			return nil
		},
	}
}

func newPasteCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "paste [where]",
		Short: "Paste the clipboard into a folder (default: current directory)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			where := "."
			if len(args) == 1 {
				where = args[0]
			}
			sel, err := s.selection([]string{where})
			if err != nil {
				return err
			}
			res, err := s.Engine().Paste(cmd.Context(), sel)
			if err != nil {
				return err
			}
			return res.Err()
		},
	}
}

func absAll(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		abs, err := filepath.Abs(a)
		if err != nil {
			return nil, err
		}
		out = append(out, abs)
	}
	return out, nil
}

func newMoveCommand(g *globals) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:     "move <path>... --to <folder>",
		Aliases: []string{"mv"},
		Short:   "Move entries into a folder, as a drag and drop would",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			target, err := s.node(to)
			if err != nil {
				return err
			}
			paths, err := absAll(args)
			if err != nil {
				return err
			}
			res, err := s.Engine().Drop(cmd.Context(), target, ops.DragData{Paths: paths})
			if err != nil {
				return err
			}
			return res.Err()
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination folder")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newImportCommand(g *globals) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "import <path-or-file-uri>... --to <folder>",
		Short: "Copy outside files into a folder, as a drop from another application would",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			target, err := s.node(to)
			if err != nil {
				return err
			}
			uris := make([]string, 0, len(args))
			for _, a := range args {
				if strings.HasPrefix(a, "file:") {
					uris = append(uris, a)
					continue
				}
				abs, err := filepath.Abs(a)
				if err != nil {
					return err
				}
				uris = append(uris, ops.FileURI(abs))
			}
			res, err := s.Engine().Drop(cmd.Context(), target, ops.DragData{URIList: strings.Join(uris, "\r\n")})
			if err != nil {
				return err
			}
			return res.Err()
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination folder")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newToWorkspaceCommand(g *globals) *cobra.Command {
	var move bool

	cmd := &cobra.Command{
		Use:   "to-workspace <path>",
		Short: "Copy (or move) an entry into the workspace folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			sel, err := s.selection(args)
			if err != nil {
				return err
			}
			var dst string
			if move {
				dst, err = s.Engine().MoveToWorkspaceRoot(sel)
			} else {
				dst, err = s.Engine().CopyToWorkspaceRoot(sel)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dst)
			return nil
		},
	}
	cmd.Flags().BoolVar(&move, "move", false, "move instead of copy")
	return cmd
}

func newOpenCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>...",
		Short: "Open files in $VISUAL, $EDITOR or the default application",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			sel, err := s.selection(args)
			if err != nil {
				return err
			}
			return s.OpenFile(sel)
		},
	}
}

func newCopyPathCommand(g *globals) *cobra.Command {
	var relative bool

	cmd := &cobra.Command{
		Use:   "copy-path <path>",
		Short: "Put an entry's path on the system clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.node(args[0])
			if err != nil {
				return err
			}
			var p string
			if relative {
				p, err = s.CopyRelativePath(n)
			} else {
				p, err = s.CopyPath(n)
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return err
		},
	}
	cmd.Flags().BoolVarP(&relative, "relative", "r", false, "copy the path relative to its root")
	return cmd
}
