package store

import (
	"context"
	"log"
	"path/filepath"

	"github.com/justyntemme/sidetree/internal/fs"
	"github.com/justyntemme/sidetree/internal/ops"
	"github.com/justyntemme/sidetree/internal/tree"
)

// Restore loads persisted state into s. Clipboard entries whose files no
// longer exist are dropped.
func (d *DB) Restore(ctx context.Context, s *ops.Session) error {
	mode, items, err := d.LoadClipboard(ctx)
	if err != nil {
		return err
	}
	var nodes []*tree.Node
	for _, it := range items {
		if !fs.Exists(it.Path) {
			continue
		}
		kind := tree.KindFile
		if it.IsDir {
			kind = tree.KindFolder
		}
		nodes = append(nodes, &tree.Node{Path: it.Path, Name: filepath.Base(it.Path), Kind: kind, RootIndex: -1})
	}
	if len(nodes) > 0 {
		s.Clipboard.Set(ops.Mode(mode), nodes)
	}

	last, err := d.Setting(ctx, KeyLastOpened)
	if err != nil {
		return err
	}
	s.SetLastOpened(last)
	return nil
}

// Persist writes s back. Failures are logged; the session itself is never
// affected.
func (d *DB) Persist(ctx context.Context, s *ops.Session) {
	mode, nodes := s.Clipboard.Peek()
	items := make([]ClipItem, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, ClipItem{Path: n.Path, IsDir: n.IsDir()})
	}
	if err := d.SaveClipboard(ctx, string(mode), items); err != nil {
		log.Printf("Store Error saving clipboard: %v", err)
	}
	if err := d.SaveSetting(ctx, KeyLastOpened, s.LastOpened()); err != nil {
		log.Printf("Store Error saving setting: %v", err)
	}
}
