package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/justyntemme/sidetree/internal/config"
	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/tree"
)

// Confirmation buttons offered when the delete behavior is "alwaysAsk".
const (
	ButtonRecycle   = "Delete (Move to Recycle Bin)"
	ButtonPermanent = "Delete Permanently"
)

// Delete removes the selected entries. Configured roots are skipped. Under
// "alwaysAsk" the user picks between the recycle bin and a permanent delete;
// the other behaviors act without asking. Items are processed in order and a
// failing item never stops the rest.
func (e *Engine) Delete(ctx context.Context, sel Selection) (res BatchResult, err error) {
	defer guard("delete", &err)

	var items []*tree.Node
	for _, n := range sel.Items() {
		if n.IsRoot {
			debug.Log(debug.OPS, "Delete: skipping root %s", n.Path)
			continue
		}
		items = append(items, n)
	}
	if len(items) == 0 {
		if len(sel.Items()) > 0 {
			e.host.Notifier.Warn("Configured roots cannot be deleted. Remove them from the list instead.")
			return res, ErrIsRoot
		}
		return res, ErrNoTarget
	}

	behavior := e.options().DeleteBehavior
	permanent := behavior == config.DeletePermanent
	if behavior == config.DeleteAlwaysAsk {
		noun := "item"
		if len(items) > 1 {
			noun = "items"
		}
		names := make([]string, len(items))
		for i, n := range items {
			names[i] = n.Name
		}
		choice, ok := e.host.Prompter.Confirm(ctx,
			fmt.Sprintf("Delete the following %s?\n%s", noun, strings.Join(names, "\n")),
			ButtonRecycle, ButtonPermanent)
		if !ok || (choice != ButtonRecycle && choice != ButtonPermanent) {
			return res, ErrCancelled
		}
		permanent = choice == ButtonPermanent
	}

	title := "Deleting"
	if permanent {
		title = "Deleting Permanently"
	}
	res = e.batch(ctx, title, "deleted", len(items) > 1 || hasFolder(items), items, func(n *tree.Node) error {
		if permanent {
			return e.remover.Remove(n.Path)
		}
		return e.remover.Trash(n.Path)
	})
	debug.Log(debug.OPS, "Delete: %d/%d done, %d failed", res.Done, res.Total, res.Failed)

	e.refresh(parents(items)...)
	e.summarize(res, "Delete")
	return res, nil
}
