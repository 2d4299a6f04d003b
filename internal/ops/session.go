package ops

import (
	"sync"

	"github.com/justyntemme/sidetree/internal/tree"
)

// Mode tags what a paste does with the clipboard items.
type Mode string

const (
	ModeCut  Mode = "cut"
	ModeCopy Mode = "copy"
)

// Clipboard is the cut/copy buffer. A new cut or copy replaces whatever
// was there.
type Clipboard struct {
	mu    sync.Mutex
	mode  Mode
	items []*tree.Node
}

// Set replaces the clipboard contents.
func (c *Clipboard) Set(mode Mode, items []*tree.Node) {
	c.mu.Lock()
	c.mode = mode
	c.items = append([]*tree.Node(nil), items...)
	c.mu.Unlock()
}

// Take returns the contents and clears the clipboard.
func (c *Clipboard) Take() (Mode, []*tree.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mode, items := c.mode, c.items
	c.mode, c.items = "", nil
	return mode, items
}

// Peek returns the contents without clearing them.
func (c *Clipboard) Peek() (Mode, []*tree.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode, append([]*tree.Node(nil), c.items...)
}

// Empty reports whether there is nothing to paste.
func (c *Clipboard) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// Session is the mutable state shared by the command handlers.
type Session struct {
	Clipboard Clipboard

	mu         sync.Mutex
	lastOpened string
}

// LastOpened returns the file most recently opened through OpenFiles.
func (s *Session) LastOpened() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOpened
}

// SetLastOpened records the most recently opened file.
func (s *Session) SetLastOpened(path string) {
	s.mu.Lock()
	s.lastOpened = path
	s.mu.Unlock()
}

// Selection is what a command acts on: the item the command was invoked
// on, plus the current multi-selection.
type Selection struct {
	Item     *tree.Node
	Selected []*tree.Node
}

// Select builds a selection from explicit nodes.
func Select(nodes ...*tree.Node) Selection {
	if len(nodes) == 1 {
		return Selection{Item: nodes[0]}
	}
	return Selection{Selected: nodes}
}

// Target returns the invoked item, or the last selected one.
func (s Selection) Target() *tree.Node {
	if s.Item != nil {
		return s.Item
	}
	if len(s.Selected) > 0 {
		return s.Selected[len(s.Selected)-1]
	}
	return nil
}

// First returns the invoked item, or the first selected one.
func (s Selection) First() *tree.Node {
	if s.Item != nil {
		return s.Item
	}
	if len(s.Selected) > 0 {
		return s.Selected[0]
	}
	return nil
}

// Items returns the larger of the multi-selection and the invoked item.
func (s Selection) Items() []*tree.Node {
	if len(s.Selected) <= 1 && s.Item != nil {
		return []*tree.Node{s.Item}
	}
	return s.Selected
}
