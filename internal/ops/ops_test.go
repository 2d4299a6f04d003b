package ops

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/sidetree/internal/config"
	"github.com/justyntemme/sidetree/internal/fs"
	"github.com/justyntemme/sidetree/internal/glob"
	"github.com/justyntemme/sidetree/internal/tree"
)

type openCall struct {
	path    string
	preview bool
}

// fakeHost records every interaction with the host UI.
type fakeHost struct {
	inputs   []string
	invalid  []error
	choice   string
	confirms []string

	infos, warns, errs []string

	titles      []string
	reports     []string
	done        int
	cancelAfter int
	cancel      context.CancelFunc

	opened   []openCall
	active   string
	revealed []string
}

func (h *fakeHost) Input(ctx context.Context, req InputRequest) (string, bool) {
	if len(h.inputs) == 0 {
		return "", false
	}
	v := h.inputs[0]
	h.inputs = h.inputs[1:]
	if req.Validate != nil {
		h.invalid = append(h.invalid, req.Validate(v))
	}
	return v, true
}

func (h *fakeHost) Confirm(ctx context.Context, message string, buttons ...string) (string, bool) {
	h.confirms = append(h.confirms, message)
	return h.choice, h.choice != ""
}

func (h *fakeHost) Info(msg string)  { h.infos = append(h.infos, msg) }
func (h *fakeHost) Warn(msg string)  { h.warns = append(h.warns, msg) }
func (h *fakeHost) Error(msg string) { h.errs = append(h.errs, msg) }

func (h *fakeHost) Start(ctx context.Context, title string) (context.Context, Reporter) {
	h.titles = append(h.titles, title)
	ctx, h.cancel = context.WithCancel(ctx)
	return ctx, h
}

func (h *fakeHost) Report(increment float64, message string) {
	h.reports = append(h.reports, message)
	if h.cancelAfter > 0 && len(h.reports) == h.cancelAfter {
		h.cancel()
	}
}

func (h *fakeHost) Done() {
	h.done++
	if h.cancel != nil {
		h.cancel()
	}
}

func (h *fakeHost) Open(path string, preview bool) error {
	h.opened = append(h.opened, openCall{path, preview})
	return nil
}

func (h *fakeHost) Active() string { return h.active }

func (h *fakeHost) host() Host {
	return Host{
		Prompter: h,
		Notifier: h,
		Progress: h,
		Editor:   h,
		Reveal:   func(n *tree.Node) { h.revealed = append(h.revealed, n.Path) },
	}
}

// fakeRemover deletes for real but fails on chosen paths.
type fakeRemover struct {
	fail    map[string]bool
	trashed []string
	removed []string
}

func (r *fakeRemover) Trash(path string) error {
	if r.fail[path] {
		return errors.New("trash refused")
	}
	r.trashed = append(r.trashed, path)
	return fs.Remove(path)
}

func (r *fakeRemover) Remove(path string) error {
	if r.fail[path] {
		return errors.New("permission denied")
	}
	r.removed = append(r.removed, path)
	return fs.Remove(path)
}

type fixture struct {
	dir       string
	view      *tree.Materializer
	host      *fakeHost
	remover   *fakeRemover
	engine    *Engine
	refreshes int
}

func newFixture(t *testing.T, opts Options, files ...string) *fixture {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		p := filepath.Join(dir, f)
		if filepath.Ext(f) == "" {
			require.NoError(t, os.MkdirAll(p, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("data"), 0o644))
	}

	root := config.Root{BasePath: dir, Name: filepath.Base(dir), Include: glob.Normalize([]string{"*"}), ShowEmptyDirectories: true}
	f := &fixture{
		dir:     dir,
		view:    tree.NewMaterializer([]config.Root{root}, tree.Options{CacheListings: true}),
		host:    &fakeHost{},
		remover: &fakeRemover{fail: map[string]bool{}},
	}
	f.view.OnChange(func(*tree.Node) { f.refreshes++ })
	f.engine = NewEngine(f.view, f.host.host(), nil, f.remover, opts)
	return f
}

func (f *fixture) path(rel string) string {
	return filepath.Join(f.dir, filepath.FromSlash(rel))
}

func (f *fixture) node(t *testing.T, rel string) *tree.Node {
	t.Helper()
	n, _ := f.view.NodeFor(f.path(rel))
	require.NotNil(t, n, rel)
	return n
}

func listing(t *testing.T, dir string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, p)
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(out)
	return out
}

func TestCreateDeleteRoundTrip(t *testing.T) {
	f := newFixture(t, Options{DeleteBehavior: config.DeletePermanent}, "keep.txt", "src")
	before := listing(t, f.dir)

	f.host.inputs = []string{"todo.md"}
	created, err := f.engine.Create(context.Background(), Selection{}, EntryAuto)
	require.NoError(t, err)
	assert.Equal(t, f.path("todo.md"), created)
	assert.FileExists(t, created)
	assert.Equal(t, 1, f.refreshes)
	assert.Equal(t, []openCall{{created, false}}, f.host.opened)
	assert.Equal(t, []string{created}, f.host.revealed)

	res, err := f.engine.Delete(context.Background(), Select(f.node(t, "todo.md")))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Done)
	assert.Equal(t, 2, f.refreshes)
	assert.Equal(t, before, listing(t, f.dir))
	assert.Empty(t, f.host.titles, "a single file delete shows no progress")
}

func names(nodes []*tree.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestCachedListingFollowsMutations(t *testing.T) {
	f := newFixture(t, Options{DeleteBehavior: config.DeletePermanent}, "a.txt", "sub")
	var seen [][]string
	f.view.OnChange(func(*tree.Node) { seen = append(seen, names(f.view.RootNodes())) })
	require.Equal(t, []string{"sub", "a.txt"}, names(f.view.RootNodes()))
	sub := f.node(t, "sub")
	require.Empty(t, f.view.Children(sub))

	_, err := f.engine.CreateNamed(f.dir, "b.txt", EntryFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub", "a.txt", "b.txt"}, seen[len(seen)-1])

	_, err = f.engine.RenameTo(f.node(t, "b.txt"), "c.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"sub", "a.txt", "c.txt"}, seen[len(seen)-1])

	f.engine.Cut(Select(f.node(t, "c.txt")))
	_, err = f.engine.Paste(context.Background(), Select(sub))
	require.NoError(t, err)
	assert.Equal(t, []string{"sub", "a.txt"}, seen[len(seen)-1])
	assert.Equal(t, []string{"c.txt"}, names(f.view.Children(sub)))

	_, err = f.engine.Drop(context.Background(), f.node(t, "sub"), DragData{Paths: []string{f.path("a.txt")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"sub"}, seen[len(seen)-1])
	assert.Equal(t, []string{"a.txt", "c.txt"}, names(f.view.Children(sub)))

	_, err = f.engine.Delete(context.Background(), Select(f.node(t, "sub/a.txt")))
	require.NoError(t, err)
	assert.Equal(t, []string{"c.txt"}, names(f.view.Children(sub)))
	assert.Equal(t, 5, len(seen))
}

func TestCreateClassifiesLeaf(t *testing.T) {
	testCases := []struct {
		name   string
		kind   EntryKind
		isFile bool
	}{
		{"docs", EntryAuto, false},
		{"a.txt", EntryAuto, true},
		{".env", EntryAuto, true},
		{"nested/deeper/readme.md", EntryAuto, true},
		{"nested/leaf", EntryAuto, false},
		{"Makefile", EntryFile, true},
		{"assets.d", EntryFolder, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			created, err := f.engine.CreateNamed(f.dir, tc.name, tc.kind)
			require.NoError(t, err)
			info, err := os.Stat(created)
			require.NoError(t, err)
			assert.Equal(t, !tc.isFile, info.IsDir())
			assert.Equal(t, tc.isFile, len(f.host.opened) == 1)
		})
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t, Options{CheckIllegalCharacters: true}, "taken.txt", "sub/inner.txt")
	sub := f.node(t, "sub/inner.txt")

	testCases := []struct {
		name     string
		expected error
	}{
		{"  ", ErrNameRequired},
		{"/etc/passwd", ErrAbsolutePath},
		{`\share\x`, ErrAbsolutePath},
		{"../escape.txt", ErrAbsolutePath},
		{"inner.txt", ErrExists},
		{"bad:name.txt", ErrIllegalName},
		{"ok/what?.md", ErrIllegalName},
	}
	for _, tc := range testCases {
		_, err := f.engine.CreateNamed(dirOf(sub), tc.name, EntryAuto)
		assert.ErrorIs(t, err, tc.expected, tc.name)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, tc.name)
	}
	assert.Equal(t, 0, f.refreshes)
	assert.Len(t, f.host.warns, len(testCases))
	assert.Equal(t, "Target already exists", f.host.warns[4])

	// the prompt sees the same validation
	f.host.inputs = []string{"inner.txt"}
	_, err := f.engine.Create(context.Background(), Select(sub), EntryFile)
	assert.ErrorIs(t, err, ErrExists)
	require.Len(t, f.host.invalid, 1)
	assert.ErrorIs(t, f.host.invalid[0], ErrExists)
}

func TestCreateDismissed(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.engine.Create(context.Background(), Selection{}, EntryFile)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 0, f.refreshes)
}

func TestCreateNeedsTargetWithManyRoots(t *testing.T) {
	f := newFixture(t, Options{})
	other := config.Root{BasePath: t.TempDir(), Name: "other"}
	f.view.SetRoots(append(f.view.Roots(), other), tree.Options{})
	f.refreshes = 0

	_, err := f.engine.Create(context.Background(), Selection{}, EntryFile)
	assert.ErrorIs(t, err, ErrNoTarget)
	assert.Len(t, f.host.warns, 1)
}

func TestRenameFile(t *testing.T) {
	f := newFixture(t, Options{}, "a.txt", "b.txt")
	n := f.node(t, "a.txt")
	f.host.active = n.Path

	newPath, err := f.engine.RenameTo(n, "docs/c.txt")
	require.NoError(t, err)
	assert.Equal(t, f.path("docs/c.txt"), newPath)
	assert.FileExists(t, newPath)
	assert.NoFileExists(t, n.Path)
	assert.Equal(t, []openCall{{newPath, false}}, f.host.opened, "the active editor follows the file")
	assert.Equal(t, 1, f.refreshes)
}

func TestRenameRejects(t *testing.T) {
	f := newFixture(t, Options{}, "a.txt", "b.txt", "full/x.txt")

	_, err := f.engine.RenameTo(f.node(t, "a.txt"), "a.txt")
	assert.ErrorIs(t, err, ErrUnchanged)

	_, err = f.engine.RenameTo(f.node(t, "a.txt"), "b.txt")
	assert.ErrorIs(t, err, ErrExists)

	_, err = f.engine.RenameTo(f.node(t, "a.txt"), "")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = f.engine.RenameTo(f.node(t, "full"), "deep/full")
	assert.ErrorIs(t, err, ErrNestedNotEmpty)
	assert.FileExists(t, f.path("full/x.txt"))
	assert.Contains(t, f.host.warns[len(f.host.warns)-1], "not empty")

	assert.Equal(t, 0, f.refreshes)
}

func TestRenameFolder(t *testing.T) {
	f := newFixture(t, Options{}, "full/x.txt", "empty")

	p, err := f.engine.RenameTo(f.node(t, "full"), "renamed")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(p, "x.txt"))

	p, err = f.engine.RenameTo(f.node(t, "empty"), "one/two/empty")
	require.NoError(t, err)
	assert.DirExists(t, p)
	assert.NoDirExists(t, f.path("empty"))
	assert.Equal(t, 2, f.refreshes)
}

func TestRenameCaseOnly(t *testing.T) {
	f := newFixture(t, Options{}, "Readme.md")
	p, err := f.engine.RenameTo(f.node(t, "Readme.md"), "README.md")
	require.NoError(t, err)
	assert.Equal(t, []string{".", "README.md"}, listing(t, f.dir))
	assert.Equal(t, f.path("README.md"), p)
}

func TestRenameCaseOnlyCollision(t *testing.T) {
	f := newFixture(t, Options{}, "File.txt")
	require.NoError(t, os.WriteFile(f.path("file.txt"), []byte("precious"), 0o644))
	if fs.SameFile(f.path("File.txt"), f.path("file.txt")) {
		t.Skip("case-insensitive filesystem")
	}

	_, err := f.engine.RenameTo(f.node(t, "File.txt"), "file.txt")
	assert.ErrorIs(t, err, ErrExists)
	got, err := os.ReadFile(f.path("file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "precious", string(got))
	assert.Equal(t, []string{".", "File.txt", "file.txt"}, listing(t, f.dir))
	assert.Zero(t, f.refreshes)
}

func TestRenamePrompt(t *testing.T) {
	f := newFixture(t, Options{}, "a.txt")
	f.host.inputs = []string{"z.txt"}
	p, err := f.engine.Rename(context.Background(), Select(f.node(t, "a.txt")))
	require.NoError(t, err)
	assert.FileExists(t, p)
	assert.NoError(t, f.host.invalid[0])
}

func TestDeleteBatchPartialFailure(t *testing.T) {
	f := newFixture(t, Options{DeleteBehavior: config.DeleteRecycleBin}, "1.txt", "2.txt", "3.txt")
	f.remover.fail[f.path("2.txt")] = true

	sel := Selection{Selected: []*tree.Node{f.node(t, "1.txt"), f.node(t, "2.txt"), f.node(t, "3.txt")}}
	res, err := f.engine.Delete(context.Background(), sel)
	require.NoError(t, err)

	assert.Equal(t, BatchResult{Total: 3, Done: 2, Failed: 1, Errors: res.Errors}, res)
	assert.Error(t, res.Err())
	assert.NoFileExists(t, f.path("1.txt"))
	assert.FileExists(t, f.path("2.txt"))
	assert.NoFileExists(t, f.path("3.txt"))
	assert.Equal(t, []string{f.path("1.txt"), f.path("3.txt")}, f.remover.trashed)

	assert.Equal(t, []string{"Failed to delete 1 item(s)."}, f.host.errs)
	assert.Equal(t, []string{"Deleting"}, f.host.titles)
	assert.Equal(t, []string{"1/3 deleted", "2/3 deleted", "3/3 deleted"}, f.host.reports)
	assert.Equal(t, 1, f.host.done)
	assert.Equal(t, 1, f.refreshes)
	assert.Empty(t, f.host.confirms, "recycleBin deletes without asking")
}

func TestDeleteAlwaysAsk(t *testing.T) {
	f := newFixture(t, Options{DeleteBehavior: config.DeleteAlwaysAsk}, "a.txt", "b.txt", "c.txt")

	_, err := f.engine.Delete(context.Background(), Select(f.node(t, "a.txt")))
	assert.ErrorIs(t, err, ErrCancelled)
	assert.FileExists(t, f.path("a.txt"))
	assert.Equal(t, 0, f.refreshes)

	f.host.choice = ButtonPermanent
	_, err = f.engine.Delete(context.Background(), Select(f.node(t, "a.txt")))
	require.NoError(t, err)
	assert.Equal(t, []string{f.path("a.txt")}, f.remover.removed)

	f.host.choice = ButtonRecycle
	_, err = f.engine.Delete(context.Background(), Select(f.node(t, "b.txt"), f.node(t, "c.txt")))
	require.NoError(t, err)
	assert.Equal(t, []string{f.path("b.txt"), f.path("c.txt")}, f.remover.trashed)
	assert.Contains(t, f.host.confirms[2], "following items?\nb.txt\nc.txt")
	assert.Equal(t, 2, f.refreshes)
}

func TestDeleteCancelled(t *testing.T) {
	f := newFixture(t, Options{DeleteBehavior: config.DeletePermanent}, "1.txt", "2.txt", "3.txt")
	f.host.cancelAfter = 1

	res, err := f.engine.Delete(context.Background(), Select(f.node(t, "1.txt"), f.node(t, "2.txt"), f.node(t, "3.txt")))
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Equal(t, 1, res.Done)
	assert.NoFileExists(t, f.path("1.txt"))
	assert.FileExists(t, f.path("2.txt"))
	assert.FileExists(t, f.path("3.txt"))
	assert.Equal(t, []string{"Delete operation cancelled."}, f.host.infos)
	assert.Empty(t, f.host.errs)
	assert.Equal(t, 1, f.refreshes, "a cancelled batch still refreshes")
}

func TestDeleteSkipsRoots(t *testing.T) {
	f := newFixture(t, Options{DeleteBehavior: config.DeletePermanent})
	root := tree.RootNode(f.view.Roots()[0], 0, tree.KindFolder)

	_, err := f.engine.Delete(context.Background(), Select(root))
	assert.ErrorIs(t, err, ErrIsRoot)
	assert.DirExists(t, f.dir)
	assert.Equal(t, 0, f.refreshes)
}

func TestDeleteFolderShowsProgress(t *testing.T) {
	f := newFixture(t, Options{DeleteBehavior: config.DeletePermanent}, "dir/x.txt")
	_, err := f.engine.Delete(context.Background(), Select(f.node(t, "dir")))
	require.NoError(t, err)
	assert.Equal(t, []string{"Deleting Permanently"}, f.host.titles)
	assert.NoDirExists(t, f.path("dir"))
}

func TestPasteCopyCollisions(t *testing.T) {
	f := newFixture(t, Options{}, "a.txt", "dest")
	src := f.node(t, "a.txt")

	f.engine.Copy(Select(src))
	_, err := f.engine.Paste(context.Background(), Select(src))
	require.NoError(t, err)
	assert.FileExists(t, f.path("a_1.txt"))
	assert.True(t, f.engine.Session().Clipboard.Empty(), "paste consumes the clipboard")

	res, err := f.engine.Paste(context.Background(), Select(src))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Contains(t, f.host.infos, "Clipboard is empty")

	f.engine.Copy(Select(src))
	_, err = f.engine.Paste(context.Background(), Select(src))
	require.NoError(t, err)
	assert.FileExists(t, f.path("a_2.txt"))
	assert.FileExists(t, f.path("a.txt"))
	assert.Equal(t, 2, f.refreshes)
}

func TestPasteCut(t *testing.T) {
	f := newFixture(t, Options{}, "a.txt", "folder/inner/x.txt", "dest/a.txt")

	f.engine.Cut(Select(f.node(t, "a.txt"), f.node(t, "folder")))
	res, err := f.engine.Paste(context.Background(), Select(f.node(t, "dest")))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Done)
	assert.FileExists(t, f.path("dest/a_1.txt"))
	assert.FileExists(t, f.path("dest/folder/inner/x.txt"))
	assert.NoFileExists(t, f.path("a.txt"))
	assert.Equal(t, []string{"Pasting"}, f.host.titles)
	assert.Equal(t, []string{"1/2 processed", "2/2 processed"}, f.host.reports)
}

func TestPasteCutIntoItself(t *testing.T) {
	f := newFixture(t, Options{}, "folder/inner/x.txt")
	f.engine.Cut(Select(f.node(t, "folder")))

	res, err := f.engine.Paste(context.Background(), Select(f.node(t, "folder/inner")))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.ErrorIs(t, res.Errors[0], ErrIntoItself)
	assert.FileExists(t, f.path("folder/inner/x.txt"))
	assert.Equal(t, []string{"Failed to paste 1 item(s)."}, f.host.errs)
}

func TestDropSelfMoveIsNoop(t *testing.T) {
	f := newFixture(t, Options{}, "X/child/y.txt", "X/z.txt")
	before := listing(t, f.dir)
	x := f.node(t, "X")
	drag := f.engine.Drag([]*tree.Node{x})

	for _, target := range []*tree.Node{x, f.node(t, "X/child"), f.node(t, "X/z.txt")} {
		res, err := f.engine.Drop(context.Background(), target, drag)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Total)
	}
	assert.Equal(t, before, listing(t, f.dir))
	assert.Empty(t, f.host.errs)
	assert.Empty(t, f.host.warns)
	assert.Equal(t, 0, f.refreshes)
}

func TestDropMoves(t *testing.T) {
	f := newFixture(t, Options{}, "a.txt", "b.txt", "dest/c.txt", "dest/a.txt")
	drag := f.engine.Drag([]*tree.Node{f.node(t, "a.txt"), f.node(t, "b.txt"), f.node(t, "dest/c.txt")})

	res, err := f.engine.Drop(context.Background(), f.node(t, "dest/c.txt"), drag)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total, "an item already in the target is skipped")
	assert.Equal(t, 2, res.Done)
	assert.FileExists(t, f.path("dest/a_1.txt"))
	assert.FileExists(t, f.path("dest/b.txt"))
	assert.Equal(t, []string{"Moving files..."}, f.host.titles)
	assert.Equal(t, 1, f.refreshes)
}

func TestDropMixedCountsSelfMoveAsFailure(t *testing.T) {
	f := newFixture(t, Options{}, "X/child", "a.txt")
	drag := f.engine.Drag([]*tree.Node{f.node(t, "X"), f.node(t, "a.txt")})

	res, err := f.engine.Drop(context.Background(), f.node(t, "X/child"), drag)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Done)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.ErrorIs(t, res.Errors[0], ErrIntoItself)
	assert.FileExists(t, f.path("X/child/a.txt"))
	assert.DirExists(t, f.path("X"))
	assert.Equal(t, []string{"Failed to move 1 item(s)."}, f.host.errs)
}

func TestDropExternalURIs(t *testing.T) {
	f := newFixture(t, Options{}, "dest")
	outside := t.TempDir()
	src := filepath.Join(outside, "photo.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0o644))

	res, err := f.engine.Drop(context.Background(), f.node(t, "dest"), DragData{URIList: "# comment\r\n" + FileURI(src) + "\r\nhttps://example.com/x\r\n"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Done)
	assert.FileExists(t, f.path("dest/photo.png"))
	assert.FileExists(t, src, "external drops are copied")
}

func TestDragData(t *testing.T) {
	f := newFixture(t, Options{}, "with space.txt", "dir")
	nodes := []*tree.Node{f.node(t, "with space.txt"), f.node(t, "dir")}
	d := f.engine.Drag(nodes)
	assert.Equal(t, []string{nodes[0].Path, nodes[1].Path}, d.Paths)
	assert.Contains(t, d.URIList, "with%20space.txt")
	assert.Equal(t, d.Paths, ParseURIList(d.URIList))
}

func TestWorkspaceRoot(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(ws, "a.txt"), nil, 0o644))
	f := newFixture(t, Options{WorkspaceFolders: []string{ws}}, "a.txt", "b.txt")

	dst, err := f.engine.CopyToWorkspaceRoot(Select(f.node(t, "a.txt")))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ws, "a_1.txt"), dst)
	assert.FileExists(t, f.path("a.txt"))

	dst, err = f.engine.MoveToWorkspaceRoot(Select(f.node(t, "b.txt")))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ws, "b.txt"), dst)
	assert.NoFileExists(t, f.path("b.txt"))
	assert.Equal(t, 2, f.refreshes)

	f.engine.SetOptions(Options{})
	_, err = f.engine.CopyToWorkspaceRoot(Select(f.node(t, "a.txt")))
	assert.ErrorIs(t, err, ErrNoWorkspace)
	_, err = f.engine.CopyToWorkspaceRoot(Selection{})
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestOpenFiles(t *testing.T) {
	f := newFixture(t, Options{}, "a.txt", "b.txt", "dir")
	a, b := f.node(t, "a.txt"), f.node(t, "b.txt")

	f.engine.OpenFiles(Select(a))
	f.engine.OpenFiles(Select(a))
	f.engine.OpenFiles(Select(f.node(t, "dir")))
	f.engine.OpenFiles(Selection{Selected: []*tree.Node{a, b, f.node(t, "dir")}})

	assert.Equal(t, []openCall{
		{a.Path, true},
		{a.Path, false},
		{a.Path, false},
		{b.Path, false},
	}, f.host.opened)
	assert.Equal(t, b.Path, f.engine.Session().LastOpened())
}

func TestPathsForClipboard(t *testing.T) {
	root := &tree.Node{Path: "/work/proj", Name: "proj", Kind: tree.KindFolder, IsRoot: true, RootPath: "/work/proj"}
	file := &tree.Node{Path: "/work/proj/src/main.go", Name: "main.go", RootPath: "/work/proj"}

	assert.Equal(t, "proj", RelativePath(root))
	assert.Equal(t, "proj/src/main.go", RelativePath(file))
	assert.Equal(t, "/work/proj/src/main.go", AbsolutePath(file))
}
