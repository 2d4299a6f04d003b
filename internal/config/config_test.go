package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRootConfigJSON(t *testing.T) {
	raw := `{
		"paths": [
			"${workspaceFolder}/docs",
			{"basePath": "/tmp/notes", "name": "Notes", "include": "*.md", "exclude": ["drafts", "tmp"], "viewAsList": true}
		],
		"deleteBehavior": "permanent"
	}`

	cfg := DefaultConfig()
	require.NoError(t, json.Unmarshal([]byte(raw), cfg))
	require.Len(t, cfg.Paths, 2)

	assert.True(t, cfg.Paths[0].IsString())
	assert.Equal(t, "${workspaceFolder}/docs", cfg.Paths[0].Template())

	rec := cfg.Paths[1]
	assert.False(t, rec.IsString())
	assert.Equal(t, "/tmp/notes", rec.Template())
	assert.Equal(t, Patterns{"*.md"}, rec.Include)
	assert.Equal(t, Patterns{"drafts", "tmp"}, rec.Exclude)
	require.NotNil(t, rec.ViewAsList)
	assert.True(t, *rec.ViewAsList)
	assert.Nil(t, rec.ShowEmptyDirectories)

	assert.Equal(t, DeletePermanent, cfg.DeleteBehavior)
	assert.True(t, cfg.ShowEmptyDirectories, "unset fields keep their defaults")

	out, err := json.Marshal(cfg.Paths)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"${workspaceFolder}/docs"`)
	assert.Contains(t, string(out), `"basePath":"/tmp/notes"`)
}

func TestRootConfigYAML(t *testing.T) {
	raw := `
paths:
  - ~/projects
  - basePath: /srv/data
    include: "*.csv"
    hidden: true
`
	cfg := DefaultConfig()
	require.NoError(t, yaml.Unmarshal([]byte(raw), cfg))
	require.Len(t, cfg.Paths, 2)
	assert.Equal(t, "~/projects", cfg.Paths[0].Template())
	assert.True(t, cfg.Paths[0].IsString())
	assert.Equal(t, Patterns{"*.csv"}, cfg.Paths[1].Include)
	assert.True(t, cfg.Paths[1].Hidden)
}

func TestPatternsRejectsObjects(t *testing.T) {
	var p Patterns
	assert.Error(t, json.Unmarshal([]byte(`{"a": 1}`), &p))
}

func newTestManager(t *testing.T, name string) *Manager {
	t.Helper()
	m := NewManager(filepath.Join(t.TempDir(), name))
	require.NoError(t, m.Load())
	return m
}

func TestManagerLoadCreatesDefaults(t *testing.T) {
	m := newTestManager(t, "config.json")
	assert.FileExists(t, m.Path())
	cfg := m.Get()
	assert.Equal(t, DeleteRecycleBin, cfg.DeleteBehavior)
	assert.Empty(t, cfg.Paths)
	assert.NoError(t, m.ParseError())
}

func TestManagerParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	m := NewManager(path)
	require.NoError(t, m.Load())
	assert.Error(t, m.ParseError())
	assert.Equal(t, DeleteRecycleBin, m.Get().DeleteBehavior)

	err := m.AddPaths("/tmp")
	assert.Error(t, err, "edits must not clobber an unreadable file")
	data, _ := os.ReadFile(path)
	assert.Equal(t, "{not json", string(data))
}

func TestManagerRootEdits(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			m := newTestManager(t, name)

			var got []Config
			unsubscribe := m.Subscribe(func(c Config) { got = append(got, c) })

			require.NoError(t, m.AddPaths("/a", "/b", "/a"))
			require.NoError(t, m.AddPaths("/b", "/c"))
			assert.Equal(t, []string{"/a", "/b", "/c"}, templates(m.Get().Paths))

			require.NoError(t, m.RemovePath(1))
			assert.Equal(t, []string{"/a", "/c"}, templates(m.Get().Paths))
			assert.Error(t, m.RemovePath(5))

			show := false
			require.NoError(t, m.HidePath(0, RootConfig{Name: "alpha", ShowEmptyDirectories: &show}))
			hidden := m.Get().Paths[0]
			assert.True(t, hidden.Hidden)
			assert.False(t, hidden.IsString())
			assert.Equal(t, "/a", hidden.BasePath)
			assert.Equal(t, "alpha", hidden.Name)
			require.NotNil(t, hidden.ShowEmptyDirectories)
			assert.False(t, *hidden.ShowEmptyDirectories)

			changed, err := m.UnhidePath("alpha")
			require.NoError(t, err)
			assert.True(t, changed)
			assert.False(t, m.Get().Paths[0].Hidden)

			require.NoError(t, m.ToggleViewAsList(1))
			require.NotNil(t, m.Get().Paths[1].ViewAsList)
			assert.True(t, *m.Get().Paths[1].ViewAsList)
			require.NoError(t, m.ToggleViewAsList(-1))
			assert.True(t, m.Get().ViewAsList)

			require.NoError(t, m.ToggleShowEmptyDirectories(-1))
			assert.False(t, m.Get().ShowEmptyDirectories)

			// a second manager on the same file sees every edit
			other := NewManager(m.Path())
			require.NoError(t, other.Load())
			assert.Equal(t, templates(m.Get().Paths), templates(other.Get().Paths))
			assert.True(t, other.Get().ViewAsList)

			unsubscribe()
			require.NoError(t, m.SetDeleteBehavior(DeleteAlwaysAsk))
			assert.Len(t, got, 8)
			assert.Equal(t, DeleteAlwaysAsk, m.Get().DeleteBehavior)
		})
	}
}

func TestManagerRejectsUnknownSettings(t *testing.T) {
	m := newTestManager(t, "config.json")
	assert.Error(t, m.SetDeleteBehavior("shred"))
	assert.Error(t, m.SetRootPathSortOrder("random"))
	require.NoError(t, m.SetRootPathSortOrder(RootSortFoldersFirst))
	assert.Equal(t, RootSortFoldersFirst, m.Get().RootPathSortOrder)
}

func TestManagerGetIsACopy(t *testing.T) {
	m := newTestManager(t, "config.json")
	require.NoError(t, m.AddPaths("/a"))

	cfg := m.Get()
	cfg.Paths[0] = PathString("/mutated")
	assert.Equal(t, "/a", m.Get().Paths[0].Template())
}

func TestManagerConcurrentEdits(t *testing.T) {
	m := newTestManager(t, "config.json")
	other := NewManager(m.Path())
	require.NoError(t, other.Load())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, m.AddPaths(filepath.Join("/m", string(rune('a'+i)))))
		}(i)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, other.AddPaths(filepath.Join("/o", string(rune('a'+i)))))
		}(i)
	}
	wg.Wait()

	require.NoError(t, m.Load())
	assert.Len(t, m.Get().Paths, 20)
}

func TestGenerateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	backup, err := GenerateConfig(path)
	require.NoError(t, err)
	assert.Empty(t, backup)
	assert.FileExists(t, path)

	backup, err = GenerateConfig(path)
	require.NoError(t, err)
	assert.FileExists(t, backup)
}

func TestConfigDebounce(t *testing.T) {
	cfg := *DefaultConfig()
	assert.Equal(t, "200ms", cfg.Debounce().String())
	cfg.WatchDebounce = "1s"
	assert.Equal(t, "1s", cfg.Debounce().String())
	cfg.WatchDebounce = "soon"
	assert.Equal(t, "200ms", cfg.Debounce().String())
}

func templates(paths []RootConfig) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, p.Template())
	}
	return out
}
