package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	vars := map[string]string{
		"workspaceFolder": "/work/app",
		"userHome":        "/home/me",
		"empty":           "",
	}
	testCases := []struct {
		in       string
		expected string
		ok       bool
	}{
		{"${workspaceFolder}/src", "/work/app/src", true},
		{"${ userHome }/notes", "/home/me/notes", true},
		{"plain/path", "plain/path", true},
		{"${unknown}/x", "${unknown}/x", false},
		{"${empty}/x", "${empty}/x", false},
		{"${workspaceFolder}${userHome}", "/work/app/home/me", true},
	}
	for _, tc := range testCases {
		got, ok := Interpolate(tc.in, vars)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.expected, got, tc.in)
	}
}

func TestSplitOverride(t *testing.T) {
	template, name := splitOverride("${workspaceFolder: My Project}/src")
	assert.Equal(t, "${workspaceFolder}/src", template)
	assert.Equal(t, "My Project", name)

	template, name = splitOverride("${userHome}/x")
	assert.Equal(t, "${userHome}/x", template)
	assert.Empty(t, name)
}

func testEnv(t *testing.T) (Environment, string, string) {
	t.Helper()
	ws := t.TempDir()
	home := t.TempDir()
	for _, d := range []string{"src", "docs"} {
		require.NoError(t, os.MkdirAll(filepath.Join(ws, d), 0o755))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(home, "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ws, "README.md"), nil, 0o644))
	return Environment{WorkspaceFolders: []string{ws}, WorkspaceName: "app", UserHome: home}, ws, home
}

func TestResolve(t *testing.T) {
	env, ws, home := testEnv(t)
	show := false

	cfg := *DefaultConfig()
	cfg.ItemsSortOrderPattern = []string{"*.md"}
	cfg.Paths = []RootConfig{
		PathString("${workspaceFolder}/src"),
		PathString("docs"),
		PathString("${workspaceFolder: Readme}/README.md"),
		PathString("~/notes"),
		PathString("${userHome}/missing"),
		PathString("${nope}/x"),
		{BasePath: "${workspaceFolder}", Name: "${workspaceFolderName} root", Include: Patterns{"*.go"}, ShowEmptyDirectories: &show},
		{BasePath: "/definitely/not/here"},
		{BasePath: "${workspaceFolder}/src", Hidden: true},
	}

	roots := Resolve(cfg, env)
	require.Len(t, roots, 5)

	assert.Equal(t, 0, roots[0].ConfigIndex)
	assert.Equal(t, filepath.Join(ws, "src"), roots[0].BasePath)
	assert.Equal(t, "src", roots[0].Name)
	assert.Equal(t, []string{"**/*"}, roots[0].Include)
	assert.Equal(t, []string{"**/node_modules", "**/dist", "**/build", "**/out"}, roots[0].Exclude)
	assert.Equal(t, []string{"**/*.md"}, roots[0].SortOrderPattern)
	assert.True(t, roots[0].ShowEmptyDirectories)

	assert.Equal(t, 1, roots[1].ConfigIndex)
	assert.Equal(t, filepath.Join(ws, "docs"), roots[1].BasePath, "relative templates resolve against the workspace")

	assert.Equal(t, filepath.Join(ws, "README.md"), roots[2].BasePath)
	assert.Equal(t, "Readme", roots[2].Name)

	assert.Equal(t, filepath.Join(home, "notes"), roots[3].BasePath)

	assert.Equal(t, 6, roots[4].ConfigIndex)
	assert.Equal(t, ws, roots[4].BasePath)
	assert.Equal(t, "app root", roots[4].Name)
	assert.Equal(t, []string{"**/*.go"}, roots[4].Include)
	assert.False(t, roots[4].ShowEmptyDirectories)

	for _, r := range roots {
		assert.True(t, filepath.IsAbs(r.BasePath), r.BasePath)
	}
}

func TestResolveWithoutWorkspace(t *testing.T) {
	env, ws, _ := testEnv(t)
	env.WorkspaceFolders = nil

	cfg := *DefaultConfig()
	cfg.Paths = []RootConfig{
		PathString("docs"),
		PathString("${workspaceFolder}/src"),
		PathString(filepath.Join(ws, "src")),
	}

	roots := Resolve(cfg, env)
	require.Len(t, roots, 1)
	assert.Equal(t, filepath.Join(ws, "src"), roots[0].BasePath)
	assert.Equal(t, 2, roots[0].ConfigIndex)
}

func TestResolveEmptyFilterOverride(t *testing.T) {
	env, _, _ := testEnv(t)
	cfg := *DefaultConfig()
	cfg.Paths = []RootConfig{{BasePath: "${workspaceFolder}", Exclude: Patterns{}}}

	roots := Resolve(cfg, env)
	require.Len(t, roots, 1)
	assert.Empty(t, roots[0].Exclude, "an explicit empty list disables the default excludes")
}
