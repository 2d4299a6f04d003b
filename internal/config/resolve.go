package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/glob"
)

// Defaults applied when a root does not declare its own filters.
var (
	DefaultInclude = []string{"*"}
	DefaultExclude = []string{"node_modules", "dist", "build", "out"}
)

// Environment carries the host values that path placeholders expand to.
type Environment struct {
	WorkspaceFolders []string
	WorkspaceName    string
	UserHome         string
}

// EnvironmentFromOS builds an Environment for the given workspace folders.
// The workspace name defaults to the first folder's basename.
func EnvironmentFromOS(workspaceFolders ...string) Environment {
	home, _ := os.UserHomeDir()
	env := Environment{UserHome: home}
	for _, f := range workspaceFolders {
		if f == "" {
			continue
		}
		if abs, err := filepath.Abs(f); err == nil {
			f = abs
		}
		env.WorkspaceFolders = append(env.WorkspaceFolders, f)
	}
	if len(env.WorkspaceFolders) > 0 {
		env.WorkspaceName = filepath.Base(env.WorkspaceFolders[0])
	}
	return env
}

// WorkspaceFolder returns the first workspace folder, or "" without a workspace.
func (e Environment) WorkspaceFolder() string {
	if len(e.WorkspaceFolders) == 0 {
		return ""
	}
	return e.WorkspaceFolders[0]
}

func (e Environment) variables() map[string]string {
	ws := e.WorkspaceFolder()
	base := ""
	if ws != "" {
		base = filepath.Base(ws)
	}
	return map[string]string{
		"workspaceFolder":         filepath.ToSlash(ws),
		"workspaceFolderName":     e.WorkspaceName,
		"workspaceFolderBasename": base,
		"userHome":                filepath.ToSlash(e.UserHome),
	}
}

var (
	placeholderRe = regexp.MustCompile(`\$\{\s*([A-Za-z]+)\s*\}`)
	// ${variable: literal name} followed by an optional path suffix
	overrideRe = regexp.MustCompile(`\$\{([^:}]+):\s*([^}]*)\}(\S*)`)
)

// Interpolate substitutes ${name} placeholders from vars. Only whitelisted
// names are substituted; an unknown or empty placeholder makes the template
// unresolvable and ok is false.
func Interpolate(template string, vars map[string]string) (result string, ok bool) {
	ok = true
	result = placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		v, known := vars[name]
		if !known || v == "" {
			ok = false
			return m
		}
		return v
	})
	return result, ok
}

// splitOverride extracts the "${variable: Display Name}/suffix" form. It
// returns the path template with the override removed and the display name.
func splitOverride(input string) (template, name string) {
	m := overrideRe.FindStringSubmatch(input)
	if m == nil {
		return input, ""
	}
	template = strings.Replace(input, m[0], "${"+strings.TrimSpace(m[1])+"}"+m[3], 1)
	return template, strings.TrimSpace(m[2])
}

// Root is a resolved, existing root ready for the tree.
type Root struct {
	// ConfigIndex is the entry's position in the stored paths setting.
	ConfigIndex int

	BasePath             string
	Name                 string
	Include              []string
	Exclude              []string
	SortOrderPattern     []string
	ShowEmptyDirectories bool
	ViewAsList           bool
	Description          string
	Tooltip              string
}

// Resolve turns the raw paths setting into the active root list. Entries
// that are hidden, cannot be expanded, are not absolute or do not exist are
// dropped silently.
func Resolve(cfg Config, env Environment) []Root {
	vars := env.variables()
	var roots []Root

	for i, rc := range cfg.Paths {
		if rc.Hidden {
			debug.Log(debug.CONFIG, "Resolve: entry %d is hidden", i)
			continue
		}
		basePath, name, ok := resolvePath(rc.Template(), vars, env)
		if !ok {
			debug.Log(debug.CONFIG, "Resolve: dropping entry %d (%q): unresolvable", i, rc.Template())
			continue
		}
		if _, err := os.Stat(basePath); err != nil {
			debug.Log(debug.CONFIG, "Resolve: dropping entry %d: %v", i, err)
			continue
		}

		if rc.Name != "" {
			if n, ok := Interpolate(rc.Name, vars); ok {
				name = n
			} else {
				name = rc.Name
			}
		}
		if name == "" {
			name = filepath.Base(basePath)
		}

		root := Root{
			ConfigIndex:          i,
			BasePath:             basePath,
			Name:                 name,
			Include:              glob.Normalize(orDefault(rc.Include, DefaultInclude)),
			Exclude:              glob.Normalize(orDefault(rc.Exclude, DefaultExclude)),
			SortOrderPattern:     glob.Normalize(orDefault(rc.SortOrderPattern, cfg.ItemsSortOrderPattern)),
			ShowEmptyDirectories: boolOr(rc.ShowEmptyDirectories, cfg.ShowEmptyDirectories),
			ViewAsList:           boolOr(rc.ViewAsList, cfg.ViewAsList),
			Description:          rc.Description,
			Tooltip:              rc.Tooltip,
		}
		debug.Log(debug.CONFIG, "Resolve: entry %d -> %q (%s)", i, root.BasePath, root.Name)
		roots = append(roots, root)
	}
	return roots
}

func resolvePath(raw string, vars map[string]string, env Environment) (string, string, bool) {
	if strings.TrimSpace(raw) == "" {
		raw = "${workspaceFolder}"
	}
	template, name := splitOverride(raw)
	template = strings.ReplaceAll(strings.TrimSpace(template), `\`, "/")

	expanded, ok := Interpolate(template, vars)
	if !ok {
		return "", "", false
	}
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		if env.UserHome == "" {
			return "", "", false
		}
		expanded = filepath.ToSlash(env.UserHome) + strings.TrimPrefix(expanded, "~")
	}

	p := filepath.FromSlash(expanded)
	if !filepath.IsAbs(p) {
		ws := env.WorkspaceFolder()
		if ws == "" {
			return "", "", false
		}
		p = filepath.Join(ws, p)
	}
	return filepath.Clean(p), name, true
}

func orDefault(p Patterns, def []string) []string {
	if p == nil {
		return def
	}
	return p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
