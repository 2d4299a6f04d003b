package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Patterns is a glob list that may be written in settings either as a single
// string or as a list. A nil Patterns means "not specified".
type Patterns []string

func (p *Patterns) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*p = Patterns{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("pattern must be a string or a list of strings: %w", err)
	}
	if many == nil {
		many = []string{}
	}
	*p = many
	return nil
}

func (p *Patterns) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*p = Patterns{node.Value}
		return nil
	}
	var many []string
	if err := node.Decode(&many); err != nil {
		return fmt.Errorf("pattern must be a string or a list of strings: %w", err)
	}
	if many == nil {
		many = []string{}
	}
	*p = many
	return nil
}

// RootConfig is one entry of the "paths" setting. An entry is either a bare
// path string (Raw is set) or a structured record.
type RootConfig struct {
	Raw string `json:"-" yaml:"-"`

	BasePath             string   `json:"basePath" yaml:"basePath"`
	Name                 string   `json:"name,omitempty" yaml:"name,omitempty"`
	Include              Patterns `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude              Patterns `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Hidden               bool     `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	ShowEmptyDirectories *bool    `json:"showEmptyDirectories,omitempty" yaml:"showEmptyDirectories,omitempty"`
	ViewAsList           *bool    `json:"viewAsList,omitempty" yaml:"viewAsList,omitempty"`
	SortOrderPattern     Patterns `json:"sortOrderPattern,omitempty" yaml:"sortOrderPattern,omitempty"`
	Description          string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tooltip              string   `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
}

// rootRecord has RootConfig's fields without its methods, so the structured
// form can be decoded without recursing into the custom unmarshalers.
type rootRecord RootConfig

// PathString builds the bare-string form of an entry.
func PathString(p string) RootConfig {
	return RootConfig{Raw: p}
}

// IsString reports whether the entry was declared as a bare path string.
func (r RootConfig) IsString() bool {
	return r.Raw != "" && r.BasePath == ""
}

// Template returns the unresolved path template of the entry.
func (r RootConfig) Template() string {
	if r.IsString() {
		return r.Raw
	}
	return r.BasePath
}

// Structured converts a bare-string entry into a record so per-root options
// can be attached to it.
func (r RootConfig) Structured() RootConfig {
	if r.IsString() {
		return RootConfig{BasePath: r.Raw}
	}
	return r
}

func (r *RootConfig) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RootConfig{Raw: s}
		return nil
	}
	var rec rootRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("path entry must be a string or an object: %w", err)
	}
	*r = RootConfig(rec)
	return nil
}

func (r RootConfig) MarshalJSON() ([]byte, error) {
	if r.IsString() {
		return json.Marshal(r.Raw)
	}
	return json.Marshal(rootRecord(r))
}

func (r *RootConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*r = RootConfig{Raw: node.Value}
		return nil
	}
	var rec rootRecord
	if err := node.Decode(&rec); err != nil {
		return fmt.Errorf("path entry must be a string or a mapping: %w", err)
	}
	*r = RootConfig(rec)
	return nil
}

func (r RootConfig) MarshalYAML() (interface{}, error) {
	if r.IsString() {
		return r.Raw, nil
	}
	return rootRecord(r), nil
}

func (r RootConfig) clone() RootConfig {
	c := r
	c.Include = clonePatterns(r.Include)
	c.Exclude = clonePatterns(r.Exclude)
	c.SortOrderPattern = clonePatterns(r.SortOrderPattern)
	if r.ShowEmptyDirectories != nil {
		v := *r.ShowEmptyDirectories
		c.ShowEmptyDirectories = &v
	}
	if r.ViewAsList != nil {
		v := *r.ViewAsList
		c.ViewAsList = &v
	}
	return c
}

func clonePatterns(p Patterns) Patterns {
	if p == nil {
		return nil
	}
	return append(Patterns{}, p...)
}
