// Package config loads ghrefs settings from ghrefs.yaml, .env files and
// per-document frontmatter.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/ghrefs/internal/foundation/errors"
)

// DefaultFileName is the config file looked up when --config is not given.
const DefaultFileName = "ghrefs.yaml"

// Config represents the application configuration.
type Config struct {
	// Repository references are resolved against.
	Repository Repository `yaml:"repository"`
	// MentionStrong wraps mention labels in strong emphasis. Defaults to true.
	MentionStrong *bool `yaml:"mention_strong"`
	// Linkify turns bare URLs into links. Defaults to true.
	Linkify *bool `yaml:"linkify"`
	XHTML   bool  `yaml:"xhtml"`
}

// MentionStrongEnabled returns MentionStrong with its default applied.
func (c *Config) MentionStrongEnabled() bool {
	return c.MentionStrong == nil || *c.MentionStrong
}

// LinkifyEnabled returns Linkify with its default applied.
func (c *Config) LinkifyEnabled() bool {
	return c.Linkify == nil || *c.Linkify
}

// Overrides are the settings a document may change in its frontmatter.
type Overrides struct {
	Repository    Repository `yaml:"repository"`
	MentionStrong *bool      `yaml:"mention_strong"`
}

// Repository is a repository identifier. In YAML it is either a string or a
// mapping with a url key, the way package.json spells it.
type Repository string

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Repository) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*r = Repository(s)
		return nil
	case yaml.MappingNode:
		var m struct {
			URL string `yaml:"url"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		*r = Repository(m.URL)
		return nil
	}
	return errors.ValidationError("repository must be a string or a mapping with url").
		WithContext("line", node.Line).
		Build()
}

// Load loads configuration from the specified file. ${VAR} references are
// expanded from the environment before parsing; unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
			WithContext("path", path).
			UserAction().
			Build()
	}
	return &cfg, nil
}

// LoadOptional loads path when it exists. A missing file yields an empty
// Config and found == false.
func LoadOptional(path string) (cfg *Config, found bool, err error) {
	if _, err := os.Stat(path); stderrors.Is(err, fs.ErrNotExist) {
		return &Config{}, false, nil
	}
	cfg, err = Load(path)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}
