package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLabel is created and applied when `label: true`.
const DefaultLabel = "todo :spiral_notepad:"

const maxBlobLines = 100

// Config is the validated `todo` section of the repository config file
type Config struct {
	Keywords      StringList `yaml:"keyword"`
	BodyKeywords  StringList `yaml:"bodyKeyword"`
	BlobLines     int        `yaml:"blobLines"`
	CaseSensitive bool       `yaml:"caseSensitive"`
	Exclude       StringList `yaml:"exclude"`
	Label         Toggle     `yaml:"label"`
	AutoAssign    Toggle     `yaml:"autoAssign"`
	ReopenClosed  bool       `yaml:"reopenClosed"`
}

// DefaultConfig returns the configuration used when the repository has none
func DefaultConfig() *Config {
	return &Config{
		Keywords:     StringList{"@todo", "TODO"},
		BodyKeywords: StringList{"@body", "BODY"},
		BlobLines:    5,
		Label:        Toggle{Enabled: true},
		AutoAssign:   Toggle{Enabled: true},
		ReopenClosed: true,
	}
}

// Labels resolves the label policy into label names
func (c *Config) Labels() []string {
	if !c.Label.Enabled {
		return nil
	}
	if len(c.Label.Values) == 0 {
		return []string{DefaultLabel}
	}
	return append([]string(nil), c.Label.Values...)
}

// Assign resolves the auto-assign policy for a todo authored by username. It
// returns the assignees and the "cc" line rendered in artifact bodies.
func (c *Config) Assign(username string) ([]string, string) {
	if !c.AutoAssign.Enabled {
		return nil, ""
	}

	users := c.AutoAssign.Values
	if len(users) == 0 {
		if username == "" {
			return nil, ""
		}
		users = []string{username}
	}

	mentions := make([]string, len(users))
	for i, u := range users {
		mentions[i] = "@" + u
	}

	return append([]string(nil), users...), "cc " + strings.Join(mentions, ", ")
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if len(c.Keywords) == 0 {
		return &ConfigValidationError{Field: "keyword", Reason: "at least one keyword is required"}
	}
	for _, k := range c.Keywords {
		if strings.TrimSpace(k) == "" {
			return &ConfigValidationError{Field: "keyword", Reason: "keywords must not be blank"}
		}
	}
	for _, k := range c.BodyKeywords {
		if strings.TrimSpace(k) == "" {
			return &ConfigValidationError{Field: "bodyKeyword", Reason: "body keywords must not be blank"}
		}
	}
	if c.BlobLines < 0 || c.BlobLines > maxBlobLines {
		return &ConfigValidationError{Field: "blobLines", Reason: fmt.Sprintf("must be between 0 and %d", maxBlobLines)}
	}
	for _, l := range c.Label.Values {
		if strings.TrimSpace(l) == "" {
			return &ConfigValidationError{Field: "label", Reason: "labels must not be blank"}
		}
	}
	for _, u := range c.AutoAssign.Values {
		if strings.TrimSpace(u) == "" || strings.ContainsAny(u, " @") {
			return &ConfigValidationError{Field: "autoAssign", Reason: fmt.Sprintf("invalid username %q", u)}
		}
	}
	for _, p := range c.Exclude {
		if _, err := compileExclude(p); err != nil {
			return &ConfigValidationError{Field: "exclude", Reason: err.Error()}
		}
	}

	return nil
}

// ParseConfig decodes the `todo` section of a config file, applies defaults
// for missing keys and validates the result. Empty input yields the defaults.
func ParseConfig(data []byte) (*Config, error) {
	var file struct {
		Todo yaml.Node `yaml:"todo"`
	}

	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &ConfigValidationError{Field: "todo", Reason: err.Error()}
	}

	cfg := DefaultConfig()
	if file.Todo.Kind != 0 && file.Todo.Tag != "!!null" {
		raw, err := yaml.Marshal(&file.Todo)
		if err != nil {
			return nil, fmt.Errorf("failed to re-encode todo section: %w", err)
		}

		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, &ConfigValidationError{Field: "todo", Reason: err.Error()}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// StringList accepts either a single string or a sequence of strings
type StringList []string

func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
	}
}

// Toggle accepts a boolean, a single string or a sequence of strings. Any
// string form enables the toggle with explicit values.
type Toggle struct {
	Enabled bool
	Values  []string
}

func (t *Toggle) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!bool" {
		var b bool
		if err := value.Decode(&b); err != nil {
			return err
		}
		*t = Toggle{Enabled: b}
		return nil
	}

	var values StringList
	if err := values.UnmarshalYAML(value); err != nil {
		return err
	}

	*t = Toggle{Enabled: len(values) > 0, Values: values}
	return nil
}
