package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/ufo-command/internal/ruleset"
)

// LoadRuleset returns the default ruleset with the overrides in path applied.
// An empty path yields the defaults.
func LoadRuleset(path string) (ruleset.Ruleset, error) {
	if path == "" {
		return ruleset.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ruleset.Ruleset{}, fmt.Errorf("read ruleset: %w", err)
	}
	r, err := ParseRuleset(data)
	if err != nil {
		return ruleset.Ruleset{}, fmt.Errorf("ruleset %s: %w", path, err)
	}
	return r, nil
}

// ParseRuleset overlays YAML onto the default ruleset. Unknown keys are
// rejected.
func ParseRuleset(data []byte) (ruleset.Ruleset, error) {
	r := ruleset.Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return ruleset.Ruleset{}, fmt.Errorf("decode ruleset: %w", err)
	}
	if err := r.Validate(); err != nil {
		return ruleset.Ruleset{}, err
	}
	return r, nil
}
