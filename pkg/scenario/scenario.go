package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a scenario file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Scenario is a scripted sequence of stack operations.
type Scenario struct {
	Name    string   `yaml:"name" toml:"name" json:"name"`
	Policy  string   `yaml:"policy,omitempty" toml:"policy,omitempty" json:"policy,omitempty"`
	Initial StateRef `yaml:"initial" toml:"initial" json:"initial"`
	Steps   []Step   `yaml:"steps" toml:"steps" json:"steps"`
}

// StateRef names a registered factory and the params to build it with.
type StateRef struct {
	State  string         `yaml:"state" toml:"state" json:"state"`
	Params map[string]any `yaml:"params,omitempty" toml:"params,omitempty" json:"params,omitempty"`
}

// Label returns the params "name" when present, else the factory name.
func (r StateRef) Label() string {
	if n, ok := r.Params["name"].(string); ok && n != "" {
		return n
	}
	return r.State
}

// Step is one scripted action. Exactly one of Push, Pop or Expect must be set.
type Step struct {
	Push   *StateRef `yaml:"push,omitempty" toml:"push,omitempty" json:"push,omitempty"`
	Pop    bool      `yaml:"pop,omitempty" toml:"pop,omitempty" json:"pop,omitempty"`
	Expect *Expect   `yaml:"expect,omitempty" toml:"expect,omitempty" json:"expect,omitempty"`
}

// Kind returns "push", "pop", "expect", or "" for an empty step.
func (s Step) Kind() string {
	switch {
	case s.Push != nil:
		return "push"
	case s.Pop:
		return "pop"
	case s.Expect != nil:
		return "expect"
	default:
		return ""
	}
}

func (s Step) actions() int {
	n := 0
	if s.Push != nil {
		n++
	}
	if s.Pop {
		n++
	}
	if s.Expect != nil {
		n++
	}
	return n
}

// Expect checks the stack after the previous step.
type Expect struct {
	// Current is the expected label of the top state.
	Current string `yaml:"current,omitempty" toml:"current,omitempty" json:"current,omitempty"`
	// Empty expects no current state.
	Empty bool `yaml:"empty,omitempty" toml:"empty,omitempty" json:"empty,omitempty"`
	// Depth is the expected number of states, when set.
	Depth *int `yaml:"depth,omitempty" toml:"depth,omitempty" json:"depth,omitempty"`
	// Error is the expected rejection reason of the previous step (e.g. "empty_stack").
	Error string `yaml:"error,omitempty" toml:"error,omitempty" json:"error,omitempty"`
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported scenario extension %q", filepath.Ext(path))
	}
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Parse decodes a scenario in the given format.
func Parse(data []byte, format Format) (*Scenario, error) {
	var sc Scenario
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&sc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml scenario: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &sc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse toml scenario: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse toml scenario: unknown key %q", undecoded[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sc); err != nil {
			return nil, fmt.Errorf("failed to parse json scenario: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported scenario format %q", format)
	}
	return &sc, nil
}
