package rules

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var embeddedSeed []byte

// SeedRule is one entry of the default rule set shipped with the binary.
// Categories are referenced by display name here; the storage layer
// resolves names to category IDs when it applies the seed.
type SeedRule struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
	Priority int    `yaml:"priority"`
}

type seedFile struct {
	Rules []SeedRule `yaml:"rules"`
}

// ParseSeed loads and validates a YAML rule set.
func ParseSeed(data []byte) ([]SeedRule, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML rules (check syntax, indentation, and field names): %w", err)
	}

	for i, r := range f.Rules {
		if strings.TrimSpace(r.Keyword) == "" {
			return nil, fmt.Errorf("rule %d: keyword cannot be empty", i)
		}
		if strings.TrimSpace(r.Category) == "" {
			return nil, fmt.Errorf("rule %d (%s): category cannot be empty", i, r.Keyword)
		}
		if r.Priority < 0 || r.Priority > 999 {
			return nil, fmt.Errorf("rule %d (%s): priority must be in [0,999], got %d", i, r.Keyword, r.Priority)
		}
	}

	return f.Rules, nil
}

// LoadSeed parses the embedded default rule set.
func LoadSeed() ([]SeedRule, error) {
	seed, err := ParseSeed(embeddedSeed)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded rules (possible binary corruption): %w", err)
	}
	return seed, nil
}

// LoadSeedFromFile parses a rule set from a filesystem path, for users who
// override the defaults.
func LoadSeedFromFile(path string) ([]SeedRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	seed, err := ParseSeed(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules from %q: %w", path, err)
	}
	return seed, nil
}
