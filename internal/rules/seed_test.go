package rules

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestParseSeed_Valid(t *testing.T) {
	rulesYAML := `
rules:
  - keyword: "swiggy"
    category: "Food & Dining"
    priority: 100
  - keyword: "amazon"
    category: "Shopping"
    priority: 50
`
	seed, err := ParseSeed([]byte(rulesYAML))
	if err != nil {
		t.Fatalf("ParseSeed() error = %v", err)
	}

	if len(seed) != 2 {
		t.Fatalf("ParseSeed() rules count = %d, want 2", len(seed))
	}
	if seed[0].Keyword != "swiggy" {
		t.Errorf("seed[0].Keyword = %s, want swiggy", seed[0].Keyword)
	}
	if seed[0].Category != "Food & Dining" {
		t.Errorf("seed[0].Category = %s, want Food & Dining", seed[0].Category)
	}
	if seed[0].Priority != 100 {
		t.Errorf("seed[0].Priority = %d, want 100", seed[0].Priority)
	}
}

func TestParseSeed_EmptyKeyword(t *testing.T) {
	rulesYAML := `
rules:
  - keyword: ""
    category: "Shopping"
    priority: 50
`
	if _, err := ParseSeed([]byte(rulesYAML)); err == nil {
		t.Error("ParseSeed() expected error for empty keyword")
	}
}

func TestParseSeed_InvalidPriority(t *testing.T) {
	tests := []struct {
		name     string
		priority int
	}{
		{"negative priority", -1},
		{"priority too high", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rulesYAML := `
rules:
  - keyword: "swiggy"
    category: "Food & Dining"
    priority: ` + strconv.Itoa(tt.priority) + `
`
			if _, err := ParseSeed([]byte(rulesYAML)); err == nil {
				t.Errorf("ParseSeed() expected error for priority %d", tt.priority)
			}
		})
	}
}

func TestParseSeed_MalformedYAML(t *testing.T) {
	if _, err := ParseSeed([]byte("rules: [not closed")); err == nil {
		t.Error("ParseSeed() expected error for malformed YAML")
	}
}

func TestLoadSeed_Embedded(t *testing.T) {
	seed, err := LoadSeed()
	if err != nil {
		t.Fatalf("LoadSeed() error = %v", err)
	}
	if len(seed) == 0 {
		t.Fatal("LoadSeed() returned no rules")
	}

	for _, r := range seed {
		if r.Keyword == "" || r.Category == "" {
			t.Errorf("embedded rule %+v has empty fields", r)
		}
	}
}

func TestLoadSeedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
rules:
  - keyword: "chaayos"
    category: "Food & Dining"
    priority: 120
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	seed, err := LoadSeedFromFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFromFile() error = %v", err)
	}
	if len(seed) != 1 || seed[0].Keyword != "chaayos" {
		t.Errorf("LoadSeedFromFile() = %+v, want one chaayos rule", seed)
	}
}

func TestLoadSeedFromFile_Missing(t *testing.T) {
	if _, err := LoadSeedFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadSeedFromFile() expected error for missing file")
	}
}
