// Package bank maps SMS sender addresses to canonical bank identities.
package bank

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed directory.yaml
var embeddedDirectory []byte

// Identity is a resolved bank code/name pair.
type Identity struct {
	Code string
	Name string
}

type entry struct {
	Key  string `yaml:"key"`
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type directoryFile struct {
	Banks []entry `yaml:"banks"`
}

// knownCarrierPrefixes are route prefixes stripped verbatim before lookup.
// Anything else shaped like a generic two-letter-dash prefix is stripped
// as a fallback.
var knownCarrierPrefixes = []string{"VM-", "AD-", "AX-", "BZ-", "JD-", "VK-", "BW-"}

var genericPrefix = regexp.MustCompile(`^[A-Z]{2}-`)

// Resolver maps cleaned sender keys to bank identities. Two directories
// compose: the immutable built-in list and runtime-registered custom
// entries. Custom entries are consulted first at every stage. Safe for
// concurrent use.
type Resolver struct {
	mu      sync.RWMutex
	builtin []entry
	custom  []entry
}

// NewResolver loads the embedded built-in directory.
func NewResolver() (*Resolver, error) {
	var f directoryFile
	if err := yaml.Unmarshal(embeddedDirectory, &f); err != nil {
		return nil, fmt.Errorf("failed to parse embedded bank directory (possible binary corruption): %w", err)
	}
	for i, e := range f.Banks {
		if e.Key == "" || e.Code == "" || e.Name == "" {
			return nil, fmt.Errorf("bank directory entry %d: key, code, and name are required", i)
		}
	}
	return &Resolver{builtin: f.Banks}, nil
}

// Normalize uppercases a sender address and strips one carrier prefix:
// a known prefix if present, else any generic two-letter-dash prefix.
func Normalize(senderAddress string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(senderAddress))
	for _, p := range knownCarrierPrefixes {
		if strings.HasPrefix(cleaned, p) {
			return cleaned[len(p):]
		}
	}
	return genericPrefix.ReplaceAllString(cleaned, "")
}

// Resolve maps a sender address to a bank identity. Lookup order: custom
// exact, built-in exact, custom substring, built-in substring. Substring
// matching runs in either direction (directory key contains the cleaned
// sender, or the cleaned sender contains the key), iterating entries in
// insertion order and returning the first hit. Returns ok=false when no
// stage matches.
func (r *Resolver) Resolve(senderAddress string) (Identity, bool) {
	key := Normalize(senderAddress)
	if key == "" {
		return Identity{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, dir := range [][]entry{r.custom, r.builtin} {
		for _, e := range dir {
			if e.Key == key {
				return Identity{Code: e.Code, Name: e.Name}, true
			}
		}
	}
	for _, dir := range [][]entry{r.custom, r.builtin} {
		for _, e := range dir {
			if strings.Contains(e.Key, key) || strings.Contains(key, e.Key) {
				return Identity{Code: e.Code, Name: e.Name}, true
			}
		}
	}
	return Identity{}, false
}

// RegisterCustom adds a runtime entry under the normalized sender key,
// overwriting any existing custom entry for the same key. There is no
// removal operation.
func (r *Resolver) RegisterCustom(senderKey, code, name string) error {
	key := Normalize(senderKey)
	if key == "" {
		return fmt.Errorf("sender key cannot be empty")
	}
	if code == "" || name == "" {
		return fmt.Errorf("code and name are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.custom {
		if e.Key == key {
			r.custom[i] = entry{Key: key, Code: code, Name: name}
			return nil
		}
	}
	r.custom = append(r.custom, entry{Key: key, Code: code, Name: name})
	return nil
}
