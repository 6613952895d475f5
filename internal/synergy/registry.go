// Package synergy holds the named card patterns used to detect deck synergies.
package synergy

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

//go:embed defaults.toml
var defaultsTOML []byte

type patternFile struct {
	Pattern []*models.SynergyPattern `toml:"pattern"`
}

// Defaults returns the built-in pattern set in declaration order.
func Defaults() ([]*models.SynergyPattern, error) {
	return Parse(defaultsTOML)
}

// Parse decodes a TOML pattern file and validates every entry.
func Parse(data []byte) ([]*models.SynergyPattern, error) {
	var f patternFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse synergy patterns: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Pattern))
	for i, p := range f.Pattern {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		key := strings.ToLower(p.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("pattern %d: duplicate name %q", i, p.Name)
		}
		seen[key] = struct{}{}
	}
	return f.Pattern, nil
}

func validate(p *models.SynergyPattern) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%s: unknown category %q", p.Name, p.Category)
	}
	if len(p.Keywords)+len(p.OraclePatterns)+len(p.TypePatterns) == 0 {
		return fmt.Errorf("%s: at least one rule is required", p.Name)
	}
	if p.Weight < 0 {
		return fmt.Errorf("%s: weight must not be negative", p.Name)
	}
	return nil
}

// PatternLister reads stored patterns.
type PatternLister interface {
	List(ctx context.Context) ([]*models.SynergyPattern, error)
}

// Registry is the read-only set of patterns the detector runs. It is loaded
// once and shared by concurrent analyses.
type Registry struct {
	patterns []*models.SynergyPattern
}

// NewRegistry builds a registry over patterns in the given order.
func NewRegistry(patterns []*models.SynergyPattern) *Registry {
	cp := make([]*models.SynergyPattern, len(patterns))
	copy(cp, patterns)
	return &Registry{patterns: cp}
}

// Load reads all stored patterns into a registry.
func Load(ctx context.Context, store PatternLister) (*Registry, error) {
	patterns, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load synergy patterns: %w", err)
	}
	return NewRegistry(patterns), nil
}

// All returns the patterns in registry order. Callers must not modify them.
func (r *Registry) All() []*models.SynergyPattern {
	if r == nil {
		return nil
	}
	out := make([]*models.SynergyPattern, len(r.patterns))
	copy(out, r.patterns)
	return out
}

// Len returns the number of patterns.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.patterns)
}
