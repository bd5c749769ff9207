// Package goals holds the per-representative quota table used for the goal line and progress bar.
package goals

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultFallback is the quota given to representatives missing from the table.
const DefaultFallback = 150

// Table is an immutable representative → quota mapping. Lookups are exact string matches.
type Table struct {
	quotas   map[string]float64
	fallback float64
}

// NewTable copies quotas into a new Table. fallback must be positive.
func NewTable(quotas map[string]float64, fallback float64) (*Table, error) {
	if !(fallback > 0) || math.IsInf(fallback, 0) {
		return nil, fmt.Errorf("fallback goal must be a positive number, got %v", fallback)
	}
	t := &Table{quotas: make(map[string]float64, len(quotas)), fallback: fallback}
	for name, quota := range quotas {
		if !(quota > 0) || math.IsInf(quota, 0) {
			return nil, fmt.Errorf("goal for %q must be a positive number, got %v", name, quota)
		}
		t.quotas[name] = quota
	}
	return t, nil
}

// DefaultTable returns the built-in May quote goals.
func DefaultTable() *Table {
	t, _ := NewTable(map[string]float64{
		"Adrian Alviar":   100,
		"Annie Dwyer":     140,
		"Blaine Munro":    90,
		"Edwin Campos":    130,
		"Gavin Hayes":     80,
		"Heather Scherer": 160,
		"Jeff Stanek":     95,
		"Karin Castner":   85,
		"Kelly Hasman":    180,
		"Logan Arnwine":   100,
		"Mandy Shults":    90,
		"Mariah Guadian":  110,
		"Paige Hansel":    100,
	}, DefaultFallback)
	return t
}

// Lookup returns the representative's quota, or the fallback when absent.
func (t *Table) Lookup(representative string) float64 {
	if quota, ok := t.quotas[representative]; ok {
		return quota
	}
	return t.fallback
}

// Has reports whether the representative has an explicit quota.
func (t *Table) Has(representative string) bool {
	_, ok := t.quotas[representative]
	return ok
}

func (t *Table) Fallback() float64 { return t.fallback }

// Names returns the representatives with explicit quotas, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.quotas))
	for name := range t.quotas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fileFormat is the YAML layout accepted by LoadFile:
//
//	fallback: 150
//	goals:
//	  Adrian Alviar: 100
type fileFormat struct {
	Fallback float64            `yaml:"fallback"`
	Goals    map[string]float64 `yaml:"goals"`
}

// Parse reads a goal table from YAML. The file's own fallback wins; without one the
// table uses fallback.
func Parse(data []byte, fallback float64) (*Table, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing goal table: %w", err)
	}
	if f.Fallback == 0 {
		f.Fallback = fallback
	}
	return NewTable(f.Goals, f.Fallback)
}

// LoadFile reads a goal table from a YAML file. See Parse for the fallback rule.
func LoadFile(path string, fallback float64) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading goal table %s: %w", path, err)
	}
	return Parse(data, fallback)
}
