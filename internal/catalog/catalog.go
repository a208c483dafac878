// Package catalog loads the admin-curated tip catalog.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"BudgetSentinel/internal/model"
)

// Catalog is a read-only list of tip definitions.
type Catalog struct {
	entries []model.TipCatalogEntry
}

type file struct {
	Tips []model.TipCatalogEntry `yaml:"tips"`
}

// Load reads the catalog from a YAML file with a top-level "tips" list.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(f.Tips)
}

// New validates entries and wraps them in a Catalog. Order is preserved,
// since it breaks score ties during selection.
func New(entries []model.TipCatalogEntry) (*Catalog, error) {
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.TipID == "" {
			return nil, fmt.Errorf("tip %d: tip_id is required", i)
		}
		if seen[e.TipID] {
			return nil, fmt.Errorf("tip %s: duplicate tip_id", e.TipID)
		}
		seen[e.TipID] = true
		switch e.Type {
		case model.TipQuickWin, model.TipContract, model.TipCategoryHeavy, model.TipAnnualVisibility, model.TipScenario:
		default:
			return nil, fmt.Errorf("tip %s: unknown type %q", e.TipID, e.Type)
		}
		if e.CooldownDays < 0 {
			return nil, fmt.Errorf("tip %s: cooldown_days must not be negative", e.TipID)
		}
	}
	c := &Catalog{entries: make([]model.TipCatalogEntry, len(entries))}
	copy(c.entries, entries)
	return c, nil
}

// All returns a copy of every entry.
func (c *Catalog) All() []model.TipCatalogEntry {
	out := make([]model.TipCatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Active returns a copy of the active entries in catalog order.
func (c *Catalog) Active() []model.TipCatalogEntry {
	var out []model.TipCatalogEntry
	for _, e := range c.entries {
		if e.Active {
			out = append(out, e)
		}
	}
	return out
}
