// Package repository holds the in-memory item catalog index built from a
// mapping snapshot and shared read-only thereafter.
package repository

import (
	"strings"

	"github.com/okian/runelens/internal/domain/model"
)

// Catalog indexes item metadata by id and supports substring name search.
// It is built once per invocation (O(n)) and never mutated afterwards, so
// it is safe for concurrent readers without locking.
type Catalog struct {
	items []model.ItemMeta
	byID  map[int]model.ItemMeta
}

// NewCatalog builds the index from a full item listing. Input order is
// preserved for name searches. A duplicate id keeps the first entry.
func NewCatalog(items []model.ItemMeta) *Catalog {
	c := &Catalog{
		items: make([]model.ItemMeta, 0, len(items)),
		byID:  make(map[int]model.ItemMeta, len(items)),
	}
	for _, meta := range items {
		if _, exists := c.byID[meta.ID]; exists {
			continue
		}
		c.byID[meta.ID] = meta
		c.items = append(c.items, meta)
	}
	return c
}

// ByID returns the metadata for an item id.
func (c *Catalog) ByID(id int) (model.ItemMeta, bool) {
	meta, ok := c.byID[id]
	return meta, ok
}

// SearchByName returns all items whose name contains the query,
// case-insensitively, in insertion order. No ranking at this scale.
func (c *Catalog) SearchByName(query string) []model.ItemMeta {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []model.ItemMeta
	for _, meta := range c.items {
		if strings.Contains(strings.ToLower(meta.Name), q) {
			out = append(out, meta)
		}
	}
	return out
}

// Count returns the number of indexed items.
func (c *Catalog) Count() int {
	return len(c.items)
}
