// SPDX-License-Identifier: MIT

// Package catalog holds the datasets the service can list and analyze.
package catalog

import (
	"errors"
	"fmt"
	"sync"

	"signallab/internal/dataset"
	"signallab/internal/synthetic"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("dataset not found")

// Catalog is an in-memory, insertion-ordered set of datasets. It is safe for
// concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*dataset.Dataset
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{byID: make(map[string]*dataset.Dataset)}
}

// NewSynthetic returns a catalog preloaded with the built-in synthetic
// datasets generated from seed.
func NewSynthetic(seed uint64) *Catalog {
	c := New()
	for _, ds := range synthetic.New(seed).Datasets() {
		c.Add(ds)
	}
	return c
}

// Add stores ds, replacing any dataset with the same id. Replaced datasets
// keep their position in the listing.
func (c *Catalog) Add(ds *dataset.Dataset) error {
	if ds == nil || ds.ID == "" {
		return fmt.Errorf("catalog: dataset must have an id")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[ds.ID]; !ok {
		c.order = append(c.order, ds.ID)
	}
	c.byID[ds.ID] = ds
	return nil
}

// Get returns the dataset with the given id, or ErrNotFound.
func (c *Catalog) Get(id string) (*dataset.Dataset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return ds, nil
}

// List returns summaries of every dataset in insertion order.
func (c *Catalog) List() []dataset.Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]dataset.Summary, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id].Summary())
	}
	return out
}

// Len returns the number of datasets.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
