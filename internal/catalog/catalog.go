// Package catalog is the path catalog: a static mapping from logical asset
// groups (core script, locales, plugins, icons, stylesheets) to file-set
// selectors. It holds data only; selectors are resolved against the live
// filesystem each time a task runs.
package catalog

import (
	"fmt"
	"sort"
)

// Catalog maps selector names to selectors. It is built once at start-up and
// never mutated afterwards.
type Catalog struct {
	selectors map[string]*Selector
	order     []string
}

// New builds a catalog from the given selectors, rejecting duplicate names.
func New(selectors ...*Selector) (*Catalog, error) {
	c := &Catalog{selectors: make(map[string]*Selector, len(selectors))}
	for _, s := range selectors {
		if _, dup := c.selectors[s.Name]; dup {
			return nil, fmt.Errorf("duplicate selector %q", s.Name)
		}
		c.selectors[s.Name] = s
		c.order = append(c.order, s.Name)
	}
	return c, nil
}

// Lookup returns the selector registered under name.
func (c *Catalog) Lookup(name string) (*Selector, bool) {
	s, ok := c.selectors[name]
	return s, ok
}

// Selectors maps selector names to selectors, failing on the first
// unknown name.
func (c *Catalog) Selectors(names ...string) ([]*Selector, error) {
	out := make([]*Selector, 0, len(names))
	for _, n := range names {
		s, ok := c.selectors[n]
		if !ok {
			return nil, fmt.Errorf("unknown selector %q (known: %v)", n, c.Names())
		}
		out = append(out, s)
	}
	return out, nil
}

// Names returns the selector names in sorted order.
func (c *Catalog) Names() []string {
	out := append([]string(nil), c.order...)
	sort.Strings(out)
	return out
}
