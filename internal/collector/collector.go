// Package collector discovers candidate injection targets from the
// current symbol universe. Discovery is pure: no classification and no
// validation happens here.
package collector

import "github.com/xiedantibu/dagger/internal/symbols"

// Collector scans the universe for members carrying injection markers
type Collector struct{}

// NewCollector creates a new target collector
func NewCollector() *Collector {
	return &Collector{}
}

// Collect returns the fully-qualified name of every type that encloses a
// marked member, deduplicated, in order of first discovery
func (c *Collector) Collect(universe symbols.Universe) []string {
	seen := make(map[string]bool)
	var names []string
	for _, marked := range universe.Marked() {
		if seen[marked.Enclosing] {
			continue
		}
		seen[marked.Enclosing] = true
		names = append(names, marked.Enclosing)
	}
	return names
}
