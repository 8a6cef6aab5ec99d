package scan

import (
	"entity-weaver/internal/common"
	"entity-weaver/internal/diagnostic"
)

// DiscoveredClass is a class found to carry at least one marker.
type DiscoveredClass struct {
	Name    string
	Markers Markers
	// Root is the classpath root the class was first found in.
	Root string
}

// ClassSet is the set of discovered classes keyed by dotted name.
type ClassSet map[string]DiscoveredClass

// NewClassSet builds a set from names with no marker information.
func NewClassSet(names ...string) ClassSet {
	s := make(ClassSet, len(names))
	for _, n := range names {
		s[n] = DiscoveredClass{Name: n}
	}

	return s
}

// Add inserts c, merging its markers into an existing entry of the same name.
func (s ClassSet) Add(c DiscoveredClass) {
	if existing, ok := s[c.Name]; ok {
		existing.Markers |= c.Markers
		s[c.Name] = existing

		return
	}

	s[c.Name] = c
}

// Names returns the class names in lexicographic order.
func (s ClassSet) Names() []string {
	return common.SortedKeys(s)
}

// Sorted returns the classes ordered by name.
func (s ClassSet) Sorted() []DiscoveredClass {
	out := make([]DiscoveredClass, 0, len(s))
	for _, n := range s.Names() {
		out = append(out, s[n])
	}

	return out
}

// Result is the outcome of a scan.
type Result struct {
	Classes ClassSet
	// Roots lists the roots that could be read, in the order given.
	Roots []string
	// RootsScanned counts the roots that could be read.
	RootsScanned int
	// ClassesRead counts class files parsed inside the filter.
	ClassesRead int
	Diagnostics diagnostic.Diagnostics
}
