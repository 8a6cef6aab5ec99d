package scan

import "strings"

//go:generate go tool stringer -type=MarkerKind -output=marker_string.go

// MarkerKind is one of the recognized persistence marker annotations.
type MarkerKind int

const (
	_ MarkerKind = iota // zero value is not a marker

	Entity
	MappedSuperclass
	Embeddable
	Converter
)

// AllMarkers lists every marker kind in declaration order.
var AllMarkers = []MarkerKind{Entity, MappedSuperclass, Embeddable, Converter}

// annotationPackages are the namespaces a marker annotation may live in.
var annotationPackages = []string{"javax.persistence", "jakarta.persistence"}

// AnnotationNames returns the fully-qualified annotation type names that
// denote kind.
func (k MarkerKind) AnnotationNames() []string {
	names := make([]string, 0, len(annotationPackages))
	for _, pkg := range annotationPackages {
		names = append(names, pkg+"."+k.String())
	}

	return names
}

// Markers is a set of MarkerKind.
type Markers uint8

func markerBit(k MarkerKind) Markers {
	return 1 << (k - 1)
}

// With returns m with k added.
func (m Markers) With(k MarkerKind) Markers {
	return m | markerBit(k)
}

// Has reports whether k is in m.
func (m Markers) Has(k MarkerKind) bool {
	return m&markerBit(k) != 0
}

// Kinds returns the members of m in declaration order.
func (m Markers) Kinds() []MarkerKind {
	var kinds []MarkerKind

	for _, k := range AllMarkers {
		if m.Has(k) {
			kinds = append(kinds, k)
		}
	}

	return kinds
}

// Strings returns the member names in declaration order.
func (m Markers) Strings() []string {
	kinds := m.Kinds()

	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}

	return names
}

// String joins the member names with "|".
func (m Markers) String() string {
	return strings.Join(m.Strings(), "|")
}
