package scan

import "slices"

// ClassRef is the class metadata a MarkerProbe inspects.
// *classfile.ClassFile satisfies it.
type ClassRef interface {
	Name() string
	Annotations() []string
}

// MarkerProbe answers whether a class carries a marker annotation.
type MarkerProbe interface {
	HasMarker(ref ClassRef, kind MarkerKind) bool
}

// AnnotationProbe matches markers by annotation type name in both the javax
// and jakarta namespaces.
type AnnotationProbe struct{}

// HasMarker implements MarkerProbe.
func (AnnotationProbe) HasMarker(ref ClassRef, kind MarkerKind) bool {
	annotations := ref.Annotations()
	for _, name := range kind.AnnotationNames() {
		if slices.Contains(annotations, name) {
			return true
		}
	}

	return false
}

// markersOf probes every kind independently.
func markersOf(probe MarkerProbe, ref ClassRef) Markers {
	var m Markers

	for _, k := range AllMarkers {
		if probe.HasMarker(ref, k) {
			m = m.With(k)
		}
	}

	return m
}
