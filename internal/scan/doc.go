// Package scan discovers persistence-mapped classes on a classpath.
//
// A classpath is an ordered list of roots, each a directory of class files
// or a jar/zip/war archive. Every class whose name lies inside the package
// filter is tested against the four marker kinds (Entity, MappedSuperclass,
// Embeddable, Converter) through a MarkerProbe; classes carrying at least one
// marker are returned once, keyed by their dotted binary name.
//
// Unreadable roots and malformed class files are reported as diagnostics and
// skipped. Scan fails only when no root could be read at all.
package scan
