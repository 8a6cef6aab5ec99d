// Package descriptor reads, creates and writes the persistence descriptor
// (META-INF/persistence.xml).
//
// A Descriptor wraps the parsed XML tree so that everything the tool does not
// manage (providers, properties, comments, other units) survives a
// load/save cycle. The managed part is the set of <class> entries: they are
// treated as a set, written once each and in lexicographic order.
//
// The on-disk structure is:
//
//	<?xml version="1.0" encoding="UTF-8"?>
//	<persistence xmlns="http://xmlns.jcp.org/xml/ns/persistence" version="2.2" ...>
//	  <persistence-unit name="shop">
//	    <class>com.example.Order</class>
//	    <class>com.example.OrderConverter</class>
//	  </persistence-unit>
//	</persistence>
//
// Save replaces the target file atomically: the document is written to a
// temporary file in the same directory and renamed over the target.
package descriptor
