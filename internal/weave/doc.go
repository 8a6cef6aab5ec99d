// Package weave hands the reconciled descriptor to the bytecode weaver.
//
// The weaver itself is an external collaborator. ExecWeaver runs it as a
// separate process using the argument convention of the EclipseLink
// StaticWeave command line tool; NopWeaver stands in when no weaver is
// configured.
package weave
