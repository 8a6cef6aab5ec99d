// Package reconcile merges discovered classes into a persistence descriptor.
//
// Reconciliation is additive: classes found on the classpath but missing
// from the descriptor are added (and reported), while declared classes that
// were not discovered are left untouched. A narrower package filter on a
// later run therefore never drops entries.
package reconcile
