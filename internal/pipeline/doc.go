// Package pipeline runs one entity-weaver invocation end to end: scan the
// classpath, load or create persistence.xml, reconcile, save, report and
// weave.
//
// Nothing is written before the configuration has been validated. A failing
// weaver does not roll back the saved descriptor.
package pipeline
