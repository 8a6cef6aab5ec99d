// Package diagnostic provides structured info, warning and error messages
// collected while scanning a classpath and reconciling a descriptor.
//
// Key capabilities:
//   - Skipped classpath roots and unreadable class files
//   - Discovered classes missing from the descriptor
//   - Emitting collected diagnostics to the build log
package diagnostic
