// Package fault defines the error kinds shared by every stage of a weave run.
//
// Each failure carries one of a fixed set of kinds so that callers can
// branch with errors.Is and the CLI can map a failure to an exit code:
//   - ErrConfiguration: bad or contradictory inputs, raised before scanning
//   - ErrScan: the classpath could not be scanned at all
//   - ErrMalformedDescriptor: an existing descriptor could not be parsed
//   - ErrIO: descriptor read/write failures
//   - ErrPipeline: failures reported by the downstream weaver
package fault
