// Package logging provides the build log used by every stage of a weave run.
//
// Levels follow the java.util.logging vocabulary accepted by the weaver
// (OFF, SEVERE, WARNING, INFO, CONFIG, FINE, FINER, FINEST, ALL) and are
// mapped onto charmbracelet/log levels:
//
//	SEVERE            -> error
//	WARNING           -> warn
//	INFO, CONFIG      -> info
//	FINE .. ALL       -> debug
//	OFF               -> nothing is written
//
// Components receive a *log.Logger and derive their own prefix with
// WithPrefix; there is no package-level logger.
package logging
