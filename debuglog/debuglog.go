// Package debuglog wraps println behind two calls so firmware tracing
// can be compiled out entirely, the same texture as the teacher's
// println/log.Println-based device logging (tmc2209.Setup's "Failed to
// set up..." prints, comboat's logDebug/logError split between a
// silenced trace call and an always-on error call). There is no stdout
// on a microcontroller, only a debug UART or semihosting channel, so
// this stays a thin wrapper rather than a structured logging library.
package debuglog

// Error reports a failure that should always reach the debug channel,
// regardless of build tag — the teacher's comboat.logError equivalent.
func Error(msg string) {
	println("[ERROR] " + msg)
}
