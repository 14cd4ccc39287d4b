//go:build !noverbose

package debuglog

// Trace reports a routine event. Compiled out entirely under the
// noverbose build tag — see trace_quiet.go — the way comboat.logDebug
// is a no-op by default.
func Trace(msg string) {
	println("[TRACE] " + msg)
}
