// Package monitoring holds the diagnostic logger shared by the analysis
// packages. Output goes through Logf so tests and embedders can redirect or
// silence it.
package monitoring

import (
	"fmt"
	"log"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces Logf. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Sessionf logs through Logf with the session ID as a prefix.
func Sessionf(sessionID, format string, v ...interface{}) {
	Logf("[session %s] %s", sessionID, fmt.Sprintf(format, v...))
}
