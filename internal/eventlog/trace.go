package eventlog

import (
	"os"
	"sync/atomic"
)

// traceEnabled is read on the UI goroutine and written by tests.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("HOGWASH_TRACE") != "")
}

// TraceEnabled reports whether HOGWASH_TRACE is set. When it is, every
// message the UI receives is logged.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
